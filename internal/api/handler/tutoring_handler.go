package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"sai-tutoria/internal/dto"
	"sai-tutoria/internal/service"
	"sai-tutoria/pkg/response"
)

// TutoringHandler tutoring records, sessions and statistics
type TutoringHandler struct {
	tutoringSvc service.TutoringService
	statsSvc    service.StatsService
}

// NewTutoringHandler creates a TutoringHandler
func NewTutoringHandler(tutoringSvc service.TutoringService, statsSvc service.StatsService) *TutoringHandler {
	return &TutoringHandler{tutoringSvc: tutoringSvc, statsSvc: statsSvc}
}

// ────── records ──────

// Register POST /api/v1/tutoring/records
func (h *TutoringHandler) Register(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.RegisterTutoringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	t, err := h.tutoringSvc.RegisterParent(c.Request.Context(), &req, actor)
	if err != nil {
		h.handleTutoringError(c, err)
		return
	}

	response.OK(c, t)
}

// Update PUT /api/v1/tutoring/records/:id
func (h *TutoringHandler) Update(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.UpdateTutoringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	t, err := h.tutoringSvc.UpdateParent(c.Request.Context(), c.Param("id"), &req, actor)
	if err != nil {
		h.handleTutoringError(c, err)
		return
	}

	response.OK(c, t)
}

// Get GET /api/v1/tutoring/records/:id
func (h *TutoringHandler) Get(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	t, err := h.tutoringSvc.Get(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		h.handleTutoringError(c, err)
		return
	}

	response.OK(c, t)
}

// Progress GET /api/v1/tutoring/records/:id/progress
func (h *TutoringHandler) Progress(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	p, err := h.tutoringSvc.Progress(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		h.handleTutoringError(c, err)
		return
	}

	response.OK(c, p)
}

// ────── sessions ──────

// ListSessions GET /api/v1/tutoring/records/:id/sessions
func (h *TutoringHandler) ListSessions(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	list, err := h.tutoringSvc.ListSessions(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		h.handleTutoringError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// AppendSession POST /api/v1/tutoring/records/:id/sessions
func (h *TutoringHandler) AppendSession(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	s, err := h.tutoringSvc.AppendSession(c.Request.Context(), c.Param("id"), &req, actor)
	if err != nil {
		h.handleTutoringError(c, err)
		return
	}

	response.Created(c, s)
}

// UpdateSession PUT /api/v1/tutoring/sessions/:id
func (h *TutoringHandler) UpdateSession(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.UpdateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	s, err := h.tutoringSvc.UpdateSession(c.Request.Context(), c.Param("id"), &req, actor)
	if err != nil {
		h.handleTutoringError(c, err)
		return
	}

	response.OK(c, s)
}

// TransitionSession PATCH /api/v1/tutoring/sessions/:id/status
func (h *TutoringHandler) TransitionSession(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.TransitionSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	s, err := h.tutoringSvc.TransitionSession(c.Request.Context(), c.Param("id"), req.Status, actor)
	if err != nil {
		h.handleTutoringError(c, err)
		return
	}

	response.OK(c, s)
}

// DeleteSession DELETE /api/v1/tutoring/sessions/:id
func (h *TutoringHandler) DeleteSession(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	if err := h.tutoringSvc.DeleteSession(c.Request.Context(), c.Param("id"), actor); err != nil {
		h.handleTutoringError(c, err)
		return
	}

	response.OK(c, nil)
}

// Statuses GET /api/v1/tutoring/statuses
func (h *TutoringHandler) Statuses(c *gin.Context) {
	response.OK(c, gin.H{"list": h.tutoringSvc.Statuses()})
}

// ────── teacher report ──────

// MyStudents GET /api/v1/tutoring/my-students?semester_period_id=
func (h *TutoringHandler) MyStudents(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var q dto.MyStudentsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}

	list, err := h.tutoringSvc.MyStudents(c.Request.Context(), q.SemesterPeriodID, actor)
	if err != nil {
		h.handleTutoringError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// Stats GET /api/v1/tutoring/stats?semester_period_id=
func (h *TutoringHandler) Stats(c *gin.Context) {
	var q dto.StatsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}

	stats, err := h.statsSvc.Summary(c.Request.Context(), &q)
	if err != nil {
		handleCommonError(c, err)
		return
	}

	response.OK(c, stats)
}

func (h *TutoringHandler) handleTutoringError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTutoringNotFound):
		response.NotFound(c, 15005, "Tutoría no encontrada")
	case errors.Is(err, service.ErrSessionNotFound):
		response.NotFound(c, 15006, "Sesión no encontrada")
	case errors.Is(err, service.ErrCapacityExceeded):
		response.Conflict(c, 15007, "Se alcanzó el número de sesiones requeridas")
	case errors.Is(err, service.ErrSessionLocked):
		response.Conflict(c, 15008, "La sesión está bloqueada y no admite cambios")
	default:
		handleCommonError(c, err)
	}
}
