package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"sai-tutoria/internal/dto"
	"sai-tutoria/internal/service"
	"sai-tutoria/pkg/response"
)

// AssignmentHandler at-risk candidates and tutoring assignment
type AssignmentHandler struct {
	riskSvc       service.RiskService
	assignmentSvc service.AssignmentService
}

// NewAssignmentHandler creates an AssignmentHandler
func NewAssignmentHandler(riskSvc service.RiskService, assignmentSvc service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{riskSvc: riskSvc, assignmentSvc: assignmentSvc}
}

// Candidates GET /api/v1/tutoring/candidates?period_id=&level_id=
func (h *AssignmentHandler) Candidates(c *gin.Context) {
	var q dto.CandidateQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}

	partition, err := h.riskSvc.Resolve(c.Request.Context(), q.PeriodID, q.LevelID)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.OK(c, partition)
}

// Create POST /api/v1/tutoring/assignments
func (h *AssignmentHandler) Create(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	resp, err := h.assignmentSvc.Create(c.Request.Context(), &req, actor)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.Created(c, resp)
}

// List GET /api/v1/tutoring/assignments
func (h *AssignmentHandler) List(c *gin.Context) {
	var req dto.AssignmentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BindError(c, err)
		return
	}

	list, total, err := h.assignmentSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// Notify POST /api/v1/tutoring/assignments/:id/notify
func (h *AssignmentHandler) Notify(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	n, err := h.assignmentSvc.Notify(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.OK(c, n)
}

// Notifications GET /api/v1/tutoring/assignments/:id/notifications
func (h *AssignmentHandler) Notifications(c *gin.Context) {
	logs, err := h.assignmentSvc.Notifications(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.OK(c, gin.H{"list": logs})
}

// Archive DELETE /api/v1/tutoring/assignments/:id
func (h *AssignmentHandler) Archive(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	if err := h.assignmentSvc.Archive(c.Request.Context(), c.Param("id"), actor); err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *AssignmentHandler) handleAssignmentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrIncompleteSelection):
		response.Unprocessable(c, 15001, "Seleccione período y nivel")
	case errors.Is(err, service.ErrAssignmentExists):
		response.Conflict(c, 15002, "El estudiante ya tiene tutoría asignada en esta asignatura")
	case errors.Is(err, service.ErrNotAtRisk):
		response.Conflict(c, 15003, "El estudiante no está en riesgo en esta asignatura")
	case errors.Is(err, service.ErrGradeNotFound):
		response.NotFound(c, 15004, "Nota no encontrada")
	case errors.Is(err, service.ErrTutoringNotFound):
		response.NotFound(c, 15005, "Tutoría no encontrada")
	default:
		handleCommonError(c, err)
	}
}
