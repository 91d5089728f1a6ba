package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"sai-tutoria/internal/dto"
	"sai-tutoria/internal/model"
	"sai-tutoria/internal/service"
	"sai-tutoria/pkg/response"
)

// GradeHandler partial grades
type GradeHandler struct {
	gradeSvc service.GradeService
}

// NewGradeHandler creates a GradeHandler
func NewGradeHandler(gradeSvc service.GradeService) *GradeHandler {
	return &GradeHandler{gradeSvc: gradeSvc}
}

// List GET /api/v1/grades
// Teachers only see the grades of their own subjects.
func (h *GradeHandler) List(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.GradeListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BindError(c, err)
		return
	}

	teacherID := ""
	if actor.Role == model.RoleTeacher {
		if actor.TeacherID == "" {
			handleCommonError(c, service.ErrNotTeacherUser)
			return
		}
		teacherID = actor.TeacherID
	}

	grades, total, err := h.gradeSvc.List(c.Request.Context(), &req, teacherID)
	if err != nil {
		h.handleGradeError(c, err)
		return
	}

	response.OKPage(c, grades, total, req.GetPage(), req.GetPageSize())
}

// Create POST /api/v1/grades
func (h *GradeHandler) Create(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	grade, err := h.gradeSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleGradeError(c, err)
		return
	}

	response.Created(c, grade)
}

// Update PUT /api/v1/grades/:id
func (h *GradeHandler) Update(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	grade, err := h.gradeSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		h.handleGradeError(c, err)
		return
	}

	response.OK(c, grade)
}

// Delete DELETE /api/v1/grades/:id
func (h *GradeHandler) Delete(c *gin.Context) {
	if err := h.gradeSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleGradeError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *GradeHandler) handleGradeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrGradeNotFound):
		response.NotFound(c, 14001, "Nota no encontrada")
	case errors.Is(err, service.ErrGradeExists):
		response.Conflict(c, 14002, "El estudiante ya tiene nota registrada en esta asignatura")
	default:
		handleCommonError(c, err)
	}
}
