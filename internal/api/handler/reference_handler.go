package handler

import (
	"github.com/gin-gonic/gin"

	"sai-tutoria/internal/dto"
	"sai-tutoria/internal/service"
	"sai-tutoria/pkg/response"
)

// ReferenceHandler cached academic reference data
type ReferenceHandler struct {
	refSvc service.ReferenceService
}

// NewReferenceHandler creates a ReferenceHandler
func NewReferenceHandler(refSvc service.ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{refSvc: refSvc}
}

// Periods GET /api/v1/reference/periods
func (h *ReferenceHandler) Periods(c *gin.Context) {
	list, err := h.refSvc.Periods(c.Request.Context())
	if err != nil {
		handleCommonError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// Levels GET /api/v1/reference/levels?period_id=
func (h *ReferenceHandler) Levels(c *gin.Context) {
	var q dto.LevelQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}
	list, err := h.refSvc.Levels(c.Request.Context(), &q)
	if err != nil {
		handleCommonError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// Sections GET /api/v1/reference/sections?semester_period_id=
func (h *ReferenceHandler) Sections(c *gin.Context) {
	var q dto.SectionQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}
	list, err := h.refSvc.Sections(c.Request.Context(), &q)
	if err != nil {
		handleCommonError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// Subjects GET /api/v1/reference/subjects?semester_period_id=&section_id=
func (h *ReferenceHandler) Subjects(c *gin.Context) {
	var q dto.SubjectQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}
	list, err := h.refSvc.Subjects(c.Request.Context(), &q)
	if err != nil {
		handleCommonError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// Teachers GET /api/v1/reference/teachers
func (h *ReferenceHandler) Teachers(c *gin.Context) {
	var q dto.TeacherQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}
	list, err := h.refSvc.Teachers(c.Request.Context(), &q)
	if err != nil {
		handleCommonError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// Students GET /api/v1/reference/students?keyword=
func (h *ReferenceHandler) Students(c *gin.Context) {
	var q dto.StudentQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}
	list, err := h.refSvc.Students(c.Request.Context(), &q)
	if err != nil {
		handleCommonError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// ClearCache POST /api/v1/reference/cache/clear
func (h *ReferenceHandler) ClearCache(c *gin.Context) {
	response.OK(c, h.refSvc.ClearCache())
}

// CacheStats GET /api/v1/reference/cache/stats
func (h *ReferenceHandler) CacheStats(c *gin.Context) {
	response.OK(c, h.refSvc.CacheStats())
}
