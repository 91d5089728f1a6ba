package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"sai-tutoria/internal/dto"
	"sai-tutoria/internal/service"
	"sai-tutoria/pkg/response"
)

// CronogramaHandler document types and schedule entries
type CronogramaHandler struct {
	cronSvc service.CronogramaService
}

// NewCronogramaHandler creates a CronogramaHandler
func NewCronogramaHandler(cronSvc service.CronogramaService) *CronogramaHandler {
	return &CronogramaHandler{cronSvc: cronSvc}
}

// ────── document types ──────

// ListDocumentTypes GET /api/v1/cronograma/document-types?active=true
func (h *CronogramaHandler) ListDocumentTypes(c *gin.Context) {
	list, err := h.cronSvc.ListDocumentTypes(c.Request.Context(), c.Query("active") == "true")
	if err != nil {
		h.handleCronogramaError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// CreateDocumentType POST /api/v1/cronograma/document-types
func (h *CronogramaHandler) CreateDocumentType(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateDocumentTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	dt, err := h.cronSvc.CreateDocumentType(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleCronogramaError(c, err)
		return
	}
	response.Created(c, dt)
}

// UpdateDocumentType PUT /api/v1/cronograma/document-types/:id
func (h *CronogramaHandler) UpdateDocumentType(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateDocumentTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	dt, err := h.cronSvc.UpdateDocumentType(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		h.handleCronogramaError(c, err)
		return
	}
	response.OK(c, dt)
}

// DeleteDocumentType DELETE /api/v1/cronograma/document-types/:id
func (h *CronogramaHandler) DeleteDocumentType(c *gin.Context) {
	if err := h.cronSvc.DeleteDocumentType(c.Request.Context(), c.Param("id")); err != nil {
		h.handleCronogramaError(c, err)
		return
	}
	response.OK(c, nil)
}

// ────── entries ──────

// ListEntries GET /api/v1/cronograma/entries?period_id=
func (h *CronogramaHandler) ListEntries(c *gin.Context) {
	var q dto.CronogramaQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}

	list, err := h.cronSvc.ListEntries(c.Request.Context(), q.PeriodID)
	if err != nil {
		h.handleCronogramaError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// CreateEntry POST /api/v1/cronograma/entries
func (h *CronogramaHandler) CreateEntry(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateScheduleEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	e, err := h.cronSvc.CreateEntry(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleCronogramaError(c, err)
		return
	}
	response.Created(c, e)
}

// UpdateEntry PUT /api/v1/cronograma/entries/:id
func (h *CronogramaHandler) UpdateEntry(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateScheduleEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	e, err := h.cronSvc.UpdateEntry(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		h.handleCronogramaError(c, err)
		return
	}
	response.OK(c, e)
}

// DeleteEntry DELETE /api/v1/cronograma/entries/:id
func (h *CronogramaHandler) DeleteEntry(c *gin.Context) {
	if err := h.cronSvc.DeleteEntry(c.Request.Context(), c.Param("id")); err != nil {
		h.handleCronogramaError(c, err)
		return
	}
	response.OK(c, nil)
}

// Grouped GET /api/v1/cronograma/grouped?period_id=
func (h *CronogramaHandler) Grouped(c *gin.Context) {
	var q dto.CronogramaQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}

	rows, err := h.cronSvc.Grouped(c.Request.Context(), q.PeriodID)
	if err != nil {
		h.handleCronogramaError(c, err)
		return
	}
	response.OK(c, gin.H{"list": rows})
}

func (h *CronogramaHandler) handleCronogramaError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrDocumentTypeNotFound):
		response.NotFound(c, 16001, "Tipo de documento no encontrado")
	case errors.Is(err, service.ErrDocumentTypeExists):
		response.Conflict(c, 16002, "Ya existe un tipo de documento con ese nombre")
	case errors.Is(err, service.ErrDocumentTypeInUse):
		response.Conflict(c, 16003, "El tipo de documento está en uso en el cronograma")
	case errors.Is(err, service.ErrDocumentTypeInactive):
		response.Unprocessable(c, 16004, "El tipo de documento está inactivo")
	case errors.Is(err, service.ErrScheduleEntryNotFound):
		response.NotFound(c, 16005, "Entrega no encontrada en el cronograma")
	default:
		handleCommonError(c, err)
	}
}
