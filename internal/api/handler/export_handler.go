package handler

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"sai-tutoria/internal/dto"
	"sai-tutoria/internal/service"
	"sai-tutoria/pkg/response"
)

const (
	contentTypePDF  = "application/pdf"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ExportHandler cronograma downloads
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler creates an ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// CronogramaPDF GET /api/v1/export/cronograma.pdf?period_id=
func (h *ExportHandler) CronogramaPDF(c *gin.Context) {
	var q dto.CronogramaQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}

	buf, filename, err := h.exportSvc.CronogramaPDF(c.Request.Context(), q.PeriodID)
	if err != nil {
		h.handleExportError(c, err)
		return
	}
	sendFile(c, buf, filename, contentTypePDF)
}

// CronogramaExcel GET /api/v1/export/cronograma.xlsx?period_id=
func (h *ExportHandler) CronogramaExcel(c *gin.Context) {
	var q dto.CronogramaQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}

	buf, filename, err := h.exportSvc.CronogramaExcel(c.Request.Context(), q.PeriodID)
	if err != nil {
		h.handleExportError(c, err)
		return
	}
	sendFile(c, buf, filename, contentTypeXLSX)
}

func sendFile(c *gin.Context, buf *bytes.Buffer, filename, contentType string) {
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(filename))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPeriodNotFound):
		response.NotFound(c, 16101, "Período no encontrado")
	case errors.Is(err, service.ErrExportGenerateFail):
		_ = c.Error(err)
		response.InternalError(c)
	default:
		handleCommonError(c, err)
	}
}
