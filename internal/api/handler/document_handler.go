package handler

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"sai-tutoria/internal/dto"
	"sai-tutoria/internal/service"
	"sai-tutoria/pkg/response"
)

// uploadField multipart field carrying the PDF
const uploadField = "archivo"

// DocumentHandler annex uploads
type DocumentHandler struct {
	docSvc service.DocumentService
}

// NewDocumentHandler creates a DocumentHandler
func NewDocumentHandler(docSvc service.DocumentService) *DocumentHandler {
	return &DocumentHandler{docSvc: docSvc}
}

// Upload POST /api/v1/documents (multipart/form-data)
func (h *DocumentHandler) Upload(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var form dto.UploadDocumentForm
	if err := c.ShouldBind(&form); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.handleDocumentError(c, err)
			return
		}
		response.BindError(c, err)
		return
	}

	var upload *service.FileUpload
	fh, err := c.FormFile(uploadField)
	switch {
	case errors.Is(err, http.ErrMissingFile):
		// the service reports the missing file
	case err != nil:
		h.handleDocumentError(c, err)
		return
	default:
		var f multipart.File
		f, err = fh.Open()
		if err != nil {
			h.handleDocumentError(c, err)
			return
		}
		defer f.Close()
		upload = &service.FileUpload{Name: fh.Filename, Size: fh.Size, Content: f}
	}

	doc, err := h.docSvc.Upload(c.Request.Context(), &form, upload, actor)
	if err != nil {
		h.handleDocumentError(c, err)
		return
	}

	response.Created(c, doc)
}

// List GET /api/v1/documents
func (h *DocumentHandler) List(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.DocumentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BindError(c, err)
		return
	}

	docs, total, err := h.docSvc.List(c.Request.Context(), &req, actor)
	if err != nil {
		h.handleDocumentError(c, err)
		return
	}

	response.OKPage(c, docs, total, req.GetPage(), req.GetPageSize())
}

func (h *DocumentHandler) handleDocumentError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge), errors.Is(err, service.ErrFileTooLarge):
		response.Error(c, http.StatusRequestEntityTooLarge, 17001, "El archivo supera el tamaño máximo permitido")
	case errors.Is(err, service.ErrFileNotPDF):
		response.Error(c, http.StatusUnsupportedMediaType, 17002, "Solo se admiten archivos PDF")
	case errors.Is(err, service.ErrFileRequired):
		response.BadRequest(c, 17003, "Debe adjuntar un archivo en el campo archivo")
	case errors.Is(err, service.ErrScheduleEntryNotFound):
		response.NotFound(c, 17004, "Entrega no encontrada en el cronograma")
	case errors.Is(err, service.ErrScheduleNotActive):
		response.Unprocessable(c, 17005, "La entrega no está activa en el cronograma")
	case errors.Is(err, service.ErrStoreFileFail):
		_ = c.Error(err)
		response.InternalError(c)
	default:
		handleCommonError(c, err)
	}
}
