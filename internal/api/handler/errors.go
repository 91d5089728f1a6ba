package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"sai-tutoria/internal/service"
	pkgerrors "sai-tutoria/pkg/errors"
	"sai-tutoria/pkg/response"
)

// handleCommonError maps errors no module handler claimed, by family.
// Anything unknown is a 500 and is attached to the context for the request log.
func handleCommonError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		response.Error(c, http.StatusRequestEntityTooLarge, 10005, "El cuerpo de la solicitud es demasiado grande")
	case errors.Is(err, service.ErrNoPermission):
		response.Forbidden(c, 10003, service.ErrNoPermission.Error())
	case errors.Is(err, service.ErrNotTeacherUser):
		response.Forbidden(c, 10006, service.ErrNotTeacherUser.Error())
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 10007, pkgerrors.ErrOptimisticLock.Error())
	case errors.Is(err, service.ErrCapacityExceeded):
		response.Conflict(c, 10008, err.Error())
	case errors.Is(err, service.ErrInvalidTransition):
		response.Conflict(c, 10009, err.Error())
	case errors.Is(err, service.ErrValidation):
		response.Unprocessable(c, 10010, err.Error())
	case errors.Is(err, service.ErrPeriodNotFound),
		errors.Is(err, service.ErrLevelNotFound),
		errors.Is(err, service.ErrSectionNotFound),
		errors.Is(err, service.ErrSubjectNotFound),
		errors.Is(err, service.ErrTeacherNotFound),
		errors.Is(err, service.ErrStudentNotFound):
		response.NotFound(c, 13001, err.Error())
	default:
		_ = c.Error(err)
		response.InternalError(c)
	}
}
