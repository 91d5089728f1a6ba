package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"sai-tutoria/internal/dto"
	"sai-tutoria/internal/service"
	"sai-tutoria/pkg/response"
)

// SettingsHandler tutoring settings
type SettingsHandler struct {
	settingsSvc service.SettingsService
}

// NewSettingsHandler creates a SettingsHandler
func NewSettingsHandler(settingsSvc service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsSvc: settingsSvc}
}

// Get GET /api/v1/settings/tutoring
func (h *SettingsHandler) Get(c *gin.Context) {
	s, err := h.settingsSvc.Get(c.Request.Context())
	if err != nil {
		handleCommonError(c, err)
		return
	}
	response.OK(c, s)
}

// Update PUT /api/v1/settings/tutoring
func (h *SettingsHandler) Update(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateTutoringSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	s, err := h.settingsSvc.Update(c.Request.Context(), &req, callerID)
	if err != nil {
		if errors.Is(err, service.ErrDefaultSessionsTooHigh) {
			response.Unprocessable(c, 14101, "El número de sesiones por defecto excede el máximo permitido")
			return
		}
		handleCommonError(c, err)
		return
	}
	response.OK(c, s)
}
