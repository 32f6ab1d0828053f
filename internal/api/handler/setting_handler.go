package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Iamanointing/mvv/internal/dto"
	"github.com/Iamanointing/mvv/internal/model"
	"github.com/Iamanointing/mvv/internal/service"
	"github.com/Iamanointing/mvv/pkg/response"
)

// SettingHandler controls the registration and voting windows (admin).
type SettingHandler struct {
	settingSvc service.SettingService
}

// NewSettingHandler creates a SettingHandler.
func NewSettingHandler(settingSvc service.SettingService) *SettingHandler {
	return &SettingHandler{settingSvc: settingSvc}
}

// GetSettings all flags as {key: value}
// GET /api/admin/settings
func (h *SettingHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingSvc.GetAll(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, settings)
}

// UpdateSetting
// PUT /api/admin/settings
func (h *SettingHandler) UpdateSetting(c *gin.Context) {
	var req dto.UpdateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Key and value are required")
		return
	}

	if err := h.settingSvc.Update(c.Request.Context(), req.Key, req.Value); err != nil {
		handleSettingError(c, err)
		return
	}
	response.Message(c, "Setting updated successfully")
}

// ToggleRegistration
// POST /api/admin/settings/toggle-registration
func (h *SettingHandler) ToggleRegistration(c *gin.Context) {
	open, err := h.settingSvc.ToggleRegistration(c.Request.Context())
	if err != nil {
		handleSettingError(c, err)
		return
	}
	response.OK(c, gin.H{model.SettingRegistrationOpen: open})
}

// ToggleVoting
// POST /api/admin/settings/toggle-voting
func (h *SettingHandler) ToggleVoting(c *gin.Context) {
	open, err := h.settingSvc.ToggleVoting(c.Request.Context())
	if err != nil {
		handleSettingError(c, err)
		return
	}
	response.OK(c, gin.H{model.SettingVotingOpen: open})
}

// EndVoting closes voting for good
// POST /api/admin/settings/end-voting
func (h *SettingHandler) EndVoting(c *gin.Context) {
	if err := h.settingSvc.EndVoting(c.Request.Context()); err != nil {
		handleSettingError(c, err)
		return
	}
	response.Message(c, "Voting ended successfully")
}

func handleSettingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUnknownSetting):
		response.BadRequest(c, "Unknown setting")
	case errors.Is(err, service.ErrInvalidSettingValue):
		response.BadRequest(c, `Setting value must be "0" or "1"`)
	default:
		_ = c.Error(err)
		response.InternalError(c)
	}
}
