// Package handler provides HTTP handlers for operator settings.
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"ipo_backend/internal/feature/settings/domain"
	"ipo_backend/internal/feature/settings/transport/http/dto"
	"ipo_backend/internal/platform/http/response"
)

// SettingsUsecase reads and writes settings.
type SettingsUsecase interface {
	Get(ctx context.Context) (domain.Sections, error)
	Update(ctx context.Context, update map[string]any) (domain.Sections, error)
}

// SettingsHandler serves /api/settings.
type SettingsHandler struct {
	uc SettingsUsecase
}

// NewSettingsHandler creates a SettingsHandler.
func NewSettingsHandler(uc SettingsUsecase) *SettingsHandler {
	return &SettingsHandler{uc: uc}
}

// Get handles GET /api/settings.
func (h *SettingsHandler) Get(c *gin.Context) {
	s, err := h.uc.Get(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// Update handles PUT /api/settings with a nested {section: {field: value}} body.
func (h *SettingsHandler) Update(c *gin.Context) {
	var req map[string]any
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	s, err := h.uc.Update(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.UpdateResponse{
		Success:  true,
		Message:  "Settings updated successfully",
		Settings: s,
	})
}
