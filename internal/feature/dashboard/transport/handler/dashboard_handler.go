// Package handler provides the HTTP handler for the dashboard summary.
package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ipo_backend/internal/feature/dashboard/transport/http/dto"
	"ipo_backend/internal/feature/dashboard/usecase"
	"ipo_backend/internal/platform/http/response"
	"ipo_backend/internal/shared/apperr"
)

// DashboardUsecase computes summaries.
type DashboardUsecase interface {
	Summary(ctx context.Context, companyID uint) (*usecase.Summary, error)
}

// DashboardHandler serves GET /api/dashboard.
type DashboardHandler struct {
	uc DashboardUsecase
}

// NewDashboardHandler creates a DashboardHandler.
func NewDashboardHandler(uc DashboardUsecase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Summary answers with the active company's summary, or with JSON null when
// no company exists. ?companyId= selects a specific company.
func (h *DashboardHandler) Summary(c *gin.Context) {
	var companyID uint
	if raw := c.Query("companyId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			response.Error(c, apperr.NewValidationError("companyId", "must be a positive integer"))
			return
		}
		companyID = uint(id)
	}

	s, err := h.uc.Summary(c.Request.Context(), companyID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSummaryResponse(s))
}
