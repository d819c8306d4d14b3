// Package handler provides HTTP handlers for the applications API.
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"ipo_backend/internal/feature/application/domain"
	"ipo_backend/internal/feature/application/transport/http/dto"
	"ipo_backend/internal/feature/application/usecase"
	"ipo_backend/internal/feature/ipo/domain/entity"
	ipodto "ipo_backend/internal/feature/ipo/transport/http/dto"
	"ipo_backend/internal/platform/http/response"
)

// ApplicationUsecase is the subset of application operations the handler needs.
type ApplicationUsecase interface {
	Submit(ctx context.Context, s domain.Submission) (*usecase.Result, error)
	List(ctx context.Context) ([]entity.ApplicationDetail, error)
}

// ApplicationHandler serves /api/applications.
type ApplicationHandler struct {
	uc ApplicationUsecase
}

// NewApplicationHandler creates an ApplicationHandler.
func NewApplicationHandler(uc ApplicationUsecase) *ApplicationHandler {
	return &ApplicationHandler{uc: uc}
}

// Submit handles POST /api/applications.
// Validation and duplicate failures answer 400 with per-field messages;
// a missing active IPO answers 404.
func (h *ApplicationHandler) Submit(c *gin.Context) {
	var req dto.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	res, err := h.uc.Submit(c.Request.Context(), domain.Submission{
		Name:      req.Name,
		PAN:       req.PAN,
		DematNo:   req.DematNo,
		SharesReq: req.SharesReq,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	a := res.Application
	c.JSON(http.StatusCreated, dto.SubmitResponse{
		Success: true,
		Message: "Application submitted successfully",
		Application: dto.ApplicationItem{
			ID:          a.ID,
			ApplicantID: a.ApplicantID,
			CompanyID:   a.CompanyID,
			SharesReq:   a.SharesReq,
			Amount:      a.Amount,
		},
	})
}

// List handles GET /api/applications.
func (h *ApplicationHandler) List(c *gin.Context) {
	details, err := h.uc.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, ipodto.NewDetailItems(details))
}
