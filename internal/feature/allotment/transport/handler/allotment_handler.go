// Package handler provides HTTP handlers for allotment and refund runs.
package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ipo_backend/internal/feature/allotment/domain"
	"ipo_backend/internal/feature/allotment/transport/http/dto"
	"ipo_backend/internal/feature/ipo/domain/entity"
	ipodto "ipo_backend/internal/feature/ipo/transport/http/dto"
	"ipo_backend/internal/platform/http/response"
	"ipo_backend/internal/shared/apperr"
)

// AllotmentUsecase is the subset of allotment operations the handler needs.
type AllotmentUsecase interface {
	Allot(ctx context.Context, companyID uint) (*domain.AllotmentReport, error)
	Refund(ctx context.Context, companyID uint) (*domain.RefundReport, error)
	Results(ctx context.Context, companyID uint) ([]entity.ApplicationDetail, error)
}

// AllotmentHandler serves the allotment, refund and results endpoints.
type AllotmentHandler struct {
	uc AllotmentUsecase
}

// NewAllotmentHandler creates an AllotmentHandler.
func NewAllotmentHandler(uc AllotmentUsecase) *AllotmentHandler {
	return &AllotmentHandler{uc: uc}
}

// bindRun reads an optional RunRequest; an empty body is a zero request.
func bindRun(c *gin.Context) (dto.RunRequest, bool) {
	var req dto.RunRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, err)
		return req, false
	}
	return req, true
}

// RunAllotment handles POST /api/allotment.
func (h *AllotmentHandler) RunAllotment(c *gin.Context) {
	req, ok := bindRun(c)
	if !ok {
		return
	}

	rep, err := h.uc.Allot(c.Request.Context(), req.CompanyID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.AllotmentResponse{
		Success: true,
		Message: "Allotment process completed successfully",
		Report:  *rep,
	})
}

// RunRefunds handles POST /api/refunds.
func (h *AllotmentHandler) RunRefunds(c *gin.Context) {
	req, ok := bindRun(c)
	if !ok {
		return
	}

	rep, err := h.uc.Refund(c.Request.Context(), req.CompanyID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.RefundResponse{
		Success: true,
		Message: "Refunds calculated successfully",
		Report:  *rep,
	})
}

// Results handles GET /api/allotments. The optional companyId query
// narrows the view to one company.
func (h *AllotmentHandler) Results(c *gin.Context) {
	var companyID uint
	if raw := c.Query("companyId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			response.Error(c, apperr.NewValidationError("companyId", "must be a positive integer"))
			return
		}
		companyID = uint(id)
	}

	results, err := h.uc.Results(c.Request.Context(), companyID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, ipodto.NewDetailItems(results))
}
