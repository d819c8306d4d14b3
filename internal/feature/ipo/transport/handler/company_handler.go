// Package handler provides HTTP handlers for the companies API.
package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ipo_backend/internal/feature/ipo/domain/entity"
	"ipo_backend/internal/feature/ipo/transport/http/dto"
	"ipo_backend/internal/feature/ipo/usecase"
	"ipo_backend/internal/platform/http/response"
	"ipo_backend/internal/shared/apperr"
)

// CompanyUsecase is the subset of company operations the handler needs.
type CompanyUsecase interface {
	Create(ctx context.Context, in usecase.CreateCompanyInput) (*entity.Company, error)
	List(ctx context.Context) ([]entity.Company, error)
	Active(ctx context.Context) (*entity.Company, error)
	Activate(ctx context.Context, id uint) (*entity.Company, error)
}

// CompanyHandler serves /api/companies.
type CompanyHandler struct {
	uc CompanyUsecase
}

// NewCompanyHandler creates a CompanyHandler.
func NewCompanyHandler(uc CompanyUsecase) *CompanyHandler {
	return &CompanyHandler{uc: uc}
}

// Create handles POST /api/companies and answers 201 with the new company.
func (h *CompanyHandler) Create(c *gin.Context) {
	var req dto.CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	company, err := h.uc.Create(c.Request.Context(), usecase.CreateCompanyInput{
		Name:        req.Name,
		TotalShares: req.TotalShares,
		Price:       req.Price,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.CompanyResponse{
		Success: true,
		Message: "IPO created successfully",
		Company: dto.NewCompanyItem(company),
	})
}

// List handles GET /api/companies.
func (h *CompanyHandler) List(c *gin.Context) {
	companies, err := h.uc.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	out := make([]dto.CompanyItem, 0, len(companies))
	for i := range companies {
		out = append(out, dto.NewCompanyItem(&companies[i]))
	}
	c.JSON(http.StatusOK, out)
}

// Active handles GET /api/companies/active.
func (h *CompanyHandler) Active(c *gin.Context) {
	company, err := h.uc.Active(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewCompanyItem(company))
}

// Activate handles PUT /api/companies/:id/activate.
func (h *CompanyHandler) Activate(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.Error(c, apperr.NewValidationError("id", "must be a positive integer"))
		return
	}

	company, err := h.uc.Activate(c.Request.Context(), uint(id))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CompanyResponse{
		Success: true,
		Message: "Active IPO changed",
		Company: dto.NewCompanyItem(company),
	})
}
