// Package dto defines data transfer objects for the companies HTTP API.
package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"ipo_backend/internal/feature/ipo/domain/entity"
)

// CreateCompanyRequest is the body of POST /api/companies.
// Field rules are enforced by the usecase so every failure is reported per field.
type CreateCompanyRequest struct {
	Name        string          `json:"name"`
	TotalShares int64           `json:"totalShares"`
	Price       decimal.Decimal `json:"price"`
	StartDate   string          `json:"startDate"`
	EndDate     string          `json:"endDate"`
}

// CompanyItem is the public view of a company.
type CompanyItem struct {
	ID          uint            `json:"id" yaml:"id"`
	Name        string          `json:"name" yaml:"name"`
	TotalShares int64           `json:"totalShares" yaml:"totalShares"`
	Price       decimal.Decimal `json:"price" yaml:"price"`
	StartDate   string          `json:"startDate" yaml:"startDate"`
	EndDate     string          `json:"endDate" yaml:"endDate"`
	CreatedAt   time.Time       `json:"createdAt" yaml:"createdAt"`
}

// CompanyResponse wraps a company with an operation message.
type CompanyResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Company CompanyItem `json:"company"`
}

// NewCompanyItem converts an entity for output.
func NewCompanyItem(c *entity.Company) CompanyItem {
	return CompanyItem{
		ID:          c.ID,
		Name:        c.Name,
		TotalShares: c.TotalShares,
		Price:       c.Price,
		StartDate:   c.StartDate,
		EndDate:     c.EndDate,
		CreatedAt:   c.CreatedAt,
	}
}
