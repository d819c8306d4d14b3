// Package dto defines data transfer objects for the dashboard HTTP API.
package dto

import (
	"github.com/shopspring/decimal"

	"ipo_backend/internal/feature/dashboard/usecase"
	ipodto "ipo_backend/internal/feature/ipo/transport/http/dto"
)

// SummaryResponse is the body of GET /api/dashboard.
type SummaryResponse struct {
	Company               ipodto.CompanyItem `json:"company" yaml:"company"`
	TotalApplications     int64              `json:"totalApplications" yaml:"totalApplications"`
	TotalSharesReq        int64              `json:"totalSharesReq" yaml:"totalSharesReq"`
	TotalAmount           decimal.Decimal    `json:"totalAmount" yaml:"totalAmount"`
	TotalRefunds          decimal.Decimal    `json:"totalRefunds" yaml:"totalRefunds"`
	TotalSharesAllotted   int64              `json:"totalSharesAllotted" yaml:"totalSharesAllotted"`
	OversubscriptionRatio float64            `json:"oversubscriptionRatio" yaml:"oversubscriptionRatio"`
}

// NewSummaryResponse converts a summary for output. A nil summary stays nil.
func NewSummaryResponse(s *usecase.Summary) *SummaryResponse {
	if s == nil {
		return nil
	}
	return &SummaryResponse{
		Company:               ipodto.NewCompanyItem(s.Company),
		TotalApplications:     s.Totals.Applications,
		TotalSharesReq:        s.Totals.SharesReq,
		TotalAmount:           s.Totals.Amount,
		TotalRefunds:          s.Totals.Refunds,
		TotalSharesAllotted:   s.Totals.SharesAllotted,
		OversubscriptionRatio: s.OversubscriptionRatio,
	}
}
