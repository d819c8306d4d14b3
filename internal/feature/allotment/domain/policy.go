package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// RefundPolicy decides what a refund run does when refunds already exist.
type RefundPolicy string

const (
	// RefundRecompute deletes the company's refunds and recomputes them in
	// the same transaction, making refund runs idempotent.
	RefundRecompute RefundPolicy = "recompute"
	// RefundFailOnRerun inserts without clearing, so a rerun trips the
	// one-refund-per-allotment constraint and fails.
	RefundFailOnRerun RefundPolicy = "fail"
)

// ParseRefundPolicy maps a configuration value to a policy. Empty means recompute.
func ParseRefundPolicy(s string) (RefundPolicy, error) {
	switch RefundPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", RefundRecompute:
		return RefundRecompute, nil
	case RefundFailOnRerun:
		return RefundFailOnRerun, nil
	default:
		return "", fmt.Errorf("unknown refund rerun policy %q (want %q or %q)", s, RefundRecompute, RefundFailOnRerun)
	}
}

// AllotmentReport summarizes one allotment run.
type AllotmentReport struct {
	CompanyID        uint    `json:"companyId" yaml:"companyId"`
	Mode             Mode    `json:"mode" yaml:"mode"`
	TotalShares      int64   `json:"totalShares" yaml:"totalShares"`
	TotalDemand      int64   `json:"totalDemand" yaml:"totalDemand"`
	Ratio            float64 `json:"ratio" yaml:"ratio"`
	Applications     int     `json:"applications" yaml:"applications"`
	SharesAllotted   int64   `json:"sharesAllotted" yaml:"sharesAllotted"`
	UnallottedShares int64   `json:"unallottedShares" yaml:"unallottedShares"`
}

// NewAllotmentReport derives the report for a plan.
func NewAllotmentReport(companyID uint, p Plan) AllotmentReport {
	return AllotmentReport{
		CompanyID:        companyID,
		Mode:             p.Mode,
		TotalShares:      p.TotalShares,
		TotalDemand:      p.TotalDemand,
		Ratio:            p.Ratio(),
		Applications:     len(p.Allocations),
		SharesAllotted:   p.SharesAllotted,
		UnallottedShares: p.Unallotted(),
	}
}

// RefundReport summarizes one refund run.
type RefundReport struct {
	CompanyID   uint            `json:"companyId" yaml:"companyId"`
	Policy      RefundPolicy    `json:"policy" yaml:"policy"`
	Allotments  int             `json:"allotments" yaml:"allotments"`
	Refunds     int             `json:"refunds" yaml:"refunds"`
	TotalAmount decimal.Decimal `json:"totalAmount" yaml:"totalAmount"`
}
