// Package adapters provides the gorm-backed dashboard aggregates.
package adapters

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"ipo_backend/internal/feature/dashboard/usecase"
	"ipo_backend/internal/platform/db/model"
)

type summaryGorm struct {
	db *gorm.DB
}

var _ usecase.SummaryRepository = (*summaryGorm)(nil)

// NewSummaryRepository creates a summaryGorm for the given connection.
func NewSummaryRepository(db *gorm.DB) *summaryGorm {
	return &summaryGorm{db: db}
}

// Totals computes the company's aggregates. Counts and share sums are done in
// SQL; money columns are summed as decimals so no float rounding leaks in.
func (r *summaryGorm) Totals(ctx context.Context, companyID uint) (usecase.Totals, error) {
	var t usecase.Totals
	db := r.db.WithContext(ctx)

	var shares struct {
		Applications int64
		SharesReq    int64
	}
	if err := db.Model(&model.ApplicationModel{}).
		Select("COUNT(*) AS applications, COALESCE(SUM(shares_req), 0) AS shares_req").
		Where("company_id = ?", companyID).
		Scan(&shares).Error; err != nil {
		return t, err
	}
	t.Applications = shares.Applications
	t.SharesReq = shares.SharesReq

	if err := db.Model(&model.AllotmentModel{}).
		Select("COALESCE(SUM(allotments.shares_alloted), 0)").
		Joins("JOIN applications ON applications.id = allotments.application_id").
		Where("applications.company_id = ?", companyID).
		Scan(&t.SharesAllotted).Error; err != nil {
		return t, err
	}

	var amounts []decimal.Decimal
	if err := db.Model(&model.ApplicationModel{}).
		Where("company_id = ?", companyID).
		Pluck("amount", &amounts).Error; err != nil {
		return t, err
	}
	t.Amount = sum(amounts)

	var refunds []decimal.Decimal
	if err := db.Model(&model.RefundModel{}).
		Joins("JOIN allotments ON allotments.id = refunds.allotment_id").
		Joins("JOIN applications ON applications.id = allotments.application_id").
		Where("applications.company_id = ?", companyID).
		Pluck("refunds.amount", &refunds).Error; err != nil {
		return t, err
	}
	t.Refunds = sum(refunds)
	return t, nil
}

func sum(vals []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range vals {
		total = total.Add(v)
	}
	return total
}
