package model

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"ipo_backend/internal/feature/ipo/domain/entity"
)

// DetailRow is the scan target for the joined application view.
type DetailRow struct {
	ApplicationID uint
	ApplicantID   uint
	CompanyID     uint
	SharesReq     int64
	Amount        decimal.Decimal
	ApplicantName string
	PAN           string `gorm:"column:pan"`
	DematNo       string
	CompanyName   string
	Price         decimal.Decimal
	AllotmentID   *uint
	SharesAlloted *int64
	RefundID      *uint
	RefundAmount  decimal.NullDecimal
}

// ToEntity converts the row to a domain view.
func (r *DetailRow) ToEntity() entity.ApplicationDetail {
	d := entity.ApplicationDetail{
		ApplicationID: r.ApplicationID,
		ApplicantID:   r.ApplicantID,
		CompanyID:     r.CompanyID,
		SharesReq:     r.SharesReq,
		Amount:        r.Amount,
		ApplicantName: r.ApplicantName,
		PAN:           r.PAN,
		DematNo:       r.DematNo,
		CompanyName:   r.CompanyName,
		Price:         r.Price,
		AllotmentID:   r.AllotmentID,
		SharesAlloted: r.SharesAlloted,
		RefundID:      r.RefundID,
	}
	if r.RefundAmount.Valid {
		amt := r.RefundAmount.Decimal
		d.RefundAmount = &amt
	}
	return d
}

// DetailQuery builds the joined application view, newest first. A zero
// companyID selects every company.
func DetailQuery(db *gorm.DB, companyID uint) *gorm.DB {
	q := db.Table("applications AS app").
		Select(`app.id AS application_id,
			app.applicant_id AS applicant_id,
			app.company_id AS company_id,
			app.shares_req AS shares_req,
			app.amount AS amount,
			applicant.name AS applicant_name,
			applicant.pan AS pan,
			applicant.demat_no AS demat_no,
			c.name AS company_name,
			c.price AS price,
			allot.id AS allotment_id,
			allot.shares_alloted AS shares_alloted,
			ref.id AS refund_id,
			ref.amount AS refund_amount`).
		Joins("JOIN applicants AS applicant ON app.applicant_id = applicant.id").
		Joins("JOIN companies AS c ON app.company_id = c.id").
		Joins("LEFT JOIN allotments AS allot ON app.id = allot.application_id").
		Joins("LEFT JOIN refunds AS ref ON allot.id = ref.allotment_id").
		Order("app.id DESC")
	if companyID != 0 {
		q = q.Where("app.company_id = ?", companyID)
	}
	return q
}

// ListDetails runs DetailQuery and converts the rows.
func ListDetails(db *gorm.DB, companyID uint) ([]entity.ApplicationDetail, error) {
	var rows []DetailRow
	if err := DetailQuery(db, companyID).Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.ApplicationDetail, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToEntity())
	}
	return out, nil
}
