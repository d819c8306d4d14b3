package entity

import "github.com/shopspring/decimal"

// ApplicationDetail is the joined, read-only view of an application with its
// applicant, company, allotment and refund.
type ApplicationDetail struct {
	ApplicationID uint
	ApplicantID   uint
	CompanyID     uint
	SharesReq     int64
	Amount        decimal.Decimal

	ApplicantName string
	PAN           string
	DematNo       string

	CompanyName string
	Price       decimal.Decimal

	AllotmentID   *uint
	SharesAlloted *int64
	RefundID      *uint
	RefundAmount  *decimal.Decimal
}

// Status derives the application's processing state.
func (d *ApplicationDetail) Status() Status {
	return DeriveStatus(d.AllotmentID != nil, d.RefundID != nil)
}
