package dto

import (
	"github.com/shopspring/decimal"

	"ipo_backend/internal/feature/ipo/domain/entity"
)

// DetailItem is the public view of one application joined with its
// applicant, company, allotment and refund. It is shared by the
// applications, allotment results and export endpoints.
type DetailItem struct {
	ID            uint             `json:"id" yaml:"id"`
	ApplicantID   uint             `json:"applicantId" yaml:"applicantId"`
	CompanyID     uint             `json:"companyId" yaml:"companyId"`
	ApplicantName string           `json:"applicantName" yaml:"applicantName"`
	PAN           string           `json:"pan" yaml:"pan"`
	DematNo       string           `json:"dematNo" yaml:"dematNo"`
	CompanyName   string           `json:"companyName" yaml:"companyName"`
	Price         decimal.Decimal  `json:"price" yaml:"price"`
	SharesReq     int64            `json:"sharesReq" yaml:"sharesReq"`
	Amount        decimal.Decimal  `json:"amount" yaml:"amount"`
	SharesAlloted *int64           `json:"sharesAlloted" yaml:"sharesAlloted"`
	RefundAmount  *decimal.Decimal `json:"refundAmount" yaml:"refundAmount"`
	Status        entity.Status    `json:"status" yaml:"status"`
}

// NewDetailItem converts a joined view for output.
func NewDetailItem(d *entity.ApplicationDetail) DetailItem {
	return DetailItem{
		ID:            d.ApplicationID,
		ApplicantID:   d.ApplicantID,
		CompanyID:     d.CompanyID,
		ApplicantName: d.ApplicantName,
		PAN:           d.PAN,
		DematNo:       d.DematNo,
		CompanyName:   d.CompanyName,
		Price:         d.Price,
		SharesReq:     d.SharesReq,
		Amount:        d.Amount,
		SharesAlloted: d.SharesAlloted,
		RefundAmount:  d.RefundAmount,
		Status:        d.Status(),
	}
}

// NewDetailItems converts a slice, never returning nil.
func NewDetailItems(details []entity.ApplicationDetail) []DetailItem {
	out := make([]DetailItem, 0, len(details))
	for i := range details {
		out = append(out, NewDetailItem(&details[i]))
	}
	return out
}
