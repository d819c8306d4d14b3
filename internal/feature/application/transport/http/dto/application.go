// Package dto defines data transfer objects for the applications HTTP API.
package dto

import "github.com/shopspring/decimal"

// SubmitRequest is the body of POST /api/applications.
type SubmitRequest struct {
	Name      string `json:"name"`
	PAN       string `json:"pan"`
	DematNo   string `json:"dematNo"`
	SharesReq int64  `json:"sharesReq"`
}

// ApplicationItem is the public view of a stored application.
type ApplicationItem struct {
	ID          uint            `json:"id"`
	ApplicantID uint            `json:"applicantId"`
	CompanyID   uint            `json:"companyId"`
	SharesReq   int64           `json:"sharesReq"`
	Amount      decimal.Decimal `json:"amount"`
}

// SubmitResponse is returned after a successful submission.
type SubmitResponse struct {
	Success     bool            `json:"success"`
	Message     string          `json:"message"`
	Application ApplicationItem `json:"application"`
}
