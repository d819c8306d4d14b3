package entity

import "github.com/shopspring/decimal"

// Applicant is a person applying for shares. PAN and demat number are each
// globally unique.
type Applicant struct {
	ID      uint
	Name    string
	PAN     string
	DematNo string
}

// Application is one request for shares of one company.
// Amount is SharesReq × company price at submission time.
type Application struct {
	ID          uint
	ApplicantID uint
	CompanyID   uint
	SharesReq   int64
	Amount      decimal.Decimal
}
