package entity

import "github.com/shopspring/decimal"

// Allotment is the number of shares granted to one application.
// SharesAlloted never exceeds the application's SharesReq.
type Allotment struct {
	ID            uint
	ApplicationID uint
	SharesAlloted int64
}

// Refund is the money returned for shares requested but not granted.
// It exists only when the allotment fell short of the request.
type Refund struct {
	ID          uint
	AllotmentID uint
	Amount      decimal.Decimal
}

// AllottedApplication joins an application with its allotment.
type AllottedApplication struct {
	ApplicationID uint
	AllotmentID   uint
	SharesReq     int64
	SharesAlloted int64
}

// Shortfall returns the shares requested but not granted.
func (a AllottedApplication) Shortfall() int64 {
	return a.SharesReq - a.SharesAlloted
}
