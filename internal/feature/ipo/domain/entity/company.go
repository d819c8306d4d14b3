// Package entity defines the domain models shared by the IPO features.
package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format used for subscription windows.
const DateLayout = "2006-01-02"

// MoneyScale is the number of decimal places stored for prices and amounts.
const MoneyScale = 4

// Company is one IPO: a fixed pool of shares offered at a fixed price.
// It is immutable after creation.
type Company struct {
	ID          uint
	Name        string
	TotalShares int64           // shares on offer, always > 0
	Price       decimal.Decimal // price per share, always > 0
	StartDate   string          // subscription window start (YYYY-MM-DD)
	EndDate     string          // subscription window end (YYYY-MM-DD)
	CreatedAt   time.Time
}

// AmountFor returns the money owed for the given number of shares.
func (c *Company) AmountFor(shares int64) decimal.Decimal {
	return c.Price.Mul(decimal.NewFromInt(shares))
}

// OversubscriptionRatio returns requested / offered shares, or 0 when nothing is offered.
func (c *Company) OversubscriptionRatio(requested int64) float64 {
	if c.TotalShares <= 0 {
		return 0
	}
	return float64(requested) / float64(c.TotalShares)
}
