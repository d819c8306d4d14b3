// Package domain contains the allotment and refund arithmetic. It is pure:
// no storage, no clock, no logging.
package domain

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/shopspring/decimal"

	"ipo_backend/internal/feature/ipo/domain/entity"
)

// Mode is the allocation policy a run ended up using.
type Mode string

const (
	// ModeFull grants every request in full because demand fits the pool.
	ModeFull Mode = "full"
	// ModeProRata scales every request down by totalShares / totalDemand.
	ModeProRata Mode = "pro-rata"
)

var (
	// ErrInvalidPool is returned for a non-positive share pool.
	ErrInvalidPool = errors.New("total shares must be greater than 0")
	// ErrInvalidRequest is returned for an application requesting fewer than one share.
	ErrInvalidRequest = errors.New("shares requested must be at least 1")
	// ErrDemandOverflow is returned when total demand does not fit in int64.
	ErrDemandOverflow = errors.New("total demand overflows int64")
)

// Request is one application's claim on the pool.
type Request struct {
	ApplicationID uint
	SharesReq     int64
}

// Allocation is the shares granted to one application.
type Allocation struct {
	ApplicationID uint
	SharesReq     int64
	SharesAlloted int64
}

// Plan is the full result of allocating a pool across requests, in input order.
type Plan struct {
	Mode           Mode
	TotalShares    int64
	TotalDemand    int64
	SharesAllotted int64
	Allocations    []Allocation
}

// Unallotted returns the pool shares left over after truncation.
func (p Plan) Unallotted() int64 {
	return p.TotalShares - p.SharesAllotted
}

// Ratio returns totalShares / totalDemand, capped at 1. An empty plan reports 0.
func (p Plan) Ratio() float64 {
	if p.TotalDemand == 0 {
		return 0
	}
	if p.Mode == ModeFull {
		return 1
	}
	return float64(p.TotalShares) / float64(p.TotalDemand)
}

// Allocate distributes totalShares across reqs.
//
// When total demand fits the pool every request is granted in full.
// Otherwise each request receives floor(sharesReq × totalShares / totalDemand),
// computed exactly in 128-bit integer arithmetic. The truncation remainder is
// not redistributed, so the sum of grants may fall short of the pool by less
// than one share per request.
//
// An empty request set yields an empty plan.
func Allocate(totalShares int64, reqs []Request) (Plan, error) {
	if totalShares <= 0 {
		return Plan{}, ErrInvalidPool
	}

	var demand uint64
	for _, r := range reqs {
		if r.SharesReq < 1 {
			return Plan{}, fmt.Errorf("%w: application %d requested %d", ErrInvalidRequest, r.ApplicationID, r.SharesReq)
		}
		var carry uint64
		demand, carry = bits.Add64(demand, uint64(r.SharesReq), 0)
		if carry != 0 || demand > uint64(1<<63-1) {
			return Plan{}, ErrDemandOverflow
		}
	}

	plan := Plan{
		Mode:        ModeFull,
		TotalShares: totalShares,
		TotalDemand: int64(demand),
		Allocations: make([]Allocation, 0, len(reqs)),
	}
	if plan.TotalDemand > totalShares {
		plan.Mode = ModeProRata
	}

	for _, r := range reqs {
		granted := r.SharesReq
		if plan.Mode == ModeProRata {
			granted = proRata(r.SharesReq, totalShares, demand)
		}
		plan.SharesAllotted += granted
		plan.Allocations = append(plan.Allocations, Allocation{
			ApplicationID: r.ApplicationID,
			SharesReq:     r.SharesReq,
			SharesAlloted: granted,
		})
	}
	return plan, nil
}

// proRata returns floor(req × total / demand). req ≤ demand keeps the high
// word of the product below demand, so Div64 cannot overflow.
func proRata(req, total int64, demand uint64) int64 {
	hi, lo := bits.Mul64(uint64(req), uint64(total))
	q, _ := bits.Div64(hi, lo, demand)
	return int64(q)
}

// RefundDue returns the money owed for the shares an allotment fell short by,
// and false when the request was granted in full.
func RefundDue(a entity.AllottedApplication, price decimal.Decimal) (decimal.Decimal, bool) {
	short := a.Shortfall()
	if short <= 0 {
		return decimal.Zero, false
	}
	return price.Mul(decimal.NewFromInt(short)), true
}

// Refunds computes one refund per under-allotted application, in input order.
func Refunds(allotted []entity.AllottedApplication, price decimal.Decimal) []entity.Refund {
	out := make([]entity.Refund, 0, len(allotted))
	for _, a := range allotted {
		if amount, ok := RefundDue(a, price); ok {
			out = append(out, entity.Refund{AllotmentID: a.AllotmentID, Amount: amount})
		}
	}
	return out
}
