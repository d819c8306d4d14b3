package domain

import (
	"math"
	"math/big"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ipo_backend/internal/feature/ipo/domain/entity"
)

func requests(shares ...int64) []Request {
	out := make([]Request, 0, len(shares))
	for i, s := range shares {
		out = append(out, Request{ApplicationID: uint(i + 1), SharesReq: s})
	}
	return out
}

func granted(p Plan) []int64 {
	out := make([]int64, 0, len(p.Allocations))
	for _, a := range p.Allocations {
		out = append(out, a.SharesAlloted)
	}
	return out
}

func TestAllocate_Scenarios(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		total      int64
		reqs       []Request
		wantMode   Mode
		wantGrants []int64
		wantLeft   int64
	}{
		{"undersubscribed grants everything", 1000, requests(400, 400), ModeFull, []int64{400, 400}, 200},
		{"half ratio", 100, requests(100, 100), ModeProRata, []int64{50, 50}, 0},
		{"exactly subscribed", 100, requests(33, 33, 34), ModeFull, []int64{33, 33, 34}, 0},
		{"truncation leaves remainder", 10, requests(3, 3, 3, 3), ModeProRata, []int64{2, 2, 2, 2}, 2},
		{"small request floors to zero", 5, requests(1, 100), ModeProRata, []int64{0, 4}, 1},
		{"no applications", 100, nil, ModeFull, []int64{}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := Allocate(tt.total, tt.reqs)

			require.NoError(t, err)
			assert.Equal(t, tt.wantMode, plan.Mode)
			assert.Equal(t, tt.wantGrants, granted(plan))
			assert.Equal(t, tt.wantLeft, plan.Unallotted())
		})
	}
}

func TestAllocate_LargeValuesStayExact(t *testing.T) {
	t.Parallel()

	// The product sharesReq × totalShares exceeds int64; the result must
	// still be the exact floor.
	total := int64(math.MaxInt64 / 2)
	reqs := requests(math.MaxInt64/3, math.MaxInt64/3)

	plan, err := Allocate(total, reqs)
	require.NoError(t, err)

	demand := new(big.Int).Mul(big.NewInt(math.MaxInt64/3), big.NewInt(2))
	want := new(big.Int).Mul(big.NewInt(math.MaxInt64/3), big.NewInt(total))
	want.Quo(want, demand)

	assert.Equal(t, ModeProRata, plan.Mode)
	assert.Equal(t, want.Int64(), plan.Allocations[0].SharesAlloted)
	assert.LessOrEqual(t, plan.SharesAllotted, total)
}

func TestAllocate_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		total   int64
		reqs    []Request
		wantErr error
	}{
		{"zero pool", 0, requests(1), ErrInvalidPool},
		{"negative pool", -5, requests(1), ErrInvalidPool},
		{"zero request", 10, requests(5, 0), ErrInvalidRequest},
		{"demand overflow", 10, requests(math.MaxInt64, 1), ErrDemandOverflow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Allocate(tt.total, tt.reqs)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPlan_Ratio(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.0, Plan{}.Ratio())
	assert.Equal(t, 1.0, Plan{Mode: ModeFull, TotalShares: 1000, TotalDemand: 800}.Ratio())
	assert.Equal(t, 0.5, Plan{Mode: ModeProRata, TotalShares: 100, TotalDemand: 200}.Ratio())
}

func TestRefunds(t *testing.T) {
	t.Parallel()

	price := decimal.NewFromInt(10)
	allotted := []entity.AllottedApplication{
		{ApplicationID: 1, AllotmentID: 11, SharesReq: 100, SharesAlloted: 50},
		{ApplicationID: 2, AllotmentID: 12, SharesReq: 40, SharesAlloted: 40},
		{ApplicationID: 3, AllotmentID: 13, SharesReq: 7, SharesAlloted: 0},
	}

	refunds := Refunds(allotted, price)

	require.Len(t, refunds, 2)
	assert.Equal(t, uint(11), refunds[0].AllotmentID)
	assert.True(t, decimal.NewFromInt(500).Equal(refunds[0].Amount))
	assert.Equal(t, uint(13), refunds[1].AllotmentID)
	assert.True(t, decimal.NewFromInt(70).Equal(refunds[1].Amount))
}

func TestRefundDue_FractionalPrice(t *testing.T) {
	t.Parallel()

	amount, ok := RefundDue(entity.AllottedApplication{SharesReq: 3, SharesAlloted: 0}, decimal.RequireFromString("0.1"))

	assert.True(t, ok)
	assert.Equal(t, "0.3", amount.String(), "decimal math has no binary rounding drift")
}

// genCase draws a pool and a non-empty set of requests.
func genCase() gopter.Gen {
	return gopter.CombineGens(
		gen.Int64Range(1, 1_000_000),
		gen.SliceOf(gen.Int64Range(1, 500_000)).SuchThat(func(v []int64) bool { return len(v) > 0 }),
	)
}

func TestAllocate_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	properties.Property("grants never exceed the pool or the request", prop.ForAll(
		func(vals []interface{}) bool {
			total, shares := vals[0].(int64), vals[1].([]int64)
			plan, err := Allocate(total, requests(shares...))
			if err != nil {
				return false
			}
			var sum int64
			for _, a := range plan.Allocations {
				if a.SharesAlloted < 0 || a.SharesAlloted > a.SharesReq {
					return false
				}
				sum += a.SharesAlloted
			}
			return sum == plan.SharesAllotted && sum <= total
		},
		genCase(),
	))

	properties.Property("demand within the pool is granted in full", prop.ForAll(
		func(vals []interface{}) bool {
			shares := vals[1].([]int64)
			var demand int64
			for _, s := range shares {
				demand += s
			}
			// size the pool to fit demand exactly or with room to spare
			total := demand + vals[0].(int64)%3
			plan, err := Allocate(total, requests(shares...))
			if err != nil || plan.Mode != ModeFull {
				return false
			}
			for _, a := range plan.Allocations {
				if a.SharesAlloted != a.SharesReq {
					return false
				}
			}
			return true
		},
		genCase(),
	))

	properties.Property("oversubscribed grants are the exact floor of the pro-rata share", prop.ForAll(
		func(vals []interface{}) bool {
			total, shares := vals[0].(int64), vals[1].([]int64)
			var demand int64
			for _, s := range shares {
				demand += s
			}
			if demand <= total {
				return true
			}
			plan, err := Allocate(total, requests(shares...))
			if err != nil || plan.Mode != ModeProRata {
				return false
			}
			for _, a := range plan.Allocations {
				want := new(big.Int).Mul(big.NewInt(a.SharesReq), big.NewInt(total))
				want.Quo(want, big.NewInt(demand))
				if want.Int64() != a.SharesAlloted {
					return false
				}
			}
			// truncation loses strictly less than one share per request
			return plan.Unallotted() < int64(len(shares))
		},
		genCase(),
	))

	properties.Property("allocation is deterministic", prop.ForAll(
		func(vals []interface{}) bool {
			total, shares := vals[0].(int64), vals[1].([]int64)
			first, err1 := Allocate(total, requests(shares...))
			second, err2 := Allocate(total, requests(shares...))
			if err1 != nil || err2 != nil {
				return false
			}
			a, b := granted(first), granted(second)
			for i := range a {
				if a[i] != b[i] {
					return false
				}
			}
			return len(a) == len(b)
		},
		genCase(),
	))

	properties.Property("refunds exist exactly for shortfalls and equal shortfall × price", prop.ForAll(
		func(vals []interface{}, cents int64) bool {
			total, shares := vals[0].(int64), vals[1].([]int64)
			plan, err := Allocate(total, requests(shares...))
			if err != nil {
				return false
			}
			price := decimal.New(cents, -2)
			allotted := make([]entity.AllottedApplication, 0, len(plan.Allocations))
			for i, a := range plan.Allocations {
				allotted = append(allotted, entity.AllottedApplication{
					ApplicationID: a.ApplicationID,
					AllotmentID:   uint(i + 100),
					SharesReq:     a.SharesReq,
					SharesAlloted: a.SharesAlloted,
				})
			}

			byAllotment := make(map[uint]decimal.Decimal)
			for _, r := range Refunds(allotted, price) {
				byAllotment[r.AllotmentID] = r.Amount
			}
			for _, a := range allotted {
				amount, ok := byAllotment[a.AllotmentID]
				if a.SharesAlloted == a.SharesReq {
					if ok {
						return false
					}
					continue
				}
				if !ok || !amount.Equal(price.Mul(decimal.NewFromInt(a.SharesReq-a.SharesAlloted))) {
					return false
				}
			}
			return true
		},
		genCase(),
		gen.Int64Range(1, 1_000_000),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestParseRefundPolicy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    RefundPolicy
		wantErr bool
	}{
		{"", RefundRecompute, false},
		{"recompute", RefundRecompute, false},
		{" FAIL ", RefundFailOnRerun, false},
		{"ignore", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRefundPolicy(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
