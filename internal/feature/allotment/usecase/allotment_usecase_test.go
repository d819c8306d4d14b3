package usecase_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"ipo_backend/internal/feature/allotment/adapters"
	"ipo_backend/internal/feature/allotment/domain"
	"ipo_backend/internal/feature/allotment/usecase"
	ipodomain "ipo_backend/internal/feature/ipo/domain"
	"ipo_backend/internal/feature/ipo/domain/entity"
	"ipo_backend/internal/platform/db/dbtest"
	"ipo_backend/internal/platform/db/model"
	"ipo_backend/internal/platform/lock"
	"ipo_backend/internal/shared/apperr"
)

// stubCompanies returns a fixed company or error.
type stubCompanies struct {
	company *entity.Company
	err     error
}

func (s stubCompanies) Active(ctx context.Context) (*entity.Company, error) {
	return s.company, s.err
}

// spyRecorder counts observed runs.
type spyRecorder struct {
	allotments, refunds int
	lastAllotted        int64
	lastErr             error
}

func (s *spyRecorder) ObserveAllotment(companyID uint, allotted int64, took time.Duration, err error) {
	s.allotments++
	s.lastAllotted = allotted
	s.lastErr = err
}

func (s *spyRecorder) ObserveRefunds(took time.Duration, err error) {
	s.refunds++
	s.lastErr = err
}

// fixture is a migrated store with one company.
type fixture struct {
	db      *gorm.DB
	company *model.CompanyModel
	nextPAN int
}

func newFixture(t *testing.T, totalShares int64, price string) *fixture {
	t.Helper()

	db := dbtest.Open(t)
	c := &model.CompanyModel{
		Name:        "Acme Ltd",
		TotalShares: totalShares,
		Price:       decimal.RequireFromString(price),
		StartDate:   "2026-03-01",
		EndDate:     "2026-03-05",
	}
	require.NoError(t, db.Create(c).Error, "failed to seed company")
	return &fixture{db: db, company: c}
}

// apply seeds one applicant and application per requested share count.
func (f *fixture) apply(t *testing.T, shares ...int64) []uint {
	t.Helper()

	ids := make([]uint, 0, len(shares))
	for _, s := range shares {
		f.nextPAN++
		applicant := &model.ApplicantModel{
			Name:    "Applicant",
			PAN:     fmt.Sprintf("ABCDE%04dZ", f.nextPAN),
			DematNo: fmt.Sprintf("IN300000%08d", f.nextPAN),
		}
		require.NoError(t, f.db.Create(applicant).Error)
		app := &model.ApplicationModel{
			ApplicantID: applicant.ID,
			CompanyID:   f.company.ID,
			SharesReq:   s,
			Amount:      f.company.Price.Mul(decimal.NewFromInt(s)),
		}
		require.NoError(t, f.db.Create(app).Error)
		ids = append(ids, app.ID)
	}
	return ids
}

// runner is the surface of the allotment usecase exercised here.
type runner interface {
	RunAllotment(ctx context.Context, companyID uint) (*domain.AllotmentReport, error)
	RunRefunds(ctx context.Context, companyID uint) (*domain.RefundReport, error)
	Allot(ctx context.Context, companyID uint) (*domain.AllotmentReport, error)
	Refund(ctx context.Context, companyID uint) (*domain.RefundReport, error)
	Results(ctx context.Context, companyID uint) ([]entity.ApplicationDetail, error)
}

func (f *fixture) usecase(policy domain.RefundPolicy) (*spyRecorder, runner) {
	rec := &spyRecorder{}
	uc := usecase.NewAllotmentUsecase(
		adapters.NewAllotmentRepository(f.db),
		stubCompanies{company: f.company.ToEntity()},
		lock.NewLocalLocker(),
		rec,
		policy,
	)
	return rec, uc
}

func (f *fixture) allotted(t *testing.T) map[uint]int64 {
	t.Helper()

	var rows []model.AllotmentModel
	require.NoError(t, f.db.Order("application_id").Find(&rows).Error)
	out := make(map[uint]int64, len(rows))
	for _, r := range rows {
		out[r.ApplicationID] = r.SharesAlloted
	}
	return out
}

func (f *fixture) refunds(t *testing.T) []model.RefundModel {
	t.Helper()

	var rows []model.RefundModel
	require.NoError(t, f.db.Order("id").Find(&rows).Error)
	return rows
}

func TestRunAllotment_FullAllotment(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 1000, "10")
	ids := f.apply(t, 400, 400)
	rec, uc := f.usecase(domain.RefundRecompute)
	ctx := context.Background()

	rep, err := uc.RunAllotment(ctx, f.company.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ModeFull, rep.Mode)
	assert.Equal(t, int64(800), rep.SharesAllotted)
	assert.Equal(t, int64(200), rep.UnallottedShares)
	assert.Equal(t, map[uint]int64{ids[0]: 400, ids[1]: 400}, f.allotted(t))

	refundRep, err := uc.RunRefunds(ctx, f.company.ID)
	require.NoError(t, err)
	assert.Zero(t, refundRep.Refunds)
	assert.Empty(t, f.refunds(t))

	assert.Equal(t, 1, rec.allotments)
	assert.Equal(t, int64(800), rec.lastAllotted)
}

func TestRunAllotment_ProRataWithRefunds(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 100, "10")
	ids := f.apply(t, 100, 100)
	_, uc := f.usecase(domain.RefundRecompute)
	ctx := context.Background()

	rep, err := uc.RunAllotment(ctx, f.company.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ModeProRata, rep.Mode)
	assert.Equal(t, 0.5, rep.Ratio)
	assert.Equal(t, map[uint]int64{ids[0]: 50, ids[1]: 50}, f.allotted(t))

	refundRep, err := uc.RunRefunds(ctx, f.company.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, refundRep.Refunds)
	assert.True(t, decimal.NewFromInt(1000).Equal(refundRep.TotalAmount))

	refunds := f.refunds(t)
	require.Len(t, refunds, 2)
	for _, r := range refunds {
		assert.True(t, decimal.NewFromInt(500).Equal(r.Amount), "refund is 50 x 10")
	}

	results, err := uc.Results(ctx, f.company.ID)
	require.NoError(t, err)
	for _, d := range results {
		assert.Equal(t, entity.StatusProcessed, d.Status())
	}
}

func TestRunAllotment_ExactSubscription(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 100, "10")
	ids := f.apply(t, 33, 33, 34)
	_, uc := f.usecase(domain.RefundRecompute)

	rep, err := uc.RunAllotment(context.Background(), f.company.ID)

	require.NoError(t, err)
	assert.Equal(t, domain.ModeFull, rep.Mode)
	assert.Equal(t, map[uint]int64{ids[0]: 33, ids[1]: 33, ids[2]: 34}, f.allotted(t))
}

func TestRunAllotment_IsIdempotent(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 10, "3.25")
	f.apply(t, 3, 3, 3, 3, 7)
	_, uc := f.usecase(domain.RefundRecompute)
	ctx := context.Background()

	_, err := uc.RunAllotment(ctx, f.company.ID)
	require.NoError(t, err)
	_, err = uc.RunRefunds(ctx, f.company.ID)
	require.NoError(t, err)
	first := f.allotted(t)

	// rerun also clears the refunds that depend on the old allotments
	_, err = uc.RunAllotment(ctx, f.company.ID)
	require.NoError(t, err)

	assert.Equal(t, first, f.allotted(t))
	assert.Empty(t, f.refunds(t))

	var total int64
	for _, v := range first {
		total += v
	}
	assert.LessOrEqual(t, total, int64(10))
}

func TestRunAllotment_NoApplications(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 100, "10")
	_, uc := f.usecase(domain.RefundRecompute)

	rep, err := uc.RunAllotment(context.Background(), f.company.ID)

	require.NoError(t, err)
	assert.Zero(t, rep.Applications)
	assert.Empty(t, f.allotted(t))
}

func TestRunAllotment_UnknownCompany(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 100, "10")
	rec, uc := f.usecase(domain.RefundRecompute)

	_, err := uc.RunAllotment(context.Background(), 999)
	assert.ErrorIs(t, err, ipodomain.ErrCompanyNotFound)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = uc.RunRefunds(context.Background(), 999)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	assert.Equal(t, 1, rec.allotments)
	assert.Equal(t, 1, rec.refunds)
	assert.Error(t, rec.lastErr)
}

func TestRunRefunds_SkipsPendingApplications(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 100, "10")
	f.apply(t, 100, 100)
	_, uc := f.usecase(domain.RefundRecompute)
	ctx := context.Background()

	_, err := uc.RunAllotment(ctx, f.company.ID)
	require.NoError(t, err)
	// a late application has no allotment yet
	f.apply(t, 40)

	rep, err := uc.RunRefunds(ctx, f.company.ID)

	require.NoError(t, err)
	assert.Equal(t, 2, rep.Allotments)
	assert.Equal(t, 2, rep.Refunds)
}

func TestRunRefunds_RerunPolicy(t *testing.T) {
	t.Parallel()

	t.Run("recompute replaces refunds", func(t *testing.T) {
		f := newFixture(t, 100, "10")
		f.apply(t, 100, 100)
		_, uc := f.usecase(domain.RefundRecompute)
		ctx := context.Background()

		_, err := uc.RunAllotment(ctx, f.company.ID)
		require.NoError(t, err)
		_, err = uc.RunRefunds(ctx, f.company.ID)
		require.NoError(t, err)
		_, err = uc.RunRefunds(ctx, f.company.ID)
		require.NoError(t, err)

		assert.Len(t, f.refunds(t), 2)
	})

	t.Run("fail surfaces the constraint violation", func(t *testing.T) {
		f := newFixture(t, 100, "10")
		f.apply(t, 100, 100)
		_, uc := f.usecase(domain.RefundFailOnRerun)
		ctx := context.Background()

		_, err := uc.RunAllotment(ctx, f.company.ID)
		require.NoError(t, err)
		_, err = uc.RunRefunds(ctx, f.company.ID)
		require.NoError(t, err)

		_, err = uc.RunRefunds(ctx, f.company.ID)

		assert.ErrorIs(t, err, apperr.ErrConstraint)
		assert.Len(t, f.refunds(t), 2, "the failed rerun writes nothing")
	})
}

func TestAllot_Policy(t *testing.T) {
	t.Parallel()

	t.Run("empty company is rejected before running", func(t *testing.T) {
		f := newFixture(t, 100, "10")
		rec, uc := f.usecase(domain.RefundRecompute)

		_, err := uc.Allot(context.Background(), 0)

		assert.ErrorIs(t, err, usecase.ErrNoApplications)
		assert.ErrorIs(t, err, apperr.ErrEmptyInput)
		assert.Zero(t, rec.allotments, "calculator never ran")
	})

	t.Run("unknown company id", func(t *testing.T) {
		f := newFixture(t, 100, "10")
		_, uc := f.usecase(domain.RefundRecompute)

		_, err := uc.Allot(context.Background(), 42)

		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("defaults to the active company", func(t *testing.T) {
		f := newFixture(t, 100, "10")
		f.apply(t, 60)
		_, uc := f.usecase(domain.RefundRecompute)

		rep, err := uc.Allot(context.Background(), 0)
		require.NoError(t, err)
		assert.Equal(t, f.company.ID, rep.CompanyID)

		refunds, err := uc.Refund(context.Background(), 0)
		require.NoError(t, err)
		assert.Zero(t, refunds.Refunds)
	})
}

// heldLocker always reports the lock as taken.
type heldLocker struct{}

func (heldLocker) Acquire(ctx context.Context, name string) (func(), error) {
	return nil, lock.ErrHeld
}

func TestRunAllotment_LockHeld(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 100, "10")
	f.apply(t, 10)
	uc := usecase.NewAllotmentUsecase(adapters.NewAllotmentRepository(f.db), stubCompanies{}, heldLocker{}, nil, "")

	_, err := uc.RunAllotment(context.Background(), f.company.ID)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	_, err = uc.RunRefunds(context.Background(), f.company.ID)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	assert.Empty(t, f.allotted(t))
}
