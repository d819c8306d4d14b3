package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	appadapters "ipo_backend/internal/feature/application/adapters"
	appusecase "ipo_backend/internal/feature/application/usecase"
	"ipo_backend/internal/feature/dataops/adapters"
	"ipo_backend/internal/feature/dataops/usecase"
	ipoadapters "ipo_backend/internal/feature/ipo/adapters"
	ipousecase "ipo_backend/internal/feature/ipo/usecase"
	"ipo_backend/internal/platform/db/dbtest"
	"ipo_backend/internal/platform/db/model"
	"ipo_backend/internal/shared/apperr"
)

type dataRunner interface {
	Snapshot(ctx context.Context) (*usecase.Snapshot, error)
	Reset(ctx context.Context) (*usecase.ResetResult, error)
	Seed(ctx context.Context, in usecase.SeedInput) (*usecase.SeedResult, error)
}

func newStack(t *testing.T) (*gorm.DB, dataRunner) {
	t.Helper()

	db := dbtest.Open(t)
	return db, usecase.NewDataUsecase(adapters.NewDataRepository(db))
}

func activeCompanyID(t *testing.T, db *gorm.DB) uint {
	t.Helper()
	c, err := ipousecase.NewCompanyUsecase(ipoadapters.NewCompanyRepository(db)).Active(context.Background())
	require.NoError(t, err)
	return c.ID
}

func count(t *testing.T, db *gorm.DB, m any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(m).Count(&n).Error)
	return n
}

func TestDataUsecase_SeedSnapshotReset(t *testing.T) {
	t.Parallel()

	db, uc := newStack(t)
	ctx := context.Background()
	in := usecase.DefaultSeed(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	in.Applicants = 30

	seeded, err := uc.Seed(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, 30, seeded.Applications)
	assert.Equal(t, "2026-03-06", seeded.Company.EndDate)
	assert.Positive(t, seeded.SharesReq)

	snap, err := uc.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Companies, 1)
	assert.Len(t, snap.Details, 30)
	assert.False(t, snap.TakenAt.IsZero())

	res, err := uc.Reset(ctx)
	require.NoError(t, err)
	assert.Equal(t, usecase.ResetResult{
		Applications: 30,
		Applicants:   30,
		Companies:    1,
		Settings:     1, // active company pointer
	}, *res)

	for _, m := range model.All() {
		assert.Zero(t, count(t, db, m))
	}
}

func TestDataUsecase_ResetClearsAllotmentsAndRefunds(t *testing.T) {
	t.Parallel()

	db, uc := newStack(t)
	ctx := context.Background()
	in := usecase.DefaultSeed(time.Now())
	in.Applicants = 2
	seeded, err := uc.Seed(ctx, in)
	require.NoError(t, err)

	var apps []model.ApplicationModel
	require.NoError(t, db.Find(&apps).Error)
	allot := &model.AllotmentModel{ApplicationID: apps[0].ID, SharesAlloted: 1}
	require.NoError(t, db.Create(allot).Error)
	require.NoError(t, db.Create(&model.RefundModel{AllotmentID: allot.ID, Amount: seeded.Company.Price}).Error)

	res, err := uc.Reset(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Refunds)
	assert.Equal(t, int64(1), res.Allotments)
	assert.Zero(t, count(t, db, &model.ApplicantModel{}))
}

func TestDataUsecase_SeedTwiceFails(t *testing.T) {
	t.Parallel()

	db, uc := newStack(t)
	ctx := context.Background()
	in := usecase.DefaultSeed(time.Now())
	in.Applicants = 3

	first, err := uc.Seed(ctx, in)
	require.NoError(t, err)

	res, err := uc.Seed(ctx, in)

	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Nil(t, res)
	assert.Equal(t, int64(1), count(t, db, &model.CompanyModel{}), "no company left behind")
	assert.Equal(t, int64(3), count(t, db, &model.ApplicationModel{}))
	assert.Equal(t, first.Company.ID, activeCompanyID(t, db), "active company unchanged")
}

func TestDataUsecase_SeedRollsBackOnLateFailure(t *testing.T) {
	t.Parallel()

	db, uc := newStack(t)
	ctx := context.Background()

	companies := ipousecase.NewCompanyUsecase(ipoadapters.NewCompanyRepository(db))
	existing, err := companies.Create(ctx, usecase.DefaultSeed(time.Now()).Company)
	require.NoError(t, err)
	submitter := appusecase.NewApplicationUsecase(appadapters.NewApplicationRepository(db), companies)
	_, err = submitter.Submit(ctx, usecase.SampleSubmission(2))
	require.NoError(t, err)

	in := usecase.DefaultSeed(time.Now())
	in.Company.Name = "Second Sample Ltd"
	in.Applicants = 5

	res, err := uc.Seed(ctx, in)

	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Contains(t, err.Error(), "seed applicant 3")
	assert.Nil(t, res)
	assert.Equal(t, int64(1), count(t, db, &model.CompanyModel{}))
	assert.Equal(t, int64(1), count(t, db, &model.ApplicationModel{}), "earlier applicants rolled back")
	assert.Equal(t, int64(1), count(t, db, &model.ApplicantModel{}))
	assert.Equal(t, existing.ID, activeCompanyID(t, db))
}

func TestDataUsecase_SeedRejectsInvalidCompany(t *testing.T) {
	t.Parallel()

	_, uc := newStack(t)

	_, err := uc.Seed(context.Background(), usecase.SeedInput{Applicants: 1})

	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestSampleSubmission_ValidAndUnique(t *testing.T) {
	t.Parallel()

	pans := map[string]bool{}
	demats := map[string]bool{}
	for _, i := range []int{0, 1, 25, 26, 9999, 10000, 10001, 260000, 999999} {
		s := usecase.SampleSubmission(i)
		require.NoError(t, s.Validate(), "index %d: %+v", i, s)
		assert.False(t, pans[s.PAN], "duplicate PAN %s", s.PAN)
		assert.False(t, demats[s.DematNo], "duplicate demat %s", s.DematNo)
		pans[s.PAN] = true
		demats[s.DematNo] = true
	}
}

func TestDataUsecase_ResetRunsHooksAfterCommit(t *testing.T) {
	t.Parallel()

	db := dbtest.Open(t)
	uc := usecase.NewDataUsecase(adapters.NewDataRepository(db))

	var calls []string
	uc.OnReset(func(ctx context.Context) error {
		calls = append(calls, "first")
		return errors.New("cache down")
	})
	uc.OnReset(func(ctx context.Context) error {
		calls = append(calls, "second")
		return nil
	})

	_, err := uc.Reset(context.Background())

	require.NoError(t, err, "a failing hook does not fail the reset")
	assert.Equal(t, []string{"first", "second"}, calls)
}
