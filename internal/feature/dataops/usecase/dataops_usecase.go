// Package usecase implements data export, reset and seeding.
package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	appdomain "ipo_backend/internal/feature/application/domain"
	appusecase "ipo_backend/internal/feature/application/usecase"
	"ipo_backend/internal/feature/ipo/domain/entity"
	ipousecase "ipo_backend/internal/feature/ipo/usecase"
)

// DataRepository reads everything for export and clears the store.
type DataRepository interface {
	// Atomic runs fn against a repository bound to one transaction.
	Atomic(ctx context.Context, fn func(repo DataRepository) error) error
	// ListCompanies returns every company, newest first.
	ListCompanies(ctx context.Context) ([]entity.Company, error)
	// ListDetails returns the joined view for every company, newest first.
	ListDetails(ctx context.Context) ([]entity.ApplicationDetail, error)
	// Reset deletes every row, dependents first.
	Reset(ctx context.Context) (ResetResult, error)
	// SeedTargets returns the company and submission usecases bound to this
	// repository's connection. Inside Atomic they share its transaction.
	SeedTargets() (CompanyCreator, Submitter)
}

// CompanyCreator creates and activates a company.
type CompanyCreator interface {
	Create(ctx context.Context, in ipousecase.CreateCompanyInput) (*entity.Company, error)
}

// Submitter files one application against the active company.
type Submitter interface {
	Submit(ctx context.Context, s appdomain.Submission) (*appusecase.Result, error)
}

// Snapshot is a consistent read of the whole store.
type Snapshot struct {
	Companies []entity.Company
	Details   []entity.ApplicationDetail
	TakenAt   time.Time
}

// ResetResult counts the rows deleted per table.
type ResetResult struct {
	Refunds      int64 `json:"refunds" yaml:"refunds"`
	Allotments   int64 `json:"allotments" yaml:"allotments"`
	Applications int64 `json:"applications" yaml:"applications"`
	Applicants   int64 `json:"applicants" yaml:"applicants"`
	Companies    int64 `json:"companies" yaml:"companies"`
	Settings     int64 `json:"settings" yaml:"settings"`
}

// SeedInput describes the sample IPO to create.
type SeedInput struct {
	Company    ipousecase.CreateCompanyInput
	Applicants int
}

// SeedResult is what Seed created.
type SeedResult struct {
	Company      *entity.Company
	Applications int
	SharesReq    int64
}

type dataUsecase struct {
	repo    DataRepository
	now     func() time.Time
	onReset []func(ctx context.Context) error
}

// NewDataUsecase creates a dataUsecase.
func NewDataUsecase(repo DataRepository) *dataUsecase {
	return &dataUsecase{repo: repo, now: time.Now}
}

// OnReset registers fn to run after a committed reset, for state kept
// outside the store. A failing hook is logged and does not fail the reset.
func (u *dataUsecase) OnReset(fn func(ctx context.Context) error) {
	u.onReset = append(u.onReset, fn)
}

// Snapshot reads companies and details in one transaction.
func (u *dataUsecase) Snapshot(ctx context.Context) (*Snapshot, error) {
	s := &Snapshot{TakenAt: u.now()}
	err := u.repo.Atomic(ctx, func(repo DataRepository) error {
		var err error
		if s.Companies, err = repo.ListCompanies(ctx); err != nil {
			return err
		}
		s.Details, err = repo.ListDetails(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Reset deletes all data in one transaction.
func (u *dataUsecase) Reset(ctx context.Context) (*ResetResult, error) {
	var res ResetResult
	err := u.repo.Atomic(ctx, func(repo DataRepository) error {
		var err error
		res, err = repo.Reset(ctx)
		return err
	})
	if err != nil {
		logrus.WithError(err).Error("data reset failed")
		return nil, err
	}
	for _, fn := range u.onReset {
		if err := fn(ctx); err != nil {
			logrus.WithError(err).Warn("post-reset hook failed")
		}
	}

	logrus.WithFields(logrus.Fields{
		"refunds":      res.Refunds,
		"allotments":   res.Allotments,
		"applications": res.Applications,
		"applicants":   res.Applicants,
		"companies":    res.Companies,
		"settings":     res.Settings,
	}).Warn("all data has been reset")
	return &res, nil
}

// DefaultSeed is the sample IPO created by the seed command.
func DefaultSeed(now time.Time) SeedInput {
	return SeedInput{
		Company: ipousecase.CreateCompanyInput{
			Name:        "Sample Technologies Ltd",
			TotalShares: 100000,
			Price:       decimal.NewFromInt(100),
			StartDate:   now.Format(entity.DateLayout),
			EndDate:     now.AddDate(0, 0, 5).Format(entity.DateLayout),
		},
		Applicants: 50,
	}
}

// Seed creates the sample company, makes it active, and files one
// application per generated applicant through the regular submission path.
// Everything runs in one transaction: a failed seed leaves no company, no
// applications and the previous active company. Identifiers are derived
// from the applicant index, so seeding twice into the same store fails on
// the duplicate check.
func (u *dataUsecase) Seed(ctx context.Context, in SeedInput) (*SeedResult, error) {
	var res *SeedResult
	err := u.repo.Atomic(ctx, func(repo DataRepository) error {
		companies, submitter := repo.SeedTargets()
		company, err := companies.Create(ctx, in.Company)
		if err != nil {
			return fmt.Errorf("seed company: %w", err)
		}

		r := &SeedResult{Company: company}
		for i := 0; i < in.Applicants; i++ {
			s := SampleSubmission(i)
			if _, err := submitter.Submit(ctx, s); err != nil {
				return fmt.Errorf("seed applicant %d: %w", i+1, err)
			}
			r.Applications++
			r.SharesReq += s.SharesReq
		}
		res = r
		return nil
	})
	if err != nil {
		logrus.WithError(err).Warn("seed rolled back")
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"company_id":   res.Company.ID,
		"applications": res.Applications,
		"shares_req":   res.SharesReq,
	}).Info("sample data seeded")
	return res, nil
}

// SampleSubmission returns the i-th generated applicant. PAN and demat
// numbers are valid and unique per index.
func SampleSubmission(i int) appdomain.Submission {
	prefix := make([]byte, 5)
	n := i / 10000
	for k := 4; k >= 0; k-- {
		prefix[k] = byte('A' + n%26)
		n /= 26
	}
	return appdomain.Submission{
		Name:      fmt.Sprintf("Sample Applicant %03d", i+1),
		PAN:       fmt.Sprintf("%s%04d%c", prefix, i%10000, 'A'+i%26),
		DematNo:   fmt.Sprintf("IN%014d", 30000000000000+i),
		SharesReq: int64(100 + (i*373)%4900),
	}
}
