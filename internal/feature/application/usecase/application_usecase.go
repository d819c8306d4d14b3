// Package usecase implements application submission and listing.
package usecase

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"ipo_backend/internal/feature/application/domain"
	"ipo_backend/internal/feature/ipo/domain/entity"
	"ipo_backend/internal/shared/apperr"
)

// ApplicationRepository abstracts applicant and application persistence.
type ApplicationRepository interface {
	// Atomic runs fn against a repository bound to one transaction.
	Atomic(ctx context.Context, fn func(repo ApplicationRepository) error) error

	PANExists(ctx context.Context, pan string) (bool, error)
	DematExists(ctx context.Context, dematNo string) (bool, error)
	// CreateApplicant returns domain.ErrDuplicateApplicant on a uniqueness race.
	CreateApplicant(ctx context.Context, a *entity.Applicant) error
	CreateApplication(ctx context.Context, a *entity.Application) error

	// ListDetails returns the joined view for every company, newest first.
	ListDetails(ctx context.Context) ([]entity.ApplicationDetail, error)
}

// CompanyProvider resolves the IPO that new applications are filed against.
type CompanyProvider interface {
	Active(ctx context.Context) (*entity.Company, error)
}

// Result is the outcome of a successful submission.
type Result struct {
	Applicant   entity.Applicant
	Application entity.Application
	Company     entity.Company
}

type applicationUsecase struct {
	repo      ApplicationRepository
	companies CompanyProvider
}

// NewApplicationUsecase creates an applicationUsecase.
func NewApplicationUsecase(repo ApplicationRepository, companies CompanyProvider) *applicationUsecase {
	return &applicationUsecase{repo: repo, companies: companies}
}

// Submit validates the submission and records the applicant and its
// application against the active company. Nothing is written on failure.
func (u *applicationUsecase) Submit(ctx context.Context, s domain.Submission) (*Result, error) {
	s = s.Normalize()
	if err := s.Validate(); err != nil {
		return nil, err
	}

	company, err := u.companies.Active(ctx)
	if err != nil {
		return nil, err
	}

	res := &Result{Company: *company}
	err = u.repo.Atomic(ctx, func(repo ApplicationRepository) error {
		if err := checkUnique(ctx, repo, s); err != nil {
			return err
		}

		res.Applicant = entity.Applicant{Name: s.Name, PAN: s.PAN, DematNo: s.DematNo}
		if err := repo.CreateApplicant(ctx, &res.Applicant); err != nil {
			return err
		}

		res.Application = entity.Application{
			ApplicantID: res.Applicant.ID,
			CompanyID:   company.ID,
			SharesReq:   s.SharesReq,
			Amount:      company.AmountFor(s.SharesReq),
		}
		return repo.CreateApplication(ctx, &res.Application)
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"application_id": res.Application.ID,
		"company_id":     company.ID,
		"shares_req":     s.SharesReq,
	}).Info("application submitted")
	return res, nil
}

// checkUnique rejects a PAN or demat number that is already registered.
func checkUnique(ctx context.Context, repo ApplicationRepository, s domain.Submission) error {
	exists, err := repo.PANExists(ctx, s.PAN)
	if err != nil {
		return fmt.Errorf("check PAN: %w", err)
	}
	if exists {
		return apperr.NewValidationError("pan", "PAN number already exists")
	}

	exists, err = repo.DematExists(ctx, s.DematNo)
	if err != nil {
		return fmt.Errorf("check demat number: %w", err)
	}
	if exists {
		return apperr.NewValidationError("dematNo", "Demat number already exists")
	}
	return nil
}

// List returns every application with applicant, company, allotment and refund.
func (u *applicationUsecase) List(ctx context.Context) ([]entity.ApplicationDetail, error) {
	return u.repo.ListDetails(ctx)
}
