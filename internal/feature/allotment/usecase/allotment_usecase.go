// Package usecase runs allotments and refunds against the store.
package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"ipo_backend/internal/feature/allotment/domain"
	"ipo_backend/internal/feature/ipo/domain/entity"
	"ipo_backend/internal/shared/apperr"
)

// ErrNoApplications is returned by the run policy when a company has nothing to allot.
var ErrNoApplications = fmt.Errorf("%w: no applications found for allotment", apperr.ErrEmptyInput)

// AllotmentRepository abstracts the allotment and refund tables.
type AllotmentRepository interface {
	// Atomic runs fn against a repository bound to one transaction.
	Atomic(ctx context.Context, fn func(repo AllotmentRepository) error) error

	// FindCompany returns ipo domain.ErrCompanyNotFound for an unknown id.
	FindCompany(ctx context.Context, id uint) (*entity.Company, error)
	CountApplications(ctx context.Context, companyID uint) (int64, error)
	// ListApplications returns the company's applications in id order.
	ListApplications(ctx context.Context, companyID uint) ([]entity.Application, error)

	// ClearAllotments deletes the company's refunds and then its allotments.
	ClearAllotments(ctx context.Context, companyID uint) error
	CreateAllotments(ctx context.Context, allotments []entity.Allotment) error

	// ListAllotted returns applications that have an allotment, in application id order.
	ListAllotted(ctx context.Context, companyID uint) ([]entity.AllottedApplication, error)
	ClearRefunds(ctx context.Context, companyID uint) error
	CreateRefunds(ctx context.Context, refunds []entity.Refund) error

	// ListResults returns the joined view; companyID 0 selects every company.
	ListResults(ctx context.Context, companyID uint) ([]entity.ApplicationDetail, error)
}

// CompanyProvider resolves the active company when a caller gives no id.
type CompanyProvider interface {
	Active(ctx context.Context) (*entity.Company, error)
}

// Locker serializes runs for one company.
type Locker interface {
	Acquire(ctx context.Context, name string) (release func(), err error)
}

// Recorder receives run outcomes.
type Recorder interface {
	ObserveAllotment(companyID uint, allotted int64, took time.Duration, err error)
	ObserveRefunds(took time.Duration, err error)
}

type allotmentUsecase struct {
	repo      AllotmentRepository
	companies CompanyProvider
	locker    Locker
	recorder  Recorder
	policy    domain.RefundPolicy
}

// NewAllotmentUsecase creates an allotmentUsecase. recorder may be nil.
func NewAllotmentUsecase(repo AllotmentRepository, companies CompanyProvider, locker Locker, recorder Recorder, policy domain.RefundPolicy) *allotmentUsecase {
	if policy == "" {
		policy = domain.RefundRecompute
	}
	return &allotmentUsecase{repo: repo, companies: companies, locker: locker, recorder: recorder, policy: policy}
}

func lockName(companyID uint) string {
	return fmt.Sprintf("ipo:company:%d", companyID)
}

// ResolveCompany returns companyID, or the active company's id when it is 0.
func (u *allotmentUsecase) ResolveCompany(ctx context.Context, companyID uint) (uint, error) {
	if companyID != 0 {
		return companyID, nil
	}
	c, err := u.companies.Active(ctx)
	if err != nil {
		return 0, err
	}
	return c.ID, nil
}

// Allot is the operator-facing run: it resolves the company, rejects a
// company without applications, then runs the allotment.
func (u *allotmentUsecase) Allot(ctx context.Context, companyID uint) (*domain.AllotmentReport, error) {
	id, err := u.ResolveCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if _, err := u.repo.FindCompany(ctx, id); err != nil {
		return nil, err
	}
	n, err := u.repo.CountApplications(ctx, id)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrNoApplications
	}
	return u.RunAllotment(ctx, id)
}

// Refund is the operator-facing refund run for companyID or the active company.
func (u *allotmentUsecase) Refund(ctx context.Context, companyID uint) (*domain.RefundReport, error) {
	id, err := u.ResolveCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return u.RunRefunds(ctx, id)
}

// RunAllotment replaces the company's allotments with a fresh computation.
// Prior refunds and allotments are cleared and the new rows written in one
// transaction; any failure leaves the previous state intact. A company with
// no applications ends up with no allotments.
func (u *allotmentUsecase) RunAllotment(ctx context.Context, companyID uint) (rep *domain.AllotmentReport, err error) {
	start := time.Now()
	defer func() {
		if u.recorder != nil {
			var allotted int64
			if rep != nil {
				allotted = rep.SharesAllotted
			}
			u.recorder.ObserveAllotment(companyID, allotted, time.Since(start), err)
		}
	}()

	release, err := u.locker.Acquire(ctx, lockName(companyID))
	if err != nil {
		return nil, err
	}
	defer release()

	err = u.repo.Atomic(ctx, func(repo AllotmentRepository) error {
		company, err := repo.FindCompany(ctx, companyID)
		if err != nil {
			return err
		}
		apps, err := repo.ListApplications(ctx, companyID)
		if err != nil {
			return err
		}

		reqs := make([]domain.Request, 0, len(apps))
		for _, a := range apps {
			reqs = append(reqs, domain.Request{ApplicationID: a.ID, SharesReq: a.SharesReq})
		}
		plan, err := domain.Allocate(company.TotalShares, reqs)
		if err != nil {
			return fmt.Errorf("allocate company %d: %w", companyID, err)
		}

		if err := repo.ClearAllotments(ctx, companyID); err != nil {
			return err
		}
		rows := make([]entity.Allotment, 0, len(plan.Allocations))
		for _, a := range plan.Allocations {
			rows = append(rows, entity.Allotment{ApplicationID: a.ApplicationID, SharesAlloted: a.SharesAlloted})
		}
		if err := repo.CreateAllotments(ctx, rows); err != nil {
			return err
		}

		r := domain.NewAllotmentReport(companyID, plan)
		rep = &r
		return nil
	})
	if err != nil {
		logrus.WithError(err).WithField("company_id", companyID).Error("allotment run failed")
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"company_id":      companyID,
		"mode":            rep.Mode,
		"applications":    rep.Applications,
		"total_demand":    rep.TotalDemand,
		"shares_allotted": rep.SharesAllotted,
		"unallotted":      rep.UnallottedShares,
		"took_ms":         time.Since(start).Milliseconds(),
	}).Info("allotment run completed")
	return rep, nil
}

// RunRefunds records a refund for every allotment that fell short of its
// request. Applications without an allotment are skipped. Under
// RefundRecompute existing refunds are replaced; under RefundFailOnRerun a
// second run fails with a constraint violation.
func (u *allotmentUsecase) RunRefunds(ctx context.Context, companyID uint) (rep *domain.RefundReport, err error) {
	start := time.Now()
	defer func() {
		if u.recorder != nil {
			u.recorder.ObserveRefunds(time.Since(start), err)
		}
	}()

	release, err := u.locker.Acquire(ctx, lockName(companyID))
	if err != nil {
		return nil, err
	}
	defer release()

	err = u.repo.Atomic(ctx, func(repo AllotmentRepository) error {
		company, err := repo.FindCompany(ctx, companyID)
		if err != nil {
			return err
		}
		allotted, err := repo.ListAllotted(ctx, companyID)
		if err != nil {
			return err
		}

		if u.policy == domain.RefundRecompute {
			if err := repo.ClearRefunds(ctx, companyID); err != nil {
				return err
			}
		}

		refunds := domain.Refunds(allotted, company.Price)
		if err := repo.CreateRefunds(ctx, refunds); err != nil {
			return fmt.Errorf("refunds for company %d: %w", companyID, err)
		}

		total := decimal.Zero
		for _, r := range refunds {
			total = total.Add(r.Amount)
		}
		rep = &domain.RefundReport{
			CompanyID:   companyID,
			Policy:      u.policy,
			Allotments:  len(allotted),
			Refunds:     len(refunds),
			TotalAmount: total,
		}
		return nil
	})
	if err != nil {
		logrus.WithError(err).WithField("company_id", companyID).Error("refund run failed")
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"company_id":   companyID,
		"policy":       rep.Policy,
		"refunds":      rep.Refunds,
		"total_amount": rep.TotalAmount.String(),
	}).Info("refund run completed")
	return rep, nil
}

// Results returns the joined allotment view for companyID, or for every
// company when companyID is 0.
func (u *allotmentUsecase) Results(ctx context.Context, companyID uint) ([]entity.ApplicationDetail, error) {
	return u.repo.ListResults(ctx, companyID)
}
