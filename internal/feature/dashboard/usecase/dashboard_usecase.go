// Package usecase derives the dashboard summary for a company.
package usecase

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	ipodomain "ipo_backend/internal/feature/ipo/domain"
	"ipo_backend/internal/feature/ipo/domain/entity"
)

// Totals are the aggregates over one company's applications.
type Totals struct {
	Applications   int64
	SharesReq      int64
	Amount         decimal.Decimal
	Refunds        decimal.Decimal
	SharesAllotted int64
}

// SummaryRepository reads the aggregates.
type SummaryRepository interface {
	Totals(ctx context.Context, companyID uint) (Totals, error)
}

// CompanyProvider resolves the company to summarize.
type CompanyProvider interface {
	Active(ctx context.Context) (*entity.Company, error)
	Get(ctx context.Context, id uint) (*entity.Company, error)
}

// Summary is the dashboard view of one company.
type Summary struct {
	Company               *entity.Company
	Totals                Totals
	OversubscriptionRatio float64
}

type dashboardUsecase struct {
	repo      SummaryRepository
	companies CompanyProvider
}

// NewDashboardUsecase creates a dashboardUsecase.
func NewDashboardUsecase(repo SummaryRepository, companies CompanyProvider) *dashboardUsecase {
	return &dashboardUsecase{repo: repo, companies: companies}
}

// Summary recomputes the summary for companyID, or for the active company
// when it is 0. It returns nil without error when no company exists yet.
func (u *dashboardUsecase) Summary(ctx context.Context, companyID uint) (*Summary, error) {
	var (
		company *entity.Company
		err     error
	)
	if companyID == 0 {
		company, err = u.companies.Active(ctx)
		if errors.Is(err, ipodomain.ErrNoActiveCompany) {
			return nil, nil
		}
	} else {
		company, err = u.companies.Get(ctx, companyID)
	}
	if err != nil {
		return nil, err
	}

	totals, err := u.repo.Totals(ctx, company.ID)
	if err != nil {
		return nil, err
	}
	return &Summary{
		Company:               company,
		Totals:                totals,
		OversubscriptionRatio: company.OversubscriptionRatio(totals.SharesReq),
	}, nil
}
