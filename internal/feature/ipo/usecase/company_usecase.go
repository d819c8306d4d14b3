// Package usecase implements company management and the active-company pointer.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"ipo_backend/internal/feature/ipo/domain"
	"ipo_backend/internal/feature/ipo/domain/entity"
	"ipo_backend/internal/shared/apperr"
)

// CompanyRepository abstracts company persistence and the active pointer.
// Interfaces are defined by the consumer (usecase), not the provider (adapters).
type CompanyRepository interface {
	// Atomic runs fn against a repository bound to one transaction.
	Atomic(ctx context.Context, fn func(repo CompanyRepository) error) error

	Create(ctx context.Context, c *entity.Company) error
	// FindByID returns domain.ErrCompanyNotFound for an unknown id.
	FindByID(ctx context.Context, id uint) (*entity.Company, error)
	// Latest returns the most recently created company, or domain.ErrNoActiveCompany.
	Latest(ctx context.Context) (*entity.Company, error)
	// List returns every company, newest first.
	List(ctx context.Context) ([]entity.Company, error)

	// ActiveID returns the stored pointer; ok is false when it is unset.
	ActiveID(ctx context.Context) (id uint, ok bool, err error)
	SetActiveID(ctx context.Context, id uint) error
}

// CreateCompanyInput is the operator's description of a new IPO.
type CreateCompanyInput struct {
	Name        string
	TotalShares int64
	Price       decimal.Decimal
	StartDate   string
	EndDate     string
}

// companyUsecase implements company operations.
type companyUsecase struct {
	repo CompanyRepository
}

// NewCompanyUsecase creates a companyUsecase.
func NewCompanyUsecase(repo CompanyRepository) *companyUsecase {
	return &companyUsecase{repo: repo}
}

// validate checks a CreateCompanyInput and collects every failing field.
func (in CreateCompanyInput) validate() error {
	verr := &apperr.ValidationError{}
	if strings.TrimSpace(in.Name) == "" {
		verr.Add("name", "is required")
	}
	if in.TotalShares <= 0 {
		verr.Add("totalShares", "must be greater than 0")
	}
	if !in.Price.IsPositive() {
		verr.Add("price", "must be greater than 0")
	} else if !in.Price.Equal(in.Price.Truncate(entity.MoneyScale)) {
		verr.Add("price", fmt.Sprintf("must have at most %d decimal places", entity.MoneyScale))
	}

	start, startErr := time.Parse(entity.DateLayout, in.StartDate)
	if startErr != nil {
		verr.Add("startDate", "must be a date in YYYY-MM-DD format")
	}
	end, endErr := time.Parse(entity.DateLayout, in.EndDate)
	if endErr != nil {
		verr.Add("endDate", "must be a date in YYYY-MM-DD format")
	}
	if startErr == nil && endErr == nil && end.Before(start) {
		verr.Add("endDate", "must not be before startDate")
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}

// Create stores a new company and makes it the active one in the same transaction.
func (u *companyUsecase) Create(ctx context.Context, in CreateCompanyInput) (*entity.Company, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	c := &entity.Company{
		Name:        strings.TrimSpace(in.Name),
		TotalShares: in.TotalShares,
		Price:       in.Price,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
	}
	err := u.repo.Atomic(ctx, func(repo CompanyRepository) error {
		if err := repo.Create(ctx, c); err != nil {
			return err
		}
		return repo.SetActiveID(ctx, c.ID)
	})
	if err != nil {
		return nil, fmt.Errorf("create company: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"company_id":   c.ID,
		"name":         c.Name,
		"total_shares": c.TotalShares,
		"price":        c.Price.String(),
	}).Info("company created and activated")
	return c, nil
}

// List returns every company, newest first.
func (u *companyUsecase) List(ctx context.Context) ([]entity.Company, error) {
	return u.repo.List(ctx)
}

// Get returns one company.
func (u *companyUsecase) Get(ctx context.Context, id uint) (*entity.Company, error) {
	return u.repo.FindByID(ctx, id)
}

// Active resolves the active company. The explicit pointer wins; when it is
// unset the most recently created company is used.
func (u *companyUsecase) Active(ctx context.Context) (*entity.Company, error) {
	id, ok, err := u.repo.ActiveID(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return u.repo.Latest(ctx)
	}

	c, err := u.repo.FindByID(ctx, id)
	if errors.Is(err, domain.ErrCompanyNotFound) {
		// stale pointer
		logrus.WithField("company_id", id).Warn("active company pointer is stale, falling back to latest")
		return u.repo.Latest(ctx)
	}
	return c, err
}

// Activate repoints the active company.
func (u *companyUsecase) Activate(ctx context.Context, id uint) (*entity.Company, error) {
	var c *entity.Company
	err := u.repo.Atomic(ctx, func(repo CompanyRepository) error {
		found, err := repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		c = found
		return repo.SetActiveID(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	logrus.WithField("company_id", id).Info("active company changed")
	return c, nil
}
