// Package adapters provides the gorm-backed application repository.
package adapters

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"ipo_backend/internal/feature/application/domain"
	"ipo_backend/internal/feature/application/usecase"
	"ipo_backend/internal/feature/ipo/domain/entity"
	platformdb "ipo_backend/internal/platform/db"
	"ipo_backend/internal/platform/db/model"
)

type applicationGorm struct {
	db *gorm.DB
}

var _ usecase.ApplicationRepository = (*applicationGorm)(nil)

// NewApplicationRepository creates an applicationGorm for the given connection.
func NewApplicationRepository(db *gorm.DB) *applicationGorm {
	return &applicationGorm{db: db}
}

// Atomic runs fn inside one transaction; any error rolls it back.
func (r *applicationGorm) Atomic(ctx context.Context, fn func(repo usecase.ApplicationRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&applicationGorm{db: tx})
	})
}

func (r *applicationGorm) exists(ctx context.Context, column, value string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.ApplicantModel{}).
		Where(column+" = ?", value).
		Count(&n).Error
	return n > 0, err
}

// PANExists reports whether an applicant already uses pan.
func (r *applicationGorm) PANExists(ctx context.Context, pan string) (bool, error) {
	return r.exists(ctx, "pan", pan)
}

// DematExists reports whether an applicant already uses dematNo.
func (r *applicationGorm) DematExists(ctx context.Context, dematNo string) (bool, error) {
	return r.exists(ctx, "demat_no", dematNo)
}

// CreateApplicant inserts the applicant and fills in its id.
func (r *applicationGorm) CreateApplicant(ctx context.Context, a *entity.Applicant) error {
	m := model.ApplicantModel{Name: a.Name, PAN: a.PAN, DematNo: a.DematNo}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if platformdb.IsUniqueViolation(err) {
			return fmt.Errorf("%w (%v)", domain.ErrDuplicateApplicant, err)
		}
		return platformdb.TranslateError(err)
	}
	a.ID = m.ID
	return nil
}

// CreateApplication inserts the application and fills in its id.
func (r *applicationGorm) CreateApplication(ctx context.Context, a *entity.Application) error {
	m := model.ApplicationModel{
		ApplicantID: a.ApplicantID,
		CompanyID:   a.CompanyID,
		SharesReq:   a.SharesReq,
		Amount:      a.Amount,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return platformdb.TranslateError(err)
	}
	a.ID = m.ID
	return nil
}

// ListDetails returns the joined view for every company, newest first.
func (r *applicationGorm) ListDetails(ctx context.Context) ([]entity.ApplicationDetail, error) {
	return model.ListDetails(r.db.WithContext(ctx), 0)
}
