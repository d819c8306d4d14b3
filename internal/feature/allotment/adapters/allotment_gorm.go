// Package adapters provides the gorm-backed allotment repository.
package adapters

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"ipo_backend/internal/feature/allotment/usecase"
	ipodomain "ipo_backend/internal/feature/ipo/domain"
	"ipo_backend/internal/feature/ipo/domain/entity"
	platformdb "ipo_backend/internal/platform/db"
	"ipo_backend/internal/platform/db/model"
)

const batchSize = 200

type allotmentGorm struct {
	db *gorm.DB
}

var _ usecase.AllotmentRepository = (*allotmentGorm)(nil)

// NewAllotmentRepository creates an allotmentGorm for the given connection.
func NewAllotmentRepository(db *gorm.DB) *allotmentGorm {
	return &allotmentGorm{db: db}
}

// Atomic runs fn inside one transaction; any error rolls it back.
func (r *allotmentGorm) Atomic(ctx context.Context, fn func(repo usecase.AllotmentRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&allotmentGorm{db: tx})
	})
}

// FindCompany returns ipodomain.ErrCompanyNotFound for an unknown id.
func (r *allotmentGorm) FindCompany(ctx context.Context, id uint) (*entity.Company, error) {
	var m model.CompanyModel
	err := r.db.WithContext(ctx).First(&m, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: id %d", ipodomain.ErrCompanyNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return m.ToEntity(), nil
}

// CountApplications counts the company's applications.
func (r *allotmentGorm) CountApplications(ctx context.Context, companyID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.ApplicationModel{}).
		Where("company_id = ?", companyID).
		Count(&n).Error
	return n, err
}

// ListApplications returns the company's applications in id order.
func (r *allotmentGorm) ListApplications(ctx context.Context, companyID uint) ([]entity.Application, error) {
	var rows []model.ApplicationModel
	if err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.Application, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToEntity())
	}
	return out, nil
}

// companyAllotmentIDs selects the ids of the company's allotments.
func (r *allotmentGorm) companyAllotmentIDs(ctx context.Context, companyID uint) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&model.AllotmentModel{}).
		Select("allotments.id").
		Joins("JOIN applications ON applications.id = allotments.application_id").
		Where("applications.company_id = ?", companyID)
}

// ClearAllotments deletes the company's refunds and then its allotments.
func (r *allotmentGorm) ClearAllotments(ctx context.Context, companyID uint) error {
	if err := r.ClearRefunds(ctx, companyID); err != nil {
		return err
	}
	apps := r.db.WithContext(ctx).
		Model(&model.ApplicationModel{}).
		Select("id").
		Where("company_id = ?", companyID)
	if err := r.db.WithContext(ctx).
		Where("application_id IN (?)", apps).
		Delete(&model.AllotmentModel{}).Error; err != nil {
		return platformdb.TranslateError(err)
	}
	return nil
}

// CreateAllotments inserts allotments in batches and fills in their ids.
func (r *allotmentGorm) CreateAllotments(ctx context.Context, allotments []entity.Allotment) error {
	if len(allotments) == 0 {
		return nil
	}
	rows := make([]model.AllotmentModel, 0, len(allotments))
	for _, a := range allotments {
		rows = append(rows, model.AllotmentModel{ApplicationID: a.ApplicationID, SharesAlloted: a.SharesAlloted})
	}
	if err := r.db.WithContext(ctx).CreateInBatches(&rows, batchSize).Error; err != nil {
		return platformdb.TranslateError(err)
	}
	for i := range rows {
		allotments[i].ID = rows[i].ID
	}
	return nil
}

// ListAllotted returns applications that have an allotment, in application id order.
func (r *allotmentGorm) ListAllotted(ctx context.Context, companyID uint) ([]entity.AllottedApplication, error) {
	var rows []entity.AllottedApplication
	err := r.db.WithContext(ctx).
		Table("applications AS app").
		Select(`app.id AS application_id,
			allot.id AS allotment_id,
			app.shares_req AS shares_req,
			allot.shares_alloted AS shares_alloted`).
		Joins("JOIN allotments AS allot ON allot.application_id = app.id").
		Where("app.company_id = ?", companyID).
		Order("app.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ClearRefunds deletes the company's refunds.
func (r *allotmentGorm) ClearRefunds(ctx context.Context, companyID uint) error {
	if err := r.db.WithContext(ctx).
		Where("allotment_id IN (?)", r.companyAllotmentIDs(ctx, companyID)).
		Delete(&model.RefundModel{}).Error; err != nil {
		return platformdb.TranslateError(err)
	}
	return nil
}

// CreateRefunds inserts refunds in batches. A second refund for the same
// allotment fails with apperr.ErrConstraint.
func (r *allotmentGorm) CreateRefunds(ctx context.Context, refunds []entity.Refund) error {
	if len(refunds) == 0 {
		return nil
	}
	rows := make([]model.RefundModel, 0, len(refunds))
	for _, f := range refunds {
		rows = append(rows, model.RefundModel{AllotmentID: f.AllotmentID, Amount: f.Amount})
	}
	if err := r.db.WithContext(ctx).CreateInBatches(&rows, batchSize).Error; err != nil {
		return platformdb.TranslateError(err)
	}
	for i := range rows {
		refunds[i].ID = rows[i].ID
	}
	return nil
}

// ListResults returns the joined view; companyID 0 selects every company.
func (r *allotmentGorm) ListResults(ctx context.Context, companyID uint) ([]entity.ApplicationDetail, error) {
	return model.ListDetails(r.db.WithContext(ctx), companyID)
}
