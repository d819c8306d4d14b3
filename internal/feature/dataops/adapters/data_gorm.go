// Package adapters provides the gorm-backed export and reset repository.
package adapters

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	appadapters "ipo_backend/internal/feature/application/adapters"
	appusecase "ipo_backend/internal/feature/application/usecase"
	"ipo_backend/internal/feature/dataops/usecase"
	ipoadapters "ipo_backend/internal/feature/ipo/adapters"
	"ipo_backend/internal/feature/ipo/domain/entity"
	ipousecase "ipo_backend/internal/feature/ipo/usecase"
	"ipo_backend/internal/platform/db/model"
)

type dataGorm struct {
	db *gorm.DB
}

var _ usecase.DataRepository = (*dataGorm)(nil)

// NewDataRepository creates a dataGorm for the given connection.
func NewDataRepository(db *gorm.DB) *dataGorm {
	return &dataGorm{db: db}
}

// Atomic runs fn inside one transaction; any error rolls it back.
func (r *dataGorm) Atomic(ctx context.Context, fn func(repo usecase.DataRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&dataGorm{db: tx})
	})
}

// ListCompanies returns every company, newest first.
func (r *dataGorm) ListCompanies(ctx context.Context) ([]entity.Company, error) {
	var rows []model.CompanyModel
	if err := r.db.WithContext(ctx).Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.Company, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToEntity())
	}
	return out, nil
}

// ListDetails returns the joined view for every company, newest first.
func (r *dataGorm) ListDetails(ctx context.Context) ([]entity.ApplicationDetail, error) {
	return model.ListDetails(r.db.WithContext(ctx), 0)
}

// Reset deletes every row in dependency order.
func (r *dataGorm) Reset(ctx context.Context) (usecase.ResetResult, error) {
	var res usecase.ResetResult
	all := r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true})

	steps := []struct {
		table string
		model any
		count *int64
	}{
		{"refunds", &model.RefundModel{}, &res.Refunds},
		{"allotments", &model.AllotmentModel{}, &res.Allotments},
		{"applications", &model.ApplicationModel{}, &res.Applications},
		{"applicants", &model.ApplicantModel{}, &res.Applicants},
		{"companies", &model.CompanyModel{}, &res.Companies},
		{"settings", &model.SettingModel{}, &res.Settings},
	}
	for _, s := range steps {
		tx := all.Delete(s.model)
		if tx.Error != nil {
			return res, fmt.Errorf("clear %s: %w", s.table, tx.Error)
		}
		*s.count = tx.RowsAffected
	}
	return res, nil
}

// SeedTargets builds the company and application usecases on this
// repository's connection.
func (r *dataGorm) SeedTargets() (usecase.CompanyCreator, usecase.Submitter) {
	companies := ipousecase.NewCompanyUsecase(ipoadapters.NewCompanyRepository(r.db))
	return companies, appusecase.NewApplicationUsecase(appadapters.NewApplicationRepository(r.db), companies)
}
