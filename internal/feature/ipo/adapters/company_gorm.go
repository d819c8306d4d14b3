// Package adapters provides the gorm-backed company repository.
package adapters

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ipo_backend/internal/feature/ipo/domain"
	"ipo_backend/internal/feature/ipo/domain/entity"
	"ipo_backend/internal/feature/ipo/usecase"
	platformdb "ipo_backend/internal/platform/db"
	"ipo_backend/internal/platform/db/model"
)

// companyGorm implements usecase.CompanyRepository.
type companyGorm struct {
	db *gorm.DB
}

var _ usecase.CompanyRepository = (*companyGorm)(nil)

// NewCompanyRepository creates a companyGorm for the given connection.
func NewCompanyRepository(db *gorm.DB) *companyGorm {
	return &companyGorm{db: db}
}

// Atomic runs fn inside one transaction; any error rolls it back.
func (r *companyGorm) Atomic(ctx context.Context, fn func(repo usecase.CompanyRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&companyGorm{db: tx})
	})
}

// Create inserts the company and fills in its id and creation time.
func (r *companyGorm) Create(ctx context.Context, c *entity.Company) error {
	m := model.CompanyModelFromEntity(c)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return platformdb.TranslateError(err)
	}
	c.ID = m.ID
	c.CreatedAt = m.CreatedAt
	return nil
}

// FindByID returns domain.ErrCompanyNotFound for an unknown id.
func (r *companyGorm) FindByID(ctx context.Context, id uint) (*entity.Company, error) {
	var m model.CompanyModel
	err := r.db.WithContext(ctx).First(&m, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: id %d", domain.ErrCompanyNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return m.ToEntity(), nil
}

// Latest returns the company with the highest id.
func (r *companyGorm) Latest(ctx context.Context) (*entity.Company, error) {
	var m model.CompanyModel
	err := r.db.WithContext(ctx).Order("id DESC").First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNoActiveCompany
	}
	if err != nil {
		return nil, err
	}
	return m.ToEntity(), nil
}

// List returns every company, newest first.
func (r *companyGorm) List(ctx context.Context) ([]entity.Company, error) {
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

// ActiveID reads the pointer row. A missing or unparsable row reports ok=false.
func (r *companyGorm) ActiveID(ctx context.Context) (uint, bool, error) {
	var s model.SettingModel
	err := r.db.WithContext(ctx).Where("key = ?", domain.ActiveCompanyKey).Take(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	id, err := strconv.ParseUint(s.Value, 10, 64)
	if err != nil || id == 0 {
		return 0, false, nil
	}
	return uint(id), true, nil
}

// SetActiveID upserts the pointer row.
func (r *companyGorm) SetActiveID(ctx context.Context, id uint) error {
	s := model.SettingModel{
		Key:       domain.ActiveCompanyKey,
		Value:     strconv.FormatUint(uint64(id), 10),
		UpdatedAt: time.Now(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&s).Error
}
