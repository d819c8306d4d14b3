// Package adapters provides the gorm-backed settings repository.
package adapters

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ipo_backend/internal/feature/settings/domain"
	"ipo_backend/internal/feature/settings/usecase"
	"ipo_backend/internal/platform/db/model"
)

type settingsGorm struct {
	db *gorm.DB
}

var _ usecase.SettingsRepository = (*settingsGorm)(nil)

// NewSettingsRepository creates a settingsGorm for the given connection.
func NewSettingsRepository(db *gorm.DB) *settingsGorm {
	return &settingsGorm{db: db}
}

// Atomic runs fn inside one transaction; any error rolls it back.
func (r *settingsGorm) Atomic(ctx context.Context, fn func(repo usecase.SettingsRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&settingsGorm{db: tx})
	})
}

// List returns every stored row in key order.
func (r *settingsGorm) List(ctx context.Context) ([]domain.Row, error) {
	var rows []model.SettingModel
	if err := r.db.WithContext(ctx).Order("key ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Row, 0, len(rows))
	for _, m := range rows {
		out = append(out, domain.Row{Key: m.Key, Value: m.Value})
	}
	return out, nil
}

// Upsert inserts or replaces each row by key.
func (r *settingsGorm) Upsert(ctx context.Context, rows []domain.Row) error {
	if len(rows) == 0 {
		return nil
	}
	now := time.Now()
	models := make([]model.SettingModel, 0, len(rows))
	for _, row := range rows {
		models = append(models, model.SettingModel{Key: row.Key, Value: row.Value, UpdatedAt: now})
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&models).Error
}
