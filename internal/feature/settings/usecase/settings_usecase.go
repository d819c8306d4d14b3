// Package usecase reads and updates operator settings.
package usecase

import (
	"context"

	"github.com/sirupsen/logrus"

	"ipo_backend/internal/feature/settings/domain"
)

// SettingsRepository abstracts the settings table.
type SettingsRepository interface {
	// Atomic runs fn against a repository bound to one transaction.
	Atomic(ctx context.Context, fn func(repo SettingsRepository) error) error
	List(ctx context.Context) ([]domain.Row, error)
	// Upsert inserts or replaces each row by key.
	Upsert(ctx context.Context, rows []domain.Row) error
}

type settingsUsecase struct {
	repo SettingsRepository
}

// NewSettingsUsecase creates a settingsUsecase.
func NewSettingsUsecase(repo SettingsRepository) *settingsUsecase {
	return &settingsUsecase{repo: repo}
}

// Get returns the stored settings merged over the defaults.
func (u *settingsUsecase) Get(ctx context.Context) (domain.Sections, error) {
	rows, err := u.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return domain.Merge(rows), nil
}

// Update stores every field of update and returns the merged result.
// Nothing is written when any section is rejected.
func (u *settingsUsecase) Update(ctx context.Context, update map[string]any) (domain.Sections, error) {
	rows, err := domain.Flatten(update)
	if err != nil {
		return nil, err
	}

	var merged domain.Sections
	err = u.repo.Atomic(ctx, func(repo SettingsRepository) error {
		if err := repo.Upsert(ctx, rows); err != nil {
			return err
		}
		stored, err := repo.List(ctx)
		if err != nil {
			return err
		}
		merged = domain.Merge(stored)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithField("fields", len(rows)).Info("settings updated")
	return merged, nil
}
