// Package domain defines domain-level errors for the ipo feature.
package domain

import (
	"fmt"

	"ipo_backend/internal/shared/apperr"
)

// ActiveCompanyKey is the settings key holding the active company pointer.
const ActiveCompanyKey = "ipo.activeCompanyId"

var (
	// ErrCompanyNotFound is returned when a company id does not exist.
	ErrCompanyNotFound = fmt.Errorf("%w: company not found", apperr.ErrNotFound)

	// ErrNoActiveCompany is returned when no company has been created yet.
	ErrNoActiveCompany = fmt.Errorf("%w: no active IPO found", apperr.ErrNotFound)
)
