// Package domain holds the submission rules for IPO applications.
package domain

import (
	"fmt"

	"ipo_backend/internal/shared/apperr"
)

// ErrDuplicateApplicant is returned when the store rejects an applicant whose
// PAN or demat number is already registered.
var ErrDuplicateApplicant = fmt.Errorf("%w: PAN or demat number already exists", apperr.ErrValidation)
