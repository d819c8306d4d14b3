// Package dto defines data transfer objects for the settings HTTP API.
package dto

import "ipo_backend/internal/feature/settings/domain"

// UpdateResponse is the body returned by PUT /api/settings.
type UpdateResponse struct {
	Success  bool            `json:"success"`
	Message  string          `json:"message"`
	Settings domain.Sections `json:"settings"`
}
