package dto

import "ipo_backend/internal/feature/allotment/domain"

// RunRequest is the optional body of the run endpoints. A zero CompanyID
// targets the active company.
type RunRequest struct {
	CompanyID uint `json:"companyId"`
}

// AllotmentResponse is the body returned by a successful allotment run.
type AllotmentResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Report  domain.AllotmentReport `json:"report"`
}

// RefundResponse is the body returned by a successful refund run.
type RefundResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Report  domain.RefundReport `json:"report"`
}
