package entity

// Status is the processing state of an application. It is derived from the
// presence of related rows and never stored.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusAllotted  Status = "Allotted"
	StatusProcessed Status = "Processed"
)

// DeriveStatus computes the status from whether an allotment and a refund exist.
func DeriveStatus(hasAllotment, hasRefund bool) Status {
	switch {
	case !hasAllotment:
		return StatusPending
	case !hasRefund:
		return StatusAllotted
	default:
		return StatusProcessed
	}
}
