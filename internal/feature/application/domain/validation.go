package domain

import (
	"regexp"
	"strings"

	"ipo_backend/internal/shared/apperr"
)

// MinDematLength is the shortest accepted demat account number.
const MinDematLength = 16

var panPattern = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)

// Submission is one applicant's request for shares of the active IPO.
type Submission struct {
	Name      string
	PAN       string
	DematNo   string
	SharesReq int64
}

// Normalize trims surrounding whitespace from the text fields.
func (s Submission) Normalize() Submission {
	s.Name = strings.TrimSpace(s.Name)
	s.PAN = strings.TrimSpace(s.PAN)
	s.DematNo = strings.TrimSpace(s.DematNo)
	return s
}

// ValidPAN reports whether pan is five letters, four digits and a letter.
func ValidPAN(pan string) bool {
	return panPattern.MatchString(pan)
}

// Validate checks every field and reports all failures at once.
func (s Submission) Validate() error {
	verr := &apperr.ValidationError{}
	if s.Name == "" {
		verr.Add("name", "Name is required")
	}
	if !ValidPAN(s.PAN) {
		verr.Add("pan", "Invalid PAN format")
	}
	if len(s.DematNo) < MinDematLength {
		verr.Add("dematNo", "Demat number must be at least 16 characters")
	}
	if s.SharesReq < 1 {
		verr.Add("sharesReq", "Must request at least 1 share")
	}
	if verr.HasErrors() {
		return verr
	}
	return nil
}
