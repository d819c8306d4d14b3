// Package domain holds the operator settings document and its storage shape.
package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"ipo_backend/internal/shared/apperr"
)

// Sections is the settings document: section name to field values.
type Sections map[string]map[string]any

// Row is one stored setting. Key is "section.field"; Value is JSON.
type Row struct {
	Key   string
	Value string
}

// Defaults returns a fresh copy of the built-in settings.
func Defaults() Sections {
	return Sections{
		"company": {
			"companyName":      "",
			"contactEmail":     "",
			"contactPhone":     "",
			"address":          "",
			"defaultIpoPrice":  float64(100),
			"defaultIpoShares": float64(100000),
		},
		"system": {
			"enableNotifications":    true,
			"autoAllotment":          false,
			"autoRefunds":            false,
			"emailNotifications":     false,
			"maxApplicationsPerUser": float64(1),
			"defaultAllotmentMode":   "pro-rata",
			"theme":                  "system",
		},
		"security": {
			"requireStrongPassword": true,
			"sessionTimeout":        float64(60),
			"enableTwoFactor":       false,
			"auditLogging":          true,
		},
	}
}

// Merge overlays stored rows on the defaults. Rows for unknown sections, rows
// without a field, and rows holding invalid JSON are skipped.
func Merge(rows []Row) Sections {
	out := Defaults()
	for _, r := range rows {
		section, field, ok := strings.Cut(r.Key, ".")
		if !ok || field == "" {
			continue
		}
		fields, known := out[section]
		if !known {
			continue
		}
		var v any
		if err := json.Unmarshal([]byte(r.Value), &v); err != nil {
			logrus.WithError(err).WithField("key", r.Key).Warn("skipping unparsable setting")
			continue
		}
		fields[field] = v
	}
	return out
}

// Flatten turns an update document into rows, one per field, in key order.
// Only known sections are accepted and every section must be an object.
func Flatten(update map[string]any) ([]Row, error) {
	known := Defaults()
	verr := &apperr.ValidationError{}
	var rows []Row

	sections := make([]string, 0, len(update))
	for section := range update {
		sections = append(sections, section)
	}
	sort.Strings(sections)

	for _, section := range sections {
		raw := update[section]
		if _, ok := known[section]; !ok {
			verr.Add(section, "unknown settings section")
			continue
		}
		fields, ok := raw.(map[string]any)
		if !ok {
			verr.Add(section, "must be an object")
			continue
		}
		for field, v := range fields {
			b, err := json.Marshal(v)
			if err != nil {
				return nil, fmt.Errorf("encode setting %s.%s: %w", section, field, err)
			}
			rows = append(rows, Row{Key: section + "." + field, Value: string(b)})
		}
	}
	if verr.HasErrors() {
		return nil, verr
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].Key < rows[j].Key })
	return rows, nil
}
