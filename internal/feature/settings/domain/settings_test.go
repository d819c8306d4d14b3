package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ipo_backend/internal/shared/apperr"
)

func TestMerge(t *testing.T) {
	t.Parallel()

	got := Merge([]Row{
		{Key: "company.companyName", Value: `"Acme Ltd"`},
		{Key: "system.autoAllotment", Value: `true`},
		{Key: "security.sessionTimeout", Value: `30`},
		{Key: "company.extra", Value: `{"a":1}`},
		{Key: "ipo.activeCompanyId", Value: `3`},
		{Key: "system", Value: `"no field"`},
		{Key: "system.theme", Value: `not json`},
	})

	assert.Equal(t, "Acme Ltd", got["company"]["companyName"])
	assert.Equal(t, true, got["system"]["autoAllotment"])
	assert.Equal(t, float64(30), got["security"]["sessionTimeout"])
	assert.Equal(t, map[string]any{"a": float64(1)}, got["company"]["extra"])
	assert.Equal(t, "system", got["system"]["theme"], "invalid JSON keeps the default")
	assert.NotContains(t, got, "ipo")
	assert.Len(t, got, 3)
}

func TestMerge_DoesNotMutateDefaults(t *testing.T) {
	t.Parallel()

	Merge([]Row{{Key: "company.companyName", Value: `"Changed"`}})

	assert.Equal(t, "", Defaults()["company"]["companyName"])
}

func TestFlatten(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		update     map[string]any
		want       []Row
		wantFields []string
	}{
		{
			name: "nested fields become rows in key order",
			update: map[string]any{
				"system":  map[string]any{"theme": "dark", "autoRefunds": true},
				"company": map[string]any{"defaultIpoShares": float64(5000)},
			},
			want: []Row{
				{Key: "company.defaultIpoShares", Value: "5000"},
				{Key: "system.autoRefunds", Value: "true"},
				{Key: "system.theme", Value: `"dark"`},
			},
		},
		{
			name:   "empty update",
			update: map[string]any{},
			want:   nil,
		},
		{
			name: "unknown and scalar sections are rejected",
			update: map[string]any{
				"ipo":      map[string]any{"activeCompanyId": float64(9)},
				"security": "off",
			},
			wantFields: []string{"ipo", "security"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := Flatten(tt.update)

			if tt.wantFields != nil {
				var verr *apperr.ValidationError
				require.ErrorAs(t, err, &verr)
				fields := make([]string, 0, len(verr.Fields))
				for _, f := range verr.Fields {
					fields = append(fields, f.Field)
				}
				assert.Equal(t, tt.wantFields, fields)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, rows)
		})
	}
}
