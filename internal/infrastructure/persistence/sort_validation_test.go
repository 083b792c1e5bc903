package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	for input, want := range map[string]string{
		"":                        "DESC",
		"asc":                     "ASC",
		"  ASC ":                  "ASC",
		"desc":                    "DESC",
		"crescente":               "DESC",
		"ASC; DROP TABLE lots;--": "DESC",
	} {
		assert.Equal(t, want, ValidateSortOrder(input), "input %q", input)
	}
}

func TestValidateSortField(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "created_at"},
		{"species", "species"},
		{"  current_quantity ", "current_quantity"},
		{"SPECIES", "created_at"},
		{"tenant_id", "created_at"},
		{"species; DROP TABLE lots;--", "created_at"},
		{"species'--", "created_at"},
		{"species status", "created_at"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateSortField(tt.input, LotSortFields, "created_at"))
		})
	}
	assert.Empty(t, ValidateSortField("peso", TankSortFields, ""))
}

func TestSortFieldsWhitelists(t *testing.T) {
	whitelists := map[string]map[string]bool{
		"TankSortFields":        TankSortFields,
		"LotSortFields":         LotSortFields,
		"ActivityLogSortFields": ActivityLogSortFields,
	}

	for name, fields := range whitelists {
		t.Run(name, func(t *testing.T) {
			assert.True(t, fields["created_at"], "%s should allow created_at", name)
			assert.False(t, fields["tenant_id"], "%s must not expose tenant_id", name)
		})
	}

	assert.Equal(t, "entry_date", ValidateSortField("entry_date", LotSortFields, "created_at"))
	assert.Equal(t, "created_at", ValidateSortField("notes", LotSortFields, "created_at"))
}
