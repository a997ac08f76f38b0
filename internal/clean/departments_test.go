package clean

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonical_AliasTable(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Operations", "OPERATIONS"},
		{"Oprations", "OPERATIONS"},
		{"Customer Support", "CUSTOMER SUPPORT"},
		{"CustSupport", "CUSTOMER SUPPORT"},
		{"Support", "CUSTOMER SUPPORT"},
		{"Human Resources", "HR"},
		{"hr", "HR"},
		{"it", "IT"},
		{"Logstics", "LOGISTICS"},
		{"Legl", "LEGAL"},
		{"Markng", "MARKETING"},
		{"Markting", "MARKETING"},
		{"Fin", "FINANCE"},
		{"Finanace", "FINANCE"},
		{"RnD", "R&D"},
		{"Research", "R&D"},
		{"r&d", "R&D"},
	}

	d := NewDepartments(nil)
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, d.Canonical(tt.raw))
		})
	}
}

func TestCanonical_WhitespaceInsensitive(t *testing.T) {
	d := NewDepartments(nil)

	// Internal whitespace is removed before lookup, so mangled spellings
	// still collapse onto their alias.
	assert.Equal(t, "CUSTOMER SUPPORT", d.Canonical("Custo mer Support"))
	assert.Equal(t, "OPERATIONS", d.Canonical("  opera tions "))
}

func TestCanonical_UnmappedKeepsNormalizedForm(t *testing.T) {
	d := NewDepartments(nil)

	assert.Equal(t, "QUALITYASSURANCE", d.Canonical(" Quality Assurance "))
}

func TestCanonical_ExtraAliases(t *testing.T) {
	d := NewDepartments(map[string]string{
		"Quality Assurance": "QA",
		"OPS":               "OPERATIONS",
	})

	assert.Equal(t, "QA", d.Canonical("qualityassurance"))
	assert.Equal(t, "OPERATIONS", d.Canonical("ops"))
	// Built-ins still apply
	assert.Equal(t, "FINANCE", d.Canonical("Fin"))
}
