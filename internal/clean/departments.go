package clean

import "strings"

// defaultAliases maps inconsistent department spellings, compared after
// whitespace removal and uppercasing, to their canonical form.
var defaultAliases = map[string]string{
	"OPERATIONS":      "OPERATIONS",
	"OPRATIONS":       "OPERATIONS",
	"CUSTOMERSUPPORT": "CUSTOMER SUPPORT",
	"CUSTSUPPORT":     "CUSTOMER SUPPORT",
	"SUPPORT":         "CUSTOMER SUPPORT",
	"HR":              "HR",
	"HUMANRESOURCES":  "HR",
	"IT":              "IT",
	"LOGISTICS":       "LOGISTICS",
	"LOGSTICS":        "LOGISTICS",
	"LEGAL":           "LEGAL",
	"LEGL":            "LEGAL",
	"MARKETING":       "MARKETING",
	"MARKNG":          "MARKETING",
	"MARKTING":        "MARKETING",
	"SALES":           "SALES",
	"FINANCE":         "FINANCE",
	"FIN":             "FINANCE",
	"FINANACE":        "FINANCE",
	"R&D":             "R&D",
	"RND":             "R&D",
	"RESEARCH":        "R&D",
}

// Departments canonicalizes department names.
type Departments struct {
	aliases map[string]string
}

// NewDepartments builds the canonicalizer from the built-in alias table,
// extended (and overridable) by extra mappings from emload.yaml.
// Extra keys are normalized the same way lookups are.
func NewDepartments(extra map[string]string) *Departments {
	aliases := make(map[string]string, len(defaultAliases)+len(extra))
	for k, v := range defaultAliases {
		aliases[k] = v
	}
	for k, v := range extra {
		aliases[normalizeDept(k)] = v
	}
	return &Departments{aliases: aliases}
}

// Canonical returns the canonical department name for raw.
// Unmapped values keep their normalized (whitespace-stripped, uppercased)
// form rather than being rejected: an unknown department is data, not an
// error.
func (d *Departments) Canonical(raw string) string {
	key := normalizeDept(raw)
	if canonical, ok := d.aliases[key]; ok {
		return canonical
	}
	return key
}

// normalizeDept removes ALL whitespace and uppercases, so "Custo mer
// Support" and "customersupport" collapse to the same key.
func normalizeDept(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), ""))
}
