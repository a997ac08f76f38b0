// Package clean implements the per-record cleaning rules applied to raw CSV
// rows before insertion.
//
// Policies are fixed and documented here:
//
//   - String fields are trimmed of leading/trailing whitespace.
//   - Department names are canonicalized through the alias table; unmapped
//     values keep their uppercased, whitespace-stripped form.
//   - Name and Country are title-cased; empty values become "Unknown",
//     as does an empty PerformanceRating.
//   - Age and YearsOfExperience are optional: empty or non-numeric values
//     become the -1 sentinel.
//   - EmployeeID, Salary and DateOfJoining are required. A missing or
//     malformed value REJECTS the row (skip-and-count policy, no sentinel).
//   - Dates are parsed against emload.DateLayouts in order.
//
// Every parse is an explicit per-field function returning a typed value or
// an error; nothing is coerced implicitly.
package clean

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/vvka-141/emload/internal/csvfile"
	"github.com/vvka-141/emload/pkg/emload"
)

// Cleaner transforms raw CSV rows into typed Employee records.
// Safe for concurrent use: all state is immutable after construction.
type Cleaner struct {
	departments *Departments
	title       cases.Caser
}

// New creates a Cleaner. extraAliases extends the built-in department
// alias table (typically from emload.yaml); nil is fine.
func New(extraAliases map[string]string) *Cleaner {
	return &Cleaner{
		departments: NewDepartments(extraAliases),
		title:       cases.Title(language.English),
	}
}

// Clean transforms one raw row into a typed record.
// Returns an error wrapping emload.ErrRowRejected when a required field is
// missing or malformed; callers skip and count such rows, never abort.
func (c *Cleaner) Clean(raw csvfile.RawRecord) (emload.Employee, error) {
	id, err := parseEmployeeID(raw.EmployeeID)
	if err != nil {
		return emload.Employee{}, rejectf(raw.Line, "employee_id", err)
	}

	salary, err := parseSalary(raw.Salary)
	if err != nil {
		return emload.Employee{}, rejectf(raw.Line, "salary", err)
	}

	joined, err := parseDate(raw.DateOfJoining)
	if err != nil {
		return emload.Employee{}, rejectf(raw.Line, "date_of_joining", err)
	}

	return emload.Employee{
		EmployeeID:        id,
		Name:              c.cleanText(raw.Name),
		Department:        c.departments.Canonical(raw.Department),
		Country:           c.cleanText(raw.Country),
		Age:               parseOptionalInt(raw.Age),
		YearsOfExperience: parseOptionalInt(raw.YearsOfExperience),
		Salary:            salary,
		DateOfJoining:     joined,
		PerformanceRating: defaultIfEmpty(strings.TrimSpace(raw.PerformanceRating)),
	}, nil
}

// cleanText trims, substitutes the Unknown default, and title-cases.
func (c *Cleaner) cleanText(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return emload.UnknownText
	}
	return c.title.String(strings.ToLower(s))
}

// parseEmployeeID parses the required identifier. Must be a positive integer.
func parseEmployeeID(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("missing")
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("not an integer: %q", s)
	}
	if id <= 0 {
		return 0, fmt.Errorf("not positive: %d", id)
	}
	return id, nil
}

// parseSalary parses the required salary. Non-numeric input rejects the
// row; there is no sentinel fallback for salary.
func parseSalary(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("missing")
	}
	salary, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("not numeric: %q", s)
	}
	if salary < 0 {
		return 0, fmt.Errorf("negative: %d", salary)
	}
	return salary, nil
}

// parseOptionalInt parses optional numeric fields.
// Empty or malformed values become the MissingNumber sentinel.
func parseOptionalInt(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return emload.MissingNumber
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return emload.MissingNumber
	}
	return n
}

// parseDate tries the accepted layouts in order.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("missing")
	}
	for _, layout := range emload.DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date: %q", s)
}

func defaultIfEmpty(s string) string {
	if s == "" {
		return emload.UnknownText
	}
	return s
}

// rejectf wraps a field-level parse failure into a row rejection.
func rejectf(line int, field string, err error) error {
	return fmt.Errorf("%w: line %d: %s: %v", emload.ErrRowRejected, line, field, err)
}
