// Package profile builds a data-quality report over the raw CSV rows
// without touching the database. It mirrors the checks the cleaning rules
// enforce, so the report predicts what a load would skip.
package profile

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/vvka-141/emload/internal/csvfile"
	"github.com/vvka-141/emload/pkg/emload"
)

// RowSource yields raw rows until io.EOF. *csvfile.Reader satisfies it.
type RowSource interface {
	Next() (csvfile.RawRecord, error)
}

// Report is the outcome of profiling one CSV file.
type Report struct {
	RowsRead int

	// MissingByColumn counts empty values per column name.
	MissingByColumn map[string]int

	// DuplicateIDs maps each employee ID that appears more than once to
	// its number of occurrences.
	DuplicateIDs map[string]int

	// InvalidDates counts rows whose date_of_joining matches none of the
	// accepted layouts (empty values count under MissingByColumn instead).
	InvalidDates int

	// NonNumericSalaries counts rows whose salary is present but not numeric.
	NonNumericSalaries int

	// RawDepartments is the set of distinct department spellings as they
	// appear in the file, before canonicalization.
	RawDepartments []string
}

// Analyze consumes every row from src and aggregates the report.
func Analyze(src RowSource) (*Report, error) {
	report := &Report{
		MissingByColumn: make(map[string]int),
		DuplicateIDs:    make(map[string]int),
	}

	idCounts := make(map[string]int)
	departments := make(map[string]struct{})

	for {
		raw, err := src.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		report.RowsRead++

		countMissing(report, csvfile.ColEmployeeID, raw.EmployeeID)
		countMissing(report, csvfile.ColName, raw.Name)
		countMissing(report, csvfile.ColAge, raw.Age)
		countMissing(report, csvfile.ColDepartment, raw.Department)
		countMissing(report, csvfile.ColDateOfJoining, raw.DateOfJoining)
		countMissing(report, csvfile.ColYearsOfExperience, raw.YearsOfExperience)
		countMissing(report, csvfile.ColCountry, raw.Country)
		countMissing(report, csvfile.ColSalary, raw.Salary)
		countMissing(report, csvfile.ColPerformanceRating, raw.PerformanceRating)

		if id := strings.TrimSpace(raw.EmployeeID); id != "" {
			idCounts[id]++
		}

		if date := strings.TrimSpace(raw.DateOfJoining); date != "" && !parseable(date) {
			report.InvalidDates++
		}

		if salary := strings.TrimSpace(raw.Salary); salary != "" {
			if _, err := strconv.ParseInt(salary, 10, 64); err != nil {
				report.NonNumericSalaries++
			}
		}

		if dept := strings.TrimSpace(raw.Department); dept != "" {
			departments[dept] = struct{}{}
		}
	}

	for id, n := range idCounts {
		if n > 1 {
			report.DuplicateIDs[id] = n
		}
	}

	for dept := range departments {
		report.RawDepartments = append(report.RawDepartments, dept)
	}
	sort.Strings(report.RawDepartments)

	return report, nil
}

// Render writes the human-readable report.
func (r *Report) Render(w io.Writer) {
	fmt.Fprintln(w, "=== Data Profiling Report ===")
	fmt.Fprintf(w, "Rows: %d\n", r.RowsRead)

	fmt.Fprintln(w, "\nMissing values per column:")
	for _, col := range []string{
		csvfile.ColEmployeeID, csvfile.ColName, csvfile.ColAge,
		csvfile.ColDepartment, csvfile.ColDateOfJoining,
		csvfile.ColYearsOfExperience, csvfile.ColCountry,
		csvfile.ColSalary, csvfile.ColPerformanceRating,
	} {
		fmt.Fprintf(w, "  %-20s %d\n", col, r.MissingByColumn[col])
	}

	if len(r.DuplicateIDs) > 0 {
		fmt.Fprintf(w, "\nDuplicate employee IDs: %d\n", len(r.DuplicateIDs))
		ids := make([]string, 0, len(r.DuplicateIDs))
		for id := range r.DuplicateIDs {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			fmt.Fprintf(w, "  %s (%d occurrences)\n", id, r.DuplicateIDs[id])
		}
	} else {
		fmt.Fprintln(w, "\nNo duplicate employee IDs found.")
	}

	fmt.Fprintf(w, "\nRows with unparseable dates: %d\n", r.InvalidDates)
	fmt.Fprintf(w, "Rows with non-numeric salaries: %d\n", r.NonNumericSalaries)

	fmt.Fprintf(w, "\nDistinct raw department values (%d):\n", len(r.RawDepartments))
	for _, dept := range r.RawDepartments {
		fmt.Fprintf(w, "  %q\n", dept)
	}
}

func countMissing(report *Report, col, value string) {
	if strings.TrimSpace(value) == "" {
		report.MissingByColumn[col]++
	}
}

func parseable(date string) bool {
	for _, layout := range emload.DateLayouts {
		if _, err := time.Parse(layout, date); err == nil {
			return true
		}
	}
	return false
}
