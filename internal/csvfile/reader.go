// Package csvfile streams raw employee rows from the source CSV file.
//
// The reader is lazy: rows are yielded one at a time and nothing buffers the
// whole file. Column order in the file does not matter; columns are located
// by header name, case-insensitively.
package csvfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vvka-141/emload/pkg/emload"
)

// Header column names expected in the source file.
const (
	ColEmployeeID        = "employee_id"
	ColName              = "name"
	ColAge               = "age"
	ColDepartment        = "department"
	ColDateOfJoining     = "date_of_joining"
	ColYearsOfExperience = "years_of_experience"
	ColCountry           = "country"
	ColSalary            = "salary"
	ColPerformanceRating = "performance_rating"
)

// requiredColumns must all be present in the header.
var requiredColumns = []string{
	ColEmployeeID,
	ColName,
	ColDepartment,
	ColDateOfJoining,
	ColSalary,
}

// RawRecord is one data row exactly as it appears in the file,
// before any cleaning.
type RawRecord struct {
	// Line is the 1-based line number in the file, for skip diagnostics.
	Line int

	EmployeeID        string
	Name              string
	Age               string
	Department        string
	DateOfJoining     string
	YearsOfExperience string
	Country           string
	Salary            string
	PerformanceRating string
}

// Reader streams RawRecords from an open CSV file.
type Reader struct {
	file     *os.File
	csv      *csv.Reader
	colIndex map[string]int
	line     int
}

// Open opens the CSV at path, reads and validates the header, and returns
// a Reader positioned at the first data row.
// Returns emload.ErrCSVNotFound when the file does not exist and
// emload.ErrBadHeader when required columns are missing.
func Open(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", emload.ErrCSVNotFound, path)
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	reader := csv.NewReader(file)
	// Ragged rows are handled per-record, not rejected wholesale.
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		file.Close()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %s is empty", emload.ErrBadHeader, path)
		}
		return nil, fmt.Errorf("failed to read CSV header from %s: %w", path, err)
	}

	colIndex := make(map[string]int, len(header))
	for i, col := range header {
		colIndex[normalizeHeader(col)] = i
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := colIndex[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		file.Close()
		return nil, fmt.Errorf("%w: %s", emload.ErrBadHeader, strings.Join(missing, ", "))
	}

	return &Reader{
		file:     file,
		csv:      reader,
		colIndex: colIndex,
		line:     1, // header consumed
	}, nil
}

// Next returns the next data row, or io.EOF after the last one.
// Read errors other than EOF are fatal: CSV framing is broken and
// the remainder of the file cannot be trusted.
func (r *Reader) Next() (RawRecord, error) {
	record, err := r.csv.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return RawRecord{}, io.EOF
		}
		return RawRecord{}, fmt.Errorf("failed to read CSV record: %w", err)
	}
	r.line++

	return RawRecord{
		Line:              r.line,
		EmployeeID:        r.field(record, ColEmployeeID),
		Name:              r.field(record, ColName),
		Age:               r.field(record, ColAge),
		Department:        r.field(record, ColDepartment),
		DateOfJoining:     r.field(record, ColDateOfJoining),
		YearsOfExperience: r.field(record, ColYearsOfExperience),
		Country:           r.field(record, ColCountry),
		Salary:            r.field(record, ColSalary),
		PerformanceRating: r.field(record, ColPerformanceRating),
	}, nil
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	return r.file.Close()
}

// field returns the named column of record, or "" when the column is
// absent from the header or the row is too short.
func (r *Reader) field(record []string, col string) string {
	idx, ok := r.colIndex[col]
	if !ok || idx >= len(record) {
		return ""
	}
	return record[idx]
}

// normalizeHeader maps header spellings like "Employee_ID" or
// "Date of Joining" to canonical column names.
func normalizeHeader(col string) string {
	col = strings.TrimSpace(strings.ToLower(col))
	return strings.ReplaceAll(col, " ", "_")
}
