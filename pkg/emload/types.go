package emload

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ConnectionConfig represents resolved connection parameters.
type ConnectionConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	SSLMode  string

	// AppName is reported to the server as application_name.
	AppName string

	// ConnectTimeout bounds the single connection attempt.
	ConnectTimeout time.Duration
}

// LoadOptions contains all parameters needed for a load run.
type LoadOptions struct {
	// CSVPath is the source file containing employee rows.
	CSVPath string

	// DatabaseName is the target database name.
	DatabaseName string

	// ManagementDatabase is the database to connect to for server-level
	// operations (CREATE DATABASE). Typically "postgres".
	ManagementDatabase string

	// BatchSize is the number of rows sent per insert batch.
	BatchSize int

	// Staging also writes every raw row verbatim into the staging table,
	// duplicates included, mirroring the source file in the database.
	Staging bool

	// Timeout is the global timeout for the entire run.
	Timeout time.Duration

	// Verbose enables detailed logging.
	Verbose bool
}

// Validate checks if the LoadOptions has all required fields and valid values.
// It returns a multi-error if multiple validation failures occur.
func (o *LoadOptions) Validate() error {
	var errs []error

	if o.CSVPath == "" {
		errs = append(errs, fmt.Errorf("CSVPath is required: %w", ErrInvalidConfig))
	}

	if o.DatabaseName == "" {
		errs = append(errs, fmt.Errorf("DatabaseName is required: %w", ErrInvalidConfig))
	}

	if o.BatchSize <= 0 {
		errs = append(errs, fmt.Errorf("BatchSize must be positive: %w", ErrInvalidConfig))
	}

	if o.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout cannot be negative: %w", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// Employee is one cleaned, typed record ready for insertion.
// Instances are built transiently per CSV row and discarded after the
// insert succeeds; nothing retains them in memory.
type Employee struct {
	// EmployeeID is unique within a loaded set (keep-first dedup).
	EmployeeID int64

	Name       string
	Department string
	Country    string

	// Age and YearsOfExperience are MissingNumber (-1) when the source
	// value is absent or not numeric.
	Age               int
	YearsOfExperience int

	Salary        int64
	DateOfJoining time.Time

	PerformanceRating string
}

// LoadReport summarizes the outcome of one load run.
// Partial success is possible: RowsLoaded counts rows committed before
// any mid-run failure.
type LoadReport struct {
	// RunID identifies this run in the run-log table.
	RunID uuid.UUID

	CSVPath    string
	StartedAt  time.Time
	FinishedAt time.Time

	// RowsRead is every data row seen in the file, valid or not.
	RowsRead int

	// RowsLoaded is rows inserted into the final table.
	RowsLoaded int

	// RowsSkipped is rows rejected by cleaning (bad ID, salary, or date).
	RowsSkipped int

	// Duplicates is rows discarded by keep-first dedup on employee ID,
	// plus rows the database discarded because the ID was already loaded
	// by an earlier run.
	Duplicates int
}

// String renders the report in the one-line form used by the CLI summary.
func (r LoadReport) String() string {
	return fmt.Sprintf("run %s: read=%d loaded=%d skipped=%d duplicates=%d",
		r.RunID, r.RowsRead, r.RowsLoaded, r.RowsSkipped, r.Duplicates)
}
