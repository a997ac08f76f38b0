package emload

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess          = 0  // Load completed successfully
	ExitGeneralError     = 1  // Unknown or unclassified error
	ExitUsageError       = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic            = 3  // Internal panic (unexpected crash)
	ExitConfigError      = 10 // Invalid configuration or parameters
	ExitConnectionError  = 11 // Failed to connect to database server
	ExitPermissionDenied = 12 // Credentials rejected by the server
	ExitLoadFailed       = 13 // Load aborted mid-run (connection lost, insert failed)
	ExitCSVMissing       = 14 // Source CSV file not found
)

const (
	// DefaultManagementDB is the database to connect to for CREATE DATABASE
	// operations, before the target database exists.
	DefaultManagementDB = "postgres"

	// DefaultDatabase is the target database name when none is configured.
	DefaultDatabase = "employee_db"

	// DefaultCSVPath is the source file used when no path is given on the
	// command line or in emload.yaml.
	DefaultCSVPath = "employee_data_source.csv"

	// DefaultBatchSize is the number of rows sent per pgx batch round-trip.
	DefaultBatchSize = 500

	// DefaultTimeout bounds a whole load run. Catastrophic failure
	// protection, not per-row timeout control.
	DefaultTimeout = 3 * time.Minute

	// StagingTable receives raw CSV rows verbatim and accepts duplicates.
	StagingTable = "employee_data_source"

	// FinalTable receives cleaned, typed, deduplicated records.
	// employee_id is the primary key.
	FinalTable = "employee_data"

	// RunLogTable records one row per load run with its counters.
	RunLogTable = "emload_run_log"
)

// MissingNumber is the sentinel stored for optional numeric fields
// (age, years of experience) that are absent or malformed in the source.
const MissingNumber = -1

// UnknownText is the default substituted for absent optional text fields
// (name, country, performance rating).
const UnknownText = "Unknown"

// DateLayouts are the accepted layouts for the date_of_joining column,
// tried in order. Dates that match none of them reject the row.
var DateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"2006/01/02",
	"02-Jan-2006",
}
