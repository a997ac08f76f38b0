package emload

import (
	"errors"
	"strings"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	err := loader.Load(ctx, opts)
//	if errors.Is(err, emload.ErrConnectionFailed) {
//	    // Server unreachable: fatal, no retry
//	}
var (
	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrConnectionFailed indicates the database server is unreachable.
	// Fatal: the run is aborted after a single connection attempt.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrPermissionDenied indicates the server rejected the credentials.
	// Fatal: the run is aborted.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrCSVNotFound indicates the source CSV file was not found.
	ErrCSVNotFound = errors.New("csv file not found")

	// ErrBadHeader indicates the CSV header is missing required columns.
	ErrBadHeader = errors.New("csv header missing required columns")

	// ErrLoadFailed indicates the load aborted partway through.
	// Rows inserted before the failure remain in the database.
	ErrLoadFailed = errors.New("load failed")

	// ErrRowRejected indicates a single row failed cleaning and was
	// skipped. Row-level: callers count it, they never abort on it.
	ErrRowRejected = errors.New("row rejected")
)

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Check for sentinel errors
	switch {
	case errors.Is(err, ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, ErrPermissionDenied):
		return ExitPermissionDenied
	case errors.Is(err, ErrConnectionFailed):
		return ExitConnectionError
	case errors.Is(err, ErrCSVNotFound):
		return ExitCSVMissing
	case errors.Is(err, ErrBadHeader):
		return ExitCSVMissing
	case errors.Is(err, ErrLoadFailed):
		return ExitLoadFailed
	}

	// Check for common connection error patterns
	errStr := err.Error()
	if strings.Contains(errStr, "failed to connect") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") {
		return ExitConnectionError
	}

	return ExitGeneralError
}
