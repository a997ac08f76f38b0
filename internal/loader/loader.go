// Package loader streams rows from the source CSV through the cleaning
// rules into the destination tables.
//
// Deduplication policy: keep-first on employee ID. The first occurrence in
// file order wins; later occurrences are counted and discarded. Rows whose
// ID was already loaded by an earlier run are discarded by the database
// (ON CONFLICT DO NOTHING) and counted the same way.
//
// Failure semantics: malformed rows are skipped and counted, never abort
// the load. Database errors mid-load are fatal and abort the remainder;
// rows inserted before the failure stay (partial success, no rollback).
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/emload/internal/clean"
	"github.com/vvka-141/emload/internal/csvfile"
	"github.com/vvka-141/emload/pkg/emload"
)

// SQL statement constants. Centralizing SQL here keeps it separate from
// the Go control flow.
const (
	insertFinal = `
		INSERT INTO employee_data
			(employee_id, name, age, department, date_of_joining,
			 years_of_experience, country, salary, performance_rating)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (employee_id) DO NOTHING
	`

	insertStaging = `
		INSERT INTO employee_data_source
			(employee_id, name, age, department, date_of_joining,
			 years_of_experience, country, salary, performance_rating)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	insertRunLog = `
		INSERT INTO emload_run_log
			(run_id, csv_file, started_at, finished_at,
			 rows_read, rows_loaded, rows_skipped, duplicates)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
)

// Loader reads, cleans, deduplicates, and inserts employee records.
type Loader struct {
	cleaner *clean.Cleaner
	logger  emload.Logger
}

// New creates a Loader with all dependencies injected.
//
// Panics if any dependency is nil. This is intentional fail-fast behavior
// to prevent cryptic nil pointer dereferences later.
func New(cleaner *clean.Cleaner, logger emload.Logger) *Loader {
	if cleaner == nil {
		panic("cleaner cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Loader{cleaner: cleaner, logger: logger}
}

// Load streams the CSV at opts.CSVPath into the destination tables through
// pool. The schema must already exist.
//
// The returned LoadReport is meaningful even when err is non-nil: its
// counters reflect the rows committed before the failure.
func (l *Loader) Load(ctx context.Context, pool *pgxpool.Pool, opts emload.LoadOptions) (emload.LoadReport, error) {
	report := emload.LoadReport{
		RunID:     uuid.New(),
		CSVPath:   opts.CSVPath,
		StartedAt: time.Now().UTC(),
	}

	reader, err := csvfile.Open(opts.CSVPath)
	if err != nil {
		return report, err
	}
	defer reader.Close()

	l.logger.Info("Loading %s (run %s)", opts.CSVPath, report.RunID)

	seen := make(map[int64]struct{})
	cleanedBatch := make([]emload.Employee, 0, opts.BatchSize)
	rawBatch := make([]csvfile.RawRecord, 0, opts.BatchSize)

	for {
		raw, err := reader.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return report, fmt.Errorf("%w: %v", emload.ErrLoadFailed, err)
		}
		report.RowsRead++

		// Staging mirrors the file: every row, valid or not.
		if opts.Staging {
			rawBatch = append(rawBatch, raw)
			if len(rawBatch) >= opts.BatchSize {
				if err := l.flushStaging(ctx, pool, rawBatch); err != nil {
					return report, err
				}
				rawBatch = rawBatch[:0]
			}
		}

		record, err := l.cleaner.Clean(raw)
		if err != nil {
			report.RowsSkipped++
			l.logger.Warn("Skipping row: %v", err)
			continue
		}

		if _, dup := seen[record.EmployeeID]; dup {
			report.Duplicates++
			l.logger.Verbose("Discarding duplicate employee_id %d (line %d)", record.EmployeeID, raw.Line)
			continue
		}
		seen[record.EmployeeID] = struct{}{}

		cleanedBatch = append(cleanedBatch, record)
		if len(cleanedBatch) >= opts.BatchSize {
			if err := l.flushFinal(ctx, pool, cleanedBatch, &report); err != nil {
				return report, err
			}
			cleanedBatch = cleanedBatch[:0]
		}
	}

	if opts.Staging && len(rawBatch) > 0 {
		if err := l.flushStaging(ctx, pool, rawBatch); err != nil {
			return report, err
		}
	}
	if len(cleanedBatch) > 0 {
		if err := l.flushFinal(ctx, pool, cleanedBatch, &report); err != nil {
			return report, err
		}
	}

	report.FinishedAt = time.Now().UTC()

	if err := l.writeRunLog(ctx, pool, report); err != nil {
		return report, err
	}

	l.logger.Info("Load complete: %s", report)
	return report, nil
}

// flushFinal sends one batch of cleaned records to the final table.
// Rows already present from an earlier run are discarded by ON CONFLICT
// and counted as duplicates via the command tag.
func (l *Loader) flushFinal(ctx context.Context, pool *pgxpool.Pool, records []emload.Employee, report *emload.LoadReport) error {
	batch := &pgx.Batch{}
	for _, r := range records {
		batch.Queue(insertFinal,
			r.EmployeeID, r.Name, r.Age, r.Department, r.DateOfJoining,
			r.YearsOfExperience, r.Country, r.Salary, r.PerformanceRating)
	}

	results := pool.SendBatch(ctx, batch)
	defer results.Close()

	for range records {
		tag, err := results.Exec()
		if err != nil {
			return fmt.Errorf("%w: insert into %s: %v", emload.ErrLoadFailed, emload.FinalTable, err)
		}
		if tag.RowsAffected() == 0 {
			report.Duplicates++
		} else {
			report.RowsLoaded++
		}
	}
	return nil
}

// flushStaging sends one batch of raw rows to the staging table verbatim.
func (l *Loader) flushStaging(ctx context.Context, pool *pgxpool.Pool, rows []csvfile.RawRecord) error {
	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(insertStaging,
			r.EmployeeID, r.Name, r.Age, r.Department, r.DateOfJoining,
			r.YearsOfExperience, r.Country, r.Salary, r.PerformanceRating)
	}

	results := pool.SendBatch(ctx, batch)
	defer results.Close()

	for range rows {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("%w: insert into %s: %v", emload.ErrLoadFailed, emload.StagingTable, err)
		}
	}
	return nil
}

// writeRunLog records the run's counters. A run-log failure is fatal like
// any other database error: the data is loaded but the run is reported
// failed, so operators notice the missing audit row.
func (l *Loader) writeRunLog(ctx context.Context, pool *pgxpool.Pool, report emload.LoadReport) error {
	_, err := pool.Exec(ctx, insertRunLog,
		report.RunID, report.CSVPath, report.StartedAt, report.FinishedAt,
		report.RowsRead, report.RowsLoaded, report.RowsSkipped, report.Duplicates)
	if err != nil {
		return fmt.Errorf("%w: write run log: %v", emload.ErrLoadFailed, err)
	}
	return nil
}
