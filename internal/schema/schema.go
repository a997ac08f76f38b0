// Package schema holds the static destination schema and the idempotent
// initializer that materializes it.
//
// SQL lives in package-level constants, keeping it separate from Go code.
// All DDL uses IF NOT EXISTS semantics: running the initializer against an
// already-initialized database is a no-op.
package schema

// Column describes one destination column.
type Column struct {
	Name       string
	Type       string
	PrimaryKey bool
	NotNull    bool
}

// Table describes one destination table.
type Table struct {
	Name    string
	Columns []Column
	// DDL is the CREATE TABLE IF NOT EXISTS statement for the table.
	DDL string
}

// Definition is the static description of all destination tables.
// Built once at startup; never mutated at runtime.
type Definition struct {
	Tables []Table
}

const (
	// ddlStaging accepts raw rows verbatim, duplicates included.
	// Every source column is text: staging mirrors the file, the final
	// table carries the types.
	ddlStaging = `
		CREATE TABLE IF NOT EXISTS employee_data_source (
			id                  bigserial PRIMARY KEY,
			employee_id         text,
			name                text,
			age                 text,
			department          text,
			date_of_joining     text,
			years_of_experience text,
			country             text,
			salary              text,
			performance_rating  text
		)
	`

	// ddlFinal holds cleaned, typed, deduplicated records.
	ddlFinal = `
		CREATE TABLE IF NOT EXISTS employee_data (
			employee_id         bigint PRIMARY KEY,
			name                text NOT NULL,
			age                 integer,
			department          text NOT NULL,
			date_of_joining     date NOT NULL,
			years_of_experience integer,
			country             text,
			salary              bigint NOT NULL,
			performance_rating  text
		)
	`

	// ddlRunLog records one row per load run.
	ddlRunLog = `
		CREATE TABLE IF NOT EXISTS emload_run_log (
			run_id       uuid PRIMARY KEY,
			csv_file     text NOT NULL,
			started_at   timestamptz NOT NULL,
			finished_at  timestamptz NOT NULL,
			rows_read    bigint NOT NULL,
			rows_loaded  bigint NOT NULL,
			rows_skipped bigint NOT NULL,
			duplicates   bigint NOT NULL
		)
	`
)

// Default returns the destination schema definition.
func Default() Definition {
	return Definition{
		Tables: []Table{
			{
				Name: "employee_data_source",
				DDL:  ddlStaging,
				Columns: []Column{
					{Name: "id", Type: "bigserial", PrimaryKey: true},
					{Name: "employee_id", Type: "text"},
					{Name: "name", Type: "text"},
					{Name: "age", Type: "text"},
					{Name: "department", Type: "text"},
					{Name: "date_of_joining", Type: "text"},
					{Name: "years_of_experience", Type: "text"},
					{Name: "country", Type: "text"},
					{Name: "salary", Type: "text"},
					{Name: "performance_rating", Type: "text"},
				},
			},
			{
				Name: "employee_data",
				DDL:  ddlFinal,
				Columns: []Column{
					{Name: "employee_id", Type: "bigint", PrimaryKey: true},
					{Name: "name", Type: "text", NotNull: true},
					{Name: "age", Type: "integer"},
					{Name: "department", Type: "text", NotNull: true},
					{Name: "date_of_joining", Type: "date", NotNull: true},
					{Name: "years_of_experience", Type: "integer"},
					{Name: "country", Type: "text"},
					{Name: "salary", Type: "bigint", NotNull: true},
					{Name: "performance_rating", Type: "text"},
				},
			},
			{
				Name: "emload_run_log",
				DDL:  ddlRunLog,
				Columns: []Column{
					{Name: "run_id", Type: "uuid", PrimaryKey: true},
					{Name: "csv_file", Type: "text", NotNull: true},
					{Name: "started_at", Type: "timestamptz", NotNull: true},
					{Name: "finished_at", Type: "timestamptz", NotNull: true},
					{Name: "rows_read", Type: "bigint", NotNull: true},
					{Name: "rows_loaded", Type: "bigint", NotNull: true},
					{Name: "rows_skipped", Type: "bigint", NotNull: true},
					{Name: "duplicates", Type: "bigint", NotNull: true},
				},
			},
		},
	}
}
