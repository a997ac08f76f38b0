package loader_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/emload/internal/clean"
	"github.com/vvka-141/emload/internal/db"
	"github.com/vvka-141/emload/internal/db/manager"
	"github.com/vvka-141/emload/internal/loader"
	"github.com/vvka-141/emload/internal/logging"
	"github.com/vvka-141/emload/internal/schema"
	testhelpers "github.com/vvka-141/emload/internal/testing"
	"github.com/vvka-141/emload/pkg/emload"
)

// sampleCSV is the end-to-end fixture: 5 data rows, one duplicate
// employee ID (101) and one non-numeric salary (row 104). Exactly 3 rows
// must survive cleaning and dedup.
const sampleCSV = `Employee_ID,Name,Age,Department,Date_of_Joining,Years_of_Experience,Country,Salary,Performance_Rating
101, alice smith ,34,Oprations,2019-04-01,8,  usa  ,72000,Good
102,bob jones,29,customer support,01/15/2020,4,Canada,58000,
101,alice duplicate,34,Operations,2019-04-01,8,USA,72000,Good
103,carol wu,,Fin,2021/07/30,,germany,91000,Excellent
104,dan broken,40,IT,2018-02-02,15,France,ninety thousand,Poor
`

func writeSampleCSV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "employee_data_source.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0644))
	return path
}

func setupPool(t *testing.T, dbName string) (*db.Connector, context.Context) {
	t.Helper()

	connString := testhelpers.RequireDatabase(t)
	cleanup := testhelpers.CreateTestDB(t, connString, dbName)
	t.Cleanup(cleanup)

	connConfig := testhelpers.ConfigFromConnString(t, connString)
	connConfig.Database = dbName

	return db.NewConnector(connConfig), context.Background()
}

func TestLoad_EndToEnd(t *testing.T) {
	connector, ctx := setupPool(t, "emload_loader_e2e")

	pool, err := connector.Connect(ctx)
	require.NoError(t, err)
	defer pool.Close()

	logger := logging.NewNullLogger()
	initializer := schema.NewInitializer(connector, manager.New(), schema.Default(), logger)
	require.NoError(t, initializer.EnsureTables(ctx, pool))

	csvPath := writeSampleCSV(t)
	opts := emload.LoadOptions{
		CSVPath:      csvPath,
		DatabaseName: "emload_loader_e2e",
		BatchSize:    2, // force multiple flushes
		Staging:      true,
		Timeout:      time.Minute,
	}
	require.NoError(t, opts.Validate())

	recordLoader := loader.New(clean.New(nil), logger)
	report, err := recordLoader.Load(ctx, pool, opts)
	require.NoError(t, err)

	assert.Equal(t, 5, report.RowsRead)
	assert.Equal(t, 3, report.RowsLoaded)
	assert.Equal(t, 1, report.RowsSkipped, "the non-numeric salary row")
	assert.Equal(t, 1, report.Duplicates, "the repeated employee ID")

	// Final table holds exactly the 3 cleaned rows.
	var finalCount int
	require.NoError(t, pool.QueryRow(ctx, "SELECT count(*) FROM employee_data").Scan(&finalCount))
	assert.Equal(t, 3, finalCount)

	// Staging mirrors the file: all 5 raw rows, duplicate and broken included.
	var stagingCount int
	require.NoError(t, pool.QueryRow(ctx, "SELECT count(*) FROM employee_data_source").Scan(&stagingCount))
	assert.Equal(t, 5, stagingCount)

	// Cleaned values are typed and canonicalized.
	var name, department, country string
	var joined time.Time
	var salary int64
	err = pool.QueryRow(ctx,
		"SELECT name, department, country, date_of_joining, salary FROM employee_data WHERE employee_id = 101").
		Scan(&name, &department, &country, &joined, &salary)
	require.NoError(t, err)
	assert.Equal(t, "Alice Smith", name, "keep-first: the original spelling wins")
	assert.Equal(t, "OPERATIONS", department)
	assert.Equal(t, "Usa", country)
	assert.Equal(t, 2019, joined.Year())
	assert.Equal(t, time.April, joined.Month())
	assert.Equal(t, int64(72000), salary)

	// The mixed date layouts all landed.
	var carolJoined time.Time
	require.NoError(t, pool.QueryRow(ctx,
		"SELECT date_of_joining FROM employee_data WHERE employee_id = 103").Scan(&carolJoined))
	assert.Equal(t, time.Date(2021, 7, 30, 0, 0, 0, 0, carolJoined.Location()), carolJoined)

	// Run log recorded the same counters.
	var loggedRead, loggedLoaded, loggedSkipped, loggedDup int
	err = pool.QueryRow(ctx,
		"SELECT rows_read, rows_loaded, rows_skipped, duplicates FROM emload_run_log WHERE run_id = $1",
		report.RunID).
		Scan(&loggedRead, &loggedLoaded, &loggedSkipped, &loggedDup)
	require.NoError(t, err)
	assert.Equal(t, report.RowsRead, loggedRead)
	assert.Equal(t, report.RowsLoaded, loggedLoaded)
	assert.Equal(t, report.RowsSkipped, loggedSkipped)
	assert.Equal(t, report.Duplicates, loggedDup)
}

func TestLoad_RerunDiscardsAlreadyLoadedRows(t *testing.T) {
	connector, ctx := setupPool(t, "emload_loader_rerun")

	pool, err := connector.Connect(ctx)
	require.NoError(t, err)
	defer pool.Close()

	logger := logging.NewNullLogger()
	initializer := schema.NewInitializer(connector, manager.New(), schema.Default(), logger)
	require.NoError(t, initializer.EnsureTables(ctx, pool))

	csvPath := writeSampleCSV(t)
	opts := emload.LoadOptions{
		CSVPath:      csvPath,
		DatabaseName: "emload_loader_rerun",
		BatchSize:    emload.DefaultBatchSize,
		Timeout:      time.Minute,
	}

	recordLoader := loader.New(clean.New(nil), logger)

	first, err := recordLoader.Load(ctx, pool, opts)
	require.NoError(t, err)
	assert.Equal(t, 3, first.RowsLoaded)

	// Second run: every surviving row collides with the first run.
	second, err := recordLoader.Load(ctx, pool, opts)
	require.NoError(t, err)
	assert.Equal(t, 0, second.RowsLoaded)
	assert.Equal(t, 4, second.Duplicates, "1 in-file duplicate + 3 already loaded")
	assert.NotEqual(t, first.RunID, second.RunID)

	var finalCount int
	require.NoError(t, pool.QueryRow(ctx, "SELECT count(*) FROM employee_data").Scan(&finalCount))
	assert.Equal(t, 3, finalCount)

	var runs int
	require.NoError(t, pool.QueryRow(ctx, "SELECT count(*) FROM emload_run_log").Scan(&runs))
	assert.Equal(t, 2, runs)
}

func TestLoad_MissingCSV(t *testing.T) {
	connector, ctx := setupPool(t, "emload_loader_nocsv")

	pool, err := connector.Connect(ctx)
	require.NoError(t, err)
	defer pool.Close()

	logger := logging.NewNullLogger()
	recordLoader := loader.New(clean.New(nil), logger)

	_, err = recordLoader.Load(ctx, pool, emload.LoadOptions{
		CSVPath:      filepath.Join(t.TempDir(), "absent.csv"),
		DatabaseName: "emload_loader_nocsv",
		BatchSize:    10,
		Timeout:      time.Minute,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, emload.ErrCSVNotFound)
}
