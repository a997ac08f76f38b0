package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vvka-141/emload/internal/clean"
	"github.com/vvka-141/emload/internal/config"
	"github.com/vvka-141/emload/internal/db"
	"github.com/vvka-141/emload/internal/db/manager"
	"github.com/vvka-141/emload/internal/loader"
	"github.com/vvka-141/emload/internal/logging"
	"github.com/vvka-141/emload/internal/schema"
	"github.com/vvka-141/emload/pkg/emload"
)

var loadCmd = &cobra.Command{
	Use:   "load [csv_path]",
	Short: "Clean a CSV file and load it into PostgreSQL",
	Long: `Load ensures the target database and tables exist, then streams the CSV
through the cleaning rules into the employee_data table.

The load command:
1. Connects to the management database and creates the target database if missing
2. Creates the destination tables with CREATE TABLE IF NOT EXISTS (idempotent)
3. Streams CSV rows, cleaning each one: trim, canonicalize departments,
   parse salary and dates, default optional fields
4. Deduplicates on employee_id (keep-first) and inserts in batches
5. Records the run's counters in emload_run_log

Malformed rows are skipped and counted; connection loss aborts the rest.
Rows inserted before a mid-run failure remain (partial success, no rollback).

Arguments:
  csv_path    Source CSV file (default: csv.path from emload.yaml,
              then employee_data_source.csv)

Password Authentication:
  For security, password is NOT accepted as a CLI flag. Use one of:
    1. $PGPASSWORD or $EMLOAD_PASSWORD environment variable
    2. A .env file in the working directory
    3. The interactive prompt (when stdin is a terminal)

Examples:
  # Load the default file into the default database
  emload load

  # Explicit file and database
  emload load ./hr_export.csv -d employee_db

  # Skip the raw staging copy, larger batches
  emload load ./hr_export.csv --staging=false --batch-size 2000`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLoad,
}

type loadFlagValues struct {
	conn      connFlagValues
	batchSize int
	staging   bool
	timeout   time.Duration
}

var loadFlags loadFlagValues

func init() {
	rootCmd.AddCommand(loadCmd)

	registerConnFlags(loadCmd, &loadFlags.conn)

	loadCmd.Flags().IntVar(&loadFlags.batchSize, "batch-size", 0,
		"Rows per insert batch (default 500, or load.batch_size in emload.yaml)")
	loadCmd.Flags().BoolVar(&loadFlags.staging, "staging", true,
		"Also copy every raw row verbatim into employee_data_source\n"+
			"(duplicates included), mirroring the source file in the database")

	// Timeout flag - catastrophic failure protection, not normal timeout control
	loadCmd.Flags().DurationVar(&loadFlags.timeout, "timeout", emload.DefaultTimeout,
		"Catastrophic failure protection timeout (default 3m)\n"+
			"Prevents indefinite hangs from network issues\n"+
			"Examples: 30s, 5m, 1h30m")
}

// buildLoadOptions merges CLI flags with emload.yaml and defaults.
func buildLoadOptions(cmd *cobra.Command, args []string, projectCfg *config.ProjectConfig, targetDB, managementDB string, verbose bool) (emload.LoadOptions, error) {
	opts := emload.LoadOptions{
		DatabaseName:       targetDB,
		ManagementDatabase: managementDB,
		BatchSize:          emload.DefaultBatchSize,
		Staging:            loadFlags.staging,
		Timeout:            loadFlags.timeout,
		Verbose:            verbose,
	}

	// CSV path: argument > emload.yaml > default
	switch {
	case len(args) > 0:
		opts.CSVPath = args[0]
	case projectCfg != nil && projectCfg.CSV.Path != "":
		opts.CSVPath = projectCfg.CSV.Path
	default:
		opts.CSVPath = emload.DefaultCSVPath
	}

	if loadFlags.batchSize > 0 {
		opts.BatchSize = loadFlags.batchSize
	} else if projectCfg != nil && projectCfg.Load.BatchSize > 0 {
		opts.BatchSize = projectCfg.Load.BatchSize
	}

	// Staging: explicit flag wins over emload.yaml
	if projectCfg != nil && projectCfg.Load.Staging != nil && !cmd.Flags().Changed("staging") {
		opts.Staging = *projectCfg.Load.Staging
	}

	// Apply timeout from emload.yaml if --timeout wasn't explicitly set
	if projectCfg != nil && projectCfg.Load.Timeout != "" && !cmd.Flags().Changed("timeout") {
		parsed, parseErr := time.ParseDuration(projectCfg.Load.Timeout)
		if parseErr != nil {
			return emload.LoadOptions{}, fmt.Errorf("invalid timeout in %s: %w", config.ConfigFileName, parseErr)
		}
		opts.Timeout = parsed
	}

	if err := opts.Validate(); err != nil {
		return emload.LoadOptions{}, err
	}
	return opts, nil
}

func runLoad(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)
	_ = godotenv.Load()

	projectCfg, err := loadProjectConfig(verbose)
	if err != nil {
		return err
	}

	connConfig, managementDB, err := resolveConnection(&loadFlags.conn, projectCfg, verbose)
	if err != nil {
		return err
	}

	opts, err := buildLoadOptions(cmd, args, projectCfg, connConfig.Database, managementDB, verbose)
	if err != nil {
		return err
	}

	logger := logging.NewConsoleLogger(verbose)

	// Setup context with timeout and signal handling for graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), opts.Timeout)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\n[INTERRUPT] Received interrupt signal, cancelling load...")
		cancel()
	}()

	connector := db.NewConnector(connConfig)
	initializer := schema.NewInitializer(connector, manager.New(), schema.Default(), logger)

	if err := initializer.EnsureDatabase(ctx, opts.DatabaseName, opts.ManagementDatabase); err != nil {
		return err
	}

	pool, err := connector.Connect(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := initializer.EnsureTables(ctx, pool); err != nil {
		return err
	}

	var extraAliases map[string]string
	if projectCfg != nil {
		extraAliases = projectCfg.Departments
	}

	recordLoader := loader.New(clean.New(extraAliases), logger)
	report, err := recordLoader.Load(ctx, pool, opts)
	if err != nil {
		return err
	}

	// Machine-parseable summary to stdout
	fmt.Println(report)
	return nil
}
