package cli

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vvka-141/emload/internal/db"
	"github.com/vvka-141/emload/internal/db/manager"
	"github.com/vvka-141/emload/internal/logging"
	"github.com/vvka-141/emload/internal/schema"
	"github.com/vvka-141/emload/pkg/emload"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the target database and tables without loading data",
	Long: `Init runs the schema initializer alone: it creates the target database
if missing and issues CREATE TABLE IF NOT EXISTS for every destination
table. Idempotent: running it against an already-initialized database
is a no-op and succeeds.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

var initFlags connFlagValues

func init() {
	rootCmd.AddCommand(initCmd)
	registerConnFlags(initCmd, &initFlags)
}

func runInit(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)
	_ = godotenv.Load()

	projectCfg, err := loadProjectConfig(verbose)
	if err != nil {
		return err
	}

	connConfig, managementDB, err := resolveConnection(&initFlags, projectCfg, verbose)
	if err != nil {
		return err
	}

	logger := logging.NewConsoleLogger(verbose)

	ctx, cancel := context.WithTimeout(context.Background(), emload.DefaultTimeout)
	defer cancel()

	connector := db.NewConnector(connConfig)
	initializer := schema.NewInitializer(connector, manager.New(), schema.Default(), logger)

	if err := initializer.EnsureDatabase(ctx, connConfig.Database, managementDB); err != nil {
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

	fmt.Printf("Schema ready in database %q\n", connConfig.Database)
	return nil
}
