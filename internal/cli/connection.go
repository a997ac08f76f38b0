package cli

import (
	"errors"
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vvka-141/emload/internal/config"
	"github.com/vvka-141/emload/internal/db"
	"github.com/vvka-141/emload/pkg/emload"
)

// connFlagValues holds the connection flags shared by load and init.
//
// Note: Password is NOT a CLI flag for security reasons (visible in shell
// history and process lists). Use $PGPASSWORD, $EMLOAD_PASSWORD, a .env
// file, or the interactive prompt.
type connFlagValues struct {
	connString                        string
	host, username, database, sslMode string
	port                              int
}

// registerConnFlags attaches the shared connection flags to a command.
// Precedence per field: flag > PG* environment variable > emload.yaml > default.
func registerConnFlags(cmd *cobra.Command, flags *connFlagValues) {
	cmd.Flags().StringVarP(&flags.connString, "connection", "c", "",
		"Full connection string (PostgreSQL URI)\n"+
			"Mutually exclusive with the granular flags below\n"+
			"Example: postgresql://user@localhost:5432/postgres")
	cmd.Flags().StringVarP(&flags.host, "host", "H", "",
		"PostgreSQL server host\n"+
			"Precedence: --host > $PGHOST > localhost")
	cmd.Flags().IntVarP(&flags.port, "port", "p", 0,
		"PostgreSQL server port\n"+
			"Precedence: --port > $PGPORT > 5432")
	cmd.Flags().StringVarP(&flags.username, "username", "U", "",
		"PostgreSQL user (default: $PGUSER or current OS user)")
	cmd.Flags().StringVarP(&flags.database, "database", "d", "",
		"Target database name (default: $PGDATABASE, emload.yaml, or employee_db)")
	cmd.Flags().StringVar(&flags.sslMode, "sslmode", "",
		"SSL mode: disable|allow|prefer|require|verify-ca|verify-full\n"+
			"(default: prefer, or $PGSSLMODE)")
}

// loadProjectConfig reads emload.yaml from the working directory.
// A missing file is not an error: everything has env or built-in defaults.
func loadProjectConfig(verbose bool) (*config.ProjectConfig, error) {
	projectCfg, err := config.Load(".")
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			if verbose {
				fmt.Fprintf(os.Stderr, "[VERBOSE] No %s found, using defaults\n", config.ConfigFileName)
			}
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load %s: %w", config.ConfigFileName, err)
	}
	return projectCfg, nil
}

// resolveConnection merges flags, environment, and emload.yaml into a
// ConnectionConfig, acquiring the password interactively when no other
// source provides one and stdin is a terminal.
func resolveConnection(flags *connFlagValues, projectCfg *config.ProjectConfig, verbose bool) (*emload.ConnectionConfig, string, error) {
	granular := &db.GranularConnFlags{
		Host:     flags.host,
		Port:     flags.port,
		Username: flags.username,
		Database: flags.database,
		SSLMode:  flags.sslMode,
	}

	envVars := db.LoadFromEnvironment()

	connConfig, managementDB, err := db.ResolveConnectionParams(flags.connString, granular, envVars, projectCfg)
	if err != nil {
		return nil, "", err
	}

	if connConfig.Password == "" {
		password, err := promptPassword(connConfig.Username)
		if err != nil {
			return nil, "", err
		}
		connConfig.Password = password
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "[VERBOSE] Connection resolved:\n")
		fmt.Fprintf(os.Stderr, "  Host: %s\n", connConfig.Host)
		fmt.Fprintf(os.Stderr, "  Port: %d\n", connConfig.Port)
		fmt.Fprintf(os.Stderr, "  User: %s\n", connConfig.Username)
		fmt.Fprintf(os.Stderr, "  Target Database: %s\n", connConfig.Database)
		fmt.Fprintf(os.Stderr, "  Management Database: %s\n", managementDB)
		fmt.Fprintf(os.Stderr, "  SSL Mode: %s\n", connConfig.SSLMode)
	}

	return connConfig, managementDB, nil
}

// promptPassword reads the password from the terminal without echo.
// Returns "" without error in non-interactive contexts (piped stdin, CI):
// local trust auth needs no password, and a required one will fail with a
// classified permission error at connect time.
func promptPassword(username string) (string, error) {
	if os.Getenv("CI") != "" || !term.IsTerminal(int(syscall.Stdin)) {
		return "", nil
	}

	fmt.Fprintf(os.Stderr, "Password for user %s: ", username)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(password), nil
}
