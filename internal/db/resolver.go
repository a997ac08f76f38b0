package db

import (
	"fmt"
	"os"
	"os/user"
	"strconv"

	"github.com/vvka-141/emload/internal/config"
	"github.com/vvka-141/emload/pkg/emload"
)

// GranularConnFlags represents connection parameters from CLI flags.
// These follow PostgreSQL standard flag conventions (-H, -p, -U, -d).
//
// Note: Password is NOT included as a CLI flag for security reasons.
// Use one of these methods instead:
//  1. $PGPASSWORD or $EMLOAD_PASSWORD environment variable
//  2. A .env file in the working directory
//  3. The interactive prompt (when stdin is a terminal)
type GranularConnFlags struct {
	Host     string
	Port     int
	Username string
	Database string
	SSLMode  string
}

// IsEmpty returns true if no connection-related granular flags were provided by the user.
// Database is excluded: it can override the database from a connection string.
func (g *GranularConnFlags) IsEmpty() bool {
	return g.Host == "" && g.Port == 0 && g.Username == "" && g.SSLMode == ""
}

// EnvVars represents PostgreSQL standard environment variables.
// See: https://www.postgresql.org/docs/current/libpq-envars.html
type EnvVars struct {
	PGHOST     string // PostgreSQL server host
	PGPORT     string // PostgreSQL server port
	PGUSER     string // PostgreSQL username
	PGPASSWORD string // PostgreSQL password
	PGDATABASE string // Default database name
	PGSSLMODE  string // SSL mode

	// DATABASE_URL is a full connection string (Heroku/Rails convention).
	// Used only when no granular flags are given.
	DATABASE_URL string

	// EMLOAD_PASSWORD takes precedence over PGPASSWORD when both are set.
	EMLOAD_PASSWORD string
}

// LoadFromEnvironment loads PostgreSQL environment variables.
// This follows standard PostgreSQL client behavior.
func LoadFromEnvironment() *EnvVars {
	return &EnvVars{
		PGHOST:          os.Getenv("PGHOST"),
		PGPORT:          os.Getenv("PGPORT"),
		PGUSER:          os.Getenv("PGUSER"),
		PGPASSWORD:      os.Getenv("PGPASSWORD"),
		PGDATABASE:      os.Getenv("PGDATABASE"),
		PGSSLMODE:       os.Getenv("PGSSLMODE"),
		DATABASE_URL:    os.Getenv("DATABASE_URL"),
		EMLOAD_PASSWORD: os.Getenv("EMLOAD_PASSWORD"),
	}
}

// Password returns the password from the environment, preferring
// EMLOAD_PASSWORD over PGPASSWORD. Empty when neither is set.
func (e *EnvVars) Password() string {
	if e.EMLOAD_PASSWORD != "" {
		return e.EMLOAD_PASSWORD
	}
	return e.PGPASSWORD
}

// ResolveConnectionParams merges connection parameters from all sources.
//
// Three resolution paths, in order:
//  1. --connection flag: a full connection string.
//  2. $DATABASE_URL, when no granular flags are given.
//  3. Granular parameters with precedence
//     CLI flag > environment variable > emload.yaml > default.
//
// Supplying both --connection and granular flags is an error: the two
// approaches are mutually exclusive to keep user intent unambiguous.
//
// Returns the resolved ConnectionConfig targeting the final database, and
// the management database name used for CREATE DATABASE operations.
func ResolveConnectionParams(
	connString string,
	flags *GranularConnFlags,
	env *EnvVars,
	projectCfg *config.ProjectConfig,
) (*emload.ConnectionConfig, string, error) {
	if flags == nil {
		flags = &GranularConnFlags{}
	}
	if env == nil {
		env = &EnvVars{}
	}

	if connString != "" && !flags.IsEmpty() {
		return nil, "", fmt.Errorf(
			"cannot specify both --connection and granular flags (-H, -p, -U): %w",
			emload.ErrInvalidConfig)
	}

	switch {
	case connString != "":
		return resolveFromConnectionString(connString, flags, env, projectCfg)
	case flags.IsEmpty() && env.DATABASE_URL != "":
		return resolveFromConnectionString(env.DATABASE_URL, flags, env, projectCfg)
	default:
		return resolveFromGranularParams(flags, env, projectCfg)
	}
}

// resolveFromConnectionString parses a connection string, with environment
// variables as fallbacks for parameters it omits.
//
// The database component of the connection string becomes the management
// database, matching psql semantics where the string names the database you
// connect to for server-level work. The load target still resolves from
// --database / $PGDATABASE / emload.yaml / the default.
func resolveFromConnectionString(
	connString string,
	flags *GranularConnFlags,
	env *EnvVars,
	projectCfg *config.ProjectConfig,
) (*emload.ConnectionConfig, string, error) {
	cfg, err := ParseConnectionString(connString)
	if err != nil {
		return nil, "", fmt.Errorf("invalid connection string: %w", err)
	}

	var yamlConn config.ConnectionConfig
	if projectCfg != nil {
		yamlConn = projectCfg.Connection
	}

	if cfg.SSLMode == "" {
		cfg.SSLMode = firstNonEmpty(env.PGSSLMODE, "prefer")
	}
	if cfg.Password == "" {
		cfg.Password = env.Password()
	}

	managementDB := firstNonEmpty(cfg.Database, emload.DefaultManagementDB)
	cfg.Database = firstNonEmpty(flags.Database, env.PGDATABASE, yamlConn.Database, emload.DefaultDatabase)

	return cfg, managementDB, nil
}

// resolveFromGranularParams builds the config from individual parameters with
// flag > env > yaml > default precedence per field.
func resolveFromGranularParams(
	flags *GranularConnFlags,
	env *EnvVars,
	projectCfg *config.ProjectConfig,
) (*emload.ConnectionConfig, string, error) {
	cfg := &emload.ConnectionConfig{
		AppName: "emload",
	}

	var yamlConn config.ConnectionConfig
	if projectCfg != nil {
		yamlConn = projectCfg.Connection
	}

	cfg.Host = firstNonEmpty(flags.Host, env.PGHOST, yamlConn.Host, "localhost")

	port, err := resolvePort(flags.Port, env.PGPORT, yamlConn.Port)
	if err != nil {
		return nil, "", err
	}
	cfg.Port = port

	cfg.Username = firstNonEmpty(flags.Username, env.PGUSER, yamlConn.Username, currentOSUser())
	cfg.Database = firstNonEmpty(flags.Database, env.PGDATABASE, yamlConn.Database, emload.DefaultDatabase)
	cfg.SSLMode = firstNonEmpty(flags.SSLMode, env.PGSSLMODE, yamlConn.SSLMode, "prefer")
	cfg.Password = env.Password()

	managementDB := firstNonEmpty(yamlConn.ManagementDatabase, emload.DefaultManagementDB)

	return cfg, managementDB, nil
}

// resolvePort applies flag > env > yaml > 5432 precedence for the port.
func resolvePort(flagPort int, envPort string, yamlPort int) (int, error) {
	if flagPort != 0 {
		return flagPort, nil
	}
	if envPort != "" {
		port, err := strconv.Atoi(envPort)
		if err != nil {
			return 0, fmt.Errorf("invalid PGPORT %q: %w", envPort, emload.ErrInvalidConfig)
		}
		return port, nil
	}
	if yamlPort != 0 {
		return yamlPort, nil
	}
	return 5432, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// currentOSUser returns the OS username, matching libpq's default for PGUSER.
func currentOSUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "postgres"
}
