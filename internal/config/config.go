// Package config loads the optional emload.yaml project file.
//
// The file supplies connection defaults, source CSV settings, load tuning,
// and extra department alias mappings. CLI flags and PG* environment
// variables take precedence over everything configured here.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

// ConnectionConfig mirrors the connection block of emload.yaml.
// Password is intentionally absent: it comes from $PGPASSWORD,
// $EMLOAD_PASSWORD, a .env file, or an interactive prompt.
type ConnectionConfig struct {
	Host               string `yaml:"host"`
	Port               int    `yaml:"port"`
	Username           string `yaml:"username"`
	Database           string `yaml:"database"`
	ManagementDatabase string `yaml:"management_database,omitempty"`
	SSLMode            string `yaml:"sslmode"`
}

// CSVConfig mirrors the csv block of emload.yaml.
type CSVConfig struct {
	// Path is the default source file when none is given on the command line.
	Path string `yaml:"path"`
}

// LoadConfig mirrors the load block of emload.yaml.
type LoadConfig struct {
	BatchSize int    `yaml:"batch_size"`
	Staging   *bool  `yaml:"staging,omitempty"`
	Timeout   string `yaml:"timeout"`
}

// ProjectConfig is the full parsed emload.yaml.
type ProjectConfig struct {
	Connection ConnectionConfig `yaml:"connection"`
	CSV        CSVConfig        `yaml:"csv"`
	Load       LoadConfig       `yaml:"load"`

	// Departments adds or overrides department alias mappings.
	// Keys are compared after whitespace removal and uppercasing,
	// e.g. "OPRATIONS: OPERATIONS".
	Departments map[string]string `yaml:"departments"`
}

// ConfigFileName is the project config file looked up in the working directory.
const ConfigFileName = "emload.yaml"

// Load reads and parses emload.yaml from dir.
// Returns ErrConfigNotFound when the file does not exist.
func Load(dir string) (*ProjectConfig, error) {
	configPath := filepath.Join(dir, ConfigFileName)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
