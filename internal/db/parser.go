package db

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vvka-141/emload/pkg/emload"
)

// ParseConnectionString parses a PostgreSQL URI connection string.
// Format: postgresql://[user[:password]@][host][:port][/dbname][?param=value&...]
//
// Recognized query parameters: sslmode, application_name, connect_timeout.
// Others are ignored.
func ParseConnectionString(connStr string) (*emload.ConnectionConfig, error) {
	if connStr == "" {
		return nil, fmt.Errorf("connection string is empty")
	}
	if !strings.HasPrefix(connStr, "postgresql://") && !strings.HasPrefix(connStr, "postgres://") {
		return nil, fmt.Errorf("unrecognized connection string format (expected postgresql:// URI)")
	}

	u, err := url.Parse(connStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PostgreSQL URI: %w", err)
	}

	config := &emload.ConnectionConfig{
		Host:    "localhost",
		Port:    5432,
		AppName: "emload",
	}

	if u.Hostname() != "" {
		config.Host = u.Hostname()
	}
	if u.Port() != "" {
		port, err := strconv.Atoi(u.Port())
		if err != nil {
			return nil, fmt.Errorf("invalid port: %w", err)
		}
		config.Port = port
	}

	if u.User != nil {
		config.Username = u.User.Username()
		if pass, ok := u.User.Password(); ok {
			config.Password = pass
		}
	}

	if len(u.Path) > 1 {
		config.Database = strings.TrimPrefix(u.Path, "/")
	}

	for key, values := range u.Query() {
		if len(values) == 0 {
			continue
		}
		switch strings.ToLower(key) {
		case "sslmode":
			config.SSLMode = values[0]
		case "application_name":
			config.AppName = values[0]
		case "connect_timeout":
			if timeout, err := strconv.Atoi(values[0]); err == nil {
				config.ConnectTimeout = time.Duration(timeout) * time.Second
			}
		}
	}

	return config, nil
}

// BuildConnectionString converts a ConnectionConfig to PostgreSQL URI format.
// This is the form handed to pgxpool.ParseConfig.
func BuildConnectionString(config *emload.ConnectionConfig) string {
	u := &url.URL{
		Scheme: "postgresql",
		Host:   fmt.Sprintf("%s:%d", config.Host, config.Port),
		Path:   "/" + config.Database,
	}

	if config.Username != "" {
		if config.Password != "" {
			u.User = url.UserPassword(config.Username, config.Password)
		} else {
			u.User = url.User(config.Username)
		}
	}

	query := url.Values{}
	if config.SSLMode != "" {
		query.Set("sslmode", config.SSLMode)
	}
	if config.AppName != "" {
		query.Set("application_name", config.AppName)
	}
	if config.ConnectTimeout > 0 {
		query.Set("connect_timeout", strconv.Itoa(int(config.ConnectTimeout.Seconds())))
	}

	u.RawQuery = query.Encode()
	return u.String()
}
