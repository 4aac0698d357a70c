package web

import (
	"github.com/adcalc/internal/config"
	"github.com/adcalc/internal/db"
)

// Config represents the web server configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Driver string
	Target string
}

// ConfigFromEnv builds the server configuration from the environment.
func ConfigFromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Host: config.GetEnv("WEB_HOST", "localhost"),
			Port: config.GetEnvInt("WEB_PORT", 8080),
		},
		Database: DatabaseConfig{
			Driver: config.GetEnv("DB_DRIVER", db.DriverSQLite),
			Target: config.GetEnv("ADCALC_DB", config.DefaultDBPath),
		},
	}
}
