package config

import (
	"os"
	"strconv"
	"strings"
)

// Default paths used when the importer is run without positional arguments.
const (
	DefaultXMLPath    = "data/data-20251201T0000-structure-20220404T0000.xml"
	DefaultDBPath     = "broadcast_target.db"
	DefaultSchemaPath = "data/target_schema.sql"
)

// LoadEnv loads environment variables from a .env file if one exists.
// Values already present in the environment win over file values.
func LoadEnv() {
	envPaths := []string{".env", "../.env", "../../.env"}

	for _, envPath := range envPaths {
		data, err := os.ReadFile(envPath)
		if err != nil {
			continue
		}
		for _, line := range strings.Split(string(data), "\n") {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			key, value, ok := strings.Cut(line, "=")
			if !ok {
				continue
			}
			key = strings.TrimSpace(key)
			if os.Getenv(key) == "" {
				os.Setenv(key, strings.TrimSpace(value))
			}
		}
		break
	}
}

// GetEnv gets an environment variable with a default
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvInt gets an integer environment variable with a default
func GetEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// GetEnvBool gets a boolean environment variable with a default
func GetEnvBool(key string, defaultValue bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	}
	return defaultValue
}
