// Package config reads the settings of the phonebook service from the environment. Values in a
// .env file of the working directory are loaded first; variables that are already set win.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gitlab.com/dirk.krummacker/phonebook-service/internal/logging"
)

// DefaultPort is used when PORT is not set.
const DefaultPort = 3002

// Supported values of the STORE variable.
const (
	StoreMemory = "memory"
	StoreMongo  = "mongo"
	StoreMySQL  = "mysql"
)

// Config holds the runtime settings of the service.
type Config struct {
	Port          int
	Store         string
	MongoURL      string
	MongoDatabase string
	DBUser        string
	DBPassword    string
	DBHost        string
	DBName        string
	StaticDir     string
	GinLogging    bool
	Log           logging.Options
}

// Load reads the .env file, if any, and then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("could not read .env file: %w", err)
	}
	return FromEnv()
}

// FromEnv builds the configuration from the environment only.
//
// Usage example on the command line:
// > PORT=3002 STORE=mongo MONGODB_URL=mongodb://localhost:27017 go run ./cmd/service
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:          DefaultPort,
		Store:         getEnvOrDefault("STORE", StoreMemory),
		MongoURL:      strings.TrimSpace(os.Getenv("MONGODB_URL")),
		MongoDatabase: getEnvOrDefault("MONGODB_DATABASE", "phonebookApp"),
		DBUser:        os.Getenv("DBUSER"),
		DBPassword:    os.Getenv("DBPWD"),
		DBHost:        getEnvOrDefault("DBHOST", "localhost:3306"),
		DBName:        getEnvOrDefault("DBNAME", "phonebook"),
		StaticDir:     getEnvOrDefault("STATIC_DIR", "dist"),
		GinLogging:    !strings.EqualFold(os.Getenv("GIN_LOGGING"), "off"),
		Log: logging.Options{
			Level:  os.Getenv("LOG_LEVEL"),
			File:   os.Getenv("LOG_FILE"),
			Format: getEnvOrDefault("LOG_FORMAT", "text"),
		},
	}

	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil || p < 1 || p > 65535 {
			return nil, fmt.Errorf("invalid PORT value: %q", port)
		}
		cfg.Port = p
	}

	cfg.Store = strings.ToLower(cfg.Store)
	switch cfg.Store {
	case StoreMemory, StoreMySQL:
	case StoreMongo:
		if cfg.MongoURL == "" {
			return nil, errors.New("STORE=mongo requires MONGODB_URL")
		}
	default:
		return nil, fmt.Errorf("invalid STORE value: %q", cfg.Store)
	}
	return cfg, nil
}

// Addr returns the listen address for the configured port.
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

func getEnvOrDefault(key string, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
