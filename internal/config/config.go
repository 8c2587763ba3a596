package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"
)

// PostgresConfig holds the connection settings for the postgres backend.
type PostgresConfig struct {
	ConnString string `yaml:"connString" validate:"required"`
}

// Config represents the application configuration
type Config struct {
	// DataDir is where the file backend keeps its JSON documents.
	DataDir string `yaml:"dataDir" validate:"required"`

	// Backend selects the store implementation.
	Backend string `yaml:"backend" validate:"required,oneof=file postgres"`

	Postgres *PostgresConfig `yaml:"postgres,omitempty"`

	// AdminActor is the actor name stamped on edits made from the CLI
	// when no --actor flag is given.
	AdminActor string `yaml:"adminActor" validate:"required"`

	// SyncSchedule is an optional RRULE describing when scheduled sheet
	// syncs should run, e.g. "FREQ=DAILY;BYHOUR=6".
	SyncSchedule string `yaml:"syncSchedule,omitempty"`

	// FetchTimeoutSeconds bounds each remote sheet fetch.
	FetchTimeoutSeconds int `yaml:"fetchTimeoutSeconds,omitempty" validate:"omitempty,min=1"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from shiftdesk.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func Load() (*Config, error) {
	configPath, err := findConfigFile()
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct, backend consistency and
// the sync schedule rrule syntax.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.Backend == "postgres" && cfg.Postgres == nil {
		return fmt.Errorf("postgres backend selected but postgres section is missing")
	}

	if cfg.SyncSchedule != "" {
		if _, err := rrule.StrToRRule(cfg.SyncSchedule); err != nil {
			return fmt.Errorf("invalid rrule in syncSchedule: %w", err)
		}
	}

	return nil
}

// findConfigFile searches for shiftdesk.yaml in current directory and home directory
func findConfigFile() (string, error) {
	configFileName := "shiftdesk.yaml"

	// Check current directory
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file not found in current directory or home directory")
}
