package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Filter modes.
const (
	FilterCatalog = "catalog" // prop catalog + compiled feature table
	FilterRaw     = "raw"     // fixed deny lists only
)

// Converter holds all configuration for the world converter.
type Converter struct {
	// Client data
	DataDir      string `yaml:"data_dir"`
	WorldIndex   string `yaml:"world_index"`   // relative to data_dir
	PropDB       string `yaml:"prop_db"`       // relative to data_dir
	FeaturesFile string `yaml:"features_file"` // relative to data_dir

	// Visibility
	FeatureSetting string          `yaml:"feature_setting"`
	FilterMode     string          `yaml:"filter_mode"`
	PseudoFeatures map[string]bool `yaml:"pseudo_features"`

	// Output shaping
	NormalizeNames bool `yaml:"normalize_names"`

	// Loader
	Workers    int  `yaml:"workers"`
	SkipFailed bool `yaml:"skip_failed"`

	LogLevel string `yaml:"log_level"`

	// Database (export target "db")
	Database DatabaseConfig `yaml:"database"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// DefaultConverter returns Converter config with sensible defaults.
func DefaultConverter() Converter {
	return Converter{
		DataDir:        "data",
		WorldIndex:     "world/world.trn",
		PropDB:         "db/propdb.xml",
		FeaturesFile:   "features.xml.compiled",
		FeatureSetting: "Regular, USA",
		FilterMode:     FilterCatalog,
		Workers:        4,
		LogLevel:       "info",
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "rewpa",
			Password: "rewpa",
			DBName:   "rewpa",
			SSLMode:  "disable",
		},
	}
}

// Validate checks values that have no usable default.
func (c Converter) Validate() error {
	switch c.FilterMode {
	case FilterCatalog, FilterRaw:
	default:
		return fmt.Errorf("unknown filter_mode %q (want %q or %q)", c.FilterMode, FilterCatalog, FilterRaw)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is empty")
	}
	return nil
}

// LoadConverter loads converter config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadConverter(path string) (Converter, error) {
	cfg := DefaultConverter()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}
