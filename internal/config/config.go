package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Planner providers.
const (
	ProviderNone   = "none"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Config is the root configuration structure.
// It is read-only after Load() returns and thread-safe for concurrent reads.
type Config struct {
	Server   ServerConfig          `yaml:"server"`
	Database DatabaseConfig        `yaml:"database"`
	Planner  PlannerConfig         `yaml:"planner"`
	Auth     AuthConfig            `yaml:"auth"`
	Worker   WorkerConfig          `yaml:"worker"`
	Log      LogConfig             `yaml:"log"`
	Progress ProgressConfig        `yaml:"progress"`
	Snapshot SnapshotStorageConfig `yaml:"snapshot"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int      `yaml:"port"`
	ReadTimeout     Duration `yaml:"read_timeout"`
	WriteTimeout    Duration `yaml:"write_timeout"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`
}

// DatabaseConfig contains database settings.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// PlannerConfig selects and tunes the text generation backend.
type PlannerConfig struct {
	Provider string   `yaml:"provider"`
	APIKey   string   `yaml:"-"` // env-only, never in YAML
	Model    string   `yaml:"model"`
	Timeout  Duration `yaml:"timeout"`
}

// AuthConfig contains authentication settings.
type AuthConfig struct {
	APIKey     string `yaml:"-"` // env-only, never in YAML
	BcryptCost int    `yaml:"bcrypt_cost"`
}

// WorkerConfig contains background worker settings.
type WorkerConfig struct {
	BackupInterval Duration `yaml:"backup_interval"`
	BackupDir      string   `yaml:"backup_dir"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ProgressConfig seeds new progress records and fixes the day boundary.
type ProgressConfig struct {
	WeeklyGoal int    `yaml:"weekly_goal"`
	TotalTasks int    `yaml:"total_tasks"`
	Timezone   string `yaml:"timezone"`
}

// SnapshotStorageConfig configures S3-compatible backup uploads.
// An empty Bucket keeps backups local.
type SnapshotStorageConfig struct {
	Bucket    string   `yaml:"bucket"`
	Endpoint  string   `yaml:"endpoint"`
	Region    string   `yaml:"region"`
	UseSSL    *bool    `yaml:"use_ssl"`
	AccessKey string   `yaml:"-"` // env-only, never in YAML
	SecretKey string   `yaml:"-"` // env-only, never in YAML
	URLExpiry Duration `yaml:"url_expiry"`
}

// Location resolves Progress.Timezone. An empty value means the local zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Progress.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Progress.Timezone)
}

// Duration is a wrapper around time.Duration that supports YAML string parsing.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler for Duration.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Load loads configuration with precedence: defaults → YAML file → env vars.
// A .env file (DINACHARYA_ENV_FILE, default ".env") is read into the process
// environment first; variables already set are not overwritten.
func Load() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	if err := cfg.validateSecrets(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadLocal loads configuration like Load but does not require the API
// secrets. Admin commands that only touch the database use it.
func LoadLocal() (*Config, error) {
	return load()
}

func load() (*Config, error) {
	if err := loadDotEnv(getEnv("DINACHARYA_ENV_FILE", ".env")); err != nil {
		return nil, err
	}

	cfg := newDefaults()

	configPath := getEnv("DINACHARYA_CONFIG_PATH", "config/dinacharya.yaml")

	// Load YAML file if it exists (missing file is not an error)
	if err := loadYAMLFile(cfg, configPath); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromFile loads configuration from a specific path.
// Used for testing and explicit path specification.
func LoadFromFile(path string) (*Config, error) {
	cfg := newDefaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if err := cfg.validateSecrets(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// newDefaults returns a Config with all default values.
func newDefaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     Duration(30 * time.Second),
			WriteTimeout:    Duration(30 * time.Second),
			ShutdownTimeout: Duration(15 * time.Second),
		},
		Database: DatabaseConfig{
			Path: "data/dinacharya.db",
		},
		Planner: PlannerConfig{
			Provider: ProviderNone,
			Timeout:  Duration(15 * time.Second),
		},
		Auth: AuthConfig{
			BcryptCost: 10,
		},
		Worker: WorkerConfig{
			BackupInterval: Duration(24 * time.Hour),
			BackupDir:      "data/backups",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Progress: ProgressConfig{
			WeeklyGoal: 300,
			TotalTasks: 35,
		},
		Snapshot: SnapshotStorageConfig{
			Region:    "us-east-1",
			URLExpiry: Duration(15 * time.Minute),
		},
	}
}

// loadDotEnv reads path into the environment. A missing file is not an error.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading env file: %w", err)
	}
	return nil
}

// loadYAMLFile loads configuration from a YAML file if it exists.
// Missing file is not an error; we just use defaults.
func loadYAMLFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Only non-empty env vars override config values.
func applyEnvOverrides(cfg *Config) {
	// Server
	setInt(&cfg.Server.Port, "DINACHARYA_PORT")
	setDuration(&cfg.Server.ReadTimeout, "DINACHARYA_READ_TIMEOUT")
	setDuration(&cfg.Server.WriteTimeout, "DINACHARYA_WRITE_TIMEOUT")
	setDuration(&cfg.Server.ShutdownTimeout, "DINACHARYA_SHUTDOWN_TIMEOUT")

	// Database
	setString(&cfg.Database.Path, "DINACHARYA_DB_PATH")

	// Planner. The provider's conventional key variable fills the API key
	// unless DINACHARYA_PLANNER_API_KEY is set.
	setString(&cfg.Planner.Provider, "DINACHARYA_PLANNER_PROVIDER")
	setString(&cfg.Planner.Model, "DINACHARYA_PLANNER_MODEL")
	setDuration(&cfg.Planner.Timeout, "DINACHARYA_PLANNER_TIMEOUT")
	cfg.Planner.Provider = strings.ToLower(strings.TrimSpace(cfg.Planner.Provider))
	switch cfg.Planner.Provider {
	case ProviderOpenAI:
		setString(&cfg.Planner.APIKey, "OPENAI_API_KEY")
	case ProviderGemini:
		setString(&cfg.Planner.APIKey, "GEMINI_API_KEY")
	}
	setString(&cfg.Planner.APIKey, "DINACHARYA_PLANNER_API_KEY")

	// Auth
	setString(&cfg.Auth.APIKey, "DINACHARYA_API_KEY")
	setInt(&cfg.Auth.BcryptCost, "DINACHARYA_BCRYPT_COST")

	// Worker
	setDuration(&cfg.Worker.BackupInterval, "DINACHARYA_BACKUP_INTERVAL")
	setString(&cfg.Worker.BackupDir, "DINACHARYA_BACKUP_DIR")

	// Log
	setString(&cfg.Log.Level, "DINACHARYA_LOG_LEVEL")
	setString(&cfg.Log.Format, "DINACHARYA_LOG_FORMAT")

	// Progress
	setInt(&cfg.Progress.WeeklyGoal, "DINACHARYA_WEEKLY_GOAL")
	setInt(&cfg.Progress.TotalTasks, "DINACHARYA_TOTAL_TASKS")
	setString(&cfg.Progress.Timezone, "DINACHARYA_TIMEZONE")

	// Snapshot storage
	setString(&cfg.Snapshot.Bucket, "DINACHARYA_SNAPSHOT_BUCKET")
	setString(&cfg.Snapshot.Endpoint, "DINACHARYA_S3_ENDPOINT")
	setString(&cfg.Snapshot.Region, "DINACHARYA_S3_REGION")
	setString(&cfg.Snapshot.AccessKey, "DINACHARYA_S3_ACCESS_KEY")
	setString(&cfg.Snapshot.SecretKey, "DINACHARYA_S3_SECRET_KEY")
	setDuration(&cfg.Snapshot.URLExpiry, "DINACHARYA_S3_URL_EXPIRY")
	if v := os.Getenv("DINACHARYA_S3_USE_SSL"); v != "" {
		useSSL := v == "true" || v == "1"
		cfg.Snapshot.UseSSL = &useSSL
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setDuration(dst *Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = Duration(d)
		}
	}
}

// validate checks that configuration values are consistent.
func (c *Config) validate() error {
	switch c.Planner.Provider {
	case "", ProviderNone, ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("unknown planner provider %q", c.Planner.Provider)
	}
	if c.Progress.WeeklyGoal <= 0 {
		return errors.New("progress.weekly_goal must be positive")
	}
	if c.Progress.TotalTasks <= 0 {
		return errors.New("progress.total_tasks must be positive")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("progress.timezone: %w", err)
	}
	if c.Snapshot.Bucket != "" && c.Snapshot.Endpoint == "" {
		return errors.New("DINACHARYA_S3_ENDPOINT is required when a snapshot bucket is set")
	}
	return nil
}

// validateSecrets checks that the secrets the server needs are set. Dev mode
// (DINACHARYA_DEV_MODE=true) skips it.
func (c *Config) validateSecrets() error {
	// Dev mode bypasses secret validation
	if os.Getenv("DINACHARYA_DEV_MODE") == "true" {
		return nil
	}

	if c.Auth.APIKey == "" {
		return errors.New("DINACHARYA_API_KEY is required")
	}
	if c.Planner.Provider == ProviderOpenAI && c.Planner.APIKey == "" {
		return errors.New("OPENAI_API_KEY is required for the openai planner")
	}
	if c.Planner.Provider == ProviderGemini && c.Planner.APIKey == "" {
		return errors.New("GEMINI_API_KEY is required for the gemini planner")
	}
	return nil
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
