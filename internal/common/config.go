package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"
)

// Config represents the application configuration
type Config struct {
	Environment string          `toml:"environment"` // "development" or "production"
	Server      ServerConfig    `toml:"server"`
	Storage     StorageConfig   `toml:"storage"`
	Logging     LoggingConfig   `toml:"logging"`
	Render      RenderConfig    `toml:"render"`
	Retention   RetentionConfig `toml:"retention"`
	Limits      LimitsConfig    `toml:"limits"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

type StorageConfig struct {
	Type   string       `toml:"type"` // only "badger" is supported
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // default "15:04:05"
}

// RenderConfig controls report output. Margins are in millimetres.
type RenderConfig struct {
	ReportKind      string  `toml:"report_kind"` // filename prefix
	Title           string  `toml:"title"`
	Confidentiality string  `toml:"confidentiality"`
	Author          string  `toml:"author"`
	OutputDir       string  `toml:"output_dir"`     // exports are also written here when set
	StripMarkdown   bool    `toml:"strip_markdown"` // flatten markdown in narrative fields before layout
	PageSize        string  `toml:"page_size"`      // "A4" or "Letter"
	MarginTop       float64 `toml:"margin_top"`
	MarginBottom    float64 `toml:"margin_bottom"`
	MarginLeft      float64 `toml:"margin_left"`
	MarginRight     float64 `toml:"margin_right"`
	HeaderHeight    float64 `toml:"header_height"`
}

// RetentionConfig controls pruning of old export history and files
type RetentionConfig struct {
	Enabled  bool   `toml:"enabled"`
	Schedule string `toml:"schedule"` // 6-field cron expression (with seconds)
	MaxAge   string `toml:"max_age"`  // e.g. "720h"
}

// LimitsConfig throttles the export endpoints
type LimitsConfig struct {
	ExportsPerMinute int `toml:"exports_per_minute"` // 0 disables the limiter
	Burst            int `toml:"burst"`
}

// NewDefaultConfig creates a configuration with default values
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8085,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Type: "badger",
			Badger: BadgerConfig{
				Path: "./data",
			},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Output:     []string{"stdout", "file"},
			TimeFormat: "15:04:05",
		},
		Render: RenderConfig{
			ReportKind:      "Reference_Check",
			Title:           "Reference Check Report",
			Confidentiality: "CONFIDENTIAL",
			OutputDir:       "./exports",
			PageSize:        "A4",
			MarginTop:       16,
			MarginBottom:    22,
			MarginLeft:      20,
			MarginRight:     20,
			HeaderHeight:    14,
		},
		Retention: RetentionConfig{
			Enabled:  false,
			Schedule: "0 0 3 * * *", // daily at 03:00
			MaxAge:   "720h",
		},
		Limits: LimitsConfig{
			ExportsPerMinute: 30,
			Burst:            5,
		},
	}
}

// LoadFromFile loads configuration with priority: default -> file -> env -> CLI
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority: default -> file1 -> file2 -> ... -> env -> CLI.
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		// Unmarshal merges into the existing values
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// applyEnvOverrides applies REFCHECK_* environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("REFCHECK_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := os.Getenv("REFCHECK_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("REFCHECK_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Storage configuration
	if path := os.Getenv("REFCHECK_STORAGE_BADGER_PATH"); path != "" {
		config.Storage.Badger.Path = path
	}

	// Logging configuration
	if level := os.Getenv("REFCHECK_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("REFCHECK_LOG_OUTPUT"); output != "" {
		var outputs []string
		for _, o := range strings.Split(output, ",") {
			if o = strings.TrimSpace(o); o != "" {
				outputs = append(outputs, o)
			}
		}
		config.Logging.Output = outputs
	}

	// Render configuration
	if dir := os.Getenv("REFCHECK_RENDER_OUTPUT_DIR"); dir != "" {
		config.Render.OutputDir = dir
	}
	if label := os.Getenv("REFCHECK_RENDER_CONFIDENTIALITY"); label != "" {
		config.Render.Confidentiality = label
	}
	if author := os.Getenv("REFCHECK_RENDER_AUTHOR"); author != "" {
		config.Render.Author = author
	}
	if size := os.Getenv("REFCHECK_RENDER_PAGE_SIZE"); size != "" {
		config.Render.PageSize = size
	}
	if strip := os.Getenv("REFCHECK_RENDER_STRIP_MARKDOWN"); strip != "" {
		if s, err := strconv.ParseBool(strip); err == nil {
			config.Render.StripMarkdown = s
		}
	}

	// Retention configuration
	if enabled := os.Getenv("REFCHECK_RETENTION_ENABLED"); enabled != "" {
		if e, err := strconv.ParseBool(enabled); err == nil {
			config.Retention.Enabled = e
		}
	}
	if schedule := os.Getenv("REFCHECK_RETENTION_SCHEDULE"); schedule != "" {
		config.Retention.Schedule = schedule
	}
	if maxAge := os.Getenv("REFCHECK_RETENTION_MAX_AGE"); maxAge != "" {
		config.Retention.MaxAge = maxAge
	}

	// Limits configuration
	if perMinute := os.Getenv("REFCHECK_LIMITS_EXPORTS_PER_MINUTE"); perMinute != "" {
		if n, err := strconv.Atoi(perMinute); err == nil {
			config.Limits.ExportsPerMinute = n
		}
	}
	if burst := os.Getenv("REFCHECK_LIMITS_BURST"); burst != "" {
		if n, err := strconv.Atoi(burst); err == nil {
			config.Limits.Burst = n
		}
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate rejects configuration the application cannot start with
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if _, _, err := c.Render.PageDimensions(); err != nil {
		return err
	}
	if c.Retention.Enabled {
		if err := ValidateRetentionSchedule(c.Retention.Schedule); err != nil {
			return fmt.Errorf("invalid retention schedule: %w", err)
		}
		if _, err := c.Retention.MaxAgeDuration(); err != nil {
			return err
		}
	}
	if c.Limits.ExportsPerMinute < 0 || c.Limits.Burst < 0 {
		return fmt.Errorf("export limits must not be negative")
	}
	return nil
}

// PageDimensions returns the page width and height in millimetres
func (r RenderConfig) PageDimensions() (float64, float64, error) {
	switch strings.ToLower(strings.TrimSpace(r.PageSize)) {
	case "", "a4":
		return 210, 297, nil
	case "letter":
		return 215.9, 279.4, nil
	}
	return 0, 0, fmt.Errorf("unsupported page size %q (use A4 or Letter)", r.PageSize)
}

// MaxAgeDuration parses the retention max age
func (r RetentionConfig) MaxAgeDuration() (time.Duration, error) {
	d, err := time.ParseDuration(r.MaxAge)
	if err != nil {
		return 0, fmt.Errorf("invalid retention max_age %q: %w", r.MaxAge, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("retention max_age must be positive, got %s", r.MaxAge)
	}
	return d, nil
}

// ValidateRetentionSchedule validates a 6-field cron expression and ensures it
// runs at most once a minute
func ValidateRetentionSchedule(schedule string) error {
	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}

	parts := strings.Fields(schedule)
	if len(parts) != 6 {
		return fmt.Errorf("invalid cron format: expected 6 fields")
	}

	secondField := parts[0]
	if secondField == "*" || strings.HasPrefix(secondField, "*/") {
		return fmt.Errorf("schedule must not run more than once a minute")
	}
	return nil
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
