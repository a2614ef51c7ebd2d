package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	CORS       CORSConfig       `yaml:"cors"`
	Analytics  AnalyticsConfig  `yaml:"analytics"`
	Pagination PaginationConfig `yaml:"pagination"`
	Audit      AuditConfig      `yaml:"audit"`
	Log        LogConfig        `yaml:"log"`
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string `yaml:"port"`
	Host string `yaml:"host"`
	Addr string `yaml:"-"` // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// AnalyticsConfig holds the fixed currency multipliers used by the metrics calculator.
// Keys are market codes; markets not listed use a multiplier of 1.
type AnalyticsConfig struct {
	RawFXMultipliers map[string]string          `yaml:"fx_multipliers"`
	FXMultipliers    map[string]decimal.Decimal `yaml:"-"`
}

// PaginationConfig holds list pagination settings.
// An empty TokenKey makes the server generate a key at startup,
// which invalidates outstanding page tokens on restart.
type PaginationConfig struct {
	TokenKey     string        `yaml:"token_key"`
	TokenTTL     time.Duration `yaml:"-"`
	RawTokenTTL  string        `yaml:"token_ttl"`
	DefaultLimit int           `yaml:"default_limit"`
	MaxLimit     int           `yaml:"max_limit"`
}

// AuditConfig holds the schedule of the ledger integrity audit.
type AuditConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Schedule string `yaml:"schedule"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `yaml:"level"`
}

// DefaultFXMultipliers is the built-in market multiplier table.
var DefaultFXMultipliers = map[string]string{
	"US": "7.78",
}

// Load reads configuration from environment variables and .env file.
// Precedence, lowest first: built-in defaults, the YAML file named by CONFIG_FILE, environment.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit YAML file. An empty path falls back to CONFIG_FILE.
func LoadFile(path string) (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := defaults()

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		if err := loadFile(path, config); err != nil {
			return nil, err
		}
	}

	config.Server.Port = getEnv("SERVER_PORT", config.Server.Port)
	config.Server.Host = getEnv("SERVER_HOST", config.Server.Host)
	config.Database.Path = getEnv("DB_PATH", config.Database.Path)
	config.Log.Level = getEnv("LOG_LEVEL", config.Log.Level)
	config.Pagination.TokenKey = getEnv("PAGE_TOKEN_KEY", config.Pagination.TokenKey)
	config.Pagination.RawTokenTTL = getEnv("PAGE_TOKEN_TTL", config.Pagination.RawTokenTTL)
	config.Audit.Schedule = getEnv("AUDIT_SCHEDULE", config.Audit.Schedule)

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		config.CORS.AllowedOrigins = splitList(origins)
	}

	if raw := os.Getenv("FX_MULTIPLIERS"); raw != "" {
		pairs, err := parsePairs(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid FX_MULTIPLIERS: %w", err)
		}
		config.Analytics.RawFXMultipliers = pairs
	}

	var err error
	if config.Audit.Enabled, err = getEnvBool("AUDIT_ENABLED", config.Audit.Enabled); err != nil {
		return nil, err
	}
	if config.Pagination.DefaultLimit, err = getEnvInt("PAGE_DEFAULT_LIMIT", config.Pagination.DefaultLimit); err != nil {
		return nil, err
	}
	if config.Pagination.MaxLimit, err = getEnvInt("PAGE_MAX_LIMIT", config.Pagination.MaxLimit); err != nil {
		return nil, err
	}

	if err := config.finalize(); err != nil {
		return nil, err
	}

	return config, nil
}

func defaults() *Config {
	fx := make(map[string]string, len(DefaultFXMultipliers))
	for k, v := range DefaultFXMultipliers {
		fx[k] = v
	}

	return &Config{
		Server: ServerConfig{
			Port: "5001",
			Host: "localhost",
		},
		Database: DatabaseConfig{
			Path: "./data/trading_journal.db",
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost",
			},
		},
		Analytics: AnalyticsConfig{
			RawFXMultipliers: fx,
		},
		Pagination: PaginationConfig{
			RawTokenTTL:  "24h",
			DefaultLimit: 100,
			MaxLimit:     500,
		},
		Audit: AuditConfig{
			Enabled:  true,
			Schedule: "0 3 * * *",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// loadFile overlays the YAML file at path onto config. Keys missing from the file keep their defaults.
func loadFile(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	return nil
}

// finalize derives the parsed fields from their raw forms and checks ranges.
func (c *Config) finalize() error {
	// Combine host and port
	c.Server.Addr = fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)

	c.Analytics.FXMultipliers = make(map[string]decimal.Decimal, len(c.Analytics.RawFXMultipliers))
	for market, raw := range c.Analytics.RawFXMultipliers {
		m, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("invalid fx multiplier for market %s: %w", market, err)
		}
		if !m.IsPositive() {
			return fmt.Errorf("fx multiplier for market %s must be positive", market)
		}
		c.Analytics.FXMultipliers[strings.ToUpper(strings.TrimSpace(market))] = m
	}

	ttl, err := time.ParseDuration(c.Pagination.RawTokenTTL)
	if err != nil {
		return fmt.Errorf("invalid page token ttl: %w", err)
	}
	c.Pagination.TokenTTL = ttl

	if c.Pagination.DefaultLimit <= 0 || c.Pagination.MaxLimit <= 0 {
		return fmt.Errorf("page limits must be positive")
	}
	if c.Pagination.DefaultLimit > c.Pagination.MaxLimit {
		c.Pagination.DefaultLimit = c.Pagination.MaxLimit
	}

	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parsePairs parses "US=7.78,SG=5.7" into a map.
func parsePairs(value string) (map[string]string, error) {
	pairs := make(map[string]string)
	for _, part := range splitList(value) {
		k, v, ok := strings.Cut(part, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("expected MARKET=multiplier, got %q", part)
		}
		pairs[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return pairs, nil
}
