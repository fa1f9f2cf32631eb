package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Data      DataConfig      `yaml:"data" envconfig:"DATA"`
	Analytics AnalyticsConfig `yaml:"analytics" envconfig:"ANALYTICS"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES" default:"1048576"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT" default:"60s"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" default:"http://localhost:8080"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS" default:"true"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"100"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"50"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
}

// DataConfig describes where the transaction snapshot comes from and
// which rows are admitted into analysis.
type DataConfig struct {
	SnapshotPath   string `yaml:"snapshot_path" envconfig:"SNAPSHOT_PATH" default:"data/transactions.xlsx"`
	AllowNegatives bool   `yaml:"allow_negatives" envconfig:"ALLOW_NEGATIVES" default:"false"`
	AllowZeros     bool   `yaml:"allow_zeros" envconfig:"ALLOW_ZEROS" default:"false"`
}

// AnalyticsConfig carries tunables for the analysis engines.
type AnalyticsConfig struct {
	Promo   PromoConfig   `yaml:"promo" envconfig:"PROMO"`
	Quality QualityConfig `yaml:"quality" envconfig:"QUALITY"`
	Pricing PricingConfig `yaml:"pricing" envconfig:"PRICING"`
}

// PromoConfig contains promotion detection tunables
type PromoConfig struct {
	DiscountThresholdPct float64 `yaml:"discount_threshold_pct" envconfig:"DISCOUNT_THRESHOLD_PCT" default:"10.0"`
	MinBaselineStores    int     `yaml:"min_baseline_stores" envconfig:"MIN_BASELINE_STORES" default:"1"`
	MinPromoUnits        float64 `yaml:"min_promo_units" envconfig:"MIN_PROMO_UNITS" default:"50"`
	TopN                 int     `yaml:"top_n" envconfig:"TOP_N" default:"10"`
}

// QualityConfig contains data quality scoring tunables
type QualityConfig struct {
	TrustThreshold float64 `yaml:"trust_threshold" envconfig:"TRUST_THRESHOLD" default:"0.75"`
	MaxNullPct     float64 `yaml:"max_null_pct" envconfig:"MAX_NULL_PCT" default:"5.0"`
	MaxNegativePct float64 `yaml:"max_negative_pct" envconfig:"MAX_NEGATIVE_PCT" default:"1.0"`
	MaxZeroPct     float64 `yaml:"max_zero_pct" envconfig:"MAX_ZERO_PCT" default:"2.0"`
}

// PricingConfig contains competitive pricing tunables
type PricingConfig struct {
	PremiumThreshold  float64 `yaml:"premium_threshold" envconfig:"PREMIUM_THRESHOLD" default:"1.10"`
	DiscountThreshold float64 `yaml:"discount_threshold" envconfig:"DISCOUNT_THRESHOLD" default:"0.90"`
	MinCompetitors    int     `yaml:"min_competitors" envconfig:"MIN_COMPETITORS" default:"2"`
	MinTransactions   int     `yaml:"min_transactions" envconfig:"MIN_TRANSACTIONS" default:"5"`
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	var cfg Config

	// Load from environment variables first
	if err := envconfig.Process("RETAILPULSE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	// Load from config file if exists
	configFile := getConfigFilePath()
	if configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config with env config (env takes precedence,
// file fills the fields the environment left unset)
func mergeConfigs(fileConfig, envConfig Config) Config {
	if envConfig.Server.Port == 0 {
		envConfig.Server.Port = fileConfig.Server.Port
	}
	if envConfig.Server.ReadTimeout == 0 {
		envConfig.Server.ReadTimeout = fileConfig.Server.ReadTimeout
	}
	if envConfig.Server.WriteTimeout == 0 {
		envConfig.Server.WriteTimeout = fileConfig.Server.WriteTimeout
	}
	if len(envConfig.Security.AllowedOrigins) == 0 {
		envConfig.Security.AllowedOrigins = fileConfig.Security.AllowedOrigins
	}
	if envConfig.Logging.Level == "" {
		envConfig.Logging.Level = fileConfig.Logging.Level
	}
	if envConfig.Logging.FilePath == "" {
		envConfig.Logging.FilePath = fileConfig.Logging.FilePath
	}
	if envConfig.Data.SnapshotPath == "" {
		envConfig.Data.SnapshotPath = fileConfig.Data.SnapshotPath
	}
	if envConfig.Analytics.Promo.DiscountThresholdPct == 0 {
		envConfig.Analytics.Promo.DiscountThresholdPct = fileConfig.Analytics.Promo.DiscountThresholdPct
	}

	return envConfig
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if len(c.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin must be specified")
	}

	if c.Security.RateLimit.Enabled {
		if c.Security.RateLimit.RPS <= 0 {
			return fmt.Errorf("rate limit rps must be positive")
		}
		if c.Security.RateLimit.Burst <= 0 {
			return fmt.Errorf("rate limit burst must be positive")
		}
	}

	if c.Data.SnapshotPath == "" {
		return fmt.Errorf("data snapshot path must be set")
	}

	if c.Analytics.Promo.DiscountThresholdPct <= 0 {
		return fmt.Errorf("promo discount threshold must be positive")
	}
	if c.Analytics.Promo.TopN <= 0 {
		return fmt.Errorf("promo top_n must be positive")
	}
	if c.Analytics.Quality.TrustThreshold <= 0 || c.Analytics.Quality.TrustThreshold > 1 {
		return fmt.Errorf("quality trust threshold must be in (0, 1]")
	}
	if c.Analytics.Pricing.PremiumThreshold <= c.Analytics.Pricing.DiscountThreshold {
		return fmt.Errorf("pricing premium threshold must exceed discount threshold")
	}

	// Logging is always JSON; other formats are not supported.
	if c.Logging.Format != "json" {
		c.Logging.Format = "json"
	}

	if c.Logging.Output != "both" && c.Logging.Output != "file" && c.Logging.Output != "stdout" {
		c.Logging.Output = "both"
	}

	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/app.log"
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	// Check for config file in common locations
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20, // 1MB
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  60 * time.Second,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8080"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     100,
				Burst:   50,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "both",
			FilePath: "logs/app.log",
		},
		Data: DataConfig{
			SnapshotPath: "data/transactions.xlsx",
		},
		Analytics: AnalyticsConfig{
			Promo: PromoConfig{
				DiscountThresholdPct: 10.0,
				MinBaselineStores:    1,
				MinPromoUnits:        50,
				TopN:                 10,
			},
			Quality: QualityConfig{
				TrustThreshold: 0.75,
				MaxNullPct:     5.0,
				MaxNegativePct: 1.0,
				MaxZeroPct:     2.0,
			},
			Pricing: PricingConfig{
				PremiumThreshold:  1.10,
				DiscountThreshold: 0.90,
				MinCompetitors:    2,
				MinTransactions:   5,
			},
		},
	}
}
