package config

// Package config handles configuration loading for the risk engine.
// It supports YAML config files with environment variable overrides.

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Tommaso658/Equity-Portfolio-VaR-ES-Counterparty-Risk/pkg/models"
)

// Config represents the complete application configuration. The json tags
// mirror the yaml names so the config REST endpoints speak the same keys as
// the config file.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"  yaml:"server"  json:"server"`
	Risk    RiskConfig    `mapstructure:"risk"    yaml:"risk"    json:"risk"`
	Data    DataConfig    `mapstructure:"data"    yaml:"data"    json:"data"`
	Report  ReportConfig  `mapstructure:"report"  yaml:"report"  json:"report"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging" json:"logging"`
}

// ServerConfig holds HTTP API server settings.
type ServerConfig struct {
	Host              string   `mapstructure:"host"                yaml:"host"                json:"host"`
	Port              int      `mapstructure:"port"                yaml:"port"                json:"port"`
	CORSOrigins       []string `mapstructure:"cors_origins"        yaml:"cors_origins"        json:"cors_origins"`
	RequestTimeoutSec int      `mapstructure:"request_timeout_sec" yaml:"request_timeout_sec" json:"request_timeout_sec"`
	RateLimitPerMin   int      `mapstructure:"rate_limit_per_min"  yaml:"rate_limit_per_min"  json:"rate_limit_per_min"` // Monte Carlo endpoints only
	CacheTTLSec       int      `mapstructure:"cache_ttl_sec"       yaml:"cache_ttl_sec"       json:"cache_ttl_sec"`      // deterministic-result cache
}

// RiskConfig holds the default risk model parameters. Individual requests
// may override any of them; these are the values used when a request leaves
// a field unset.
type RiskConfig struct {
	Confidence   float64 `mapstructure:"confidence"     yaml:"confidence"     json:"confidence"`
	HorizonDays  int     `mapstructure:"horizon_days"   yaml:"horizon_days"   json:"horizon_days"`
	Lambda       float64 `mapstructure:"lambda"         yaml:"lambda"         json:"lambda"`
	WindowDays   int     `mapstructure:"window_days"    yaml:"window_days"    json:"window_days"`
	Components   int     `mapstructure:"components"     yaml:"components"     json:"components"`
	Paths        int     `mapstructure:"paths"          yaml:"paths"          json:"paths"`
	Seed         int64   `mapstructure:"seed"           yaml:"seed"           json:"seed"`
	Antithetic   bool    `mapstructure:"antithetic"     yaml:"antithetic"     json:"antithetic"`
	Workers      int     `mapstructure:"workers"        yaml:"workers"        json:"workers"`
	DeltaGamma   bool    `mapstructure:"delta_gamma"    yaml:"delta_gamma"    json:"delta_gamma"`
	VolOfVol     float64 `mapstructure:"vol_of_vol"     yaml:"vol_of_vol"     json:"vol_of_vol"`     // implied-vol shock scale for Monte Carlo; 0 disables
	RiskFreeRate float64 `mapstructure:"risk_free_rate" yaml:"risk_free_rate" json:"risk_free_rate"` // continuously compounded, for option revaluation
}

// DataConfig holds market data loading settings.
type DataConfig struct {
	Dir        string `mapstructure:"dir"         yaml:"dir"         json:"dir"`         // directory of per-instrument CSV price files
	ReturnType string `mapstructure:"return_type" yaml:"return_type" json:"return_type"` // "log" or "simple"
	DateFormat string `mapstructure:"date_format" yaml:"date_format" json:"date_format"`
}

// ReportConfig holds report generation settings.
type ReportConfig struct {
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir" json:"output_dir"`
	Format    string `mapstructure:"format"     yaml:"format"     json:"format"` // "text" or "html"
	Title     string `mapstructure:"title"      yaml:"title"      json:"title"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"  json:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format" json:"format"` // "text" or "json"
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./riskengine.yaml (working directory)
//  2. ./config/riskengine.yaml (project root)
//  3. ~/.riskengine/riskengine.yaml (home directory)
//  4. /etc/riskengine/riskengine.yaml (system)
//
// Environment variables override config file values.
// Format: RISKENGINE_<SECTION>_<KEY>, e.g., RISKENGINE_RISK_CONFIDENCE
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Config file settings
	v.SetConfigName("riskengine")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".riskengine"))
	v.AddConfigPath("/etc/riskengine")

	// Environment variable settings
	v.SetEnvPrefix("RISKENGINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required to exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found — that's fine, use defaults + env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("RISKENGINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values. The risk
// section is seeded from models.DefaultRiskModelParameters so the config
// file and the engine share one source of truth.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.request_timeout_sec", 60)
	v.SetDefault("server.rate_limit_per_min", 30)
	v.SetDefault("server.cache_ttl_sec", 300) // 5 minutes

	// Risk model defaults
	p := models.DefaultRiskModelParameters()
	v.SetDefault("risk.confidence", p.Confidence)
	v.SetDefault("risk.horizon_days", p.HorizonDays)
	v.SetDefault("risk.lambda", p.Lambda)
	v.SetDefault("risk.window_days", p.WindowDays)
	v.SetDefault("risk.components", p.Components)
	v.SetDefault("risk.paths", p.Paths)
	v.SetDefault("risk.seed", p.Seed)
	v.SetDefault("risk.antithetic", p.Antithetic)
	v.SetDefault("risk.workers", p.Workers)
	v.SetDefault("risk.delta_gamma", p.DeltaGamma)
	v.SetDefault("risk.vol_of_vol", p.VolOfVol)
	v.SetDefault("risk.risk_free_rate", 0.0)

	// Data defaults
	v.SetDefault("data.dir", "./data")
	v.SetDefault("data.return_type", "log")
	v.SetDefault("data.date_format", "2006-01-02")

	// Report defaults
	v.SetDefault("report.output_dir", "./reports")
	v.SetDefault("report.format", "text")
	v.SetDefault("report.title", "Portfolio Risk Report")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Validate checks the configuration for values the engine would reject
// later anyway. All violations are reported at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be in [1, 65535], got %d", c.Server.Port))
	}
	if c.Server.RequestTimeoutSec < 1 {
		errs = append(errs, fmt.Errorf("server.request_timeout_sec must be positive, got %d", c.Server.RequestTimeoutSec))
	}
	if c.Risk.Confidence <= 0 || c.Risk.Confidence >= 1 {
		errs = append(errs, fmt.Errorf("risk.confidence must be in (0, 1), got %g", c.Risk.Confidence))
	}
	if c.Risk.HorizonDays < 1 {
		errs = append(errs, fmt.Errorf("risk.horizon_days must be at least 1, got %d", c.Risk.HorizonDays))
	}
	if c.Risk.Lambda <= 0 || c.Risk.Lambda > 1 {
		errs = append(errs, fmt.Errorf("risk.lambda must be in (0, 1], got %g", c.Risk.Lambda))
	}
	if c.Risk.WindowDays < 0 {
		errs = append(errs, fmt.Errorf("risk.window_days must not be negative, got %d", c.Risk.WindowDays))
	}
	if c.Risk.Components < 1 {
		errs = append(errs, fmt.Errorf("risk.components must be at least 1, got %d", c.Risk.Components))
	}
	if c.Risk.Paths < 1 {
		errs = append(errs, fmt.Errorf("risk.paths must be at least 1, got %d", c.Risk.Paths))
	}
	if c.Risk.Workers < 0 {
		errs = append(errs, fmt.Errorf("risk.workers must not be negative, got %d", c.Risk.Workers))
	}
	if c.Risk.VolOfVol < 0 {
		errs = append(errs, fmt.Errorf("risk.vol_of_vol must not be negative, got %g", c.Risk.VolOfVol))
	}
	if rt := c.Data.ReturnType; rt != "log" && rt != "simple" {
		errs = append(errs, fmt.Errorf("data.return_type must be \"log\" or \"simple\", got %q", rt))
	}
	if f := c.Report.Format; f != "text" && f != "html" {
		errs = append(errs, fmt.Errorf("report.format must be \"text\" or \"html\", got %q", f))
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level must be one of debug/info/warn/error, got %q", c.Logging.Level))
	}

	return errors.Join(errs...)
}

// Parameters returns the configured default risk model parameters in the
// form the estimators consume.
func (c *Config) Parameters() models.RiskModelParameters {
	return models.RiskModelParameters{
		Confidence:  c.Risk.Confidence,
		HorizonDays: c.Risk.HorizonDays,
		Lambda:      c.Risk.Lambda,
		WindowDays:  c.Risk.WindowDays,
		Components:  c.Risk.Components,
		Paths:       c.Risk.Paths,
		Seed:        c.Risk.Seed,
		Antithetic:  c.Risk.Antithetic,
		Workers:     c.Risk.Workers,
		DeltaGamma:  c.Risk.DeltaGamma,
		VolOfVol:    c.Risk.VolOfVol,
	}
}

// ConfigFilePath returns the path the configuration is persisted to.
// The first existing file in the Load search order wins; when none exists
// yet, the working-directory path is returned.
func ConfigFilePath() string {
	candidates := []string{
		"riskengine.yaml",
		filepath.Join("config", "riskengine.yaml"),
		filepath.Join(homeDir(), ".riskengine", "riskengine.yaml"),
		filepath.Join("/etc/riskengine", "riskengine.yaml"),
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return candidates[0]
}

// SaveToFile writes the configuration to the given path as YAML.
func SaveToFile(cfg *Config, path string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("error creating config directory: %w", err)
		}
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("error writing config file %s: %w", path, err)
	}
	return nil
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
