package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	IntakePort          string `mapstructure:"INTAKE_PORT"`
	AlertPort           string `mapstructure:"ALERT_PORT"`
	Env                 string `mapstructure:"ENV"`
	DatabaseURL         string `mapstructure:"DATABASE_URL"`
	DBMaxConns          int32  `mapstructure:"DB_MAX_CONNS"`
	DBMinConns          int32  `mapstructure:"DB_MIN_CONNS"`
	AlertServiceURL     string `mapstructure:"ALERT_SERVICE_URL"`
	AlertTimeoutSeconds int    `mapstructure:"ALERT_TIMEOUT_SECONDS"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("INTAKE_PORT", "8081")
	v.SetDefault("ALERT_PORT", "8082")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("ALERT_SERVICE_URL", "http://localhost:8082")
	v.SetDefault("ALERT_TIMEOUT_SECONDS", 5)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("INTAKE_PORT")
	v.BindEnv("ALERT_PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("ALERT_SERVICE_URL")
	v.BindEnv("ALERT_TIMEOUT_SECONDS")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Validate checks that the configuration is safe to run with.
func (c *Config) Validate() error {
	if c.AlertTimeoutSeconds <= 0 {
		return fmt.Errorf("ALERT_TIMEOUT_SECONDS must be positive, got %d", c.AlertTimeoutSeconds)
	}
	if !strings.HasPrefix(c.AlertServiceURL, "http://") && !strings.HasPrefix(c.AlertServiceURL, "https://") {
		return fmt.Errorf("ALERT_SERVICE_URL must be an http(s) URL, got %q", c.AlertServiceURL)
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS (%d) must not exceed DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	return nil
}
