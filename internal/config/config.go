// Package config provides configuration management for the prediction
// engine.
package config

import (
	"github.com/yourusername/pitchside/internal/backtest"
	"github.com/yourusername/pitchside/internal/predictor"
)

// AppConfig holds application-level settings.
type AppConfig struct {
	Environment string `mapstructure:"environment" validate:"omitempty,oneof=development staging production"`
	LogLevel    string `mapstructure:"log_level" validate:"omitempty,oneof=trace debug info warn error"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}

// Config is the root configuration.
type Config struct {
	App      AppConfig             `mapstructure:"app"`
	Metrics  MetricsConfig         `mapstructure:"metrics"`
	Model    predictor.ModelConfig `mapstructure:"model"`
	Backtest backtest.Config       `mapstructure:"backtest"`
}

// Default returns a fully populated configuration with production model
// tuning.
func Default() *Config {
	return &Config{
		App: AppConfig{
			Environment: "development",
			LogLevel:    "info",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Address: ":9090",
		},
		Model:    predictor.DefaultModelConfig(),
		Backtest: backtest.DefaultConfig(),
	}
}
