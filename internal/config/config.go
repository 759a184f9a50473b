// Package config loads engine configuration from the environment, with an
// optional .env file layered underneath the process environment.
package config

import (
	"os"
	"strconv"
	"strings"

	"expenseflow/internal/domain"
	"expenseflow/internal/forecast"
)

// Config carries the tunables of the forecasting and simulation engines.
// Values that bound resource usage are clamped to the hard domain caps no
// matter what the environment says.
type Config struct {
	DefaultAlgorithm  domain.AlgorithmType
	DefaultConfidence int
	SmoothingAlpha    float64

	MaxSimulations int
	MaxHorizonDays int
	Workers        int

	PostgresDSN   string
	ClickhouseDSN string
	MetricsAddr   string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DefaultAlgorithm:  domain.AlgorithmExponentialSmoothing,
		DefaultConfidence: domain.Confidence95,
		SmoothingAlpha:    forecast.DefaultSmoothingAlpha,
		MaxSimulations:    domain.MaxSimulations,
		MaxHorizonDays:    domain.MaxHorizonDays,
	}
}

// FromEnv builds a configuration from environment variables on top of the
// defaults. Unparsable or out-of-range values fall back rather than fail:
// configuration can degrade the engine, never break it.
func FromEnv() Config {
	cfg := Default()

	if v := os.Getenv("FORECAST_ALGORITHM"); v != "" {
		if alg := domain.AlgorithmType(v); alg.Valid() {
			cfg.DefaultAlgorithm = alg
		}
	}
	if v, ok := envInt("FORECAST_CONFIDENCE"); ok {
		if _, err := forecast.ZScore(v); err == nil {
			cfg.DefaultConfidence = v
		}
	}
	if v, ok := envFloat("FORECAST_SMOOTHING_ALPHA"); ok && v > 0 && v < 1 {
		cfg.SmoothingAlpha = v
	}

	if v, ok := envInt("SIMULATION_MAX_PATHS"); ok && v > 0 {
		cfg.MaxSimulations = v
	}
	if v, ok := envInt("SIMULATION_MAX_HORIZON_DAYS"); ok && v > 0 {
		cfg.MaxHorizonDays = v
	}
	if v, ok := envInt("SIMULATION_WORKERS"); ok && v > 0 {
		cfg.Workers = v
	}

	cfg.PostgresDSN = os.Getenv("POSTGRES_DSN")
	cfg.ClickhouseDSN = os.Getenv("CLICKHOUSE_DSN")
	cfg.MetricsAddr = os.Getenv("METRICS_ADDR")

	return cfg.clamped()
}

// clamped enforces the hard caps on resource-bounding values.
func (c Config) clamped() Config {
	if c.MaxSimulations <= 0 || c.MaxSimulations > domain.MaxSimulations {
		c.MaxSimulations = domain.MaxSimulations
	}
	if c.MaxHorizonDays <= 0 || c.MaxHorizonDays > domain.MaxHorizonDays {
		c.MaxHorizonDays = domain.MaxHorizonDays
	}
	if c.Workers < 0 {
		c.Workers = 0
	}
	return c
}

// LoadEnvFile loads KEY=VALUE pairs from a .env file into the process
// environment without overriding variables that are already set. A missing
// file is not an error.
func LoadEnvFile(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}

func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func envFloat(key string) (float64, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
