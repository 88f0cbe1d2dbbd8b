package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/labstack/gommon/log"
	"gopkg.in/yaml.v3"

	"emissions/internal/engine"
)

// Config holds runtime options for the server and the CLI.
type Config struct {
	Addr      string  `yaml:"addr" json:"addr"`
	LogLevel  string  `yaml:"log_level" json:"log_level"`
	RateLimit float64 `yaml:"rate_limit" json:"rate_limit"` // requests/second per client, 0 disables
	DataFile  string  `yaml:"data_file" json:"data_file"`   // wide CSV or Arrow file; empty means synthetic

	// AdminToken guards /api/admin; empty disables those routes.
	AdminToken string `yaml:"admin_token" json:"admin_token"`

	Seed      *uint64 `yaml:"seed" json:"seed"` // nil draws a fresh seed per generation
	Noise     bool    `yaml:"noise" json:"noise"`
	NoiseLow  float64 `yaml:"noise_low" json:"noise_low"`
	NoiseHigh float64 `yaml:"noise_high" json:"noise_high"`

	Ensemble EnsembleConfig `yaml:"ensemble" json:"ensemble"`
}

type EnsembleConfig struct {
	Runs    int `yaml:"runs" json:"runs"`
	Workers int `yaml:"workers" json:"workers"` // 0 = one per CPU
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Addr:      ":8080",
		LogLevel:  "info",
		RateLimit: 20,
		Noise:     true,
		NoiseLow:  0.98,
		NoiseHigh: 1.02,
		Ensemble:  EnsembleConfig{Runs: 100},
	}
}

// Load reads configPath (JSON by extension, YAML otherwise) over the
// defaults, applies EMISSIONS_* environment overrides and validates.
// An empty path skips the file.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if filepath.Ext(configPath) == ".json" {
			if err := json.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse JSON: %w", err)
			}
		} else {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse YAML: %w", err)
			}
		}
	}

	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup("EMISSIONS_ADDR"); ok {
		cfg.Addr = v
	}
	if v, ok := lookup("EMISSIONS_LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := lookup("EMISSIONS_DATA_FILE"); ok {
		cfg.DataFile = v
	}
	if v, ok := lookup("EMISSIONS_ADMIN_TOKEN"); ok {
		cfg.AdminToken = v
	}
	if v, ok := lookup("EMISSIONS_SEED"); ok {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("EMISSIONS_SEED: %w", err)
		}
		cfg.Seed = &seed
	}
	if v, ok := lookup("EMISSIONS_NOISE"); ok {
		noise, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("EMISSIONS_NOISE: %w", err)
		}
		cfg.Noise = noise
	}
	if v, ok := lookup("EMISSIONS_RATE_LIMIT"); ok {
		rl, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("EMISSIONS_RATE_LIMIT: %w", err)
		}
		cfg.RateLimit = rl
	}
	return nil
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate_limit must be >= 0, got %v", c.RateLimit)
	}
	if c.NoiseLow <= 0 || c.NoiseLow > c.NoiseHigh {
		return fmt.Errorf("noise band [%v, %v] must be positive and ordered", c.NoiseLow, c.NoiseHigh)
	}
	if c.Ensemble.Runs <= 0 {
		return fmt.Errorf("ensemble.runs must be > 0, got %d", c.Ensemble.Runs)
	}
	if c.Ensemble.Workers < 0 {
		return fmt.Errorf("ensemble.workers must be >= 0, got %d", c.Ensemble.Workers)
	}
	return nil
}

// GeneratorOptions maps the noise settings onto engine options.
func (c *Config) GeneratorOptions() []engine.Option {
	opts := []engine.Option{engine.WithNoiseBand(c.NoiseLow, c.NoiseHigh)}
	if !c.Noise {
		opts = append(opts, engine.WithoutNoise())
	}
	if c.Seed != nil {
		opts = append(opts, engine.WithSeed(*c.Seed))
	}
	return opts
}

// ParseLevel maps a level name onto the gommon logger level.
func ParseLevel(s string) (log.Lvl, error) {
	switch strings.ToLower(s) {
	case "debug":
		return log.DEBUG, nil
	case "", "info":
		return log.INFO, nil
	case "warn", "warning":
		return log.WARN, nil
	case "error":
		return log.ERROR, nil
	case "off":
		return log.OFF, nil
	}
	return 0, fmt.Errorf("unknown log_level %q", s)
}
