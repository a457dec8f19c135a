package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Settings holds process configuration for the CLI and embedding callers.
// Values come from an optional YAML file with environment-variable
// overrides; flags resolved by the caller take precedence over both.
type Settings struct {
	DataDir    string        `yaml:"data_dir" env:"ICHRAGO_DATA_DIR" env-default:"./data"`
	PolicyFile string        `yaml:"policy_file" env:"ICHRAGO_POLICY_FILE" env-default:""`
	Workers    int           `yaml:"workers" env:"ICHRAGO_WORKERS" env-default:"8"`
	Timeout    time.Duration `yaml:"timeout" env:"ICHRAGO_TIMEOUT" env-default:"30s"`
	Format     string        `yaml:"format" env:"ICHRAGO_FORMAT" env-default:"table"`
	LogLevel   string        `yaml:"log_level" env:"ICHRAGO_LOG_LEVEL" env-default:"info"`
}

// LoadSettings reads settings from the given YAML file with environment
// overrides. An empty path reads from the environment alone.
func LoadSettings(path string) (*Settings, error) {
	cfg := &Settings{}

	if path == "" {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	} else {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read settings %s: %w", path, err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return cfg, nil
}

func (s *Settings) validate() error {
	if s.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", s.Workers)
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", s.Timeout)
	}
	return nil
}
