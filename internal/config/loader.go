package config

import (
	"errors"
	"fmt"
	"os"

	"itest/pkg/logging"

	"gopkg.in/yaml.v3"
)

const loaderSubsystem = "ConfigLoader"

// HarnessConfig holds the optional, user-overridable harness defaults.
type HarnessConfig struct {
	// Workers is the worker pool size for the SetUp phase. Zero means use
	// DefaultWorkers.
	Workers int `yaml:"workers,omitempty"`
	// LogDir is a log directory override, loaded and reported by itestctl
	// graph. Context log paths do not read it; they always use
	// <workspace>/target/itest/logs.
	LogDir string `yaml:"logDir,omitempty"`
}

// DefaultWorkers is the worker pool size used when no config overrides it,
// matching the harness's documented default.
const DefaultWorkers = 3

// DefaultConfig returns the harness defaults used when no config file is
// present.
func DefaultConfig() HarnessConfig {
	return HarnessConfig{Workers: DefaultWorkers}
}

// Load reads a HarnessConfig from the YAML file at path. A missing file is
// not an error: it yields DefaultConfig with any zero fields filled in by
// the caller. Any other read or parse error is returned.
func Load(path string) (HarnessConfig, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Info(loaderSubsystem, "no config file at %s, using defaults", path)
			return cfg, nil
		}
		logging.Error(loaderSubsystem, err, "failed to read config from %s", path)
		return HarnessConfig{}, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return HarnessConfig{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.Workers == 0 {
		cfg.Workers = DefaultWorkers
	}
	logging.Info(loaderSubsystem, "loaded configuration from %s", path)
	return cfg, nil
}
