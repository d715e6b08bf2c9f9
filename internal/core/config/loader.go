package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	normalize(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault is Load, except that a missing file at DefaultPath yields
// Default(). A missing file at any other path is still an error.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if err == nil {
		return cfg, nil
	}
	if errors.Is(err, os.ErrNotExist) && filepath.Clean(path) == filepath.Clean(DefaultPath) {
		return Default(), nil
	}
	return nil, err
}

const defaultOTLPEndpoint = "localhost:4317"

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}
	if strings.TrimSpace(cfg.History.Path) == "" {
		cfg.History.Path = "data/history.db"
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if cfg.Watch.Rate <= 0 {
		cfg.Watch.Rate = 1
	}
	if cfg.Watch.Burst <= 0 {
		cfg.Watch.Burst = 1
	}
	if cfg.Batch.Concurrency <= 0 {
		cfg.Batch.Concurrency = 4
	}
	if cfg.Observability.EnableTracing && strings.TrimSpace(cfg.Observability.OTLPEndpoint) == "" {
		cfg.Observability.OTLPEndpoint = defaultOTLPEndpoint
	}
}

func normalize(cfg *Config) {
	cfg.Input.Library = strings.TrimSpace(cfg.Input.Library)
	cfg.Input.Tree = strings.TrimSpace(cfg.Input.Tree)
	cfg.Output.JSON = strings.TrimSpace(cfg.Output.JSON)
	cfg.Output.DOT = strings.TrimSpace(cfg.Output.DOT)
	cfg.Output.Mermaid = strings.TrimSpace(cfg.Output.Mermaid)
	cfg.Output.TSV = strings.TrimSpace(cfg.Output.TSV)
	cfg.History.Path = strings.TrimSpace(cfg.History.Path)
	cfg.Observability.OTLPEndpoint = strings.TrimSpace(cfg.Observability.OTLPEndpoint)

	patterns := make([]string, 0, len(cfg.Exclude.Libraries))
	for _, p := range cfg.Exclude.Libraries {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		patterns = append(patterns, p)
	}
	cfg.Exclude.Libraries = patterns

	for i := range cfg.Jobs {
		job := &cfg.Jobs[i]
		job.Library = strings.TrimSpace(job.Library)
		job.Tree = strings.TrimSpace(job.Tree)
		job.Name = strings.TrimSpace(job.Name)
		if job.Name == "" {
			job.Name = filepath.Base(job.Library)
		}
	}
}
