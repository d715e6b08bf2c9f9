package config

import (
	"fmt"
	"path/filepath"

	"github.com/gobwas/glob"
)

// Validate checks a loaded configuration. It runs after defaults are applied,
// so it also guards values overridden from the environment.
func Validate(cfg *Config) error {
	if err := validateVersion(cfg); err != nil {
		return err
	}
	if err := validateExclude(cfg); err != nil {
		return err
	}
	if err := validateWatch(cfg); err != nil {
		return err
	}
	if err := validateObservability(cfg); err != nil {
		return err
	}
	if err := validateBatch(cfg); err != nil {
		return err
	}
	if err := validateJobs(cfg); err != nil {
		return err
	}
	return nil
}

func validateVersion(cfg *Config) error {
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported config version %d; supported version is 1", cfg.Version)
	}
	return nil
}

func validateExclude(cfg *Config) error {
	for _, pattern := range cfg.Exclude.Libraries {
		if _, err := glob.Compile(pattern); err != nil {
			return fmt.Errorf("exclude.libraries: invalid pattern %q: %w", pattern, err)
		}
	}
	return nil
}

func validateWatch(cfg *Config) error {
	if cfg.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	if cfg.Watch.Rate <= 0 {
		return fmt.Errorf("watch.rate must be greater than 0, got %g", cfg.Watch.Rate)
	}
	if cfg.Watch.Burst < 1 {
		return fmt.Errorf("watch.burst must be at least 1, got %d", cfg.Watch.Burst)
	}
	return nil
}

func validateBatch(cfg *Config) error {
	if cfg.Batch.Concurrency < 1 {
		return fmt.Errorf("batch.concurrency must be at least 1, got %d", cfg.Batch.Concurrency)
	}
	return nil
}

func validateObservability(cfg *Config) error {
	if cfg.Observability.Port < 0 || cfg.Observability.Port > 65535 {
		return fmt.Errorf("observability.port must be between 0 and 65535, got %d", cfg.Observability.Port)
	}
	if cfg.Observability.EnableTracing && cfg.Observability.OTLPEndpoint == "" {
		return fmt.Errorf("observability.otlp_endpoint is required when tracing is enabled")
	}
	return nil
}

func validateJobs(cfg *Config) error {
	names := make(map[string]bool, len(cfg.Jobs))
	outputs := make(map[string]string)
	for i, job := range cfg.Jobs {
		ref := fmt.Sprintf("jobs[%d]", i)
		if job.Library == "" {
			return fmt.Errorf("%s.library must not be empty", ref)
		}
		if job.Tree == "" {
			return fmt.Errorf("%s.tree must not be empty", ref)
		}
		if job.JSON == "" && job.DOT == "" && job.Mermaid == "" && job.TSV == "" {
			return fmt.Errorf("%s must name at least one output file", ref)
		}
		if names[job.Name] {
			return fmt.Errorf("%s.name %q is used by another job", ref, job.Name)
		}
		names[job.Name] = true

		// Jobs run concurrently, so two of them writing one file would race.
		for _, out := range []string{job.JSON, job.DOT, job.Mermaid, job.TSV} {
			if out == "" {
				continue
			}
			key := filepath.Clean(out)
			if owner, taken := outputs[key]; taken {
				return fmt.Errorf("%s writes %q which job %q also writes", ref, out, owner)
			}
			outputs[key] = job.Name
		}
	}
	return nil
}
