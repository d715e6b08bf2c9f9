package config

import (
	"time"
)

const DefaultPath = "./lddtopo.toml"

type Config struct {
	Version       int           `toml:"version"`
	Input         Input         `toml:"input"`
	Exclude       Exclude       `toml:"exclude"`
	Output        Output        `toml:"output"`
	History       History       `toml:"history"`
	Watch         Watch         `toml:"watch"`
	Observability Observability `toml:"observability"`
	Batch         Batch         `toml:"batch"`
	Jobs          []Job         `toml:"jobs"`
}

type Input struct {
	Library string `toml:"library"` // path of the shared library under analysis
	Tree    string `toml:"tree"`    // pre-extracted dependency tree document
	// RequireLibrary makes a missing library file a hard error.
	RequireLibrary *bool `toml:"require_library"`
}

type Exclude struct {
	Libraries []string `toml:"libraries"` // glob patterns matched against library names
}

type Output struct {
	JSON    string `toml:"json"`
	DOT     string `toml:"dot"`
	Mermaid string `toml:"mermaid"`
	TSV     string `toml:"tsv"`
	Summary *bool  `toml:"summary"`
}

type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
	Rate     float64       `toml:"rate"`  // re-runs per second
	Burst    int           `toml:"burst"` // re-runs allowed back to back
}

type Observability struct {
	Port            int    `toml:"port"`
	MetricsTextfile string `toml:"metrics_textfile"`
	EnableTracing   bool   `toml:"enable_tracing"`
	OTLPEndpoint    string `toml:"otlp_endpoint"`
}

type Batch struct {
	Concurrency int `toml:"concurrency"`
}

// Job is one independent analysis in batch mode.
type Job struct {
	Name    string `toml:"name"`
	Library string `toml:"library"`
	Tree    string `toml:"tree"`
	JSON    string `toml:"json"`
	DOT     string `toml:"dot"`
	Mermaid string `toml:"mermaid"`
	TSV     string `toml:"tsv"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func (c *Config) SummaryEnabled() bool {
	return c.Output.Summary == nil || *c.Output.Summary
}

func (c *Config) LibraryRequired() bool {
	return c.Input.RequireLibrary == nil || *c.Input.RequireLibrary
}
