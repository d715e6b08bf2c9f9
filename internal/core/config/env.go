package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Pattern: LDDTOPO_[SECTION]_[KEY] (e.g., LDDTOPO_OBSERVABILITY_PORT).
func ApplyEnvOverrides(cfg *Config) {
	// Input
	setEnvString(&cfg.Input.Library, "LDDTOPO_INPUT_LIBRARY")
	setEnvString(&cfg.Input.Tree, "LDDTOPO_INPUT_TREE")

	// Output
	setEnvString(&cfg.Output.JSON, "LDDTOPO_OUTPUT_JSON")
	setEnvString(&cfg.Output.DOT, "LDDTOPO_OUTPUT_DOT")
	setEnvString(&cfg.Output.Mermaid, "LDDTOPO_OUTPUT_MERMAID")
	setEnvString(&cfg.Output.TSV, "LDDTOPO_OUTPUT_TSV")

	// History
	setEnvBool(&cfg.History.Enabled, "LDDTOPO_HISTORY_ENABLED")
	setEnvString(&cfg.History.Path, "LDDTOPO_HISTORY_PATH")

	// Watch
	setEnvDuration(&cfg.Watch.Debounce, "LDDTOPO_WATCH_DEBOUNCE")
	setEnvFloat64(&cfg.Watch.Rate, "LDDTOPO_WATCH_RATE")
	setEnvInt(&cfg.Watch.Burst, "LDDTOPO_WATCH_BURST")

	// Batch
	setEnvInt(&cfg.Batch.Concurrency, "LDDTOPO_BATCH_CONCURRENCY")

	// Observability
	setEnvInt(&cfg.Observability.Port, "LDDTOPO_OBSERVABILITY_PORT")
	setEnvString(&cfg.Observability.MetricsTextfile, "LDDTOPO_OBSERVABILITY_METRICS_TEXTFILE")
	setEnvBool(&cfg.Observability.EnableTracing, "LDDTOPO_OBSERVABILITY_ENABLE_TRACING")
	setEnvString(&cfg.Observability.OTLPEndpoint, "LDDTOPO_OBSERVABILITY_OTLP_ENDPOINT")

	// Tracing switched on from the environment gets the same endpoint default
	// as tracing switched on in the file.
	if cfg.Observability.EnableTracing && strings.TrimSpace(cfg.Observability.OTLPEndpoint) == "" {
		cfg.Observability.OTLPEndpoint = defaultOTLPEndpoint
	}
}

func setEnvString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		*target = val
	}
}

func setEnvInt(target *int, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = i
		}
	}
}

func setEnvBool(target *bool, key string) {
	if val, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(strings.ToLower(val))
		if err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = b
		}
	}
}

func setEnvFloat64(target *float64, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = f
		}
	}
}

func setEnvDuration(target *time.Duration, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = d
		}
	}
}
