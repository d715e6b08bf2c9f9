package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults",
			mutate: func(*Config) {},
		},
		{
			name:    "bad version",
			mutate:  func(c *Config) { c.Version = 3 },
			wantErr: "unsupported config version 3",
		},
		{
			name:    "bad exclude pattern",
			mutate:  func(c *Config) { c.Exclude.Libraries = []string{"[libc"} },
			wantErr: "exclude.libraries",
		},
		{
			name:    "negative debounce",
			mutate:  func(c *Config) { c.Watch.Debounce = -1 },
			wantErr: "watch.debounce",
		},
		{
			name:    "zero watch rate",
			mutate:  func(c *Config) { c.Watch.Rate = 0 },
			wantErr: "watch.rate",
		},
		{
			name:    "zero watch burst",
			mutate:  func(c *Config) { c.Watch.Burst = 0 },
			wantErr: "watch.burst",
		},
		{
			name:    "zero batch concurrency",
			mutate:  func(c *Config) { c.Batch.Concurrency = 0 },
			wantErr: "batch.concurrency",
		},
		{
			name: "tracing without endpoint",
			mutate: func(c *Config) {
				c.Observability.EnableTracing = true
				c.Observability.OTLPEndpoint = ""
			},
			wantErr: "otlp_endpoint",
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Observability.Port = 70000 },
			wantErr: "observability.port",
		},
		{
			name: "job without library",
			mutate: func(c *Config) {
				c.Jobs = []Job{{Name: "a", Tree: "a.json", JSON: "a.out"}}
			},
			wantErr: "jobs[0].library",
		},
		{
			name: "job without tree",
			mutate: func(c *Config) {
				c.Jobs = []Job{{Name: "a", Library: "liba.so", JSON: "a.out"}}
			},
			wantErr: "jobs[0].tree",
		},
		{
			name: "job without outputs",
			mutate: func(c *Config) {
				c.Jobs = []Job{{Name: "a", Library: "liba.so", Tree: "a.json"}}
			},
			wantErr: "at least one output",
		},
		{
			name: "duplicate job name",
			mutate: func(c *Config) {
				c.Jobs = []Job{
					{Name: "a", Library: "liba.so", Tree: "a.json", JSON: "a.out"},
					{Name: "a", Library: "libb.so", Tree: "b.json", JSON: "b.out"},
				}
			},
			wantErr: "used by another job",
		},
		{
			name: "shared output file",
			mutate: func(c *Config) {
				c.Jobs = []Job{
					{Name: "a", Library: "liba.so", Tree: "a.json", DOT: "out/graph.dot"},
					{Name: "b", Library: "libb.so", Tree: "b.json", DOT: "out/../out/graph.dot"},
				}
			},
			wantErr: "also writes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestValidateRejectsZeroedEnvOverrides(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		wantErr string
	}{
		{"LDDTOPO_BATCH_CONCURRENCY", "0", "batch.concurrency"},
		{"LDDTOPO_WATCH_BURST", "0", "watch.burst"},
		{"LDDTOPO_WATCH_RATE", "0", "watch.rate"},
		{"LDDTOPO_WATCH_RATE", "-1.5", "watch.rate"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			cfg := Default()
			ApplyEnvOverrides(cfg)
			assert.ErrorContains(t, Validate(cfg), tt.wantErr)
		})
	}
}

func TestEnvTracingGetsDefaultEndpoint(t *testing.T) {
	t.Setenv("LDDTOPO_OBSERVABILITY_ENABLE_TRACING", "true")
	cfg := Default()
	ApplyEnvOverrides(cfg)

	assert.Equal(t, "localhost:4317", cfg.Observability.OTLPEndpoint)
	assert.NoError(t, Validate(cfg))
}
