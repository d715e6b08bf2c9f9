package loadorder

import (
	"context"
	"errors"
	"fmt"
	"lddtopo/internal/data/tree"
	"lddtopo/internal/engine/graph"
	"lddtopo/internal/engine/intern"
	"lddtopo/internal/shared/observability"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Stats summarizes one analysis for logs, history and metrics.
type Stats struct {
	Vertices   int
	Edges      int
	Dangling   int
	Unresolved int
	Duration   time.Duration
}

// Analyze runs builder, sorter and assembler over one tree. All working
// state is local to the call, so concurrent calls never interact.
func Analyze(ctx context.Context, main tree.Main, deps *tree.DependencyTree) (*TopoSortResult, Stats, error) {
	ctx, span := observability.Tracer.Start(ctx, "loadorder.Analyze", trace.WithAttributes(
		attribute.String("library.name", main.Name),
		attribute.String("library.path", main.Path),
	))
	defer span.End()

	var stats Stats
	if deps == nil {
		return nil, stats, fmt.Errorf("dependency tree is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, stats, err
	}
	start := time.Now()

	in := intern.New()
	done := beginStage(ctx, "build")
	g, buildStats, err := graph.Build(in, main.Name, deps.MainNeeded, deps.Libraries)
	done()
	if err != nil {
		observability.RunsTotal.WithLabelValues(observability.OutcomeError).Inc()
		span.RecordError(err)
		return nil, stats, fmt.Errorf("build dependency graph: %w", err)
	}
	stats.Vertices = g.NodeCount()
	stats.Edges = g.EdgeCount()
	stats.Dangling = buildStats.Dangling
	stats.Unresolved = buildStats.Unresolved
	observability.GraphVertices.Set(float64(stats.Vertices))
	observability.GraphEdges.Set(float64(stats.Edges))
	observability.DanglingReferencesTotal.Add(float64(stats.Dangling))

	done = beginStage(ctx, "sort")
	order, sortErr := graph.Sort(g, in)
	done()

	done = beginStage(ctx, "assemble")
	result, err := Assemble(g, in, order, sortErr, main, deps.Libraries)
	done()

	stats.Duration = time.Since(start)
	if err != nil {
		outcome := observability.OutcomeError
		if errors.Is(err, graph.ErrCycle) {
			outcome = observability.OutcomeCycle
		}
		observability.RunsTotal.WithLabelValues(outcome).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		return nil, stats, err
	}

	observability.RunsTotal.WithLabelValues(observability.OutcomeSorted).Inc()
	slog.Debug("load order computed",
		"library", main.Name,
		"vertices", stats.Vertices,
		"edges", stats.Edges,
		"dangling", stats.Dangling,
		"duration", stats.Duration,
	)
	return result, stats, nil
}

func beginStage(ctx context.Context, name string) func() {
	_, span := observability.Tracer.Start(ctx, "loadorder."+name)
	start := time.Now()
	return func() {
		observability.AnalysisDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
		span.End()
	}
}
