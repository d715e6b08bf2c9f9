package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"lddtopo/internal/core/config"
	domainerr "lddtopo/internal/core/errors"
	"lddtopo/internal/data/history"
	"lddtopo/internal/data/tree"
	"lddtopo/internal/engine/graph"
	"lddtopo/internal/engine/loadorder"
	"lddtopo/internal/output"
	"lddtopo/internal/shared/observability"
	"lddtopo/internal/shared/util"
	"lddtopo/internal/ui/report"
	"lddtopo/internal/watcher"

	"golang.org/x/sync/errgroup"
)

// Job is one library to order and where its outputs go.
type Job struct {
	Name    string
	Library string
	Tree    string
	Targets output.Targets
}

type App struct {
	Config  *config.Config
	History *history.Store

	out   io.Writer
	outMu sync.Mutex
}

func NewApp(cfg *config.Config, out io.Writer) (*App, error) {
	a := &App{Config: cfg, out: out}
	if cfg.History.Enabled {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return nil, domainerr.AddContext(
				domainerr.Wrap(err, domainerr.CodeIO, "open run history"),
				domainerr.CtxPath, cfg.History.Path,
			)
		}
		a.History = store
	}
	return a, nil
}

func (a *App) Close() error {
	return a.History.Close()
}

// Jobs returns the configured batch jobs, or the single job described by the
// input and output sections when no batch is configured.
func (a *App) Jobs() ([]Job, error) {
	if len(a.Config.Jobs) > 0 {
		jobs := make([]Job, 0, len(a.Config.Jobs))
		for _, j := range a.Config.Jobs {
			jobs = append(jobs, Job{
				Name:    j.Name,
				Library: j.Library,
				Tree:    j.Tree,
				Targets: output.Targets{JSON: j.JSON, DOT: j.DOT, Mermaid: j.Mermaid, TSV: j.TSV},
			})
		}
		return jobs, nil
	}

	in := a.Config.Input
	if in.Library == "" || in.Tree == "" {
		return nil, domainerr.New(domainerr.CodeValidationError, "a shared library path and a dependency tree are required")
	}
	out := a.Config.Output
	return []Job{{
		Name:    filepath.Base(in.Library),
		Library: in.Library,
		Tree:    in.Tree,
		Targets: output.Targets{JSON: out.JSON, DOT: out.DOT, Mermaid: out.Mermaid, TSV: out.TSV},
	}}, nil
}

// RunBatch runs every job as an independent analysis. A failing job does not
// stop the others; the returned error joins all failures.
func (a *App) RunBatch(ctx context.Context, jobs []Job) error {
	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	g.SetLimit(a.Config.Batch.Concurrency)

	for _, job := range jobs {
		g.Go(func() error {
			if err := a.RunOnce(ctx, job); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	a.writeMetrics()
	return errors.Join(errs...)
}

// RunOnce loads, filters and orders one tree, then writes the requested
// outputs. On a cycle nothing is written.
func (a *App) RunOnce(ctx context.Context, job Job) error {
	target := tree.MainIdentity(job.Library)
	err := a.runOnce(ctx, job, target)
	if err != nil {
		err = domainerr.AddContext(err, domainerr.CtxJob, job.Name)
		slog.Error("job failed",
			"job", job.Name,
			"library", target.Name,
			"code", domainerr.CodeOf(err),
			"error", err,
		)
	}
	return err
}

func (a *App) runOnce(ctx context.Context, job Job, target tree.Main) error {
	if a.Config.LibraryRequired() {
		if _, err := os.Stat(job.Library); err != nil {
			code := domainerr.CodeIO
			if errors.Is(err, os.ErrNotExist) {
				code = domainerr.CodeNotFound
			}
			return domainerr.AddContext(
				domainerr.Wrap(err, code, "shared library is not accessible"),
				domainerr.CtxPath, job.Library,
			)
		}
	}

	deps, err := tree.Load(job.Tree)
	if err != nil {
		code := domainerr.CodeValidationError
		if errors.Is(err, os.ErrNotExist) {
			code = domainerr.CodeNotFound
		}
		return domainerr.AddContext(
			domainerr.Wrap(err, code, "load dependency tree"),
			domainerr.CtxPath, job.Tree,
		)
	}

	deps, dropped, err := tree.Filter(deps, a.Config.Exclude.Libraries)
	if err != nil {
		return domainerr.Wrap(err, domainerr.CodeValidationError, "apply exclude patterns")
	}
	if len(dropped) > 0 {
		slog.Info("excluded libraries", "library", target.Name, "count", len(dropped), "names", dropped)
	}

	result, stats, err := loadorder.Analyze(ctx, target, deps)
	if err != nil {
		var cerr *graph.CycleError
		if errors.As(err, &cerr) {
			a.record(job, target, nil, stats, cerr)
			a.printSummary(report.Report{Library: target.Name, Stats: stats, Err: err})
			return domainerr.AddContext(
				domainerr.Wrap(err, domainerr.CodeCycle, "no valid load order"),
				domainerr.CtxNode, cerr.Name,
			)
		}
		if ctx.Err() != nil {
			return err
		}
		return domainerr.AddContext(
			domainerr.Wrap(err, domainerr.CodeInternal, "analyze dependency tree"),
			domainerr.CtxLibrary, target.Name,
		)
	}

	written, err := output.Write(result, job.Targets)
	if err != nil {
		return domainerr.AddContext(
			domainerr.Wrap(err, domainerr.CodeIO, "write outputs"),
			domainerr.CtxOperation, "write",
		)
	}

	diff := a.record(job, target, result, stats, nil)
	slog.Info("analysis complete",
		"library", target.Name,
		"vertices", stats.Vertices,
		"edges", stats.Edges,
		"dangling", stats.Dangling,
		"duration", stats.Duration,
	)
	a.printSummary(report.Report{
		Library: target.Name,
		Result:  result,
		Stats:   stats,
		Diff:    diff,
		Written: written,
	})
	return nil
}

// record stores the run in the history and returns how the load plan changed
// since the previous sorted run. History failures are logged, not returned.
func (a *App) record(job Job, target tree.Main, result *loadorder.TopoSortResult, stats loadorder.Stats, cerr *graph.CycleError) *history.OrderDiff {
	if a.History == nil {
		return nil
	}

	run := history.Run{
		Library:     target.Name,
		LibraryPath: target.Path,
		TreePath:    job.Tree,
		Status:      history.StatusSorted,
		Vertices:    stats.Vertices,
		Edges:       stats.Edges,
		Dangling:    stats.Dangling,
		Duration:    stats.Duration,
	}
	if cerr != nil {
		run.Status = history.StatusCycle
		run.CycleNode = cerr.Name
	}
	if result != nil {
		run.Order = make([]history.OrderEntry, 0, len(result.TopoSortedLibs))
		for i, lib := range result.TopoSortedLibs {
			run.Order = append(run.Order, history.OrderEntry{Position: i + 1, Name: lib.Name, Path: lib.PathOf()})
		}
	}

	prev, err := a.History.Latest(target.Name)
	if err != nil {
		slog.Warn("failed to load previous run", "library", target.Name, "error", err)
	}
	id, err := a.History.SaveRun(run)
	if err != nil {
		slog.Warn("failed to record run", "library", target.Name, "error", err)
		return nil
	}
	slog.Debug("run recorded", "library", target.Name, "run_id", id)

	if prev == nil || result == nil {
		return nil
	}
	diff := history.Diff(prev.Order, run.Order)
	return &diff
}

func (a *App) printSummary(r report.Report) {
	if !a.Config.SummaryEnabled() || a.out == nil {
		return
	}
	a.outMu.Lock()
	defer a.outMu.Unlock()
	fmt.Fprintln(a.out, report.Render(r))
}

func (a *App) writeMetrics() {
	path := a.Config.Observability.MetricsTextfile
	if path == "" {
		return
	}
	if err := observability.WriteTextfile(path); err != nil {
		slog.Warn("failed to write metrics textfile", "path", path, "error", err)
	}
}

// PrintHistory writes the recorded runs of every job's library, oldest first,
// as "tsv" or "json".
func (a *App) PrintHistory(jobs []Job, window time.Duration, format string) error {
	if format != "tsv" && format != "json" {
		return domainerr.AddContext(
			domainerr.New(domainerr.CodeValidationError, "unknown history format"),
			domainerr.CtxOperation, format,
		)
	}
	if a.History == nil {
		return domainerr.New(domainerr.CodeNotSupported, "run history is disabled; set history.enabled = true")
	}
	var since time.Time
	if window > 0 {
		since = time.Now().Add(-window)
	}

	var runs []history.Run
	seen := make(map[string]bool)
	for _, job := range jobs {
		name := tree.MainIdentity(job.Library).Name
		if seen[name] {
			continue
		}
		seen[name] = true
		libRuns, err := a.History.LoadRuns(name, since)
		if err != nil {
			return domainerr.AddContext(
				domainerr.Wrap(err, domainerr.CodeIO, "load run history"),
				domainerr.CtxLibrary, name,
			)
		}
		runs = append(runs, libRuns...)
	}

	var data []byte
	switch format {
	case "json":
		encoded, err := report.RenderTrendJSON(runs)
		if err != nil {
			return domainerr.Wrap(err, domainerr.CodeInternal, "encode run history")
		}
		data = append(encoded, '\n')
	default:
		data = report.RenderTrendTSV(runs)
	}

	a.outMu.Lock()
	defer a.outMu.Unlock()
	_, err := a.out.Write(data)
	return err
}

// Watch runs every job once and then again whenever its tree document
// changes, until ctx is cancelled. Re-runs of one tree are rate limited.
func (a *App) Watch(ctx context.Context, jobs []Job) error {
	if port := a.Config.Observability.Port; port > 0 {
		srv := observability.NewServer(fmt.Sprintf(":%d", port))
		if err := srv.Start(ctx); err != nil {
			return err
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Stop(stopCtx)
		}()
	}

	if err := a.RunBatch(ctx, jobs); err != nil {
		slog.Warn("initial analysis failed", "error", err)
	}

	byTree := make(map[string][]Job)
	trees := make([]string, 0, len(jobs))
	for _, job := range jobs {
		abs, err := filepath.Abs(job.Tree)
		if err != nil {
			return err
		}
		if _, ok := byTree[abs]; !ok {
			trees = append(trees, abs)
		}
		byTree[abs] = append(byTree[abs], job)
	}

	limiters := util.NewLimiterRegistry(a.Config.Watch.Rate, a.Config.Watch.Burst, time.Hour)
	go limiters.Run(ctx)
	w, err := watcher.NewWatcher(a.Config.Watch.Debounce, trees, []string{".*", "*~", "*.swp", "*.tmp"}, func(paths []string) {
		a.handleChanges(ctx, paths, byTree, limiters)
	})
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Start(); err != nil {
		return err
	}

	slog.Info("watching dependency trees", "count", len(trees))
	<-ctx.Done()
	slog.Info("watch stopped")
	return nil
}

func (a *App) handleChanges(ctx context.Context, paths []string, byTree map[string][]Job, limiters *util.LimiterRegistry) {
	var due []Job
	for _, path := range paths {
		jobs := byTree[filepath.Clean(path)]
		if len(jobs) == 0 {
			continue
		}
		limiter := limiters.Get(path)
		if !limiter.Allow(1) {
			slog.Warn("skipping re-run, tree changes too often", "path", path, "retry_in", limiter.Available())
			continue
		}
		slog.Info("dependency tree changed", "path", path)
		due = append(due, jobs...)
	}
	if len(due) == 0 || ctx.Err() != nil {
		return
	}
	if err := a.RunBatch(ctx, due); err != nil {
		slog.Warn("re-run failed", "error", err)
	}
}
