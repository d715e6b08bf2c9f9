package main

import (
	"context"
	"flag"
	"fmt"
	"lddtopo/internal/core/config"
	"lddtopo/internal/shared/observability"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
)

var (
	configPath        = flag.String("config", config.DefaultPath, "Path to config file")
	sharedLibraryPath = flag.String("shared-library-path", "", "Path of the shared library to order")
	treePath          = flag.String("tree", "", "Pre-extracted dependency tree (JSON or YAML)")
	outputFile        = flag.String("output-file", "", "Write the load plan as JSON")
	dotFile           = flag.String("dot-file", "", "Write the dependency graph as DOT")
	mermaidFile       = flag.String("mermaid-file", "", "Write the dependency graph as a Mermaid flowchart")
	tsvFile           = flag.String("tsv-file", "", "Write the load plan as TSV")
	watch             = flag.Bool("watch", false, "Re-run whenever a tree document changes")
	showHistory       = flag.Bool("history", false, "Print recorded runs of the library and exit")
	historyWindow     = flag.Duration("history-window", 0, "Only print runs newer than this (0 = all)")
	historyFormat     = flag.String("history-format", "tsv", "Output format for -history: tsv or json")
	verbose           = flag.Bool("verbose", false, "Enable verbose logging")
	version           = flag.Bool("version", false, "Print version and exit")
)

const VERSION = "1.0.0"

func main() {
	os.Exit(run())
}

func run() int {
	flag.Parse()

	if *version {
		fmt.Printf("lddtopo v%s\n", VERSION)
		return 0
	}

	// Setup logging
	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Load config
	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		slog.Error("failed to load config", "path", *configPath, "error", err)
		return 1
	}
	config.ApplyEnvOverrides(cfg)
	applyFlags(cfg)
	if err := config.Validate(cfg); err != nil {
		slog.Error("invalid configuration", "error", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	endpoint := ""
	if cfg.Observability.EnableTracing {
		endpoint = cfg.Observability.OTLPEndpoint
	}
	shutdownTracing, err := observability.InitTracing(ctx, endpoint, VERSION)
	if err != nil {
		slog.Error("failed to initialize tracing", "error", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			slog.Warn("failed to flush traces", "error", err)
		}
	}()

	app, err := NewApp(cfg, os.Stdout)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		return 1
	}
	defer app.Close()

	jobs, err := app.Jobs()
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		fmt.Fprintln(os.Stderr, "usage: lddtopo -shared-library-path <lib> -tree <tree.json> -output-file <order.json>")
		return 2
	}

	if *showHistory {
		if err := app.PrintHistory(jobs, *historyWindow, *historyFormat); err != nil {
			slog.Error("failed to read history", "error", err)
			return 1
		}
		return 0
	}

	if *watch {
		if err := app.Watch(ctx, jobs); err != nil {
			slog.Error("watch mode failed", "error", err)
			return 1
		}
		return 0
	}

	if err := app.RunBatch(ctx, jobs); err != nil {
		slog.Error("analysis failed", "error", err)
		return 1
	}
	return 0
}

// applyFlags lets command line values win over the config file and the
// environment. Only flags that were set are applied.
func applyFlags(cfg *config.Config) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "shared-library-path":
			cfg.Input.Library = *sharedLibraryPath
		case "tree":
			cfg.Input.Tree = *treePath
		case "output-file":
			cfg.Output.JSON = *outputFile
		case "dot-file":
			cfg.Output.DOT = *dotFile
		case "mermaid-file":
			cfg.Output.Mermaid = *mermaidFile
		case "tsv-file":
			cfg.Output.TSV = *tsvFile
		}
	})
}
