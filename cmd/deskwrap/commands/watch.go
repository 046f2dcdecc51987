package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"git.home.luguber.info/inful/deskwrap/internal/config"
	"git.home.luguber.info/inful/deskwrap/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Interval    time.Duration `help:"Also rebuild on a fixed interval, e.g. 5m (0 disables)"`
	Verify      bool          `help:"Verify rewritten references after every build"`
	SkipInstall bool          `name:"skip-install" help:"Never run the package manager install step"`
	MetricsAddr string        `name:"metrics-addr" placeholder:"ADDR" help:"Serve Prometheus metrics on this address (requires a -tags prometheus build)"`
}

// watchCacheSize bounds the transform cache that keeps unchanged documents
// from being re-rewritten across consecutive builds.
const watchCacheSize = 256

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	if w.MetricsAddr != "" {
		serveMetrics(ctx, w.MetricsAddr)
	}

	opts := pipelineOptions{
		verify:      w.Verify,
		skipInstall: w.SkipInstall,
		cacheSize:   watchCacheSize,
	}

	// The pipeline is swapped on config reload; mu serializes rebuilds
	// against the swap so a build never runs on a half-closed pipeline.
	var (
		mu       sync.Mutex
		snapshot = cfg.Snapshot()
	)
	p, err := newPipeline(root.Dir, cfg, opts)
	if err != nil {
		return err
	}
	defer func() {
		mu.Lock()
		defer mu.Unlock()
		p.Close()
	}()

	if p.store != nil {
		if records, err := p.store.Recent(ctx, 1); err == nil && len(records) > 0 {
			last := records[0]
			slog.Info("Last recorded build",
				slog.String("build_id", last.BuildID),
				slog.String("finished", last.End.Format(time.RFC3339)),
				slog.String("outcome", last.Outcome))
		}
	}

	run := func(ctx context.Context, _ string) error {
		mu.Lock()
		defer mu.Unlock()
		report, err := p.Run(ctx)
		if report != nil {
			fmt.Println(report.Summary())
		}
		return err
	}

	// A broken first build must not keep the watcher from starting; the next
	// source change retries it.
	if err := run(ctx, "startup"); err != nil {
		slog.Error("Initial build failed", slog.Any("error", err))
	}

	watcher, err := watch.New(watch.Config{
		Dir:      root.Dir,
		Paths:    cfg.Watch.Paths,
		Ignore:   []string{cfg.Build.Output},
		Debounce: cfg.Watch.DebounceDuration(),
		Interval: w.Interval,
	}, run)
	if err != nil {
		return err
	}
	if err := watcher.Start(ctx); err != nil {
		return err
	}
	defer watcher.Stop()

	cw, err := watch.NewConfigWatcher(root.configPath(), func() {
		fresh, err := config.LoadOrDefault(root.configPath())
		if err != nil {
			slog.Warn("Config reload failed, keeping previous configuration",
				slog.Any("error", err))
			return
		}
		mu.Lock()
		defer mu.Unlock()
		if fresh.Snapshot() == snapshot {
			return
		}
		np, err := newPipeline(root.Dir, fresh, opts)
		if err != nil {
			slog.Error("Config reload failed, keeping previous pipeline",
				slog.Any("error", err))
			return
		}
		p.Close()
		p = np
		snapshot = fresh.Snapshot()
		slog.Info("Configuration reloaded")
		watcher.Trigger("configuration changed")
	})
	if err != nil {
		return err
	}
	if err := cw.Start(ctx); err != nil {
		return err
	}
	defer cw.Stop()

	<-ctx.Done()
	slog.Info("Shutting down watch mode")
	return nil
}
