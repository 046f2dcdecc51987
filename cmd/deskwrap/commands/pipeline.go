package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/deskwrap/internal/config"
	derrors "git.home.luguber.info/inful/deskwrap/internal/errors"
	"git.home.luguber.info/inful/deskwrap/internal/eventstore"
	"git.home.luguber.info/inful/deskwrap/internal/logfields"
	"git.home.luguber.info/inful/deskwrap/internal/manifest"
	"git.home.luguber.info/inful/deskwrap/internal/metrics"
	"git.home.luguber.info/inful/deskwrap/internal/pkgmgr"
	"git.home.luguber.info/inful/deskwrap/internal/rewrite"
	"git.home.luguber.info/inful/deskwrap/internal/verify"
)

// pipelineOptions tune one pipeline instance.
type pipelineOptions struct {
	verify      bool
	skipInstall bool
	concurrency int
	// cacheSize enables the transform memo for long-lived pipelines
	// (watch mode). One-shot builds leave it zero.
	cacheSize int
}

// pipeline runs the full build flow: dependency install when needed,
// framework build, route resolution, reference transform, optional
// verification, and build-history recording. A pipeline is built once and
// can run many times; watch mode reuses it so the transform cache pays off.
type pipeline struct {
	dir       string
	cfg       *config.Config
	manager   pkgmgr.Manager
	engine    *rewrite.Engine
	verifier  *verify.Verifier
	store     *eventstore.Store
	publisher verify.Publisher
	recorder  metrics.Recorder

	buildArgv   []string
	outputRoot  string
	skipInstall bool
}

func newPipeline(dir string, cfg *config.Config, opts pipelineOptions) (*pipeline, error) {
	manager, err := resolveManager(dir, cfg)
	if err != nil {
		return nil, err
	}

	concurrency := opts.concurrency
	if concurrency <= 0 {
		concurrency = cfg.Build.Concurrency
	}

	recorder := resolveRecorder()
	outputRoot := filepath.Join(dir, cfg.Build.Output)
	p := &pipeline{
		dir:     dir,
		cfg:     cfg,
		manager: manager,
		engine: rewrite.New(rewrite.Config{
			OutputRoot:  outputRoot,
			AssetDir:    cfg.Build.AssetDir,
			HashRoutes:  cfg.Build.HashRouting,
			Concurrency: concurrency,
			CacheSize:   opts.cacheSize,
			Recorder:    recorder,
		}),
		recorder:    recorder,
		buildArgv:   buildArgv(cfg, manager),
		outputRoot:  outputRoot,
		skipInstall: opts.skipInstall,
	}

	if opts.verify {
		if cfg.Events.NATSURL != "" {
			publisher, err := verify.NewNATSPublisher(cfg.Events.NATSURL, cfg.Events.Subject)
			if err != nil {
				return nil, derrors.WatchFailed("connect event broker", err)
			}
			p.publisher = publisher
		}
		p.verifier = verify.New(outputRoot, p.publisher)
	}
	if cfg.Events.Store != "" {
		storePath := cfg.Events.Store
		if !filepath.IsAbs(storePath) {
			storePath = filepath.Join(dir, storePath)
		}
		store, err := eventstore.Open(storePath)
		if err != nil {
			p.Close()
			return nil, err
		}
		p.store = store
	}
	return p, nil
}

// Close releases the event store and broker connection.
func (p *pipeline) Close() error {
	var first error
	if p.store != nil {
		if err := p.store.Close(); err != nil {
			first = err
		}
	}
	if p.publisher != nil {
		if err := p.publisher.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Run executes one full pass and returns the transform report. The report is
// recorded in the event store even when the transform failed, so history
// shows broken builds too.
func (p *pipeline) Run(ctx context.Context) (*rewrite.Report, error) {
	start := time.Now()
	report, err := p.run(ctx)
	p.recorder.ObserveBuildDuration(time.Since(start))
	p.recorder.IncBuildOutcome(buildOutcome(report, err))
	return report, err
}

func (p *pipeline) run(ctx context.Context) (*rewrite.Report, error) {
	if err := p.installIfNeeded(ctx); err != nil {
		return nil, err
	}

	slog.Info("Running framework build",
		logfields.Manager(p.manager.Name),
		slog.String("command", strings.Join(p.buildArgv, " ")))
	if err := pkgmgr.Run(ctx, p.dir, p.buildArgv, nil, nil); err != nil {
		return nil, derrors.BuildFailed("framework build", err)
	}

	routes, err := manifest.Resolve(p.outputRoot)
	if err != nil {
		return nil, derrors.ManifestError(p.outputRoot, err)
	}
	slog.Info("Routes resolved",
		slog.String("source", routes.Source),
		logfields.Count(routes.DocumentCount()))

	report, terr := p.engine.ProcessRoutes(ctx, routes.Routes)
	p.record(ctx, report)
	if terr != nil {
		return report, terr
	}

	if p.verifier != nil {
		vreport, err := p.verifier.VerifyRoutes(ctx, routes.Routes, report.BuildID)
		if err != nil {
			return report, derrors.Wrap(err, derrors.CategoryVerify, derrors.SeverityError,
				"reference verification failed")
		}
		if !vreport.OK() {
			return report, derrors.New(derrors.CategoryVerify, derrors.SeverityError,
				fmt.Sprintf("%d broken reference(s) in %d document(s)",
					len(vreport.Findings), vreport.Documents)).
				WithContext("first", vreport.Findings[0].Reference)
		}
		slog.Info("References verified", logfields.Count(vreport.Checked))
	}

	return report, nil
}

// buildOutcome maps a finished pass to its counter label. A pass whose only
// failure is verification still produced a loadable tree, so it counts as a
// warning rather than a failed build.
func buildOutcome(report *rewrite.Report, err error) string {
	switch {
	case err == nil:
		return string(rewrite.OutcomeSuccess)
	case errors.Is(err, context.Canceled),
		report != nil && report.Outcome == rewrite.OutcomeCanceled:
		return string(rewrite.OutcomeCanceled)
	case derrors.IsCategory(err, derrors.CategoryVerify):
		return "warning"
	default:
		return string(rewrite.OutcomeFailed)
	}
}

func (p *pipeline) installIfNeeded(ctx context.Context) error {
	if p.skipInstall {
		return nil
	}
	if _, err := os.Stat(filepath.Join(p.dir, "node_modules")); err == nil {
		return nil
	}

	slog.Info("Installing dependencies", logfields.Manager(p.manager.Name))
	if err := pkgmgr.Run(ctx, p.dir, p.manager.InstallArgs(), nil, nil); err != nil {
		return derrors.BuildFailed("dependency install", err)
	}
	return nil
}

func (p *pipeline) record(ctx context.Context, report *rewrite.Report) {
	if p.store == nil || report == nil {
		return
	}
	if err := p.store.AppendReport(ctx, report); err != nil {
		slog.Warn("Failed to record build history", logfields.Error(err))
	}
}

// resolveManager prefers the configured package manager and falls back to
// lockfile detection.
func resolveManager(dir string, cfg *config.Config) (pkgmgr.Manager, error) {
	if cfg.PackageManager != "" {
		return pkgmgr.FromName(cfg.PackageManager)
	}
	return pkgmgr.Detect(dir), nil
}

// buildArgv is the framework build invocation: the configured command
// (whitespace-split) or the package manager's build script.
func buildArgv(cfg *config.Config, manager pkgmgr.Manager) []string {
	if cfg.Build.Command != "" {
		return strings.Fields(cfg.Build.Command)
	}
	return manager.RunArgs("build")
}
