// Package rewrite implements the post-build reference transform that makes a
// framework's emitted HTML loadable straight from the local filesystem.
//
// Production web builds lay documents out for serving from a web root; inside
// a desktop shell they load via file:// with no server in front, so
// root-relative references all dangle. The engine walks every routed
// document, classifies each link/source attribute, hydration marker, and
// dynamic import specifier, then substitutes a value that resolves locally:
// build assets become document-relative, page links become absolute file://
// locators (or "#/" fragments when the document hash-routes), and already
// portable references pass through byte-identical.
package rewrite

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2"

	"git.home.luguber.info/inful/deskwrap/internal/logfields"
	"git.home.luguber.info/inful/deskwrap/internal/manifest"
	"git.home.luguber.info/inful/deskwrap/internal/metrics"
)

// Config parameterizes an Engine. OutputRoot is required; everything else
// has a usable default.
type Config struct {
	// OutputRoot is the build output directory holding the emitted documents.
	OutputRoot string
	// AssetDir is the versioned asset directory name directly under the
	// output root (for example "_astro").
	AssetDir string
	// RouterSignatures overrides DefaultRouterSignatures when non-nil.
	RouterSignatures []string
	// HashRoutes lists route patterns whose documents are treated as
	// hash-routing regardless of content detection. A pattern is an exact
	// route, a path.Match glob, or a "/prefix/*" subtree match.
	HashRoutes []string
	// Concurrency caps parallel document rewrites. Zero means one per CPU.
	Concurrency int
	// CacheSize bounds the transform memo keyed by document content digest.
	// Watch mode reprocesses the whole output tree after every framework
	// build; documents the build re-emitted byte-identical hit the cache and
	// skip the regex passes. Zero disables caching.
	CacheSize int
	// Recorder receives transform metrics. Nil disables recording.
	Recorder metrics.Recorder
}

// Engine drives the per-document transform and owns all path arithmetic.
// Construct with New; the zero value is not usable.
type Engine struct {
	outputRoot   string // canonical slash form, no trailing slash
	outputRootOS string // as configured, for filesystem access
	assetDir     string
	signatures   []string
	hashRoutes   []string
	concurrency  int
	recorder     metrics.Recorder
	cache        *lru.Cache[string, cacheEntry]
}

// cacheEntry memoizes one transform: the rewritten text plus the stats the
// report needs. Entries are keyed by docDigest, so a hit means the document
// on disk is byte-identical to a previously transformed input.
type cacheEntry struct {
	text  string
	stats docStats
}

// New builds an Engine from cfg, filling defaults for unset fields.
func New(cfg Config) *Engine {
	e := &Engine{
		outputRoot:   strings.TrimSuffix(NormalizePath(cfg.OutputRoot), "/"),
		outputRootOS: cfg.OutputRoot,
		assetDir:     cfg.AssetDir,
		signatures:   cfg.RouterSignatures,
		hashRoutes:   cfg.HashRoutes,
		concurrency:  cfg.Concurrency,
		recorder:     cfg.Recorder,
	}
	if e.assetDir == "" {
		e.assetDir = "_astro"
	}
	if e.signatures == nil {
		e.signatures = DefaultRouterSignatures
	}
	if e.concurrency <= 0 {
		e.concurrency = runtime.NumCPU()
	}
	if e.recorder == nil {
		e.recorder = metrics.NoopRecorder{}
	}
	if cfg.CacheSize > 0 {
		e.cache, _ = lru.New[string, cacheEntry](cfg.CacheSize)
	}
	return e
}

// ProcessRoutes transforms every routed document once and reports what
// happened. Documents process independently under bounded fan-out; a failure
// in one never stops the others, and documents already rewritten stay
// rewritten. When any document fails, the returned error names every failing
// path with its cause.
func (e *Engine) ProcessRoutes(ctx context.Context, routes []manifest.Route) (*Report, error) {
	report := NewReport()
	defer report.finish()

	e.recorder.SetTransformConcurrency(e.concurrency)
	start := time.Now()

	type docOutcome struct {
		path    string
		stats   docStats
		skipped bool
	}

	results := runBounded(ctx, routes, e.concurrency, func(ctx context.Context, route manifest.Route) (docOutcome, error) {
		if route.OutputFile == "" {
			return docOutcome{skipped: true}, nil
		}
		if err := ctx.Err(); err != nil {
			return docOutcome{path: route.OutputFile}, err
		}
		docStart := time.Now()
		stats, err := e.processDocument(route)
		e.recorder.ObserveDocumentDuration(route.OutputFile, time.Since(docStart), err == nil)
		return docOutcome{path: route.OutputFile, stats: stats}, err
	})

	var failures []error
	for _, res := range results {
		if res.value.skipped {
			report.SkippedRoutes++
			continue
		}
		report.Documents++
		if res.err != nil {
			report.Failures = append(report.Failures, DocumentFailure{Path: res.value.path, Err: res.err})
			failures = append(failures, fmt.Errorf("%s: %w", res.value.path, res.err))
			e.recorder.IncDocumentResult(metrics.ResultFatal)
			continue
		}
		e.recorder.IncDocumentResult(metrics.ResultSuccess)
		if res.value.stats.hashDoc {
			report.HashRoutingDocs++
		}
		if res.value.stats.changed {
			report.RewrittenDocs++
		}
		for policy, n := range res.value.stats.policies {
			report.References[policy] += n
			for i := 0; i < n; i++ {
				e.recorder.IncRewrite(policy)
			}
		}
	}

	e.recorder.ObserveTransformDuration(time.Since(start))
	report.deriveOutcome(ctx.Err())

	if len(failures) > 0 {
		return report, fmt.Errorf("reference transform failed for %d document(s): %w",
			len(failures), errors.Join(failures...))
	}
	return report, nil
}

// processDocument reads, rewrites, and writes back a single routed document.
// Unchanged documents are not rewritten to disk, which keeps repeated passes
// from touching file modification times.
func (e *Engine) processDocument(route manifest.Route) (docStats, error) {
	osPath := filepath.Join(e.outputRootOS, filepath.FromSlash(route.OutputFile))
	docPath := e.outputRoot + "/" + route.OutputFile
	forced := e.forcedHashRoute(route.Pattern)

	raw, err := os.ReadFile(osPath)
	if err != nil {
		return docStats{}, fmt.Errorf("reading document: %w", err)
	}

	text := string(raw)
	var (
		rewritten string
		stats     docStats
		digest    string
		hit       bool
	)
	if e.cache != nil {
		digest = docDigest(docPath, forced, text)
		if entry, ok := e.cache.Get(digest); ok {
			rewritten, stats, hit = entry.text, entry.stats, true
		}
	}
	if !hit {
		rewritten, stats = e.transformText(text, docPath, forced)
		if e.cache != nil {
			e.cache.Add(digest, cacheEntry{text: rewritten, stats: stats})
		}
	}
	if !stats.changed {
		slog.Debug("Document already portable", logfields.Document(route.OutputFile))
		return stats, nil
	}

	if err := os.WriteFile(osPath, []byte(rewritten), 0o644); err != nil {
		return stats, fmt.Errorf("writing document: %w", err)
	}

	slog.Debug("Document rewritten",
		logfields.Document(route.OutputFile),
		logfields.Route(route.Pattern),
		logfields.Count(countStats(stats)))
	return stats, nil
}

// docDigest keys the transform cache. The path and the forced-hash flag
// participate because hash-routing detection and file:// substitution both
// depend on where the document sits, not just on its bytes.
func docDigest(docPath string, forced bool, text string) string {
	prefix := "d\x00"
	if forced {
		prefix = "h\x00"
	}
	sum := sha256.Sum256([]byte(prefix + docPath + "\x00" + text))
	return hex.EncodeToString(sum[:])
}

// forcedHashRoute reports whether the route pattern is configured as
// hash-routing independent of content detection.
func (e *Engine) forcedHashRoute(routePattern string) bool {
	for _, pattern := range e.hashRoutes {
		if pattern == routePattern {
			return true
		}
		if strings.HasSuffix(pattern, "/*") &&
			strings.HasPrefix(routePattern, strings.TrimSuffix(pattern, "*")) {
			return true
		}
		if ok, err := path.Match(pattern, routePattern); err == nil && ok {
			return true
		}
	}
	return false
}

func countStats(stats docStats) int {
	total := 0
	for _, n := range stats.policies {
		total += n
	}
	return total
}

type slotResult[R any] struct {
	value R
	err   error
}

// runBounded fans items out across at most concurrency goroutines and waits
// for all of them. Results keep slot order. A failing item never cancels its
// siblings; cancellation is honored only between items, so in-flight work
// always completes.
func runBounded[T any, R any](ctx context.Context, items []T, concurrency int, fn func(context.Context, T) (R, error)) []slotResult[R] {
	results := make([]slotResult[R], len(items))
	if len(items) == 0 {
		return results
	}
	if concurrency > len(items) {
		concurrency = len(items)
	}

	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		go func(slot int, it T) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			value, err := fn(ctx, it)
			results[slot] = slotResult[R]{value: value, err: err}
		}(i, item)
	}
	wg.Wait()
	return results
}
