// Package watch drives the continuous rebuild loop. Filesystem events on the
// project's source directories trigger a debounced rebuild pass, and an
// optional schedule forces periodic full rebuilds even when nothing changed.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	derrors "git.home.luguber.info/inful/deskwrap/internal/errors"
	"git.home.luguber.info/inful/deskwrap/internal/logfields"
)

// DefaultDebounce matches the config default for unset watch.debounce.
const DefaultDebounce = 400 * time.Millisecond

const scheduledReason = "scheduled rebuild"

// RunFunc executes one rebuild pass. The reason names what triggered it,
// usually the changed path relative to the project root. Errors are logged
// and the loop keeps watching; a broken build must never stop watch mode.
type RunFunc func(ctx context.Context, reason string) error

// Config parameterizes a Watcher.
type Config struct {
	// Dir is the project root; relative watch paths resolve against it.
	Dir string
	// Paths are the source directories to watch, recursively.
	Paths []string
	// Ignore lists additional directory names to skip. Dot-directories and
	// node_modules are always skipped; callers typically add the build
	// output directory here so the transform's own writes cannot retrigger.
	Ignore []string
	// Debounce is the quiet period after the last event before a rebuild
	// starts. Zero means DefaultDebounce.
	Debounce time.Duration
	// Interval schedules a periodic full rebuild when positive.
	Interval time.Duration
}

// Watcher monitors source directories and serializes debounced rebuilds.
// Construct with New, then Start; Stop releases the filesystem watches.
type Watcher struct {
	cfg       Config
	run       RunFunc
	watcher   *fsnotify.Watcher
	scheduler gocron.Scheduler

	mu       sync.Mutex
	trigger  chan string
	stopChan chan struct{}
	stopOnce sync.Once
}

// New creates a Watcher over cfg.Paths that calls run on every change burst.
func New(cfg Config, run RunFunc) (*Watcher, error) {
	if run == nil {
		return nil, derrors.ValidationFailed("run", "rebuild function is required")
	}
	if len(cfg.Paths) == 0 {
		return nil, derrors.ValidationFailed("watch.paths", "at least one directory to watch is required")
	}
	if cfg.Dir == "" {
		cfg.Dir = "."
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, derrors.WatchFailed("create file watcher", err)
	}

	return &Watcher{
		cfg:      cfg,
		run:      run,
		watcher:  watcher,
		trigger:  make(chan string, 1),
		stopChan: make(chan struct{}),
	}, nil
}

// Start registers the watch paths and launches the event and rebuild loops.
// Missing paths are skipped with a warning; Start fails only when nothing at
// all could be watched.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	watched := 0
	for _, p := range w.cfg.Paths {
		root := p
		if !filepath.IsAbs(root) {
			root = filepath.Join(w.cfg.Dir, root)
		}
		if _, err := os.Stat(root); err != nil {
			slog.Warn("Watch path does not exist, skipping", logfields.Path(root))
			continue
		}
		n, err := w.addTree(root)
		if err != nil {
			return derrors.WatchFailed("watch "+root, err)
		}
		watched += n
	}
	if watched == 0 {
		return derrors.New(derrors.CategoryWatch, derrors.SeverityFatal, "no watchable directories").
			WithContext("paths", strings.Join(w.cfg.Paths, ", "))
	}

	slog.Info("Watching for changes",
		slog.String("paths", strings.Join(w.cfg.Paths, ", ")),
		slog.Duration("debounce", w.cfg.Debounce))

	go w.watchLoop(ctx)
	go w.rebuildLoop(ctx)

	if w.cfg.Interval > 0 {
		if err := w.startSchedule(); err != nil {
			return err
		}
	}
	return nil
}

// Stop tears down the filesystem watches and the schedule. In-flight
// rebuilds finish; no new ones start. Safe to call more than once.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var err error
	w.stopOnce.Do(func() {
		close(w.stopChan)
		err = w.watcher.Close()
		if w.scheduler != nil {
			if serr := w.scheduler.Shutdown(); serr != nil && err == nil {
				err = serr
			}
		}
	})
	return err
}

// startSchedule arms the periodic full rebuild. The task only enqueues a
// trigger, so scheduled rebuilds flow through the same debounce and never
// run concurrently with change-driven ones.
func (w *Watcher) startSchedule() error {
	s, err := gocron.NewScheduler()
	if err != nil {
		return derrors.WatchFailed("create scheduler", err)
	}
	_, err = s.NewJob(
		gocron.DurationJob(w.cfg.Interval),
		gocron.NewTask(func() { w.enqueue(scheduledReason) }),
		gocron.WithName("periodic-rebuild"),
	)
	if err != nil {
		return derrors.WatchFailed("schedule periodic rebuild", err)
	}
	s.Start()
	w.scheduler = s

	slog.Info("Periodic rebuild scheduled", slog.Duration("interval", w.cfg.Interval))
	return nil
}

// addTree watches root and every non-ignored directory below it, returning
// how many directories were registered.
func (w *Watcher) addTree(root string) (int, error) {
	added := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.ignored(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return err
		}
		added++
		return nil
	})
	return added, err
}

func (w *Watcher) ignored(name string) bool {
	if strings.HasPrefix(name, ".") || name == "node_modules" {
		return true
	}
	for _, ig := range w.cfg.Ignore {
		if name == ig {
			return true
		}
	}
	return false
}

// watchLoop turns filesystem events into rebuild triggers. New directories
// get watched as they appear so nested source trees stay covered.
func (w *Watcher) watchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op == fsnotify.Chmod {
				continue
			}
			if w.ignored(filepath.Base(event.Name)) {
				continue
			}
			if event.Op&fsnotify.Create == fsnotify.Create {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if _, err := w.addTree(event.Name); err != nil {
						slog.Warn("Failed to watch new directory",
							logfields.Path(event.Name), logfields.Error(err))
					}
				}
			}
			w.enqueue(w.reasonFor(event.Name))
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("File watcher error", logfields.Error(err))
		}
	}
}

// rebuildLoop debounces triggers and runs rebuilds one at a time. The reason
// reported is the last trigger before the quiet period elapsed.
func (w *Watcher) rebuildLoop(ctx context.Context) {
	var (
		timer  *time.Timer
		fire   <-chan time.Time
		reason string
	)
	stopTimer := func() {
		if timer != nil {
			timer.Stop()
		}
	}

	for {
		select {
		case <-ctx.Done():
			stopTimer()
			return
		case <-w.stopChan:
			stopTimer()
			return
		case reason = <-w.trigger:
			if timer == nil {
				timer = time.NewTimer(w.cfg.Debounce)
				fire = timer.C
				continue
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.cfg.Debounce)
		case <-fire:
			timer = nil
			fire = nil
			w.runOnce(ctx, reason)
		}
	}
}

func (w *Watcher) runOnce(ctx context.Context, reason string) {
	slog.Info("Rebuilding", slog.String("reason", reason))
	start := time.Now()
	if err := w.run(ctx, reason); err != nil {
		slog.Error("Rebuild failed", logfields.Error(err))
		return
	}
	slog.Info("Rebuild complete",
		logfields.DurationMS(float64(time.Since(start).Milliseconds())))
}

// Trigger requests a rebuild outside the filesystem event flow, for example
// after a configuration reload. It passes through the same debounce as
// change-driven triggers.
func (w *Watcher) Trigger(reason string) {
	w.enqueue(reason)
}

// enqueue hands a trigger to the rebuild loop without blocking; when one is
// already pending the change is covered by the pending rebuild.
func (w *Watcher) enqueue(reason string) {
	select {
	case w.trigger <- reason:
	default:
	}
}

func (w *Watcher) reasonFor(name string) string {
	if rel, err := filepath.Rel(w.cfg.Dir, name); err == nil && !strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(rel)
	}
	return filepath.ToSlash(name)
}
