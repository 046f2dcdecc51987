package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	derrors "git.home.luguber.info/inful/deskwrap/internal/errors"
	"git.home.luguber.info/inful/deskwrap/internal/logfields"
)

// configDebounce settles editor save bursts before a reload fires.
const configDebounce = 500 * time.Millisecond

// ConfigWatcher watches one configuration file and calls onChange after
// writes settle. It watches the containing directory rather than the file,
// so the watch survives editors that replace the file on save, and a config
// file created after startup is picked up too.
type ConfigWatcher struct {
	path     string
	onChange func()
	watcher  *fsnotify.Watcher
	debounce time.Duration

	stopChan chan struct{}
	stopOnce sync.Once
}

// NewConfigWatcher creates a watcher for the configuration file at path.
func NewConfigWatcher(path string, onChange func()) (*ConfigWatcher, error) {
	if onChange == nil {
		return nil, derrors.ValidationFailed("onChange", "change callback is required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, derrors.WatchFailed("resolve config path", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, derrors.WatchFailed("create file watcher", err)
	}
	return &ConfigWatcher{
		path:     abs,
		onChange: onChange,
		watcher:  watcher,
		debounce: configDebounce,
		stopChan: make(chan struct{}),
	}, nil
}

// Start registers the directory watch and launches the event loop.
func (cw *ConfigWatcher) Start(ctx context.Context) error {
	if err := cw.watcher.Add(filepath.Dir(cw.path)); err != nil {
		return derrors.WatchFailed("watch config directory", err)
	}
	slog.Info("Watching configuration", logfields.Path(cw.path))
	go cw.loop(ctx)
	return nil
}

// Stop releases the filesystem watch. Safe to call more than once.
func (cw *ConfigWatcher) Stop() error {
	var err error
	cw.stopOnce.Do(func() {
		close(cw.stopChan)
		err = cw.watcher.Close()
	})
	return err
}

func (cw *ConfigWatcher) loop(ctx context.Context) {
	base := filepath.Base(cw.path)
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-cw.stopChan:
			return
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if event.Op == fsnotify.Chmod {
				continue
			}
			if event.Op&fsnotify.Remove == fsnotify.Remove {
				slog.Warn("Configuration file removed, keeping last loaded values",
					logfields.Path(cw.path))
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(cw.debounce, cw.onChange)
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("Config watcher error", logfields.Error(err))
		}
	}
}
