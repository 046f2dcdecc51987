package config

import (
	"time"
)

// AppConfig identifies the application being wrapped.
type AppConfig struct {
	Name string `yaml:"name"`         // display name, used for the shell window title
	ID   string `yaml:"id,omitempty"` // reverse-DNS bundle identifier
}

// ShellConfig controls the desktop shell window and its main-process entry.
type ShellConfig struct {
	Entry      string `yaml:"entry,omitempty"` // main-process entry point, relative to project root
	Width      int    `yaml:"width,omitempty"`
	Height     int    `yaml:"height,omitempty"`
	Fullscreen bool   `yaml:"fullscreen,omitempty"`
	DevTools   bool   `yaml:"devtools,omitempty"`
}

// BuildConfig holds settings for the framework build and the output transform.
type BuildConfig struct {
	// Command overrides the package-manager build invocation ("<pm> run build").
	Command string `yaml:"command,omitempty"`
	// Output is the emitted site root, relative to the project root.
	Output string `yaml:"output,omitempty"`
	// AssetDir is the versioned asset directory name inside Output.
	AssetDir string `yaml:"asset_dir,omitempty"`
	// HashRouting lists route patterns whose documents are rendered by a
	// client-side router. Page references inside matching documents become
	// hash fragments instead of file URLs.
	HashRouting []string `yaml:"hash_routing,omitempty"`
	// Concurrency caps parallel document rewrites. 0 means one worker per CPU.
	Concurrency int `yaml:"concurrency,omitempty"`
}

// WatchConfig tunes the rebuild-on-change loop.
type WatchConfig struct {
	Paths    []string `yaml:"paths,omitempty"`
	Debounce string   `yaml:"debounce,omitempty"` // time.ParseDuration format, e.g. "400ms"
}

// DebounceDuration parses Debounce, falling back to the default on empty or
// malformed input. Validation reports malformed values before this is reached.
func (w WatchConfig) DebounceDuration() time.Duration {
	if w.Debounce == "" {
		return DefaultWatchDebounce
	}
	d, err := time.ParseDuration(w.Debounce)
	if err != nil || d <= 0 {
		return DefaultWatchDebounce
	}
	return d
}

// EventsConfig wires optional build-event sinks.
type EventsConfig struct {
	// Store is the SQLite build history path, relative to the project root.
	// Empty disables persistence.
	Store string `yaml:"store,omitempty"`
	// NATSURL publishes build events to a broker when set.
	NATSURL string `yaml:"nats_url,omitempty"`
	Subject string `yaml:"subject,omitempty"`
}

// LoggingConfig selects log verbosity and output encoding.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`  // debug|info|warn|error
	Format string `yaml:"format,omitempty"` // text|json
}
