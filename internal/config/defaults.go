package config

import "time"

// Defaults applied when a section is omitted or partially specified.
const (
	DefaultShellEntry  = "desktop/main.js"
	DefaultShellWidth  = 1280
	DefaultShellHeight = 800

	DefaultBuildOutput = "dist"
	DefaultAssetDir    = "_astro"

	DefaultWatchDebounce = 400 * time.Millisecond

	DefaultEventSubject = "deskwrap.builds"
)

// applyDefaults fills zero values with their defaults. Called by Load before
// validation so validators see canonical values.
func (c *Config) applyDefaults() {
	if c.Shell.Entry == "" {
		c.Shell.Entry = DefaultShellEntry
	}
	if c.Shell.Width <= 0 {
		c.Shell.Width = DefaultShellWidth
	}
	if c.Shell.Height <= 0 {
		c.Shell.Height = DefaultShellHeight
	}

	if c.Build.Output == "" {
		c.Build.Output = DefaultBuildOutput
	}
	if c.Build.AssetDir == "" {
		c.Build.AssetDir = DefaultAssetDir
	}
	if c.Build.Concurrency < 0 {
		c.Build.Concurrency = 0
	}

	if len(c.Watch.Paths) == 0 {
		c.Watch.Paths = []string{"src", "public"}
	}

	if c.Events.Subject == "" {
		c.Events.Subject = DefaultEventSubject
	}

	if c.Logging.Level == "" {
		c.Logging.Level = string(LogLevelInfo)
	}
	if c.Logging.Format == "" {
		c.Logging.Format = string(LogFormatText)
	}
}
