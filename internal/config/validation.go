package config

import (
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/deskwrap/internal/errors"
)

// Validate checks the configuration for values that would break a build.
// Defaults must be applied first so validators see canonical values.
func (c *Config) Validate() error {
	if err := c.validatePackageManager(); err != nil {
		return err
	}
	if err := c.validateBuild(); err != nil {
		return err
	}
	if err := c.validateWatch(); err != nil {
		return err
	}
	return c.validateEvents()
}

func (c *Config) validatePackageManager() error {
	if c.PackageManager == "" {
		return nil // detected from lockfiles later
	}
	if _, err := packageManagerNormalizer.NormalizeWithValidation(c.PackageManager); err != nil {
		return errors.ValidationFailed("package_manager", err.Error())
	}
	return nil
}

func (c *Config) validateBuild() error {
	if filepath.IsAbs(c.Build.Output) {
		return errors.ValidationFailed("build.output", "must be relative to the project root")
	}
	if strings.HasPrefix(filepath.ToSlash(filepath.Clean(c.Build.Output)), "..") {
		return errors.ValidationFailed("build.output", "must not escape the project root")
	}
	if strings.ContainsAny(c.Build.AssetDir, "/\\") {
		return errors.ValidationFailed("build.asset_dir", "must be a single directory name")
	}
	for _, pattern := range c.Build.HashRouting {
		if !strings.HasPrefix(pattern, "/") {
			return errors.ValidationFailed("build.hash_routing", "patterns must start with /").
				WithContext("pattern", pattern)
		}
	}
	if c.Build.Concurrency < 0 {
		return errors.ValidationFailed("build.concurrency", "must not be negative")
	}
	return nil
}

func (c *Config) validateWatch() error {
	if c.Watch.Debounce == "" {
		return nil
	}
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil {
		return errors.ValidationFailed("watch.debounce", "must be a duration like 400ms")
	}
	if d <= 0 {
		return errors.ValidationFailed("watch.debounce", "must be positive")
	}
	return nil
}

func (c *Config) validateEvents() error {
	if c.Events.NATSURL != "" && !strings.Contains(c.Events.NATSURL, "://") {
		return errors.ValidationFailed("events.nats_url", "must be a URL like nats://host:4222")
	}
	if strings.ContainsAny(c.Events.Subject, " \t") {
		return errors.ValidationFailed("events.subject", "must not contain whitespace")
	}
	return nil
}
