// Package config loads and validates deskwrap.yaml project configuration.
package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/deskwrap/internal/errors"
)

// DefaultFileName is the project configuration file deskwrap looks for.
const DefaultFileName = "deskwrap.yaml"

// Config represents the project configuration.
type Config struct {
	App AppConfig `yaml:"app"`
	// PackageManager selects npm/pnpm/yarn/bun. Empty means detect from lockfiles.
	PackageManager string        `yaml:"package_manager,omitempty"`
	Shell          ShellConfig   `yaml:"shell,omitempty"`
	Build          BuildConfig   `yaml:"build,omitempty"`
	Watch          WatchConfig   `yaml:"watch,omitempty"`
	Events         EventsConfig  `yaml:"events,omitempty"`
	Logging        LoggingConfig `yaml:"logging,omitempty"`
}

// Load reads, expands and validates the configuration at configPath.
// Values like ${API_KEY} are expanded from the process environment, with
// .env providing fallbacks for variables not already set.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err == nil {
		slog.Debug("loaded environment from .env")
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigNotFound(configPath)
		}
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read config file")
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to parse config file").
			WithContext("path", configPath)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault returns the parsed config when configPath exists, and a
// defaulted config otherwise. build and detect work without a config file.
func LoadOrDefault(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := &Config{}
		cfg.applyDefaults()
		return cfg, nil
	}
	return Load(configPath)
}

// Init writes a starter configuration file for appName.
func Init(configPath, appName string, force bool) error {
	return Write(configPath, Example(appName), force)
}

// Write marshals cfg to configPath. An existing file is preserved unless
// force is set.
func Write(configPath string, cfg *Config, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.New(errors.CategoryConfig, errors.SeverityFatal,
			"configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "failed to marshal config")
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "failed to write config file").
			WithContext("path", configPath)
	}
	return nil
}

// Example returns a fully populated configuration suitable for a new project.
func Example(appName string) *Config {
	cfg := &Config{
		App: AppConfig{Name: appName},
		Shell: ShellConfig{
			Entry:  DefaultShellEntry,
			Width:  DefaultShellWidth,
			Height: DefaultShellHeight,
		},
		Build: BuildConfig{
			Output:   DefaultBuildOutput,
			AssetDir: DefaultAssetDir,
		},
		Watch: WatchConfig{
			Paths:    []string{"src", "public"},
			Debounce: DefaultWatchDebounce.String(),
		},
	}
	cfg.applyDefaults()
	return cfg
}
