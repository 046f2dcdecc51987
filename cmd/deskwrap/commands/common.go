package commands

import (
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/deskwrap/internal/config"
)

// Global is passed to subcommands for state shared across the command tree.
type Global struct {
	Logger *slog.Logger
}

// CLI is the root command definition with global flags.
type CLI struct {
	Dir     string `short:"C" help:"Project directory" default:"." type:"path"`
	Config  string `short:"c" help:"Configuration file path, relative to the project directory" default:"deskwrap.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Create  CreateCmd  `cmd:"" help:"Create a new desktop-wrapped web project"`
	Init    InitCmd    `cmd:"" help:"Wire the desktop shell into an existing web project"`
	Build   BuildCmd   `cmd:"" help:"Run the framework build and make the output load from file://"`
	Detect  DetectCmd  `cmd:"" help:"Show what deskwrap detects about this project"`
	Watch   WatchCmd   `cmd:"" help:"Rebuild and re-transform on every source change"`
	Version VersionCmd `cmd:"" help:"Show version information"`
}

// AfterApply runs after flag parsing; set up provisional logging once.
// Commands that load project configuration refine it via applyLogging.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if env := os.Getenv("DESKWRAP_LOG_LEVEL"); env != "" {
		level = config.NormalizeLogLevel(env).Slog()
	}
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// configPath resolves the configuration file against the project directory.
func (c *CLI) configPath() string {
	if filepath.IsAbs(c.Config) {
		return c.Config
	}
	return filepath.Join(c.Dir, c.Config)
}

// loadConfig reads the project configuration (or defaults when the file is
// absent) and applies its logging section.
func loadConfig(root *CLI) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(root.configPath())
	if err != nil {
		return nil, err
	}
	applyLogging(cfg, root.Verbose)
	return cfg, nil
}

// applyLogging replaces the provisional logger with one honoring the
// project's logging section. --verbose always wins on level.
func applyLogging(cfg *config.Config, verbose bool) {
	level := config.NormalizeLogLevel(cfg.Logging.Level).Slog()
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if config.NormalizeLogFormat(cfg.Logging.Format) == config.LogFormatJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
