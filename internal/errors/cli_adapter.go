package errors

import (
	"fmt"
	"log/slog"
	"os"
)

// CLIErrorAdapter handles error presentation and exit code determination for CLI applications.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
}

// NewCLIErrorAdapter creates a new CLI error adapter.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{
		verbose: verbose,
		logger:  logger,
	}
}

// ExitCodeFor determines the appropriate exit code for an error.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}

	if de, ok := err.(*DeskwrapError); ok {
		return a.exitCodeFromDeskwrap(de)
	}

	return 1
}

// exitCodeFromDeskwrap maps DeskwrapError to exit codes.
func (a *CLIErrorAdapter) exitCodeFromDeskwrap(err *DeskwrapError) int {
	switch err.Category {
	case CategoryValidation:
		return 2 // Invalid usage
	case CategoryConfig:
		return 7 // Configuration error
	case CategoryDetect, CategoryTemplate:
		return 5 // Project or template resolution error
	case CategoryScaffold:
		return 8 // Scaffolding error
	case CategoryBuild, CategoryTransform, CategoryVerify, CategoryFileSystem:
		return 11 // Build error
	case CategoryWatch, CategoryRuntime:
		return 12 // Runtime error
	case CategoryInternal:
		return 10 // Internal error
	default:
		return 1 // General error
	}
}

// FormatError formats an error for user-friendly display.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}

	if de, ok := err.(*DeskwrapError); ok {
		return a.formatDeskwrap(de)
	}

	return fmt.Sprintf("Error: %v", err)
}

// formatDeskwrap formats a DeskwrapError for display.
func (a *CLIErrorAdapter) formatDeskwrap(err *DeskwrapError) string {
	if a.verbose {
		return err.Error()
	}

	switch err.Category {
	case CategoryConfig, CategoryValidation, CategoryDetect:
		return err.Message
	default:
		return fmt.Sprintf("%s: %s", err.Category, err.Message)
	}
}

// HandleError processes an error and exits the program with appropriate code.
func (a *CLIErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}

	exitCode := a.ExitCodeFor(err)
	message := a.FormatError(err)

	if a.shouldLog(err) {
		a.logError(err)
	}

	fmt.Fprintf(os.Stderr, "%s\n", message)
	os.Exit(exitCode)
}

// shouldLog determines if an error should be logged.
func (a *CLIErrorAdapter) shouldLog(err error) bool {
	if a.verbose {
		return true
	}

	if de, ok := err.(*DeskwrapError); ok {
		return de.Category == CategoryInternal ||
			de.Category == CategoryRuntime ||
			de.Severity == SeverityFatal
	}

	return true
}

// logError logs an error with appropriate level and context.
func (a *CLIErrorAdapter) logError(err error) {
	if de, ok := err.(*DeskwrapError); ok {
		level := a.slogLevelFromSeverity(de.Severity)
		attrs := []slog.Attr{
			slog.String("category", string(de.Category)),
		}
		if de.Retryable {
			attrs = append(attrs, slog.Bool("retryable", true))
		}

		a.logger.LogAttrs(nil, level, de.Message, attrs...)
		return
	}

	a.logger.Error("Unclassified error", "error", err)
}

// slogLevelFromSeverity converts DeskwrapError severity to slog level.
func (a *CLIErrorAdapter) slogLevelFromSeverity(severity ErrorSeverity) slog.Level {
	switch severity {
	case SeverityInfo:
		return slog.LevelInfo
	case SeverityWarning:
		return slog.LevelWarn
	case SeverityFatal:
		return slog.LevelError
	default:
		return slog.LevelError
	}
}
