package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyApp        = "app"
	KeyStage      = "stage"
	KeyDocument   = "document"
	KeyRoute      = "route"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyTemplate   = "template"
	KeyManager    = "package_manager"
	KeyCount      = "count"
	KeyDurationMS = "duration_ms"
	KeyBuildID    = "build_id"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func App(name string) slog.Attr       { return slog.String(KeyApp, name) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func Document(d string) slog.Attr     { return slog.String(KeyDocument, d) }
func Route(r string) slog.Attr        { return slog.String(KeyRoute, r) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Template(t string) slog.Attr     { return slog.String(KeyTemplate, t) }
func Manager(m string) slog.Attr      { return slog.String(KeyManager, m) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
