package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBank       = "bank"
	KeyProblem    = "problem"
	KeyFormat     = "format"
	KeyTag        = "tag"
	KeyPage       = "page"
	KeyPath       = "path"
	KeyRunID      = "run_id"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Bank(path string) slog.Attr      { return slog.String(KeyBank, path) }
func Problem(id string) slog.Attr     { return slog.String(KeyProblem, id) }
func Format(f string) slog.Attr       { return slog.String(KeyFormat, f) }
func Tag(t string) slog.Attr          { return slog.String(KeyTag, t) }
func Page(p string) slog.Attr         { return slog.String(KeyPage, p) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
