package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyFile       = "file"
	KeyLine       = "line"
	KeyFormat     = "format"
	KeyEnv        = "env"
	KeyOption     = "option"
	KeyOptions    = "options"
	KeyLoadID     = "load_id"
	KeyDurationMS = "duration_ms"
	KeyAddr       = "addr"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func File(p string) slog.Attr         { return slog.String(KeyFile, p) }
func Line(n int) slog.Attr            { return slog.Int(KeyLine, n) }
func Format(f string) slog.Attr       { return slog.String(KeyFormat, f) }
func Env(e string) slog.Attr          { return slog.String(KeyEnv, e) }
func Option(k string) slog.Attr       { return slog.String(KeyOption, k) }
func Options(n int) slog.Attr         { return slog.Int(KeyOptions, n) }
func LoadID(id string) slog.Attr      { return slog.String(KeyLoadID, id) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Addr(a string) slog.Attr         { return slog.String(KeyAddr, a) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
