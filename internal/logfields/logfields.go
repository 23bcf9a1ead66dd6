package logfields

import (
	"io"
	"log/slog"
	"time"
)

// Canonical log field names shared by every package.
const (
	KeyManual     = "manual"
	KeyVersion    = "version"
	KeyPath       = "path"
	KeyURL        = "url"
	KeyStatus     = "status"
	KeyDurationMS = "duration_ms"
	KeySession    = "session"
	KeyKind       = "kind"
	KeyCount      = "count"
	KeyError      = "error"
)

// Attribute helpers. Each returns a single slog.Attr so callers can compose.
func Manual(name string) slog.Attr { return slog.String(KeyManual, name) }
func Version(v string) slog.Attr   { return slog.String(KeyVersion, v) }
func Path(p string) slog.Attr      { return slog.String(KeyPath, p) }
func URL(u string) slog.Attr       { return slog.String(KeyURL, u) }
func Status(code int) slog.Attr    { return slog.Int(KeyStatus, code) }
func Session(id string) slog.Attr  { return slog.String(KeySession, id) }
func Kind(k string) slog.Attr      { return slog.String(KeyKind, k) }
func Count(n int) slog.Attr        { return slog.Int(KeyCount, n) }
func Duration(d time.Duration) slog.Attr {
	return slog.Float64(KeyDurationMS, float64(d.Microseconds())/1000)
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}

// NewLogger builds the process logger. format is "json" or anything else for text.
func NewLogger(w io.Writer, format string, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Discard returns a logger that drops everything; handy as a nil default.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}
