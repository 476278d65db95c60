package slogx

import (
	"fmt"
	"log/slog"
	"time"
)

// ErrorKey is the attribute key used for error values.
const ErrorKey = "error"

// Any returns an slog.Attr for the supplied value.
func Any(key string, value any) slog.Attr {
	return slog.Any(key, value)
}

// Error returns an slog.Attr for an error value.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any(ErrorKey, err)
}

// String returns an slog.Attr for a string value.
func String(key, value string) slog.Attr {
	return slog.String(key, value)
}

// Stringer returns an slog.Attr for a fmt.Stringer value.
func Stringer(key string, value fmt.Stringer) slog.Attr {
	return slog.String(key, value.String())
}

// Int64 returns an slog.Attr for an int64.
func Int64(key string, value int64) slog.Attr {
	return slog.Int64(key, value)
}

// Int converts an int to an int64 and returns
// an slog.Attr with that value.
func Int(key string, value int) slog.Attr {
	return slog.Int64(key, int64(value))
}

// Duration returns an slog.Attr for a time.Duration.
func Duration(key string, value time.Duration) slog.Attr {
	return slog.Duration(key, value)
}
