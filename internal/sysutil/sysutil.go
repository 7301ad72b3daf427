// Package sysutil holds small process-level helpers shared by cmd/server:
// global log level wiring and environment value coercion.
package sysutil

import (
	"strings"

	"github.com/rs/zerolog"
)

// logLevels maps accepted LOG_LEVEL values to zerolog levels. "warning" is
// an alias for "warn"; the empty string means info.
var logLevels = map[string]zerolog.Level{
	"debug":   zerolog.DebugLevel,
	"info":    zerolog.InfoLevel,
	"":        zerolog.InfoLevel,
	"warn":    zerolog.WarnLevel,
	"warning": zerolog.WarnLevel,
	"error":   zerolog.ErrorLevel,
	"fatal":   zerolog.FatalLevel,
	"panic":   zerolog.PanicLevel,
}

// SetLogLevel configures the global zerolog level from a string value,
// case-insensitively. Unrecognized values fall back to info.
func SetLogLevel(lvl string) {
	l, ok := logLevels[strings.ToLower(strings.TrimSpace(lvl))]
	if !ok {
		l = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(l)
}

// IsTruthy reports whether an environment variable value means "enabled".
// Accepted (case-insensitive): "1", "true", "yes", "y", "on".
func IsTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	}
	return false
}

// FirstNonEmpty returns the first value that is not blank after trimming,
// or "" when every value is blank. The winner is returned untrimmed.
func FirstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
