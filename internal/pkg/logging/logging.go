package logging

import (
	"io"
	"log/slog"
	"strings"
)

const redacted = "[REDACTED]"

// Attribute keys whose values are credentials and must never reach a log sink.
var sensitiveKeys = map[string]struct{}{
	"access_token":  {},
	"refresh_token": {},
	"token":         {},
	"authorization": {},
	"password":      {},
	"key":           {},
}

// SetupLogger installs the default slog logger. Production gets JSON lines,
// everything else gets the human readable text handler.
func SetupLogger(appEnv, logLevel string, out io.Writer) {
	opts := &slog.HandlerOptions{
		Level:       ParseLevel(logLevel),
		ReplaceAttr: RedactCredentials,
	}

	var handler slog.Handler = slog.NewTextHandler(out, opts)
	if appEnv == "production" {
		handler = slog.NewJSONHandler(out, opts)
	}

	slog.SetDefault(slog.New(handler))
}

// RedactCredentials replaces the value of any attribute named like a credential.
// It has the signature of slog.HandlerOptions.ReplaceAttr.
func RedactCredentials(_ []string, a slog.Attr) slog.Attr {
	if _, ok := sensitiveKeys[strings.ToLower(a.Key)]; ok && a.Value.Kind() != slog.KindGroup {
		return slog.String(a.Key, redacted)
	}
	return a
}

// ParseLevel maps a level name to a slog.Level, defaulting to info.
func ParseLevel(levelStr string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(levelStr)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARNING", "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
