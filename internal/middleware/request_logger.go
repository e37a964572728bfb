package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/ferdiebergado/tokenkit/internal/pkg/security"
)

const (
	HeaderRequestID = "X-Request-ID"
	requestIDLength = 12
)

type ctxKey int

const requestIDCtxKey ctxKey = iota

// RequestIDFromContext returns the id assigned by LogRequest, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDCtxKey).(string)
	return id
}

// LogRequest tags every request with an id and logs it once it is served.
// Authorization headers and cookies are never logged.
func LogRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get(HeaderRequestID)
		if requestID == "" {
			id, err := security.GenerateRandomBytesURLEncoded(requestIDLength)
			if err != nil {
				slog.Warn("failed to generate request id", "reason", err)
			}
			requestID = id
		}
		w.Header().Set(HeaderRequestID, requestID)

		r = r.WithContext(context.WithValue(r.Context(), requestIDCtxKey, requestID))
		next.ServeHTTP(w, r)

		status, bytes := 0, 0
		if writer, ok := w.(*SafeResponseWriter); ok {
			status, bytes = writer.Status(), writer.BytesWritten()
		}

		slog.Info("incoming request",
			"request_id", requestID,
			"user_agent", r.UserAgent(),
			"ip", getIPAddress(r),
			"method", r.Method,
			"path", r.URL.Path,
			"proto", r.Proto,
			slog.Int("status_code", status),
			slog.Int("bytes", bytes),
			"duration", time.Since(start),
		)
	})
}

// getIPAddress extracts the client's IP address from the request.
func getIPAddress(r *http.Request) string {
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}

	if forwardedFor := r.Header.Get("X-Forwarded-For"); forwardedFor != "" {
		first, _, _ := strings.Cut(forwardedFor, ",")
		return strings.TrimSpace(first)
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return ip
}
