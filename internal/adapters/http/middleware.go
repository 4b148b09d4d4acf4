package httpadapter

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-Id"

type requestIDContextKey struct{}

func requestIDFromContext(ctx context.Context) string {
	requestID, _ := ctx.Value(requestIDContextKey{}).(string)
	return requestID
}

// requestIDMiddleware tags every request with an id for log correlation. A
// caller-supplied X-Request-Id is kept so a frontend can trace an upload or
// generation call end to end.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}

		w.Header().Set(requestIDHeader, requestID)
		next.ServeHTTP(w, r.WithContext(
			context.WithValue(r.Context(), requestIDContextKey{}, requestID),
		))
	})
}

// accessLogMiddleware emits one structured line per request. Generation calls
// block on the completion gateway and downloads return whole files, so
// duration and response size matter on every line.
func accessLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		response := &responseLog{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(response, r)

		logFn := slog.Info
		switch {
		case response.status >= 500:
			logFn = slog.Error
		case response.status >= 400:
			logFn = slog.Warn
		}
		logFn("http_request",
			"request_id", requestIDFromContext(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", response.status,
			"duration_ms", float64(time.Since(start).Microseconds())/1000.0,
			"bytes", response.bytes,
			"remote_addr", clientAddr(r),
		)
	})
}

func clientAddr(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// responseLog captures status and size. Every response here is fully buffered
// JSON or a whole PDF, so no Flush, Hijack or Push passthroughs exist.
type responseLog struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *responseLog) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *responseLog) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}
