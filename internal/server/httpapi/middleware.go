package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/metrics"
	"github.com/oklog/ulid/v2"
)

const requestIDHeader = "X-Request-Id"

// TokenVerifier checks an Authorization header and returns the account id.
type TokenVerifier interface {
	Verify(authorizationHeader string) (string, error)
}

type accountIDKey struct{}

// AccountIDFromContext returns the account id set by Authenticate.
func AccountIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(accountIDKey{}).(string)
	return id, ok && id != ""
}

// Authenticate rejects requests without a valid access credential and puts
// the account id into the request context.
func Authenticate(v TokenVerifier, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accountID, err := v.Verify(r.Header.Get("Authorization"))
		if err != nil {
			writeError(w, err)
			return
		}
		ctx := context.WithValue(r.Context(), accountIDKey{}, accountID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithRequestLogging assigns a request id, logs each request and records
// its latency.
func WithRequestLogging(next http.Handler, log logging.Logger, m *metrics.Registry) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		reqID := r.Header.Get(requestIDHeader)
		if reqID == "" {
			reqID = ulid.Make().String()
		}
		w.Header().Set(requestIDHeader, reqID)
		r = r.WithContext(logging.WithRequestID(r.Context(), reqID))

		lrw := &loggingResponseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(lrw, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		elapsed := time.Since(start)
		m.ObserveHTTP(r.Method, route, lrw.status, elapsed)

		log.Info(r.Context(), "http.request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", lrw.status,
			"duration_ms", elapsed.Milliseconds(),
			"remote", r.RemoteAddr,
			"user_agent", r.UserAgent(),
		)
	})
}

type loggingResponseWriter struct {
	http.ResponseWriter
	status int
}

func (w *loggingResponseWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *loggingResponseWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }
