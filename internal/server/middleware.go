package server

import (
	"errors"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/logging"
	"github.com/gokatarajesh/trivia-api/internal/metrics"
	httperrors "github.com/gokatarajesh/trivia-api/pkg/http/errors"
)

const (
	// HeaderRequestID carries the request id in and out.
	HeaderRequestID = "X-Request-ID"

	readHeaderTimeout = 10 * time.Second
	unmatchedRoute    = "unmatched"
)

// RequestLogger tags each request with an id, stores a request-scoped
// logger in the context and logs the outcome once the handler returns.
func RequestLogger(base zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(HeaderRequestID)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set(HeaderRequestID, requestID)

			logger := base.With().Str("request_id", requestID).Logger()
			ctx := logging.IntoContext(r.Context(), logger)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r.WithContext(ctx))

			status := statusOf(ww)
			event := logger.Info()
			switch {
			case status >= http.StatusInternalServerError:
				event = logger.Error()
			case status >= http.StatusBadRequest:
				event = logger.Warn()
			}
			event.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", status).
				Int("bytes", ww.BytesWritten()).
				Dur("latency", time.Since(start)).
				Msg("request completed")
		})
	}
}

// Recover turns a handler panic into a logged 500 with the standard error
// body, unless the response has already started.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(rec)
			}
			logger := logging.FromContext(r.Context())
			logger.Error().
				Interface("panic", rec).
				Bytes("stack", debug.Stack()).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Msg("panic recovered")
			if ww.Status() == 0 {
				httperrors.RespondInternalError(ww)
			}
		}()
		next.ServeHTTP(ww, r)
	})
}

// Instrument records request counts and latency labelled by the matched
// route pattern, keeping label cardinality bounded.
func Instrument(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			route := unmatchedRoute
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					route = pattern
				}
			}
			m.ObserveRequest(route, r.Method, strconv.Itoa(statusOf(ww)), time.Since(start).Seconds())
		})
	}
}

// statusOf treats a handler that never called WriteHeader as 200.
func statusOf(ww middleware.WrapResponseWriter) int {
	if ww.Status() == 0 {
		return http.StatusOK
	}
	return ww.Status()
}
