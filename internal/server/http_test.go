package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/trivia-api/internal/config"
	"github.com/gokatarajesh/trivia-api/internal/logging"
	"github.com/gokatarajesh/trivia-api/internal/metrics"
	httperrors "github.com/gokatarajesh/trivia-api/pkg/http/errors"
)

func testCORS() config.CORS {
	return config.CORS{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "PUT", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}
}

func newTestRouter(t *testing.T, ready ReadinessCheck) (*chi.Mux, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	r := NewRouter(RouterConfig{
		CORS:     testCORS(),
		Logger:   zerolog.New(io.Discard),
		Metrics:  metrics.New(reg),
		Gatherer: reg,
		Ready:    ready,
	})
	return r, reg
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	r, _ := newTestRouter(t, nil)
	rec := serve(r, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestReadyz(t *testing.T) {
	r, _ := newTestRouter(t, func(context.Context) error { return nil })
	rec := serve(r, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	r, _ = newTestRouter(t, func(context.Context) error { return errors.New("connection refused") })
	rec = serve(r, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body httperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, http.StatusServiceUnavailable, body.Error)
}

func TestUnknownRouteUsesErrorBody(t *testing.T) {
	r, _ := newTestRouter(t, nil)
	rec := serve(r, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":404,"message":"resource not found"}`, rec.Body.String())
}

func TestMethodNotAllowedUsesErrorBody(t *testing.T) {
	r, _ := newTestRouter(t, nil)
	rec := serve(r, httptest.NewRequest(http.MethodPatch, "/healthz", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":405,"message":"method not allowed"}`, rec.Body.String())
}

func TestCORSHeaders(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := serve(r, req)
	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	preflight := httptest.NewRequest(http.MethodOptions, "/questions", nil)
	preflight.Header.Set("Origin", "http://localhost:3000")
	preflight.Header.Set("Access-Control-Request-Method", http.MethodDelete)
	preflight.Header.Set("Access-Control-Request-Headers", "Content-Type")
	rec = serve(r, preflight)
	assert.Less(t, rec.Code, 300)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodDelete)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Content-Type")
}

func TestRequestIDIsAssignedAndPropagated(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	var fromCtx string
	r.Get("/echo", func(w http.ResponseWriter, req *http.Request) {
		var buf bytes.Buffer
		logger := logging.FromContext(req.Context()).Output(&buf)
		logger.Info().Msg("inside")
		var entry map[string]any
		if err := json.Unmarshal(buf.Bytes(), &entry); err == nil {
			fromCtx, _ = entry["request_id"].(string)
		}
	})

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/echo", nil))
	generated := rec.Header().Get(HeaderRequestID)
	assert.NotEmpty(t, generated)
	assert.Equal(t, generated, fromCtx)

	req := httptest.NewRequest(http.MethodGet, "/echo", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	rec = serve(r, req)
	assert.Equal(t, "abc-123", rec.Header().Get(HeaderRequestID))
	assert.Equal(t, "abc-123", fromCtx)
}

func TestRecoverTurnsPanicInto500(t *testing.T) {
	r, _ := newTestRouter(t, nil)
	r.Get("/boom", func(http.ResponseWriter, *http.Request) { panic("boom") })

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":500,"message":"internal server error"}`, rec.Body.String())
}

func TestMetricsUseRoutePattern(t *testing.T) {
	r, _ := newTestRouter(t, nil)
	r.Get("/widgets/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	serve(r, httptest.NewRequest(http.MethodGet, "/widgets/7", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/widgets/8", nil))

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(),
		`trivia_http_requests_total{method="GET",route="/widgets/{id}",status="204"} 2`)
}

func TestNewHTTPServer(t *testing.T) {
	h := http.NewServeMux()
	srv := NewHTTPServer(&config.App{HTTPAddr: "127.0.0.1:0"}, h)
	assert.Equal(t, "127.0.0.1:0", srv.Addr)
	assert.Equal(t, h, srv.Handler)
	assert.Equal(t, readHeaderTimeout, srv.ReadHeaderTimeout)
}
