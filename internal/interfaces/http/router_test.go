package http

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/sabdamanthan/internal/inference"
	"github.com/turtacn/sabdamanthan/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/sabdamanthan/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/sabdamanthan/internal/interfaces/http/handlers"
	"github.com/turtacn/sabdamanthan/internal/interfaces/http/middleware"
	"github.com/turtacn/sabdamanthan/internal/panel"
	"github.com/turtacn/sabdamanthan/pkg/types/nlp"
)

type routerFixture struct {
	handler   http.Handler
	collector prometheus.MetricsCollector
}

func newRouterFixture(t *testing.T, maxBody int64) routerFixture {
	t.Helper()
	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{Namespace: "routertest"}, nil)
	require.NoError(t, err)
	metrics := prometheus.NewAppMetrics(collector)

	p := inference.NewMock()
	opts := panel.Options{ContinuationPrefix: "##", Metrics: metrics}
	store := panel.NewStore(p, opts, time.Hour, nlp.LocaleEnglish)
	pages, err := handlers.NewPageHandler(store, nil)
	require.NoError(t, err)

	return routerFixture{
		handler: NewRouter(RouterConfig{
			PageHandler:      pages,
			APIHandler:       handlers.NewAPIHandler(p, opts, nil),
			HealthHandler:    handlers.NewHealthHandler("test", handlers.NewChecker("inference", p.Ping)),
			CORSMiddleware:   middleware.NewCORSMiddleware(middleware.DefaultCORSConfig([]string{"http://localhost:5173"})),
			Logging:          middleware.DefaultLoggingConfig(),
			Logger:           logging.NewNopLogger(),
			Metrics:          metrics,
			MetricsCollector: collector,
			MetricsPath:      "/metrics",
			MaxBodySize:      maxBody,
		}),
		collector: collector,
	}
}

func (f routerFixture) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func TestNewRouter_RoutesRegistered(t *testing.T) {
	f := newRouterFixture(t, 0)

	tests := []struct {
		method string
		path   string
		body   string
		status int
	}{
		{http.MethodGet, "/healthz", "", http.StatusOK},
		{http.MethodGet, "/readyz", "", http.StatusOK},
		{http.MethodGet, "/healthz/detail", "", http.StatusOK},
		{http.MethodGet, "/", "", http.StatusOK},
		{http.MethodPost, "/lang", "", http.StatusSeeOther},
		{http.MethodPost, "/panels/ner", "text=नेपाल", http.StatusSeeOther},
		{http.MethodPost, "/panels/fill-mask/select", "word=x", http.StatusSeeOther},
		{http.MethodGet, "/api/v1/tags/ner", "", http.StatusOK},
		{http.MethodPost, "/api/v1/pos", `{"text":"नेपाल"}`, http.StatusOK},
		{http.MethodGet, "/metrics", "", http.StatusOK},
		{http.MethodGet, "/nowhere", "", http.StatusNotFound},
		{http.MethodDelete, "/api/v1/ner", "", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if strings.HasPrefix(tt.path, "/api/") {
				req.Header.Set("Content-Type", "application/json")
			} else {
				req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			}
			assert.Equal(t, tt.status, f.serve(req).Code)
		})
	}
}

func TestNewRouter_NilHandlers_NoPanic(t *testing.T) {
	router := NewRouter(RouterConfig{})

	rec := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNewRouter_GlobalMiddlewareApplied(t *testing.T) {
	f := newRouterFixture(t, 0)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tags/pos", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := f.serve(req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	n, err := testutil.GatherAndCount(f.collector.Gatherer(), "routertest_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestNewRouter_RecoversFromPanic(t *testing.T) {
	router := NewRouter(RouterConfig{Logger: logging.NewNopLogger()})
	mux, ok := router.(interface {
		Get(pattern string, h http.HandlerFunc)
	})
	require.True(t, ok)
	mux.Get("/boom", func(w http.ResponseWriter, r *http.Request) { panic("boom") })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestNewRouter_RequestIDPropagated(t *testing.T) {
	router := NewRouter(RouterConfig{})
	mux := router.(interface {
		Get(pattern string, h http.HandlerFunc)
	})
	mux.Get("/id", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, chimw.GetReqID(r.Context()))
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/id", nil))
	assert.NotEmpty(t, rec.Body.String())
}

func TestNewRouter_MaxBodySize(t *testing.T) {
	f := newRouterFixture(t, 64)

	body := `{"text":"` + strings.Repeat("नेपाल ", 50) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ner", strings.NewReader(body))
	rec := f.serve(req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
