package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/sabdamanthan/internal/inference"
	"github.com/turtacn/sabdamanthan/internal/panel"
	"github.com/turtacn/sabdamanthan/pkg/types/nlp"
)

// --- Mock Predictor ---

type mockPredictor struct {
	mock.Mock
}

func (m *mockPredictor) FillMask(ctx context.Context, text string) (*nlp.FillResult, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*nlp.FillResult), args.Error(1)
}

func (m *mockPredictor) NER(ctx context.Context, text string) ([]nlp.AnnotatedSpan, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]nlp.AnnotatedSpan), args.Error(1)
}

func (m *mockPredictor) POS(ctx context.Context, text string) ([]nlp.AnnotatedSpan, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]nlp.AnnotatedSpan), args.Error(1)
}

func (m *mockPredictor) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// testServer routes the handlers the way the web shell does.
type testServer struct {
	router http.Handler
	store  *panel.Store
}

func newTestServer(t *testing.T, p inference.Predictor) *testServer {
	t.Helper()
	if p == nil {
		p = inference.NewMock()
	}
	opts := panel.Options{ContinuationPrefix: "##"}
	store := panel.NewStore(p, opts, time.Hour, nlp.LocaleEnglish)
	pages, err := NewPageHandler(store, nil)
	require.NoError(t, err)
	api := NewAPIHandler(p, opts, nil)

	r := chi.NewRouter()
	r.Get("/", pages.Index)
	r.Post("/panels/fill-mask/select", pages.Select)
	r.Post("/panels/{task}", pages.Submit)
	r.Post("/lang", pages.Lang)
	r.Post("/api/v1/{task}", api.Predict)
	r.Get("/api/v1/tags/{task}", api.Tags)
	return &testServer{router: r, store: store}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func postForm(path string, form url.Values, cookies ...*http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

func getPage(path string, cookies ...*http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == panel.SessionCookie {
			return c
		}
	}
	t.Fatalf("no %s cookie set", panel.SessionCookie)
	return nil
}
