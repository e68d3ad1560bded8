package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

func corsRequest(method, origin string) *http.Request {
	r := httptest.NewRequest(method, "/api/v1/ner", nil)
	if origin != "" {
		r.Header.Set("Origin", origin)
	}
	return r
}

func TestCORS_PreflightRequest(t *testing.T) {
	handler := NewCORSMiddleware(DefaultCORSConfig([]string{"http://localhost:5173"})).Handler(okHandler())

	w := httptest.NewRecorder()
	r := corsRequest(http.MethodOptions, "http://localhost:5173")
	r.Header.Set("Access-Control-Request-Method", "POST")
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, POST, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Content-Type")
	assert.Equal(t, "86400", w.Header().Get("Access-Control-Max-Age"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	assert.Empty(t, w.Body.String())
}

func TestCORS_SimpleRequest(t *testing.T) {
	handler := NewCORSMiddleware(DefaultCORSConfig([]string{"http://localhost:5173/"})).Handler(okHandler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, corsRequest(http.MethodPost, "http://LOCALHOST:5173"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://LOCALHOST:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "X-Request-ID", w.Header().Get("Access-Control-Expose-Headers"))
	assert.Equal(t, []string{"Origin", "Access-Control-Request-Method", "Access-Control-Request-Headers"}, w.Header().Values("Vary"))
	assert.Equal(t, "ok", w.Body.String())
}

func TestCORS_DisallowedOrigin(t *testing.T) {
	handler := NewCORSMiddleware(DefaultCORSConfig([]string{"http://localhost:5173"})).Handler(okHandler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, corsRequest(http.MethodGet, "https://evil.example.com"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_NoOriginHeader(t *testing.T) {
	handler := NewCORSMiddleware(DefaultCORSConfig(nil)).Handler(okHandler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, corsRequest(http.MethodGet, ""))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Vary"))
}

func TestCORS_Wildcard(t *testing.T) {
	cfg := DefaultCORSConfig([]string{"*"})
	cfg.AllowCredentials = false
	handler := NewCORSMiddleware(cfg).Handler(okHandler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, corsRequest(http.MethodGet, "https://any.example.com"))
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	cfg.AllowCredentials = true
	handler = NewCORSMiddleware(cfg).Handler(okHandler())
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, corsRequest(http.MethodGet, "https://any.example.com"))
	assert.Equal(t, "https://any.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_SetAllowedOrigins(t *testing.T) {
	m := NewCORSMiddleware(DefaultCORSConfig([]string{"http://localhost:5173"}))
	handler := m.Handler(okHandler())

	m.SetAllowedOrigins([]string{"https://demo.example.org"})

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, corsRequest(http.MethodGet, "http://localhost:5173"))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, corsRequest(http.MethodGet, "https://demo.example.org"))
	assert.Equal(t, "https://demo.example.org", w.Header().Get("Access-Control-Allow-Origin"))
}
