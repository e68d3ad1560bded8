package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
)

// CORSConfig holds configuration for CORS middleware.
type CORSConfig struct {
	// AllowedOrigins lists origins allowed to make cross-origin requests.
	// ["*"] allows all.
	AllowedOrigins []string

	AllowedMethods []string
	AllowedHeaders []string
	ExposedHeaders []string

	AllowCredentials bool

	// MaxAge indicates how long (in seconds) preflight results can be cached.
	MaxAge int
}

// DefaultCORSConfig returns the policy of the JSON API: GET and POST from the
// given origins.
func DefaultCORSConfig(origins []string) CORSConfig {
	return CORSConfig{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Accept-Language",
			"Content-Type",
			"X-Request-ID",
		},
		ExposedHeaders: []string{
			"X-Request-ID",
		},
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}
}

type originSet struct {
	exact    map[string]bool
	allowAll bool
}

func newOriginSet(origins []string) *originSet {
	s := &originSet{exact: make(map[string]bool, len(origins))}
	for _, o := range origins {
		if o == "*" {
			s.allowAll = true
			continue
		}
		s.exact[strings.ToLower(strings.TrimSuffix(o, "/"))] = true
	}
	return s
}

func (s *originSet) allows(origin string) bool {
	return s.allowAll || s.exact[strings.ToLower(origin)]
}

// CORSMiddleware handles Cross-Origin Resource Sharing.  Its origin list can
// be replaced while serving.
type CORSMiddleware struct {
	config  CORSConfig
	origins atomic.Pointer[originSet]

	methods string
	headers string
	exposed string
	maxAge  string
}

// NewCORSMiddleware creates a new CORS middleware with the given config.
func NewCORSMiddleware(config CORSConfig) *CORSMiddleware {
	m := &CORSMiddleware{
		config:  config,
		methods: strings.Join(config.AllowedMethods, ", "),
		headers: strings.Join(config.AllowedHeaders, ", "),
		exposed: strings.Join(config.ExposedHeaders, ", "),
		maxAge:  strconv.Itoa(config.MaxAge),
	}
	m.SetAllowedOrigins(config.AllowedOrigins)
	return m
}

// SetAllowedOrigins replaces the origin list.
func (m *CORSMiddleware) SetAllowedOrigins(origins []string) {
	m.origins.Store(newOriginSet(origins))
}

// Handler returns the middleware handler function.
func (m *CORSMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			next.ServeHTTP(w, r)
			return
		}

		origins := m.origins.Load()
		if !origins.allows(origin) {
			// The browser blocks the response on its side.
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Add("Vary", "Origin")
		w.Header().Add("Vary", "Access-Control-Request-Method")
		w.Header().Add("Vary", "Access-Control-Request-Headers")

		if origins.allowAll && !m.config.AllowCredentials {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		} else {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		}
		if m.config.AllowCredentials {
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}

		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			w.Header().Set("Access-Control-Allow-Methods", m.methods)
			w.Header().Set("Access-Control-Allow-Headers", m.headers)
			if m.config.MaxAge > 0 {
				w.Header().Set("Access-Control-Max-Age", m.maxAge)
			}
			w.WriteHeader(http.StatusNoContent)
			return
		}

		if m.exposed != "" {
			w.Header().Set("Access-Control-Expose-Headers", m.exposed)
		}
		next.ServeHTTP(w, r)
	})
}
