package http

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/sabdamanthan/internal/config"
	"github.com/turtacn/sabdamanthan/internal/interfaces/http/handlers"
)

func TestNewServer(t *testing.T) {
	cfg := config.ServerConfig{Host: "127.0.0.1", Port: 9099, ReadTimeout: time.Second, WriteTimeout: 2 * time.Second, IdleTimeout: 3 * time.Second}
	mux := http.NewServeMux()
	server := NewServer(cfg, mux, nil)

	require.NotNil(t, server)
	assert.Equal(t, "127.0.0.1:9099", server.Addr())
	assert.Equal(t, 2*time.Second, server.srv.WriteTimeout)
	assert.Equal(t, config.DefaultShutdownTimeout, server.shutdownTimeout)
	assert.Equal(t, http.Handler(mux), server.Handler())
}

func TestServer_ShutdownBeforeRun(t *testing.T) {
	server := NewServer(config.ServerConfig{Host: "127.0.0.1"}, http.NewServeMux(), nil)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, server.Shutdown(ctx))
}

func TestServer_RunServesUntilCanceled(t *testing.T) {
	router := NewRouter(RouterConfig{HealthHandler: handlers.NewHealthHandler("test")})
	server := NewServer(config.ServerConfig{Host: "127.0.0.1", Port: 0, ShutdownTimeout: time.Second}, router, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Run(ctx) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + server.Addr() + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServer_RunListenError(t *testing.T) {
	server := NewServer(config.ServerConfig{Host: "256.0.0.1", Port: 1}, http.NewServeMux(), nil)
	err := server.Run(context.Background())
	assert.Error(t, err)
}
