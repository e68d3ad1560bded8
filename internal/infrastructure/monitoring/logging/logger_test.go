package logging

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedLogger(t *testing.T, lvl zapcore.Level) (*zapLogger, *observer.ObservedLogs) {
	t.Helper()
	atomic := zap.NewAtomicLevelAt(lvl)
	core, logs := observer.New(atomic)
	return &zapLogger{z: zap.New(core), level: atomic}, logs
}

func TestNewLogger_Formats(t *testing.T) {
	for _, format := range []string{"json", "console", ""} {
		l, err := NewLogger(LogConfig{Level: LevelInfo, Format: format})
		require.NoError(t, err, format)
		assert.NotNil(t, l)
	}
}

func TestNewLogger_BadOutputPath(t *testing.T) {
	l, err := NewLogger(LogConfig{OutputPaths: []string{"/nonexistent-dir/sub/app.log"}})
	assert.Error(t, err)
	assert.Nil(t, l)
}

func TestNewDevelopmentLogger(t *testing.T) {
	l, err := NewDevelopmentLogger()
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"INFO":    zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
	}
	for in, want := range cases {
		got, ok := ParseLevel(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	got, ok := ParseLevel("verbose")
	assert.False(t, ok)
	assert.Equal(t, zapcore.InfoLevel, got)
}

func TestFields_AreTyped(t *testing.T) {
	l, logs := newObservedLogger(t, zapcore.DebugLevel)

	l.Info("predict",
		Task("ner"),
		RequestID("abc"),
		Int("spans", 3),
		Duration("took", 15*time.Millisecond),
		Bool("cached", true),
		Err(errors.New("boom")),
	)

	require.Equal(t, 1, logs.Len())
	ctx := logs.All()[0].ContextMap()
	assert.Equal(t, "ner", ctx["task"])
	assert.Equal(t, "abc", ctx["request_id"])
	assert.EqualValues(t, 3, ctx["spans"])
	assert.Equal(t, 15*time.Millisecond, ctx["took"])
	assert.Equal(t, true, ctx["cached"])
	assert.Equal(t, "boom", ctx["error"])
}

func TestErr_Nil(t *testing.T) {
	assert.Equal(t, Field{Key: "error", Value: "<nil>"}, Err(nil))
}

func TestWithAndNamed(t *testing.T) {
	l, logs := newObservedLogger(t, zapcore.InfoLevel)

	child := l.Named("http").With(String("route", "/"))
	child.Info("served")

	entry := logs.All()[0]
	assert.Equal(t, "http", entry.LoggerName)
	assert.Equal(t, "/", entry.ContextMap()["route"])
}

func TestSetLevel_AppliesToChildren(t *testing.T) {
	l, logs := newObservedLogger(t, zapcore.InfoLevel)
	child := l.Named("panel")

	child.Debug("hidden")
	assert.Equal(t, 0, logs.Len())

	require.NoError(t, SetLevel(l, LevelDebug))
	child.Debug("shown")
	assert.Equal(t, 1, logs.Len())

	assert.Error(t, SetLevel(l, "loud"))
	assert.NoError(t, SetLevel(NewNopLogger(), LevelDebug))
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	assert.NotPanics(t, func() {
		l.Debug("x")
		l.With(String("a", "b")).Named("n").Error("y")
	})
	assert.NoError(t, Sync(l))
}

func TestDefault(t *testing.T) {
	prev := Default()
	t.Cleanup(func() { SetDefault(prev) })

	l, _ := newObservedLogger(t, zapcore.InfoLevel)
	SetDefault(l)
	assert.Same(t, l, Default())

	SetDefault(nil)
	assert.Same(t, l, Default())
}
