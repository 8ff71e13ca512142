package log

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLogger(buf *bytes.Buffer, component string) *Logger {
	return &Logger{
		Logger:    slog.New(slog.NewTextHandler(buf, nil)),
		component: component,
	}
}

func TestLoggerAddsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := captureLogger(&buf, "store")

	l.Info("table loaded", "table", "users")

	out := buf.String()
	assert.Contains(t, out, "component=store")
	assert.Contains(t, out, "table=users")
}

func TestWithComponentRetags(t *testing.T) {
	var buf bytes.Buffer
	l := captureLogger(&buf, "app")

	l.WithComponent("store").Error("load failed")

	assert.Contains(t, buf.String(), "component=store")
	assert.NotContains(t, buf.String(), "component=app")
}

func TestSetDefaultKeepsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := captureLogger(&buf, "app")

	prev := slog.Default()
	defer slog.SetDefault(prev)
	SetDefault(l)

	slog.InfoContext(context.Background(), "request completed", "status", 200)

	out := buf.String()
	require.Contains(t, out, "request completed")
	assert.Contains(t, out, "component=app")
	assert.Contains(t, out, "status=200")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARN"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("info"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}
