// Package testutil provides helpers shared by package tests.
package testutil

import (
	"bytes"
	"log/slog"
	"sync"
	"testing"
)

// NewTestLogger returns a debug-level logger that writes to t.Log, so output
// only shows up for failing tests or with -v.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(tbWriter{t}, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

type tbWriter struct{ tb testing.TB }

func (w tbWriter) Write(p []byte) (int, error) {
	w.tb.Helper()
	w.tb.Log(string(bytes.TrimRight(p, "\n")))
	return len(p), nil
}

// LogCapture records log records as text so tests can assert on what was
// logged. Records are also mirrored to t.Log.
type LogCapture struct {
	mu  sync.Mutex
	buf bytes.Buffer
	tb  testing.TB
}

// NewCaptureLogger returns a logger at level whose output is kept in the
// returned LogCapture.
func NewCaptureLogger(t testing.TB, level slog.Level) (*slog.Logger, *LogCapture) {
	t.Helper()
	c := &LogCapture{tb: t}
	return slog.New(slog.NewTextHandler(c, &slog.HandlerOptions{Level: level})), c
}

func (c *LogCapture) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tb.Log(string(bytes.TrimRight(p, "\n")))
	return c.buf.Write(p)
}

// String returns everything logged so far.
func (c *LogCapture) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.String()
}
