package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestNewLoggerWithWriters(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithWriters(false, &buf)
	l.Info("embedded batch", zap.Int("batch", 2))
	l.Debug("hidden")
	_ = l.Sync()

	out := buf.String()
	assert.Contains(t, out, "embedded batch")
	assert.Contains(t, out, "batch")
	assert.NotContains(t, out, "hidden")
}

func TestNewLoggerWithWriters_Debug(t *testing.T) {
	var a, b bytes.Buffer
	l := NewLoggerWithWriters(true, &a, &b)
	l.Debug("visible")
	_ = l.Sync()

	assert.Contains(t, a.String(), "visible")
	assert.Contains(t, b.String(), "visible")
}
