package log

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, Config{})
	l.Info("hello", slog.String("k", "v"))
	l.Debug("hidden")

	assert.Contains(t, buf.String(), `"msg":"hello"`)
	assert.Contains(t, buf.String(), `"k":"v"`)
	assert.NotContains(t, buf.String(), "hidden")
}

func TestNewTextDebug(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, Config{Level: int(slog.LevelDebug), Format: "text"})
	l.Debug("shown")

	assert.Contains(t, buf.String(), "msg=shown")
}
