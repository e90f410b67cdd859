package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New("warn", zapcore.AddSync(&buf))

	l.Info("dropped")
	l.Warn("kept", String("slug", "hello"))
	require.NoError(t, l.Sync())

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "hello", entry["slug"])
}

func TestPackageHelpers_UseInstalledLogger(t *testing.T) {
	var buf bytes.Buffer
	prev := Get()
	Set(New("debug", zapcore.AddSync(&buf)))
	t.Cleanup(func() { Set(prev) })

	Error("render failed", Err(errors.New("boom")))

	assert.Contains(t, buf.String(), `"msg":"render failed"`)
	assert.Contains(t, buf.String(), `"error":"boom"`)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("verbose"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
}
