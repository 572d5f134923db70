package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New("info", "json", &buf)

	log.Info("ingest_finished", slog.Int("saved", 3))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ingest_finished", entry["msg"])
	assert.Equal(t, float64(3), entry["saved"])
}

func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New("info", "TEXT", &buf)

	log.Info("hello")

	assert.True(t, strings.Contains(buf.String(), "msg=hello"))
}

func TestNew_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New("warn", "json", &buf)

	log.Info("dropped")
	assert.Empty(t, buf.String())

	log.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestNew_RedactsSensitiveKeys(t *testing.T) {
	var buf bytes.Buffer
	log := New("info", "json", &buf)

	log.Info("config", slog.String("password", "hunter2"), slog.String("Token", "abc"), slog.String("user", "bob"))

	out := buf.String()
	assert.NotContains(t, out, "hunter2")
	assert.NotContains(t, out, "abc")
	assert.Contains(t, out, RedactedValue)
	assert.Contains(t, out, "bob")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), tt.in)
	}
}

func TestOrDiscard(t *testing.T) {
	assert.NotNil(t, OrDiscard(nil))

	l := slog.Default()
	assert.Same(t, l, OrDiscard(l))
}

func TestRedactURL(t *testing.T) {
	assert.Equal(t, "postgres://mail:xxxxx@db:5432/archive", RedactURL("postgres://mail:secret@db:5432/archive"))
	assert.Equal(t, "sqlite:archive.db", RedactURL("sqlite:archive.db"))
	assert.Equal(t, "postgres://db/archive", RedactURL("postgres://db/archive"))
}

func TestIsSensitiveKey(t *testing.T) {
	assert.True(t, isSensitiveKey("password"))
	assert.True(t, isSensitiveKey("api_key"))
	assert.False(t, isSensitiveKey("email"))
}
