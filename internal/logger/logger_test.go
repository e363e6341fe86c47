package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNewLogger_NotNil(t *testing.T) {
	require.NotNil(t, NewLogger("test"))
}

func TestNewLevelLogger_RoleAndTimestamp(t *testing.T) {
	var buf bytes.Buffer
	l := NewLevelLogger("vault", "debug", &buf)

	l.Info().Msg("hello")

	entry := decodeEntry(t, &buf)
	assert.Equal(t, "vault", entry["role"])
	assert.Contains(t, entry, "time")
	assert.Equal(t, "hello", entry["message"])
}

func TestNewLevelLogger_CallerFieldName(t *testing.T) {
	NewLevelLogger("caller", "info", &bytes.Buffer{})
	assert.Equal(t, "func", zerolog.CallerFieldName)
}

func TestNewLevelLogger_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewLevelLogger("vault", "warn", &buf)

	l.Info().Msg("dropped")
	assert.Empty(t, buf.String())

	l.Warn().Msg("kept")
	assert.NotEmpty(t, buf.String())

	// restore for other tests
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"  WARN ", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"nonsense", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNop_DiscardsOutput(t *testing.T) {
	var buf bytes.Buffer
	l := Nop()
	l.Logger = l.Output(&buf)

	l.Info().Msg("should be discarded")
	assert.Empty(t, buf.String())
}

func TestGetChildLogger_InheritsFields(t *testing.T) {
	var buf bytes.Buffer
	parent := NewLevelLogger("inherited-role", "debug", &buf)

	child := parent.GetChildLogger()
	assert.NotSame(t, parent, child)

	child.Info().Msg("child message")
	assert.Equal(t, "inherited-role", decodeEntry(t, &buf)["role"])
}

func TestWithContext_FromContext_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	l := NewLevelLogger("ctx-role", "debug", &buf)

	ctx := l.WithContext(context.Background())
	FromContext(ctx).Info().Msg("from context")

	assert.Equal(t, "ctx-role", decodeEntry(t, &buf)["role"])
}

func TestFromContext_NeverNil(t *testing.T) {
	require.NotNil(t, FromContext(context.Background()))
}
