package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRedactsSecretKeys(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := FromZap(zap.New(core))

	log.Info("login", "init_data", "query_id=1&hash=abc", "tokens", 12, "user_id", "u1")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "[REDACTED]", fields["init_data"])
	assert.EqualValues(t, 12, fields["tokens"])
	assert.Equal(t, "u1", fields["user_id"])
}

func TestWithCarriesFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := FromZap(zap.New(core)).With("component", "engine")
	log.Debug("tick")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "engine", logs.All()[0].ContextMap()["component"])
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New("dev", "loud")
	assert.Error(t, err)

	l, err := New("prod", "warn")
	require.NoError(t, err)
	l.Info("dropped")
}

func TestOddKeyValueCount(t *testing.T) {
	out := redact([]any{"a", 1, "dangling"})
	assert.Equal(t, []any{"a", 1, "dangling"}, out)
}
