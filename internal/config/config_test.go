package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	t.Setenv("TQ_STORE", "sqlite")
	t.Setenv("TQ_TIMEZONE", "UTC")
	t.Setenv("TQ_SWEEP_INTERVAL", "")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Store)
	assert.Equal(t, time.UTC, cfg.Location)
	assert.Equal(t, 60*time.Second, cfg.SweepInterval)
	assert.Equal(t, 72*time.Hour, cfg.JWTTTL)
	assert.True(t, cfg.AllowLocalAuth)
}

func TestOverrides(t *testing.T) {
	t.Setenv("TQ_STORE", "Memory")
	t.Setenv("TQ_TIMEZONE", "Asia/Ho_Chi_Minh")
	t.Setenv("TQ_SWEEP_INTERVAL", "5m")
	t.Setenv("TQ_DEMO_RIVALS", "true")
	t.Setenv("TQ_USERNAME", "ann")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Store)
	assert.Equal(t, "Asia/Ho_Chi_Minh", cfg.Location.String())
	assert.Equal(t, 5*time.Minute, cfg.SweepInterval)
	assert.True(t, cfg.DemoRivals)
	assert.Equal(t, "ann", cfg.Username)
}

func TestInvalidValues(t *testing.T) {
	cases := map[string]string{
		"TQ_STORE":          "postgres",
		"TQ_TIMEZONE":       "Mars/Olympus",
		"TQ_SWEEP_INTERVAL": "soon",
		"TQ_DEMO_RIVALS":    "maybe",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, val)
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestNonPositiveSweep(t *testing.T) {
	t.Setenv("TQ_SWEEP_INTERVAL", "0s")
	_, err := FromEnv()
	assert.Error(t, err)
}
