package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TELEGRAM_TOKEN")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "123:abc")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.TelegramToken)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultBatchDelay, cfg.BatchDelay)
	assert.Empty(t, cfg.RequiredChannel)
	assert.NotEmpty(t, cfg.CobaltAPI)
	assert.NotEmpty(t, cfg.TikwmAPI)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("PORT", "8090")
	t.Setenv("REQUIRED_CHANNEL", "@mychannel")
	t.Setenv("BATCH_DELAY", "5s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8090, cfg.Port)
	assert.Equal(t, "@mychannel", cfg.RequiredChannel)
	assert.Equal(t, 5*time.Second, cfg.BatchDelay)
}
