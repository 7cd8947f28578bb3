package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CARDAPIO_SESSION_SECRET", strings.Repeat("s", 32))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "./data/cardapio.db", cfg.DBPath)
	assert.Equal(t, "localhost:8080", cfg.ServerAddr())
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "menu_images", cfg.ImageBucket)
	assert.Equal(t, "0 4 * * *", cfg.CleanupSchedule)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CARDAPIO_SESSION_SECRET", strings.Repeat("s", 32))
	t.Setenv("CARDAPIO_SERVER_HOST", "0.0.0.0")
	t.Setenv("CARDAPIO_SERVER_PORT", "9000")
	t.Setenv("CARDAPIO_ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9000", cfg.ServerAddr())
	assert.False(t, cfg.IsDevelopment())
}

func TestLoadRejectsShortSecret(t *testing.T) {
	t.Setenv("CARDAPIO_SESSION_SECRET", "curto")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CARDAPIO_SESSION_SECRET")
}

func TestLoadRejectsMissingSecret(t *testing.T) {
	t.Setenv("CARDAPIO_SESSION_SECRET", "")

	_, err := Load()
	require.Error(t, err)
}
