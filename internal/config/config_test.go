package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "./static", cfg.Server.StaticDir)
	assert.Equal(t, "./templates", cfg.Server.TemplatesDir)
	assert.True(t, cfg.ADO.SecureFetch)
	assert.Equal(t, "https://dev.azure.com/jusmoore", cfg.ADO.Organization)
	assert.Equal(t, "json", cfg.Logger.Format)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORAGE_ACCOUNT", "backendstor")
	t.Setenv("STORAGE_CONTAINER", "data")
	t.Setenv("ADO_SECURE_FETCH", "false")
	t.Setenv("LOGGER_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "backendstor", cfg.Storage.Account)
	assert.Equal(t, "data", cfg.Storage.Container)
	assert.False(t, cfg.ADO.SecureFetch)
	assert.Equal(t, "debug", cfg.Logger.Level)
}
