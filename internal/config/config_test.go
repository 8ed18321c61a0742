// internal/config/config_test.go
package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	t.Parallel()
	cfg := NewDefaultConfig()

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Contains(t, cfg.Search.Extensions, ".tsx")
	assert.Contains(t, cfg.Search.Extensions, ".vue")
	assert.Contains(t, cfg.Search.ExcludeDirs, "node_modules")
	assert.False(t, cfg.Patch.DryRun)
	assert.False(t, cfg.Oracle.Enabled)
	assert.Equal(t, ProviderGemini, cfg.Oracle.Model.Provider)
	assert.Equal(t, 60*time.Second, cfg.Oracle.Model.APITimeout)
}

func TestNewConfigFromViper_Overrides(t *testing.T) {
	t.Parallel()
	v := viper.New()
	SetDefaults(v)
	v.Set("logger.level", "debug")
	v.Set("search.extensions", []string{".html"})
	v.Set("patch.dry_run", true)

	cfg, err := NewConfigFromViper(v)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, []string{".html"}, cfg.Search.Extensions)
	assert.True(t, cfg.Patch.DryRun)
}

func TestValidate_OracleRequiresKey(t *testing.T) {
	t.Parallel()
	cfg := NewDefaultConfig()
	cfg.Oracle.Enabled = true
	cfg.Oracle.Model.APIKey = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api_key")

	cfg.Oracle.Model.APIKey = "secret"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_ExtensionsRequired(t *testing.T) {
	t.Parallel()
	cfg := NewDefaultConfig()
	cfg.Search.Extensions = nil
	assert.Error(t, cfg.Validate())
}
