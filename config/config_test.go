package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "test-key", cfg.GeminiAPIKey)
	assert.Equal(t, "gemini-2.5-flash", cfg.Model)
	assert.Equal(t, "gemini", cfg.Provider)
	assert.Equal(t, "logs", cfg.LogDir)
	assert.Equal(t, "me", cfg.MeDir)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("GEMINI_MODEL", "gemini-2.5-pro")
	t.Setenv("LOG_DIR", "/var/log/concierge")
	t.Setenv("ME_DIR", "/etc/concierge/me")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-pro", cfg.Model)
	assert.Equal(t, "/var/log/concierge", cfg.LogDir)
	assert.Equal(t, "/etc/concierge/me", cfg.MeDir)
}

func TestGroundingPaths(t *testing.T) {
	cfg := Config{MeDir: "me"}
	assert.Equal(t, filepath.Join("me", "business_summary.txt"), cfg.SummaryPath())
	assert.Equal(t, filepath.Join("me", "about_business.pdf"), cfg.ReferencePath())
}
