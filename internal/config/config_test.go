package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("KOSTENTRACKER_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "openai", cfg.LLM.Provider)
	require.Equal(t, "OPENAI_API_KEY", cfg.LLM.APIKeyEnv)
	require.Equal(t, 60, cfg.LLM.TimeoutSec)
	require.Equal(t, "info", cfg.Log.Level)
	require.NotEmpty(t, cfg.Project.Path)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("KOSTENTRACKER_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))
	t.Setenv("KOSTENTRACKER_LLM_MODEL", "gpt-4o")
	t.Setenv("KOSTENTRACKER_LOG_LEVEL", "debug")
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "gpt-4o", cfg.LLM.Model)
	require.Equal(t, "debug", cfg.Log.Level)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	t.Setenv("KOSTENTRACKER_CONFIG", path)

	want, err := Load()
	require.NoError(t, err)
	want.LLM.Model = "gpt-4o"
	want.Project.Path = "/tmp/projekt.avproj.json"
	require.NoError(t, Save(want))

	got, err := Load()
	require.NoError(t, err)
	require.Equal(t, want.LLM.Model, got.LLM.Model)
	require.Equal(t, want.Project.Path, got.Project.Path)
}
