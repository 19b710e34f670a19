package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinegrok-backend/internal/config"
)

func setRequired(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://project.supabase.co")
	t.Setenv("SUPABASE_PUBLISHABLE_KEY", "anon-key")
	t.Setenv("SUPABASE_JWT_SECRET", "jwt-secret")
}

func TestLoadFrom_EnvDefaults(t *testing.T) {
	setRequired(t)
	t.Setenv("ALLOWED_ORIGINS", "https://cinegrok.app, https://admin.cinegrok.app")
	t.Setenv("DRAFT_TTL", "2h")

	cfg, err := config.LoadFrom("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "prompt", cfg.ProducerGate)
	assert.Equal(t, "profile-photos", cfg.SupabaseStorageBucket)
	assert.Equal(t, 2*time.Hour, cfg.DraftTTL)
	assert.Equal(t, 3*time.Second, cfg.ClickTimeout)
	assert.Equal(t, []string{"https://cinegrok.app", "https://admin.cinegrok.app"}, cfg.AllowedOrigins)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadFrom_YAMLOverlay(t *testing.T) {
	setRequired(t)
	path := filepath.Join(t.TempDir(), "cinegrok.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "9090"
producer_gate: noop
ollama_timeout: 45s
environment: production
`), 0o600))

	cfg, err := config.LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "noop", cfg.ProducerGate)
	assert.Equal(t, 45*time.Second, cfg.OllamaTimeout)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "https://project.supabase.co", cfg.SupabaseURL)
}

func TestLoadFrom_MissingFile(t *testing.T) {
	setRequired(t)
	_, err := config.LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &config.Config{
		SupabaseURL:            "https://project.supabase.co",
		SupabasePublishableKey: "anon-key",
		SupabaseJWTSecret:      "jwt-secret",
		ProducerGate:           "prompt",
	}
	assert.NoError(t, cfg.Validate())

	cfg.ProducerGate = "dialog"
	assert.Error(t, cfg.Validate())

	cfg.ProducerGate = "noop"
	cfg.SupabaseJWTSecret = ""
	assert.ErrorContains(t, cfg.Validate(), "SUPABASE_JWT_SECRET")
}
