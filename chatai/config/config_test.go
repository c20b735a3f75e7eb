package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "http://localhost:5173", cfg.ClientOrigin)
	assert.Equal(t, DefaultSystemInstruction, cfg.SystemInstruction)
	assert.Equal(t, DefaultFallbackMessage, cfg.FallbackMessage)
}

func TestLoadConfigTokenTTL(t *testing.T) {
	t.Setenv("TOKEN_TTL", "30m")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)

	t.Setenv("TOKEN_TTL", "not-a-duration")
	_, err = LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigPromptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompt.yaml")
	content := "system_instruction: Answer briefly.\nfallback_message: Try later.\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("PROMPT_FILE", path)
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "Answer briefly.", cfg.SystemInstruction)
	assert.Equal(t, "Try later.", cfg.FallbackMessage)
}

func TestLoadConfigPromptFileMissing(t *testing.T) {
	t.Setenv("PROMPT_FILE", filepath.Join(t.TempDir(), "nope.yaml"))
	_, err := LoadConfig()
	assert.Error(t, err)
}
