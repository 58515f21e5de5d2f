package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8000", cfg.HTTPAddr)
	assert.Equal(t, BackendOllama, cfg.LLMBackend)
	assert.Equal(t, 120*time.Second, cfg.GenerationTimeout)
	assert.Equal(t, "it", cfg.WikiLang)
	assert.Equal(t, MemoryFile, cfg.MemoryBackend)
	assert.Equal(t, "default", cfg.DefaultUserID)
	assert.NoError(t, cfg.Validate())
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LLM_BACKEND", "Gemini")
	t.Setenv("GOOGLE_API_KEY", "key")
	t.Setenv("WEB_TIMEOUT", "3s")
	t.Setenv("HISTORY_LIMIT", "6")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendGemini, cfg.LLMBackend)
	assert.Equal(t, "key", cfg.GoogleAPIKey)
	assert.Equal(t, 3*time.Second, cfg.WebTimeout)
	assert.Equal(t, 6, cfg.HistoryLimit)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "advisor.yaml"),
		[]byte("http_addr: \":9090\"\nmemory_backend: postgres\n"), 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.ErrorContains(t, cfg.Validate(), "DATABASE_URL")
}

func TestValidate(t *testing.T) {
	base := Config{
		LLMBackend:        BackendOllama,
		OllamaURL:         "http://localhost:11434",
		GenerationTimeout: time.Second,
		WebTimeout:        time.Second,
		MemoryBackend:     MemoryFile,
		MemoryDir:         "data",
		DefaultUserID:     "default",
	}
	require.NoError(t, base.Validate())

	gemini := base
	gemini.LLMBackend = BackendGemini
	assert.ErrorContains(t, gemini.Validate(), "GOOGLE_API_KEY")

	openai := base
	openai.LLMBackend = BackendOpenAI
	assert.ErrorContains(t, openai.Validate(), "OPENAI_API_KEY")

	unknown := base
	unknown.MemoryBackend = "redis"
	assert.ErrorContains(t, unknown.Validate(), "MEMORY_BACKEND")
}

func TestSlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, Config{LogLevel: "DEBUG"}.SlogLevel())
	assert.Equal(t, slog.LevelInfo, Config{LogLevel: "verbose"}.SlogLevel())
}
