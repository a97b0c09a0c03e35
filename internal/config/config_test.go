package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromEnv(t *testing.T) {
	// Run from an empty directory so no stray config.yaml or .env is picked up.
	t.Chdir(t.TempDir())

	t.Run("Success", func(t *testing.T) {
		t.Setenv("MEALPLANNER_GEMINI_API_KEY", "gemini_key")
		t.Setenv("MEALPLANNER_STORAGE_DRIVER", "memory")

		cfg, err := NewFromEnv()
		require.NoError(t, err)
		assert.Equal(t, "gemini_key", cfg.Gemini.APIKey)
		assert.Equal(t, DriverMemory, cfg.Storage.Driver)
		assert.Equal(t, ProviderGemini, cfg.LLM.Provider)
		assert.Equal(t, "gemini-2.0-flash", cfg.Gemini.Model)
		assert.Equal(t, "https://generativelanguage.googleapis.com/v1beta", cfg.Gemini.BaseURL)
		assert.Equal(t, 30*time.Second, cfg.Gemini.Timeout)
		assert.Equal(t, 15.0, cfg.LLM.RequestsPerMinute)
		assert.False(t, cfg.Generator.UseMock)
		assert.Empty(t, cfg.Metrics.PushgatewayURL)
		assert.Equal(t, "meal_planner", cfg.Metrics.Job)
	})

	t.Run("PushgatewayFromEnv", func(t *testing.T) {
		t.Setenv("MEALPLANNER_GEMINI_API_KEY", "gemini_key")
		t.Setenv("MEALPLANNER_METRICS_PUSHGATEWAY_URL", "http://localhost:9091")
		t.Setenv("MEALPLANNER_METRICS_JOB", "nightly")

		cfg, err := NewFromEnv()
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:9091", cfg.Metrics.PushgatewayURL)
		assert.Equal(t, "nightly", cfg.Metrics.Job)
	})

	t.Run("MissingGeminiAPIKey", func(t *testing.T) {
		t.Setenv("MEALPLANNER_GEMINI_API_KEY", "")

		_, err := NewFromEnv()
		require.Error(t, err)
		assert.Equal(t, "MEALPLANNER_GEMINI_API_KEY environment variable not set", err.Error())
	})

	t.Run("MockNeedsNoKey", func(t *testing.T) {
		t.Setenv("MEALPLANNER_GEMINI_API_KEY", "")
		t.Setenv("MEALPLANNER_GENERATOR_USE_MOCK", "true")

		cfg, err := NewFromEnv()
		require.NoError(t, err)
		assert.True(t, cfg.Generator.UseMock)
	})

	t.Run("WithMockOption", func(t *testing.T) {
		t.Setenv("MEALPLANNER_GEMINI_API_KEY", "")

		cfg, err := NewFromEnv(WithMock(true))
		require.NoError(t, err)
		assert.True(t, cfg.Generator.UseMock)

		_, err = NewFromEnv(WithMock(false))
		assert.Error(t, err)
	})

	t.Run("MissingGroqAPIKey", func(t *testing.T) {
		t.Setenv("MEALPLANNER_LLM_PROVIDER", "groq")
		t.Setenv("MEALPLANNER_GROQ_API_KEY", "")

		_, err := NewFromEnv()
		require.Error(t, err)
		assert.Equal(t, "MEALPLANNER_GROQ_API_KEY environment variable not set", err.Error())
	})

	t.Run("UnknownDriver", func(t *testing.T) {
		t.Setenv("MEALPLANNER_GEMINI_API_KEY", "gemini_key")
		t.Setenv("MEALPLANNER_STORAGE_DRIVER", "floppy")

		_, err := NewFromEnv()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown storage driver")
	})
}

func TestLoadFile(t *testing.T) {
	t.Chdir(t.TempDir())

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
gemini:
  api_key: file_key
  model: gemini-1.5-flash
storage:
  driver: redis
redis:
  addr: redis.internal:6380
  prefix: "test:"
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Run("FileValues", func(t *testing.T) {
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "file_key", cfg.Gemini.APIKey)
		assert.Equal(t, "gemini-1.5-flash", cfg.Gemini.Model)
		assert.Equal(t, DriverRedis, cfg.Storage.Driver)
		assert.Equal(t, "redis.internal:6380", cfg.Redis.Addr)
		assert.Equal(t, "test:", cfg.Redis.Prefix)
		assert.Equal(t, "debug", cfg.Log.Level)
	})

	t.Run("EnvOverridesFile", func(t *testing.T) {
		t.Setenv("MEALPLANNER_GEMINI_MODEL", "gemini-2.5-pro")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "gemini-2.5-pro", cfg.Gemini.Model)
	})

	t.Run("MissingExplicitFile", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})
}
