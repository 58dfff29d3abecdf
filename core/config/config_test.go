package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "inventory", cfg.Database.Name)
	assert.Equal(t, "UTC", cfg.Inventory.Timezone)
	assert.Equal(t, "@every 1h", cfg.Inventory.SweepSchedule)
	assert.Equal(t, "local", cfg.Insights.Provider)
	assert.Equal(t, "memory", cfg.Insights.Cache)
	assert.Equal(t, "log", cfg.Notify.Driver)
	assert.Equal(t, 4, cfg.Scan.Workers)
}

func TestLoadConfig_EnvFileAndOverrides(t *testing.T) {
	dir := t.TempDir()
	env := "INSIGHTS_PROVIDER=gemini\nINSIGHTS_API_KEY=secret\nDATABASE_DRIVER=sqlite\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600))

	t.Setenv("INVENTORY_TIMEZONE", "Europe/Madrid")
	t.Setenv("SCAN_WORKERS", "2")
	// godotenv.Overload writes into the process environment; restore afterwards
	t.Setenv("INSIGHTS_PROVIDER", "")
	t.Setenv("INSIGHTS_API_KEY", "")
	t.Setenv("DATABASE_DRIVER", "")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.Insights.Provider)
	assert.Equal(t, "secret", cfg.Insights.APIKey)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "Europe/Madrid", cfg.Inventory.Timezone)
	assert.Equal(t, 2, cfg.Scan.Workers)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		cfg, err := LoadConfig(t.TempDir())
		require.NoError(t, err)
		return cfg
	}

	t.Run("Defaults", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("GeminiWithoutKey", func(t *testing.T) {
		cfg := valid()
		cfg.Insights.Provider = "gemini"
		cfg.Insights.APIKey = ""
		assert.ErrorContains(t, cfg.Validate(), "insights.api_key")
	})

	t.Run("ReportsEveryProblem", func(t *testing.T) {
		cfg := valid()
		cfg.Database.Driver = "postgres"
		cfg.Inventory.Timezone = "Mars/Olympus"
		cfg.Insights.Cache = "memcached"
		cfg.Notify.Driver = "smtp"

		err := cfg.Validate()
		require.Error(t, err)
		for _, key := range []string{"database.driver", "inventory.timezone", "insights.cache", "notify.driver"} {
			assert.ErrorContains(t, err, key)
		}
	})
}

func TestLoadConfig_RejectsInvalidValues(t *testing.T) {
	t.Setenv("NOTIFY_DRIVER", "pigeon")

	_, err := LoadConfig(t.TempDir())
	assert.ErrorContains(t, err, "notify.driver")
}
