package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults()
	BindEnv()
}

func TestLoad_Defaults(t *testing.T) {
	// viper ignora variables vacías
	for _, k := range []string{"DB_DSN", "PORT", "LOG_LEVEL", "LOG_FORMAT", "MOLTMON_DATA_DIR"} {
		t.Setenv(k, "")
	}
	setup(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, *Default(), *cfg)
	assert.Equal(t, int64(200), cfg.Web.TickInterval().Milliseconds())
	assert.Equal(t, int64(250), cfg.Terminal.TickInterval().Milliseconds())
}

func TestLoad_PrefixedEnv(t *testing.T) {
	t.Setenv("MOLTMON_DATA_DIR", "/tmp/pets")
	t.Setenv("MOLTMON_DEV_MODE", "true")
	t.Setenv("MOLTMON_WEB_TICK_INTERVAL_MS", "50")
	setup(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/pets", cfg.DataDir)
	assert.True(t, cfg.DevMode)
	assert.Equal(t, 50, cfg.Web.TickIntervalMs)
}

func TestLoad_LegacyEnvNames(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/moltmon")
	t.Setenv("PORT", "8081")
	t.Setenv("LOG_LEVEL", "debug")
	setup(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/moltmon", cfg.Storage.DBDSN)
	assert.Equal(t, 8081, cfg.Web.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_ConfigFile(t *testing.T) {
	setup(t)
	path := filepath.Join(t.TempDir(), "moltmon.yaml")
	require.NoError(t, os.WriteFile(path, []byte("web:\n  port: 4000\njournal:\n  path: \"\"\n"), 0o644))
	viper.SetConfigFile(path)
	require.NoError(t, viper.ReadInConfig())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 4000, cfg.Web.Port)
	assert.Equal(t, "", cfg.JournalPath("/data"))
}

func TestLoad_InvalidValues(t *testing.T) {
	setup(t)
	viper.Set("log.level", "loud")
	viper.Set("web.port", 0)
	viper.Set("nats.url", "nats://localhost:4222")
	viper.Set("nats.subject", " ")

	_, err := Load()
	require.Error(t, err)

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := make([]string, len(verrs))
	for i, e := range verrs {
		fields[i] = e.Field
	}
	assert.ElementsMatch(t, []string{"log.level", "web.port", "nats.subject"}, fields)
	assert.Contains(t, err.Error(), "3 validation errors")
}

func TestJournalPath(t *testing.T) {
	cfg := Default()
	assert.Equal(t, filepath.Join("/data", "journal.db"), cfg.JournalPath("/data"))

	cfg.Journal.Path = ":memory:"
	assert.Equal(t, ":memory:", cfg.JournalPath("/data"))
}

func TestLoad_RemoteURL(t *testing.T) {
	setup(t)
	viper.Set("remote.url", "localhost:3000")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "remote.url")

	viper.Set("remote.url", "http://localhost:3000")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.Remote.Timeout())
}

func TestLoadEnvFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("MOLTMON_DOTENV_PROBE=from-file\nMOLTMON_LOG_LEVEL=debug\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv("MOLTMON_DOTENV_PROBE") })
	t.Setenv("MOLTMON_LOG_LEVEL", "warn")

	loaded := LoadEnvFiles(dir)
	assert.Equal(t, []string{filepath.Join(dir, ".env")}, loaded)
	assert.Equal(t, "from-file", os.Getenv("MOLTMON_DOTENV_PROBE"))
	assert.Equal(t, "warn", os.Getenv("MOLTMON_LOG_LEVEL"), "existing variables win")

	assert.Empty(t, LoadEnvFiles(t.TempDir()))
}
