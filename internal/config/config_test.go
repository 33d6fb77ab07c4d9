package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withArgs(t *testing.T, args ...string) {
	t.Helper()
	old := os.Args
	os.Args = append([]string{"syncd"}, args...)
	t.Cleanup(func() { os.Args = old })
}

func TestLoadConfig_Defaults(t *testing.T) {
	withArgs(t)

	cfg := LoadConfig()
	assert.Equal(t, 5*time.Minute, cfg.SyncInterval)
	assert.Equal(t, "drafts.db", cfg.DraftDSN)
	assert.NotEmpty(t, cfg.DocumentDSN)
	assert.Empty(t, cfg.SessionToken)
}

func TestLoadConfig_FlagsOverrideDefaults(t *testing.T) {
	withArgs(t, "-i", "30", "-d", ":memory:", "-t", "tok123")

	cfg := LoadConfig()
	assert.Equal(t, 30*time.Second, cfg.SyncInterval)
	assert.Equal(t, ":memory:", cfg.DraftDSN)
	assert.Equal(t, "tok123", cfg.SessionToken)
}

func TestLoadConfig_JsonOverlay(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "conf.json")
	require.NoError(t, os.WriteFile(file, []byte(`{
		"sync_interval": "90s",
		"draft_dsn": "local.db",
		"secret_key": "s3cret"
	}`), 0o600))

	withArgs(t, "-c", file)

	cfg := LoadConfig()
	assert.Equal(t, 90*time.Second, cfg.SyncInterval)
	assert.Equal(t, "local.db", cfg.DraftDSN)
	assert.Equal(t, "s3cret", cfg.SecretKey)
}

func TestLoadConfig_FlagsWinOverJson(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "conf.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"sync_interval": "90s"}`), 0o600))

	withArgs(t, "-c", file, "-i", "15")

	cfg := LoadConfig()
	assert.Equal(t, 15*time.Second, cfg.SyncInterval)
}
