package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "127.0.0.1", cfg.App.HttpHost)
	assert.Equal(t, "8080", cfg.App.HttpPort)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, DefaultDataDir(), cfg.Wallet.DataDir)
	assert.Equal(t, "default", cfg.Wallet.Name)
	assert.Equal(t, "bip44", cfg.Wallet.Derivation)
	assert.Equal(t, 210000, cfg.Wallet.KDFIterations)
	assert.True(t, cfg.Storage.AtomicWrite)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wallet.yaml")
	content := `
app:
  env: production
wallet:
  data_dir: /tmp/mth
  derivation: legacy-seed
storage:
  atomic_write: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	t.Setenv("MTH_WALLET_PASSWORD", "from-env")
	t.Setenv("MTH_LOG_LEVEL", "debug")
	t.Setenv("MTH_APP_HTTP_HOST", "0.0.0.0")

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.App.Env)
	assert.Equal(t, "/tmp/mth", cfg.Wallet.DataDir)
	assert.Equal(t, "legacy-seed", cfg.Wallet.Derivation)
	assert.False(t, cfg.Storage.AtomicWrite)
	assert.Equal(t, "from-env", cfg.Wallet.Password)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "0.0.0.0", cfg.App.HttpHost)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
