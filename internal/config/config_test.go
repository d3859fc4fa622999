package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg := LoadFrom(t.TempDir())

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "warn", cfg.App.LogLevel)
	assert.Equal(t, "data/products.dat", cfg.Storage.DataFile)
	assert.Equal(t, "data/products.bak", cfg.Storage.BackupFile)
	assert.True(t, cfg.Storage.AutoSave)
}

func TestLoadFrom_EnvFile(t *testing.T) {
	dir := t.TempDir()
	content := "INVENTORY_DATA_FILE=/var/lib/inventory/items.dat\nINVENTORY_AUTOSAVE=false\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o644))

	cfg := LoadFrom(dir)
	assert.Equal(t, "/var/lib/inventory/items.dat", cfg.Storage.DataFile)
	assert.False(t, cfg.Storage.AutoSave)
}

func TestLoadFrom_EnvironmentWins(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("APP_ENV=staging\n"), 0o644))
	t.Setenv("APP_ENV", "production")
	t.Setenv("INVENTORY_BACKUP_FILE", "backup.bak")

	cfg := LoadFrom(dir)
	assert.Equal(t, "production", cfg.App.Env)
	assert.Equal(t, "backup.bak", cfg.Storage.BackupFile)
}
