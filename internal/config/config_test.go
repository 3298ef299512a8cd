package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := Default(dir, "BRL")
	cfg.Log.Level = "debug"

	path := filepath.Join(dir, FileName)
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, dir, got.Ledger.Dir)
	assert.Equal(t, "BRL", got.Ledger.Currency)
	assert.Equal(t, "BRL", got.Tax.Currency)
	assert.Equal(t, "debug", got.Log.Level)
}

func TestDefaults(t *testing.T) {
	cfg := Default("/tmp/books", "USD")
	assert.Equal(t, "/tmp/books", cfg.Ledger.Dir)
	assert.Equal(t, "USD", cfg.Ledger.Currency)
	assert.Equal(t, "USD", cfg.Tax.Currency)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	cfg := Default(dir, "BRL")
	path := filepath.Join(dir, FileName)
	require.NoError(t, Save(path, cfg))

	t.Setenv("TALLYBOOK_CURRENCY", "USD")
	t.Setenv("TALLYBOOK_LOG_LEVEL", "warn")

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "USD", got.Ledger.Currency)
	assert.Equal(t, "warn", got.Log.Level)
	assert.Equal(t, dir, got.Ledger.Dir)
}

func TestDotEnvFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Save(filepath.Join(dir, FileName), Default(dir, "BRL")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("TALLYBOOK_CURRENCY=EUR\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("TALLYBOOK_CURRENCY") })

	got, err := Load(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.Equal(t, "EUR", got.Ledger.Currency)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
}
