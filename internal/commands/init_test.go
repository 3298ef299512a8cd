package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/tallybook-dev/tallybook/internal/config"
	"github.com/tallybook-dev/tallybook/internal/store"
)

func TestRunInit(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, runInit(dir, "BRL"))

	_, err := os.Stat(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "accounts.csv"))
	require.NoError(t, err)

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, "BRL", cfg.Ledger.Currency)

	st, err := store.Open(dir, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NoError(t, st.With(func(u *store.Unit) error {
		accounts := u.Accounts()
		assert.NotEmpty(t, accounts)
		_, err := u.AccountByCode("Assets:Checking")
		assert.NoError(t, err)
		_, err = u.AccountByCode("Liabilities:CreditCard")
		assert.NoError(t, err)
		return nil
	}))
}

func TestRunInit_RefusesExistingConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, runInit(dir, "BRL"))
	assert.Error(t, runInit(dir, "BRL"))
}
