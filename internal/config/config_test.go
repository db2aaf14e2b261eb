package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "ledgerd.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `{"dbConn":"localhost:5432","dbName":"ledger","dbUser":"u","dbPass":"p"}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, uint32(10), cfg.DefaultPageSize)
	assert.Equal(t, 8, cfg.SettingsCacheSize)
}

func TestLoad_RejectsMissingRequiredField(t *testing.T) {
	path := writeConfig(t, `{"dbConn":"localhost:5432","dbName":"ledger","dbUser":"u"}`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestConnString_EscapesCredentials(t *testing.T) {
	cfg := &Config{DBConn: "localhost:5432", DBName: "ledger", DBUser: "u", DBPass: "p@ss word"}
	assert.Contains(t, cfg.ConnString(), "p%40ss+word")
}
