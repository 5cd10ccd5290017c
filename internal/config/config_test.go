package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_FromYAMLFile(t *testing.T) {
	path := writeConfigFile(t, `
COMPANY: demo
API_URL: https://erp.example.com/odata/Priority/tabula.ini/
PRI_API_USERNAME: apiuser
PRI_API_PASSWORD: apipass
SYNEL_API_USER: synel
SYNEL_API_PASSWORD: secret
CLOCK_UPDATE_TIME: 10
`)
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "demo", cfg.Priority.Company)
	assert.Equal(t, "https://erp.example.com/odata/Priority/tabula.ini/", cfg.Priority.APIURL)
	assert.Equal(t, "apiuser", cfg.Priority.Username)
	assert.Equal(t, "synel", cfg.Synel.Login)
	assert.Equal(t, 10*time.Minute, cfg.Sync.ClockInterval)
	assert.Equal(t, "+01:00", cfg.Priority.DateOffset)
	assert.False(t, cfg.HasDatabase())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
COMPANY: demo
API_URL: https://erp.example.com/
PRI_API_USERNAME: apiuser
PRI_API_PASSWORD: apipass
SYNEL_API_USER: synel
SYNEL_API_PASSWORD: secret
`)
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PRIORITY_COMPANY", "prod")
	t.Setenv("CLOCK_UPDATE_INTERVAL", "90s")
	t.Setenv("DB_HOST", "db.internal")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Priority.Company)
	assert.Equal(t, 90*time.Second, cfg.Sync.ClockInterval)
	assert.True(t, cfg.HasDatabase())
	assert.Equal(t, "postgres://postgres:@db.internal:5432/clocksync?sslmode=disable", cfg.DatabaseURL())
}

func TestLoad_MissingCredentials(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yml"))
	t.Setenv("PRIORITY_API_URL", "https://erp.example.com/")
	t.Setenv("PRIORITY_COMPANY", "demo")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PRIORITY_API_USERNAME")
}

func TestValidate_BackfillDate(t *testing.T) {
	cfg := &Config{
		Priority: PriorityConfig{APIURL: "u", Company: "c", Username: "u", Password: "p"},
		Synel:    SynelConfig{Login: "l", Password: "p"},
		Sync:     SyncConfig{ClockInterval: time.Minute, EmployeeInterval: time.Minute, BackfillFrom: "01/05/2024"},
	}
	require.Error(t, cfg.Validate())

	cfg.Sync.BackfillFrom = "2024-05-01"
	assert.NoError(t, cfg.Validate())
}
