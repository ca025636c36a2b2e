package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 9090
database:
  dsn: "host=localhost user=fin dbname=fin"
jwt:
  secret: "file-secret"
  expire_minutes: 45
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.Addr())
	assert.Equal(t, "file-secret", cfg.JWT.Secret)
	assert.Equal(t, 45, cfg.JWT.ExpireMinutes)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Equal(t, 10, cfg.Security.BcryptCost)
}

func TestLoadFromEnvOnly(t *testing.T) {
	t.Setenv("FINBOOK_JWT_SECRET", "env-secret")
	t.Setenv("FINBOOK_DATABASE_DSN", "host=db user=fin dbname=fin")

	// Point at an empty directory so no config.yaml is picked up.
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "env-secret", cfg.JWT.Secret)
	assert.Equal(t, 30, cfg.JWT.ExpireMinutes)
}

func TestLoadRejectsMissingSecret(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	_, err = Load("")
	assert.Error(t, err)
}
