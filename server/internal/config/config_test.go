package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	root := t.TempDir()

	conf, _, err := Load(root)
	require.NoError(t, err)

	assert.Equal(t, "5050", conf.Server.Port)
	assert.Equal(t, 30, conf.Server.RateLimit)
	assert.Equal(t, "postgres", conf.Database.Driver)
	assert.Equal(t, "triage-db", conf.Database.DBName)
	assert.Equal(t, filepath.Join(root, "config", "surveys"), conf.Survey.Directory)
	assert.Equal(t, "standard", conf.Survey.DefaultVariant)
	assert.Equal(t, filepath.Join(root, "logs"), conf.Logging.Directory)
	assert.Equal(t, 7*24*time.Hour, conf.Retention.DraftTTL)
	assert.Equal(t, time.Hour, conf.Retention.SweepInterval)
}

func TestLoadFileAndEnv(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "config"), 0755))

	content := `server:
  port: "9000"
database:
  driver: sqlite
  dbname: /tmp/triage.db
survey:
  directory: /etc/triage/surveys
  default_variant: short
retention:
  draft_ttl: 48h
`
	require.NoError(t, os.WriteFile(filepath.Join(root, "config", "config.yaml"), []byte(content), 0644))
	t.Setenv("TRIAGE_SERVER_RATE_LIMIT", "5")

	conf, _, err := Load(root)
	require.NoError(t, err)

	assert.Equal(t, "9000", conf.Server.Port)
	assert.Equal(t, 5, conf.Server.RateLimit)
	assert.Equal(t, "sqlite", conf.Database.Driver)
	assert.Equal(t, "/etc/triage/surveys", conf.Survey.Directory)
	assert.Equal(t, "short", conf.Survey.DefaultVariant)
	assert.Equal(t, 48*time.Hour, conf.Retention.DraftTTL)
}

func TestLoadMalformedFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "config"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "config", "config.yaml"), []byte("server:\n\t port: 1\n"), 0644))

	_, _, err := Load(root)
	assert.Error(t, err)
}

func TestInitSetsGlobal(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, Init(root, zap.NewNop()))
	require.NotNil(t, Conf)
	assert.Equal(t, "5050", Conf.Server.Port)
}
