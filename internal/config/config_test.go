package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_API_TOKEN", "token")
	t.Setenv("DATABASE_URL", "postgres://localhost/db")

	cfg, err := load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "token", cfg.TelegramAPIToken)
	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "assets/content", cfg.Content.Dir)
	assert.Equal(t, "chapters.json", cfg.Content.Manifest)
	assert.Equal(t, 10, cfg.Study.SessionSize)
	assert.Equal(t, 5, cfg.Study.MaxNewConcepts)
	assert.Equal(t, 50, cfg.Study.ExamSize)
	assert.Equal(t, StorageDriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, 30*time.Second, cfg.DB.MaxConnLifetime)
	assert.Equal(t, 10*time.Second, cfg.Sync.Timeout)
	assert.Equal(t, "*/15 * * * *", cfg.Sync.Schedule)
	assert.Empty(t, cfg.Sync.URL)

	dsn, err := cfg.DB.DSN()
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/db", dsn)
}

func TestLoadFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := `
env: production
study:
  session_size: 15
storage:
  driver: file
  file_dir: /tmp/profiles
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	t.Setenv("TELEGRAM_API_TOKEN", "token")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SYNC_URL", "https://sync.example.com/exec")
	t.Setenv("STUDY_EXAM_SIZE", "20")

	cfg, err := load(dir)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, 15, cfg.Study.SessionSize)
	assert.Equal(t, 20, cfg.Study.ExamSize)
	assert.Equal(t, StorageDriverFile, cfg.Storage.Driver)
	assert.Equal(t, "/tmp/profiles", cfg.Storage.FileDir)
	assert.Equal(t, "https://sync.example.com/exec", cfg.Sync.URL)
}

func TestLoadMissingToken(t *testing.T) {
	t.Setenv("TELEGRAM_API_TOKEN", "")

	_, err := load(t.TempDir())
	assert.True(t, errors.Is(err, ErrMissingEnvironmentVariables))
}

func TestLoadPostgresRequiresDatabaseURL(t *testing.T) {
	t.Setenv("TELEGRAM_API_TOKEN", "token")
	t.Setenv("DATABASE_URL", "")

	_, err := load(t.TempDir())
	assert.True(t, errors.Is(err, ErrMissingEnvironmentVariables))
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("TELEGRAM_API_TOKEN", "token")
	t.Setenv("DATABASE_URL", "postgres://localhost/db")
	t.Setenv("STUDY_SESSION_SIZE", "0")

	_, err := load(t.TempDir())
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("TELEGRAM_API_TOKEN", "token")
	t.Setenv("STORAGE_DRIVER", "sqlite")

	_, err := load(t.TempDir())
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}
