package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "jwt:\n  secret: s3cret\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, 10*time.Second, cfg.Catalog.Timeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "Anonymous", cfg.Ledger.DefaultReviewAuthor)
	assert.Equal(t, "You", cfg.Ledger.DefaultUploader)
	assert.NotEmpty(t, cfg.Catalog.URL)
}

func TestLoadReadsSections(t *testing.T) {
	path := writeConfig(t, `
server:
  host: 127.0.0.1
  port: 9090
storage:
  driver: sqlite
  sqlite_path: /tmp/campus.db
catalog:
  url: http://catalog.local/events
  timeout: 3s
jwt:
  secret: s3cret
log:
  level: debug
ledger:
  default_review_author: Guest
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "/tmp/campus.db", cfg.Storage.SQLitePath)
	assert.Equal(t, "http://catalog.local/events", cfg.Catalog.URL)
	assert.Equal(t, 3*time.Second, cfg.Catalog.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "Guest", cfg.Ledger.DefaultReviewAuthor)
	assert.Equal(t, "You", cfg.Ledger.DefaultUploader)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing secret", body: "storage:\n  driver: memory\n"},
		{name: "unknown driver", body: "storage:\n  driver: redis\njwt:\n  secret: x\n"},
		{name: "malformed yaml", body: "server: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestDSN(t *testing.T) {
	db := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", DBName: "campus", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=campus sslmode=disable", db.DSN())
}
