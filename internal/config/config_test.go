package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "sqlite3", cfg.Database.Driver)
	assert.Equal(t, "/media/", cfg.Media.URL)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := "server:\n  port: 9000\n  write_timeout: 30s\nmedia:\n  url: https://cdn.example.com/\n"
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	t.Setenv("BLOG_SERVER_PORT", "9100")
	t.Setenv("BLOG_DATABASE_DATA_DIR", "/var/lib/blog")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, "https://cdn.example.com/", cfg.Media.URL)
	assert.Equal(t, "/var/lib/blog", cfg.Database.DataDir)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"sqlite is valid", func(c *Config) {}, false},
		{"mysql needs dsn", func(c *Config) { c.Database.Driver = "mysql" }, true},
		{"mysql with dsn", func(c *Config) {
			c.Database.Driver = "mysql"
			c.Database.DSN = "blog:blog@tcp(localhost:3306)/blog?parseTime=true"
		}, false},
		{"unknown driver", func(c *Config) { c.Database.Driver = "postgres" }, true},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{
				Server:   ServerConfig{Port: 8080},
				Database: DatabaseConfig{Driver: "sqlite3"},
			}
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "server.port", envKey("BLOG_SERVER_PORT"))
	assert.Equal(t, "database.max_open_conns", envKey("BLOG_DATABASE_MAX_OPEN_CONNS"))
	assert.Equal(t, "debug", envKey("BLOG_DEBUG"))
}
