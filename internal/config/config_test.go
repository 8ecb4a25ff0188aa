package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, defaultPort, cfg.Port)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, DriverMySQL, cfg.Database.Driver)
	assert.Equal(t, UploadLocal, cfg.Upload.Driver)
	assert.Equal(t, defaultUploadMaxMB, cfg.Upload.MaxSizeMB)
}

func TestParseNormalizes(t *testing.T) {
	cfg, err := Parse([]byte(`
port: 9000
env: " Production "
database:
  driver: SQLite
  path: data/blog.db
allowed_origins: [" https://a.example.com ", ""]
upload:
  public_base_url: "https://cdn.example.com/"
`))
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)
	assert.False(t, cfg.IsDev())
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "data/blog.db", cfg.Database.DSNValue())
	assert.Equal(t, []string{"https://a.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, "https://cdn.example.com", cfg.Upload.PublicBaseURL)
}

func TestParseRejects(t *testing.T) {
	cases := map[string]string{
		"unknown field":    "colour: red\n",
		"port range":       "port: 70000\n",
		"database driver":  "database:\n  driver: postgres\n",
		"upload driver":    "upload:\n  driver: ftp\n",
		"incomplete s3":    "upload:\n  driver: s3\n  s3:\n    bucket: media\n",
		"mysql port range": "database:\n  port: 0\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvJWTSecret, " from-env ")
	t.Setenv(EnvDSN, "user:pw@tcp(db:3306)/blog")
	t.Setenv(EnvRedisURL, "redis://cache:6379/0")

	cfg, err := Parse([]byte("jwt_secret: from-file\n"))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.JWTSecret)
	assert.Equal(t, "user:pw@tcp(db:3306)/blog", cfg.Database.DSNValue())
	assert.Equal(t, "redis://cache:6379/0", cfg.RedisURL)
}

func TestDSNValue(t *testing.T) {
	db := DatabaseConfig{
		Driver:   DriverMySQL,
		Host:     "127.0.0.1",
		Port:     3306,
		User:     "root",
		Password: "secret",
		Name:     "blog",
		Charset:  "utf8mb4",
		Params:   map[string]string{"timeout": "5s"},
	}
	assert.Equal(t, "root:secret@tcp(127.0.0.1:3306)/blog?charset=utf8mb4&loc=Local&parseTime=True&timeout=5s", db.DSNValue())

	db.Password = ""
	db.Params = nil
	assert.Equal(t, "root@tcp(127.0.0.1:3306)/blog?charset=utf8mb4&loc=Local&parseTime=True", db.DSNValue())
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("port: 8181\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8181, cfg.Port)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestResolveRuntimePath(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "logs")
	assert.Equal(t, abs, ResolveRuntimePath(abs, "ignored"))
	assert.Equal(t, filepath.Join(ExecutableDir(), "static"), ResolveRuntimePath("", "static"))
}
