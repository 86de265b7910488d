package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"consumption-heatmap/internal/pivot"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, c.Server.Port)
	assert.Equal(t, int64(32<<20), c.Upload.MaxBytes)
	assert.Equal(t, 3, c.Transform.PreambleRows)
	assert.Equal(t, "heatmap.html", c.Render.DefaultFileName)
	assert.Equal(t, "Heatmapa spotřeby elektřiny", c.Render.DefaultTitle)
	assert.Equal(t, pivot.KeepFirst, c.Transform.DuplicatePolicy())
	assert.False(t, c.IsProduction())
}

func TestLoadFileThenEnv(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  env: production
upload:
  ttl: 5m
transform:
  preamble_rows: 0
  duplicates: keep-last
log:
  format: json
`)
	t.Setenv("HEATMAP_SERVER_PORT", "7070")
	t.Setenv("HEATMAP_CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, c.Server.Port)
	assert.True(t, c.IsProduction())
	assert.Equal(t, 5*time.Minute, c.Upload.TTL)
	assert.Equal(t, 0, c.Transform.PreambleRows)
	assert.Equal(t, pivot.KeepLast, c.Transform.DuplicatePolicy())
	assert.Equal(t, "json", c.Log.Format)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, c.CORS.AllowedOrigins)
	// untouched sections keep their defaults
	assert.Equal(t, int64(32<<20), c.Upload.MaxBytes)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	c := Default()
	c.Server.Port = 0
	c.Transform.Duplicates = "keep-middle"
	c.Log.Level = "loud"
	c.Log.Format = "xml"
	c.Transform.Timezone = "Mars/Olympus"

	err := c.Validate()
	require.Error(t, err)
	for _, want := range []string{"server.port", "transform.duplicates", "log.level", "log.format", "transform.timezone"} {
		assert.Contains(t, err.Error(), want)
	}

	var nilCfg *Config
	assert.Error(t, nilCfg.Validate())
}

func TestTransformOptions(t *testing.T) {
	tc := Default().Transform
	tc.Timezone = "Europe/Prague"

	opts, err := tc.Options()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Prague", opts.Location.String())
	assert.Equal(t, pivot.DefaultTimestampLayout, opts.TimestampLayout)
}

func TestExampleConfigMatchesDefaults(t *testing.T) {
	c, err := Load(filepath.Join("..", "..", "config.example.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}
