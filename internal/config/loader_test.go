package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIsolatedLoader(t *testing.T) *Loader {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	return NewLoader()
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sceneinfo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoaderDefaults(t *testing.T) {
	l := newIsolatedLoader(t)

	cfg, err := l.LoadWithFile(writeConfigFile(t, "log_level: info\n"))
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 2000, cfg.Scan.PixelThreshold)
	assert.Equal(t, 15, cfg.Scan.ADRStride)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.Equal(t, ":9090", cfg.Metrics.Addr)
}

func TestLoaderReadsFile(t *testing.T) {
	l := newIsolatedLoader(t)

	path := writeConfigFile(t, `
log_level: debug
scan:
  start_frame: 240
  pixel_threshold: 500
  text_region: {x: 100, y: 800, w: 600, h: 120}
output:
  format: csv
`)
	cfg, err := l.LoadWithFile(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 240, cfg.Scan.StartFrame)
	assert.Equal(t, 500, cfg.Scan.PixelThreshold)
	assert.Equal(t, RegionConfig{X: 100, Y: 800, W: 600, H: 120}, cfg.Scan.TextRegion)
	assert.Equal(t, "csv", cfg.Output.Format)
	assert.Equal(t, path, l.GetConfigFileUsed())
}

func TestLoaderEnvOverride(t *testing.T) {
	l := newIsolatedLoader(t)
	t.Setenv("SCENEINFO_SCAN_START_FRAME", "96")
	t.Setenv("SCENEINFO_LOG_LEVEL", "warn")

	cfg, err := l.LoadWithFile(writeConfigFile(t, "scan:\n  start_frame: 10\n"))
	require.NoError(t, err)
	assert.Equal(t, 96, cfg.Scan.StartFrame, "environment beats the file")
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoaderRejectsInvalidConfig(t *testing.T) {
	l := newIsolatedLoader(t)

	_, err := l.LoadWithFile(writeConfigFile(t, "log_level: shouty\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoaderMissingExplicitFile(t *testing.T) {
	l := newIsolatedLoader(t)

	_, err := l.LoadWithFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestLoaderMalformedFile(t *testing.T) {
	l := newIsolatedLoader(t)

	_, err := l.LoadWithFile(writeConfigFile(t, "log_level: [unclosed\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoaderSetOverride(t *testing.T) {
	l := newIsolatedLoader(t)
	l.Set("scan.adr_stride", 3)

	cfg, err := l.LoadWithFile(writeConfigFile(t, "log_level: info\n"))
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Scan.ADRStride, "explicit Set beats file and defaults")
}

func TestGetConfigSearchPaths(t *testing.T) {
	paths := GetConfigSearchPaths()
	assert.Contains(t, paths, ".")
	assert.Contains(t, paths, "/etc/sceneinfo")
}
