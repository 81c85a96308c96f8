package app_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sigsetup/internal/app"
	"sigsetup/internal/qr"
)

func TestDefault(t *testing.T) {
	cfg := app.Default()
	assert.Equal(t, "signal-cli-desktop", cfg.DeviceName)
	assert.Equal(t, qr.DefaultBaseURL, cfg.QRAPIURL)
	assert.Equal(t, 60*time.Second, cfg.VoiceDelay.Std())
	assert.Equal(t, 10*time.Second, cfg.ReceiveTimeout.Std())
	assert.Contains(t, cfg.Home, ".sigsetup")
}

func TestLoad_OverlaysFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
signal_cli: /opt/signal-cli/bin/signal-cli
device_name: laptop
voice_delay: 5s
`), 0o600))

	cfg, err := app.Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, "/opt/signal-cli/bin/signal-cli", cfg.SignalCLI)
	assert.Equal(t, "laptop", cfg.DeviceName)
	assert.Equal(t, 5*time.Second, cfg.VoiceDelay.Std())
	// Untouched keys keep their defaults.
	assert.Equal(t, qr.DefaultBaseURL, cfg.QRAPIURL)
	assert.Equal(t, 10*time.Second, cfg.ReceiveTimeout.Std())
}

func TestLoad_HomeResolvesImplicitConfig(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.yaml"),
		[]byte("device_name: from-home-config\n"), 0o600))

	cfg, err := app.Load("", home)
	require.NoError(t, err)
	assert.Equal(t, "from-home-config", cfg.DeviceName)
	assert.Equal(t, home, cfg.Home)
}

func TestLoad_HomeBeatsConfigFileHome(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.yaml"),
		[]byte("home: /somewhere/else\n"), 0o600))

	cfg, err := app.Load("", home)
	require.NoError(t, err)
	assert.Equal(t, home, cfg.Home)
}

func TestLoad_MissingImplicitConfigIsFine(t *testing.T) {
	home := t.TempDir()
	cfg, err := app.Load("", home)
	require.NoError(t, err)
	assert.Equal(t, home, cfg.Home)
	assert.Equal(t, "signal-cli-desktop", cfg.DeviceName)
}

func TestLoad_ExplicitMissingFileFails(t *testing.T) {
	_, err := app.Load(filepath.Join(t.TempDir(), "nope.yaml"), "")
	assert.Error(t, err)
}

func TestLoad_BadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("voice_delay: sixty\n"), 0o600))

	_, err := app.Load(path, "")
	assert.ErrorContains(t, err, "invalid duration")
}
