package app

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"

	"sigsetup/internal/desktop"
	"sigsetup/internal/qr"
	"sigsetup/internal/services/linking"
	"sigsetup/internal/services/registration"
)

// Duration is a time.Duration that YAML-decodes from strings like "60s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config holds runtime wiring options for building the app.
type Config struct {
	// Home is the data directory holding the account registry
	// (default ~/.sigsetup).
	Home string `yaml:"home"`

	// SignalCLI is the signal-cli binary path ("signal-cli" on $PATH when
	// empty).
	SignalCLI string `yaml:"signal_cli"`

	// DesktopApp is the Signal Desktop executable (platform default when
	// empty).
	DesktopApp string `yaml:"desktop_app"`

	// DeviceName is recorded for new registrations.
	DeviceName string `yaml:"device_name"`

	// QRAPIURL is the remote QR decode endpoint.
	QRAPIURL string `yaml:"qr_api_url"`

	// VoiceDelay is how long to wait between the SMS attempt and the voice
	// fallback.
	VoiceDelay Duration `yaml:"voice_delay"`

	// ReceiveTimeout bounds the post-link sync.
	ReceiveTimeout Duration `yaml:"receive_timeout"`
}

// Default returns the built-in configuration.
func Default() Config {
	home := ".sigsetup"
	if dir, err := os.UserHomeDir(); err == nil {
		home = filepath.Join(dir, ".sigsetup")
	}
	cfg := Config{
		Home:           home,
		DeviceName:     "signal-cli-desktop",
		QRAPIURL:       qr.DefaultBaseURL,
		VoiceDelay:     Duration(registration.DefaultVoiceDelay),
		ReceiveTimeout: Duration(linking.DefaultReceiveTimeout),
	}
	if runtime.GOOS == "darwin" {
		cfg.DesktopApp = desktop.DefaultAppBinary
	}
	return cfg
}

// Load returns Default overlaid with the YAML file at path. home, when
// non-empty, overrides the home directory before the default config path is
// resolved and again after the file is read, so a --home flag beats a home key
// in the file. An empty path tries <home>/config.yaml and tolerates its
// absence; an explicit path must exist.
func Load(path, home string) (Config, error) {
	cfg := Default()
	if home != "" {
		cfg.Home = home
	}
	explicit := path != ""
	if path == "" {
		path = filepath.Join(cfg.Home, "config.yaml")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	if home != "" {
		cfg.Home = home
	}
	return cfg, nil
}
