package app

import (
	"fmt"
	"os"
	"runtime"

	"go.uber.org/zap"

	"sigsetup/internal/capture"
	"sigsetup/internal/desktop"
	"sigsetup/internal/domain"
	"sigsetup/internal/launcher"
	"sigsetup/internal/prompt"
	"sigsetup/internal/qr"
	"sigsetup/internal/services/linking"
	"sigsetup/internal/services/registration"
	"sigsetup/internal/signalcli"
	"sigsetup/internal/store"
)

// Wire bundles all stores, services, and clients for the CLI.
type Wire struct {
	Accounts  domain.AccountStore
	CLI       domain.Runner
	QR        domain.QRDecoder
	Desktop   domain.DesktopController
	Clipboard domain.Clipboard
	Builder   *launcher.Builder
	UI        *prompt.Prompter

	Registration *registration.Service
	Linking      *linking.Service

	Log *zap.Logger
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg Config, log *zap.Logger) (*Wire, error) {
	if log == nil {
		log = zap.NewNop()
	}

	accounts, err := store.NewAccountFileStore(cfg.Home)
	if err != nil {
		return nil, fmt.Errorf("opening account registry: %w", err)
	}

	cli := signalcli.New(cfg.SignalCLI, log)
	decoder := qr.NewClient(cfg.QRAPIURL, nil)
	ctl := desktop.NewController(cfg.DesktopApp, os.Stdout, log)
	ui := prompt.New(os.Stdin, os.Stdout)

	// Launcher bundles are a macOS feature; elsewhere linking runs without
	// the .app prompts.
	var builder *launcher.Builder
	if runtime.GOOS == "darwin" {
		bin := cfg.DesktopApp
		if bin == "" {
			bin = desktop.DefaultAppBinary
		}
		builder = &launcher.Builder{SignalBinary: bin}
	}

	capSvc := capture.New(ctl, decoder, ui, false, log)

	return &Wire{
		Accounts:  accounts,
		CLI:       cli,
		QR:        decoder,
		Desktop:   ctl,
		Clipboard: desktop.SystemClipboard{},
		Builder:   builder,
		UI:        ui,

		Registration: registration.New(cli, accounts, ui, cfg.VoiceDelay.Std(), log),
		Linking: linking.New(cli, accounts, ctl, capSvc, builder, ui,
			cfg.ReceiveTimeout.Std(), log),

		Log: log,
	}, nil
}

// NewCapture builds a capture service with debug retention, for the qr
// command's --debug flag.
func (w *Wire) NewCapture(keep bool) *capture.Service {
	return capture.New(w.Desktop, w.QR, w.UI, keep, w.Log)
}
