package desktop

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"sigsetup/internal/domain"
)

// DefaultAppBinary is where the Signal Desktop executable lives on macOS.
const DefaultAppBinary = "/Applications/Signal.app/Contents/MacOS/Signal"

// profilePrefix names per-account user-data directories.
const profilePrefix = "Signal-Profile-"

// goos and execCommand are package variables so tests can fake the OS.
var (
	goos = runtime.GOOS

	execCommand = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		return exec.CommandContext(ctx, name, args...)
	}
)

// Controller implements domain.DesktopController against the real OS.
type Controller struct {
	appBinary string
	out       io.Writer
	log       *zap.Logger
}

// NewController returns a controller launching appBinary (DefaultAppBinary on
// macOS, "signal-desktop" elsewhere, when empty). Fallback output goes to out.
func NewController(appBinary string, out io.Writer, log *zap.Logger) *Controller {
	if appBinary == "" {
		if goos == "darwin" {
			appBinary = DefaultAppBinary
		} else {
			appBinary = "signal-desktop"
		}
	}
	if out == nil {
		out = os.Stdout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{appBinary: appBinary, out: out, log: log}
}

// ProfileDir returns the per-account user-data directory for number.
func (c *Controller) ProfileDir(number domain.PhoneNumber) string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	name := profilePrefix + number.Digits()
	if goos == "darwin" {
		return filepath.Join(home, "Library", "Application Support", name)
	}
	return filepath.Join(home, ".config", name)
}

// Launch starts Signal Desktop detached, bound to the given profile dir.
func (c *Controller) Launch(profileDir string) error {
	cmd := execCommand(context.Background(), c.appBinary, "--user-data-dir="+profileDir)
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launching Signal Desktop: %w", err)
	}
	c.log.Debug("launched Signal Desktop",
		zap.String("binary", c.appBinary),
		zap.String("profile", profileDir))
	// Don't leave a zombie behind when the desktop outlives us.
	go func() { _ = cmd.Wait() }()
	return nil
}

// processPattern is what we pgrep for.
func (c *Controller) processPattern() string {
	if goos == "darwin" {
		return "Signal.app"
	}
	return "signal-desktop"
}

// Running reports whether Signal Desktop is currently running.
func (c *Controller) Running() bool {
	if err := execCommand(context.Background(), "pgrep", "-f", c.processPattern()).Run(); err == nil {
		return true
	}
	// pgrep missing or failed; fall back to scanning ps output.
	out, err := execCommand(context.Background(), "ps", "aux").Output()
	if err != nil {
		return false
	}
	return strings.Contains(string(out), c.processPattern())
}

// Quit asks Signal Desktop to exit, escalating from a graceful AppleScript
// quit to killing its processes.
func (c *Controller) Quit() error {
	ctx := context.Background()
	if goos == "darwin" {
		_ = execCommand(ctx, "osascript", "-e", `tell application "Signal" to quit`).Run()
		time.Sleep(2 * time.Second)
		if !c.Running() {
			return nil
		}
	}

	out, err := execCommand(ctx, "pgrep", "-f", c.processPattern()).Output()
	if err != nil {
		// Nothing matched; treat as already gone.
		return nil
	}
	for _, pid := range strings.Fields(string(out)) {
		_ = execCommand(ctx, "kill", pid).Run()
	}
	time.Sleep(time.Second)
	if c.Running() {
		return fmt.Errorf("Signal Desktop did not exit")
	}
	return nil
}

// Focus brings Signal Desktop to the foreground. Best effort.
func (c *Controller) Focus() {
	if goos != "darwin" {
		return
	}
	if err := execCommand(context.Background(), "osascript", "-e", `tell application "Signal" to activate`).Run(); err != nil {
		fmt.Fprintln(c.out, "Note: could not focus Signal Desktop (may not be running)")
	}
}

// OpenBrowser opens url in the default browser.
func (c *Controller) OpenBrowser(url string) error {
	var cmd *exec.Cmd
	switch goos {
	case "darwin":
		cmd = execCommand(context.Background(), "open", url)
	case "windows":
		cmd = execCommand(context.Background(), "cmd", "/c", "start", url)
	default:
		cmd = execCommand(context.Background(), "xdg-open", url)
	}
	return cmd.Start()
}

// Compile-time assertion that Controller implements domain.DesktopController.
var _ domain.DesktopController = (*Controller)(nil)
