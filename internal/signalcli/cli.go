package signalcli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"

	"sigsetup/internal/domain"
)

// InstallHint is appended to the not-found error so users know what to do.
const InstallHint = "install it first: https://github.com/AsamK/signal-cli/releases/latest"

// CLI drives the signal-cli binary.
type CLI struct {
	bin string
	log *zap.Logger
}

// New returns a runner invoking bin ("signal-cli" when empty).
func New(bin string, log *zap.Logger) *CLI {
	if bin == "" {
		bin = "signal-cli"
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &CLI{bin: bin, log: log}
}

// execCommand builds commands; swapped out in tests.
var execCommand = func(ctx context.Context, name string, args ...string) *exec.Cmd {
	return exec.CommandContext(ctx, name, args...)
}

// run executes one signal-cli invocation and returns its stdout. op names
// the subcommand for error messages.
func (c *CLI) run(ctx context.Context, op string, args ...string) (string, error) {
	cmd := execCommand(ctx, c.bin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	c.log.Debug("running signal-cli", zap.Strings("args", args))
	err := cmd.Run()
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", fmt.Errorf("%w; %s", domain.ErrCLINotFound, InstallHint)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			msg := strings.TrimSpace(stderr.String())
			if msg == "" {
				msg = err.Error()
			}
			c.log.Debug("signal-cli failed",
				zap.Strings("args", args),
				zap.Int("exit", exitErr.ExitCode()),
				zap.String("stderr", msg))
			return stdout.String(), fmt.Errorf("signal-cli %s: %s", op, msg)
		}
		return "", err
	}
	return stdout.String(), nil
}

// Version reports the installed signal-cli version, e.g. "0.13.4".
func (c *CLI) Version(ctx context.Context) (string, error) {
	out, err := c.run(ctx, "version", "--version")
	if err != nil {
		return "", err
	}
	// Output looks like "signal-cli 0.13.4".
	fields := strings.Fields(out)
	if len(fields) >= 2 {
		return fields[1], nil
	}
	return strings.TrimSpace(out), nil
}

// Register requests registration of number via SMS, or via voice call when
// voice is set.
func (c *CLI) Register(ctx context.Context, number domain.PhoneNumber, captcha domain.CaptchaToken, voice bool) error {
	args := []string{"-a", number.String(), "register"}
	if voice {
		args = append(args, "--voice")
	}
	args = append(args, "--captcha", captcha.URI())
	if _, err := c.run(ctx, "register", args...); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrRegistrationFailed, err)
	}
	return nil
}

// Verify completes registration with the received code and optional PIN.
func (c *CLI) Verify(ctx context.Context, number domain.PhoneNumber, code domain.VerificationCode, pin string) error {
	args := []string{"-a", number.String(), "verify", code.String()}
	if pin != "" {
		args = append(args, "--pin", pin)
	}
	if _, err := c.run(ctx, "verify", args...); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrVerificationFailed, err)
	}
	return nil
}

// AddDevice links the device behind uri as a secondary of number.
func (c *CLI) AddDevice(ctx context.Context, number domain.PhoneNumber, uri domain.LinkingURI) error {
	if _, err := c.run(ctx, "addDevice", "-a", number.String(), "addDevice", "--uri", uri.String()); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrLinkingFailed, err)
	}
	return nil
}

// ListAccounts returns the numbers registered in the local signal-cli data.
func (c *CLI) ListAccounts(ctx context.Context) ([]domain.PhoneNumber, error) {
	out, err := c.run(ctx, "listAccounts", "listAccounts")
	if err != nil {
		return nil, err
	}
	return parseAccounts(out), nil
}

// ListDevices returns the devices linked to number.
func (c *CLI) ListDevices(ctx context.Context, number domain.PhoneNumber) ([]domain.Device, error) {
	out, err := c.run(ctx, "listDevices", "-a", number.String(), "listDevices")
	if err != nil {
		return nil, err
	}
	return parseDevices(out), nil
}

// Receive performs a bounded sync. The timeout firing, or receive exiting
// non-zero, is normal during initial setup and reported as success.
func (c *CLI) Receive(ctx context.Context, number domain.PhoneNumber, timeout time.Duration) error {
	rctx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		rctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	_, err := c.run(rctx, "receive", "-a", number.String(), "receive")
	switch {
	// A cancelled parent context is an abort, not a completed sync.
	case ctx.Err() != nil:
		return ctx.Err()
	case err == nil:
		return nil
	case errors.Is(rctx.Err(), context.DeadlineExceeded):
		c.log.Debug("receive timed out", zap.Duration("timeout", timeout))
		return nil
	case errors.Is(err, domain.ErrCLINotFound):
		return err
	default:
		c.log.Debug("receive exited with error", zap.Error(err))
		return nil
	}
}

// SendNoteToSelf sends a note-to-self message as a registration smoke test.
func (c *CLI) SendNoteToSelf(ctx context.Context, number domain.PhoneNumber, message string) error {
	_, err := c.run(ctx, "send", "-a", number.String(), "send", "--note-to-self", "-m", message)
	return err
}

// Compile-time assertion that CLI implements domain.Runner.
var _ domain.Runner = (*CLI)(nil)
