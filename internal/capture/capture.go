package capture

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sigsetup/internal/domain"
	"sigsetup/internal/prompt"
)

// maxAttempts bounds the screenshot-and-decode loop.
const maxAttempts = 3

// PermissionInstructions is printed when screenshots keep failing; the usual
// cause is the terminal missing the screen-recording permission.
const PermissionInstructions = `Your terminal app needs permission to take screenshots.
This is required for automatic QR code reading.

1. Go to System Preferences > Security & Privacy > Privacy
2. Select 'Screen Recording' from the left sidebar
3. Click the lock icon to make changes (enter your password)
4. Find your terminal app (Terminal, iTerm2, etc.) in the list
5. Check the box next to it to grant permission
6. Restart your terminal app completely
7. Run this command again`

// Service runs the interactive capture loop.
type Service struct {
	desktop domain.DesktopController
	decoder domain.QRDecoder
	ui      *prompt.Prompter
	keep    bool
	log     *zap.Logger

	// tempDir is fixed in tests.
	tempDir string
}

// New returns a capture service. When keep is set, screenshot files survive
// for inspection instead of being deleted after decode.
func New(desktop domain.DesktopController, decoder domain.QRDecoder, ui *prompt.Prompter, keep bool, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		desktop: desktop,
		decoder: decoder,
		ui:      ui,
		keep:    keep,
		log:     log,
		tempDir: os.TempDir(),
	}
}

// Capture walks the user through screenshotting the QR code and returns the
// decoded payload. It retries up to three times, and converts repeated
// screenshot failures into permission guidance.
func (s *Service) Capture(ctx context.Context) (string, error) {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			s.ui.Say("Retry attempt %d/%d...", attempt, maxAttempts)
		}

		data, err := s.attempt(ctx, attempt)
		if err == nil {
			s.ui.Success("QR code found: %s", data)
			return data, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		switch {
		case errors.Is(err, domain.ErrScreenshotCancelled):
			s.ui.Warn("Screenshot cancelled or failed")
			if attempt == maxAttempts {
				s.ui.Fail("All screenshot attempts failed after %d tries", maxAttempts)
				return "", fmt.Errorf("%w\n\n%s", domain.ErrScreenPermission, PermissionInstructions)
			}
		case errors.Is(err, domain.ErrNoQRCode):
			s.ui.Fail("No QR code found in screenshot")
			if attempt == 1 && !s.confirmPermissions() {
				return "", fmt.Errorf("%w\n\n%s", domain.ErrScreenPermission, PermissionInstructions)
			}
		default:
			s.ui.Warn("Error reading QR code: %v", err)
		}
	}
	return "", fmt.Errorf("failed to read QR code from screenshot after %d attempts: %w", maxAttempts, domain.ErrNoQRCode)
}

// attempt performs one alert-focus-screenshot-decode cycle.
func (s *Service) attempt(ctx context.Context, attempt int) (string, error) {
	msg := "After you press OK you will get a selector. Draw a square on top of the QR code in Signal Desktop."
	if attempt > 1 {
		msg = fmt.Sprintf("%s\n\nAttempt #%d of %d", msg, attempt, maxAttempts)
	}
	s.desktop.Alert("QR Code Screenshot", msg)

	s.ui.Say("Taking screenshot... Select the QR code area")
	s.desktop.Focus()

	shot := filepath.Join(s.tempDir, fmt.Sprintf("qr_screenshot_%s.png", uuid.NewString()))
	if err := s.desktop.Screenshot(ctx, shot); err != nil {
		return "", err
	}
	defer func() {
		if s.keep {
			s.ui.Info("Screenshot file kept at: %s", shot)
			return
		}
		_ = os.Remove(shot)
	}()

	data, err := s.decoder.Decode(ctx, shot)
	if err != nil {
		return "", err
	}
	return data, nil
}

// confirmPermissions asks, after the first decode failure, whether the user
// has granted the screen-recording permission. Returning false means they
// want instructions instead of another attempt.
func (s *Service) confirmPermissions() bool {
	s.ui.Warn("QR code reading failed. This is often caused by missing screen recording permissions.")
	confirmed, ok := s.desktop.Confirm(
		"QR Code Reader",
		"QR code reading failed.\n\nHave you given your terminal screen recording permissions in System Preferences > Security & Privacy > Privacy > Screen Recording?",
		"Yes, I gave permissions",
		"I need instructions",
	)
	if !ok {
		// No dialog tool available; ask in the terminal instead.
		answer, err := s.ui.YesNo("Have you granted your terminal screen recording permission?")
		if err != nil {
			return false
		}
		return answer
	}
	if confirmed {
		s.ui.Success("Permissions confirmed. Retrying...")
	}
	return confirmed
}

// Compile-time assertion that Service implements domain.URICapturer.
var _ domain.URICapturer = (*Service)(nil)
