package domain

import (
	"context"
	"time"
)

// Runner is how we drive the signal-cli binary. Every method maps to one
// subcommand; no argument vectors are built anywhere else.
type Runner interface {
	// Version reports the installed signal-cli version. It doubles as the
	// availability check: a missing binary yields ErrCLINotFound.
	Version(ctx context.Context) (string, error)

	// Register requests registration of number, by voice call when voice is
	// set and by SMS otherwise. The captcha token is passed with its scheme
	// re-applied.
	Register(ctx context.Context, number PhoneNumber, captcha CaptchaToken, voice bool) error

	// Verify completes registration with the received code and optional PIN.
	Verify(ctx context.Context, number PhoneNumber, code VerificationCode, pin string) error

	// AddDevice links the device behind uri as a secondary of number.
	AddDevice(ctx context.Context, number PhoneNumber, uri LinkingURI) error

	// ListAccounts returns the numbers registered locally.
	ListAccounts(ctx context.Context) ([]PhoneNumber, error)

	// ListDevices returns the devices of a registered account.
	ListDevices(ctx context.Context, number PhoneNumber) ([]Device, error)

	// Receive performs a bounded sync. Hitting the timeout or a receive exit
	// error is normal during onboarding and is not reported as a failure.
	Receive(ctx context.Context, number PhoneNumber, timeout time.Duration) error

	// SendNoteToSelf sends a note-to-self message as a registration smoke test.
	SendNoteToSelf(ctx context.Context, number PhoneNumber, message string) error
}

// QRDecoder extracts the payload of a QR code inside an image file.
type QRDecoder interface {
	Decode(ctx context.Context, imagePath string) (string, error)
}

// DesktopController drives Signal Desktop and the OS facilities around it.
type DesktopController interface {
	// ProfileDir returns the per-account user-data directory for number.
	ProfileDir(number PhoneNumber) string

	// Launch starts Signal Desktop detached, bound to the given profile dir.
	Launch(profileDir string) error

	// Running reports whether Signal Desktop is currently running.
	Running() bool

	// Quit asks Signal Desktop to exit, escalating from a graceful quit to
	// killing its processes.
	Quit() error

	// Focus brings Signal Desktop to the foreground. Best effort.
	Focus()

	// Screenshot lets the user select a screen region and writes it to dest.
	// A dismissed selector yields ErrScreenshotCancelled.
	Screenshot(ctx context.Context, dest string) error

	// Alert shows a modal dialog, falling back to terminal output.
	Alert(title, message string)

	// Notify shows a desktop notification, falling back to terminal output.
	Notify(title, message string)

	// Confirm shows a two-button dialog and reports whether the user picked
	// the confirming button. ok is false when no dialog could be shown.
	Confirm(title, message, yesLabel, noLabel string) (confirmed, ok bool)

	// OpenBrowser opens url in the default browser.
	OpenBrowser(url string) error
}

// Clipboard copies text to the system clipboard.
type Clipboard interface {
	Copy(text string) error
}

// AccountStore persists records of onboarded accounts.
type AccountStore interface {
	Get(number PhoneNumber) (AccountRecord, bool, error)
	Upsert(rec AccountRecord) error
	List() ([]AccountRecord, error)
}

// URICapturer obtains a raw QR payload, typically via an interactive
// screenshot of the Signal Desktop linking code.
type URICapturer interface {
	Capture(ctx context.Context) (string, error)
}
