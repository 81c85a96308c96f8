package domain

import "errors"

var (
	// ErrCLINotFound means the signal-cli binary is not installed or not on PATH.
	ErrCLINotFound = errors.New("signal-cli is not installed or not in PATH")

	// ErrRegistrationFailed means both SMS and voice registration were rejected.
	ErrRegistrationFailed = errors.New("registration failed")

	// ErrVerificationFailed means signal-cli rejected the verification code.
	ErrVerificationFailed = errors.New("verification failed")

	// ErrLinkingFailed means addDevice was rejected.
	ErrLinkingFailed = errors.New("device linking failed")

	// ErrNotRegistered means the account has no registration in signal-cli yet.
	ErrNotRegistered = errors.New("account is not registered in signal-cli")

	// ErrScreenshotCancelled means the user dismissed the screenshot selector.
	ErrScreenshotCancelled = errors.New("screenshot cancelled")

	// ErrNoQRCode means the decode API found no QR code in the image.
	ErrNoQRCode = errors.New("no QR code found in image")

	// ErrScreenPermission means screenshots keep failing, almost certainly
	// because the terminal lacks screen-recording permission.
	ErrScreenPermission = errors.New("terminal lacks screen recording permission")
)
