// Package linking implements the add-device flow: it launches Signal Desktop
// with a dedicated profile, obtains the linking URI from its QR code
// (automatically via screenshot capture, or manually), and registers the
// desktop as a secondary device through signal-cli.
package linking
