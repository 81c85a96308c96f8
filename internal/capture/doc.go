// Package capture turns an on-screen QR code into its payload: interactive
// screenshot, upload to the decode API, bounded retries, and guidance when
// failures look like a missing screen-recording permission.
package capture
