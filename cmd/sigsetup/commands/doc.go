// Package commands defines the sigsetup CLI and wires dependencies for
// subcommands.
//
// Commands
//
//   - (no args)   Interactive wizard: register or link, guided step by step
//   - register    Register a phone number as a new signal-cli account
//   - link        Link Signal Desktop as a secondary device
//   - qr          Screenshot a QR code, decode it and copy the payload
//   - doctor      Check that the external tools sigsetup depends on exist
//   - accounts    List onboarded accounts from the local registry
//
// # Implementation
//
// The root command loads configuration and builds the dependency graph
// (registry store, signal-cli runner, QR client, desktop controller, flow
// services) before any subcommand runs, so handlers share one app context.
package commands
