// Package app wires application dependencies for the CLI.
//
// It loads Config from defaults and an optional YAML file, then builds the
// concrete store, subprocess runner, QR client, desktop controller and flow
// services from it, exposing them via the Wire struct for commands to use.
package app
