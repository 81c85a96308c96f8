// Package signalcli wraps the external signal-cli binary.
//
// It is the only place that builds signal-cli argument vectors. All the actual
// registration and linking protocol work happens inside signal-cli; this
// package just invokes it and interprets exit status and output.
package signalcli
