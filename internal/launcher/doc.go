// Package launcher builds per-profile macOS .app bundles that start Signal
// Desktop with a dedicated user-data directory, so a linked profile can be
// opened from the Dock or Applications folder with one click.
package launcher
