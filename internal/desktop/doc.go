// Package desktop drives Signal Desktop and the OS utilities around it:
// process launch and shutdown, interactive screenshots, dialogs,
// notifications, clipboard, and browser opening.
//
// macOS is the primary target (screencapture, osascript, pgrep); Linux gets
// working equivalents where common tools exist. Dialogs and notifications
// degrade to terminal output when no GUI tool is available, so flows never
// hard-fail on the cosmetic pieces.
package desktop
