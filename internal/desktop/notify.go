package desktop

import (
	"context"
	"fmt"
	"strings"
)

// Alert shows a modal dialog, falling back to terminal output.
func (c *Controller) Alert(title, message string) {
	var err error
	switch goos {
	case "darwin":
		script := fmt.Sprintf(
			`display dialog %q with title %q buttons {"OK"} default button "OK"`,
			message, title)
		err = execCommand(context.Background(), "osascript", "-e", script).Run()
	default:
		err = execCommand(context.Background(), "zenity", "--info",
			"--title", title, "--text", message).Run()
	}
	if err != nil {
		fmt.Fprintf(c.out, "%s: %s\n", title, message)
	}
}

// Notify shows a desktop notification, falling back to terminal output.
func (c *Controller) Notify(title, message string) {
	var err error
	switch goos {
	case "darwin":
		script := fmt.Sprintf(`display notification %q with title %q`, message, title)
		err = execCommand(context.Background(), "osascript", "-e", script).Run()
	default:
		err = execCommand(context.Background(), "notify-send", title, message).Run()
	}
	if err != nil {
		fmt.Fprintf(c.out, "%s: %s\n", title, message)
	}
}

// Confirm shows a two-button dialog and reports whether the user picked
// yesLabel. ok is false when no dialog could be shown at all, so callers can
// fall back to a terminal prompt.
func (c *Controller) Confirm(title, message, yesLabel, noLabel string) (confirmed, ok bool) {
	switch goos {
	case "darwin":
		script := fmt.Sprintf(
			`display dialog %q with title %q buttons {%q, %q} default button %q`,
			message, title, noLabel, yesLabel, yesLabel)
		out, err := execCommand(context.Background(), "osascript", "-e", script).Output()
		if err != nil {
			return false, false
		}
		return strings.Contains(string(out), yesLabel), true
	default:
		err := execCommand(context.Background(), "zenity", "--question",
			"--title", title, "--text", message,
			"--ok-label", yesLabel, "--cancel-label", noLabel).Run()
		if err == nil {
			return true, true
		}
		// zenity exits 1 on "no"; anything else means no dialog was shown.
		if exitCode(err) == 1 {
			return false, true
		}
		return false, false
	}
}
