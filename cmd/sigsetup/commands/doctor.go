package commands

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/spf13/cobra"

	"sigsetup/internal/signalcli"
)

// toolCheck is one external dependency the flows shell out to.
type toolCheck struct {
	name     string
	purpose  string
	hint     string
	optional bool
}

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that the external tools sigsetup depends on exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ui := wire.UI
			ui.Header("Environment Check")

			missing := 0
			if version, err := wire.CLI.Version(cmd.Context()); err != nil {
				ui.Fail("signal-cli: %v", err)
				missing++
			} else {
				ui.Success("signal-cli %s", version)
			}

			for _, c := range platformTools() {
				if _, err := exec.LookPath(c.name); err != nil {
					if c.optional {
						ui.Warn("%s not found (%s); %s", c.name, c.purpose, c.hint)
						continue
					}
					ui.Fail("%s not found (%s); %s", c.name, c.purpose, c.hint)
					missing++
					continue
				}
				ui.Success("%s (%s)", c.name, c.purpose)
			}

			if missing > 0 {
				return fmt.Errorf("%d required tool(s) missing; install hint for signal-cli: %s",
					missing, signalcli.InstallHint)
			}
			ui.Success("All required tools found")
			return nil
		},
	}
}

// platformTools lists the subprocesses each OS needs.
func platformTools() []toolCheck {
	if runtime.GOOS == "darwin" {
		return []toolCheck{
			{name: "screencapture", purpose: "QR screenshots", hint: "part of macOS, check your PATH"},
			{name: "osascript", purpose: "dialogs and app control", hint: "part of macOS, check your PATH"},
			{name: "pgrep", purpose: "process detection", hint: "part of macOS, check your PATH"},
			{name: "pbcopy", purpose: "clipboard", hint: "part of macOS, check your PATH"},
		}
	}
	return []toolCheck{
		{name: "gnome-screenshot", purpose: "QR screenshots", hint: "install gnome-screenshot or spectacle", optional: true},
		{name: "spectacle", purpose: "QR screenshots (fallback)", hint: "install spectacle", optional: true},
		{name: "zenity", purpose: "dialogs", hint: "install zenity (falls back to terminal prompts)", optional: true},
		{name: "notify-send", purpose: "notifications", hint: "install libnotify", optional: true},
		{name: "pgrep", purpose: "process detection", hint: "install procps"},
		{name: "xclip", purpose: "clipboard", hint: "install xclip or xsel", optional: true},
	}
}
