package commands

import (
	"github.com/spf13/cobra"
)

func accountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "List onboarded accounts from the local registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ui := wire.UI
			records, err := wire.Accounts.List()
			if err != nil {
				return err
			}
			if len(records) == 0 {
				ui.Say("No accounts onboarded yet. Run sigsetup to get started.")
				return nil
			}

			ui.Header("Accounts")
			for _, rec := range records {
				ui.Say("%s", rec.Number)
				if rec.DeviceName != "" {
					ui.Say("  device name: %s", rec.DeviceName)
				}
				if !rec.RegisteredAt.IsZero() {
					ui.Say("  registered:  %s", rec.RegisteredAt.Format("2006-01-02 15:04 MST"))
				}
				if !rec.LinkedAt.IsZero() {
					ui.Say("  linked:      %s", rec.LinkedAt.Format("2006-01-02 15:04 MST"))
				}
				if rec.LauncherApp != "" {
					ui.Say("  launcher:    %s", rec.LauncherApp)
				}

				devices, err := wire.CLI.ListDevices(cmd.Context(), rec.Number)
				if err != nil {
					ui.Warn("  devices:     unavailable (%v)", err)
					continue
				}
				ui.Say("  devices:     %d", len(devices))
				for _, d := range devices {
					ui.Say("    %d: %s", d.ID, d.Name)
				}
			}
			return nil
		},
	}
}
