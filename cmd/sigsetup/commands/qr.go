package commands

import (
	"context"

	"github.com/spf13/cobra"

	"sigsetup/internal/domain"
	"sigsetup/internal/prompt"
)

func qrCmd() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:   "qr",
		Short: "Screenshot a QR code, decode it and copy the payload",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQRCapture(cmd.Context(), wire.NewCapture(debug), wire.Clipboard, wire.Desktop.Notify, wire.UI)
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "keep the screenshot file for inspection")
	return cmd
}

// runQRCapture decodes a QR code off the screen, copies the payload to the
// clipboard and confirms with a desktop notification.
func runQRCapture(ctx context.Context, capt domain.URICapturer, clip domain.Clipboard, notify func(title, message string), ui *prompt.Prompter) error {
	ui.Header("QR Capture")
	ui.Say("You'll see a screenshot selector - draw a square around the QR code.")

	data, err := capt.Capture(ctx)
	if err != nil {
		return err
	}
	ui.Success("QR code decoded:")
	ui.Say("%s", data)

	if err := clip.Copy(data); err != nil {
		ui.Warn("Could not copy to clipboard: %v", err)
		return nil
	}
	ui.Success("Copied to clipboard")
	notify("QR Code Reader", "QR code copied to clipboard")
	return nil
}
