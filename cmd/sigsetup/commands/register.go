package commands

import (
	"context"

	"github.com/spf13/cobra"

	"sigsetup/internal/captcha"
	"sigsetup/internal/domain"
	"sigsetup/internal/services/registration"
)

func registerCmd() *cobra.Command {
	var (
		token      string
		tokenFile  string
		waitFile   bool
		voiceOnly  bool
		deviceName string
	)

	cmd := &cobra.Command{
		Use:   "register <number>",
		Short: "Register a phone number as a new signal-cli account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := domain.ParsePhoneNumber(args[0])
			if err != nil {
				return err
			}
			if deviceName == "" {
				deviceName = cfg.DeviceName
			}
			return wire.Registration.Run(cmd.Context(), number, registration.Options{
				Captcha:    captchaResolver(token, tokenFile, waitFile),
				VoiceOnly:  voiceOnly,
				DeviceName: deviceName,
			})
		},
	}

	cmd.Flags().StringVar(&token, "captcha", "", "captcha token (or full signalcaptcha:// line)")
	cmd.Flags().StringVar(&tokenFile, "captcha-file", "", "file containing the captcha token")
	cmd.Flags().BoolVar(&waitFile, "wait", false, "wait for --captcha-file to appear")
	cmd.Flags().BoolVar(&voiceOnly, "voice", false, "skip SMS and register via voice call")
	cmd.Flags().StringVar(&deviceName, "device-name", "", "device name recorded in the registry")
	return cmd
}

// captchaResolver picks the token source: flag value, file, watched file, or
// the interactive prompt.
func captchaResolver(token, tokenFile string, waitFile bool) func(context.Context) (domain.CaptchaToken, error) {
	switch {
	case token != "":
		return func(context.Context) (domain.CaptchaToken, error) {
			return captcha.Extract(token)
		}
	case tokenFile != "" && waitFile:
		return func(ctx context.Context) (domain.CaptchaToken, error) {
			wire.UI.Say("Waiting for captcha file %s...", tokenFile)
			wire.UI.Say("Solve the captcha at %s and save the token there.", captcha.GeneratorURL)
			return captcha.WaitForFile(ctx, tokenFile)
		}
	case tokenFile != "":
		return func(context.Context) (domain.CaptchaToken, error) {
			return captcha.FromFile(tokenFile)
		}
	default:
		return interactiveCaptcha
	}
}

// interactiveCaptcha walks the user through the generator page and reads the
// token from the terminal.
func interactiveCaptcha(context.Context) (domain.CaptchaToken, error) {
	ui := wire.UI
	ui.Header("Captcha Required")
	ui.Say("Signal requires a captcha to prevent automated registrations.")
	ui.Say("%s", captcha.Instructions)

	open, err := ui.YesNo("Open the captcha page in your browser now?")
	if err != nil {
		return "", err
	}
	if open {
		if err := wire.Desktop.OpenBrowser(captcha.GeneratorURL); err != nil {
			ui.Warn("Could not open the browser: %v", err)
			ui.Say("Open %s manually instead.", captcha.GeneratorURL)
		}
	}
	tok, err := ui.CaptchaToken()
	if err != nil {
		return "", err
	}
	return tok, nil
}
