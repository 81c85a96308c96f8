package commands

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sigsetup/internal/app"
	"sigsetup/internal/services/linking"
	"sigsetup/internal/services/registration"
)

var (
	home       string
	configPath string
	verbose    bool
	cliPath    string

	cfg  app.Config
	wire *app.Wire
)

func Execute() error {
	root := &cobra.Command{
		Use:   "sigsetup",
		Short: "Set up signal-cli accounts and link Signal Desktop",
		Long: `sigsetup automates onboarding a phone number into signal-cli and linking
Signal Desktop as a secondary device: captcha handling, SMS/voice
registration, code verification and QR-based device linking.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = app.Load(configPath, home)
			if err != nil {
				return err
			}
			if cliPath != "" {
				cfg.SignalCLI = cliPath
			}

			log := zap.NewNop()
			if verbose {
				if log, err = zap.NewDevelopment(); err != nil {
					return err
				}
			}

			wire, err = app.NewWire(cfg, log)
			return err
		},
		RunE: runWizard,
	}

	root.PersistentFlags().StringVar(&home, "home", "", "data dir (default ~/.sigsetup)")
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default <home>/config.yaml)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	root.PersistentFlags().StringVar(&cliPath, "signal-cli", "", "signal-cli binary path")

	root.AddCommand(registerCmd(), linkCmd(), qrCmd(), doctorCmd(), accountsCmd())
	return root.Execute()
}

// runWizard is the no-argument flow: ask what to do, ask for the number, run
// the chosen service interactively.
func runWizard(cmd *cobra.Command, args []string) error {
	ui := wire.UI
	ui.Header("Signal Setup")
	choice, err := ui.Menu("What would you like to do?",
		"Register a new account with signal-cli",
		"Link Signal Desktop to an existing account")
	if err != nil {
		return err
	}

	number, err := ui.PhoneNumber()
	if err != nil {
		return err
	}

	switch choice {
	case 1:
		return wire.Registration.Run(cmd.Context(), number, registration.Options{
			Captcha:     interactiveCaptcha,
			DeviceName:  cfg.DeviceName,
			Interactive: true,
		})
	default:
		return wire.Linking.Run(cmd.Context(), number, linking.Options{
			DeviceName:  cfg.DeviceName,
			Interactive: true,
		})
	}
}
