package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"sigsetup/internal/domain"
	"sigsetup/internal/services/linking"
)

func linkCmd() *cobra.Command {
	var (
		rawURI    string
		noLaunch  bool
		createApp bool
		appName   string
		copyApp   bool
	)

	cmd := &cobra.Command{
		Use:   "link <number>",
		Short: "Link Signal Desktop as a secondary device",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := domain.ParsePhoneNumber(args[0])
			if err != nil {
				return err
			}
			if createApp && wire.Builder == nil {
				return errors.New("launcher app bundles are only supported on macOS")
			}
			var uri domain.LinkingURI
			if rawURI != "" {
				if uri, err = domain.ParseLinkingURI(rawURI); err != nil {
					return err
				}
			}
			return wire.Linking.Run(cmd.Context(), number, linking.Options{
				URI:                uri,
				NoLaunch:           noLaunch,
				CreateApp:          createApp,
				AppName:            appName,
				CopyToApplications: copyApp,
				DeviceName:         cfg.DeviceName,
			})
		},
	}

	cmd.Flags().StringVar(&rawURI, "uri", "", "linking URI from Signal Desktop (skips QR capture)")
	cmd.Flags().BoolVar(&noLaunch, "no-launch", false, "do not start Signal Desktop")
	cmd.Flags().BoolVar(&createApp, "create-app", false, "create a launcher .app bundle (macOS)")
	cmd.Flags().StringVar(&appName, "app-name", "", "nickname for the launcher bundle")
	cmd.Flags().BoolVar(&copyApp, "copy-to-applications", false, "install the bundle into /Applications")
	return cmd
}
