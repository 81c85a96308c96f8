package linking

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"sigsetup/internal/domain"
	"sigsetup/internal/launcher"
	"sigsetup/internal/prompt"
)

// DefaultReceiveTimeout bounds the post-link sync; hitting it is expected.
const DefaultReceiveTimeout = 10 * time.Second

// maxQRAttempts bounds how often we offer the automatic QR capture before
// falling back to manual URI entry.
const maxQRAttempts = 2

// Service runs the add-device flow.
type Service struct {
	cli            domain.Runner
	store          domain.AccountStore
	desktop        domain.DesktopController
	capturer       domain.URICapturer
	builder        *launcher.Builder
	ui             *prompt.Prompter
	receiveTimeout time.Duration
	log            *zap.Logger

	now func() time.Time
}

// New returns a linking service. capturer may be nil, in which case URI entry
// is always manual. builder may be nil on platforms without launcher bundles.
func New(cli domain.Runner, store domain.AccountStore, desktop domain.DesktopController,
	capturer domain.URICapturer, builder *launcher.Builder, ui *prompt.Prompter,
	receiveTimeout time.Duration, log *zap.Logger) *Service {
	if receiveTimeout <= 0 {
		receiveTimeout = DefaultReceiveTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		cli:            cli,
		store:          store,
		desktop:        desktop,
		capturer:       capturer,
		builder:        builder,
		ui:             ui,
		receiveTimeout: receiveTimeout,
		log:            log,
		now:            time.Now,
	}
}

// Options configures one linking run.
type Options struct {
	// URI skips QR capture when already known.
	URI domain.LinkingURI

	// NoLaunch leaves Signal Desktop alone; the user starts it themselves.
	NoLaunch bool

	// CreateApp builds a launcher bundle; AppName overrides the nickname and
	// CopyToApplications installs it. Interactive asks about all three.
	CreateApp          bool
	AppName            string
	CopyToApplications bool

	// Interactive collects launcher options via prompts before the flow runs.
	Interactive bool

	// DeviceName is recorded in the account registry.
	DeviceName string
}

// Run links Signal Desktop as a secondary device of number.
func (s *Service) Run(ctx context.Context, number domain.PhoneNumber, opts Options) error {
	version, err := s.cli.Version(ctx)
	if err != nil {
		return err
	}
	s.ui.Success("signal-cli %s found", version)

	if err := s.requireRegistered(ctx, number); err != nil {
		return err
	}
	s.ui.Success("Account verified in signal-cli")

	// Collect every decision upfront so the rest of the flow runs without
	// interrupting the user mid-linking.
	if opts.Interactive {
		if err := s.collectLauncherOptions(number, &opts); err != nil {
			return err
		}
		s.ui.Info("All configuration collected. Starting device linking process...")
	}

	var appPath string
	if opts.CreateApp && s.builder != nil {
		s.ui.Header("Creating Signal Desktop App")
		profileDir := s.desktop.ProfileDir(number)
		appPath, err = s.builder.Build(number, opts.AppName, profileDir)
		if err != nil {
			return fmt.Errorf("creating launcher app: %w", err)
		}
		s.ui.Success("Created Signal app: %s", launcher.AppName(number, opts.AppName))
		s.ui.Say("Location: %s", appPath)
	}

	profileDir := s.desktop.ProfileDir(number)
	if !opts.NoLaunch {
		s.ui.Header("Launching Signal Desktop")
		s.ui.Say("Profile directory: %s", profileDir)
		if err := s.desktop.Launch(profileDir); err != nil {
			s.ui.Warn("%v", err)
			s.ui.Say("Please launch Signal Desktop manually and continue")
		} else {
			s.ui.Success("Signal Desktop launched in background")
		}
	}

	s.printLinkingInstructions()

	uri := opts.URI
	if uri == "" {
		uri, err = s.obtainURI(ctx)
		if err != nil {
			return err
		}
	}

	s.ui.Header("Linking Device")
	s.ui.Say("Adding Signal Desktop as a linked device...")
	if err := s.cli.AddDevice(ctx, number, uri); err != nil {
		s.ui.Say("Make sure:")
		s.ui.Say("1. The URI is correct and starts with %q", domain.LinkingScheme)
		s.ui.Say("2. You're linking from the account that owns the primary device")
		s.ui.Say("3. The QR code hasn't expired (generate a new one if needed)")
		return err
	}
	s.ui.Success("Device linking successful!")

	s.ui.Header("Syncing Data")
	s.ui.Say("Downloading contacts and groups from Signal Desktop...")
	if err := s.cli.Receive(ctx, number, s.receiveTimeout); err != nil {
		return err
	}
	s.ui.Success("Sync completed")

	if err := s.record(number, profileDir, appPath, opts); err != nil {
		s.ui.Warn("Could not update the local account registry: %v", err)
	}

	if appPath != "" && opts.CopyToApplications {
		s.ui.Say("Copying app to Applications folder...")
		dest, err := launcher.CopyToApplications(appPath)
		if err != nil {
			s.ui.Fail("%v", err)
			s.ui.Say("Manual step: drag %s to /Applications", appPath)
		} else {
			s.ui.Success("Installed %s", dest)
		}
	} else if appPath != "" {
		s.ui.Say("Manual step: drag %s to /Applications when convenient", appPath)
	}

	s.ui.Header("Setup Complete")
	s.ui.Success("Signal Desktop is now linked to your signal-cli!")
	s.ui.Say("Your signal-cli remains the primary device with full control.")
	s.ui.Say("Signal Desktop is now a secondary device for convenient messaging.")
	s.ui.Say("")
	s.ui.Say("You can manage linked devices with:")
	s.ui.Say("  signal-cli -a %s listDevices", number)
	s.ui.Say("  signal-cli -a %s removeDevice -d DEVICE_ID", number)
	return nil
}

// requireRegistered checks that number has a local registration.
func (s *Service) requireRegistered(ctx context.Context, number domain.PhoneNumber) error {
	accounts, err := s.cli.ListAccounts(ctx)
	if err != nil {
		return fmt.Errorf("could not check registered accounts: %w", err)
	}
	for _, a := range accounts {
		if a == number {
			return nil
		}
	}
	return fmt.Errorf("%w: register %s first", domain.ErrNotRegistered, number)
}

// collectLauncherOptions asks about the optional .app bundle upfront.
func (s *Service) collectLauncherOptions(number domain.PhoneNumber, opts *Options) error {
	if s.builder == nil {
		return nil
	}
	s.ui.Header("Signal Desktop App Configuration")
	s.ui.Say("Would you like to create a Signal Desktop .app file for easy launching?")
	s.ui.Say("This creates a clickable app that launches Signal with your profile.")

	create, err := s.ui.YesNo("Create Signal Desktop app?")
	if err != nil {
		return err
	}
	opts.CreateApp = create
	if !create {
		return nil
	}

	s.ui.Say("Default: %s", launcher.AppName(number, ""))
	name, err := s.ui.Line(fmt.Sprintf("Nickname for this Signal app [default: %s]: ", number.Digits()))
	if err != nil {
		return err
	}
	opts.AppName = name

	copyIt, err := s.ui.YesNo("Copy the app to your Applications folder after creation?")
	if err != nil {
		return err
	}
	opts.CopyToApplications = copyIt
	return nil
}

func (s *Service) printLinkingInstructions() {
	s.ui.Header("Desktop Linking Instructions")
	s.ui.Say("1. Signal Desktop should now be open with the correct profile")
	s.ui.Say("2. Go to File > Preferences > Privacy > Linked devices > Link new device")
	s.ui.Say("3. A QR code will appear")
}

// obtainURI tries automatic QR capture, with a retry prompt between attempts,
// before falling back to manual entry.
func (s *Service) obtainURI(ctx context.Context) (domain.LinkingURI, error) {
	if s.capturer != nil {
		s.ui.Say("4. Taking a screenshot to read the QR code automatically...")
		s.ui.Say("   (You'll see a screenshot selector - draw a square around the QR code)")

		for attempt := 1; attempt <= maxQRAttempts; attempt++ {
			if attempt > 1 {
				s.ui.Say("QR code reading attempt %d/%d", attempt, maxQRAttempts)
			}

			data, err := s.capturer.Capture(ctx)
			if err == nil {
				uri, parseErr := domain.ParseLinkingURI(data)
				if parseErr == nil {
					s.ui.Success("QR code read successfully: %s", uri.Truncated())
					return uri, nil
				}
				s.ui.Warn("QR code read but it isn't a valid linking URI")
				s.ui.Say("QR data received: %s", data)
			} else {
				if errors.Is(err, domain.ErrScreenPermission) || errors.Is(err, context.Canceled) {
					return "", err
				}
				s.log.Debug("qr capture failed", zap.Error(err))
				s.ui.Warn("Error reading QR code: %v", err)
			}

			if attempt < maxQRAttempts {
				retry, err := s.ui.YesNo("Would you like to try again?")
				if err != nil {
					return "", err
				}
				if !retry {
					s.ui.Say("Skipping to manual input...")
					break
				}
			} else {
				s.ui.Say("Maximum attempts reached, falling back to manual input...")
			}
		}
	}

	s.ui.Header("Manual URI Input Required")
	s.ui.Say("4. Copy the linking URI that appears in Signal Desktop")
	s.ui.Say("   (It should start with %q)", domain.LinkingScheme)
	s.ui.Say("5. Enter the linking URI below:")
	return s.ui.LinkingURI()
}

func (s *Service) record(number domain.PhoneNumber, profileDir, appPath string, opts Options) error {
	rec, _, err := s.store.Get(number)
	if err != nil {
		return err
	}
	rec.Number = number
	rec.ProfileDir = profileDir
	if opts.DeviceName != "" {
		rec.DeviceName = opts.DeviceName
	}
	if appPath != "" {
		rec.LauncherApp = filepath.Base(appPath)
	}
	rec.LinkedAt = s.now().UTC()
	return s.store.Upsert(rec)
}
