package registration

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"sigsetup/internal/domain"
	"sigsetup/internal/prompt"
)

// DefaultVoiceDelay is how long to wait before the voice fallback; the
// registration endpoint rejects a voice call too soon after an SMS attempt.
const DefaultVoiceDelay = 60 * time.Second

const testMessage = "Test message - Signal CLI registration successful!"

// Service runs the registration flow.
type Service struct {
	cli        domain.Runner
	store      domain.AccountStore
	ui         *prompt.Prompter
	voiceDelay time.Duration
	log        *zap.Logger

	now func() time.Time
}

// New returns a registration service. voiceDelay falls back to
// DefaultVoiceDelay when zero.
func New(cli domain.Runner, store domain.AccountStore, ui *prompt.Prompter, voiceDelay time.Duration, log *zap.Logger) *Service {
	if voiceDelay <= 0 {
		voiceDelay = DefaultVoiceDelay
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		cli:        cli,
		store:      store,
		ui:         ui,
		voiceDelay: voiceDelay,
		log:        log,
		now:        time.Now,
	}
}

// Options configures one registration run.
type Options struct {
	// Captcha resolves the captcha token (flag value, file, watch, or an
	// interactive prompt). Called after the CLI availability check passes.
	Captcha func(ctx context.Context) (domain.CaptchaToken, error)

	// VoiceOnly skips the SMS attempt and requests a voice call directly.
	VoiceOnly bool

	// DeviceName is recorded in the account registry.
	DeviceName string

	// Interactive adds the "press enter when ready" gate of the wizard.
	Interactive bool
}

// Run registers number as a new primary account.
func (s *Service) Run(ctx context.Context, number domain.PhoneNumber, opts Options) error {
	version, err := s.cli.Version(ctx)
	if err != nil {
		return err
	}
	s.ui.Success("signal-cli %s found", version)

	token, err := opts.Captcha(ctx)
	if err != nil {
		return err
	}

	if opts.Interactive {
		s.ui.Say("\nNow we'll start the registration process.")
		s.ui.Say("You'll receive a verification code via SMS or voice call.")
		if err := s.ui.Enter("Press Enter when ready to proceed..."); err != nil {
			return err
		}
	}

	if err := s.register(ctx, number, token, opts.VoiceOnly); err != nil {
		return err
	}

	s.ui.Header("Verification")
	code, err := s.ui.VerificationCode()
	if err != nil {
		return err
	}
	pin, err := s.askPIN()
	if err != nil {
		return err
	}
	if err := s.cli.Verify(ctx, number, code, pin); err != nil {
		return err
	}
	if pin != "" {
		s.ui.Success("Account verified successfully with PIN")
	} else {
		s.ui.Success("Account verified successfully")
	}

	s.ui.Header("Testing Registration")
	if err := s.cli.SendNoteToSelf(ctx, number, testMessage); err != nil {
		s.log.Debug("note-to-self failed", zap.Error(err))
		s.ui.Warn("Could not send test message, but registration may still be successful")
	} else {
		s.ui.Success("Test message sent successfully")
		s.ui.Say("Check your Signal app for the test message")
	}

	if err := s.record(number, opts.DeviceName); err != nil {
		s.ui.Warn("Could not update the local account registry: %v", err)
	}

	s.ui.Header("Important: Regular Message Receiving")
	s.ui.Say("%s", daemonGuidance(number))

	s.ui.Header("Registration Complete")
	s.ui.Success("Your Signal CLI is now registered and ready to use!")
	s.ui.Say("Account data is stored in: ~/.local/share/signal-cli/data/")
	return nil
}

// register tries SMS first and falls back to a voice call after the
// configured delay.
func (s *Service) register(ctx context.Context, number domain.PhoneNumber, token domain.CaptchaToken, voiceOnly bool) error {
	if !voiceOnly {
		s.ui.Header("Registering with SMS")
		err := s.cli.Register(ctx, number, token, false)
		if err == nil {
			s.ui.Success("Registration request sent via SMS")
			return nil
		}
		s.log.Debug("sms registration failed", zap.Error(err))
		s.ui.Warn("SMS registration failed, will try voice verification")

		s.ui.Header("Registering with Voice Call")
		s.ui.Say("Waiting %s before attempting voice verification...", s.voiceDelay)
		if err := wait(ctx, s.voiceDelay); err != nil {
			return err
		}
	} else {
		s.ui.Header("Registering with Voice Call")
	}

	if err := s.cli.Register(ctx, number, token, true); err != nil {
		s.log.Debug("voice registration failed", zap.Error(err))
		return fmt.Errorf("%w: both SMS and voice registration failed", domain.ErrRegistrationFailed)
	}
	s.ui.Success("Voice call registration initiated")
	s.ui.Say("You should receive a call shortly with the verification code")
	return nil
}

func (s *Service) askPIN() (string, error) {
	hasPIN, err := s.ui.YesNo("Do you have a registration PIN?")
	if err != nil {
		return "", err
	}
	if !hasPIN {
		return "", nil
	}
	return s.ui.PIN("Enter your PIN: ")
}

func (s *Service) record(number domain.PhoneNumber, deviceName string) error {
	rec, _, err := s.store.Get(number)
	if err != nil {
		return err
	}
	rec.Number = number
	rec.DeviceName = deviceName
	rec.RegisteredAt = s.now().UTC()
	return s.store.Upsert(rec)
}

// daemonGuidance explains how to keep the protocol state fresh once the
// account is a primary device.
func daemonGuidance(number domain.PhoneNumber) string {
	return fmt.Sprintf(`Signal protocol requires regular message receiving for proper encryption.
You should regularly run:
  signal-cli -a %[1]s receive

For continuous operation, you can run the daemon:
  signal-cli -a %[1]s daemon

Or set up a simple cron job (every 5 minutes):
*/5 * * * * signal-cli -a %[1]s receive`, number)
}

// wait sleeps for d unless ctx ends first.
func wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
