package linking_test

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sigsetup/internal/domain"
	"sigsetup/internal/launcher"
	"sigsetup/internal/prompt"
	"sigsetup/internal/services/linking"
	"sigsetup/internal/store"
)

const validURI = "sgnl://linkdevice?uuid=8a6e2f58-6f9a-4f6a-9d7c-1f2a3b4c5d6e&pub_key=abc123"

type fakeRunner struct {
	accounts     []domain.PhoneNumber
	addDeviceErr error
	addedURI     domain.LinkingURI
	received     bool
	receiveDur   time.Duration
}

func (f *fakeRunner) Version(context.Context) (string, error) { return "0.13.4", nil }
func (f *fakeRunner) Register(context.Context, domain.PhoneNumber, domain.CaptchaToken, bool) error {
	return nil
}
func (f *fakeRunner) Verify(context.Context, domain.PhoneNumber, domain.VerificationCode, string) error {
	return nil
}
func (f *fakeRunner) AddDevice(_ context.Context, _ domain.PhoneNumber, uri domain.LinkingURI) error {
	f.addedURI = uri
	return f.addDeviceErr
}
func (f *fakeRunner) ListAccounts(context.Context) ([]domain.PhoneNumber, error) {
	return f.accounts, nil
}
func (f *fakeRunner) ListDevices(context.Context, domain.PhoneNumber) ([]domain.Device, error) {
	return nil, nil
}
func (f *fakeRunner) Receive(_ context.Context, _ domain.PhoneNumber, d time.Duration) error {
	f.received = true
	f.receiveDur = d
	return nil
}
func (f *fakeRunner) SendNoteToSelf(context.Context, domain.PhoneNumber, string) error { return nil }

type fakeDesktop struct {
	profileDir string
	launched   []string
	launchErr  error
}

func (f *fakeDesktop) ProfileDir(domain.PhoneNumber) string { return f.profileDir }
func (f *fakeDesktop) Launch(dir string) error {
	f.launched = append(f.launched, dir)
	return f.launchErr
}
func (f *fakeDesktop) Running() bool                            { return true }
func (f *fakeDesktop) Quit() error                              { return nil }
func (f *fakeDesktop) Focus()                                   {}
func (f *fakeDesktop) Screenshot(context.Context, string) error { return nil }
func (f *fakeDesktop) Alert(string, string)                     {}
func (f *fakeDesktop) Notify(string, string)                    {}
func (f *fakeDesktop) Confirm(_, _, _, _ string) (bool, bool)   { return false, false }
func (f *fakeDesktop) OpenBrowser(string) error                 { return nil }

// fakeCapturer returns scripted payloads or errors, one per call.
type fakeCapturer struct {
	payloads []string
	errs     []error
	calls    int
}

func (f *fakeCapturer) Capture(context.Context) (string, error) {
	i := f.calls
	f.calls++
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	var payload string
	if i < len(f.payloads) {
		payload = f.payloads[i]
	}
	return payload, err
}

type fixture struct {
	runner  *fakeRunner
	desktop *fakeDesktop
	store   domain.AccountStore
	out     *bytes.Buffer
}

func newService(t *testing.T, cap *fakeCapturer, input string) (*linking.Service, *fixture) {
	t.Helper()
	f := &fixture{
		runner:  &fakeRunner{accounts: []domain.PhoneNumber{"+1234567890"}},
		desktop: &fakeDesktop{profileDir: filepath.Join(t.TempDir(), "Signal-Profile-1234567890")},
		out:     &bytes.Buffer{},
	}
	st, err := store.NewAccountFileStore(t.TempDir())
	require.NoError(t, err)
	f.store = st
	ui := prompt.New(strings.NewReader(input), f.out)
	var capturer domain.URICapturer
	if cap != nil {
		capturer = cap
	}
	svc := linking.New(f.runner, f.store, f.desktop, capturer, nil, ui, 10*time.Second, nil)
	return svc, f
}

func TestRun_WithExplicitURI(t *testing.T) {
	svc, f := newService(t, nil, "")

	err := svc.Run(context.Background(), "+1234567890", linking.Options{URI: validURI})
	require.NoError(t, err)
	assert.Equal(t, domain.LinkingURI(validURI), f.runner.addedURI)
	assert.True(t, f.runner.received)
	assert.Equal(t, 10*time.Second, f.runner.receiveDur)
	assert.Equal(t, []string{f.desktop.profileDir}, f.desktop.launched)
	assert.Contains(t, f.out.String(), "Setup Complete")

	rec, ok, err := f.store.Get("+1234567890")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, f.desktop.profileDir, rec.ProfileDir)
	assert.False(t, rec.LinkedAt.IsZero())
}

func TestRun_NotRegistered(t *testing.T) {
	svc, f := newService(t, nil, "")
	f.runner.accounts = nil

	err := svc.Run(context.Background(), "+1234567890", linking.Options{URI: validURI})
	assert.ErrorIs(t, err, domain.ErrNotRegistered)
	assert.Empty(t, f.desktop.launched)
}

func TestRun_NoLaunchSkipsDesktop(t *testing.T) {
	svc, f := newService(t, nil, "")

	err := svc.Run(context.Background(), "+1234567890", linking.Options{URI: validURI, NoLaunch: true})
	require.NoError(t, err)
	assert.Empty(t, f.desktop.launched)
}

func TestRun_CaptureFirstTry(t *testing.T) {
	cap := &fakeCapturer{payloads: []string{validURI}}
	svc, f := newService(t, cap, "")

	err := svc.Run(context.Background(), "+1234567890", linking.Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, cap.calls)
	assert.Equal(t, domain.LinkingURI(validURI), f.runner.addedURI)
	assert.Contains(t, f.out.String(), "QR code read successfully")
}

func TestRun_CaptureRetryThenSuccess(t *testing.T) {
	cap := &fakeCapturer{
		payloads: []string{"not a linking uri", validURI},
	}
	// "y" answers the retry prompt.
	svc, f := newService(t, cap, "y\n")

	err := svc.Run(context.Background(), "+1234567890", linking.Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, cap.calls)
	assert.Equal(t, domain.LinkingURI(validURI), f.runner.addedURI)
}

func TestRun_CaptureExhaustedFallsBackToManual(t *testing.T) {
	cap := &fakeCapturer{
		payloads: []string{"garbage", "garbage"},
	}
	// "y" retries once; after the second failure the manual prompt reads the URI.
	svc, f := newService(t, cap, "y\n"+validURI+"\n")

	err := svc.Run(context.Background(), "+1234567890", linking.Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, cap.calls)
	assert.Equal(t, domain.LinkingURI(validURI), f.runner.addedURI)
	assert.Contains(t, f.out.String(), "Manual URI Input Required")
}

func TestRun_CaptureDeclinedGoesManual(t *testing.T) {
	cap := &fakeCapturer{errs: []error{errors.New("decode failed")}}
	// "n" declines the retry; the manual prompt reads the URI.
	svc, f := newService(t, cap, "n\n"+validURI+"\n")

	err := svc.Run(context.Background(), "+1234567890", linking.Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, cap.calls)
	assert.Equal(t, domain.LinkingURI(validURI), f.runner.addedURI)
}

func TestRun_ScreenPermissionIsFatal(t *testing.T) {
	cap := &fakeCapturer{errs: []error{domain.ErrScreenPermission}}
	svc, _ := newService(t, cap, "")

	err := svc.Run(context.Background(), "+1234567890", linking.Options{})
	assert.ErrorIs(t, err, domain.ErrScreenPermission)
}

func TestRun_AddDeviceFailure(t *testing.T) {
	svc, f := newService(t, nil, "")
	f.runner.addDeviceErr = domain.ErrLinkingFailed

	err := svc.Run(context.Background(), "+1234567890", linking.Options{URI: validURI})
	assert.ErrorIs(t, err, domain.ErrLinkingFailed)
	assert.Contains(t, f.out.String(), "Make sure:")
}

func TestRun_InteractiveLauncherPrompts(t *testing.T) {
	svc, f := newService(t, nil, "")
	// builder is nil in the fixture, so interactive mode skips the launcher
	// questions entirely and needs no input.
	err := svc.Run(context.Background(), "+1234567890", linking.Options{
		URI:         validURI,
		Interactive: true,
	})
	require.NoError(t, err)
	assert.NotContains(t, f.out.String(), "Create Signal Desktop app?")
}

func TestRun_BuildsLauncherBundle(t *testing.T) {
	outDir := t.TempDir()
	f := &fixture{
		runner:  &fakeRunner{accounts: []domain.PhoneNumber{"+1234567890"}},
		desktop: &fakeDesktop{profileDir: filepath.Join(t.TempDir(), "profile")},
		out:     &bytes.Buffer{},
	}
	st, err := store.NewAccountFileStore(t.TempDir())
	require.NoError(t, err)
	f.store = st
	b := &launcher.Builder{SignalBinary: "/usr/bin/true", OutputDir: outDir}
	svc := linking.New(f.runner, f.store, f.desktop, nil, b, prompt.New(strings.NewReader(""), f.out), 0, nil)

	err = svc.Run(context.Background(), "+1234567890", linking.Options{
		URI:       validURI,
		NoLaunch:  true,
		CreateApp: true,
		AppName:   "work",
	})
	require.NoError(t, err)
	assert.DirExists(t, filepath.Join(outDir, "Signal-work.app"))
	assert.Contains(t, f.out.String(), "Created Signal app: Signal-work.app")

	rec, ok, err := f.store.Get("+1234567890")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Signal-work.app", rec.LauncherApp)
}
