package signalcli

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sigsetup/internal/domain"
)

// withFakeCommand swaps the subprocess for a shell snippet and records the
// argument vector each invocation received.
func withFakeCommand(t *testing.T, script string) *[][]string {
	t.Helper()
	var calls [][]string
	orig := execCommand
	execCommand = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		calls = append(calls, append([]string{name}, args...))
		return exec.CommandContext(ctx, "sh", "-c", script)
	}
	t.Cleanup(func() { execCommand = orig })
	return &calls
}

func TestVersion(t *testing.T) {
	withFakeCommand(t, `echo "signal-cli 0.13.4"`)
	v, err := New("", nil).Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0.13.4", v)
}

func TestVersion_NotFound(t *testing.T) {
	orig := execCommand
	execCommand = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		return exec.CommandContext(ctx, "definitely-not-a-real-binary-sigsetup")
	}
	t.Cleanup(func() { execCommand = orig })

	_, err := New("", nil).Version(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCLINotFound)
}

func TestRegister_Args(t *testing.T) {
	calls := withFakeCommand(t, "true")
	cli := New("signal-cli", nil)

	require.NoError(t, cli.Register(context.Background(), "+1234567890", "tok", false))
	require.Len(t, *calls, 1)
	assert.Equal(t, []string{
		"signal-cli", "-a", "+1234567890", "register", "--captcha", "signalcaptcha://tok",
	}, (*calls)[0])
}

func TestRegister_VoiceArgs(t *testing.T) {
	calls := withFakeCommand(t, "true")
	cli := New("signal-cli", nil)

	require.NoError(t, cli.Register(context.Background(), "+1234567890", "tok", true))
	require.Len(t, *calls, 1)
	assert.Equal(t, []string{
		"signal-cli", "-a", "+1234567890", "register", "--voice", "--captcha", "signalcaptcha://tok",
	}, (*calls)[0])
}

func TestRegister_Failure(t *testing.T) {
	withFakeCommand(t, `echo "captcha invalid" >&2; exit 1`)
	err := New("", nil).Register(context.Background(), "+1234567890", "tok", false)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRegistrationFailed)
	assert.Contains(t, err.Error(), "captcha invalid")
}

func TestVerify_PinArgs(t *testing.T) {
	calls := withFakeCommand(t, "true")
	cli := New("signal-cli", nil)

	require.NoError(t, cli.Verify(context.Background(), "+1234567890", "123456", "0000"))
	assert.Equal(t, []string{
		"signal-cli", "-a", "+1234567890", "verify", "123456", "--pin", "0000",
	}, (*calls)[0])

	require.NoError(t, cli.Verify(context.Background(), "+1234567890", "123456", ""))
	assert.Equal(t, []string{
		"signal-cli", "-a", "+1234567890", "verify", "123456",
	}, (*calls)[1])
}

func TestVerify_Failure(t *testing.T) {
	withFakeCommand(t, "exit 1")
	err := New("", nil).Verify(context.Background(), "+1234567890", "123456", "")
	assert.ErrorIs(t, err, domain.ErrVerificationFailed)
}

func TestAddDevice(t *testing.T) {
	calls := withFakeCommand(t, "true")
	uri := domain.LinkingURI("sgnl://linkdevice?uuid=x&pub_key=y")

	require.NoError(t, New("signal-cli", nil).AddDevice(context.Background(), "+1234567890", uri))
	assert.Equal(t, []string{
		"signal-cli", "-a", "+1234567890", "addDevice", "--uri", uri.String(),
	}, (*calls)[0])
}

func TestAddDevice_Failure(t *testing.T) {
	withFakeCommand(t, "exit 2")
	uri := domain.LinkingURI("sgnl://linkdevice?uuid=x&pub_key=y")
	err := New("", nil).AddDevice(context.Background(), "+1234567890", uri)
	assert.ErrorIs(t, err, domain.ErrLinkingFailed)
}

func TestReceive_TimeoutIsSuccess(t *testing.T) {
	withFakeCommand(t, "sleep 5")
	err := New("", nil).Receive(context.Background(), "+1234567890", 50*time.Millisecond)
	assert.NoError(t, err)
}

func TestReceive_ExitErrorIsSuccess(t *testing.T) {
	withFakeCommand(t, "exit 1")
	err := New("", nil).Receive(context.Background(), "+1234567890", time.Second)
	assert.NoError(t, err)
}

func TestReceive_CancelledContextIsError(t *testing.T) {
	withFakeCommand(t, "sleep 5")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New("", nil).Receive(ctx, "+1234567890", time.Second)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseAccounts(t *testing.T) {
	out := "Number: +1234567890\nNumber: +49123456789\nNumber: +1234567890\n"
	nums := parseAccounts(out)
	assert.Equal(t, []domain.PhoneNumber{"+1234567890", "+49123456789"}, nums)

	assert.Empty(t, parseAccounts("no accounts here"))
}

func TestParseDevices(t *testing.T) {
	out := "- Device 1 (created: x): primary\n- Device 2 (created: y): signal-desktop\nnoise\n"
	devs := parseDevices(out)
	require.Len(t, devs, 2)
	assert.Equal(t, domain.Device{ID: 1, Name: "primary"}, devs[0])
	assert.Equal(t, domain.Device{ID: 2, Name: "signal-desktop"}, devs[1])

	// Lines without the created annotation still yield the name.
	devs = parseDevices("Device 3: spare\n")
	require.Len(t, devs, 1)
	assert.Equal(t, domain.Device{ID: 3, Name: "spare"}, devs[0])
}
