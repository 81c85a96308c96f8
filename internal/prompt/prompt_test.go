package prompt_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sigsetup/internal/domain"
	"sigsetup/internal/prompt"
)

func newPrompter(input string) (*prompt.Prompter, *bytes.Buffer) {
	var out bytes.Buffer
	return prompt.New(strings.NewReader(input), &out), &out
}

func TestPhoneNumber_RetriesUntilValid(t *testing.T) {
	p, out := newPrompter("12345\n+123\n+1234567890\n")

	n, err := p.PhoneNumber()
	require.NoError(t, err)
	assert.Equal(t, domain.PhoneNumber("+1234567890"), n)
	assert.Contains(t, out.String(), "must start with +")
}

func TestVerificationCode_RetriesUntilValid(t *testing.T) {
	p, _ := newPrompter("12\nabcdef\n654321\n")

	c, err := p.VerificationCode()
	require.NoError(t, err)
	assert.Equal(t, domain.VerificationCode("654321"), c)
}

func TestCaptchaToken_ExtractsFromFullLine(t *testing.T) {
	p, out := newPrompter("signalcaptcha://tok-123\n")

	tok, err := p.CaptchaToken()
	require.NoError(t, err)
	assert.Equal(t, domain.CaptchaToken("tok-123"), tok)
	assert.Contains(t, out.String(), "extracted successfully")
}

func TestLinkingURI_RejectsWrongScheme(t *testing.T) {
	p, out := newPrompter("https://example.com\nsgnl://linkdevice?uuid=6f5902ac-23e1-4a6f-8e33-6c4b0a6a0f6d&pub_key=k\n")

	uri, err := p.LinkingURI()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri.String(), "sgnl://linkdevice?"))
	assert.Contains(t, out.String(), "sgnl://linkdevice?")
}

func TestYesNo(t *testing.T) {
	p, _ := newPrompter("maybe\nYES\n")
	ok, err := p.YesNo("Continue?")
	require.NoError(t, err)
	assert.True(t, ok)

	p, _ = newPrompter("n\n")
	ok, err = p.YesNo("Continue?")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMenu(t *testing.T) {
	p, out := newPrompter("0\n3\n2\n")
	n, err := p.Menu("Choose setup mode:", "register", "link")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Contains(t, out.String(), "1) register")
	assert.Contains(t, out.String(), "Invalid choice")
}

func TestLine_EOF(t *testing.T) {
	p, _ := newPrompter("")
	_, err := p.Line("anything: ")
	assert.Error(t, err)
}

func TestPIN_PlainWhenNotTerminal(t *testing.T) {
	p, _ := newPrompter("1234\n")
	pin, err := p.PIN("Enter your PIN: ")
	require.NoError(t, err)
	assert.Equal(t, "1234", pin)
}
