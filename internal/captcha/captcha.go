package captcha

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"sigsetup/internal/domain"
)

// GeneratorURL is the page that produces registration captcha tokens.
const GeneratorURL = "https://signalcaptchas.org/registration/generate.html"

// Instructions tells the user how to get a token out of the generator page.
const Instructions = `1. Open this URL in your browser: ` + GeneratorURL + `
2. Open Developer Tools (F12) and go to the Console tab
3. Solve the captcha
4. Look for a line like: 'Launched external handler for "signalcaptcha://..."'
5. Copy the entire line or just the token part`

// ErrNoToken means no token could be extracted from the input.
var ErrNoToken = errors.New("could not extract captcha token")

// Extract pulls the bare token out of whatever the user pasted: a quoted
// console line, a full signalcaptcha:// URI, or the token itself.
func Extract(input string) (domain.CaptchaToken, error) {
	input = strings.TrimSpace(input)
	input = strings.Trim(input, `"'`)

	if i := strings.Index(input, domain.CaptchaScheme); i >= 0 {
		token := input[i+len(domain.CaptchaScheme):]
		if token == "" {
			return "", ErrNoToken
		}
		return domain.CaptchaToken(token), nil
	}
	if input == "" {
		return "", ErrNoToken
	}
	return domain.CaptchaToken(input), nil
}

// FromFile reads a token from path, accepting the same input forms as Extract.
func FromFile(path string) (domain.CaptchaToken, error) {
	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("captcha file %q not found", path)
	case errors.Is(err, fs.ErrPermission):
		return "", fmt.Errorf("permission denied reading captcha file %q", path)
	case err != nil:
		return "", fmt.Errorf("reading captcha file: %w", err)
	}
	content := strings.TrimSpace(string(b))
	if content == "" {
		return "", fmt.Errorf("captcha file %q is empty", path)
	}
	token, err := Extract(content)
	if err != nil {
		return "", fmt.Errorf("captcha file %q: %w", path, err)
	}
	return token, nil
}
