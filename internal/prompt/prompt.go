package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"sigsetup/internal/captcha"
	"sigsetup/internal/domain"
)

// Prompter reads validated input from in and writes prompts and status lines
// to out.
type Prompter struct {
	in    *bufio.Reader
	rawIn io.Reader
	out   io.Writer
}

// New returns a prompter bound to in/out (os.Stdin/os.Stdout when nil).
func New(in io.Reader, out io.Writer) *Prompter {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &Prompter{in: bufio.NewReader(in), rawIn: in, out: out}
}

// readPassword is swapped out in tests.
var readPassword = term.ReadPassword

// Line prints label and reads one trimmed line.
func (p *Prompter) Line(label string) (string, error) {
	fmt.Fprint(p.out, label)
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Enter blocks until the user presses enter.
func (p *Prompter) Enter(msg string) error {
	_, err := p.Line(msg)
	return err
}

// YesNo asks a y/n question, re-asking until the answer is recognisable.
func (p *Prompter) YesNo(label string) (bool, error) {
	for {
		answer, err := p.Line(label + " (y/n): ")
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		p.Fail("Please answer y or n")
	}
}

// Menu prints numbered options and returns the chosen 1-based index.
func (p *Prompter) Menu(title string, options ...string) (int, error) {
	p.Say("%s", title)
	for i, opt := range options {
		p.Say("%d) %s", i+1, opt)
	}
	p.Say("")
	for {
		answer, err := p.Line(fmt.Sprintf("Enter choice (1-%d): ", len(options)))
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(answer)
		if err == nil && n >= 1 && n <= len(options) {
			return n, nil
		}
		p.Fail("Invalid choice. Please enter a number between 1 and %d.", len(options))
	}
}

// PhoneNumber asks for an international phone number until it validates.
func (p *Prompter) PhoneNumber() (domain.PhoneNumber, error) {
	for {
		answer, err := p.Line("Enter phone number (e.g., +1234567890): ")
		if err != nil {
			return "", err
		}
		number, err := domain.ParsePhoneNumber(answer)
		if err == nil {
			return number, nil
		}
		p.Fail("%v", err)
	}
}

// VerificationCode asks for the 6-digit code until it validates.
func (p *Prompter) VerificationCode() (domain.VerificationCode, error) {
	for {
		answer, err := p.Line("Enter the 6-digit verification code you received: ")
		if err != nil {
			return "", err
		}
		code, err := domain.ParseVerificationCode(answer)
		if err == nil {
			return code, nil
		}
		p.Fail("%v", err)
	}
}

// CaptchaToken asks for a captcha token or full console line until a token
// can be extracted.
func (p *Prompter) CaptchaToken() (domain.CaptchaToken, error) {
	for {
		answer, err := p.Line("Enter captcha token or full line: ")
		if err != nil {
			return "", err
		}
		token, extractErr := captcha.Extract(answer)
		if extractErr == nil {
			p.Success("Captcha token extracted successfully")
			return token, nil
		}
		p.Fail("Could not extract captcha token from input")
		p.Say("Please provide either the full line or just the token part.")
		p.Say("If pasting the long token causes issues, save it to a file and use --captcha-file.")
	}
}

// LinkingURI asks for the sgnl:// linking URI until it validates.
func (p *Prompter) LinkingURI() (domain.LinkingURI, error) {
	for {
		answer, err := p.Line("Enter the linking URI from Signal Desktop: ")
		if err != nil {
			return "", err
		}
		uri, parseErr := domain.ParseLinkingURI(answer)
		if parseErr == nil {
			p.Success("Valid linking URI detected")
			return uri, nil
		}
		p.Fail("%v", parseErr)
		p.Say("Example format: sgnl://linkdevice?uuid=...&pub_key=...")
	}
}

// PIN reads a registration PIN without echo when stdin is a terminal, and as
// a plain line otherwise.
func (p *Prompter) PIN(label string) (string, error) {
	if f, ok := p.rawIn.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(p.out, label)
		b, err := readPassword(int(f.Fd()))
		fmt.Fprintln(p.out)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}
	return p.Line(label)
}
