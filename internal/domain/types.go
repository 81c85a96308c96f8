package domain

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	// CaptchaScheme prefixes tokens copied out of the captcha generator page.
	CaptchaScheme = "signalcaptcha://"

	// LinkingScheme prefixes the URI encoded in Signal Desktop's QR code.
	LinkingScheme = "sgnl://linkdevice?"

	// verificationCodeLen is the length of the SMS/voice verification code.
	verificationCodeLen = 6
)

// PhoneNumber is an account number in international format, e.g. +1234567890.
type PhoneNumber string

// ParsePhoneNumber validates s as an international number: a leading '+'
// followed by more than four digits.
func ParsePhoneNumber(s string) (PhoneNumber, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "+") || len(s) <= 5 {
		return "", fmt.Errorf("phone number must start with + and include the country code (e.g. +1234567890)")
	}
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("phone number may contain only digits after +")
		}
	}
	return PhoneNumber(s), nil
}

func (n PhoneNumber) String() string { return string(n) }

// Digits returns the number without the leading '+', used for profile and
// launcher naming.
func (n PhoneNumber) Digits() string { return strings.TrimPrefix(string(n), "+") }

// CaptchaToken is the bare proof-of-work token with the signalcaptcha://
// scheme already stripped.
type CaptchaToken string

func (t CaptchaToken) String() string { return string(t) }

// URI re-applies the scheme the registration endpoint expects.
func (t CaptchaToken) URI() string { return CaptchaScheme + string(t) }

// VerificationCode is the 6-digit code delivered by SMS or voice call.
type VerificationCode string

// ParseVerificationCode validates s as exactly six ASCII digits.
func ParseVerificationCode(s string) (VerificationCode, error) {
	s = strings.TrimSpace(s)
	if len(s) != verificationCodeLen {
		return "", fmt.Errorf("verification code must be %d digits", verificationCodeLen)
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("verification code must be numeric")
		}
	}
	return VerificationCode(s), nil
}

func (c VerificationCode) String() string { return string(c) }

// LinkingURI is the device-linking URI shown by Signal Desktop, e.g.
// sgnl://linkdevice?uuid=...&pub_key=...
type LinkingURI string

// ParseLinkingURI validates the scheme and that the uuid and pub_key query
// parameters are present. The uuid value is an opaque device identifier
// (base64url in real QR payloads, not RFC 4122), so only presence is checked.
func ParseLinkingURI(s string) (LinkingURI, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, LinkingScheme) {
		return "", fmt.Errorf("linking URI must start with %q", LinkingScheme)
	}
	u, err := url.Parse(s)
	if err != nil {
		return "", fmt.Errorf("linking URI: %w", err)
	}
	q := u.Query()
	if q.Get("uuid") == "" {
		return "", fmt.Errorf("linking URI is missing the uuid parameter")
	}
	if q.Get("pub_key") == "" {
		return "", fmt.Errorf("linking URI is missing the pub_key parameter")
	}
	return LinkingURI(s), nil
}

func (u LinkingURI) String() string { return string(u) }

// Truncated returns a shortened form safe for status output; the pub_key is
// sensitive enough that full URIs stay out of logs.
func (u LinkingURI) Truncated() string {
	const max = 50
	if len(u) <= max {
		return string(u)
	}
	return string(u[:max]) + "..."
}

// Device is one linked device of a registered account.
type Device struct {
	ID   int
	Name string
}

// AccountRecord tracks an account this tool has onboarded.
type AccountRecord struct {
	Number       PhoneNumber `json:"number"`
	DeviceName   string      `json:"device_name,omitempty"`
	ProfileDir   string      `json:"profile_dir,omitempty"`
	LauncherApp  string      `json:"launcher_app,omitempty"`
	RegisteredAt time.Time   `json:"registered_at,omitzero"`
	LinkedAt     time.Time   `json:"linked_at,omitzero"`
}
