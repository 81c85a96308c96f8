// Package registration implements the new-account onboarding flow: captcha,
// SMS registration with voice-call fallback, code verification, a note-to-self
// smoke test, and follow-up guidance for keeping the account synced.
package registration
