// Package prompt implements the line-oriented interactive surface of the
// wizard: validated input loops (phone number, verification code, captcha
// token, linking URI) and styled status output.
//
// A Prompter is bound to an io.Reader and io.Writer so flows remain testable
// with scripted input. It deliberately stays line-oriented rather than using a
// full-screen TUI: the wizard hands the terminal over to subprocesses (the
// screenshot selector, signal-cli) mid-flow.
package prompt
