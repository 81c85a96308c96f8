package prompt

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
)

// Header prints a section header like "=== Verification ===".
func (p *Prompter) Header(title string) {
	fmt.Fprintf(p.out, "\n%s\n", headerStyle.Render("=== "+title+" ==="))
}

// Success prints a checkmarked status line.
func (p *Prompter) Success(format string, args ...any) {
	fmt.Fprintln(p.out, successStyle.Render("✓ "+fmt.Sprintf(format, args...)))
}

// Warn prints a warning status line.
func (p *Prompter) Warn(format string, args ...any) {
	fmt.Fprintln(p.out, warnStyle.Render("⚠ "+fmt.Sprintf(format, args...)))
}

// Fail prints a failure status line.
func (p *Prompter) Fail(format string, args ...any) {
	fmt.Fprintln(p.out, failStyle.Render("✗ "+fmt.Sprintf(format, args...)))
}

// Info prints an informational status line.
func (p *Prompter) Info(format string, args ...any) {
	fmt.Fprintln(p.out, infoStyle.Render("· "+fmt.Sprintf(format, args...)))
}

// Say prints plain flow text.
func (p *Prompter) Say(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}
