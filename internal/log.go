package internal

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var logger = log.New(os.Stderr)

// SetLogger injects the logger used by the planning and commit phases.
func SetLogger(l *log.Logger) {
	if l != nil {
		logger = l
	}
}

// NewLogger builds the application logger. Quiet keeps errors only;
// informational skip messages disappear, diagnostics never do.
func NewLogger(quiet bool) *log.Logger {
	l := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})

	styles := log.DefaultStyles()
	styles.Levels[log.InfoLevel] = lipgloss.NewStyle().
		SetString("INFO ").
		Bold(true).
		Foreground(lipgloss.Color("86"))
	styles.Levels[log.WarnLevel] = lipgloss.NewStyle().
		SetString("WARN ").
		Bold(true).
		Foreground(lipgloss.Color("192"))
	styles.Levels[log.ErrorLevel] = lipgloss.NewStyle().
		SetString("ERROR").
		Bold(true).
		Foreground(lipgloss.Color("204"))
	l.SetStyles(styles)

	if quiet {
		l.SetLevel(log.ErrorLevel)
	}
	return l
}
