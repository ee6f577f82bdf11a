package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/viper"

	fixnext "github.com/vercel-labs/fix-react2shell-next"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	boldStyle = lipgloss.NewStyle().Bold(true)

	severityStyles = map[fixnext.Severity]lipgloss.Style{
		fixnext.SeverityCritical: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		fixnext.SeverityHigh:     lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		fixnext.SeverityMedium:   lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		fixnext.SeverityLow:      lipgloss.NewStyle().Foreground(lipgloss.Color("110")),
		fixnext.SeverityUnknown:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
)

// paint styles s unless --no-color is set.
func paint(style lipgloss.Style, s string) string {
	if viper.GetBool("no_color") {
		return s
	}
	return style.Render(s)
}

// severityLabel renders an upper-cased, width-padded severity. Padding
// happens before styling so ANSI escapes do not skew column alignment.
func severityLabel(s fixnext.Severity) string {
	label := fmt.Sprintf("%-8s", strings.ToUpper(string(s)))
	style, ok := severityStyles[s]
	if !ok {
		style = dimStyle
	}
	return paint(style, label)
}
