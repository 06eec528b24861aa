package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/hlop3z/fkmig/internal/ast"
)

// Color scheme inspired by Cargo/rustc.
// Uses ANSI 256 colors for broad terminal compatibility.
var (
	styleError   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	styleWarning = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	styleNote    = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	styleHelp    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	styleSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	styleCode    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	stylePipe    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))

	styleHeader    = lipgloss.NewStyle().Bold(true)
	styleDim       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleHighlight = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))

	// Referential actions, by how destructive they are.
	styleCascade  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	styleNullify  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	styleRestrict = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
)

func render(style lipgloss.Style, s string) string {
	if !colorsEnabled() {
		return s
	}
	return style.Render(s)
}

// Error returns text styled as an error label.
func Error(s string) string { return render(styleError, s) }

// Warning returns text styled as a warning label.
func Warning(s string) string { return render(styleWarning, s) }

// Note returns text styled as a note label.
func Note(s string) string { return render(styleNote, s) }

// Help returns text styled as a help label.
func Help(s string) string { return render(styleHelp, s) }

// Success returns text styled as a success message.
func Success(s string) string { return render(styleSuccess, s) }

// Code returns text styled as an error code.
func Code(s string) string { return render(styleCode, s) }

// Pipe returns a pipe character styled for diagnostics.
func Pipe() string { return render(stylePipe, "|") }

// Header returns text styled as a table header.
func Header(s string) string { return render(styleHeader, s) }

// Dim returns text styled as dim/muted.
func Dim(s string) string { return render(styleDim, s) }

// Highlight returns text styled as highlighted.
func Highlight(s string) string { return render(styleHighlight, s) }

// Action renders a referential action; none renders as a dim "-".
func Action(a ast.Action) string {
	switch a {
	case ast.ActionCascade:
		return render(styleCascade, string(a))
	case ast.ActionNullify:
		return render(styleNullify, string(a))
	case ast.ActionRestrict:
		return render(styleRestrict, string(a))
	default:
		return Dim("-")
	}
}
