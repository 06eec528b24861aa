// Package cli renders fkmig's terminal output: coded errors with their
// context, foreign-key listings and migration step lines.
package cli

import (
	"os"
	"sync"

	"github.com/mattn/go-isatty"
)

// Mode selects styled or plain rendering.
type Mode int

const (
	// Styled renders lipgloss colors for interactive terminals.
	Styled Mode = iota
	// Plain renders bare text for pipes, CI and NO_COLOR.
	Plain
)

var (
	modeMu   sync.Mutex
	modeSet  bool
	modeCurr Mode
)

// DetectMode returns Styled when stdout is a terminal. NO_COLOR
// (https://no-color.org/) and TERM=dumb force Plain.
func DetectMode() Mode {
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return Plain
	}
	fd := os.Stdout.Fd()
	if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		return Styled
	}
	return Plain
}

// SetMode overrides the detected mode, e.g. for --no-color.
func SetMode(m Mode) {
	modeMu.Lock()
	defer modeMu.Unlock()
	modeCurr, modeSet = m, true
}

// colorsEnabled reports whether output is styled, detecting the mode on
// first use.
func colorsEnabled() bool {
	modeMu.Lock()
	defer modeMu.Unlock()
	if !modeSet {
		modeCurr, modeSet = DetectMode(), true
	}
	return modeCurr == Styled
}
