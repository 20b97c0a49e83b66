// ABOUTME: TUI initialization and control
// ABOUTME: Wraps the bubbletea program for the live-coding interface
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sineworks/glint/internal/config"
)

// Run starts the TUI. The returned program accepts LogMsg, PatchAppliedMsg
// and DeviceErrorMsg via Send from other goroutines.
func Run(ctrl Controller, keys config.Keys, sampleRate int, initialPatch string) *tea.Program {
	return tea.NewProgram(
		NewModel(ctrl, keys, sampleRate, initialPatch),
		tea.WithAltScreen(),
	)
}
