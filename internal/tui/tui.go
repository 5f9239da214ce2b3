// Package tui is the interactive checklist screen: a Bubble Tea program over
// the control layer.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"ckl-cli/internal/control"
)

// Run blocks until the user quits. A persistence failure inside the session
// aborts the program and is returned here.
func Run(ctrl *control.Control) error {
	applyColorProfilePreference()
	applyThemePreference()

	p := tea.NewProgram(newAppModel(ctrl), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(appModel); ok && m.err != nil {
		return m.err
	}
	return nil
}
