package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type modalKind int

const (
	modalNone modalKind = iota
	modalHelp
	modalDuplicates
	modalCompleted
	modalConfirmReset
)

// modalBodyWidth picks a body width that fits the terminal with some
// breathing room around the border.
func modalBodyWidth(termWidth int) int {
	w := termWidth - 8
	if w > 64 {
		w = 64
	}
	if w < 20 {
		w = 20
	}
	return w
}

func renderModalBox(title, body string, bodyW int) string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorMuted).
		Padding(0, 2).
		Width(bodyW + 4)
	content := titleStyle.Render(title) + "\n\n" + body
	return box.Render(content)
}

func (m appModel) placeCentered(s string) string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, s)
}

func (m appModel) renderConfirmReset() string {
	bodyW := modalBodyWidth(m.width)

	btnBase := lipgloss.NewStyle().Padding(0, 1).
		Background(colorControlBg).Foreground(colorSurfaceFg)
	btnActive := lipgloss.NewStyle().Padding(0, 1).
		Background(colorSelectedBg).Foreground(colorSelectedFg).Bold(true)

	yes, no := btnBase, btnBase
	if m.confirmFocus == 0 {
		no = btnActive
	} else {
		yes = btnActive
	}

	buttons := lipgloss.JoinHorizontal(lipgloss.Top,
		no.Render("No"), "  ", yes.Render("Yes"))

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Width(bodyW).
		Render("Uncheck every item and start over?"))
	b.WriteString("\n\n")
	b.WriteString(buttons)
	b.WriteString("\n\n")
	b.WriteString(styleMuted().Width(bodyW).
		Render("left/right: choose   enter: confirm   esc: cancel"))

	return m.placeCentered(renderModalBox("Reset checklist", b.String(), bodyW))
}

func (m appModel) renderDuplicates() string {
	bodyW := modalBodyWidth(m.width)

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Width(bodyW).
		Render("These names appear more than once. Later occurrences shadow earlier ones when lists merge."))
	b.WriteString("\n\n")
	warn := lipgloss.NewStyle().Foreground(colorWarn)
	for _, d := range m.duplicates {
		b.WriteString(warn.Render(d.Name))
		b.WriteString(styleMuted().Render(fmt.Sprintf(": from %s line %d", d.Path, d.Line)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styleMuted().Width(bodyW).Render("any key: dismiss"))

	return m.placeCentered(renderModalBox("Duplicate names", b.String(), bodyW))
}

func (m appModel) renderCompleted() string {
	bodyW := modalBodyWidth(m.width)

	btn := lipgloss.NewStyle().Padding(0, 1).
		Background(colorSelectedBg).Foreground(colorSelectedFg).Bold(true)

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Width(bodyW).Bold(true).
		Render("Fine Work"))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Width(bodyW).
		Render("Every item is checked off."))
	b.WriteString("\n\n")
	b.WriteString(btn.Render("Indeed"))
	b.WriteString("\n\n")
	b.WriteString(styleMuted().Width(bodyW).Render("enter/esc: dismiss"))

	return m.placeCentered(renderModalBox(m.ctrl.Name(), b.String(), bodyW))
}
