package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"ckl-cli/internal/checklist"
	"ckl-cli/internal/control"
)

type appModel struct {
	ctrl *control.Control
	keys keyMap
	help help.Model

	width  int
	height int

	cursor int
	scroll int

	modal        modalKind
	confirmFocus int // 0 = No, 1 = Yes
	duplicates   []checklist.Duplicate

	err error
}

func newAppModel(ctrl *control.Control) appModel {
	m := appModel{
		ctrl:       ctrl,
		keys:       defaultKeyMap(),
		help:       help.New(),
		duplicates: ctrl.Duplicates(),
	}
	if len(m.duplicates) > 0 {
		m.modal = modalDuplicates
	}
	return m
}

func (m appModel) Init() tea.Cmd { return nil }

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m = m.clampCursor()
		return m, nil
	case tea.KeyMsg:
		if m.modal != modalNone {
			return m.updateModal(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m appModel) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.modal {
	case modalHelp, modalDuplicates:
		// Any key dismisses.
		m.modal = modalNone
		return m, nil

	case modalCompleted:
		switch msg.String() {
		case "enter", "esc", " ", "q":
			m.modal = modalNone
		}
		return m, nil

	case modalConfirmReset:
		switch msg.String() {
		case "left", "right", "tab":
			m.confirmFocus = 1 - m.confirmFocus
		case "esc", "n":
			m.modal = modalNone
		case "y":
			return m.doReset()
		case "enter":
			if m.confirmFocus == 1 {
				return m.doReset()
			}
			m.modal = modalNone
		}
		return m, nil
	}
	return m, nil
}

func (m appModel) doReset() (tea.Model, tea.Cmd) {
	m.modal = modalNone
	if err := m.ctrl.ResetAll(); err != nil {
		m.err = err
		return m, tea.Quit
	}
	m.cursor, m.scroll = 0, 0
	return m, nil
}

func (m appModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.modal = modalHelp

	case key.Matches(msg, m.keys.Up):
		m.cursor--

	case key.Matches(msg, m.keys.Down):
		m.cursor++

	case key.Matches(msg, m.keys.PageUp):
		m.cursor -= m.pageSize()

	case key.Matches(msg, m.keys.PageDown):
		m.cursor += m.pageSize()

	case key.Matches(msg, m.keys.Home):
		m.cursor = 0

	case key.Matches(msg, m.keys.End):
		m.cursor = len(m.ctrl.DisplayedItems()) - 1

	case key.Matches(msg, m.keys.ShowCompleted):
		m.ctrl.ToggleShowCompleted()

	case key.Matches(msg, m.keys.Toggle):
		done, err := m.ctrl.ToggleAt(m.cursor)
		if err != nil {
			m.err = err
			return m, tea.Quit
		}
		if done {
			m.modal = modalCompleted
		}

	case key.Matches(msg, m.keys.Undo):
		n, err := m.ctrl.Undo()
		if err != nil {
			m.err = err
			return m, tea.Quit
		}
		if n != nil {
			// Put the cursor back on the restored item when it is visible.
			for i, e := range m.ctrl.DisplayedItems() {
				if e.Node == n {
					m.cursor = i
					break
				}
			}
		}

	case key.Matches(msg, m.keys.Reset):
		m.modal = modalConfirmReset
		m.confirmFocus = 0
	}

	return m.clampCursor(), nil
}

func (m appModel) pageSize() int {
	n := m.bodyHeight() - 1
	if n < 1 {
		n = 1
	}
	return n
}

// bodyHeight is the row budget for list lines: everything above the help
// line and the status bar.
func (m appModel) bodyHeight() int {
	h := m.height - 2
	if h < 1 {
		h = 1
	}
	return h
}

func (m appModel) clampCursor() appModel {
	n := len(m.ctrl.DisplayedItems())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}

	visible := m.bodyHeight()
	if m.cursor < m.scroll {
		m.scroll = m.cursor
	}
	if m.cursor >= m.scroll+visible {
		m.scroll = m.cursor - visible + 1
	}
	if max := n - visible; m.scroll > max {
		m.scroll = max
	}
	if m.scroll < 0 {
		m.scroll = 0
	}
	return m
}

func (m appModel) View() string {
	if m.width == 0 {
		return "loading..."
	}

	switch m.modal {
	case modalHelp:
		return m.placeCentered(renderModalBox("Keys", renderHelp(modalBodyWidth(m.width)), modalBodyWidth(m.width)))
	case modalDuplicates:
		return m.renderDuplicates()
	case modalCompleted:
		return m.renderCompleted()
	case modalConfirmReset:
		return m.renderConfirmReset()
	}

	var b strings.Builder
	b.WriteString(m.renderBody())
	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	return b.String()
}

func (m appModel) renderBody() string {
	entries := m.ctrl.DisplayedItems()
	visible := m.bodyHeight()

	lines := make([]string, 0, visible)
	if len(entries) == 0 {
		lines = append(lines, "", "  [🥇]  nothing left to do")
	}

	selStyle := lipgloss.NewStyle().
		Background(colorSelectedBg).Foreground(colorSelectedFg)
	listStyle := lipgloss.NewStyle().Bold(true)

	end := m.scroll + visible
	if end > len(entries) {
		end = len(entries)
	}
	for i := m.scroll; i < end; i++ {
		e := entries[i]

		box := "[ ] "
		if e.Node.Checked {
			box = "[x] "
		}
		line := strings.Repeat("  ", e.Level) + box + e.Node.Name
		line = xansi.Truncate(line, m.width, "…")

		switch {
		case i == m.cursor:
			line = selStyle.Width(m.width).Render(line)
		case e.Node.Kind == checklist.KindList:
			line = listStyle.Render(line)
		case e.Node.Checked:
			line = styleMuted().Render(line)
		}
		lines = append(lines, line)
	}
	for len(lines) < visible {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func (m appModel) renderStatusBar() string {
	checked, total := m.ctrl.Progress()
	left := fmt.Sprintf(" %s : %d/%d done ", m.ctrl.Name(), checked, total)

	right := ""
	if m.ctrl.ShowCompleted() {
		right = " showing completed "
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	bar := left + strings.Repeat(" ", gap) + right
	bar = xansi.Truncate(bar, m.width, "")
	return lipgloss.NewStyle().Reverse(true).Render(bar)
}
