package tui

import (
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

const helpMarkdown = `## Moving around

- **up / k** and **down / j** move the cursor
- **ctrl+f** / **ctrl+b** page down / up
- **ctrl+a** / **ctrl+z** jump to the first / last item

## Working the list

- **space** toggles the item under the cursor. Toggling a sublist
  checks or unchecks everything inside it.
- **c** shows or hides completed items. Hidden is the default, so
  the list shrinks as you make progress.
- **z** undoes the most recent toggle.
- **R** unchecks everything, after a confirmation.

## Leaving

- **q** or **ctrl+c** quits. Progress is saved after every change,
  so quitting loses nothing.
`

var (
	helpRenderMu    sync.Mutex
	helpRenderers   = map[string]*glamour.TermRenderer{}
	helpRenderCache = map[string]string{}
)

// renderHelp renders the help markdown for the given wrap width. Renderers
// and output are cached per width since glamour setup is not cheap and the
// help text is static.
func renderHelp(width int) string {
	if width < 20 {
		width = 20
	}
	if width > 72 {
		width = 72
	}
	key := strconv.Itoa(width)

	helpRenderMu.Lock()
	defer helpRenderMu.Unlock()

	if out, ok := helpRenderCache[key]; ok {
		return out
	}

	r, ok := helpRenderers[key]
	if !ok {
		style := glamour.WithStandardStyle("light")
		if lipgloss.HasDarkBackground() {
			style = glamour.WithStandardStyle("dark")
		}
		var err error
		r, err = glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
		if err != nil {
			return helpMarkdown
		}
		helpRenderers[key] = r
	}

	out, err := r.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	out = strings.TrimRight(out, "\n")
	helpRenderCache[key] = out
	return out
}
