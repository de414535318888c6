package output

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

const defaultWrap = 80

// Markdown renders s for the terminal. With color disabled it uses the
// plain "notty" style. Rendering failures fall back to the raw text.
func Markdown(s string, color bool, width int) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	if width <= 0 {
		width = defaultWrap
	}
	style := glamour.WithStandardStyle("notty")
	if color {
		style = glamour.WithAutoStyle()
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return s
	}
	out, err := r.Render(s)
	if err != nil {
		return s
	}
	return out
}
