package app

import (
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

const defaultWrapWidth = 100

// RenderMarkdown formats a markdown answer for the terminal, wrapped to the
// terminal width and styled for the detected color profile.
func RenderMarkdown(content string) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(terminalWidth()),
		glamour.WithColorProfile(termenv.ColorProfile()),
	)
	if err != nil {
		return "", err
	}
	return renderer.Render(content)
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return defaultWrapWidth
	}
	if width > defaultWrapWidth {
		width = defaultWrapWidth
	}
	return width
}
