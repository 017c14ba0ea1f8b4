package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/tmuxession/tui/theme"
	"github.com/muesli/termenv"
)

// InitializeTUI settles the color profile before any menu or styled output
// is rendered. CLICOLOR_FORCE and COLORTERM=truecolor force full color so
// output stays styled when piped; NO_COLOR disables color entirely.
// themeName, when non-empty, replaces the default palette.
func InitializeTUI(themeName string) {
	switch {
	case os.Getenv("NO_COLOR") != "":
		lipgloss.SetColorProfile(termenv.Ascii)
	case os.Getenv("CLICOLOR_FORCE") == "1" || os.Getenv("COLORTERM") == "truecolor":
		lipgloss.SetColorProfile(termenv.TrueColor)
	}
	theme.Use(themeName)
}
