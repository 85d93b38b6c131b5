package ui

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Color palette
var (
	PrimaryColor = lipgloss.Color("#7D56F4") // Purple - titles, spinner
	SuccessColor = lipgloss.Color("#43BF6D") // Green - server banners
	ErrorColor   = lipgloss.Color("#FF5555") // Red - parse failures
	WarningColor = lipgloss.Color("#FFA500") // Orange - receive errors
	MutedColor   = lipgloss.Color("#626262") // Gray - secondary info
	TextColor    = lipgloss.Color("#FFFFFF") // White - main content
)

// Layout constants
const (
	MinTerminalWidth = 60
	MaxContentWidth  = 120
)

// Display values for headers a device left out of its reply
const (
	NoLocation = "No location found"
	NoServer   = "No server found"
	NoUSN      = "No USN found"
)

// Styles groups the styles used for one output writer. Styles are built from
// a renderer bound to that writer, so color is dropped when it is not a
// terminal.
type Styles struct {
	Title    lipgloss.Style
	Server   lipgloss.Style
	Location lipgloss.Style
	Failure  lipgloss.Style
	Warning  lipgloss.Style
	Muted    lipgloss.Style
	Header   lipgloss.Style
	Spinner  lipgloss.Style
}

// NewStyles creates the style set for w
func NewStyles(w io.Writer) Styles {
	r := lipgloss.NewRenderer(w)
	return Styles{
		Title:    r.NewStyle().Foreground(PrimaryColor).Bold(true),
		Server:   r.NewStyle().Foreground(SuccessColor).Bold(true),
		Location: r.NewStyle().Foreground(TextColor),
		Failure:  r.NewStyle().Foreground(ErrorColor),
		Warning:  r.NewStyle().Foreground(WarningColor),
		Muted:    r.NewStyle().Foreground(MutedColor),
		Header:   r.NewStyle().Foreground(MutedColor).Bold(true).Underline(true),
		Spinner:  r.NewStyle().Foreground(PrimaryColor),
	}
}

// IsTerminal reports whether w is an interactive terminal
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// GetTerminalWidth returns the current terminal width, with fallback
func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < MinTerminalWidth {
		return MinTerminalWidth
	}
	if width > MaxContentWidth {
		return MaxContentWidth
	}
	return width
}
