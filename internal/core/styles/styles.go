// Package styles holds the active theme palette and the lipgloss, glamour and
// chroma styles derived from it.
package styles

import (
	"github.com/charmbracelet/glamour/ansi"
	glamourstyles "github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Style exports.
var (
	// CLI styles.
	CommandHeaderStyle lipgloss.Style
	DividerStyle       lipgloss.Style
	SuccessStyle       lipgloss.Style
	WarningStyle       lipgloss.Style
	ErrorStyle         lipgloss.Style

	// Editor panes.
	PaneStyle        lipgloss.Style
	PaneFocusedStyle lipgloss.Style
	PaneTitleStyle   lipgloss.Style
	PaneTitleBlurred lipgloss.Style

	StatusBarStyle   lipgloss.Style
	StatusKeyStyle   lipgloss.Style
	StatusValueStyle lipgloss.Style
	HelpStyle        lipgloss.Style
)

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	CommandHeaderStyle = lipgloss.NewStyle().
		Foreground(p.Primary).
		Bold(true)
	DividerStyle = lipgloss.NewStyle().
		Foreground(p.Muted)
	SuccessStyle = lipgloss.NewStyle().Foreground(p.Success)
	WarningStyle = lipgloss.NewStyle().Foreground(p.Warning)
	ErrorStyle = lipgloss.NewStyle().Foreground(p.Error)

	PaneStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Surface)
	PaneFocusedStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Primary)
	PaneTitleStyle = lipgloss.NewStyle().
		Foreground(p.Primary).
		Bold(true).
		Padding(0, 1)
	PaneTitleBlurred = lipgloss.NewStyle().
		Foreground(p.Muted).
		Padding(0, 1)

	StatusBarStyle = lipgloss.NewStyle().
		Foreground(p.Foreground).
		Background(p.Surface).
		Padding(0, 1)
	StatusKeyStyle = lipgloss.NewStyle().
		Foreground(p.Background).
		Background(p.Primary).
		Bold(true).
		Padding(0, 1)
	StatusValueStyle = lipgloss.NewStyle().
		Foreground(p.Muted).
		Background(p.Surface)
	HelpStyle = lipgloss.NewStyle().
		Foreground(p.Muted)
}

// ChromaStyle returns the chroma style name paired with the active theme.
func ChromaStyle() string {
	return CurrentPalette.Chroma
}

// GlamourStyle returns a Glamour style config derived from the active theme.
func GlamourStyle() ansi.StyleConfig {
	cfg := glamourstyles.DarkStyleConfig

	fg := colorPtr(CurrentPalette.Foreground)
	primary := colorPtr(CurrentPalette.Primary)
	secondary := colorPtr(CurrentPalette.Secondary)
	muted := colorPtr(CurrentPalette.Muted)
	surface := colorPtr(CurrentPalette.Surface)

	cfg.Document.Color = fg
	cfg.Paragraph.Color = fg

	cfg.Heading.Color = primary
	cfg.H1.Color = fg
	cfg.H1.BackgroundColor = surface
	cfg.H2.Color = primary
	cfg.H3.Color = primary
	cfg.H4.Color = primary
	cfg.H5.Color = primary
	cfg.H6.Color = primary

	cfg.BlockQuote.Color = muted
	cfg.HorizontalRule.Color = muted

	cfg.Link.Color = secondary
	cfg.LinkText.Color = secondary

	cfg.Code.Color = secondary
	cfg.CodeBlock.Color = muted
	cfg.CodeBlock.Theme = CurrentPalette.Chroma
	cfg.CodeBlock.Chroma = nil // an explicit chroma block would win over Theme

	cfg.Table.Color = fg

	return cfg
}

func colorPtr(c lipgloss.Color) *string {
	if c == "" {
		return nil
	}
	s := string(c)
	return &s
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(themes[DefaultTheme])
}
