package reader

import "github.com/charmbracelet/lipgloss"

var (
	Primary = lipgloss.Color("#101F38")
	Accent  = lipgloss.Color("#8BC34A")
	Muted   = lipgloss.Color("#6b7280")
	Border  = lipgloss.Color("#2a3850")
)

// Styles groups the lipgloss styles used by the screens.
type Styles struct {
	AppBar       lipgloss.Style
	Card         lipgloss.Style
	SelectedCard lipgloss.Style
	Title        lipgloss.Style
	Subtitle     lipgloss.Style
	Body         lipgloss.Style
	Link         lipgloss.Style
	Help         lipgloss.Style
	Placeholder  lipgloss.Style
}

func DefaultStyles() Styles {
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1).
		MarginBottom(1)
	return Styles{
		AppBar: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			Background(Primary).
			Padding(0, 2),
		Card:         card,
		SelectedCard: card.BorderForeground(Accent),
		Title:        lipgloss.NewStyle().Bold(true),
		Subtitle:     lipgloss.NewStyle().Foreground(Muted).Italic(true),
		Body:         lipgloss.NewStyle(),
		Link:         lipgloss.NewStyle().Foreground(Accent).Underline(true),
		Help:         lipgloss.NewStyle().Foreground(Muted),
		Placeholder:  lipgloss.NewStyle().Foreground(Muted).Italic(true),
	}
}
