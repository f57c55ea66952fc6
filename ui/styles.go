package ui

import "github.com/charmbracelet/lipgloss"

const ellipsis = "…"

var (
	fuchsia   = lipgloss.Color("#EE6FF8")
	cream     = lipgloss.AdaptiveColor{Light: "#FFFDF5", Dark: "#FFFDF5"}
	mintGreen = lipgloss.AdaptiveColor{Light: "#89F0CB", Dark: "#89F0CB"}
	darkGreen = lipgloss.AdaptiveColor{Light: "#1C8760", Dark: "#1C8760"}
	yellow    = lipgloss.AdaptiveColor{Light: "#A88A00", Dark: "#ECFD65"}
	red       = lipgloss.AdaptiveColor{Light: "#FF4672", Dark: "#ED567A"}

	statusBarNoteFg = lipgloss.AdaptiveColor{Light: "#656565", Dark: "#7D7D7D"}
	statusBarBg     = lipgloss.AdaptiveColor{Light: "#E6E6E6", Dark: "#242424"}

	logoStyle = lipgloss.NewStyle().
			Foreground(cream).
			Background(fuchsia).
			Bold(true).
			Padding(0, 1)

	statusBarNoteStyle = lipgloss.NewStyle().
				Foreground(statusBarNoteFg).
				Background(statusBarBg).
				Render

	statusBarStateStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#949494", Dark: "#5A5A5A"}).
				Background(statusBarBg).
				Render

	statusBarMessageStyle = lipgloss.NewStyle().
				Foreground(mintGreen).
				Background(darkGreen).
				Render

	sectionTitleStyle = lipgloss.NewStyle().Bold(true).Render

	dimStyle = lipgloss.NewStyle().Foreground(statusBarNoteFg).Render

	promptStyle = lipgloss.NewStyle().
			Foreground(fuchsia).
			Bold(true).
			Render

	pausedStyle = lipgloss.NewStyle().Foreground(yellow).Render
	errorStyle  = lipgloss.NewStyle().Foreground(red).Render
)

func logoView() string {
	return logoStyle.Render("Lecturecast")
}
