package tui

import "github.com/charmbracelet/lipgloss"

// Color palette matching existing fatih/color usage
var (
	// ColorGreen for completed stages and success indicators
	ColorGreen = lipgloss.AdaptiveColor{Light: "#00AF00", Dark: "#00D700"}

	// ColorWhite for primary text
	ColorWhite = lipgloss.AdaptiveColor{Light: "#262626", Dark: "#FFFFFF"}

	// ColorGray for secondary text and help
	ColorGray = lipgloss.AdaptiveColor{Light: "#767676", Dark: "#808080"}

	// ColorYellow for the running stage
	ColorYellow = lipgloss.AdaptiveColor{Light: "#D7AF00", Dark: "#FFD700"}
)

// Reusable styles
var (
	// StyleHighlight is for the running stage and the spinner
	StyleHighlight = lipgloss.NewStyle().
			Foreground(ColorYellow).
			Bold(true)

	// StyleCached is for completed stage marks
	StyleCached = lipgloss.NewStyle().Foreground(ColorGreen)

	// StyleHelp is for hints shown under the progress bar
	StyleHelp = lipgloss.NewStyle().Foreground(ColorGray)

	// StyleHeader is for the progress label
	StyleHeader = lipgloss.NewStyle().
			Foreground(ColorWhite).
			Bold(true)
)
