package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	// Heat map levels, empty to busiest
	HeatNone = lipgloss.Color("#333333")
	HeatLow  = lipgloss.Color("#2E6B5E")
	HeatMid  = lipgloss.Color("#3FA796")
	HeatHigh = lipgloss.Color("#95E1A3")

	// Session states
	Running = lipgloss.Color("#95E1A3") // Green
	Paused  = lipgloss.Color("#FFE66D") // Yellow
	Expired = lipgloss.Color("#FF6B6B") // Red

	// UI colors
	Primary   = lipgloss.Color("#4ECDC4")
	Surface   = lipgloss.Color("#16213e")
	TextMuted = lipgloss.Color("#888888")
	Border    = lipgloss.Color("#333333")
	ErrorText = lipgloss.Color("#FF6B6B")
)

// Styles
var (
	// Header
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary).
			Padding(0, 1)

	// Panes
	PaneStyle = lipgloss.NewStyle().
			Padding(1, 2)

	SectionTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(Primary)

	// Task item
	TaskItemStyle = lipgloss.NewStyle().
			Padding(0, 1)

	TaskItemSelectedStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Background(Surface).
				Bold(true)

	TaskDoneStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Strikethrough(true).
			Padding(0, 1)

	// Focus session box
	SessionStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(0, 2)

	ClockStyle = lipgloss.NewStyle().Bold(true)

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(Border)

	ErrorStyle = lipgloss.NewStyle().Foreground(ErrorText)

	// Input modal
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2)

	// Help text
	HelpStyle = lipgloss.NewStyle().
			Foreground(TextMuted)
)

// heat cells, indexed by history.Level
var heatCells = [4]struct {
	glyph string
	color lipgloss.Color
}{
	{"·", HeatNone},
	{"░", HeatLow},
	{"▒", HeatMid},
	{"█", HeatHigh},
}

// heatCell renders one day of the heat map
func heatCell(level int) string {
	if level < 0 {
		level = 0
	}
	if level >= len(heatCells) {
		level = len(heatCells) - 1
	}
	c := heatCells[level]
	return lipgloss.NewStyle().Foreground(c.color).Render(c.glyph)
}

// stateColor returns the clock color for a session
func stateColor(running bool, remaining int) lipgloss.Color {
	switch {
	case remaining == 0:
		return Expired
	case running:
		return Running
	default:
		return Paused
	}
}
