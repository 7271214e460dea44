package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/existflow/ironfocus/internal/history"
	"github.com/existflow/ironfocus/internal/model"
	"github.com/existflow/ironfocus/internal/timer"
)

// completedShown caps the completed list in the tasks pane
const completedShown = 10

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	header := HeaderStyle.Render("IronFocus") + HelpStyle.Render(m.now().Format("15:04:05"))

	var body string
	if m.pane == PaneHistory {
		body = m.renderHistory()
	} else {
		body = m.renderTasks()
	}

	if m.mode == ModeAddTask {
		body = lipgloss.Place(
			m.width, m.height-4,
			lipgloss.Center, lipgloss.Center,
			m.renderModal(),
			lipgloss.WithWhitespaceChars(" "),
		)
	}
	if m.mode == ModeHelp {
		body = m.renderHelp()
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, m.renderStatusBar())
}

func (m Model) renderTasks() string {
	width := m.width - 4
	if width < 20 {
		width = 20
	}

	var s strings.Builder

	if session := m.renderSession(); session != "" {
		s.WriteString(session + "\n\n")
	}

	active := m.board.Active()
	s.WriteString(SectionTitleStyle.Render(fmt.Sprintf("Tasks (%d)", len(active))) + "\n")
	s.WriteString(lipgloss.NewStyle().Foreground(Border).Render(strings.Repeat("─", width-4)) + "\n")

	switch {
	case len(active) == 0 && m.board.Err() != nil:
		s.WriteString(ErrorStyle.Render("  Could not load tasks. Press r to retry.") + "\n")
	case len(active) == 0:
		s.WriteString(HelpStyle.Render("  No tasks. Press 'a' to add one.") + "\n")
	}

	focused := m.board.Timer().TaskID()
	for i, t := range active {
		cursor := "  "
		style := TaskItemStyle
		if i == m.cursor {
			cursor = "❯ "
			style = TaskItemSelectedStyle
		}
		marker := " "
		if t.ID == focused {
			marker = "●"
		}
		line := fmt.Sprintf("%s%s %-8s %s", cursor, marker, t.ShortID(), truncate(t.Name, width-20))
		s.WriteString(style.Render(line) + "\n")
	}

	completed := m.board.Completed()
	if len(completed) > 0 {
		s.WriteString("\n" + SectionTitleStyle.Render("Recently completed") + "\n")
		for i, t := range completed {
			if i == completedShown {
				s.WriteString(HelpStyle.Render(fmt.Sprintf("  … %d more (tab for history)", len(completed)-i)) + "\n")
				break
			}
			s.WriteString(TaskDoneStyle.Render(fmt.Sprintf("%s  %s", completedLabel(t, m.board.Location()), truncate(t.Name, width-24))) + "\n")
		}
	}

	return PaneStyle.Width(m.width).Render(s.String())
}

func completedLabel(t model.Task, loc *time.Location) string {
	return t.CompletedAt().In(loc).Format("Jan 02 15:04")
}

// renderSession shows the focus box, empty when no session is open
func (m Model) renderSession() string {
	t := m.board.Timer()
	if !t.Open() {
		return ""
	}

	clock := ClockStyle.
		Foreground(stateColor(t.State() == timer.Running, t.Remaining())).
		Render(t.Clock())

	action := "space:start"
	if t.State() == timer.Running {
		action = "space:pause"
	} else if t.Remaining() == 0 {
		action = "time's up"
	}

	content := fmt.Sprintf("%s\n%s  %s\n%s",
		lipgloss.NewStyle().Bold(true).Render(truncate(t.TaskName(), 40)),
		clock, HelpStyle.Render(t.State().String()),
		HelpStyle.Render(action+"  x:complete  c:close"))
	return SessionStyle.Render(content)
}

func (m Model) renderHistory() string {
	hm := m.board.Heatmap()

	var s strings.Builder
	s.WriteString(SectionTitleStyle.Render(fmt.Sprintf("Completed in the last %d months", HistoryMonths)) + "\n\n")
	s.WriteString(RenderHeatmap(hm, m.now(), HistoryMonths))
	s.WriteString("\n" + HelpStyle.Render(fmt.Sprintf("%d completed across %d days (latest %d tasks)", hm.Total(), hm.Len(), len(m.board.Completed()))))
	return PaneStyle.Width(m.width).Render(s.String())
}

var weekdayLabels = [7]string{"", "Mon", "", "Wed", "", "Fri", ""}

// RenderHeatmap draws the months before end as a calendar grid, one
// column per week and one row per weekday starting on Sunday.
func RenderHeatmap(hm history.Heatmap, end time.Time, months int) string {
	loc := hm.Location()
	first, last := history.Window(end, months, loc)
	weeks := history.Weeks(first, last)

	const gutter = 4
	var s strings.Builder

	// Month labels above the first week that holds a 1st.
	labels := []rune(strings.Repeat(" ", gutter+2*len(weeks)+3))
	for i, week := range weeks {
		for _, d := range week {
			if d.IsZero() || (d.Day != 1 && !(i == 0 && d == first)) {
				continue
			}
			name := []rune(d.Month.String()[:3])
			pos := gutter + 2*i
			if pos+len(name) <= len(labels) {
				copy(labels[pos:], name)
			}
			break
		}
	}
	s.WriteString(HelpStyle.Render(strings.TrimRight(string(labels), " ")) + "\n")

	for row := 0; row < 7; row++ {
		s.WriteString(HelpStyle.Render(fmt.Sprintf("%-*s", gutter, weekdayLabels[row])))
		for _, week := range weeks {
			d := week[row]
			if d.IsZero() {
				s.WriteString("  ")
				continue
			}
			s.WriteString(heatCell(history.Level(hm.Count(d))) + " ")
		}
		s.WriteString("\n")
	}

	s.WriteString(HelpStyle.Render(strings.Repeat(" ", gutter) + "Less "))
	for level := 0; level < len(heatCells); level++ {
		s.WriteString(heatCell(level) + " ")
	}
	s.WriteString(HelpStyle.Render("More") + "\n")
	return s.String()
}

func (m Model) renderStatusBar() string {
	help := "a:add  enter:focus  space:start/pause  x:complete  c:close  tab:history  ?:help  q:quit"
	if m.message != "" {
		help = m.message
	}
	return StatusBarStyle.Width(m.width).Render(help)
}

func (m Model) renderModal() string {
	content := lipgloss.NewStyle().Bold(true).Render("Add Task") + "\n\n"
	content += m.input.View() + "\n\n"
	content += HelpStyle.Render("Enter:save  Esc:cancel")

	return ModalStyle.Render(content)
}

func (m Model) renderHelp() string {
	help := `
╭─── Keyboard Shortcuts ───╮
│                          │
│  Tasks                   │
│  ─────                   │
│  j/↓     Move down       │
│  k/↑     Move up         │
│  a       Add task        │
│  enter   Focus task      │
│  r       Refresh         │
│                          │
│  Focus session           │
│  ─────────────           │
│  space   Start/pause     │
│  x       Complete task   │
│  c/Esc   Close session   │
│                          │
│  Other                   │
│  ─────                   │
│  tab     Tasks/history   │
│  ?       Toggle help     │
│  q       Quit            │
│                          │
╰──────────────────────────╯

     Press any key to close
`
	return lipgloss.Place(m.width, m.height-4, lipgloss.Center, lipgloss.Center, help)
}
