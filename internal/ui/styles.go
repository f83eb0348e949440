package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/storykit/internal/story"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	badgeStyle = lipgloss.NewStyle().Bold(true)

	columnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

var statusColors = map[story.Status]lipgloss.Color{
	story.StatusTodo:       lipgloss.Color("245"),
	story.StatusInProgress: lipgloss.Color("33"),
	story.StatusReview:     lipgloss.Color("214"),
	story.StatusDone:       lipgloss.Color("42"),
}

// StatusBadge renders a status in its board color.
func StatusBadge(s story.Status) string {
	style := badgeStyle
	if c, ok := statusColors[s]; ok {
		style = style.Foreground(c)
	}
	return style.Render(string(s))
}

// StatusLabel returns the column heading for a status.
func StatusLabel(s story.Status) string {
	switch s {
	case story.StatusTodo:
		return "Todo"
	case story.StatusInProgress:
		return "In progress"
	case story.StatusReview:
		return "Review"
	case story.StatusDone:
		return "Done"
	}
	return string(s)
}

// Muted renders secondary text.
func Muted(s string) string {
	return mutedStyle.Render(s)
}
