package ui

import (
	"github.com/charmbracelet/lipgloss"

	"taskflow/internal/board"
	"taskflow/internal/task"
)

type palette struct {
	accent lipgloss.Color
	text   lipgloss.Color
	dim    lipgloss.Color
	done   lipgloss.Color
}

var (
	lightPalette = palette{
		accent: lipgloss.Color("#4f46e5"),
		text:   lipgloss.Color("#1f2937"),
		dim:    lipgloss.Color("#6b7280"),
		done:   lipgloss.Color("#9ca3af"),
	}
	darkPalette = palette{
		accent: lipgloss.Color("#818cf8"),
		text:   lipgloss.Color("#f3f4f6"),
		dim:    lipgloss.Color("#9ca3af"),
		done:   lipgloss.Color("#4b5563"),
	}
)

var priorityColors = map[task.Priority]lipgloss.Color{
	task.PriorityHigh:   lipgloss.Color("#ef4444"),
	task.PriorityMedium: lipgloss.Color("#f59e0b"),
	task.PriorityLow:    lipgloss.Color("#10b981"),
}

type styles struct {
	title    lipgloss.Style
	subtle   lipgloss.Style
	text     lipgloss.Style
	selected lipgloss.Style
	done     lipgloss.Style
	grabbed  lipgloss.Style
	status   lipgloss.Style
	bar      lipgloss.Style
}

func stylesFor(t board.Theme) styles {
	p := lightPalette
	if t == board.ThemeDark {
		p = darkPalette
	}
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(p.accent),
		subtle:   lipgloss.NewStyle().Foreground(p.dim),
		text:     lipgloss.NewStyle().Foreground(p.text),
		selected: lipgloss.NewStyle().Bold(true).Foreground(p.accent),
		done:     lipgloss.NewStyle().Strikethrough(true).Foreground(p.done),
		grabbed:  lipgloss.NewStyle().Reverse(true).Foreground(p.accent),
		status:   lipgloss.NewStyle().Italic(true).Foreground(p.dim),
		bar:      lipgloss.NewStyle().Foreground(p.accent),
	}
}

func priorityStyle(p task.Priority) lipgloss.Style {
	c, ok := priorityColors[p]
	if !ok {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(c)
}
