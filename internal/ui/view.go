package ui

import (
	"fmt"
	"strings"

	"taskflow/internal/config"
	"taskflow/internal/filter"
	"taskflow/internal/stats"
	"taskflow/internal/task"
)

func (m Model) View() string {
	st := stylesFor(m.view.Theme)
	var b strings.Builder

	b.WriteString(st.title.Render(m.view.PendingTitle))
	b.WriteString("\n")
	b.WriteString(st.subtle.Render(m.renderFilterBar()))
	b.WriteString("\n\n")

	if m.view.Empty {
		b.WriteString(st.subtle.Render(m.emptyState()))
		b.WriteString("\n")
	} else {
		b.WriteString(m.renderTaskList(st))
	}

	b.WriteString("\n---\n")

	if m.form != nil {
		b.WriteString("Task form (tab/shift+tab to move, enter to save/next, esc to cancel)")
		b.WriteString("\n\n")
		b.WriteString(m.renderFormBox())
		b.WriteString("\n")
		b.WriteString("Field: " + m.form.currentLabel())
		b.WriteString("\n")
		b.WriteString(m.input.View())
	} else if m.mode == modeSearch {
		b.WriteString("Search: ")
		b.WriteString(m.input.View())
	} else {
		b.WriteString(renderStats(m.view.Stats, m.view.CompletionRate, st))
	}

	b.WriteString("\n\n")
	b.WriteString(st.status.Render(m.status))
	b.WriteString("\n")
	b.WriteString(st.subtle.Render(renderHelp(m.cfg.UI.Keys)))

	return b.String()
}

func (m Model) emptyState() string {
	if m.view.TotalEmpty {
		return fmt.Sprintf("No tasks yet. Press '%s' to add your first one.", m.cfg.UI.Keys.Add)
	}
	return fmt.Sprintf("No matching tasks. Adjust the filters or press '%s' to clear them.", m.cfg.UI.Keys.ClearFilters)
}

func (m Model) renderFilterBar() string {
	f := m.view.Filter
	bar := fmt.Sprintf("status:%s  priority:%s  category:%s", orAll(f.Status), orAll(f.Priority), orAll(f.Category))
	if m.view.Search != "" {
		bar += fmt.Sprintf("  search:%q", m.view.Search)
	}
	if f.Active() {
		bar += "  (filtered)"
	}
	return bar
}

func (m Model) renderTaskList(st styles) string {
	srcIndex, _, dragging := m.board.Drag().Source()
	var b strings.Builder
	for i, t := range m.view.Visible {
		cursor := " "
		if m.cursor == i && (m.mode == modeList || m.mode == modeMove) {
			cursor = ">"
		}

		checkbox := "[ ]"
		if t.Done() {
			checkbox = "[x]"
		}

		title := st.text.Render(t.Title)
		if t.Done() {
			title = st.done.Render(t.Title)
		}
		if dragging && i == srcIndex {
			title = st.grabbed.Render(t.Title)
		} else if m.cursor == i && m.mode == modeList && !t.Done() {
			title = st.selected.Render(t.Title)
		}

		line := fmt.Sprintf("%s %s %s %s", cursor, checkbox, priorityStyle(t.Priority).Render(priorityGlyph(t.Priority)), title)
		if t.Category != "" {
			line += " " + st.subtle.Render("#"+t.Category)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderFormBox() string {
	if m.form == nil {
		return ""
	}
	values := []string{m.form.title, m.form.description, m.form.priority, m.form.category}
	var b strings.Builder
	for i, name := range formFields() {
		prefix := " "
		if i == m.form.index {
			prefix = ">"
		}
		val := values[i]
		if strings.TrimSpace(val) == "" {
			val = "(empty)"
		}
		b.WriteString(fmt.Sprintf("%s %-26s : %s\n", prefix, name, val))
	}
	b.WriteString(fmt.Sprintf("  %-26s : %s\n", "categories", strings.Join(m.view.Categories, ", ")))
	return b.String()
}

func renderStats(s stats.Stats, rate int, st styles) string {
	var b strings.Builder
	b.WriteString("Stats\n")
	b.WriteString(fmt.Sprintf("Total     : %d\n", s.Total))
	b.WriteString(fmt.Sprintf("Completed : %d\n", s.Completed))
	b.WriteString(fmt.Sprintf("Pending   : %d\n", s.Pending))
	b.WriteString(fmt.Sprintf("Progress  : %s %d%%\n", st.bar.Render(progressBar(rate, 100, barWidth)), rate))
	peak := s.MaxTier()
	for _, tier := range s.Tiers() {
		bar := priorityStyle(tier.Priority).Render(progressBar(tier.Count, peak, barWidth))
		b.WriteString(fmt.Sprintf("%-9s : %s %d\n", tier.Priority, bar, tier.Count))
	}
	return strings.TrimRight(b.String(), "\n")
}

// progressBar renders value/total as a fixed-width bar.
func progressBar(value, total, width int) string {
	filled := 0
	if total > 0 {
		filled = value * width / total
	}
	filled = clampCursor(filled, width+1)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func priorityGlyph(p task.Priority) string {
	switch p {
	case task.PriorityHigh:
		return "!!!"
	case task.PriorityMedium:
		return "!! "
	case task.PriorityLow:
		return "!  "
	default:
		return "   "
	}
}

func renderHelp(k config.Keymap) string {
	return fmt.Sprintf("%s/%s move • %s add • %s edit • space toggle • %s delete • %s detail • %s search • %s/%s/%s filter • %s clear • %s reorder • %s theme • %s quit",
		k.Up, k.Down, k.Add, k.Edit, k.Delete, k.Detail, k.Search, k.FilterStatus, k.FilterPriority, k.FilterCategory, k.ClearFilters, k.Move, k.Theme, k.Quit)
}

func orAll(v string) string {
	if v == "" {
		return filter.All
	}
	return v
}
