package ui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"taskflow/internal/task"
)

// formState backs both the add and the edit form. taskID is empty when adding.
type formState struct {
	taskID      string
	title       string
	description string
	priority    string
	category    string
	index       int
}

func formFields() []string {
	return []string{"title", "description", "priority (high/medium/low)", "category"}
}

func (fs formState) currentLabel() string {
	return formFields()[fs.index]
}

func (fs formState) currentValue() string {
	switch fs.index {
	case 0:
		return fs.title
	case 1:
		return fs.description
	case 2:
		return fs.priority
	case 3:
		return fs.category
	default:
		return ""
	}
}

func (fs *formState) setCurrentValue(v string) {
	switch fs.index {
	case 0:
		fs.title = v
	case 1:
		fs.description = v
	case 2:
		fs.priority = v
	case 3:
		fs.category = v
	}
}

func (m Model) startForm(t *task.Task) (tea.Model, tea.Cmd) {
	if t == nil {
		category := m.board.Repository().DefaultCategory()
		if category == "" && len(m.view.Categories) > 0 {
			category = m.view.Categories[0]
		}
		m.form = &formState{priority: string(task.PriorityMedium), category: category}
		m.status = "New task: enter to save field, tab to move, esc to cancel"
	} else {
		m.form = &formState{
			taskID:      t.ID,
			title:       t.Title,
			description: t.Description,
			priority:    string(t.Priority),
			category:    t.Category,
		}
		m.status = "Edit task: enter to save field, tab to move, esc to cancel"
	}
	m.input.SetValue(m.form.currentValue())
	m.input.Placeholder = m.form.currentLabel()
	m.input.Focus()
	m.mode = modeForm
	return m, nil
}

func (m Model) updateFormMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.UI.Keys.Cancel, "esc":
		m.form = nil
		m.mode = modeList
		m.input.SetValue("")
		m.input.Blur()
		m.status = "Cancelled"
		return m, nil
	case "tab", "down":
		m.form.setCurrentValue(m.input.Value())
		m.form.index = wrapIndex(m.form.index+1, len(formFields()))
		m.input.SetValue(m.form.currentValue())
		m.input.Placeholder = m.form.currentLabel()
		m.status = m.formPrompt()
		return m, nil
	case "shift+tab", "up":
		m.form.setCurrentValue(m.input.Value())
		m.form.index = wrapIndex(m.form.index-1, len(formFields()))
		m.input.SetValue(m.form.currentValue())
		m.input.Placeholder = m.form.currentLabel()
		m.status = m.formPrompt()
		return m, nil
	case m.cfg.UI.Keys.Confirm, "enter":
		m.form.setCurrentValue(m.input.Value())
		if m.form.index >= len(formFields())-1 {
			return m.saveForm()
		}
		m.form.index++
		m.input.SetValue(m.form.currentValue())
		m.input.Placeholder = m.form.currentLabel()
		m.status = m.formPrompt()
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) saveForm() (tea.Model, tea.Cmd) {
	fs := m.form
	priority := task.Priority(strings.ToLower(strings.TrimSpace(fs.priority)))

	var err error
	if fs.taskID == "" {
		var created task.Task
		created, err = m.board.Create(m.ctx, task.FormData{
			Title:       fs.title,
			Description: fs.description,
			Priority:    priority,
			Category:    fs.category,
		})
		if err == nil {
			m.form = nil
			m.afterWrite("Added task")
			m.focus(created.ID)
		}
	} else {
		var found bool
		found, err = m.board.Update(m.ctx, fs.taskID, task.Patch{
			Title:       &fs.title,
			Description: &fs.description,
			Priority:    &priority,
			Category:    &fs.category,
		})
		if err == nil {
			m.form = nil
			if found {
				m.afterWrite("Task saved")
				m.focus(fs.taskID)
			} else {
				m.refresh()
				m.status = "Task no longer exists"
			}
		}
	}
	if err != nil {
		m.status = validationMessage(err)
		if errors.Is(err, task.ErrEmptyTitle) {
			fs.index = 0
		} else if errors.Is(err, task.ErrInvalidPriority) {
			fs.index = 2
		}
		m.input.SetValue(fs.currentValue())
		m.input.Placeholder = fs.currentLabel()
		return m, nil
	}
	m.mode = modeList
	m.input.SetValue("")
	m.input.Blur()
	return m, nil
}

// focus moves the cursor onto id when it is visible.
func (m *Model) focus(id string) {
	for i, t := range m.view.Visible {
		if t.ID == id {
			m.cursor = i
			return
		}
	}
}

func validationMessage(err error) string {
	switch {
	case errors.Is(err, task.ErrEmptyTitle):
		return "Title cannot be empty"
	case errors.Is(err, task.ErrInvalidPriority):
		return "Priority must be high, medium or low"
	default:
		return fmt.Sprintf("save failed: %v", err)
	}
}

func (m Model) formPrompt() string {
	if m.form == nil {
		return ""
	}
	return fmt.Sprintf("Editing %s (field %d of %d). Enter to advance, Esc to cancel, tab to move.",
		m.form.currentLabel(), m.form.index+1, len(formFields()))
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}
