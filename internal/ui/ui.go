package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"taskflow/internal/board"
	"taskflow/internal/config"
	"taskflow/internal/filter"
	"taskflow/internal/task"
)

type mode int

const (
	modeList mode = iota
	modeForm
	modeSearch
	modeMove
)

// searchSettledMsg fires when the debounce delay for seq has elapsed.
type searchSettledMsg struct {
	seq uint64
}

const barWidth = 20

type Model struct {
	ctx        context.Context
	board      *board.Board
	cfg        config.Config
	view       board.View
	cursor     int
	mode       mode
	input      textinput.Model
	status     string
	confirmDel bool
	pendingDel *task.Task
	form       *formState
}

func New(ctx context.Context, b *board.Board, cfg config.Config) Model {
	ti := textinput.New()
	ti.Placeholder = "Task title"
	ti.CharLimit = 256
	ti.Width = 40

	m := Model{
		ctx:    ctx,
		board:  b,
		cfg:    cfg,
		status: fmt.Sprintf("Press '%s' to add, space to toggle, '%s' to delete.", cfg.UI.Keys.Add, cfg.UI.Keys.Delete),
		input:  ti,
		mode:   modeList,
	}
	m.refresh()
	return m
}

func Run(ctx context.Context, b *board.Board, cfg config.Config) error {
	program := tea.NewProgram(New(ctx, b, cfg), tea.WithContext(ctx))
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.form != nil {
			return m.updateFormMode(msg.String(), msg)
		}
		if m.confirmDel {
			return m.updateDeleteConfirm(msg.String())
		}
		return m.handleKey(msg)
	case searchSettledMsg:
		if m.board.SettleSearch(msg.seq) {
			m.refresh()
		}
	case tea.WindowSizeMsg:
		m.input.Width = max(msg.Width-10, 10)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch m.mode {
	case modeSearch:
		return m.updateSearchMode(key, msg)
	case modeMove:
		return m.updateMoveMode(key)
	}
	return m.updateListMode(key)
}

// refresh recomputes the outbound view after any state change.
func (m *Model) refresh() {
	m.view = m.board.View()
	m.cursor = clampCursor(m.cursor, len(m.view.Visible))
}

// afterWrite refreshes and reports a failed write-through, if any.
func (m *Model) afterWrite(ok string) {
	m.refresh()
	if err := m.board.Repository().Err(); err != nil {
		m.status = fmt.Sprintf("save failed: %v", err)
		return
	}
	m.status = ok
}

func (m Model) selected() (task.Task, bool) {
	if len(m.view.Visible) == 0 {
		return task.Task{}, false
	}
	return m.view.Visible[clampCursor(m.cursor, len(m.view.Visible))], true
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	k := m.cfg.UI.Keys
	switch key {
	case "ctrl+c", k.Quit:
		return m, tea.Quit
	case k.Down, "down":
		m.cursor = clampCursor(m.cursor+1, len(m.view.Visible))
	case k.Up, "up":
		m.cursor = clampCursor(m.cursor-1, len(m.view.Visible))
	case k.Add, "ctrl+n":
		return m.startForm(nil)
	case k.Toggle:
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.board.Toggle(m.ctx, t.ID)
		m.afterWrite("Toggled task")
	case k.Delete:
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.confirmDel = true
		m.pendingDel = &t
		m.status = fmt.Sprintf("Delete \"%s\"? y/n", t.Title)
	case k.Detail:
		t, ok := m.selected()
		if !ok {
			m.status = "No tasks"
			return m, nil
		}
		m.status = detailLine(t)
	case k.Edit:
		t, ok := m.selected()
		if !ok {
			m.status = "No tasks to edit"
			return m, nil
		}
		return m.startForm(&t)
	case k.Search:
		m.mode = modeSearch
		m.input.Placeholder = "Search title or description"
		m.input.SetValue(m.view.Filter.Search)
		m.input.CursorEnd()
		m.input.Focus()
		m.status = "Search: type to filter, enter to keep, esc to clear"
	case k.FilterStatus:
		f := m.board.Filter()
		f.Status = filter.Next(filter.StatusOptions, f.Status)
		m.board.SetFilter(f)
		m.refresh()
		m.status = "Status: " + f.Status
	case k.FilterPriority:
		f := m.board.Filter()
		f.Priority = filter.Next(filter.PriorityOptions, f.Priority)
		m.board.SetFilter(f)
		m.refresh()
		m.status = "Priority: " + f.Priority
	case k.FilterCategory:
		f := m.board.Filter()
		f.Category = filter.Next(append([]string{filter.All}, m.view.Categories...), f.Category)
		m.board.SetFilter(f)
		m.refresh()
		m.status = "Category: " + f.Category
	case k.ClearFilters:
		m.board.ClearFilters()
		m.refresh()
		m.status = "Filters cleared"
	case k.Theme, "ctrl+/":
		theme, err := m.board.ToggleTheme(m.ctx)
		m.refresh()
		if err != nil {
			m.status = fmt.Sprintf("Theme: %s (save failed: %v)", theme, err)
			return m, nil
		}
		m.status = fmt.Sprintf("Theme: %s", theme)
	case k.Move:
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.board.Drag().Start(m.cursor, t.ID)
		m.mode = modeMove
		m.status = "Move: up/down to choose a position, enter to drop, esc to cancel"
	}
	return m, nil
}

func (m Model) updateSearchMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.UI.Keys.Cancel, "esc":
		seq := m.board.SetSearch("")
		m.board.SettleSearch(seq)
		m.input.SetValue("")
		m.input.Blur()
		m.mode = modeList
		m.refresh()
		m.status = "Search cleared"
		return m, nil
	case m.cfg.UI.Keys.Confirm, "enter":
		seq := m.board.SetSearch(strings.TrimSpace(m.input.Value()))
		m.board.SettleSearch(seq)
		m.input.Blur()
		m.mode = modeList
		m.refresh()
		m.status = fmt.Sprintf("%d matching", len(m.view.Visible))
		return m, nil
	default:
		var cmd tea.Cmd
		before := m.input.Value()
		m.input, cmd = m.input.Update(msg)
		if m.input.Value() == before {
			return m, cmd
		}
		seq := m.board.SetSearch(strings.TrimSpace(m.input.Value()))
		settle := tea.Tick(m.board.SearchDelay(), func(time.Time) tea.Msg {
			return searchSettledMsg{seq: seq}
		})
		return m, tea.Batch(cmd, settle)
	}
}

func (m Model) updateMoveMode(key string) (tea.Model, tea.Cmd) {
	k := m.cfg.UI.Keys
	drag := m.board.Drag()
	switch key {
	case k.Cancel, "esc":
		drag.Cancel()
		m.mode = modeList
		m.status = "Move cancelled"
	case k.Down, "down", k.Up, "up":
		if key == k.Down || key == "down" {
			m.cursor = clampCursor(m.cursor+1, len(m.view.Visible))
		} else {
			m.cursor = clampCursor(m.cursor-1, len(m.view.Visible))
		}
		if t, ok := m.selected(); ok {
			drag.Enter(m.cursor, t.ID)
		}
	case k.Confirm, "enter", k.Move:
		target := m.cursor
		moved := m.board.Drop(m.ctx)
		m.mode = modeList
		if !moved {
			m.refresh()
			m.status = "Nothing moved"
			return m, nil
		}
		m.cursor = target
		m.afterWrite("Moved task")
	}
	return m, nil
}

func (m Model) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n", "N", "esc":
		m.status = "Delete cancelled"
		m.confirmDel = false
		m.pendingDel = nil
		return m, nil
	case "y", "Y":
		if m.pendingDel == nil {
			m.status = "Nothing to delete"
			m.confirmDel = false
			return m, nil
		}
		if m.board.Delete(m.ctx, m.pendingDel.ID) {
			m.afterWrite("Deleted task")
		} else {
			m.refresh()
			m.status = "Task no longer exists"
		}
		m.confirmDel = false
		m.pendingDel = nil
		return m, nil
	default:
		return m, nil
	}
}

func detailLine(t task.Task) string {
	info := fmt.Sprintf("%s • %s • %s • %s", t.Title, t.Status, t.Priority, t.Category)
	if t.Description != "" {
		info += " • " + t.Description
	}
	info += " • created " + t.CreatedAt.Local().Format("Jan 2 15:04")
	if t.CompletedAt != nil {
		info += " • completed " + t.CompletedAt.Local().Format("Jan 2 15:04")
	}
	return info
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
