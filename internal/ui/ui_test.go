package ui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"taskflow/internal/board"
	"taskflow/internal/config"
	"taskflow/internal/storage"
	"taskflow/internal/task"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	return newTestModelOn(t, storage.NewMemory())
}

func newTestModelOn(t *testing.T, kv storage.KV) Model {
	t.Helper()
	t.Setenv("TASKFLOW_STORAGE", "")
	t.Setenv("TASKFLOW_SEARCH_DELAY", "")
	cfg, err := config.LoadOrCreate(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	ctx := context.Background()
	repo := task.NewRepository(ctx, kv, task.WithDefaultCategory(cfg.Tasks.DefaultCategory))
	b := board.New(ctx, repo, kv, board.WithCategories(cfg.Tasks.Categories))
	return New(ctx, b, cfg)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func enter() tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyEnter} }

func addTask(t *testing.T, m Model, title string) Model {
	t.Helper()
	m = send(t, m, runes("a"), runes(title))
	// title, description, priority, category
	return send(t, m, enter(), enter(), enter(), enter())
}

func TestAddTaskThroughForm(t *testing.T) {
	m := newTestModel(t)
	m = addTask(t, m, "Buy milk")

	if m.form != nil || m.mode != modeList {
		t.Fatalf("form still open: mode %v", m.mode)
	}
	if len(m.view.Visible) != 1 {
		t.Fatalf("visible = %d, want 1", len(m.view.Visible))
	}
	got := m.view.Visible[0]
	if got.Title != "Buy milk" || got.Priority != task.PriorityMedium || got.Category != m.cfg.Tasks.DefaultCategory {
		t.Errorf("unexpected task %+v", got)
	}
	if m.status != "Added task" {
		t.Errorf("status = %q", m.status)
	}
	if !strings.Contains(m.View(), "TaskFlow (1 pending)") {
		t.Error("view missing pending title")
	}
}

func TestEmptyTitleKeepsFormOpen(t *testing.T) {
	m := newTestModel(t)
	m = send(t, m, runes("a"), enter(), enter(), enter(), enter())

	if m.form == nil {
		t.Fatal("form closed on empty title")
	}
	if m.form.index != 0 {
		t.Errorf("focused field = %d, want title", m.form.index)
	}
	if m.status != "Title cannot be empty" {
		t.Errorf("status = %q", m.status)
	}
	if m.board.Repository().Len() != 0 {
		t.Error("task created with empty title")
	}
}

func TestToggleAndDelete(t *testing.T) {
	m := newTestModel(t)
	m = addTask(t, m, "Read")

	m = send(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if !m.view.Visible[0].Done() {
		t.Fatal("task not toggled")
	}
	if m.view.CompletionRate != 100 {
		t.Errorf("CompletionRate = %d, want 100", m.view.CompletionRate)
	}

	m = send(t, m, runes("d"))
	if !m.confirmDel {
		t.Fatal("delete confirmation not shown")
	}
	m = send(t, m, runes("n"))
	if len(m.view.Visible) != 1 {
		t.Fatal("cancelled delete removed the task")
	}
	m = send(t, m, runes("d"), runes("y"))
	if !m.view.TotalEmpty {
		t.Error("task not deleted")
	}
	if !strings.Contains(m.View(), "No tasks yet") {
		t.Error("empty state not rendered")
	}
}

func TestStaleSearchSettleIgnored(t *testing.T) {
	m := newTestModel(t)
	m = addTask(t, m, "Team sync")
	m = addTask(t, m, "Solo work")

	m = send(t, m, runes("/"), runes("s"), runes("o"))
	if m.mode != modeSearch {
		t.Fatalf("mode = %v, want search", m.mode)
	}
	m = send(t, m, searchSettledMsg{seq: 1})
	if len(m.view.Visible) != 2 {
		t.Errorf("stale settle applied: %d visible", len(m.view.Visible))
	}
	m = send(t, m, searchSettledMsg{seq: 2})
	if len(m.view.Visible) != 1 || m.view.Visible[0].Title != "Solo work" {
		t.Errorf("visible after settle = %+v", m.view.Visible)
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != modeList || len(m.view.Visible) != 2 {
		t.Errorf("esc did not clear search: mode %v, %d visible", m.mode, len(m.view.Visible))
	}
}

func TestMoveMode(t *testing.T) {
	m := newTestModel(t)
	for _, title := range []string{"a", "b", "c"} {
		m = addTask(t, m, title)
	}
	m.cursor = 0

	m = send(t, m, runes("m"), runes("j"), runes("j"), enter())
	if m.mode != modeList {
		t.Fatalf("mode = %v, want list", m.mode)
	}
	var titles []string
	for _, tk := range m.view.Visible {
		titles = append(titles, tk.Title)
	}
	if strings.Join(titles, "") != "bca" {
		t.Errorf("order = %v, want [b c a]", titles)
	}
	if m.cursor != 2 {
		t.Errorf("cursor = %d, want 2", m.cursor)
	}

	m = send(t, m, runes("m"), runes("k"), tea.KeyMsg{Type: tea.KeyEsc})
	if _, _, dragging := m.board.Drag().Source(); dragging || m.mode != modeList {
		t.Error("esc did not cancel the move")
	}
}

func TestFilterAndThemeKeys(t *testing.T) {
	m := newTestModel(t)
	m = addTask(t, m, "a")

	m = send(t, m, runes("f"), runes("f"))
	if m.view.Filter.Status != string(task.StatusCompleted) || !m.view.Empty {
		t.Errorf("status filter = %q, empty = %v", m.view.Filter.Status, m.view.Empty)
	}
	if !strings.Contains(m.View(), "No matching tasks") {
		t.Error("filtered empty state not rendered")
	}
	m = send(t, m, runes("x"))
	if m.view.Filter.Active() || m.view.Empty {
		t.Error("clear filters did not reset the view")
	}

	m = send(t, m, runes("t"))
	if m.view.Theme != board.ThemeDark {
		t.Errorf("Theme = %q, want dark", m.view.Theme)
	}
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		value, total int
		filled       int
	}{
		{0, 0, 0},
		{1, 2, 5},
		{3, 3, 10},
		{5, 3, 10},
	}
	for _, tt := range tests {
		bar := progressBar(tt.value, tt.total, 10)
		if got := strings.Count(bar, "█"); got != tt.filled {
			t.Errorf("progressBar(%d, %d) filled %d, want %d", tt.value, tt.total, got, tt.filled)
		}
		if n := len([]rune(bar)); n != 10 {
			t.Errorf("progressBar width = %d, want 10", n)
		}
	}
}

type themeRejectingKV struct {
	*storage.Memory
}

func (kv themeRejectingKV) Set(ctx context.Context, key string, value []byte) error {
	if key == board.ThemeKey {
		return errors.New("disk full")
	}
	return kv.Memory.Set(ctx, key, value)
}

func TestThemeSaveFailureShownInStatus(t *testing.T) {
	m := newTestModelOn(t, themeRejectingKV{storage.NewMemory()})
	m = send(t, m, runes("t"))
	if m.view.Theme != board.ThemeDark {
		t.Errorf("Theme = %q, want dark", m.view.Theme)
	}
	if !strings.Contains(m.status, "save failed: disk full") {
		t.Errorf("status = %q, want save failure", m.status)
	}
}
