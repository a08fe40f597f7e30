// Package board is the session state object. It owns the task repository,
// the active filter, search debouncing, the drag gesture and the theme, and
// produces everything the view renders.
package board

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"taskflow/internal/filter"
	"taskflow/internal/reorder"
	"taskflow/internal/stats"
	"taskflow/internal/storage"
	"taskflow/internal/task"
)

// DefaultCategories are offered even before any task uses them.
var DefaultCategories = []string{"工作", "学习", "生活", "健康", "娱乐"}

// View is the outbound data for one render.
type View struct {
	Visible        []task.Task
	Stats          stats.Stats
	CompletionRate int
	Filter         filter.Filter
	Search         string
	Theme          Theme
	Categories     []string
	// Empty is true when nothing is visible; TotalEmpty when no tasks exist at all.
	Empty        bool
	TotalEmpty   bool
	PendingTitle string
}

type Option func(*Board)

func WithLogger(log zerolog.Logger) Option {
	return func(b *Board) { b.log = log }
}

func WithCategories(categories []string) Option {
	return func(b *Board) { b.categories = categories }
}

func WithSearchDelay(d time.Duration) Option {
	return func(b *Board) { b.delay = d }
}

// WithFilter sets the initial filter.
func WithFilter(f filter.Filter) Option {
	return func(b *Board) { b.filter = f }
}

type Board struct {
	repo       *task.Repository
	filter     filter.Filter
	search     *filter.Debouncer
	drag       reorder.Drag
	theme      Theme
	themeSlot  *storage.Slot[Theme]
	categories []string
	delay      time.Duration
	log        zerolog.Logger
}

// New builds a board over repo. The theme is loaded from kv under ThemeKey.
func New(ctx context.Context, repo *task.Repository, kv storage.KV, opts ...Option) *Board {
	b := &Board{
		repo:       repo,
		filter:     filter.Default(),
		categories: DefaultCategories,
		delay:      filter.DefaultDelay,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.search = filter.NewDebouncer(b.delay)
	if b.filter.Search != "" {
		b.search.Flush(b.filter.Search)
	}
	b.themeSlot = storage.NewSlot(kv, ThemeKey, ThemeLight,
		storage.WithSchema(themeValidator),
		storage.WithLogger(b.log),
	)
	b.theme = b.themeSlot.Load(ctx)
	return b
}

func (b *Board) Repository() *task.Repository {
	return b.repo
}

func (b *Board) Create(ctx context.Context, form task.FormData) (task.Task, error) {
	return b.repo.Create(ctx, form)
}

func (b *Board) Toggle(ctx context.Context, id string) bool {
	return b.repo.Toggle(ctx, id)
}

func (b *Board) Update(ctx context.Context, id string, p task.Patch) (bool, error) {
	return b.repo.Update(ctx, id, p)
}

func (b *Board) Delete(ctx context.Context, id string) bool {
	return b.repo.Delete(ctx, id)
}

// Reorder moves the visible task at from to position to.
func (b *Board) Reorder(ctx context.Context, from, to int) bool {
	return reorder.Apply(ctx, b.repo, b.Visible(), from, to)
}

// Drag returns the gesture state machine for the visible list.
func (b *Board) Drag() *reorder.Drag {
	return &b.drag
}

// Drop finishes the current gesture and applies the move, if any. Source
// and target are resolved by id against the current visible sequence; the
// drop is a no-op when either has left it.
func (b *Board) Drop(ctx context.Context) bool {
	_, srcID, _ := b.drag.Source()
	_, dstID, _ := b.drag.Target()
	if _, _, ok := b.drag.Drop(); !ok {
		return false
	}
	visible := b.Visible()
	from, to := indexOf(visible, srcID), indexOf(visible, dstID)
	if from < 0 || to < 0 {
		b.log.Debug().Str("source", srcID).Str("target", dstID).Msg("drop target no longer visible")
		return false
	}
	return reorder.Apply(ctx, b.repo, visible, from, to)
}

func indexOf(tasks []task.Task, id string) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (b *Board) Filter() filter.Filter {
	return b.filter
}

// SetFilter replaces the filter. The search term in f goes through the
// debouncer; call SettleSearch with the returned sequence once it elapses.
func (b *Board) SetFilter(f filter.Filter) uint64 {
	changed := f.Search != b.filter.Search
	b.filter = f
	if !changed {
		return 0
	}
	return b.search.Push(f.Search)
}

// SetSearch updates only the search term and returns its debounce sequence.
func (b *Board) SetSearch(term string) uint64 {
	f := b.filter
	f.Search = term
	b.filter = f
	return b.search.Push(term)
}

// SettleSearch commits the term pushed with seq if nothing newer arrived.
func (b *Board) SettleSearch(seq uint64) bool {
	_, ok := b.search.Settle(seq)
	return ok
}

func (b *Board) SearchDelay() time.Duration {
	return b.search.Delay()
}

func (b *Board) ClearFilters() {
	b.filter = filter.Default()
	b.search.Flush("")
}

func (b *Board) Theme() Theme {
	return b.theme
}

// SetTheme applies t for the session and persists it. A write failure is
// logged by the slot and does not revert the theme.
func (b *Board) SetTheme(ctx context.Context, t Theme) error {
	if !t.Valid() {
		return fmt.Errorf("unknown theme %q", t)
	}
	b.theme = t
	return b.themeSlot.Save(ctx, t)
}

// ToggleTheme switches the theme. The returned error is the persistence
// failure, if any; the new theme stays applied either way.
func (b *Board) ToggleTheme(ctx context.Context) (Theme, error) {
	err := b.SetTheme(ctx, b.theme.Toggle())
	return b.theme, err
}

// Visible is the filtered, ordered sequence the view displays.
func (b *Board) Visible() []task.Task {
	return filter.Apply(b.repo.Tasks(), b.filter, b.search.Current())
}

func (b *Board) Categories() []string {
	return b.repo.Categories(b.categories)
}

func (b *Board) View() View {
	all := b.repo.Tasks()
	visible := filter.Apply(all, b.filter, b.search.Current())
	s := stats.Compute(all)
	return View{
		Visible:        visible,
		Stats:          s,
		CompletionRate: stats.CompletionRate(s),
		Filter:         b.filter,
		Search:         b.search.Current(),
		Theme:          b.theme,
		Categories:     b.repo.Categories(b.categories),
		Empty:          len(visible) == 0,
		TotalEmpty:     len(all) == 0,
		PendingTitle:   pendingTitle(s.Pending),
	}
}

func pendingTitle(pending int) string {
	if pending > 0 {
		return fmt.Sprintf("TaskFlow (%d pending)", pending)
	}
	return "TaskFlow"
}
