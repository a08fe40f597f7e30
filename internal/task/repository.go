package task

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"taskflow/internal/storage"
)

// StorageKey is the key holding the whole task collection.
const StorageKey = "tasks"

const collectionSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["id", "title", "priority", "status", "createdAt", "order"],
		"properties": {
			"id": {"type": "string", "minLength": 1},
			"title": {"type": "string"},
			"description": {"type": "string"},
			"priority": {"enum": ["high", "medium", "low"]},
			"status": {"enum": ["pending", "completed"]},
			"category": {"type": "string"},
			"createdAt": {"type": "string"},
			"completedAt": {"type": "string"},
			"order": {"type": "number"}
		}
	}
}`

var schema = storage.MustCompileSchema("taskflow://tasks.json", collectionSchema)

type Option func(*Repository)

func WithLogger(log zerolog.Logger) Option {
	return func(r *Repository) { r.log = log }
}

// WithDefaultCategory sets the category given to tasks created without one.
func WithDefaultCategory(category string) Option {
	return func(r *Repository) { r.defaultCategory = category }
}

func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

func WithIDFunc(newID func() string) Option {
	return func(r *Repository) { r.newID = newID }
}

// Repository owns the task collection. Every mutation writes the entire
// collection through to the store before returning. It is not safe for
// concurrent use; callers serialize operations.
type Repository struct {
	slot            *storage.Slot[[]Task]
	tasks           []Task
	defaultCategory string
	now             func() time.Time
	newID           func() string
	log             zerolog.Logger
	err             error
}

// NewRepository loads the collection from kv. A missing or corrupt
// collection starts empty.
func NewRepository(ctx context.Context, kv storage.KV, opts ...Option) *Repository {
	r := &Repository{
		now:   time.Now,
		newID: NewID,
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.slot = storage.NewSlot(kv, StorageKey, []Task{},
		storage.WithSchema(schema),
		storage.WithLogger(r.log),
	)
	r.tasks = r.dedupe(r.slot.Load(ctx))
	r.log.Debug().Int("tasks", len(r.tasks)).Msg("loaded task collection")
	return r
}

func (r *Repository) Create(ctx context.Context, form FormData) (Task, error) {
	form, err := form.normalize(r.defaultCategory)
	if err != nil {
		return Task{}, err
	}
	t := Task{
		ID:          r.newID(),
		Title:       form.Title,
		Description: form.Description,
		Priority:    form.Priority,
		Status:      StatusPending,
		Category:    form.Category,
		CreatedAt:   r.now(),
		Order:       len(r.tasks),
	}
	r.tasks = append(r.tasks, t)
	r.persist(ctx)
	r.log.Info().Str("id", t.ID).Msg("task created")
	return clone(t), nil
}

// Toggle flips a task between pending and completed. It reports false when
// no task has the given id.
func (r *Repository) Toggle(ctx context.Context, id string) bool {
	i := r.index(id)
	if i < 0 {
		return false
	}
	t := &r.tasks[i]
	if t.Status == StatusCompleted {
		t.Status = StatusPending
		t.CompletedAt = nil
	} else {
		now := r.now()
		t.Status = StatusCompleted
		t.CompletedAt = &now
	}
	r.persist(ctx)
	return true
}

// Update merges p into the task with the given id. A validation error leaves
// the task untouched; an unknown id returns false without error.
func (r *Repository) Update(ctx context.Context, id string, p Patch) (bool, error) {
	i := r.index(id)
	if i < 0 {
		return false, nil
	}
	updated, err := p.apply(r.tasks[i])
	if err != nil {
		return true, err
	}
	r.tasks[i] = updated
	r.persist(ctx)
	return true, nil
}

func (r *Repository) Delete(ctx context.Context, id string) bool {
	i := r.index(id)
	if i < 0 {
		return false
	}
	r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
	r.persist(ctx)
	r.log.Info().Str("id", id).Msg("task deleted")
	return true
}

// Reorder takes the Order of every task in subset and merges it into the
// collection. Tasks absent from subset keep their order.
func (r *Repository) Reorder(ctx context.Context, subset []Task) {
	orders := make(map[string]int, len(subset))
	for _, t := range subset {
		orders[t.ID] = t.Order
	}
	for i := range r.tasks {
		if order, ok := orders[r.tasks[i].ID]; ok {
			r.tasks[i].Order = order
		}
	}
	r.persist(ctx)
}

// Tasks returns a copy of the collection in storage order.
func (r *Repository) Tasks() []Task {
	out := make([]Task, len(r.tasks))
	for i, t := range r.tasks {
		out[i] = clone(t)
	}
	return out
}

func (r *Repository) Get(id string) (Task, bool) {
	i := r.index(id)
	if i < 0 {
		return Task{}, false
	}
	return clone(r.tasks[i]), true
}

func (r *Repository) Len() int {
	return len(r.tasks)
}

func (r *Repository) DefaultCategory() string {
	return r.defaultCategory
}

// Categories returns defaults followed by every other category in use, in
// first-seen order and without duplicates.
func (r *Repository) Categories(defaults []string) []string {
	seen := make(map[string]struct{}, len(defaults)+len(r.tasks))
	out := make([]string, 0, len(defaults))
	add := func(c string) {
		if c == "" {
			return
		}
		if _, ok := seen[c]; ok {
			return
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	for _, c := range defaults {
		add(c)
	}
	for _, t := range r.tasks {
		add(t.Category)
	}
	return out
}

// Err returns the error from the most recent write-through, or nil.
func (r *Repository) Err() error {
	return r.err
}

func (r *Repository) index(id string) int {
	for i := range r.tasks {
		if r.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// dedupe keeps the first task for every id so that id lookups stay
// unambiguous. Dropped entries disappear from the store on the next write.
func (r *Repository) dedupe(tasks []Task) []Task {
	out := make([]Task, 0, len(tasks))
	seen := make(map[string]struct{}, len(tasks))
	for _, t := range tasks {
		if _, dup := seen[t.ID]; dup {
			r.log.Warn().Str("id", t.ID).Msg("dropping task with duplicate id")
			continue
		}
		seen[t.ID] = struct{}{}
		out = append(out, t)
	}
	return out
}

func (r *Repository) persist(ctx context.Context) {
	r.err = r.slot.Save(ctx, r.tasks)
}
