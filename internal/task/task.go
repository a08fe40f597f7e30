// Package task holds the task entity and the repository that owns the
// authoritative task collection.
package task

import (
	"strings"
	"time"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Priorities lists every priority from most to least urgent.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusCompleted
}

// Task is a single to-do item. ID and CreatedAt never change after creation.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    Priority   `json:"priority"`
	Status      Status     `json:"status"`
	Category    string     `json:"category"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Order       int        `json:"order"`
}

func (t Task) Done() bool {
	return t.Status == StatusCompleted
}

// FormData carries the user-entered fields for a new task.
type FormData struct {
	Title       string
	Description string
	Priority    Priority
	Category    string
}

// Patch is a partial update. Nil fields are left untouched.
type Patch struct {
	Title       *string
	Description *string
	Priority    *Priority
	Category    *string
}

func (f FormData) normalize(defaultCategory string) (FormData, error) {
	f.Title = strings.TrimSpace(f.Title)
	f.Description = strings.TrimSpace(f.Description)
	f.Category = strings.TrimSpace(f.Category)
	if f.Title == "" {
		return f, ErrEmptyTitle
	}
	if f.Priority == "" {
		f.Priority = PriorityMedium
	}
	if !f.Priority.Valid() {
		return f, ErrInvalidPriority
	}
	if f.Category == "" {
		f.Category = defaultCategory
	}
	return f, nil
}

// apply returns t with the patch merged in, or a validation error.
func (p Patch) apply(t Task) (Task, error) {
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return t, ErrEmptyTitle
		}
		t.Title = title
	}
	if p.Description != nil {
		t.Description = strings.TrimSpace(*p.Description)
	}
	if p.Priority != nil {
		if !p.Priority.Valid() {
			return t, ErrInvalidPriority
		}
		t.Priority = *p.Priority
	}
	if p.Category != nil {
		if c := strings.TrimSpace(*p.Category); c != "" {
			t.Category = c
		}
	}
	return t, nil
}

func clone(t Task) Task {
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		t.CompletedAt = &at
	}
	return t
}
