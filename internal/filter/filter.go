// Package filter computes the visible subset of tasks.
package filter

import (
	"sort"
	"strings"

	"taskflow/internal/task"
)

// All disables a criterion.
const All = "all"

type Filter struct {
	Status   string `json:"status"`
	Priority string `json:"priority"`
	Category string `json:"category"`
	Search   string `json:"search"`
}

func Default() Filter {
	return Filter{Status: All, Priority: All, Category: All}
}

// Active reports whether any criterion narrows the view.
func (f Filter) Active() bool {
	return f.status() != All || f.priority() != All || f.category() != All || f.Search != ""
}

// Matches reports whether t passes every criterion and the search term.
func (f Filter) Matches(t task.Task, search string) bool {
	if s := f.status(); s != All && string(t.Status) != s {
		return false
	}
	if p := f.priority(); p != All && string(t.Priority) != p {
		return false
	}
	if c := f.category(); c != All && t.Category != c {
		return false
	}
	if search == "" {
		return true
	}
	term := strings.ToLower(search)
	return strings.Contains(strings.ToLower(t.Title), term) ||
		strings.Contains(strings.ToLower(t.Description), term)
}

// Apply returns the tasks matching f and search, sorted by Order. The
// input slice is not modified.
func Apply(tasks []task.Task, f Filter, search string) []task.Task {
	out := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Matches(t, search) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Order < out[j].Order
	})
	return out
}

// An empty criterion behaves like All.
func (f Filter) status() string   { return orAll(f.Status) }
func (f Filter) priority() string { return orAll(f.Priority) }
func (f Filter) category() string { return orAll(f.Category) }

func orAll(v string) string {
	if v == "" {
		return All
	}
	return v
}

// StatusOptions and PriorityOptions are the cycle orders used by the UI.
var (
	StatusOptions   = []string{All, string(task.StatusPending), string(task.StatusCompleted)}
	PriorityOptions = []string{All, string(task.PriorityHigh), string(task.PriorityMedium), string(task.PriorityLow)}
)

// Next returns the option after current, wrapping around.
func Next(options []string, current string) string {
	if len(options) == 0 {
		return current
	}
	current = orAll(current)
	for i, o := range options {
		if o == current {
			return options[(i+1)%len(options)]
		}
	}
	return options[0]
}
