// Package reorder moves a task within the visible sequence and commits the
// resulting order back to the full collection.
package reorder

import (
	"context"

	"taskflow/internal/task"
)

// Committer merges the new Order values of a visible subset into the full
// collection. *task.Repository implements it.
type Committer interface {
	Reorder(ctx context.Context, subset []task.Task)
}

// Move removes the task at from and inserts it at to, then renumbers the
// whole visible sequence from zero. Only tasks in visible are renumbered, so
// their order relative to hidden tasks depends on the existing values. It
// reports false for out-of-range indices or when both indices hold the same
// task.
func Move(visible []task.Task, from, to int) ([]task.Task, bool) {
	n := len(visible)
	if from < 0 || from >= n || to < 0 || to >= n {
		return nil, false
	}
	if visible[from].ID == visible[to].ID {
		return nil, false
	}

	out := make([]task.Task, 0, n)
	out = append(out, visible[:from]...)
	out = append(out, visible[from+1:]...)
	moved := visible[from]
	out = append(out[:to], append([]task.Task{moved}, out[to:]...)...)

	for i := range out {
		out[i].Order = i
	}
	return out, true
}

// Apply moves within visible and commits through c in a single write.
func Apply(ctx context.Context, c Committer, visible []task.Task, from, to int) bool {
	moved, ok := Move(visible, from, to)
	if !ok {
		return false
	}
	c.Reorder(ctx, moved)
	return true
}
