package task

import "errors"

var (
	// ErrEmptyTitle is returned when a task title is blank after trimming.
	ErrEmptyTitle = errors.New("task title is empty")

	// ErrInvalidPriority is returned for a priority outside high/medium/low.
	ErrInvalidPriority = errors.New("invalid task priority")
)
