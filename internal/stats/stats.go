// Package stats summarizes a task collection.
package stats

import (
	"math"

	"taskflow/internal/task"
)

type Stats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
	High      int `json:"highPriority"`
	Medium    int `json:"mediumPriority"`
	Low       int `json:"lowPriority"`
}

// Tier is the task count for one priority.
type Tier struct {
	Priority task.Priority
	Count    int
}

func Compute(tasks []task.Task) Stats {
	var s Stats
	for _, t := range tasks {
		s.Total++
		if t.Status == task.StatusCompleted {
			s.Completed++
		} else {
			s.Pending++
		}
		switch t.Priority {
		case task.PriorityHigh:
			s.High++
		case task.PriorityMedium:
			s.Medium++
		case task.PriorityLow:
			s.Low++
		}
	}
	return s
}

// CompletionRate is the completed share of all tasks as a rounded percentage.
func CompletionRate(s Stats) int {
	if s.Total == 0 {
		return 0
	}
	return int(math.Round(float64(s.Completed) / float64(s.Total) * 100))
}

func (s Stats) Tiers() []Tier {
	return []Tier{
		{Priority: task.PriorityHigh, Count: s.High},
		{Priority: task.PriorityMedium, Count: s.Medium},
		{Priority: task.PriorityLow, Count: s.Low},
	}
}

// MaxTier returns the largest priority count.
func (s Stats) MaxTier() int {
	return max(s.High, s.Medium, s.Low)
}
