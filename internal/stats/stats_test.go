package stats

import (
	"testing"

	"taskflow/internal/task"
)

func TestComputeEmpty(t *testing.T) {
	if got := Compute(nil); got != (Stats{}) {
		t.Errorf("Compute(nil) = %+v, want zero", got)
	}
	if got := CompletionRate(Stats{}); got != 0 {
		t.Errorf("CompletionRate = %d, want 0", got)
	}
}

func TestCompute(t *testing.T) {
	tasks := []task.Task{
		{Status: task.StatusCompleted, Priority: task.PriorityHigh},
		{Status: task.StatusPending, Priority: task.PriorityHigh},
		{Status: task.StatusPending, Priority: task.PriorityMedium},
		{Status: task.StatusCompleted, Priority: task.PriorityLow},
		{Status: "archived", Priority: task.PriorityLow},
	}
	got := Compute(tasks)
	want := Stats{Total: 5, Completed: 2, Pending: 3, High: 2, Medium: 1, Low: 2}
	if got != want {
		t.Errorf("Compute = %+v, want %+v", got, want)
	}
	if got.Completed+got.Pending != got.Total {
		t.Errorf("completed+pending = %d, want %d", got.Completed+got.Pending, got.Total)
	}
	if got.MaxTier() != 2 {
		t.Errorf("MaxTier = %d, want 2", got.MaxTier())
	}
}

func TestCompletionRate(t *testing.T) {
	tests := []struct {
		completed, total int
		want             int
	}{
		{0, 4, 0},
		{1, 3, 33},
		{2, 3, 67},
		{1, 2, 50},
		{3, 3, 100},
	}
	for _, tt := range tests {
		s := Stats{Total: tt.total, Completed: tt.completed, Pending: tt.total - tt.completed}
		if got := CompletionRate(s); got != tt.want {
			t.Errorf("CompletionRate(%d/%d) = %d, want %d", tt.completed, tt.total, got, tt.want)
		}
	}
}

func TestTiers(t *testing.T) {
	s := Stats{High: 3, Medium: 1, Low: 0}
	tiers := s.Tiers()
	want := []Tier{
		{Priority: task.PriorityHigh, Count: 3},
		{Priority: task.PriorityMedium, Count: 1},
		{Priority: task.PriorityLow, Count: 0},
	}
	if len(tiers) != len(want) {
		t.Fatalf("Tiers len = %d, want %d", len(tiers), len(want))
	}
	for i := range want {
		if tiers[i] != want[i] {
			t.Errorf("tiers[%d] = %+v, want %+v", i, tiers[i], want[i])
		}
	}
}
