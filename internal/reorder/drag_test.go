package reorder

import "testing"

func TestDragDrop(t *testing.T) {
	var d Drag
	if d.State() != Idle {
		t.Fatalf("zero Drag state = %v, want idle", d.State())
	}

	d.Start(2, "c")
	if d.State() != Dragging {
		t.Fatalf("state = %v, want dragging", d.State())
	}
	if i, id, ok := d.Source(); !ok || i != 2 || id != "c" {
		t.Errorf("Source = (%d, %q, %v)", i, id, ok)
	}

	d.Enter(1, "b")
	d.Enter(0, "a")
	if i, id, ok := d.Target(); !ok || i != 0 || id != "a" {
		t.Errorf("Target = (%d, %q, %v), want last entered", i, id, ok)
	}

	from, to, ok := d.Drop()
	if !ok || from != 2 || to != 0 {
		t.Errorf("Drop = (%d, %d, %v), want (2, 0, true)", from, to, ok)
	}
	if d.State() != Idle {
		t.Errorf("state after Drop = %v, want idle", d.State())
	}
	if _, _, ok := d.Source(); ok {
		t.Error("Source still set after Drop")
	}
}

func TestDragDropWithoutMoveResets(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*Drag)
	}{
		{"never started", func(*Drag) {}},
		{"no target", func(d *Drag) { d.Start(0, "a") }},
		{"dropped on itself", func(d *Drag) {
			d.Start(0, "a")
			d.Enter(0, "a")
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Drag
			tt.setup(&d)
			if _, _, ok := d.Drop(); ok {
				t.Error("Drop reported a move")
			}
			if d.State() != Idle {
				t.Errorf("state = %v, want idle", d.State())
			}
		})
	}
}

func TestDragEnterIgnoredWhenIdle(t *testing.T) {
	var d Drag
	d.Enter(1, "b")
	if _, _, ok := d.Target(); ok {
		t.Error("Enter recorded a target while idle")
	}
}

func TestDragCancel(t *testing.T) {
	var d Drag
	d.Start(0, "a")
	d.Enter(1, "b")
	d.Cancel()
	if d.State() != Idle {
		t.Errorf("state = %v, want idle", d.State())
	}
	if _, _, ok := d.Drop(); ok {
		t.Error("Drop after Cancel reported a move")
	}
	if Dragging.String() != "dragging" || Idle.String() != "idle" {
		t.Error("unexpected State strings")
	}
}
