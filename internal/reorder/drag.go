package reorder

// State is the phase of a drag gesture.
type State int

const (
	Idle State = iota
	Dragging
)

func (s State) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

type ref struct {
	index int
	id    string
}

// Drag tracks one gesture from Start to Drop or Cancel. Both Drop and
// Cancel return it to Idle.
type Drag struct {
	state  State
	source ref
	target *ref
}

func (d *Drag) State() State {
	return d.state
}

// Source returns the index and id picked up by Start.
func (d *Drag) Source() (int, string, bool) {
	if d.state != Dragging {
		return 0, "", false
	}
	return d.source.index, d.source.id, true
}

// Target returns the last entered drop target.
func (d *Drag) Target() (int, string, bool) {
	if d.state != Dragging || d.target == nil {
		return 0, "", false
	}
	return d.target.index, d.target.id, true
}

func (d *Drag) Start(index int, id string) {
	d.state = Dragging
	d.source = ref{index: index, id: id}
	d.target = nil
}

// Enter records the element currently under the dragged one.
func (d *Drag) Enter(index int, id string) {
	if d.state != Dragging {
		return
	}
	d.target = &ref{index: index, id: id}
}

// Drop ends the gesture and returns the move to perform. ok is false when no
// target was entered or the target is the source itself.
func (d *Drag) Drop() (from, to int, ok bool) {
	defer d.reset()
	if d.state != Dragging || d.target == nil || d.target.id == "" || d.source.id == "" {
		return 0, 0, false
	}
	if d.target.id == d.source.id {
		return 0, 0, false
	}
	return d.source.index, d.target.index, true
}

func (d *Drag) Cancel() {
	d.reset()
}

func (d *Drag) reset() {
	d.state = Idle
	d.source = ref{}
	d.target = nil
}
