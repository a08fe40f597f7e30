package filter

import (
	"sync"
	"time"
)

// DefaultDelay is the settle time applied to search input.
const DefaultDelay = 300 * time.Millisecond

// Debouncer commits only the most recent of a burst of search terms. Each
// Push supersedes every earlier one; a Settle carrying an old sequence
// number is rejected.
type Debouncer struct {
	mu        sync.Mutex
	delay     time.Duration
	seq       uint64
	pending   string
	committed string
	timer     *time.Timer
}

func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer{delay: delay}
}

func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Push records term as pending and returns its sequence number.
func (d *Debouncer) Push(term string) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	d.pending = term
	return d.seq
}

// Settle commits the pending term if seq is still the latest push.
func (d *Debouncer) Settle(seq uint64) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if seq != d.seq {
		return d.committed, false
	}
	d.committed = d.pending
	return d.committed, true
}

// Flush commits term immediately and invalidates any pending settle.
func (d *Debouncer) Flush(term string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
	d.seq++
	d.pending = term
	d.committed = term
}

// Current returns the last committed term.
func (d *Debouncer) Current() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.committed
}

// Schedule pushes term and calls fire with the committed term once the delay
// elapses without a newer Schedule. The previous timer is stopped.
func (d *Debouncer) Schedule(term string, fire func(string)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
	d.seq++
	d.pending = term
	seq := d.seq
	d.timer = time.AfterFunc(d.delay, func() {
		if committed, ok := d.Settle(seq); ok {
			fire(committed)
		}
	})
}

// Stop cancels a scheduled timer, if any.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
}

func (d *Debouncer) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
