package draft

import (
	"sync"
	"time"
)

// Debouncer runs at most one pending task after a quiet period. Scheduling
// a new task replaces the pending one.
type Debouncer struct {
	mu       sync.Mutex
	timer    *time.Timer
	task     func()
	gen      uint64
	duration time.Duration
	stopped  bool
}

func NewDebouncer(duration time.Duration) *Debouncer {
	return &Debouncer{duration: duration}
}

// Debounce schedules fn to run after the quiet period, cancelling any task
// still pending. It is a no-op once the debouncer is stopped.
func (d *Debouncer) Debounce(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}

	d.stopLocked()
	d.gen++
	gen := d.gen
	d.task = fn
	d.timer = time.AfterFunc(d.duration, func() { d.fire(gen) })
}

// fire runs the task only if no newer Debounce or Cancel happened since it
// was scheduled. A timer that already fired cannot be stopped, so the
// generation check is what enforces the single pending task.
func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || d.task == nil {
		d.mu.Unlock()
		return
	}
	task := d.task
	d.task, d.timer = nil, nil
	d.mu.Unlock()

	task()
}

// Pending reports whether a task is waiting to run.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.task != nil
}

// Flush runs the pending task now, on the caller's goroutine.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	task := d.task
	d.stopLocked()
	d.mu.Unlock()

	if task == nil {
		return false
	}
	task()
	return true
}

// Cancel drops the pending task.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
}

// Stop cancels the pending task and refuses new ones.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
	d.stopped = true
}

func (d *Debouncer) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	d.timer, d.task = nil, nil
}
