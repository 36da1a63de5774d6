package clock

import "time"

// Timer drives a repeating tick at a fixed rate. At most one Handle is active
// per Timer; Start stops the current handle before installing the new one.
// The owning loop calls Fire once per real tick.
// Accessed only from the game loop goroutine, so no locks.
type Timer struct {
	rate   time.Duration
	active *Handle
	nextID uint64
	fired  uint64
}

// NewTimer creates a timer ticking every rate. Non-positive rates fall back
// to 60 ticks per second.
func NewTimer(rate time.Duration) *Timer {
	if rate <= 0 {
		rate = time.Second / 60
	}
	return &Timer{rate: rate}
}

func (t *Timer) Rate() time.Duration { return t.rate }

// Start installs fn as the per-tick callback and returns its handle.
func (t *Timer) Start(name string, fn func()) *Handle {
	t.Stop()
	t.nextID++
	h := &Handle{id: t.nextID, name: name, fn: fn, timer: t}
	t.active = h
	return h
}

// Stop cancels the active handle, if any.
func (t *Timer) Stop() {
	if t.active != nil {
		t.active.Stop()
	}
}

// Active returns the active handle or nil.
func (t *Timer) Active() *Handle { return t.active }

// Fire runs the active callback once. It reports false when nothing is
// installed.
func (t *Timer) Fire() bool {
	h := t.active
	if h == nil {
		return false
	}
	t.fired++
	h.fn()
	return true
}

// Fired returns how many ticks have run a callback.
func (t *Timer) Fired() uint64 { return t.fired }

// Handle identifies one installed tick callback.
type Handle struct {
	id      uint64
	name    string
	fn      func()
	timer   *Timer
	stopped bool
}

func (h *Handle) ID() uint64   { return h.id }
func (h *Handle) Name() string { return h.name }

// Stopped reports whether the handle has been cancelled.
func (h *Handle) Stopped() bool { return h.stopped }

// Stop cancels the handle. Stopping twice is a no-op.
func (h *Handle) Stop() {
	if h == nil || h.stopped {
		return
	}
	h.stopped = true
	if h.timer.active == h {
		h.timer.active = nil
	}
}
