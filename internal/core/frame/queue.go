package frame

import (
	"errors"
	"fmt"
	"sort"
)

// Action is a deferred unit of work executed by Drain.
type Action interface {
	Run() error
}

// Func adapts a plain function to Action.
type Func func() error

func (f Func) Run() error { return f() }

// Key identifies a recurring action, e.g. "move-up".
type Key string

var (
	ErrNilSnapshot      = errors.New("frame: nil snapshot")
	ErrSnapshotConsumed = errors.New("frame: snapshot already restored")
)

// Queue holds one-shot actions (run on the next drain, then discarded) and
// keyed recurring actions (run on every drain until cancelled).
// Accessed only from the game loop goroutine, so no locks.
type Queue struct {
	once      []Action
	recurring map[Key]Action
}

func NewQueue() *Queue {
	return &Queue{
		once:      make([]Action, 0, 64),
		recurring: make(map[Key]Action, 8),
	}
}

// Enqueue appends a one-shot action. Nil actions are dropped.
func (q *Queue) Enqueue(a Action) {
	if a == nil {
		return
	}
	q.once = append(q.once, a)
}

// EnqueueRecurring installs the action for k, replacing any previous one.
func (q *Queue) EnqueueRecurring(k Key, a Action) {
	if a == nil {
		return
	}
	q.recurring[k] = a
}

// CancelRecurring removes the action for k. Missing keys are ignored.
func (q *Queue) CancelRecurring(k Key) {
	delete(q.recurring, k)
}

// Drain runs every recurring action in key order, then every one-shot action
// that was pending when the drain began, in FIFO order. Actions enqueued while
// draining are left for the next drain.
//
// A failing action does not stop the drain; all failures are returned joined.
func (q *Queue) Drain() error {
	var errs []error

	for _, k := range q.RecurringKeys() {
		a, ok := q.recurring[k]
		if !ok {
			continue // cancelled by an earlier action in this drain
		}
		if err := a.Run(); err != nil {
			errs = append(errs, fmt.Errorf("recurring %q: %w", k, err))
		}
	}

	pending := q.once
	q.once = make([]Action, 0, cap(pending))
	for i, a := range pending {
		if err := a.Run(); err != nil {
			errs = append(errs, fmt.Errorf("action %d: %w", i, err))
		}
	}

	return errors.Join(errs...)
}

// Snapshot moves the queue contents into a Snapshot. The queue is empty
// afterwards.
func (q *Queue) Snapshot() *Snapshot {
	s := &Snapshot{
		once:      q.once,
		recurring: q.recurring,
	}
	q.once = make([]Action, 0, 64)
	q.recurring = make(map[Key]Action, 8)
	return s
}

// Restore moves a snapshot back into the queue. A snapshot can be restored
// once. If the queue is not empty the contents are merged: snapshot one-shots
// run first, and live recurring actions win over snapshot ones for the same key.
func (q *Queue) Restore(s *Snapshot) error {
	if s == nil {
		return ErrNilSnapshot
	}
	if s.consumed {
		return ErrSnapshotConsumed
	}
	s.consumed = true

	once := make([]Action, 0, len(s.once)+len(q.once))
	once = append(once, s.once...)
	once = append(once, q.once...)
	q.once = once

	for k, a := range s.recurring {
		if _, live := q.recurring[k]; !live {
			q.recurring[k] = a
		}
	}

	s.once, s.recurring = nil, nil
	return nil
}

// Clear drops every pending and recurring action. Fresh storage is
// allocated so the dropped actions can be collected.
func (q *Queue) Clear() {
	q.once = make([]Action, 0, 64)
	q.recurring = make(map[Key]Action, 8)
}

// Pending returns a copy of the one-shot actions waiting for the next drain.
func (q *Queue) Pending() []Action {
	out := make([]Action, len(q.once))
	copy(out, q.once)
	return out
}

// Len returns the number of pending one-shot actions.
func (q *Queue) Len() int { return len(q.once) }

// Empty reports whether the queue holds no actions of either kind.
func (q *Queue) Empty() bool { return len(q.once) == 0 && len(q.recurring) == 0 }

func (q *Queue) HasRecurring(k Key) bool {
	_, ok := q.recurring[k]
	return ok
}

// RecurringKeys returns the registered keys in drain order.
func (q *Queue) RecurringKeys() []Key {
	keys := make([]Key, 0, len(q.recurring))
	for k := range q.recurring {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
