package frame

// Snapshot is the suspended content of a Queue, taken by Queue.Snapshot and
// handed back with Queue.Restore exactly once.
type Snapshot struct {
	once      []Action
	recurring map[Key]Action
	consumed  bool
}

// Len returns the number of one-shot actions held.
func (s *Snapshot) Len() int { return len(s.once) }

// Recurring returns the number of recurring actions held.
func (s *Snapshot) Recurring() int { return len(s.recurring) }

// Consumed reports whether the snapshot has been restored.
func (s *Snapshot) Consumed() bool { return s.consumed }
