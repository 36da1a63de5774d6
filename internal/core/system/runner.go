package system

import "sort"

// Runner executes the registered systems once per tick, ordered by phase.
// Within a phase, systems run in registration order.
type Runner struct {
	systems []System
	dirty   bool
}

func NewRunner() *Runner {
	return &Runner{systems: make([]System, 0, 8)}
}

func (r *Runner) Register(s System) {
	r.systems = append(r.systems, s)
	r.dirty = true
}

func (r *Runner) Tick() {
	for _, s := range r.ordered() {
		s.Update()
	}
}

// TickPhase runs only the systems of one phase.
func (r *Runner) TickPhase(phase Phase) {
	for _, s := range r.ordered() {
		if s.Phase() == phase {
			s.Update()
		}
	}
}

// Phases lists the phase of every system in execution order.
func (r *Runner) Phases() []Phase {
	sys := r.ordered()
	out := make([]Phase, len(sys))
	for i, s := range sys {
		out[i] = s.Phase()
	}
	return out
}

// Len returns the number of registered systems.
func (r *Runner) Len() int { return len(r.systems) }

func (r *Runner) ordered() []System {
	if r.dirty {
		sort.SliceStable(r.systems, func(i, j int) bool {
			return r.systems[i].Phase() < r.systems[j].Phase()
		})
		r.dirty = false
	}
	return r.systems
}
