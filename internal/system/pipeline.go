package system

import (
	"github.com/l1jgo/arena/internal/core/event"
	"github.com/l1jgo/arena/internal/core/frame"
	coresys "github.com/l1jgo/arena/internal/core/system"
	"github.com/l1jgo/arena/internal/world"
	"go.uber.org/zap"
)

// EventSystem delivers the events emitted during the previous tick.
// Phase 0 (Events).
type EventSystem struct {
	bus *event.Bus
}

func NewEventSystem(bus *event.Bus) *EventSystem {
	return &EventSystem{bus: bus}
}

func (s *EventSystem) Phase() coresys.Phase { return coresys.PhaseEvents }

func (s *EventSystem) Update() {
	s.bus.SwapBuffers()
	s.bus.DispatchAll()
}

// SpawnSystem lets the map's spawner add enemies. It mutates the map
// directly: spawning only adds and runs before anything moves.
// Phase 1 (Spawn).
type SpawnSystem struct {
	scene Scene
}

func NewSpawnSystem(scene Scene) *SpawnSystem {
	return &SpawnSystem{scene: scene}
}

func (s *SpawnSystem) Phase() coresys.Phase { return coresys.PhaseSpawn }

func (s *SpawnSystem) Update() {
	if m := s.scene.Map(); m != nil {
		m.Spawner().Spawn()
	}
}

// AbilitySystem schedules one activation per player ability.
// Phase 2 (Abilities).
type AbilitySystem struct {
	scene Scene
	queue *frame.Queue
}

func NewAbilitySystem(scene Scene, queue *frame.Queue) *AbilitySystem {
	return &AbilitySystem{scene: scene, queue: queue}
}

func (s *AbilitySystem) Phase() coresys.Phase { return coresys.PhaseAbilities }

func (s *AbilitySystem) Update() {
	p := s.scene.Player()
	if p == nil {
		return
	}
	for _, a := range p.Abilities() {
		s.queue.Enqueue(NewActivateAction(a))
	}
}

// MovementSystem schedules a move for every enemy, then every projectile.
// Phase 3 (Movement).
type MovementSystem struct {
	scene Scene
	queue *frame.Queue
}

func NewMovementSystem(scene Scene, queue *frame.Queue) *MovementSystem {
	return &MovementSystem{scene: scene, queue: queue}
}

func (s *MovementSystem) Phase() coresys.Phase { return coresys.PhaseMovement }

func (s *MovementSystem) Update() {
	m := s.scene.Map()
	if m == nil {
		return
	}
	ents := m.Entities()
	enqueueKind(s.queue, m, ents, world.KindEnemy, OpMove)
	enqueueKind(s.queue, m, ents, world.KindProjectile, OpMove)
}

// CombatSystem schedules projectile damage, enemy contact damage and the
// death handlers of everything whose health ran out.
// Phase 4 (Combat).
type CombatSystem struct {
	scene Scene
	queue *frame.Queue
}

func NewCombatSystem(scene Scene, queue *frame.Queue) *CombatSystem {
	return &CombatSystem{scene: scene, queue: queue}
}

func (s *CombatSystem) Phase() coresys.Phase { return coresys.PhaseCombat }

func (s *CombatSystem) Update() {
	m := s.scene.Map()
	if m == nil {
		return
	}
	ents := m.Entities()
	enqueueKind(s.queue, m, ents, world.KindProjectile, OpDamage)
	enqueueKind(s.queue, m, ents, world.KindEnemy, OpCollide)
	for _, e := range m.Dying() {
		s.queue.Enqueue(NewEntityAction(m, e, OpDeath))
	}
}

func enqueueKind(q *frame.Queue, m *world.Map, ents []world.Entity, kind world.Kind, op Op) {
	for _, e := range ents {
		if e.Kind().Has(kind) {
			q.Enqueue(NewEntityAction(m, e, op))
		}
	}
}

// DrainSystem runs everything scheduled this tick plus the recurring input
// actions, then drops the entities removed while doing so. Failed actions
// are logged; the tick carries on.
// Phase 5 (Drain).
type DrainSystem struct {
	scene Scene
	queue *frame.Queue
	log   *zap.Logger
}

func NewDrainSystem(scene Scene, queue *frame.Queue, log *zap.Logger) *DrainSystem {
	return &DrainSystem{scene: scene, queue: queue, log: log}
}

func (s *DrainSystem) Phase() coresys.Phase { return coresys.PhaseDrain }

func (s *DrainSystem) Update() {
	if err := s.queue.Drain(); err != nil {
		s.log.Warn("frame action failed", zap.Error(err))
	}
	if m := s.scene.Map(); m != nil {
		m.FlushDestroyed()
	}
}

// CameraSystem moves the camera onto its target.
// Phase 6 (Camera).
type CameraSystem struct {
	scene Scene
}

func NewCameraSystem(scene Scene) *CameraSystem {
	return &CameraSystem{scene: scene}
}

func (s *CameraSystem) Phase() coresys.Phase { return coresys.PhaseCamera }

func (s *CameraSystem) Update() {
	if c := s.scene.Camera(); c != nil {
		c.Follow()
	}
}
