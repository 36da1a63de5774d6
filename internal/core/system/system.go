package system

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseEvents    Phase = iota // 0: dispatch events emitted last tick
	PhaseSpawn                  // 1: spawner adds entities directly
	PhaseAbilities              // 2: enqueue ability activations
	PhaseMovement               // 3: enqueue enemy then projectile moves
	PhaseCombat                 // 4: enqueue damage, collisions, deaths
	PhaseDrain                  // 5: run the frame queue, flush destroyed entities
	PhaseCamera                 // 6: camera follow
)

func (p Phase) String() string {
	switch p {
	case PhaseEvents:
		return "events"
	case PhaseSpawn:
		return "spawn"
	case PhaseAbilities:
		return "abilities"
	case PhaseMovement:
		return "movement"
	case PhaseCombat:
		return "combat"
	case PhaseDrain:
		return "drain"
	case PhaseCamera:
		return "camera"
	}
	return "unknown"
}

// System is one stage of the per-tick pipeline.
type System interface {
	Phase() Phase
	Update()
}
