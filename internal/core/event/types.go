package event

import "github.com/l1jgo/arena/internal/core/ecs"

// EntityDied is emitted when an entity's death handler removes it from the map.
type EntityDied struct {
	EntityID ecs.EntityID
	Name     string
	Enemy    bool
}

// PlayerDied is emitted when the player's health reaches zero.
type PlayerDied struct {
	Name string
}

// PlayerHit is emitted when the player takes damage.
type PlayerHit struct {
	Amount float64
	HP     float64
}
