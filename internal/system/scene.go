package system

import "github.com/l1jgo/arena/internal/world"

// Scene is the level the pipeline runs against. A map load replaces it, so
// stages look it up on every tick instead of holding the map.
type Scene interface {
	Map() *world.Map
	Player() *world.Player
	Camera() *world.Camera
}
