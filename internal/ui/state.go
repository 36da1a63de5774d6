package ui

// State is the active UI mode. At most one overlay tag is active in any
// state; Playing has none.
type State uint8

const (
	StateNone State = iota
	StateMainMenu
	StateInstructions
	StatePlaying
	StatePaused
	StateGameOver
)

func (s State) String() string {
	switch s {
	case StateNone:
		return "none"
	case StateMainMenu:
		return "mainmenu"
	case StateInstructions:
		return "instructions"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateGameOver:
		return "gameover"
	}
	return "unknown"
}

// Tag returns the overlay tag of s, or "" when s shows no overlay.
func (s State) Tag() string {
	switch s {
	case StateMainMenu:
		return TagMainMenu
	case StateInstructions:
		return TagInstructions
	case StatePaused:
		return TagPause
	case StateGameOver:
		return TagGameOver
	}
	return ""
}

// UI tags.
const (
	TagMainMenu     = "mainmenu"
	TagInstructions = "instructions"
	TagPause        = "pause"
	TagGameOver     = "gameover"
)

// Overlay regions.
const (
	RegionMenu         = "menu"
	RegionPause        = "pause"
	RegionGameOver     = "gameover"
	RegionInstructions = "instructions"
	RegionBorder       = "border"
)

// Direction is a movement direction bound to a key word.
type Direction uint8

const (
	DirUp Direction = iota + 1
	DirRight
	DirDown
	DirLeft
)

// Delta returns the unit step of d in map cells; y grows downwards.
func (d Direction) Delta() (dx, dy float64) {
	switch d {
	case DirUp:
		return 0, -1
	case DirRight:
		return 1, 0
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	}
	return 0, 0
}

// Movement key words and the directions they steer.
var directions = map[string]Direction{
	"move-up":    DirUp,
	"move-right": DirRight,
	"move-down":  DirDown,
	"move-left":  DirLeft,
}
