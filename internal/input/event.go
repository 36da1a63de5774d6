package input

import "fmt"

// Kind classifies an input event.
type Kind uint8

const (
	KeyDown Kind = iota + 1
	KeyUp
	Click
)

func (k Kind) String() string {
	switch k {
	case KeyDown:
		return "keydown"
	case KeyUp:
		return "keyup"
	case Click:
		return "click"
	}
	return "unknown"
}

// Event is a discrete input event. Key is a logical key name ("ArrowUp",
// "Escape", "w", " "). Repeat is set on key-down events for keys that are
// already held. Trigger is only set on clicks and names the trigger of the
// clicked overlay item.
type Event struct {
	Kind    Kind
	Key     string
	Repeat  bool
	Trigger string
}

func (e Event) String() string {
	if e.Kind == Click {
		return fmt.Sprintf("click(%s)", e.Trigger)
	}
	if e.Repeat {
		return fmt.Sprintf("%s(%q, repeat)", e.Kind, e.Key)
	}
	return fmt.Sprintf("%s(%q)", e.Kind, e.Key)
}
