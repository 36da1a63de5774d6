package input

import (
	"sort"
	"time"
	"unicode"

	"github.com/gdamore/tcell/v2"
)

// HitTester resolves a screen cell to the trigger of the overlay item drawn
// there.
type HitTester interface {
	HitTest(x, y int) (trigger string, ok bool)
}

// RepeatGap is the widest gap between two presses of a tap key that still
// counts as terminal auto-repeat. Separate presses are slower than this.
const RepeatGap = 80 * time.Millisecond

// Adapter turns tcell events into Events. Terminals report presses and
// auto-repeats but no releases. Holdable keys (movement) count as held until
// no press has been seen for the hold timeout; Expire then reports their
// release. Every other key is a tap: it is never held, and a press is a
// repeat only when it follows the previous one within RepeatGap.
// Accessed only from the game loop goroutine, so no locks.
type Adapter struct {
	hold      time.Duration
	hits      HitTester
	holdable  func(key string) bool
	held      map[string]time.Time // holdable key -> last press
	taps      map[string]time.Time // tap key -> last press
	mouseDown bool
}

// NewAdapter builds an adapter. holdable picks the keys that are tracked as
// held; nil treats every key as a tap.
func NewAdapter(hold time.Duration, hits HitTester, holdable func(key string) bool) *Adapter {
	return &Adapter{
		hold:     hold,
		hits:     hits,
		holdable: holdable,
		held:     make(map[string]time.Time),
		taps:     make(map[string]time.Time),
	}
}

// Translate converts one tcell event observed at now. Unbound events
// yield nothing.
func (a *Adapter) Translate(ev tcell.Event, now time.Time) []Event {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		name := KeyName(ev)
		if name == "" {
			return nil
		}
		var repeat bool
		if a.holdable != nil && a.holdable(name) {
			_, repeat = a.held[name]
			a.held[name] = now
		} else {
			last, seen := a.taps[name]
			repeat = seen && now.Sub(last) < RepeatGap
			a.taps[name] = now
		}
		return []Event{{Kind: KeyDown, Key: name, Repeat: repeat}}

	case *tcell.EventMouse:
		pressed := ev.Buttons()&tcell.Button1 != 0
		wasDown := a.mouseDown
		a.mouseDown = pressed
		if !pressed || wasDown || a.hits == nil {
			return nil
		}
		x, y := ev.Position()
		trigger, ok := a.hits.HitTest(x, y)
		if !ok {
			return nil
		}
		return []Event{{Kind: Click, Trigger: trigger}}
	}
	return nil
}

// Expire releases every held key not pressed within the hold timeout.
func (a *Adapter) Expire(now time.Time) []Event {
	for name, last := range a.taps {
		if now.Sub(last) >= RepeatGap {
			delete(a.taps, name)
		}
	}
	var out []Event
	for name, last := range a.held {
		if now.Sub(last) >= a.hold {
			out = append(out, Event{Kind: KeyUp, Key: name})
			delete(a.held, name)
		}
	}
	sortByKey(out)
	return out
}

// ReleaseAll releases every held key.
func (a *Adapter) ReleaseAll() []Event {
	out := make([]Event, 0, len(a.held))
	for name := range a.held {
		out = append(out, Event{Kind: KeyUp, Key: name})
	}
	clear(a.held)
	sortByKey(out)
	return out
}

// Held reports whether key is currently considered held.
func (a *Adapter) Held(key string) bool {
	_, ok := a.held[key]
	return ok
}

func sortByKey(evs []Event) {
	sort.Slice(evs, func(i, j int) bool { return evs[i].Key < evs[j].Key })
}

// KeyName returns the logical name of a key event, or "" for keys the game
// has no name for. Letters are lowercased so caps lock does not unbind them.
func KeyName(ev *tcell.EventKey) string {
	switch ev.Key() {
	case tcell.KeyUp:
		return "ArrowUp"
	case tcell.KeyDown:
		return "ArrowDown"
	case tcell.KeyLeft:
		return "ArrowLeft"
	case tcell.KeyRight:
		return "ArrowRight"
	case tcell.KeyEscape:
		return "Escape"
	case tcell.KeyEnter:
		return "Enter"
	case tcell.KeyRune:
		return string(unicode.ToLower(ev.Rune()))
	}
	return ""
}
