package ui

import (
	"errors"
	"fmt"

	"github.com/l1jgo/arena/internal/core/frame"
	"github.com/l1jgo/arena/internal/data"
	"github.com/l1jgo/arena/internal/input"
	"go.uber.org/zap"
)

// Diagnostics. None of them change state.
var (
	ErrUnknownTrigger = errors.New("ui: unknown trigger")
	ErrPauseBlocked   = errors.New("ui: pause not allowed in this state")
	ErrNoSnapshot     = errors.New("ui: resume without a stored snapshot")
	ErrTriggerBlocked = errors.New("ui: trigger not allowed in this state")
)

// IsDiagnostic reports whether err is one of the no-op diagnostics rather
// than a fault.
func IsDiagnostic(err error) bool {
	return errors.Is(err, ErrUnknownTrigger) || errors.Is(err, ErrPauseBlocked) ||
		errors.Is(err, ErrNoSnapshot) || errors.Is(err, ErrTriggerBlocked)
}

// Host is the game side of the state machine.
type Host interface {
	LoadMenu() error
	LoadLevel(name string) error
	// Suspend snapshots and clears the frame queue and swaps the full tick
	// for a render-only one.
	Suspend() *frame.Snapshot
	// Resume restores a snapshot and the full tick.
	Resume(s *frame.Snapshot) error
	Queue() *frame.Queue
	Mover(d Direction) frame.Action
}

// Overlay shows and hides named screen regions.
type Overlay interface {
	Show(region string) error
	Hide(region string) error
}

// Options configures a Machine.
type Options struct {
	Level  string // map loaded by "play"
	Border bool   // show the view border while playing
}

// Machine owns the UI state, the input gate and the pause protocol.
// Accessed only from the game loop goroutine, so no locks.
type Machine struct {
	host    Host
	overlay Overlay
	keys    *data.KeyTable
	log     *zap.Logger
	opts    Options

	state    State
	snapshot *frame.Snapshot
	held     map[frame.Key]struct{}
	released map[frame.Key]struct{} // released while paused

	triggers map[string]func() error
}

func NewMachine(host Host, overlay Overlay, keys *data.KeyTable, opts Options, log *zap.Logger) *Machine {
	m := &Machine{
		host:     host,
		overlay:  overlay,
		keys:     keys,
		log:      log,
		opts:     opts,
		held:     make(map[frame.Key]struct{}),
		released: make(map[frame.Key]struct{}),
	}
	m.triggers = map[string]func() error{
		"mainmenu":     m.mainMenu,
		"play":         m.play,
		"pause":        m.pause,
		"instructions": m.instructions,
		"gameover":     m.gameOver,
	}
	return m
}

// Start shows the main menu.
func (m *Machine) Start() error {
	return m.Trigger("mainmenu")
}

func (m *Machine) State() State { return m.state }

// Tags returns the active overlay tags. The set is empty while playing.
func (m *Machine) Tags() []string {
	if tag := m.state.Tag(); tag != "" {
		return []string{tag}
	}
	return nil
}

// Open reports whether gameplay input is accepted.
func (m *Machine) Open() bool { return m.state == StatePlaying }

// Paused reports whether a snapshot is waiting to be restored.
func (m *Machine) Paused() bool { return m.snapshot != nil }

// Trigger runs the named transition.
func (m *Machine) Trigger(name string) error {
	fn, ok := m.triggers[name]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownTrigger, name)
	}
	from := m.state
	if err := fn(); err != nil {
		return fmt.Errorf("trigger %s: %w", name, err)
	}
	m.log.Debug("ui transition",
		zap.String("trigger", name),
		zap.Stringer("from", from),
		zap.Stringer("to", m.state),
	)
	return nil
}

// Handle routes one input event.
func (m *Machine) Handle(ev input.Event) error {
	switch ev.Kind {
	case input.KeyDown:
		return m.KeyDown(ev.Key, ev.Repeat)
	case input.KeyUp:
		m.KeyUp(ev.Key)
		return nil
	case input.Click:
		return m.Trigger(ev.Trigger)
	}
	return nil
}

// Holdable reports whether key is bound to movement, the only keys that
// stay pressed.
func (m *Machine) Holdable(key string) bool {
	_, ok := directions[m.keys.Word(key)]
	return ok
}

// KeyDown handles a key press. Movement keys register a recurring move only
// while the gate is open; every other bound key runs its trigger in any
// state. Repeats never do anything.
func (m *Machine) KeyDown(key string, repeat bool) error {
	word := m.keys.Word(key)
	if word == "" || repeat {
		return nil
	}
	if dir, ok := directions[word]; ok {
		if !m.Open() {
			return nil
		}
		k := frame.Key(word)
		m.host.Queue().EnqueueRecurring(k, gatedAction{m: m, next: m.host.Mover(dir)})
		m.held[k] = struct{}{}
		delete(m.released, k)
		return nil
	}
	return m.Trigger(word)
}

// KeyUp cancels the movement bound to key. While paused the live queue is
// empty, so the release is applied right after resume.
func (m *Machine) KeyUp(key string) {
	word := m.keys.Word(key)
	if _, ok := directions[word]; !ok {
		return
	}
	k := frame.Key(word)
	if m.state == StatePaused {
		if _, ok := m.held[k]; ok {
			m.released[k] = struct{}{}
		}
		return
	}
	m.host.Queue().CancelRecurring(k)
	delete(m.held, k)
}

func (m *Machine) mainMenu() error {
	if err := m.load(m.host.LoadMenu); err != nil {
		return err
	}
	m.state = StateMainMenu
	return m.apply(
		[]string{RegionMenu},
		[]string{RegionPause, RegionGameOver, RegionInstructions, RegionBorder},
	)
}

func (m *Machine) play() error {
	if err := m.load(func() error { return m.host.LoadLevel(m.opts.Level) }); err != nil {
		return err
	}
	m.state = StatePlaying
	show := []string{}
	if m.opts.Border {
		show = append(show, RegionBorder)
	}
	return m.apply(show, []string{RegionMenu, RegionPause, RegionGameOver, RegionInstructions})
}

func (m *Machine) pause() error {
	switch m.state {
	case StatePaused:
		return m.pauseExit()
	case StatePlaying:
		return m.pauseEntry()
	}
	return fmt.Errorf("%w: %s", ErrPauseBlocked, m.state)
}

func (m *Machine) pauseEntry() error {
	m.snapshot = m.host.Suspend()
	m.state = StatePaused
	return m.overlay.Show(RegionPause)
}

func (m *Machine) pauseExit() error {
	if m.snapshot == nil {
		return ErrNoSnapshot
	}
	if err := m.host.Resume(m.snapshot); err != nil {
		return err
	}
	m.snapshot = nil
	m.state = StatePlaying
	for k := range m.released {
		m.host.Queue().CancelRecurring(k)
		delete(m.held, k)
	}
	clear(m.released)
	return m.overlay.Hide(RegionPause)
}

func (m *Machine) instructions() error {
	if m.state != StateMainMenu {
		return fmt.Errorf("%w: %s", ErrTriggerBlocked, m.state)
	}
	m.state = StateInstructions
	return m.apply([]string{RegionInstructions}, []string{RegionMenu})
}

// gameOver is raised by the game once the player dies.
func (m *Machine) gameOver() error {
	if m.state != StatePlaying {
		return fmt.Errorf("%w: %s", ErrTriggerBlocked, m.state)
	}
	q := m.host.Queue()
	for k := range m.held {
		q.CancelRecurring(k)
	}
	clear(m.held)
	m.state = StateGameOver
	return m.apply([]string{RegionGameOver}, []string{RegionBorder})
}

// load leaves pause, then runs fn. A failed load keeps the running level,
// so the machine returns to the state it was in, pause included.
func (m *Machine) load(fn func() error) error {
	wasPaused := m.state == StatePaused
	if wasPaused {
		if err := m.pauseExit(); err != nil {
			return err
		}
	}
	if err := fn(); err != nil {
		if wasPaused {
			if perr := m.pauseEntry(); perr != nil {
				return errors.Join(err, perr)
			}
		}
		return err
	}
	m.reset()
	return nil
}

// reset forgets held keys once a load has cleared the queue.
func (m *Machine) reset() {
	m.state = StateNone
	clear(m.held)
	clear(m.released)
}

func (m *Machine) apply(show, hide []string) error {
	var errs []error
	for _, r := range show {
		if err := m.overlay.Show(r); err != nil {
			errs = append(errs, err)
		}
	}
	for _, r := range hide {
		if err := m.overlay.Hide(r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// gatedAction runs a movement only while gameplay input is accepted.
type gatedAction struct {
	m    *Machine
	next frame.Action
}

func (a gatedAction) Run() error {
	if !a.m.Open() {
		return nil
	}
	return a.next.Run()
}
