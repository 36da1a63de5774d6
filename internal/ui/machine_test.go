package ui

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/l1jgo/arena/internal/core/frame"
	"github.com/l1jgo/arena/internal/data"
	"github.com/l1jgo/arena/internal/input"
	"go.uber.org/zap"
)

type fakeHost struct {
	queue     *frame.Queue
	calls     []string
	moves     []Direction
	paused    bool
	loadErr   error
	resumeErr error
	snapshot  *frame.Snapshot
}

func newFakeHost() *fakeHost { return &fakeHost{queue: frame.NewQueue()} }

func (h *fakeHost) LoadMenu() error {
	h.calls = append(h.calls, "menu")
	if h.loadErr != nil {
		return h.loadErr
	}
	h.queue.Clear()
	return nil
}

func (h *fakeHost) LoadLevel(name string) error {
	h.calls = append(h.calls, "level:"+name)
	if h.loadErr != nil {
		return h.loadErr
	}
	h.queue.Clear()
	return nil
}

func (h *fakeHost) Suspend() *frame.Snapshot {
	h.calls = append(h.calls, "suspend")
	h.paused = true
	h.snapshot = h.queue.Snapshot()
	return h.snapshot
}

func (h *fakeHost) Resume(s *frame.Snapshot) error {
	h.calls = append(h.calls, "resume")
	if h.resumeErr != nil {
		return h.resumeErr
	}
	h.paused = false
	return h.queue.Restore(s)
}

func (h *fakeHost) Queue() *frame.Queue { return h.queue }

func (h *fakeHost) Mover(d Direction) frame.Action {
	return frame.Func(func() error {
		h.moves = append(h.moves, d)
		return nil
	})
}

type fakeOverlay struct {
	visible map[string]bool
	missing string
}

var errNoRegion = errors.New("no such region")

func (o *fakeOverlay) Show(region string) error {
	if region == o.missing {
		return errNoRegion
	}
	o.visible[region] = true
	return nil
}

func (o *fakeOverlay) Hide(region string) error {
	if region == o.missing {
		return errNoRegion
	}
	o.visible[region] = false
	return nil
}

func newTestMachine() (*Machine, *fakeHost, *fakeOverlay) {
	host := newFakeHost()
	overlay := &fakeOverlay{visible: make(map[string]bool)}
	keys := data.NewKeyTable([]data.KeyBinding{
		{Key: "ArrowUp", Word: "move-up"},
		{Key: "w", Word: "move-up"},
		{Key: "ArrowDown", Word: "move-down"},
		{Key: "Escape", Word: "pause"},
		{Key: "Enter", Word: "play"},
		{Key: "m", Word: "mainmenu"},
		{Key: "x", Word: "teleport"},
	})
	m := NewMachine(host, overlay, keys, Options{Level: "test", Border: true}, zap.NewNop())
	return m, host, overlay
}

func TestStartShowsMenu(t *testing.T) {
	m, host, overlay := newTestMachine()
	if err := m.Start(); err != nil {
		t.Fatal(err)
	}
	if m.State() != StateMainMenu || !reflect.DeepEqual(m.Tags(), []string{TagMainMenu}) {
		t.Fatalf("state = %s tags = %v", m.State(), m.Tags())
	}
	if !reflect.DeepEqual(host.calls, []string{"menu"}) {
		t.Fatalf("host calls = %v", host.calls)
	}
	if !overlay.visible[RegionMenu] || overlay.visible[RegionBorder] {
		t.Fatalf("overlays = %v", overlay.visible)
	}
	if m.Open() {
		t.Fatal("gate open on the menu")
	}
}

func TestPlayShowsBorderAndOpensGate(t *testing.T) {
	m, host, overlay := newTestMachine()
	_ = m.Start()
	if err := m.KeyDown("Enter", false); err != nil {
		t.Fatal(err)
	}
	if m.State() != StatePlaying || len(m.Tags()) != 0 || !m.Open() {
		t.Fatalf("state = %s", m.State())
	}
	if host.calls[len(host.calls)-1] != "level:test" {
		t.Fatalf("host calls = %v", host.calls)
	}
	if overlay.visible[RegionMenu] || !overlay.visible[RegionBorder] {
		t.Fatalf("overlays = %v", overlay.visible)
	}
}

func TestMovementRegistersOnlyWhenOpen(t *testing.T) {
	m, host, _ := newTestMachine()
	_ = m.Start()

	_ = m.KeyDown("ArrowUp", false)
	if !host.queue.Empty() {
		t.Fatal("movement registered on the menu")
	}

	_ = m.Trigger("play")
	_ = m.KeyDown("ArrowUp", false)
	_ = m.KeyDown("ArrowUp", true)
	if got := host.queue.RecurringKeys(); !reflect.DeepEqual(got, []frame.Key{"move-up"}) {
		t.Fatalf("recurring = %v", got)
	}
	_ = host.queue.Drain()
	if !reflect.DeepEqual(host.moves, []Direction{DirUp}) {
		t.Fatalf("moves = %v", host.moves)
	}

	m.KeyUp("w") // same word as ArrowUp
	if host.queue.HasRecurring("move-up") {
		t.Fatal("key up did not cancel")
	}
}

func TestRecurringMoveIsGatedAtRunTime(t *testing.T) {
	m, host, _ := newTestMachine()
	_ = m.Trigger("play")
	_ = m.KeyDown("ArrowDown", false)

	// A restored or stray registration must not move the player on the menu.
	m.state = StateMainMenu
	_ = host.queue.Drain()
	if len(host.moves) != 0 {
		t.Fatalf("moves = %v", host.moves)
	}
}

func TestPauseProtocol(t *testing.T) {
	m, host, overlay := newTestMachine()
	_ = m.Trigger("play")
	_ = m.KeyDown("ArrowUp", false)

	if err := m.KeyDown("Escape", false); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(m.Tags(), []string{TagPause}) || !m.Paused() {
		t.Fatalf("tags = %v", m.Tags())
	}
	if !host.paused || !host.queue.Empty() || !overlay.visible[RegionPause] {
		t.Fatal("pause entry incomplete")
	}

	if err := m.KeyDown("Escape", true); err != nil {
		t.Fatal(err)
	}
	if m.State() != StatePaused {
		t.Fatal("repeat press toggled pause")
	}

	if err := m.Trigger("pause"); err != nil {
		t.Fatal(err)
	}
	if m.State() != StatePlaying || m.Paused() || host.paused || overlay.visible[RegionPause] {
		t.Fatal("pause exit incomplete")
	}
	if !host.queue.HasRecurring("move-up") {
		t.Fatal("recurring move lost")
	}
	if !host.snapshot.Consumed() {
		t.Fatal("snapshot not consumed")
	}
}

func TestPauseBlockedOutsidePlay(t *testing.T) {
	m, host, _ := newTestMachine()
	_ = m.Start()

	err := m.Trigger("pause")
	if !errors.Is(err, ErrPauseBlocked) || !IsDiagnostic(err) {
		t.Fatalf("err = %v, want ErrPauseBlocked", err)
	}
	if m.State() != StateMainMenu {
		t.Fatalf("state = %s", m.State())
	}
	for _, c := range host.calls {
		if c == "suspend" {
			t.Fatal("blocked pause suspended the host")
		}
	}
}

func TestMenuFromPauseResumesFirst(t *testing.T) {
	m, host, overlay := newTestMachine()
	_ = m.Trigger("play")
	_ = m.Trigger("pause")

	if err := m.KeyDown("m", false); err != nil {
		t.Fatal(err)
	}
	want := []string{"level:test", "suspend", "resume", "menu"}
	if !reflect.DeepEqual(host.calls, want) {
		t.Fatalf("host calls = %v, want %v", host.calls, want)
	}
	if m.State() != StateMainMenu || m.Paused() || overlay.visible[RegionPause] {
		t.Fatalf("state = %s", m.State())
	}
}

func TestPlayFromPauseResumesFirst(t *testing.T) {
	m, host, _ := newTestMachine()
	_ = m.Trigger("play")
	_ = m.Trigger("pause")
	_ = m.Trigger("play")

	want := []string{"level:test", "suspend", "resume", "level:test"}
	if !reflect.DeepEqual(host.calls, want) {
		t.Fatalf("host calls = %v", host.calls)
	}
	if m.State() != StatePlaying {
		t.Fatalf("state = %s", m.State())
	}
}

func TestUnknownTriggerIsIgnored(t *testing.T) {
	m, host, _ := newTestMachine()
	_ = m.Start()
	calls := len(host.calls)

	for _, err := range []error{
		m.Trigger("teleport"),
		m.Handle(input.Event{Kind: input.Click, Trigger: "credits"}),
		m.KeyDown("x", false),
	} {
		if !errors.Is(err, ErrUnknownTrigger) {
			t.Fatalf("err = %v, want ErrUnknownTrigger", err)
		}
	}
	if m.State() != StateMainMenu || len(host.calls) != calls {
		t.Fatal("unknown trigger changed state")
	}
	if err := m.KeyDown("F12", false); err != nil {
		t.Fatalf("unbound key: %v", err)
	}
}

func TestInstructionsOnlyFromMenu(t *testing.T) {
	m, _, overlay := newTestMachine()
	_ = m.Start()

	if err := m.Handle(input.Event{Kind: input.Click, Trigger: "instructions"}); err != nil {
		t.Fatal(err)
	}
	if m.State() != StateInstructions || !overlay.visible[RegionInstructions] || overlay.visible[RegionMenu] {
		t.Fatalf("state = %s overlays = %v", m.State(), overlay.visible)
	}

	_ = m.Trigger("play")
	if err := m.Trigger("instructions"); !errors.Is(err, ErrTriggerBlocked) {
		t.Fatalf("err = %v", err)
	}
}

func TestGameOverClearsHeldKeys(t *testing.T) {
	m, host, overlay := newTestMachine()
	_ = m.Trigger("play")
	_ = m.KeyDown("ArrowUp", false)

	if err := m.Trigger("gameover"); err != nil {
		t.Fatal(err)
	}
	if m.State() != StateGameOver || !reflect.DeepEqual(m.Tags(), []string{TagGameOver}) {
		t.Fatalf("state = %s", m.State())
	}
	if host.queue.HasRecurring("move-up") || !overlay.visible[RegionGameOver] || overlay.visible[RegionBorder] {
		t.Fatal("game over incomplete")
	}
	if err := m.Trigger("gameover"); !errors.Is(err, ErrTriggerBlocked) {
		t.Fatalf("second gameover: %v", err)
	}
	if err := m.Trigger("pause"); !errors.Is(err, ErrPauseBlocked) {
		t.Fatalf("pause on game over: %v", err)
	}
}

func TestOverlayFaultSurfaces(t *testing.T) {
	m, _, overlay := newTestMachine()
	overlay.missing = RegionPause
	_ = m.Trigger("play")

	err := m.Trigger("pause")
	if !errors.Is(err, errNoRegion) {
		t.Fatalf("err = %v, want overlay fault", err)
	}
	if IsDiagnostic(err) {
		t.Fatal("overlay fault classified as diagnostic")
	}
}

func TestLoadFailureSurfaces(t *testing.T) {
	m, host, _ := newTestMachine()
	host.loadErr = errors.New("boom")
	if err := m.Start(); !errors.Is(err, host.loadErr) {
		t.Fatalf("err = %v", err)
	}
	if m.State() != StateNone {
		t.Fatalf("state = %s after failed load", m.State())
	}
}

func TestFailedPlayKeepsMenu(t *testing.T) {
	m, host, overlay := newTestMachine()
	_ = m.Start()
	host.loadErr = errors.New("no such ability")

	if err := m.KeyDown("Enter", false); !errors.Is(err, host.loadErr) {
		t.Fatalf("err = %v", err)
	}
	if m.State() != StateMainMenu || !reflect.DeepEqual(m.Tags(), []string{TagMainMenu}) {
		t.Fatalf("state = %s tags = %v", m.State(), m.Tags())
	}
	if !overlay.visible[RegionMenu] || overlay.visible[RegionBorder] {
		t.Fatalf("overlays = %v", overlay.visible)
	}
	if err := m.Trigger("instructions"); err != nil {
		t.Fatalf("instructions after failed play: %v", err)
	}
}

func TestFailedPlayFromPauseStaysPaused(t *testing.T) {
	m, host, overlay := newTestMachine()
	_ = m.Trigger("play")
	_ = m.KeyDown("ArrowUp", false)
	_ = m.Trigger("pause")
	host.loadErr = errors.New("bad level")

	if err := m.Trigger("play"); !errors.Is(err, host.loadErr) {
		t.Fatalf("err = %v", err)
	}
	want := []string{"level:test", "suspend", "resume", "level:test", "suspend"}
	if !reflect.DeepEqual(host.calls, want) {
		t.Fatalf("host calls = %v, want %v", host.calls, want)
	}
	if m.State() != StatePaused || !m.Paused() || !host.paused || !overlay.visible[RegionPause] {
		t.Fatalf("state = %s paused = %v", m.State(), m.Paused())
	}
	if !host.queue.Empty() {
		t.Fatal("queue not suspended again")
	}

	host.loadErr = nil
	if err := m.Trigger("pause"); err != nil {
		t.Fatal(err)
	}
	if m.State() != StatePlaying || !host.queue.HasRecurring("move-up") {
		t.Fatal("held move lost across the failed load")
	}
}

func TestFailedResumeKeepsSnapshot(t *testing.T) {
	m, host, _ := newTestMachine()
	_ = m.Trigger("play")
	_ = m.KeyDown("ArrowUp", false)
	_ = m.Trigger("pause")
	host.resumeErr = errors.New("resume failed")

	if err := m.Trigger("pause"); !errors.Is(err, host.resumeErr) {
		t.Fatalf("err = %v", err)
	}
	if m.State() != StatePaused || !m.Paused() {
		t.Fatalf("state = %s paused = %v", m.State(), m.Paused())
	}

	host.resumeErr = nil
	if err := m.Trigger("pause"); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if m.State() != StatePlaying || m.Paused() || !host.queue.HasRecurring("move-up") {
		t.Fatal("retry did not resume")
	}
}

func TestQuickPauseToggleThroughAdapter(t *testing.T) {
	m, host, _ := newTestMachine()
	_ = m.Trigger("play")
	a := input.NewAdapter(550*time.Millisecond, nil, m.Holdable)
	t0 := time.Unix(0, 0)

	press := func(k tcell.Key, at time.Duration) {
		t.Helper()
		for _, ev := range a.Translate(tcell.NewEventKey(k, 0, tcell.ModNone), t0.Add(at)) {
			if err := m.Handle(ev); err != nil {
				t.Fatalf("%s: %v", ev, err)
			}
		}
	}

	press(tcell.KeyUp, 0)
	press(tcell.KeyEscape, 100*time.Millisecond)
	if m.State() != StatePaused {
		t.Fatalf("state = %s, want paused", m.State())
	}
	press(tcell.KeyEscape, 120*time.Millisecond) // auto-repeat of the held key
	if m.State() != StatePaused {
		t.Fatal("auto-repeat toggled pause")
	}
	press(tcell.KeyEscape, 400*time.Millisecond)
	if m.State() != StatePlaying {
		t.Fatalf("state = %s, second press did not resume", m.State())
	}
	if !host.queue.HasRecurring("move-up") || !a.Held("ArrowUp") {
		t.Fatal("movement key stopped being held")
	}
}
