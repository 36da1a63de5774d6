package game

import (
	"errors"
	"testing"

	"github.com/l1jgo/arena/internal/config"
	"github.com/l1jgo/arena/internal/core/clock"
	"github.com/l1jgo/arena/internal/core/frame"
	"github.com/l1jgo/arena/internal/data"
	"github.com/l1jgo/arena/internal/ui"
	"github.com/l1jgo/arena/internal/world"
	"go.uber.org/zap"
)

type fakeRenderer struct {
	draws int
	last  Context
}

func (r *fakeRenderer) Draw(ctx Context)     { r.draws++; r.last = ctx }
func (r *fakeRenderer) Viewport() (int, int) { return 80, 24 }

type fakeOverlay struct {
	visible map[string]bool
}

func (o *fakeOverlay) Show(region string) error { o.visible[region] = true; return nil }
func (o *fakeOverlay) Hide(region string) error { o.visible[region] = false; return nil }

type countingSounds struct{ hits, deaths int }

func (s *countingSounds) Hit()   { s.hits++ }
func (s *countingSounds) Death() { s.deaths++ }

func testTables(t *testing.T) *data.Tables {
	t.Helper()
	maps, err := data.NewMapTable([]data.MapTemplate{
		{Name: "test", Width: 40, Height: 20, Enemies: []string{"grunt"}},
		{Name: "mainmenu", Width: 40, Height: 20, InitialSpawn: 2, Enemies: []string{"grunt"}, Demo: true},
	})
	if err != nil {
		t.Fatal(err)
	}
	abilities, err := data.NewAbilityTable([]data.AbilityTemplate{
		{Name: "missile", Kind: data.AbilityMissile, Cooldown: 10, Damage: 10, Range: 20, Speed: 1, Duration: 30},
		{Name: "ranged", Kind: data.AbilityMissile, Cooldown: 20, Damage: 5, Range: 40, Speed: 2, Duration: 30},
		{Name: "melee", Kind: data.AbilityMelee, Cooldown: 5, Damage: 20, Range: 3, Speed: 1, Duration: 2, Size: 2},
		{Name: "mainmenuability", Kind: data.AbilityExplosion, Cooldown: 10, Range: 100, Duration: 6, Size: 5, Harmless: true},
	})
	if err != nil {
		t.Fatal(err)
	}
	return &data.Tables{
		Maps: maps,
		Enemies: data.NewEnemyTable([]data.EnemyTemplate{
			{Name: "grunt", Glyph: "g", Color: "red", Health: 30, Damage: 5, Speed: 0.1, Cooldown: 30},
		}),
		Abilities: abilities,
		Keys: data.NewKeyTable([]data.KeyBinding{
			{Key: "ArrowUp", Word: "move-up"},
			{Key: "ArrowLeft", Word: "move-left"},
			{Key: "Escape", Word: "pause"},
			{Key: "Enter", Word: "play"},
			{Key: "m", Word: "mainmenu"},
		}),
	}
}

type harness struct {
	game     *Game
	machine  *ui.Machine
	timer    *clock.Timer
	renderer *fakeRenderer
	overlay  *fakeOverlay
	sounds   *countingSounds
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	tables := testTables(t)
	h := &harness{
		timer:    clock.NewTimer(0),
		renderer: &fakeRenderer{},
		overlay:  &fakeOverlay{visible: make(map[string]bool)},
		sounds:   &countingSounds{},
	}
	h.game = New(Deps{
		Queue:    frame.NewQueue(),
		Timer:    h.timer,
		Renderer: h.renderer,
		Tables:   tables,
		Sounds:   h.sounds,
		Config: config.GameConfig{
			DefaultLevel:  "test",
			MenuSeed:      "mainmenu",
			PlayerName:    "John",
			PlayerColor:   "orange",
			PlayerAbility: "missile",
		},
		Log: zap.NewNop(),
	})
	h.machine = ui.NewMachine(h.game, h.overlay, tables.Keys, ui.Options{Level: "test", Border: true}, zap.NewNop())
	h.game.OnPlayerDied(func() error { return h.machine.Trigger("gameover") })
	return h
}

func (h *harness) playerPos(t *testing.T) world.Vec {
	t.Helper()
	ctx := h.game.Context()
	b, ok := ctx.Map.Body(ctx.Player.ID())
	if !ok {
		t.Fatal("player has no body")
	}
	return b.Pos
}

func TestLoadMapResetsContext(t *testing.T) {
	h := newHarness(t)
	g := h.game

	if err := g.LoadMap(LoadRequest{PlayerName: "A", Color: "red", Ability: "melee", Seed: "seed1"}); err != nil {
		t.Fatal(err)
	}
	first := g.Context()
	firstHandle := g.Handle()
	oldEnts := first.Map.Entities()
	g.Queue().Enqueue(frame.Func(func() error {
		t.Error("action from the first map ran")
		return nil
	}))

	if err := g.LoadMap(LoadRequest{PlayerName: "B", Color: "blue", Ability: "ranged", Seed: "seed2"}); err != nil {
		t.Fatal(err)
	}
	ctx := g.Context()

	if !firstHandle.Stopped() {
		t.Fatal("first tick handle still running")
	}
	if h.timer.Active() != g.Handle() || g.Handle().Stopped() || g.Handle().Name() != HandleFull {
		t.Fatal("expected exactly one active full tick handle")
	}
	if ctx.Player.Name() != "B" {
		t.Fatalf("player = %q, want B", ctx.Player.Name())
	}
	if ctx.Map == first.Map || ctx.Camera == first.Camera {
		t.Fatal("context was not rebuilt")
	}
	for _, e := range ctx.Map.Entities() {
		for _, old := range oldEnts {
			if e == old {
				t.Fatalf("entity %s survived the reload", e.Name())
			}
		}
	}

	h.timer.Fire()
	if g.LogicTicks() != 1 {
		t.Fatalf("logic ticks = %d", g.LogicTicks())
	}
}

func TestLoadMapFailureKeepsRunningLevel(t *testing.T) {
	h := newHarness(t)
	if err := h.game.LoadLevel("test"); err != nil {
		t.Fatal(err)
	}
	handle := h.game.Handle()

	err := h.game.LoadMap(LoadRequest{PlayerName: "A", Ability: "laser", Seed: "test"})
	if !errors.Is(err, data.ErrUnknownAbility) {
		t.Fatalf("err = %v, want ErrUnknownAbility", err)
	}
	if handle.Stopped() || h.timer.Active() != handle {
		t.Fatal("failed load stopped the running level")
	}

	err = h.game.LoadMap(LoadRequest{PlayerName: "A", Ability: "missile", Map: "nowhere"})
	if !errors.Is(err, data.ErrUnknownMap) {
		t.Fatalf("err = %v, want ErrUnknownMap", err)
	}
}

func TestLoadMapBuildsLevelBeforeTeardown(t *testing.T) {
	h := newHarness(t)
	if err := h.game.LoadLevel("test"); err != nil {
		t.Fatal(err)
	}
	handle := h.game.Handle()
	ctx := h.game.Context()
	h.game.Queue().EnqueueRecurring("old-level", frame.Func(func() error { return nil }))

	// A template whose kind no longer matches what the world can build.
	h.game.tables.Abilities.Get("ranged").Kind = "beam"
	err := h.game.LoadMap(LoadRequest{PlayerName: "A", Ability: "ranged", Seed: "test"})
	if !errors.Is(err, data.ErrUnknownAbility) {
		t.Fatalf("err = %v, want ErrUnknownAbility", err)
	}
	if handle.Stopped() || h.timer.Active() != handle {
		t.Fatal("failed load stopped the running level")
	}
	if h.game.Context().Map != ctx.Map || !h.game.Queue().HasRecurring("old-level") {
		t.Fatal("failed load tore down the running level")
	}
}

func TestFailedPlayKeepsMachineState(t *testing.T) {
	h := newHarness(t)
	h.game.cfg.PlayerAbility = "laser"
	if err := h.machine.Start(); err != nil {
		t.Fatal(err)
	}

	err := h.machine.Trigger("play")
	if !errors.Is(err, data.ErrUnknownAbility) {
		t.Fatalf("err = %v, want ErrUnknownAbility", err)
	}
	if h.machine.State() != ui.StateMainMenu {
		t.Fatalf("state = %s, want mainmenu", h.machine.State())
	}
	if tags := h.machine.Tags(); len(tags) != 1 || tags[0] != ui.TagMainMenu {
		t.Fatalf("tags = %v", tags)
	}
	if h.game.Context().Level != "mainmenu" || !h.overlay.visible[ui.RegionMenu] {
		t.Fatal("menu level or overlay lost")
	}
	if err := h.machine.Trigger("instructions"); err != nil {
		t.Fatalf("instructions after failed play: %v", err)
	}
}

func TestFailedPlayWhilePausedStaysPaused(t *testing.T) {
	h := newHarness(t)
	g, m := h.game, h.machine
	_ = m.Trigger("play")
	_ = m.KeyDown("ArrowUp", false)
	_ = m.Trigger("pause")

	g.cfg.PlayerAbility = "laser"
	if err := m.Trigger("play"); !errors.Is(err, data.ErrUnknownAbility) {
		t.Fatalf("err = %v", err)
	}
	if m.State() != ui.StatePaused || !m.Paused() {
		t.Fatalf("state = %s", m.State())
	}
	if h.timer.Active() == nil || h.timer.Active().Name() != HandlePaused {
		t.Fatal("render-only handle not active after failed load")
	}

	if err := m.Trigger("pause"); err != nil {
		t.Fatal(err)
	}
	if !g.Queue().HasRecurring("move-up") || h.timer.Active().Name() != HandleFull {
		t.Fatal("resume after failed load incomplete")
	}
}

func TestLoadMenuFollowsFirstEnemy(t *testing.T) {
	h := newHarness(t)
	if err := h.machine.Start(); err != nil {
		t.Fatal(err)
	}
	ctx := h.game.Context()
	if ctx.Level != "mainmenu" || !ctx.Player.Demo() {
		t.Fatalf("level = %s demo = %v", ctx.Level, ctx.Player.Demo())
	}
	ents := ctx.Map.Entities()
	if len(ents) < 2 || ctx.Camera.Target() != ents[1] {
		t.Fatal("menu camera does not follow the first spawned entity")
	}
	if !h.overlay.visible[ui.RegionMenu] || h.overlay.visible[ui.RegionBorder] {
		t.Fatalf("overlays = %v", h.overlay.visible)
	}
}

func TestPauseResumeScenario(t *testing.T) {
	h := newHarness(t)
	g, m := h.game, h.machine

	if err := m.Trigger("play"); err != nil {
		t.Fatal(err)
	}
	if len(m.Tags()) != 0 {
		t.Fatalf("tags = %v", m.Tags())
	}
	if err := m.KeyDown("ArrowUp", false); err != nil {
		t.Fatal(err)
	}
	if !g.Queue().HasRecurring("move-up") {
		t.Fatal("move-up not registered")
	}
	start := h.playerPos(t)

	if err := m.Trigger("pause"); err != nil {
		t.Fatal(err)
	}
	if tags := m.Tags(); len(tags) != 1 || tags[0] != ui.TagPause {
		t.Fatalf("tags = %v, want [pause]", tags)
	}
	if !g.Queue().Empty() {
		t.Fatal("queue not cleared on pause")
	}
	if h.timer.Active() == nil || h.timer.Active().Name() != HandlePaused {
		t.Fatal("degraded tick handle not installed")
	}

	draws := h.renderer.draws
	for i := 0; i < 5; i++ {
		h.timer.Fire()
	}
	if h.renderer.draws != draws+5 {
		t.Fatalf("draws while paused = %d, want 5", h.renderer.draws-draws)
	}
	if g.LogicTicks() != 0 {
		t.Fatalf("logic pipeline ran %d times while paused", g.LogicTicks())
	}
	if h.playerPos(t) != start {
		t.Fatal("player moved while paused")
	}

	if err := m.Trigger("pause"); err != nil {
		t.Fatal(err)
	}
	if len(m.Tags()) != 0 {
		t.Fatalf("tags after resume = %v", m.Tags())
	}
	if !g.Queue().HasRecurring("move-up") {
		t.Fatal("move-up lost across pause")
	}
	if h.timer.Active() == nil || h.timer.Active().Name() != HandleFull {
		t.Fatal("full tick handle not restored")
	}

	h.timer.Fire()
	if g.LogicTicks() != 1 {
		t.Fatalf("logic ticks = %d", g.LogicTicks())
	}
	if got := h.playerPos(t); got.Y != start.Y-0.5 || got.X != start.X {
		t.Fatalf("player at %v, want one step up from %v", got, start)
	}
}

func TestMovementGatedOutsidePlay(t *testing.T) {
	h := newHarness(t)
	g, m := h.game, h.machine

	if err := m.Start(); err != nil {
		t.Fatal(err)
	}
	_ = m.KeyDown("ArrowUp", false)
	if !g.Queue().Empty() {
		t.Fatal("movement registered on the main menu")
	}

	if err := m.Trigger("play"); err != nil {
		t.Fatal(err)
	}
	start := h.playerPos(t)
	if err := m.Trigger("pause"); err != nil {
		t.Fatal(err)
	}
	_ = m.KeyDown("ArrowLeft", false)
	if !g.Queue().Empty() {
		t.Fatal("movement registered while paused")
	}
	if err := m.Trigger("pause"); err != nil {
		t.Fatal(err)
	}
	if g.Queue().HasRecurring("move-left") {
		t.Fatal("gated key surfaced after resume")
	}
	h.timer.Fire()
	if h.playerPos(t) != start {
		t.Fatal("player moved from gated input")
	}
}

func TestKeyReleasedWhilePaused(t *testing.T) {
	h := newHarness(t)
	g, m := h.game, h.machine

	_ = m.Trigger("play")
	_ = m.KeyDown("ArrowUp", false)
	start := h.playerPos(t)

	_ = m.Trigger("pause")
	m.KeyUp("ArrowUp")
	_ = m.Trigger("pause")

	if g.Queue().HasRecurring("move-up") {
		t.Fatal("released key still registered after resume")
	}
	h.timer.Fire()
	if h.playerPos(t) != start {
		t.Fatal("player kept moving after release")
	}
}

func TestPlayerDeathRaisesGameOver(t *testing.T) {
	h := newHarness(t)
	g, m := h.game, h.machine

	_ = m.Trigger("play")
	_ = m.KeyDown("ArrowUp", false)
	ctx := g.Context()
	ctx.Map.Damage(ctx.Player.ID(), 1000)

	h.timer.Fire() // death handler runs, event queued
	if m.State() != ui.StatePlaying {
		t.Fatalf("state = %s before the event is delivered", m.State())
	}
	h.timer.Fire() // event delivered
	if m.State() != ui.StateGameOver {
		t.Fatalf("state = %s, want gameover", m.State())
	}
	if !ctx.Player.Dead() || !h.overlay.visible[ui.RegionGameOver] {
		t.Fatal("game over not shown")
	}
	if g.Queue().HasRecurring("move-up") {
		t.Fatal("held keys survive game over")
	}
	if h.sounds.hits != 1 || h.sounds.deaths != 1 {
		t.Fatalf("sounds = %+v", *h.sounds)
	}
}

func TestStageOrderWithinTick(t *testing.T) {
	h := newHarness(t)
	g := h.game
	if err := g.LoadLevel("test"); err != nil {
		t.Fatal(err)
	}
	ctx := g.Context()

	var order []string
	g.Queue().EnqueueRecurring("tracer", frame.Func(func() error {
		order = append(order, "recurring")
		return nil
	}))
	g.Queue().Enqueue(frame.Func(func() error {
		order = append(order, "queued-before-tick")
		return nil
	}))
	before := ctx.Map.Len()

	h.timer.Fire()

	if len(order) != 2 || order[0] != "recurring" || order[1] != "queued-before-tick" {
		t.Fatalf("order = %v", order)
	}
	if ctx.Map.Len() != before {
		t.Fatalf("entities changed on an empty level: %d -> %d", before, ctx.Map.Len())
	}
	if !g.Queue().HasRecurring("tracer") || g.Queue().Len() != 0 {
		t.Fatal("drain did not keep recurring and clear one-shots")
	}
}
