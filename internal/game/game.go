package game

import (
	"fmt"

	"github.com/l1jgo/arena/internal/config"
	"github.com/l1jgo/arena/internal/core/clock"
	"github.com/l1jgo/arena/internal/core/event"
	"github.com/l1jgo/arena/internal/core/frame"
	coresys "github.com/l1jgo/arena/internal/core/system"
	"github.com/l1jgo/arena/internal/data"
	"github.com/l1jgo/arena/internal/system"
	"github.com/l1jgo/arena/internal/ui"
	"github.com/l1jgo/arena/internal/world"
	"go.uber.org/zap"
)

// Tick handle names.
const (
	HandleFull   = "full"
	HandlePaused = "paused"
)

// Menu player settings.
const (
	menuPlayerName    = "menuplayer"
	menuPlayerColor   = "pink"
	menuPlayerAbility = "mainmenuability"
	levelPlayerKind   = "default"
)

// Context is everything one loaded level consists of. A map load builds a
// new Context; fields are never swapped one at a time.
type Context struct {
	Map    *world.Map
	Player *world.Player
	Camera *world.Camera
	Level  string
}

// Renderer draws one frame of a context.
type Renderer interface {
	Draw(ctx Context)
	Viewport() (w, h int)
}

// Sounds plays short cues.
type Sounds interface {
	Hit()
	Death()
}

// LoadRequest describes a map load. Map may be empty, in which case Seed
// picks the map when it names one and the default map is used otherwise.
type LoadRequest struct {
	PlayerName string
	PlayerKind string
	Color      string
	Ability    string
	Seed       string
	Map        string
}

// Deps holds the collaborators of a Game.
type Deps struct {
	Queue    *frame.Queue
	Timer    *clock.Timer
	Bus      *event.Bus
	Renderer Renderer
	Tables   *data.Tables
	Formulas world.Formulas
	Sounds   Sounds
	Config   config.GameConfig
	Log      *zap.Logger
}

// Game owns the simulation context, the active tick handle and the per-tick
// pipeline. Accessed only from the game loop goroutine, so no locks.
type Game struct {
	queue    *frame.Queue
	timer    *clock.Timer
	bus      *event.Bus
	renderer Renderer
	tables   *data.Tables
	formulas world.Formulas
	sounds   Sounds
	cfg      config.GameConfig
	log      *zap.Logger

	runner *coresys.Runner
	ctx    Context
	handle *clock.Handle

	onPlayerDied func() error
	logicTicks   uint64
	frames       uint64
}

func New(deps Deps) *Game {
	g := &Game{
		queue:    deps.Queue,
		timer:    deps.Timer,
		bus:      deps.Bus,
		renderer: deps.Renderer,
		tables:   deps.Tables,
		formulas: deps.Formulas,
		sounds:   deps.Sounds,
		cfg:      deps.Config,
		log:      deps.Log,
	}
	if g.queue == nil {
		g.queue = frame.NewQueue()
	}
	if g.timer == nil {
		g.timer = clock.NewTimer(g.cfg.TickRate)
	}
	if g.bus == nil {
		g.bus = event.NewBus()
	}
	if g.formulas == nil {
		g.formulas = world.StaticFormulas{}
	}
	if g.sounds == nil {
		g.sounds = silence{}
	}
	if g.log == nil {
		g.log = zap.NewNop()
	}

	g.runner = coresys.NewRunner()
	g.runner.Register(system.NewEventSystem(g.bus))
	g.runner.Register(system.NewSpawnSystem(g))
	g.runner.Register(system.NewAbilitySystem(g, g.queue))
	g.runner.Register(system.NewMovementSystem(g, g.queue))
	g.runner.Register(system.NewCombatSystem(g, g.queue))
	g.runner.Register(system.NewDrainSystem(g, g.queue, g.log))
	g.runner.Register(system.NewCameraSystem(g))

	event.Subscribe(g.bus, g.handleEntityDied)
	event.Subscribe(g.bus, g.handlePlayerHit)
	event.Subscribe(g.bus, g.handlePlayerDied)
	return g
}

// OnPlayerDied sets the hook run when the player's death is dispatched.
func (g *Game) OnPlayerDied(fn func() error) { g.onPlayerDied = fn }

// LoadMap replaces the context with a freshly built level and installs the
// full tick. Pending actions and undelivered events of the old level are
// dropped.
func (g *Game) LoadMap(req LoadRequest) error {
	tpl, err := g.tables.ResolveMap(req.Map, req.Seed)
	if err != nil {
		return fmt.Errorf("load map: %w", err)
	}
	abilityTpl, err := g.tables.Ability(req.Ability)
	if err != nil {
		return fmt.Errorf("load map %s: %w", tpl.Name, err)
	}

	// Everything that can fail happens before the running level is torn
	// down. Building a map emits nothing on the bus.
	m := world.NewMap(tpl, req.Seed, world.Deps{
		Enemies:  g.tables.Enemies,
		Formulas: g.formulas,
		Bus:      g.bus,
	})
	p := world.NewPlayer(m, req.PlayerKind, req.PlayerName, req.Color)
	ability, err := world.NewAbility(abilityTpl, p)
	if err != nil {
		return fmt.Errorf("load map %s: %w", tpl.Name, err)
	}
	p.AddAbility(ability)

	g.stopHandle()
	g.queue.Clear()
	g.bus.Reset()

	spawned := m.Spawner().SpawnInitial()

	cam := world.NewCamera(m, p)
	if g.renderer != nil {
		cam.SetViewport(g.renderer.Viewport())
	}
	if req.PlayerKind == world.PlayerMainMenu {
		// The menu backdrop follows the first enemy around.
		if ents := m.Entities(); len(ents) > 1 {
			cam.FollowNewEntity(ents[1])
		}
	}
	cam.Follow()

	g.ctx = Context{Map: m, Player: p, Camera: cam, Level: tpl.Name}
	g.handle = g.timer.Start(HandleFull, g.Tick)

	g.log.Info("map loaded",
		zap.String("map", tpl.Name),
		zap.String("seed", req.Seed),
		zap.String("player", req.PlayerName),
		zap.String("ability", req.Ability),
		zap.Int("spawned", spawned),
	)
	return nil
}

// LoadMenu loads the menu backdrop with its AI player.
func (g *Game) LoadMenu() error {
	return g.LoadMap(LoadRequest{
		PlayerName: menuPlayerName,
		PlayerKind: world.PlayerMainMenu,
		Color:      menuPlayerColor,
		Ability:    menuPlayerAbility,
		Seed:       g.cfg.MenuSeed,
	})
}

// LoadLevel loads a playable level with the configured player.
func (g *Game) LoadLevel(name string) error {
	if name == "" {
		name = g.cfg.DefaultLevel
	}
	return g.LoadMap(LoadRequest{
		PlayerName: g.cfg.PlayerName,
		PlayerKind: levelPlayerKind,
		Color:      g.cfg.PlayerColor,
		Ability:    g.cfg.PlayerAbility,
		Seed:       name,
	})
}

// Suspend moves the queue contents into a snapshot and swaps the full tick
// for one that only renders.
func (g *Game) Suspend() *frame.Snapshot {
	s := g.queue.Snapshot()
	g.handle = g.timer.Start(HandlePaused, g.PausedTick)
	return s
}

// Resume restores a snapshot taken by Suspend and reinstalls the full tick.
func (g *Game) Resume(s *frame.Snapshot) error {
	if err := g.queue.Restore(s); err != nil {
		return fmt.Errorf("resume: %w", err)
	}
	g.handle = g.timer.Start(HandleFull, g.Tick)
	return nil
}

// Tick runs the logic pipeline and draws the result.
func (g *Game) Tick() {
	g.logicStep()
	g.drawFrame()
}

// PausedTick only draws.
func (g *Game) PausedTick() {
	g.drawFrame()
}

func (g *Game) logicStep() {
	if g.ctx.Map == nil {
		return
	}
	g.logicTicks++
	g.runner.Tick()
}

func (g *Game) drawFrame() {
	if g.renderer == nil || g.ctx.Map == nil {
		return
	}
	g.frames++
	g.renderer.Draw(g.ctx)
}

func (g *Game) stopHandle() {
	g.handle.Stop()
	g.timer.Stop()
	g.handle = nil
}

func (g *Game) Queue() *frame.Queue { return g.queue }
func (g *Game) Context() Context    { return g.ctx }

// Handle returns the tick handle installed by the game, or nil.
func (g *Game) Handle() *clock.Handle { return g.handle }

// LogicTicks returns how many ticks ran the logic pipeline.
func (g *Game) LogicTicks() uint64 { return g.logicTicks }

// Frames returns how many frames were drawn.
func (g *Game) Frames() uint64 { return g.frames }

// Scene implementation for the pipeline stages.
func (g *Game) Map() *world.Map       { return g.ctx.Map }
func (g *Game) Player() *world.Player { return g.ctx.Player }
func (g *Game) Camera() *world.Camera { return g.ctx.Camera }

// Mover returns the action that steps the current player one tick in d.
func (g *Game) Mover(d ui.Direction) frame.Action {
	dx, dy := d.Delta()
	return moveAction{g: g, dir: world.Vec{X: dx, Y: dy}}
}

type moveAction struct {
	g   *Game
	dir world.Vec
}

func (a moveAction) Run() error {
	p := a.g.ctx.Player
	if p == nil || p.Demo() {
		return nil
	}
	return p.Move(a.dir)
}

type silence struct{}

func (silence) Hit()   {}
func (silence) Death() {}
