package world

import (
	"github.com/l1jgo/arena/internal/core/ecs"
	"github.com/l1jgo/arena/internal/core/event"
)

// PlayerMainMenu is the player kind used on the menu backdrop: it has no
// health and is never steered by input.
const PlayerMainMenu = "mainmenu"

const (
	playerHealth = 100
	playerDamage = 30
	playerSpeed  = 0.5
)

// Player is the entity steered by input. Accessed only from the game loop.
type Player struct {
	id        ecs.EntityID
	name      string
	color     string
	demo      bool
	m         *Map
	abilities []Ability
	facing    Vec
	dead      bool
	kills     int
}

// NewPlayer creates the player at the map centre and registers it as the
// map's player.
func NewPlayer(m *Map, kind, name, color string) *Player {
	p := &Player{
		id:     m.newID(),
		name:   name,
		color:  color,
		demo:   kind == PlayerMainMenu,
		m:      m,
		facing: Vec{X: 1},
	}
	body := Body{Pos: Vec{m.Width()/2 - 0.5, m.Height()/2 - 0.5}, W: 1, H: 1}
	var hp *Health
	if !p.demo {
		hp = &Health{HP: playerHealth, Max: playerHealth}
	}
	m.add(p, body, hp)
	m.player = p
	return p
}

func (p *Player) ID() ecs.EntityID { return p.id }
func (p *Player) Name() string     { return p.name }
func (p *Player) Kind() Kind       { return KindPlayer }
func (p *Player) Glyph() rune      { return '@' }
func (p *Player) Color() string    { return p.color }

func (p *Player) Demo() bool           { return p.demo }
func (p *Player) Dead() bool           { return p.dead }
func (p *Player) Kills() int           { return p.kills }
func (p *Player) Damage() float64      { return playerDamage }
func (p *Player) Abilities() []Ability { return p.abilities }

func (p *Player) AddAbility(a Ability) {
	p.abilities = append(p.abilities, a)
}

// Health returns current and max health; ok is false for the menu player.
func (p *Player) Health() (hp, max float64, ok bool) {
	h, ok := p.m.healths.Get(p.id)
	if !ok {
		return 0, 0, false
	}
	return h.HP, h.Max, true
}

func (p *Player) Center() Vec {
	b, _ := p.m.bodies.Get(p.id)
	return b.Center()
}

// Move steps the player one tick in dir, clamped to the map.
func (p *Player) Move(dir Vec) error {
	if p.dead || dir.IsZero() {
		return nil
	}
	b, ok := p.m.bodies.Get(p.id)
	if !ok {
		return nil
	}
	b.Pos = b.Pos.Add(dir.Norm().Scale(playerSpeed))
	p.m.clamp(b)
	p.facing = dir.Norm()
	return nil
}

// OnDeath marks the player dead once and announces it.
func (p *Player) OnDeath() error {
	if p.dead {
		return nil
	}
	p.dead = true
	emit(p.m, event.PlayerDied{Name: p.name})
	return nil
}
