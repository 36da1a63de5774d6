package world

import (
	"math"

	"github.com/l1jgo/arena/internal/core/ecs"
	"github.com/l1jgo/arena/internal/core/event"
	"github.com/l1jgo/arena/internal/data"
)

const wanderTicks = 60

// Enemy chases the player, or wanders on demo maps and once the player is dead.
type Enemy struct {
	id       ecs.EntityID
	tpl      *data.EnemyTemplate
	m        *Map
	cooldown int
	heading  Vec
	wander   int
}

// NewEnemy places an enemy with its top-left corner at pos.
func NewEnemy(m *Map, tpl *data.EnemyTemplate, pos Vec) *Enemy {
	e := &Enemy{id: m.newID(), tpl: tpl, m: m}
	m.add(e, Body{Pos: pos, W: tpl.Width, H: tpl.Height}, &Health{HP: tpl.Health, Max: tpl.Health})
	return e
}

func (e *Enemy) ID() ecs.EntityID { return e.id }
func (e *Enemy) Name() string     { return e.tpl.Name }
func (e *Enemy) Kind() Kind       { return KindEnemy }
func (e *Enemy) Color() string    { return e.tpl.Color }

func (e *Enemy) Glyph() rune {
	for _, r := range e.tpl.Glyph {
		return r
	}
	return 'e'
}

func (e *Enemy) Move() error {
	b, ok := e.m.bodies.Get(e.id)
	if !ok {
		return nil
	}
	var dir Vec
	if p := e.m.player; p != nil && !p.dead && !e.m.Demo() {
		dir = p.Center().Sub(b.Center()).Norm()
	} else {
		dir = e.wanderHeading()
	}
	b.Pos = b.Pos.Add(dir.Scale(e.tpl.Speed))

	// Bounce off the edges so wanderers stay in view.
	before := b.Pos
	e.m.clamp(b)
	if b.Pos != before {
		e.wander = 0
	}
	return nil
}

func (e *Enemy) wanderHeading() Vec {
	if e.wander <= 0 {
		angle := e.m.rng.Float64() * 2 * math.Pi
		e.heading = Vec{math.Cos(angle), math.Sin(angle)}
		e.wander = wanderTicks
	}
	e.wander--
	return e.heading
}

// PlayerCollision hurts the player on overlap, at most once per cooldown.
func (e *Enemy) PlayerCollision() error {
	if e.cooldown > 0 {
		e.cooldown--
		return nil
	}
	p := e.m.player
	if p == nil || p.dead {
		return nil
	}
	b, ok := e.m.bodies.Get(e.id)
	if !ok {
		return nil
	}
	pb, ok := e.m.bodies.Get(p.id)
	if !ok || !b.Overlaps(*pb) {
		return nil
	}
	e.m.Damage(p.id, e.m.deps.Formulas.CollisionDamage(e.tpl.Damage))
	e.cooldown = e.tpl.Cooldown
	return nil
}

// OnDeath removes the enemy and credits the player.
func (e *Enemy) OnDeath() error {
	if !e.m.Present(e.id) {
		return nil
	}
	e.m.Remove(e.id)
	if p := e.m.player; p != nil {
		p.kills++
	}
	emit(e.m, event.EntityDied{EntityID: e.id, Name: e.tpl.Name, Enemy: true})
	return nil
}
