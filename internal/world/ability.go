package world

import (
	"fmt"

	"github.com/l1jgo/arena/internal/core/ecs"
	"github.com/l1jgo/arena/internal/data"
)

// Ability is something the player fires automatically every tick it is ready.
type Ability interface {
	Name() string
	Activate() error
}

// NewAbility builds the ability described by tpl for owner.
func NewAbility(tpl *data.AbilityTemplate, owner *Player) (Ability, error) {
	base := abilityBase{tpl: tpl, owner: owner}
	switch tpl.Kind {
	case data.AbilityMissile:
		return &missileAbility{base}, nil
	case data.AbilityExplosion:
		return &explosionAbility{base}, nil
	case data.AbilityMelee:
		return &meleeAbility{base}, nil
	}
	return nil, fmt.Errorf("ability %q: %w kind %q", tpl.Name, data.ErrUnknownAbility, tpl.Kind)
}

type abilityBase struct {
	tpl      *data.AbilityTemplate
	owner    *Player
	cooldown int
	fired    int
}

func (a *abilityBase) Name() string { return a.tpl.Name }

// target ticks the cooldown and, when ready, returns the enemy to fire at.
func (a *abilityBase) target() (Entity, Vec, bool) {
	if a.owner.dead {
		return nil, Vec{}, false
	}
	if a.cooldown > 0 {
		a.cooldown--
		return nil, Vec{}, false
	}
	m := a.owner.m
	e, ok := m.NearestEnemy(a.owner.Center(), a.tpl.Range)
	if !ok {
		return nil, Vec{}, false
	}
	b, _ := m.bodies.Get(e.ID())
	a.cooldown = a.tpl.Cooldown
	a.fired++
	return e, b.Center(), true
}

func (a *abilityBase) spawnProjectile(dir Vec, damage float64, pierce bool, glyph rune) {
	m := a.owner.m
	size := a.tpl.Size
	center := a.owner.Center()
	p := &Projectile{
		id:       m.newID(),
		name:     fmt.Sprintf("%s-%s%d", a.owner.name, a.tpl.Name, a.fired),
		m:        m,
		vel:      dir.Norm().Scale(a.tpl.Speed),
		ttl:      a.tpl.Duration,
		damage:   damage,
		friendly: true,
		pierce:   pierce,
		glyph:    glyph,
		color:    a.owner.color,
		hit:      make(map[ecs.EntityID]struct{}),
	}
	m.add(p, Body{Pos: Vec{center.X - size/2, center.Y - size/2}, W: size, H: size}, nil)
}

type missileAbility struct{ abilityBase }

func (a *missileAbility) Activate() error {
	_, at, ok := a.target()
	if !ok {
		return nil
	}
	dmg := a.owner.m.deps.Formulas.ProjectileDamage(a.tpl.Damage, a.owner.Damage())
	a.spawnProjectile(at.Sub(a.owner.Center()), dmg, false, '*')
	return nil
}

type meleeAbility struct{ abilityBase }

func (a *meleeAbility) Activate() error {
	_, at, ok := a.target()
	if !ok {
		return nil
	}
	dmg := a.owner.m.deps.Formulas.ProjectileDamage(a.tpl.Damage, a.owner.Damage())
	dir := at.Sub(a.owner.Center())
	if dir.IsZero() {
		dir = a.owner.facing
	}
	a.spawnProjectile(dir, dmg, true, '/')
	return nil
}

const explosionScatter = 5

type explosionAbility struct{ abilityBase }

// Activate drops an explosion on the nearest enemy, scattered a few cells.
func (a *explosionAbility) Activate() error {
	_, at, ok := a.target()
	if !ok {
		return nil
	}
	m := a.owner.m
	at.X += m.rng.Float64() * explosionScatter * randomSign(m)
	at.Y += m.rng.Float64() * explosionScatter * randomSign(m)

	size := a.tpl.Size
	x := &Explosion{
		id:       m.newID(),
		name:     fmt.Sprintf("%s-explosion%d", a.owner.name, a.fired),
		m:        m,
		ttl:      a.tpl.Duration,
		damage:   m.deps.Formulas.ExplosionDamage(a.owner.Damage()),
		friendly: true,
		harmless: a.tpl.Harmless,
	}
	m.add(x, Body{Pos: Vec{at.X - size/2, at.Y - size/2}, W: size, H: size}, nil)
	return nil
}

func randomSign(m *Map) float64 {
	if m.rng.Float64() > 0.5 {
		return -1
	}
	return 1
}
