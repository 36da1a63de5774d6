package world

import "github.com/l1jgo/arena/internal/core/ecs"

// Projectile is a moving attack: a missile stops at its first hit, a melee
// swing (pierce) hits every target it touches once.
type Projectile struct {
	id       ecs.EntityID
	name     string
	m        *Map
	vel      Vec
	ttl      int
	damage   float64
	friendly bool
	pierce   bool
	glyph    rune
	color    string
	hit      map[ecs.EntityID]struct{}
}

func (p *Projectile) ID() ecs.EntityID { return p.id }
func (p *Projectile) Name() string     { return p.name }
func (p *Projectile) Kind() Kind       { return KindProjectile }
func (p *Projectile) Glyph() rune      { return p.glyph }
func (p *Projectile) Color() string    { return p.color }
func (p *Projectile) Friendly() bool   { return p.friendly }

func (p *Projectile) Move() error {
	if !p.m.Present(p.id) {
		return nil
	}
	if p.ttl <= 0 {
		p.m.Remove(p.id)
		return nil
	}
	p.ttl--
	b, ok := p.m.bodies.Get(p.id)
	if !ok {
		return nil
	}
	b.Pos = b.Pos.Add(p.vel)
	if !p.m.InBounds(*b) {
		p.m.Remove(p.id)
	}
	return nil
}

func (p *Projectile) DoDamage() error {
	if !p.m.Present(p.id) {
		return nil
	}
	b, ok := p.m.bodies.Get(p.id)
	if !ok {
		return nil
	}
	for _, id := range p.m.Targets(*b, p.friendly) {
		if _, done := p.hit[id]; done {
			continue
		}
		p.m.Damage(id, p.damage)
		if !p.pierce {
			p.m.Remove(p.id)
			return nil
		}
		p.hit[id] = struct{}{}
	}
	return nil
}

// Explosion sits still and damages everything it covers on every tick of its
// short life.
type Explosion struct {
	id       ecs.EntityID
	name     string
	m        *Map
	ttl      int
	damage   float64
	friendly bool
	harmless bool
}

func (x *Explosion) ID() ecs.EntityID { return x.id }
func (x *Explosion) Name() string     { return x.name }
func (x *Explosion) Kind() Kind       { return KindProjectile }
func (x *Explosion) Glyph() rune      { return '#' }
func (x *Explosion) Friendly() bool   { return x.friendly }

func (x *Explosion) Color() string {
	if x.ttl%2 == 0 {
		return "orange"
	}
	return "yellow"
}

func (x *Explosion) Move() error {
	if !x.m.Present(x.id) {
		return nil
	}
	x.ttl--
	if x.ttl <= 0 {
		x.m.Remove(x.id)
	}
	return nil
}

func (x *Explosion) DoDamage() error {
	if x.harmless || !x.m.Present(x.id) {
		return nil
	}
	b, ok := x.m.bodies.Get(x.id)
	if !ok {
		return nil
	}
	for _, id := range x.m.Targets(*b, x.friendly) {
		x.m.Damage(id, x.damage)
	}
	return nil
}
