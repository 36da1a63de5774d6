package world

import "github.com/l1jgo/arena/internal/core/ecs"

// Kind is a bit set of capability tags.
type Kind uint8

const (
	KindPlayer Kind = 1 << iota
	KindEnemy
	KindProjectile
)

func (k Kind) Has(f Kind) bool { return k&f != 0 }

// Entity is anything placed on a Map.
type Entity interface {
	ID() ecs.EntityID
	Name() string
	Kind() Kind
	Glyph() rune
	Color() string
}

// Mover advances itself by one tick.
type Mover interface {
	Entity
	Move() error
}

// Damager applies its damage to whatever it overlaps.
type Damager interface {
	Entity
	DoDamage() error
}

// Collider hurts the player on contact.
type Collider interface {
	Entity
	PlayerCollision() error
}

// Mortal cleans up after its health reaches zero.
type Mortal interface {
	Entity
	OnDeath() error
}

// Formulas supplies the tunable numbers; scripting.Engine implements it.
type Formulas interface {
	ProjectileDamage(base, ownerDamage float64) float64
	ExplosionDamage(ownerDamage float64) float64
	CollisionDamage(enemyDamage float64) float64
	SpawnCount(live, max, wave int) int
}

// StaticFormulas mirrors the built-in scripts without a Lua VM.
type StaticFormulas struct{}

func (StaticFormulas) ProjectileDamage(base, ownerDamage float64) float64 {
	return base + ownerDamage*0.5
}

func (StaticFormulas) ExplosionDamage(ownerDamage float64) float64 { return ownerDamage / 15 }

func (StaticFormulas) CollisionDamage(enemyDamage float64) float64 { return enemyDamage }

func (StaticFormulas) SpawnCount(live, max, wave int) int {
	if live >= max {
		return 0
	}
	n := 1 + wave/5
	if live+n > max {
		n = max - live
	}
	return n
}
