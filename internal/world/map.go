package world

import (
	"hash/fnv"
	"math/rand"
	"sort"

	"github.com/l1jgo/arena/internal/core/ecs"
	"github.com/l1jgo/arena/internal/core/event"
	"github.com/l1jgo/arena/internal/data"
)

// Deps are the collaborators a Map hands to the entities it creates.
type Deps struct {
	Enemies  *data.EnemyTable
	Formulas Formulas
	Bus      *event.Bus // optional
}

// Map owns every entity of one loaded level. A new Map is built on every
// level load; nothing carries over.
// Accessed only from the game loop goroutine, so no locks.
type Map struct {
	tpl  *data.MapTemplate
	seed string
	deps Deps
	rng  *rand.Rand

	world    *ecs.World
	bodies   *ecs.Store[Body]
	healths  *ecs.Store[Health]
	entities map[ecs.EntityID]Entity
	order    []ecs.EntityID

	player  *Player
	spawner *Spawner
}

// NewMap creates an empty map. The seed drives every random choice made on it.
func NewMap(tpl *data.MapTemplate, seed string, deps Deps) *Map {
	if deps.Formulas == nil {
		deps.Formulas = StaticFormulas{}
	}
	m := &Map{
		tpl:      tpl,
		seed:     seed,
		deps:     deps,
		rng:      rand.New(rand.NewSource(seedValue(seed))),
		world:    ecs.NewWorld(),
		bodies:   ecs.NewStore[Body](),
		healths:  ecs.NewStore[Health](),
		entities: make(map[ecs.EntityID]Entity, 64),
		order:    make([]ecs.EntityID, 0, 64),
	}
	m.world.Register(m.bodies)
	m.world.Register(m.healths)
	m.spawner = &Spawner{m: m}
	return m
}

func seedValue(seed string) int64 {
	h := fnv.New64a()
	h.Write([]byte(seed))
	return int64(h.Sum64())
}

func (m *Map) Name() string                { return m.tpl.Name }
func (m *Map) Seed() string                { return m.seed }
func (m *Map) Width() float64              { return m.tpl.Width }
func (m *Map) Height() float64             { return m.tpl.Height }
func (m *Map) Demo() bool                  { return m.tpl.Demo }
func (m *Map) Template() *data.MapTemplate { return m.tpl }
func (m *Map) Player() *Player             { return m.player }
func (m *Map) Spawner() *Spawner           { return m.spawner }
func (m *Map) Formulas() Formulas          { return m.deps.Formulas }
func (m *Map) Rand() *rand.Rand            { return m.rng }

// Entities returns the live entities in insertion order. Entities marked for
// removal are left out.
func (m *Map) Entities() []Entity {
	out := make([]Entity, 0, len(m.order))
	for _, id := range m.order {
		if m.world.Marked(id) {
			continue
		}
		out = append(out, m.entities[id])
	}
	return out
}

// Len returns the number of entities, including those marked for removal.
func (m *Map) Len() int { return len(m.order) }

// Count returns the number of live entities carrying kind.
func (m *Map) Count(kind Kind) int {
	n := 0
	for _, e := range m.Entities() {
		if e.Kind().Has(kind) {
			n++
		}
	}
	return n
}

func (m *Map) Entity(id ecs.EntityID) (Entity, bool) {
	e, ok := m.entities[id]
	return e, ok
}

// Present reports whether id is on the map and not marked for removal.
func (m *Map) Present(id ecs.EntityID) bool {
	_, ok := m.entities[id]
	return ok && !m.world.Marked(id)
}

func (m *Map) Body(id ecs.EntityID) (*Body, bool)     { return m.bodies.Get(id) }
func (m *Map) Health(id ecs.EntityID) (*Health, bool) { return m.healths.Get(id) }

func (m *Map) newID() ecs.EntityID { return m.world.CreateEntity() }

// add places e on the map. hp may be nil for entities without health.
func (m *Map) add(e Entity, body Body, hp *Health) {
	id := e.ID()
	m.clamp(&body)
	m.bodies.Set(id, &body)
	if hp != nil {
		m.healths.Set(id, hp)
	}
	m.entities[id] = e
	m.order = append(m.order, id)
}

// Remove marks id for removal; it disappears at the next FlushDestroyed.
func (m *Map) Remove(id ecs.EntityID) {
	m.world.MarkForDestruction(id)
}

// FlushDestroyed drops every entity marked for removal and returns how many
// were dropped.
func (m *Map) FlushDestroyed() int {
	ids := m.world.FlushDestroyQueue()
	if len(ids) == 0 {
		return 0
	}
	for _, id := range ids {
		delete(m.entities, id)
	}
	kept := m.order[:0]
	for _, id := range m.order {
		if _, ok := m.entities[id]; ok {
			kept = append(kept, id)
		}
	}
	m.order = kept
	return len(ids)
}

// InBounds reports whether b lies at least partly inside the map.
func (m *Map) InBounds(b Body) bool {
	return b.Pos.X+b.W > 0 && b.Pos.Y+b.H > 0 && b.Pos.X < m.tpl.Width && b.Pos.Y < m.tpl.Height
}

func (m *Map) clamp(b *Body) {
	b.Pos.X = clampf(b.Pos.X, 0, m.tpl.Width-b.W)
	b.Pos.Y = clampf(b.Pos.Y, 0, m.tpl.Height-b.H)
}

func clampf(v, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// NearestEnemy returns the closest live enemy within radius of from. Ties go
// to the earlier entity.
func (m *Map) NearestEnemy(from Vec, radius float64) (Entity, bool) {
	var best Entity
	bestDist := radius
	for _, e := range m.Entities() {
		if !e.Kind().Has(KindEnemy) {
			continue
		}
		b, _ := m.bodies.Get(e.ID())
		if d := b.Center().Dist(from); d <= bestDist && (best == nil || d < bestDist) {
			best, bestDist = e, d
		}
	}
	return best, best != nil
}

// Targets returns the ids of damageable entities overlapping b on the side
// opposite to the attacker: friendly attacks hit enemies, hostile ones hit
// the player. Ids are sorted so hits resolve in a stable order.
func (m *Map) Targets(b Body, friendly bool) []ecs.EntityID {
	want := KindPlayer
	if friendly {
		want = KindEnemy
	}
	var ids []ecs.EntityID
	ecs.Each2(m.bodies, m.healths, func(id ecs.EntityID, tb *Body, _ *Health) {
		e := m.entities[id]
		if e == nil || !e.Kind().Has(want) || m.world.Marked(id) {
			return
		}
		if tb.Overlaps(b) {
			ids = append(ids, id)
		}
	})
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Damage subtracts amount from id's health. Entities without health ignore it.
func (m *Map) Damage(id ecs.EntityID, amount float64) {
	hp, ok := m.healths.Get(id)
	if !ok || amount <= 0 {
		return
	}
	hp.HP -= amount
	if m.player != nil && id == m.player.id {
		emit(m, event.PlayerHit{Amount: amount, HP: hp.HP})
	}
}

// emit queues ev on the bus when one is attached.
func emit[T any](m *Map, ev T) {
	if m.deps.Bus != nil {
		event.Emit(m.deps.Bus, ev)
	}
}

// Dying returns the live entities whose health is defined and at or below
// zero. Entities without health are never returned.
func (m *Map) Dying() []Mortal {
	var out []Mortal
	for _, e := range m.Entities() {
		hp, ok := m.healths.Get(e.ID())
		if !ok || hp.HP > 0 {
			continue
		}
		if mortal, ok := e.(Mortal); ok {
			out = append(out, mortal)
		}
	}
	return out
}
