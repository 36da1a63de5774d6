package ecs

import "fmt"

// EntityID packs a slot index (low 32 bits) with the slot's generation (high
// 32 bits). Destroying an entity bumps its slot generation, so ids kept past
// destruction stop resolving. Slot 0 is reserved: the zero id is "no entity".
type EntityID uint64

func NewEntityID(index uint32, generation uint32) EntityID {
	return EntityID(uint64(generation)<<32 | uint64(index))
}

func (id EntityID) Index() uint32      { return uint32(id) }
func (id EntityID) Generation() uint32 { return uint32(id >> 32) }
func (id EntityID) IsZero() bool       { return id == 0 }

func (id EntityID) String() string {
	return fmt.Sprintf("e%d.%d", id.Index(), id.Generation())
}

type slot struct {
	gen  uint32
	used bool
}

// EntityPool hands out ids, recycling destroyed slots most recent first.
type EntityPool struct {
	slots []slot
	free  []uint32
	live  int
}

func NewEntityPool() *EntityPool {
	return &EntityPool{slots: make([]slot, 1, 256)}
}

func (p *EntityPool) Create() EntityID {
	var idx uint32
	if n := len(p.free); n > 0 {
		idx = p.free[n-1]
		p.free = p.free[:n-1]
	} else {
		idx = uint32(len(p.slots))
		p.slots = append(p.slots, slot{})
	}
	p.slots[idx].used = true
	p.live++
	return NewEntityID(idx, p.slots[idx].gen)
}

func (p *EntityPool) Alive(id EntityID) bool {
	idx := int(id.Index())
	if idx == 0 || idx >= len(p.slots) {
		return false
	}
	s := p.slots[idx]
	return s.used && s.gen == id.Generation()
}

// Destroy releases id. Stale or unknown ids are ignored.
func (p *EntityPool) Destroy(id EntityID) {
	if !p.Alive(id) {
		return
	}
	s := &p.slots[id.Index()]
	s.used = false
	s.gen++
	p.free = append(p.free, id.Index())
	p.live--
}

// Live returns the number of allocated, not yet destroyed ids.
func (p *EntityPool) Live() int { return p.live }
