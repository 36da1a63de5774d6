package world

// Camera keeps a viewport centred on its target entity, clamped to the map.
type Camera struct {
	m            *Map
	target       Entity
	origin       Vec
	viewW, viewH int
}

func NewCamera(m *Map, target Entity) *Camera {
	return &Camera{m: m, target: target, viewW: 80, viewH: 24}
}

// FollowNewEntity switches the camera target.
func (c *Camera) FollowNewEntity(e Entity) {
	c.target = e
}

func (c *Camera) Target() Entity { return c.target }

func (c *Camera) SetViewport(w, h int) {
	if w > 0 && h > 0 {
		c.viewW, c.viewH = w, h
	}
}

func (c *Camera) Viewport() (int, int) { return c.viewW, c.viewH }

// Origin is the map position drawn at the viewport's top-left cell.
func (c *Camera) Origin() Vec { return c.origin }

// Follow recentres on the target. A target that left the map hands the
// camera back to the player.
func (c *Camera) Follow() {
	if c.target == nil || !c.m.Present(c.target.ID()) {
		if c.m.player == nil {
			return
		}
		c.target = c.m.player
	}
	b, ok := c.m.bodies.Get(c.target.ID())
	if !ok {
		return
	}
	center := b.Center()
	vw, vh := float64(c.viewW), float64(c.viewH)
	c.origin = Vec{
		X: axisOrigin(center.X, vw, c.m.Width()),
		Y: axisOrigin(center.Y, vh, c.m.Height()),
	}
}

func axisOrigin(center, view, size float64) float64 {
	if size <= view {
		return (size - view) / 2
	}
	return clampf(center-view/2, 0, size-view)
}

// ToScreen converts a map position to viewport cell coordinates.
func (c *Camera) ToScreen(p Vec) (int, int) {
	return int(p.X - c.origin.X), int(p.Y - c.origin.Y)
}
