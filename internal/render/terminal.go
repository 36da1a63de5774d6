package render

import (
	"errors"
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/l1jgo/arena/internal/data"
	"github.com/l1jgo/arena/internal/game"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrMissingOverlay is returned for region names the terminal does not know.
var ErrMissingOverlay = errors.New("render: missing overlay")

const regionBorder = "border"

// panelOrder is the draw order; later panels are on top.
var panelOrder = []string{"menu", "instructions", "gameover", "pause"}

var (
	styleVoid   = tcell.StyleDefault.Foreground(tcell.ColorDarkSlateGray)
	styleBorder = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleHUD    = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	stylePanel  = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleItem   = stylePanel.Foreground(tcell.ColorYellow).Bold(true)
)

// Terminal renders game contexts onto a tcell screen and manages the named
// overlay panels. The map viewport sits inside a one-cell frame with the HUD
// on the last row.
type Terminal struct {
	screen  tcell.Screen
	panels  map[string]*Panel
	visible map[string]bool
	title   cases.Caser
}

func NewTerminal(screen tcell.Screen, keys *data.KeyTable) *Terminal {
	return &Terminal{
		screen:  screen,
		panels:  defaultPanels(keys),
		visible: make(map[string]bool),
		title:   cases.Title(language.English),
	}
}

func (t *Terminal) Show(region string) error { return t.set(region, true) }
func (t *Terminal) Hide(region string) error { return t.set(region, false) }

func (t *Terminal) set(region string, on bool) error {
	if _, ok := t.panels[region]; !ok && region != regionBorder {
		return fmt.Errorf("%w %q", ErrMissingOverlay, region)
	}
	t.visible[region] = on
	return nil
}

// Visible reports whether a region is shown.
func (t *Terminal) Visible(region string) bool { return t.visible[region] }

// Viewport returns the map area size in cells.
func (t *Terminal) Viewport() (int, int) {
	w, h := t.screen.Size()
	return max(w-2, 1), max(h-3, 1)
}

// HitTest returns the trigger of the topmost visible panel item at x, y.
func (t *Terminal) HitTest(x, y int) (string, bool) {
	w, h := t.screen.Size()
	for i := len(panelOrder) - 1; i >= 0; i-- {
		name := panelOrder[i]
		if !t.visible[name] {
			continue
		}
		p := t.panels[name]
		box, items := p.layout(w, h)
		for j, r := range items {
			if r.contains(x, y) {
				return p.Items[j].Trigger, true
			}
		}
		if box.contains(x, y) {
			return "", false
		}
	}
	return "", false
}

// Draw renders one frame.
func (t *Terminal) Draw(ctx game.Context) {
	t.screen.Clear()
	vw, vh := t.Viewport()
	if ctx.Map != nil && ctx.Camera != nil {
		ctx.Camera.SetViewport(vw, vh)
		t.drawMap(ctx, vw, vh)
	}
	if t.visible[regionBorder] {
		t.drawBox(rect{0, 0, vw + 2, vh + 2}, styleBorder)
	}
	t.drawHUD(ctx)
	w, h := t.screen.Size()
	for _, name := range panelOrder {
		if t.visible[name] {
			t.drawPanel(t.panels[name], w, h)
		}
	}
	t.screen.Show()
}

func (t *Terminal) drawMap(ctx game.Context, vw, vh int) {
	m, cam := ctx.Map, ctx.Camera
	origin := cam.Origin()
	for y := 0; y < vh; y++ {
		for x := 0; x < vw; x++ {
			mx, my := origin.X+float64(x), origin.Y+float64(y)
			if mx < 0 || my < 0 || mx >= m.Width() || my >= m.Height() {
				t.screen.SetContent(x+1, y+1, '░', nil, styleVoid)
			}
		}
	}
	for _, e := range m.Entities() {
		b, ok := m.Body(e.ID())
		if !ok {
			continue
		}
		style := tcell.StyleDefault.Foreground(tcell.GetColor(e.Color()))
		x0 := int(math.Floor(b.Pos.X - origin.X))
		y0 := int(math.Floor(b.Pos.Y - origin.Y))
		cw, ch := max(int(math.Ceil(b.W)), 1), max(int(math.Ceil(b.H)), 1)
		for dy := 0; dy < ch; dy++ {
			for dx := 0; dx < cw; dx++ {
				x, y := x0+dx, y0+dy
				if x < 0 || y < 0 || x >= vw || y >= vh {
					continue
				}
				t.screen.SetContent(x+1, y+1, e.Glyph(), nil, style)
			}
		}
	}
}

func (t *Terminal) drawHUD(ctx game.Context) {
	p := ctx.Player
	if p == nil || p.Demo() {
		return
	}
	line := t.title.String(p.Name())
	if hp, maxHP, ok := p.Health(); ok {
		line += fmt.Sprintf("  HP %d/%d", int(math.Max(hp, 0)), int(maxHP))
	}
	line += fmt.Sprintf("  Kills %d  %s", p.Kills(), t.title.String(ctx.Level))
	_, h := t.screen.Size()
	t.text(0, h-1, line, styleHUD)
}

func (t *Terminal) drawPanel(p *Panel, w, h int) {
	box, items := p.layout(w, h)
	for y := box.y; y < box.y+box.h; y++ {
		for x := box.x; x < box.x+box.w; x++ {
			t.screen.SetContent(x, y, ' ', nil, stylePanel)
		}
	}
	t.drawBox(box, stylePanel)
	t.text(box.x+(box.w-len([]rune(p.Title)))/2, box.y+1, p.Title, stylePanel.Bold(true))
	for i, l := range p.Lines {
		t.text(box.x+2, box.y+3+i, l, stylePanel)
	}
	for i, r := range items {
		t.text(r.x, r.y, itemText(p.Items[i]), styleItem)
	}
}

func (t *Terminal) drawBox(r rect, style tcell.Style) {
	right, bottom := r.x+r.w-1, r.y+r.h-1
	for x := r.x + 1; x < right; x++ {
		t.screen.SetContent(x, r.y, tcell.RuneHLine, nil, style)
		t.screen.SetContent(x, bottom, tcell.RuneHLine, nil, style)
	}
	for y := r.y + 1; y < bottom; y++ {
		t.screen.SetContent(r.x, y, tcell.RuneVLine, nil, style)
		t.screen.SetContent(right, y, tcell.RuneVLine, nil, style)
	}
	t.screen.SetContent(r.x, r.y, tcell.RuneULCorner, nil, style)
	t.screen.SetContent(right, r.y, tcell.RuneURCorner, nil, style)
	t.screen.SetContent(r.x, bottom, tcell.RuneLLCorner, nil, style)
	t.screen.SetContent(right, bottom, tcell.RuneLRCorner, nil, style)
}

func (t *Terminal) text(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		t.screen.SetContent(x, y, r, nil, style)
		x++
	}
}
