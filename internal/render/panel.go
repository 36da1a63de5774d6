package render

import (
	"strings"

	"github.com/l1jgo/arena/internal/data"
)

// Item is a clickable panel entry.
type Item struct {
	Label   string
	Trigger string
}

// Panel is a centred overlay box.
type Panel struct {
	Title string
	Lines []string
	Items []Item
}

type rect struct {
	x, y, w, h int
}

func (r rect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

// layout places p centred on a w x h screen and returns the box and the
// row span of each item.
func (p *Panel) layout(w, h int) (box rect, items []rect) {
	inner := len([]rune(p.Title))
	for _, l := range p.Lines {
		inner = max(inner, len([]rune(l)))
	}
	for _, it := range p.Items {
		inner = max(inner, len([]rune(itemText(it))))
	}
	rows := 2 + len(p.Items) // title, gap
	if len(p.Lines) > 0 {
		rows += len(p.Lines) + 1
	}
	box = rect{w: inner + 4, h: rows + 2}
	box.x = (w - box.w) / 2
	box.y = (h - box.h) / 2

	y := box.y + 3
	if len(p.Lines) > 0 {
		y += len(p.Lines) + 1
	}
	for i, it := range p.Items {
		items = append(items, rect{x: box.x + 2, y: y + i, w: len([]rune(itemText(it))), h: 1})
	}
	return box, items
}

func itemText(it Item) string { return "[ " + it.Label + " ]" }

func defaultPanels(keys *data.KeyTable) map[string]*Panel {
	return map[string]*Panel{
		"menu": {
			Title: "ARENA",
			Items: []Item{{"Play", "play"}, {"Instructions", "instructions"}},
		},
		"pause": {
			Title: "PAUSED",
			Items: []Item{{"Resume", "pause"}, {"Main menu", "mainmenu"}},
		},
		"gameover": {
			Title: "GAME OVER",
			Items: []Item{{"Play again", "play"}, {"Main menu", "mainmenu"}},
		},
		"instructions": {
			Title: "INSTRUCTIONS",
			Lines: keyLines(keys),
			Items: []Item{{"Back", "mainmenu"}},
		},
	}
}

func keyLines(keys *data.KeyTable) []string {
	if keys == nil {
		return nil
	}
	bindings := keys.Bindings()
	width := 0
	for _, b := range bindings {
		width = max(width, len(keyLabel(b.Key)))
	}
	lines := make([]string, 0, len(bindings))
	for _, b := range bindings {
		label := keyLabel(b.Key)
		lines = append(lines, label+strings.Repeat(" ", width-len(label)+2)+b.Word)
	}
	return lines
}

func keyLabel(key string) string {
	if key == " " {
		return "Space"
	}
	return key
}
