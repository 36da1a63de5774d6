package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EnemyTemplate holds static data for an enemy type.
type EnemyTemplate struct {
	Name     string  `yaml:"name"`
	Glyph    string  `yaml:"glyph"`
	Color    string  `yaml:"color"`
	Health   float64 `yaml:"health"`
	Damage   float64 `yaml:"damage"`   // collision damage before scripting
	Speed    float64 `yaml:"speed"`    // cells per tick
	Cooldown int     `yaml:"cooldown"` // ticks between collision hits
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
}

type enemyListFile struct {
	Enemies []EnemyTemplate `yaml:"enemies"`
}

type EnemyTable struct {
	enemies map[string]*EnemyTemplate
}

// LoadEnemyTable loads enemy templates from a YAML file.
func LoadEnemyTable(path string) (*EnemyTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read enemy_list: %w", err)
	}
	var f enemyListFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse enemy_list: %w", err)
	}
	return NewEnemyTable(f.Enemies), nil
}

func NewEnemyTable(enemies []EnemyTemplate) *EnemyTable {
	t := &EnemyTable{enemies: make(map[string]*EnemyTemplate, len(enemies))}
	for i := range enemies {
		e := &enemies[i]
		if e.Width <= 0 {
			e.Width = 1
		}
		if e.Height <= 0 {
			e.Height = 1
		}
		t.enemies[e.Name] = e
	}
	return t
}

func (t *EnemyTable) Get(name string) *EnemyTemplate {
	return t.enemies[name]
}

func (t *EnemyTable) Count() int {
	return len(t.enemies)
}
