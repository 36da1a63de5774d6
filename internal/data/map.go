package data

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownMap     = errors.New("unknown map")
	ErrUnknownEnemy   = errors.New("unknown enemy")
	ErrUnknownAbility = errors.New("unknown ability")
)

// MapTemplate describes one playable (or menu backdrop) map.
type MapTemplate struct {
	Name          string   `yaml:"name"`
	Width         float64  `yaml:"width"`
	Height        float64  `yaml:"height"`
	InitialSpawn  int      `yaml:"initial_spawn"`
	SpawnInterval int      `yaml:"spawn_interval"` // ticks between spawn waves
	SpawnMax      int      `yaml:"spawn_max"`      // live enemy cap
	Enemies       []string `yaml:"enemies"`
	Demo          bool     `yaml:"demo"` // enemies wander instead of chasing
}

type mapListFile struct {
	Maps []MapTemplate `yaml:"maps"`
}

// MapTable holds map templates indexed by name. The first listed map is the
// fallback for seeds that do not name a map.
type MapTable struct {
	maps  map[string]*MapTemplate
	first string
}

// LoadMapTable loads map templates from a YAML file.
func LoadMapTable(path string) (*MapTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read map_list: %w", err)
	}
	var f mapListFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse map_list: %w", err)
	}
	return NewMapTable(f.Maps)
}

// NewMapTable indexes templates, rejecting empty lists and non-positive sizes.
func NewMapTable(maps []MapTemplate) (*MapTable, error) {
	if len(maps) == 0 {
		return nil, errors.New("map_list: no maps")
	}
	t := &MapTable{maps: make(map[string]*MapTemplate, len(maps)), first: maps[0].Name}
	for i := range maps {
		m := &maps[i]
		if m.Width <= 0 || m.Height <= 0 {
			return nil, fmt.Errorf("map %q: size %vx%v", m.Name, m.Width, m.Height)
		}
		t.maps[m.Name] = m
	}
	return t, nil
}

// Get returns a map template by name, or nil if not found.
func (t *MapTable) Get(name string) *MapTemplate {
	return t.maps[name]
}

// Fallback returns the first listed map.
func (t *MapTable) Fallback() *MapTemplate {
	return t.maps[t.first]
}

// Count returns the number of loaded templates.
func (t *MapTable) Count() int {
	return len(t.maps)
}
