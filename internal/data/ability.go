package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Ability kinds understood by the world package.
const (
	AbilityMissile   = "missile"
	AbilityExplosion = "explosion"
	AbilityMelee     = "melee"
)

// AbilityTemplate holds static data for a player ability.
type AbilityTemplate struct {
	Name     string  `yaml:"name"`
	Kind     string  `yaml:"kind"`
	Cooldown int     `yaml:"cooldown"` // ticks between activations
	Damage   float64 `yaml:"damage"`   // base damage, scaled by scripting
	Range    float64 `yaml:"range"`    // target acquisition radius
	Speed    float64 `yaml:"speed"`    // projectile cells per tick
	Duration int     `yaml:"duration"` // projectile lifetime in ticks
	Size     float64 `yaml:"size"`     // projectile width and height
	Harmless bool    `yaml:"harmless"` // menu eye candy
}

// Validate checks that the kind is one the world package can build.
func (a *AbilityTemplate) Validate() error {
	switch a.Kind {
	case AbilityMissile, AbilityExplosion, AbilityMelee:
		return nil
	}
	return fmt.Errorf("ability %q: %w kind %q", a.Name, ErrUnknownAbility, a.Kind)
}

type abilityListFile struct {
	Abilities []AbilityTemplate `yaml:"abilities"`
}

type AbilityTable struct {
	abilities map[string]*AbilityTemplate
}

// LoadAbilityTable loads ability templates from a YAML file.
func LoadAbilityTable(path string) (*AbilityTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ability_list: %w", err)
	}
	var f abilityListFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse ability_list: %w", err)
	}
	return NewAbilityTable(f.Abilities)
}

func NewAbilityTable(abilities []AbilityTemplate) (*AbilityTable, error) {
	t := &AbilityTable{abilities: make(map[string]*AbilityTemplate, len(abilities))}
	for i := range abilities {
		a := &abilities[i]
		if err := a.Validate(); err != nil {
			return nil, err
		}
		if a.Size <= 0 {
			a.Size = 1
		}
		if a.Duration <= 0 {
			a.Duration = 1
		}
		t.abilities[a.Name] = a
	}
	return t, nil
}

// Get returns an ability template by name, or nil if not found.
func (t *AbilityTable) Get(name string) *AbilityTemplate {
	return t.abilities[name]
}

func (t *AbilityTable) Count() int {
	return len(t.abilities)
}
