package data

import "fmt"

// Tables bundles every static table the game needs.
type Tables struct {
	Maps      *MapTable
	Enemies   *EnemyTable
	Abilities *AbilityTable
	Keys      *KeyTable
}

// Paths lists the YAML files Load reads.
type Paths struct {
	Maps      string
	Enemies   string
	Abilities string
	Keys      string
}

// Load reads all tables and checks cross references.
func Load(p Paths) (*Tables, error) {
	maps, err := LoadMapTable(p.Maps)
	if err != nil {
		return nil, err
	}
	enemies, err := LoadEnemyTable(p.Enemies)
	if err != nil {
		return nil, err
	}
	abilities, err := LoadAbilityTable(p.Abilities)
	if err != nil {
		return nil, err
	}
	keys, err := LoadKeyTable(p.Keys)
	if err != nil {
		return nil, err
	}
	t := &Tables{Maps: maps, Enemies: enemies, Abilities: abilities, Keys: keys}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks that every enemy a map spawns exists.
func (t *Tables) Validate() error {
	for _, m := range t.Maps.maps {
		for _, name := range m.Enemies {
			if t.Enemies.Get(name) == nil {
				return fmt.Errorf("map %q: %w %q", m.Name, ErrUnknownEnemy, name)
			}
		}
	}
	return nil
}

// ResolveMap picks the template for a load: an explicit name must exist;
// otherwise a seed naming a map selects it, and any other seed uses the
// fallback map.
func (t *Tables) ResolveMap(name, seed string) (*MapTemplate, error) {
	if name != "" {
		m := t.Maps.Get(name)
		if m == nil {
			return nil, fmt.Errorf("%w %q", ErrUnknownMap, name)
		}
		return m, nil
	}
	if m := t.Maps.Get(seed); m != nil {
		return m, nil
	}
	return t.Maps.Fallback(), nil
}

// Ability returns the named ability or ErrUnknownAbility.
func (t *Tables) Ability(name string) (*AbilityTemplate, error) {
	a := t.Abilities.Get(name)
	if a == nil {
		return nil, fmt.Errorf("%w %q", ErrUnknownAbility, name)
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}
