package world

const minSpawnDistance = 12

// Spawner adds enemies to its map in waves. Spawn is called once per tick
// and mutates the map directly; it only ever adds.
type Spawner struct {
	m     *Map
	ticks int
	wave  int
}

// SpawnInitial places the map's opening enemies.
func (s *Spawner) SpawnInitial() int {
	n := 0
	for i := 0; i < s.m.tpl.InitialSpawn; i++ {
		if s.spawnOne() {
			n++
		}
	}
	return n
}

// Spawn advances the wave timer and returns how many enemies were added.
func (s *Spawner) Spawn() int {
	if s.m.tpl.SpawnInterval <= 0 {
		return 0
	}
	s.ticks++
	if s.ticks < s.m.tpl.SpawnInterval {
		return 0
	}
	s.ticks = 0

	count := s.m.deps.Formulas.SpawnCount(s.m.Count(KindEnemy), s.m.tpl.SpawnMax, s.wave)
	s.wave++
	n := 0
	for i := 0; i < count; i++ {
		if s.spawnOne() {
			n++
		}
	}
	return n
}

// Wave returns the number of spawn waves run so far.
func (s *Spawner) Wave() int { return s.wave }

func (s *Spawner) spawnOne() bool {
	names := s.m.tpl.Enemies
	if len(names) == 0 || s.m.deps.Enemies == nil {
		return false
	}
	tpl := s.m.deps.Enemies.Get(names[s.m.rng.Intn(len(names))])
	if tpl == nil {
		return false
	}

	var pos Vec
	for try := 0; try < 8; try++ {
		pos = Vec{
			X: s.m.rng.Float64() * (s.m.tpl.Width - tpl.Width),
			Y: s.m.rng.Float64() * (s.m.tpl.Height - tpl.Height),
		}
		if s.m.player == nil || pos.Dist(s.m.player.Center()) >= minSpawnDistance {
			break
		}
	}
	NewEnemy(s.m, tpl, pos)
	return true
}
