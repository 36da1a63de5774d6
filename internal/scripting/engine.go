package scripting

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

//go:embed scripts/*.lua
var builtin embed.FS

// Engine wraps a single gopher-lua VM for game formulas.
// Single-goroutine access only (game loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine with the built-in scripts loaded, then
// loads every .lua file in scriptsDir (if set) so they can redefine formulas.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	// Set API version global
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}

	if err := e.loadBuiltin(); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load builtin scripts: %w", err)
	}
	if scriptsDir != "" {
		if err := e.loadDir(scriptsDir); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load scripts: %w", err)
		}
	}
	return e, nil
}

func (e *Engine) loadBuiltin() error {
	entries, err := fs.ReadDir(builtin, "scripts")
	if err != nil {
		return err
	}
	for _, entry := range entries {
		path := "scripts/" + entry.Name()
		src, err := builtin.ReadFile(path)
		if err != nil {
			return err
		}
		if err := e.vm.DoString(string(src)); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
	}
	return nil
}

// loadDir loads all .lua files in a directory in name order.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// DoString runs a chunk in the VM. Used to patch formulas at runtime.
func (e *Engine) DoString(src string) error {
	return e.vm.DoString(src)
}

// ProjectileDamage calls Lua calc_projectile_damage(ctx).
func (e *Engine) ProjectileDamage(base, ownerDamage float64) float64 {
	fn := e.vm.GetGlobal("calc_projectile_damage")
	if fn == lua.LNil {
		e.log.Error("lua function calc_projectile_damage not found")
		return base
	}

	t := e.vm.NewTable()
	t.RawSetString("base", lua.LNumber(base))
	t.RawSetString("owner_damage", lua.LNumber(ownerDamage))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua calc_projectile_damage error", zap.Error(err))
		return base
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)
	return nonNegative(float64(lua.LVAsNumber(result)))
}

// ExplosionDamage calls Lua calc_explosion_damage(owner_damage).
func (e *Engine) ExplosionDamage(ownerDamage float64) float64 {
	return nonNegative(e.callNumberFunc("calc_explosion_damage", ownerDamage/15, ownerDamage))
}

// CollisionDamage calls Lua calc_collision_damage(enemy_damage).
func (e *Engine) CollisionDamage(enemyDamage float64) float64 {
	return nonNegative(e.callNumberFunc("calc_collision_damage", enemyDamage, enemyDamage))
}

// SpawnCount calls Lua spawn_count(live, max, wave).
func (e *Engine) SpawnCount(live, max, wave int) int {
	n := int(e.callNumberFunc("spawn_count", 0, float64(live), float64(max), float64(wave)))
	if n < 0 {
		return 0
	}
	return n
}

func (e *Engine) callNumberFunc(name string, fallback float64, args ...float64) float64 {
	fn := e.vm.GetGlobal(name)
	if fn == lua.LNil {
		e.log.Error("lua function not found", zap.String("name", name))
		return fallback
	}

	lArgs := make([]lua.LValue, len(args))
	for i, a := range args {
		lArgs[i] = lua.LNumber(a)
	}

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, lArgs...); err != nil {
		e.log.Error("lua call error", zap.String("func", name), zap.Error(err))
		return fallback
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)
	return float64(lua.LVAsNumber(result))
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
