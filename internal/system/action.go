package system

import (
	"errors"
	"fmt"

	"github.com/l1jgo/arena/internal/world"
)

// ErrMissingCapability is returned when an action targets an entity that
// cannot perform the operation.
var ErrMissingCapability = errors.New("entity lacks capability")

// Op is one entity operation a pipeline stage can schedule.
type Op uint8

const (
	OpMove Op = iota + 1
	OpDamage
	OpCollide
	OpDeath
)

func (o Op) String() string {
	switch o {
	case OpMove:
		return "move"
	case OpDamage:
		return "doDamage"
	case OpCollide:
		return "playerCollision"
	case OpDeath:
		return "onDeath"
	}
	return "unknown"
}

// EntityAction is a one-shot frame action: run op on target. Targets removed
// from the map before the action runs are skipped.
type EntityAction struct {
	m      *world.Map
	target world.Entity
	op     Op
}

func NewEntityAction(m *world.Map, target world.Entity, op Op) EntityAction {
	return EntityAction{m: m, target: target, op: op}
}

func (a EntityAction) Target() world.Entity { return a.target }
func (a EntityAction) Op() Op               { return a.op }

func (a EntityAction) Run() error {
	if !a.m.Present(a.target.ID()) {
		return nil
	}
	var err error
	switch a.op {
	case OpMove:
		if e, ok := a.target.(world.Mover); ok {
			err = e.Move()
		} else {
			err = ErrMissingCapability
		}
	case OpDamage:
		if e, ok := a.target.(world.Damager); ok {
			err = e.DoDamage()
		} else {
			err = ErrMissingCapability
		}
	case OpCollide:
		if e, ok := a.target.(world.Collider); ok {
			err = e.PlayerCollision()
		} else {
			err = ErrMissingCapability
		}
	case OpDeath:
		if e, ok := a.target.(world.Mortal); ok {
			err = e.OnDeath()
		} else {
			err = ErrMissingCapability
		}
	default:
		err = fmt.Errorf("unknown op %d", a.op)
	}
	if err != nil {
		return fmt.Errorf("%s %s: %w", a.op, a.target.Name(), err)
	}
	return nil
}

// ActivateAction fires one player ability.
type ActivateAction struct {
	ability world.Ability
}

func NewActivateAction(a world.Ability) ActivateAction {
	return ActivateAction{ability: a}
}

func (a ActivateAction) Run() error {
	if err := a.ability.Activate(); err != nil {
		return fmt.Errorf("activate %s: %w", a.ability.Name(), err)
	}
	return nil
}
