package heat

import (
	"github.com/OCAP2/roundengine/internal/game"
	"github.com/OCAP2/roundengine/internal/unit"
)

// DamageApplier applies the damage that heat consequences cause. Damage
// allocation and critical effects live outside the heat engine.
type DamageApplier interface {
	InfernoExplosion(g *game.Game, e *unit.Entity) error
	AmmoExplosion(g *game.Game, e *unit.Entity) error
	CrewDamage(g *game.Game, e *unit.Entity, hits int) error
	CriticalHit(g *game.Game, e *unit.Entity) error
	DestroyMount(g *game.Game, e *unit.Entity, m *unit.Mount) error
	ControlRoll(g *game.Game, e *unit.Entity, heat int) error
}

// crewKillingHits is the number of hits that kills a crew.
const crewKillingHits = 6

// BasicDamage applies the simplest outcome of each consequence directly to
// the entity. It stands in when no full damage resolver is wired.
type BasicDamage struct{}

func (BasicDamage) InfernoExplosion(_ *game.Game, e *unit.Entity) error {
	e.Equipment.InfernoAmmo = false
	e.Destroyed = true
	return nil
}

func (BasicDamage) AmmoExplosion(g *game.Game, e *unit.Entity) error {
	e.Equipment.ExplosiveAmmo = false
	return BasicDamage{}.CrewDamage(g, e, 2)
}

func (BasicDamage) CrewDamage(_ *game.Game, e *unit.Entity, hits int) error {
	e.Crew.Hits += hits
	if e.Crew.Hits >= crewKillingHits {
		e.Crew.Dead = true
	}
	return nil
}

func (BasicDamage) CriticalHit(*game.Game, *unit.Entity) error {
	return nil
}

func (BasicDamage) DestroyMount(_ *game.Game, _ *unit.Entity, m *unit.Mount) error {
	m.Destroyed = true
	return nil
}

func (BasicDamage) ControlRoll(*game.Game, *unit.Entity, int) error {
	return nil
}
