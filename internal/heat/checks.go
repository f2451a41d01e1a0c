package heat

import (
	"fmt"

	"github.com/OCAP2/roundengine/internal/game"
	"github.com/OCAP2/roundengine/internal/report"
	"github.com/OCAP2/roundengine/internal/unit"
)

func hotDog(e *unit.Entity) int {
	if e.Crew.HotDog {
		return 1
	}
	return 0
}

func (en *Engine) checkInferno(g *game.Game, e *unit.Entity) error {
	heat := e.Thermal.Heat
	if !e.Equipment.InfernoAmmo || heat < InfernoThreshold {
		return nil
	}
	target := infernoTarget(heat) - hotDog(e)
	roll := g.Roller.Roll2D6()
	g.Report(msg(report.InfernoRoll, e, target, roll.String()))
	if roll.Succeeds(target) {
		return nil
	}
	g.Report(msg(report.InfernoExplodes, e))
	if err := en.damage.InfernoExplosion(g, e); err != nil {
		return fmt.Errorf("inferno explosion: %w", err)
	}
	return nil
}

// startupOrShutdown attempts a restart when the entity is shut down, and
// otherwise checks for a heat shutdown.
func (en *Engine) startupOrShutdown(g *game.Game, e *unit.Entity) {
	if e.Thermal.IsShutdown() {
		en.startup(g, e)
		return
	}
	en.shutdown(g, e)
}

func (en *Engine) startup(g *game.Game, e *unit.Entity) {
	th := &e.Thermal
	if th.Shutdown.Has(unit.CauseManual) || th.ExternallyForced() {
		return
	}
	// External causes whose countdown already ran out hold nothing.
	th.Clear(unit.ExternalCauses)

	if th.Shutdown.Has(unit.CausePilotIncapacitated) {
		if !e.Crew.Active() {
			return
		}
		th.Clear(unit.CausePilotIncapacitated)
	}
	if !th.Shutdown.Has(unit.CauseHeat) {
		if !th.IsShutdown() {
			g.Report(msg(report.StartupAuto, e))
		}
		return
	}

	heat := th.Heat
	switch {
	case heat >= autoShutdown(g.Options.ExtendedHeat):
		return
	case heat < ShutdownThreshold:
		th.Clear(unit.CauseHeat)
		g.Report(msg(report.StartupAuto, e))
		return
	case !e.Crew.Active():
		return
	}
	target := avoidTarget(heat) - hotDog(e)
	roll := g.Roller.Roll2D6()
	g.Report(msg(report.StartupRoll, e, target, roll.String()))
	if roll.Succeeds(target) {
		th.Clear(unit.CauseHeat)
	}
}

func (en *Engine) shutdown(g *game.Game, e *unit.Entity) {
	th := &e.Thermal
	heat := th.Heat
	switch {
	case heat >= autoShutdown(g.Options.ExtendedHeat):
		th.ShutDown(unit.CauseHeat)
		g.Report(msg(report.ShutdownAuto, e, heat))
		return
	case heat < ShutdownThreshold:
		return
	case !e.Crew.Active():
		th.ShutDown(unit.CauseHeat)
		g.Report(msg(report.ShutdownAuto, e, heat))
		return
	}
	target := avoidTarget(heat) - hotDog(e)
	roll := g.Roller.Roll2D6()
	g.Report(msg(report.ShutdownRoll, e, target, roll.String()))
	if !roll.Succeeds(target) {
		th.ShutDown(unit.CauseHeat)
	}
}

// ammoModifier is the sum of the explosion avoidance bonuses. Each bonus
// applies independently so the order they are listed in is irrelevant.
func ammoModifier(e *unit.Entity) int {
	mod := hotDog(e)
	if e.Equipment.LaserHeatSinks {
		mod++
	}
	if e.Crew.TechOfficer {
		mod += 2
	}
	return mod
}

func (en *Engine) checkAmmo(g *game.Game, e *unit.Entity) error {
	heat := e.Thermal.Heat
	if !e.Equipment.ExplosiveAmmo || heat < AmmoThreshold {
		return nil
	}
	target := ammoTarget(heat, g.Options.ExtendedHeat) - ammoModifier(e)
	roll := g.Roller.Roll2D6()
	g.Report(msg(report.AmmoRoll, e, target, roll.String()))
	if roll.Succeeds(target) {
		return nil
	}
	g.Report(msg(report.AmmoExplodes, e))
	if err := en.damage.AmmoExplosion(g, e); err != nil {
		return fmt.Errorf("ammo explosion: %w", err)
	}
	return nil
}

func lifeSupportDamaged(e *unit.Entity) bool {
	if e.Equipment.LifeSupportDamaged {
		return true
	}
	m := e.Equipment.MountOf(unit.MountLifeSupport)
	return m != nil && m.Destroyed
}

func (en *Engine) checkCrew(g *game.Game, e *unit.Entity) error {
	if e.Crew.Dead {
		return nil
	}
	heat := e.Thermal.Heat
	hits := 0
	if lifeSupportDamaged(e) {
		if heat >= LifeSupportThreshold {
			hits++
		}
		if g.Options.ExtendedHeat && heat >= LifeSupportThresholdHigh {
			hits++
		}
		if hits > 0 {
			g.Report(msg(report.LifeSupportHit, e, hits))
		}
	}
	if g.Options.ExtendedHeat {
		if target := crewRollTarget(heat); target > 0 {
			roll := g.Roller.Roll2D6()
			g.Report(msg(report.CrewHeatRoll, e, target, roll.String()))
			if !roll.Succeeds(target) {
				hits++
			}
		}
	}
	if hits == 0 {
		return nil
	}
	if err := en.damage.CrewDamage(g, e, hits); err != nil {
		return fmt.Errorf("crew damage: %w", err)
	}
	return nil
}

func (en *Engine) checkCritical(g *game.Game, e *unit.Entity) error {
	if !g.Options.ExtendedHeat {
		return nil
	}
	target := criticalTarget(e.Thermal.Heat)
	if target == 0 {
		return nil
	}
	roll := g.Roller.Roll2D6()
	g.Report(msg(report.HeatCriticalRoll, e, target, roll.String()))
	if roll.Succeeds(target) {
		return nil
	}
	if err := en.damage.CriticalHit(g, e); err != nil {
		return fmt.Errorf("heat critical: %w", err)
	}
	return nil
}

func (en *Engine) checkCoolantFailure(g *game.Game, e *unit.Entity) {
	if !g.Options.CoolantFailure {
		return
	}
	target := coolantFailureTarget(e.Thermal.Heat)
	if target == 0 {
		return
	}
	roll := g.Roller.Roll2D6()
	if roll.Succeeds(target) {
		e.Thermal.CoolantFailure++
		g.Report(msg(report.CoolantFailure, e, roll.String(), e.Thermal.CoolantFailure))
	}
}
