package heat

import (
	"fmt"

	"github.com/OCAP2/roundengine/internal/game"
	"github.com/OCAP2/roundengine/internal/report"
	"github.com/OCAP2/roundengine/internal/unit"
)

// radicalHeatSink handles the activation request of a radical heat sink and
// returns the extra capacity it grants this round.
func (en *Engine) radicalHeatSink(g *game.Game, e *unit.Entity) (int, error) {
	eq := &e.Equipment
	th := &e.Thermal
	if !eq.HasRadicalHeatSink {
		return 0, nil
	}
	mount := eq.MountOf(unit.MountRadicalHeatSink)
	if mount == nil {
		return 0, fmt.Errorf("%w: radical heat sink equipped but not mounted", game.ErrInvariant)
	}

	if !eq.RadicalActivated {
		if th.ConsecutiveRHSUses > 0 {
			decay := 1
			if th.RHSIncreased {
				decay = 2
			}
			th.ConsecutiveRHSUses = max(0, th.ConsecutiveRHSUses-decay)
			th.RHSIncreased = false
			if next, ok := rhsTarget(th.ConsecutiveRHSUses); ok && !mount.Destroyed {
				g.Report(msg(report.RHSNextTarget, e, next))
			}
		}
		return 0, nil
	}
	eq.RadicalActivated = false
	if mount.Destroyed {
		return 0, nil
	}

	target, ok := rhsTarget(th.ConsecutiveRHSUses)
	th.ConsecutiveRHSUses++
	th.RHSIncreased = true
	if ok {
		roll := g.Roller.Roll2D6()
		g.Report(msg(report.RHSRoll, e, target, roll.String()))
		if roll.Succeeds(target) {
			return eq.HeatSinks, nil
		}
	}
	g.Report(msg(report.RHSFailed, e, mount.Location))
	if err := en.damage.DestroyMount(g, e, mount); err != nil {
		return 0, fmt.Errorf("destroy radical heat sink: %w", err)
	}
	return 0, nil
}

// coolantPod decides whether the entity's coolant pod fires this round and
// returns the extra capacity. buildup and rhsBonus are the round's accrued
// heat and radical heat sink bonus.
func (en *Engine) coolantPod(g *game.Game, e *unit.Entity, buildup, rhsBonus int) int {
	eq := &e.Equipment
	if !eq.HasCoolantPod || eq.PodUsed || eq.CoolantPod == unit.PodOff {
		return 0
	}
	if eq.FindMount(unit.MountCoolantPod) == nil {
		return 0
	}

	total := e.Thermal.Heat + buildup
	left := total - min(e.HeatCapacity()+rhsBonus, total)
	bonus := eq.HeatSinks

	var fire bool
	switch eq.CoolantPod {
	case unit.PodDump:
		fire = left > 0
	case unit.PodSafe:
		fire = left >= ShutdownThreshold
	case unit.PodEfficient:
		fire = left >= bonus
	}
	if !fire || bonus == 0 {
		return 0
	}
	eq.PodUsed = true
	g.Report(msg(report.CoolantPodUsed, e, bonus))
	return bonus
}
