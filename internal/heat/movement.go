package heat

import (
	"github.com/OCAP2/roundengine/internal/game"
	"github.com/OCAP2/roundengine/internal/report"
	"github.com/OCAP2/roundengine/internal/unit"
)

const (
	walkHeat    = 1
	runHeat     = 2
	minJumpHeat = 3

	// flawedCoolingTarget is the roll at or above which damage sets off a
	// cooling flaw.
	flawedCoolingTarget = 10
)

// movementHeat is the heat a ground unit builds by moving.
func movementHeat(e *unit.Entity) int {
	switch e.Moved {
	case unit.Walked:
		return walkHeat
	case unit.Ran:
		return runHeat
	case unit.Jumped:
		return max(minJumpHeat, e.JumpDistance)
	}
	return 0
}

// AddMovementHeat records the heat every heat tracking ground unit built
// while moving this round. It is folded in at the end of the round.
func AddMovementHeat(g *game.Game) {
	for _, e := range g.Entities() {
		if !e.TracksHeat() || e.IsAero() || e.Gone() || !e.OnBoard() {
			continue
		}
		h := movementHeat(e)
		if h == 0 {
			continue
		}
		e.Thermal.MovementHeat += h
		g.Report(msg(report.MovementHeat, e, h))
	}
}

// CheckFlawedCooling rolls for every unit with the flawed cooling quirk that
// took damage this phase. A roll of 10 or more leaves its cooling flawed for
// the rest of the game.
func CheckFlawedCooling(g *game.Game) {
	for _, e := range g.Entities() {
		if !e.HasQuirk(unit.QuirkFlawedCooling) || !e.DamagedThisPhase || e.Thermal.CoolingFlawActive || e.Gone() {
			continue
		}
		roll := g.Roller.Roll2D6()
		if roll.Succeeds(flawedCoolingTarget) {
			e.Thermal.CoolingFlawActive = true
			g.Report(msg(report.FlawedCooling, e, roll.String()))
		}
	}
}
