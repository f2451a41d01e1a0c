// Package heat resolves the end-of-round thermal state of every entity:
// heat accrual, sinking, and the shutdown, explosion and injury checks that
// high heat triggers.
package heat

import (
	"fmt"
	"log/slog"

	"github.com/OCAP2/roundengine/internal/game"
	"github.com/OCAP2/roundengine/internal/report"
	"github.com/OCAP2/roundengine/internal/unit"
)

// Engine runs the heat pipeline.
type Engine struct {
	damage DamageApplier
	logger *slog.Logger
}

// New creates an engine. A nil damage applier is replaced with BasicDamage.
func New(damage DamageApplier, logger *slog.Logger) *Engine {
	if damage == nil {
		damage = BasicDamage{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{damage: damage, logger: logger}
}

// pipeline resolves one entity.
type pipeline func(en *Engine, g *game.Game, e *unit.Entity) error

// pipelineFor selects the specialised pipeline of e's category. Entities
// that do not track heat get nil.
func pipelineFor(e *unit.Entity) pipeline {
	switch {
	case !e.TracksHeat():
		return nil
	case e.Category.IsLargeCraft():
		return (*Engine).resolveLargeCraft
	case e.IsAero():
		return (*Engine).resolveFighter
	default:
		return (*Engine).resolveMek
	}
}

// Resolve runs the heat pipeline for every entity in ascending id order. An
// error means an invariant was violated and the round cannot continue.
func (en *Engine) Resolve(g *game.Game) error {
	for _, e := range g.Entities() {
		if e.Gone() {
			continue
		}
		if run := pipelineFor(e); run != nil && (e.OnBoard() || e.Airborne) {
			if err := run(en, g, e); err != nil {
				return fmt.Errorf("heat for entity %d: %w", e.ID, err)
			}
		}
		en.tickCountdowns(g, e)
	}
	return nil
}

func msg(id int, e *unit.Entity, params ...any) report.Message {
	return report.About(id, e.ID, e.Owner, params...).Indented(1)
}

// fold adds the accrual to the entity's heat and sinks what capacity allows.
// It returns the heat sunk.
func fold(e *unit.Entity, a Accrual, bonus int) int {
	commit(e, a)
	th := &e.Thermal
	th.Heat += th.HeatBuildup
	th.HeatBuildup = 0
	sunk := min(e.HeatCapacity()+bonus, th.Heat)
	th.Heat -= sunk
	return sunk
}

func (en *Engine) resolveMek(g *game.Game, e *unit.Entity) error {
	acc := Accrue(g, e)
	buildup := acc.Total()

	bonus, err := en.radicalHeatSink(g, e)
	if err != nil {
		return err
	}
	bonus += en.coolantPod(g, e, buildup, bonus)

	sunk := fold(e, acc, bonus)
	g.Report(msg(report.HeatSummary, e, buildup, sunk, e.Thermal.Heat))
	en.logger.Debug("Heat folded", "entity", e.ID, "buildup", buildup, "sunk", sunk, "heat", e.Thermal.Heat)

	if err := en.checkInferno(g, e); err != nil {
		return err
	}
	if e.Gone() {
		return nil
	}
	en.startupOrShutdown(g, e)
	if err := en.checkAmmo(g, e); err != nil {
		return err
	}
	if err := en.checkCrew(g, e); err != nil {
		return err
	}
	if err := en.checkCritical(g, e); err != nil {
		return err
	}
	en.checkCoolantFailure(g, e)
	return nil
}

func (en *Engine) resolveFighter(g *game.Game, e *unit.Entity) error {
	acc := Accrue(g, e)
	buildup := acc.Total()
	sunk := fold(e, acc, 0)
	g.Report(msg(report.HeatSummary, e, buildup, sunk, e.Thermal.Heat))

	en.startupOrShutdown(g, e)
	if err := en.checkAmmo(g, e); err != nil {
		return err
	}
	return en.checkCrew(g, e)
}

func (en *Engine) resolveLargeCraft(g *game.Game, e *unit.Entity) error {
	acc := Accrue(g, e)
	buildup := acc.Total()
	sunk := fold(e, acc, 0)
	g.Report(msg(report.HeatSummary, e, buildup, sunk, e.Thermal.Heat))

	if e.Thermal.Heat > 0 {
		g.Report(msg(report.ControlRoll, e, e.Thermal.Heat))
		if err := en.damage.ControlRoll(g, e, e.Thermal.Heat); err != nil {
			return fmt.Errorf("control roll: %w", err)
		}
		e.Thermal.Heat = 0
	}
	return nil
}

// tickCountdowns runs the external effect countdowns once per round for
// every entity, heat tracking or not.
func (en *Engine) tickCountdowns(g *game.Game, e *unit.Entity) {
	before := e.Thermal.Shutdown
	e.Thermal.TickCountdowns()
	if cleared := before &^ e.Thermal.Shutdown; cleared != 0 {
		g.Report(msg(report.CountdownExpired, e, cleared.String()))
	}
}
