package heat

import (
	"github.com/OCAP2/roundengine/internal/board"
	"github.com/OCAP2/roundengine/internal/game"
	"github.com/OCAP2/roundengine/internal/unit"
)

// SourceKind names a heat contribution.
type SourceKind string

const (
	SourceCarried         SourceKind = "carried" // weapons and other heat added during the round
	SourceMovement        SourceKind = "movement"
	SourceStealth         SourceKind = "stealth"
	SourceVoidSignature   SourceKind = "void_signature"
	SourceNullSignature   SourceKind = "null_signature"
	SourceChameleon       SourceKind = "chameleon"
	SourceECM             SourceKind = "ecm"
	SourceTaser           SourceKind = "taser_interference"
	SourceEMP             SourceKind = "emp_interference"
	SourceDamagedRHS      SourceKind = "damaged_rhs"
	SourceFire            SourceKind = "fire"
	SourceMagma           SourceKind = "magma"
	SourceTemperature     SourceKind = "temperature"
	SourceCapacitor       SourceKind = "capacitor"
	SourceVibroblade      SourceKind = "vibroblade"
	SourceQuirk           SourceKind = "quirk"
	SourceCoolingFlaw     SourceKind = "cooling_flaw"
	SourceExternalHeat    SourceKind = "external_heat"
	SourceExternalCooling SourceKind = "external_cooling"
)

const (
	stealthHeat        = 10
	signatureHeat      = 10
	chameleonHeat      = 6
	ecmHeat            = 2
	interferenceHeat   = 5
	fireHeat           = 5
	magmaCrustHeat     = 5
	magmaLiquidHeat    = 10
	capacitorHeat      = 5
	coolingFlawHeat    = 5
	maxExternalCooling = 9

	combatComputerHeat  = -4
	improvedCoolingHeat = -1
	poorCoolingHeat     = 1
)

// Source is one contribution to a round's heat buildup.
type Source struct {
	Kind   SourceKind `json:"kind"`
	Amount int        `json:"amount"`
}

// Accrual is the list of heat contributions for one entity and round. It is
// computed without touching the entity and folded in exactly once.
type Accrual struct {
	Sources []Source `json:"sources"`
}

func (a *Accrual) add(kind SourceKind, amount int) {
	if amount != 0 {
		a.Sources = append(a.Sources, Source{Kind: kind, Amount: amount})
	}
}

// Total is the sum of every source, floored at zero.
func (a Accrual) Total() int {
	sum := 0
	for _, s := range a.Sources {
		sum += s.Amount
	}
	return max(0, sum)
}

// Amount returns the sum of the sources of kind.
func (a Accrual) Amount(kind SourceKind) int {
	sum := 0
	for _, s := range a.Sources {
		if s.Kind == kind {
			sum += s.Amount
		}
	}
	return sum
}

// temperatureHeat is the ambient temperature band: one point per started
// 10 degrees above 50, minus one per started 10 degrees below -30.
func temperatureHeat(t int) int {
	switch {
	case t > 50:
		return (t - 50 + 9) / 10
	case t < -30:
		return -((-30 - t + 9) / 10)
	}
	return 0
}

// Accrue collects every heat contribution of e for the current round.
func Accrue(g *game.Game, e *unit.Entity) Accrual {
	var a Accrual
	th := &e.Thermal
	eq := &e.Equipment

	a.add(SourceCarried, th.HeatBuildup)
	a.add(SourceMovement, th.MovementHeat)

	if eq.Stealth.On() {
		a.add(SourceStealth, stealthHeat)
	}
	if eq.VoidSignature.On() {
		a.add(SourceVoidSignature, signatureHeat)
	}
	if eq.NullSignature.On() {
		a.add(SourceNullSignature, signatureHeat)
	}
	if eq.Chameleon.On() {
		a.add(SourceChameleon, chameleonHeat)
	}
	if eq.ECMSuite.On() {
		a.add(SourceECM, ecmHeat)
	}

	if th.TaserInterferenceRounds > 0 {
		a.add(SourceTaser, interferenceHeat)
	}
	if th.EMPInterferenceRounds > 0 {
		a.add(SourceEMP, interferenceHeat)
	}
	if eq.HasRadicalHeatSink && !eq.RadicalHeatSinkUsable() && e.WeaponsFired > 0 {
		a.add(SourceDamagedRHS, 1)
	}

	if e.Position != nil && g.Boards != nil {
		if !e.Airborne {
			if h, ok := g.Boards.Hex(e.BoardID, *e.Position); ok {
				if h.Fire {
					a.add(SourceFire, fireHeat)
				}
				switch h.Magma {
				case board.MagmaCrust:
					a.add(SourceMagma, magmaCrustHeat)
				case board.MagmaLiquid:
					a.add(SourceMagma, magmaLiquidHeat)
				}
			}
		}
		if !g.Boards.IsSpace(e.BoardID) {
			a.add(SourceTemperature, temperatureHeat(g.Boards.Temperature(e.BoardID)))
		}
	}

	for _, c := range eq.Capacitors {
		if c.Charged || c.Discharged {
			a.add(SourceCapacitor, capacitorHeat)
		}
	}
	for _, v := range eq.Vibroblades {
		if v.Active {
			a.add(SourceVibroblade, v.Heat)
		}
	}

	if e.HasQuirk(unit.QuirkCombatComputer) {
		a.add(SourceQuirk, combatComputerHeat)
	}
	if e.HasQuirk(unit.QuirkImprovedCooling) {
		a.add(SourceQuirk, improvedCoolingHeat)
	}
	if e.HasQuirk(unit.QuirkPoorCooling) {
		a.add(SourceQuirk, poorCoolingHeat)
	}
	if th.CoolingFlawActive {
		a.add(SourceCoolingFlaw, coolingFlawHeat)
	}

	a.add(SourceExternalHeat, min(g.Options.MaxExternalHeat, th.HeatFromExternal))
	a.add(SourceExternalCooling, -min(maxExternalCooling, th.CoolFromExternal))
	return a
}

// commit writes the accrual into the entity as this round's buildup and
// consumes the per-round inputs it was computed from.
func commit(e *unit.Entity, a Accrual) {
	e.Thermal.HeatBuildup = a.Total()
	e.Thermal.MovementHeat = 0
	e.Thermal.HeatFromExternal = 0
	e.Thermal.CoolFromExternal = 0
	for i := range e.Equipment.Capacitors {
		e.Equipment.Capacitors[i].Discharged = false
	}
}
