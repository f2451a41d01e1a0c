package heat

import (
	"testing"

	"github.com/OCAP2/roundengine/internal/board"
	"github.com/OCAP2/roundengine/internal/dice"
	"github.com/OCAP2/roundengine/internal/game"
	"github.com/OCAP2/roundengine/internal/unit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemperatureHeat(t *testing.T) {
	tests := []struct {
		temp, want int
	}{
		{25, 0}, {50, 0}, {51, 1}, {60, 1}, {61, 2},
		{-30, 0}, {-31, -1}, {-40, -1}, {-41, -2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, temperatureHeat(tt.temp), "temperature %d", tt.temp)
	}
}

func TestAccrueSources(t *testing.T) {
	g, b := setup(t, game.Options{}, dice.NewScripted())
	b.Temperature = 71
	e := mek(1)
	h, _ := b.Hex(*e.Position)
	h.Fire = true
	e.Equipment.Stealth = unit.System{Equipped: true, Active: true}
	e.Equipment.ECMSuite = unit.System{Equipped: true, Active: true}
	e.Equipment.Chameleon = unit.System{Equipped: true}
	e.Equipment.Capacitors = []unit.Capacitor{{Charged: true}, {}}
	e.Equipment.Vibroblades = []unit.Vibroblade{{Heat: 3, Active: true}, {Heat: 7}}
	e.Quirks = map[unit.Quirk]bool{unit.QuirkCombatComputer: true}
	e.Thermal.EMPInterferenceRounds = 2
	e.Thermal.HeatFromExternal = 40
	e.Thermal.CoolFromExternal = 12
	require.NoError(t, g.AddEntity(e))

	a := Accrue(g, e)
	assert.Equal(t, 10, a.Amount(SourceStealth))
	assert.Equal(t, 2, a.Amount(SourceECM))
	assert.Equal(t, 0, a.Amount(SourceChameleon), "equipped but inactive")
	assert.Equal(t, 5, a.Amount(SourceEMP))
	assert.Equal(t, 5, a.Amount(SourceCapacitor))
	assert.Equal(t, 3, a.Amount(SourceVibroblade))
	assert.Equal(t, -4, a.Amount(SourceQuirk))
	assert.Equal(t, 15, a.Amount(SourceExternalHeat))
	assert.Equal(t, -9, a.Amount(SourceExternalCooling))
	assert.Equal(t, 5, a.Amount(SourceFire))
	assert.Equal(t, 3, a.Amount(SourceTemperature))
	assert.Equal(t, 35, a.Total())

	assert.Equal(t, 40, e.Thermal.HeatFromExternal, "accrual does not touch the entity")
	commit(e, a)
	assert.Equal(t, 35, e.Thermal.HeatBuildup)
	assert.Equal(t, 0, e.Thermal.HeatFromExternal)
	assert.Equal(t, 0, e.Thermal.CoolFromExternal)
}

func TestAccrueFloorsAtZero(t *testing.T) {
	g, b := setup(t, game.Options{}, dice.NewScripted())
	b.Temperature = -80
	e := mek(1)
	e.Thermal.CoolFromExternal = 4
	require.NoError(t, g.AddEntity(e))

	a := Accrue(g, e)
	assert.Equal(t, -5, a.Amount(SourceTemperature))
	assert.Equal(t, 0, a.Total())
}

func TestAccrueMagmaAndDamagedRHS(t *testing.T) {
	g, b := setup(t, game.Options{MaxExternalHeat: 5}, dice.NewScripted())
	e := mek(1)
	h, _ := b.Hex(*e.Position)
	h.Magma = board.MagmaLiquid
	e.WeaponsFired = 2
	e.Equipment.HasRadicalHeatSink = true
	e.Equipment.Mounts = []unit.Mount{{Type: unit.MountRadicalHeatSink, Destroyed: true}}
	e.Thermal.HeatFromExternal = 8
	require.NoError(t, g.AddEntity(e))

	a := Accrue(g, e)
	assert.Equal(t, 10, a.Amount(SourceMagma))
	assert.Equal(t, 1, a.Amount(SourceDamagedRHS))
	assert.Equal(t, 5, a.Amount(SourceExternalHeat))

	e.Airborne = true
	assert.Equal(t, 0, Accrue(g, e).Amount(SourceMagma))
}

func TestTargets(t *testing.T) {
	assert.Equal(t, 4, avoidTarget(14))
	assert.Equal(t, 4, avoidTarget(17))
	assert.Equal(t, 6, avoidTarget(18))
	assert.Equal(t, 10, avoidTarget(29))

	assert.Equal(t, 4, infernoTarget(10))
	assert.Equal(t, 8, infernoTarget(20))
	assert.Equal(t, 12, infernoTarget(28))

	assert.Equal(t, 4, ammoTarget(19, false))
	assert.Equal(t, 8, ammoTarget(30, false))
	assert.Equal(t, 8, ammoTarget(40, false))
	assert.Equal(t, 12, ammoTarget(40, true))

	target, ok := rhsTarget(3)
	assert.True(t, ok)
	assert.Equal(t, 10, target)
	_, ok = rhsTarget(5)
	assert.False(t, ok)

	assert.Equal(t, 0, coolantFailureTarget(4))
	assert.Equal(t, 11, coolantFailureTarget(5))
	assert.Equal(t, 6, coolantFailureTarget(31))
}

func TestAmmoModifiersCombine(t *testing.T) {
	e := mek(1)
	assert.Equal(t, 0, ammoModifier(e))
	e.Crew.HotDog = true
	e.Equipment.LaserHeatSinks = true
	e.Crew.TechOfficer = true
	assert.Equal(t, 4, ammoModifier(e))
}

func TestAddMovementHeat(t *testing.T) {
	g, _ := setup(t, game.Options{}, dice.NewScripted())
	walker := mek(1)
	walker.Moved = unit.Walked
	jumper := mek(2)
	jumper.Moved = unit.Jumped
	jumper.JumpDistance = 5
	fighter := mek(3)
	fighter.Category = unit.Fighter
	fighter.Moved = unit.Ran
	for _, e := range []*unit.Entity{walker, jumper, fighter} {
		require.NoError(t, g.AddEntity(e))
	}

	AddMovementHeat(g)
	assert.Equal(t, 1, walker.Thermal.MovementHeat)
	assert.Equal(t, 5, jumper.Thermal.MovementHeat)
	assert.Equal(t, 0, fighter.Thermal.MovementHeat)
	assert.Equal(t, 1, Accrue(g, walker).Amount(SourceMovement))
}

func TestCheckFlawedCooling(t *testing.T) {
	roller := dice.NewScripted(10)
	g, _ := setup(t, game.Options{}, roller)
	flawed := mek(1)
	flawed.Quirks = map[unit.Quirk]bool{unit.QuirkFlawedCooling: true}
	flawed.DamagedThisPhase = true
	undamaged := mek(2)
	undamaged.Quirks = map[unit.Quirk]bool{unit.QuirkFlawedCooling: true}
	require.NoError(t, g.AddEntity(flawed))
	require.NoError(t, g.AddEntity(undamaged))

	CheckFlawedCooling(g)
	assert.True(t, flawed.Thermal.CoolingFlawActive)
	assert.False(t, undamaged.Thermal.CoolingFlawActive)
	assert.Equal(t, 1, roller.Used())
	assert.Equal(t, 5, Accrue(g, flawed).Amount(SourceCoolingFlaw))
}
