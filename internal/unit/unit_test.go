package unit

import (
	"testing"

	"github.com/OCAP2/roundengine/internal/hex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryCapabilities(t *testing.T) {
	tests := []struct {
		cat      Category
		heat     bool
		aero     bool
		infantry bool
		drop     bool
	}{
		{Mek, true, false, false, true},
		{Vehicle, false, false, false, false},
		{Infantry, false, false, true, true},
		{BattleArmor, false, false, true, true},
		{Fighter, true, true, false, false},
		{LargeCraft, true, true, false, false},
		{BuildingEntity, false, false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.cat.String(), func(t *testing.T) {
			assert.Equal(t, tt.heat, tt.cat.TracksHeat())
			assert.Equal(t, tt.aero, tt.cat.IsAero())
			assert.Equal(t, tt.infantry, tt.cat.IsInfantryClass())
			assert.Equal(t, tt.drop, tt.cat.CanAssaultDrop())
			assert.Equal(t, !tt.aero, tt.cat.IsSurface())
		})
	}
}

func TestParseCategory(t *testing.T) {
	c, ok := ParseCategory(" BattleArmor ")
	require.True(t, ok)
	assert.Equal(t, BattleArmor, c)

	_, ok = ParseCategory("tripod")
	assert.False(t, ok)
}

func TestLoadUnload(t *testing.T) {
	carrier := &Entity{ID: 1}
	cargo := &Entity{ID: 2, Position: &hex.Coords{Col: 3, Row: 3}}

	carrier.Load(cargo)
	carrier.Load(cargo)
	assert.Equal(t, []int{2}, carrier.Loaded)
	assert.Equal(t, 1, cargo.TransportID)
	assert.Nil(t, cargo.Position)
	assert.True(t, cargo.IsLoaded())

	assert.True(t, carrier.Unload(cargo))
	assert.Empty(t, carrier.Loaded)
	assert.False(t, cargo.IsLoaded())
	assert.False(t, carrier.Unload(cargo))
}

func TestHeatCapacity(t *testing.T) {
	e := &Entity{Equipment: Equipment{HeatSinks: 10, DoubleHeatSinks: true}}
	assert.Equal(t, 20, e.HeatCapacity())

	e.Thermal.CoolantFailure = 3
	assert.Equal(t, 17, e.HeatCapacity())

	e.Thermal.CoolantFailure = 50
	assert.Equal(t, 0, e.HeatCapacity())
}

func TestOccupiedHexes(t *testing.T) {
	e := &Entity{Category: BuildingEntity}
	assert.Nil(t, e.OccupiedHexes())

	pos := hex.Coords{Col: 5, Row: 5}
	e.Position = &pos
	e.Building = &BuildingSpec{Footprint: []hex.Facing{hex.North, hex.South}}
	hexes := e.OccupiedHexes()
	require.Len(t, hexes, 3)
	assert.Equal(t, pos, hexes[0])
	assert.Equal(t, pos.Neighbor(hex.North), hexes[1])
}

func TestShutdownCauses(t *testing.T) {
	var th Thermal
	assert.False(t, th.IsShutdown())
	assert.Equal(t, "running", th.Shutdown.String())

	th.ShutDown(CauseHeat)
	th.ShutDown(CauseEMP)
	th.EMPRounds = 2
	assert.True(t, th.Shutdown.Has(CauseHeat|CauseEMP))
	assert.Equal(t, "heat|emp", th.Shutdown.String())
	assert.True(t, th.ExternallyForced())

	th.TickCountdowns()
	assert.Equal(t, 1, th.EMPRounds)
	assert.True(t, th.Shutdown.Has(CauseEMP))

	th.TickCountdowns()
	assert.Equal(t, 0, th.EMPRounds)
	assert.False(t, th.Shutdown.Has(CauseEMP))
	assert.False(t, th.ExternallyForced())
	assert.True(t, th.Shutdown.Has(CauseHeat))
}

func TestFindMount(t *testing.T) {
	eq := Equipment{
		HasRadicalHeatSink: true,
		Mounts: []Mount{
			{Type: MountCoolantPod, Location: "lt"},
			{Type: MountRadicalHeatSink, Location: "rt"},
		},
	}
	assert.True(t, eq.RadicalHeatSinkUsable())

	m := eq.FindMount(MountRadicalHeatSink)
	require.NotNil(t, m)
	m.Destroyed = true
	assert.False(t, eq.RadicalHeatSinkUsable())
	assert.Nil(t, eq.FindMount(MountLifeSupport))
}
