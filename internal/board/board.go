// Package board holds the terrain the round engine reads during deployment
// and heat resolution.
package board

import (
	"strings"

	"github.com/OCAP2/roundengine/internal/hex"
)

// Atmosphere is the atmospheric density of a board.
type Atmosphere int

const (
	Vacuum Atmosphere = iota
	Trace
	Thin
	Standard
	High
	VeryHigh
)

var atmosphereNames = []string{"vacuum", "trace", "thin", "standard", "high", "very_high"}

func (a Atmosphere) String() string {
	if a < 0 || int(a) >= len(atmosphereNames) {
		return "unknown"
	}
	return atmosphereNames[a]
}

// ParseAtmosphere maps a name back to its value.
func ParseAtmosphere(s string) (Atmosphere, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range atmosphereNames {
		if name == s {
			return Atmosphere(i), true
		}
	}
	return 0, false
}

// ThinnerThanThin reports whether airborne units cannot hold velocity.
func (a Atmosphere) ThinnerThanThin() bool {
	return a < Thin
}

// MagmaState is the magma terrain of a hex.
type MagmaState int

const (
	NoMagma MagmaState = iota
	MagmaCrust
	MagmaLiquid
)

// BasementType is the basement under a building hex. BasementUnknown means
// no unit has entered the hex yet.
type BasementType int

const (
	BasementUnknown BasementType = iota
	BasementNone
	BasementShallow
	BasementOneDeep
	BasementTwoDeep
)

var basementNames = map[BasementType]string{
	BasementUnknown: "unknown",
	BasementNone:    "none",
	BasementShallow: "shallow",
	BasementOneDeep: "one level",
	BasementTwoDeep: "two levels",
}

func (b BasementType) String() string {
	return basementNames[b]
}

// basementFromRoll maps a 2d6 total to a basement.
func basementFromRoll(total int) BasementType {
	switch {
	case total <= 3:
		return BasementOneDeep
	case total <= 9:
		return BasementNone
	case total <= 11:
		return BasementShallow
	default:
		return BasementTwoDeep
	}
}

// Hex is a single board hex.
type Hex struct {
	Coords hex.Coords `json:"coords" yaml:"coords"`
	Level  int        `json:"level" yaml:"level"`
	Fire   bool       `json:"fire" yaml:"fire"`
	Magma  MagmaState `json:"magma" yaml:"magma"`
	// Ceiling is the altitude occupied by terrain; airborne units must stay above it.
	Ceiling    int          `json:"ceiling" yaml:"ceiling"`
	BuildingID int          `json:"buildingId" yaml:"buildingId"`
	Basement   BasementType `json:"basement"`
	Collapsed  bool         `json:"collapsed"`
}

// Building is a structure covering one or more hexes.
type Building struct {
	ID     int          `json:"id" yaml:"id"`
	Name   string       `json:"name" yaml:"name"`
	Height int          `json:"height" yaml:"height"`
	CF     int          `json:"cf" yaml:"cf"`
	Wall   bool         `json:"wall" yaml:"wall"`
	Hexes  []hex.Coords `json:"hexes" yaml:"hexes"`
	// EntityID is set when the building is itself a game entity.
	EntityID int `json:"entityId,omitempty"`
}

// Zone is a rectangular deployment area, bounds inclusive.
type Zone struct {
	MinCol int `json:"minCol" yaml:"minCol"`
	MaxCol int `json:"maxCol" yaml:"maxCol"`
	MinRow int `json:"minRow" yaml:"minRow"`
	MaxRow int `json:"maxRow" yaml:"maxRow"`
}

// Contains reports whether c lies in the zone.
func (z Zone) Contains(c hex.Coords) bool {
	return c.Col >= z.MinCol && c.Col <= z.MaxCol && c.Row >= z.MinRow && c.Row <= z.MaxRow
}

// Board is a single map.
type Board struct {
	ID          int        `json:"id" yaml:"id"`
	Name        string     `json:"name" yaml:"name"`
	Width       int        `json:"width" yaml:"width"`
	Height      int        `json:"height" yaml:"height"`
	Space       bool       `json:"space" yaml:"space"`
	Atmosphere  Atmosphere `json:"atmosphere" yaml:"atmosphere"`
	Temperature int        `json:"temperature" yaml:"temperature"`
	// Zones maps player id to the player's deployment area. A player with
	// no zone may deploy anywhere on the board.
	Zones map[int]Zone `json:"zones" yaml:"zones"`

	hexes     map[hex.Coords]*Hex
	buildings map[int]*Building
	nextBldg  int
}

// New creates a flat board of the given size at standard atmosphere.
func New(id, width, height int) *Board {
	b := &Board{
		ID:          id,
		Width:       width,
		Height:      height,
		Atmosphere:  Standard,
		Temperature: 25,
		Zones:       make(map[int]Zone),
		hexes:       make(map[hex.Coords]*Hex),
		buildings:   make(map[int]*Building),
		nextBldg:    1,
	}
	for col := 1; col <= width; col++ {
		for row := 1; row <= height; row++ {
			c := hex.Coords{Col: col, Row: row}
			b.hexes[c] = &Hex{Coords: c}
		}
	}
	return b
}

// Contains reports whether c is on the board.
func (b *Board) Contains(c hex.Coords) bool {
	return c.Col >= 1 && c.Col <= b.Width && c.Row >= 1 && c.Row <= b.Height
}

// Hex returns the hex at c.
func (b *Board) Hex(c hex.Coords) (*Hex, bool) {
	h, ok := b.hexes[c]
	return h, ok
}

// AddBuilding places bldg on the board, assigning an id when it has none.
// Hexes outside the board are ignored.
func (b *Board) AddBuilding(bldg *Building) *Building {
	if bldg.ID == 0 {
		bldg.ID = b.nextBldg
	}
	if bldg.ID >= b.nextBldg {
		b.nextBldg = bldg.ID + 1
	}
	b.buildings[bldg.ID] = bldg
	for _, c := range bldg.Hexes {
		if h, ok := b.hexes[c]; ok {
			h.BuildingID = bldg.ID
		}
	}
	return bldg
}

// Building returns the building covering c.
func (b *Board) Building(c hex.Coords) (*Building, bool) {
	h, ok := b.hexes[c]
	if !ok || h.BuildingID == 0 {
		return nil, false
	}
	bldg, ok := b.buildings[h.BuildingID]
	return bldg, ok
}

// Buildings returns every building on the board.
func (b *Board) Buildings() []*Building {
	out := make([]*Building, 0, len(b.buildings))
	for id := 1; id < b.nextBldg; id++ {
		if bldg, ok := b.buildings[id]; ok {
			out = append(out, bldg)
		}
	}
	return out
}
