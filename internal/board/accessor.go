package board

import (
	"errors"
	"fmt"
	"slices"

	"github.com/OCAP2/roundengine/internal/dice"
	"github.com/OCAP2/roundengine/internal/hex"
	"github.com/OCAP2/roundengine/internal/unit"
)

// ErrUnknownBoard is returned when a board id is not in the set.
var ErrUnknownBoard = errors.New("unknown board")

// Accessor is the terrain view consumed by round resolution.
type Accessor interface {
	Hex(boardID int, c hex.Coords) (*Hex, bool)
	Building(boardID int, c hex.Coords) (*Building, bool)
	IsLegalDeployment(boardID int, c hex.Coords, e *unit.Entity) bool
	// RollBasement rolls the basement of a building hex entered for the first
	// time. rolled is false when the hex has no building or was already rolled.
	RollBasement(boardID int, c hex.Coords, r dice.Roller) (b BasementType, rolled bool)
	// CheckCollapse collapses the building hex when load exceeds its
	// construction factor and reports whether it did.
	CheckCollapse(boardID int, c hex.Coords, load int) bool
	IsSpace(boardID int) bool
	Atmosphere(boardID int) Atmosphere
	Temperature(boardID int) int
	AddBuildingTerrain(boardID int, cells []hex.Coords, spec unit.BuildingSpec, entityID int) error
}

// Set is the in-memory Accessor over a group of boards.
type Set struct {
	boards map[int]*Board
}

// NewSet creates a set from boards.
func NewSet(boards ...*Board) *Set {
	s := &Set{boards: make(map[int]*Board, len(boards))}
	for _, b := range boards {
		s.boards[b.ID] = b
	}
	return s
}

// Add registers b, replacing any board with the same id.
func (s *Set) Add(b *Board) {
	s.boards[b.ID] = b
}

// Board returns the board with id.
func (s *Set) Board(id int) (*Board, bool) {
	b, ok := s.boards[id]
	return b, ok
}

// Boards returns every board in ascending id order.
func (s *Set) Boards() []*Board {
	out := make([]*Board, 0, len(s.boards))
	for _, b := range s.boards {
		out = append(out, b)
	}
	slices.SortFunc(out, func(a, b *Board) int { return a.ID - b.ID })
	return out
}

// Len returns the number of boards.
func (s *Set) Len() int {
	return len(s.boards)
}

func (s *Set) Hex(boardID int, c hex.Coords) (*Hex, bool) {
	b, ok := s.boards[boardID]
	if !ok {
		return nil, false
	}
	return b.Hex(c)
}

func (s *Set) Building(boardID int, c hex.Coords) (*Building, bool) {
	b, ok := s.boards[boardID]
	if !ok {
		return nil, false
	}
	return b.Building(c)
}

func (s *Set) IsLegalDeployment(boardID int, c hex.Coords, e *unit.Entity) bool {
	b, ok := s.boards[boardID]
	if !ok || !b.Contains(c) {
		return false
	}
	h, _ := b.Hex(c)
	if h.Magma == MagmaLiquid && e.Category.IsSurface() {
		return false
	}
	if zone, ok := b.Zones[e.Owner]; ok {
		return zone.Contains(c)
	}
	return true
}

func (s *Set) RollBasement(boardID int, c hex.Coords, r dice.Roller) (BasementType, bool) {
	h, ok := s.Hex(boardID, c)
	if !ok || h.BuildingID == 0 || h.Basement != BasementUnknown {
		if ok {
			return h.Basement, false
		}
		return BasementUnknown, false
	}
	h.Basement = basementFromRoll(r.Roll2D6().Total)
	return h.Basement, true
}

func (s *Set) CheckCollapse(boardID int, c hex.Coords, load int) bool {
	h, ok := s.Hex(boardID, c)
	if !ok || h.Collapsed {
		return false
	}
	bldg, ok := s.Building(boardID, c)
	if !ok || load <= bldg.CF {
		return false
	}
	h.Collapsed = true
	return true
}

func (s *Set) IsSpace(boardID int) bool {
	b, ok := s.boards[boardID]
	return ok && b.Space
}

func (s *Set) Atmosphere(boardID int) Atmosphere {
	b, ok := s.boards[boardID]
	if !ok {
		return Standard
	}
	if b.Space {
		return Vacuum
	}
	return b.Atmosphere
}

func (s *Set) Temperature(boardID int) int {
	b, ok := s.boards[boardID]
	if !ok {
		return 25
	}
	return b.Temperature
}

func (s *Set) AddBuildingTerrain(boardID int, cells []hex.Coords, spec unit.BuildingSpec, entityID int) error {
	b, ok := s.boards[boardID]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownBoard, boardID)
	}
	var in []hex.Coords
	for _, c := range cells {
		if b.Contains(c) {
			in = append(in, c)
		}
	}
	if len(in) == 0 {
		return fmt.Errorf("building entity %d has no hexes on board %d", entityID, boardID)
	}
	b.AddBuilding(&Building{
		Height:   spec.Height,
		CF:       spec.CF,
		Hexes:    in,
		EntityID: entityID,
	})
	return nil
}
