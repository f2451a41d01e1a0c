// Package unit holds the per-entity records mutated during a round: position,
// crew, equipment and thermal state.
package unit

import (
	"github.com/OCAP2/roundengine/internal/hex"
)

// None marks an unset entity reference (transport id, action target).
const None = 0

// Crew describes the pilot or crew of an entity.
type Crew struct {
	Piloting    int  `json:"piloting" yaml:"piloting"`
	Gunnery     int  `json:"gunnery" yaml:"gunnery"`
	Hits        int  `json:"hits"`
	Unconscious bool `json:"unconscious"`
	Dead        bool `json:"dead"`
	Doomed      bool `json:"doomed"`
	HotDog      bool `json:"hotDog" yaml:"hotDog"`           // runs hot: -1 to heat avoidance targets
	TechOfficer bool `json:"techOfficer" yaml:"techOfficer"` // -2 to heat ammo explosion targets
}

// Active reports whether the crew can make rolls.
func (c Crew) Active() bool {
	return !c.Unconscious && !c.Dead && !c.Doomed
}

// MoveKind is how an entity moved this round.
type MoveKind int

const (
	NotMoved MoveKind = iota
	Walked
	Ran
	Jumped
)

// ActionStamp records an entity's part in an infantry engagement.
type ActionStamp struct {
	Target   int  `json:"target"`
	Attacker bool `json:"attacker"`
	Turns    int  `json:"turns"`
}

// BuildingSpec is the terrain an entity of category BuildingEntity stamps
// onto the board.
type BuildingSpec struct {
	Height    int          `json:"height" yaml:"height"`
	CF        int          `json:"cf" yaml:"cf"`
	Footprint []hex.Facing `json:"footprint" yaml:"footprint"`
}

// Entity is a single unit in the game.
type Entity struct {
	ID       int      `json:"id"`
	Owner    int      `json:"owner"`
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Tonnage  int      `json:"tonnage"`
	Crew     Crew     `json:"crew"`

	Destroyed bool `json:"destroyed"`
	Doomed    bool `json:"doomed"`
	Done      bool `json:"done"`
	Deployed  bool `json:"deployed"`

	// DeployedBefore is set on the first deployment and survives trips off board.
	DeployedBefore bool `json:"deployedBefore"`
	// ReturningFromOffBoard marks a unit that left the board and is being redeployed.
	ReturningFromOffBoard bool `json:"returningFromOffBoard"`
	DeployRound           int  `json:"deployRound"`

	Position        *hex.Coords `json:"position"`
	BoardID         int         `json:"boardId"`
	Facing          hex.Facing  `json:"facing"`
	SecondaryFacing hex.Facing  `json:"secondaryFacing"`
	Elevation       int         `json:"elevation"`
	Altitude        int         `json:"altitude"`
	Airborne        bool        `json:"airborne"`
	Velocity        int         `json:"velocity"`
	NextVelocity    int         `json:"nextVelocity"`
	Vectors         [6]int      `json:"vectors"`
	ExitAltitude    *int        `json:"exitAltitude,omitempty"`
	Spheroid        bool        `json:"spheroid"`
	AssaultDropping bool        `json:"assaultDropping"`

	TransportID int   `json:"transportId"`
	Loaded      []int `json:"loaded"`

	InfantryAction *ActionStamp `json:"infantryAction,omitempty"`

	Moved        MoveKind `json:"moved"`
	JumpDistance int      `json:"jumpDistance"`
	WeaponsFired int      `json:"weaponsFired"`
	// DamagedThisPhase is raised by damage application and drives flawed cooling checks.
	DamagedThisPhase bool `json:"damagedThisPhase"`

	Equipment Equipment      `json:"equipment"`
	Quirks    map[Quirk]bool `json:"quirks,omitempty"`
	Thermal   Thermal        `json:"thermal"`
	Building  *BuildingSpec  `json:"building,omitempty"`
}

// TracksHeat reports whether the entity runs the heat pipeline.
func (e *Entity) TracksHeat() bool {
	return e.Category.TracksHeat()
}

// IsAero reports whether the entity is an aerospace unit.
func (e *Entity) IsAero() bool {
	return e.Category.IsAero()
}

// IsInfantryClass reports whether the entity can join infantry engagements.
func (e *Entity) IsInfantryClass() bool {
	return e.Category.IsInfantryClass()
}

// HasQuirk reports whether the design quirk is present.
func (e *Entity) HasQuirk(q Quirk) bool {
	return e.Quirks[q]
}

// Gone reports whether the entity is out of play for resolution purposes.
func (e *Entity) Gone() bool {
	return e.Destroyed || e.Doomed || e.Crew.Dead || e.Crew.Doomed
}

// OnBoard reports whether the entity has a board position.
func (e *Entity) OnBoard() bool {
	return e.Position != nil
}

// IsLoaded reports whether the entity is carried by a transport.
func (e *Entity) IsLoaded() bool {
	return e.TransportID != None
}

// Load records cargo as carried by e.
func (e *Entity) Load(cargo *Entity) {
	cargo.TransportID = e.ID
	cargo.Position = nil
	for _, id := range e.Loaded {
		if id == cargo.ID {
			return
		}
	}
	e.Loaded = append(e.Loaded, cargo.ID)
}

// Unload detaches cargo from e. It reports false when cargo was not aboard.
func (e *Entity) Unload(cargo *Entity) bool {
	for i, id := range e.Loaded {
		if id == cargo.ID {
			e.Loaded = append(e.Loaded[:i], e.Loaded[i+1:]...)
			cargo.TransportID = None
			return true
		}
	}
	return false
}

// Land puts an airborne unit on the ground.
func (e *Entity) Land() {
	e.Altitude = 0
	e.Elevation = 0
	e.Airborne = false
}

// LiftOff puts the unit in the air at the given altitude.
func (e *Entity) LiftOff(altitude int) {
	e.Altitude = altitude
	e.Airborne = true
}

// OccupiedHexes returns every hex covered by the entity. Only building
// entities cover more than their position.
func (e *Entity) OccupiedHexes() []hex.Coords {
	if e.Position == nil {
		return nil
	}
	out := []hex.Coords{*e.Position}
	if e.Building == nil {
		return out
	}
	for _, f := range e.Building.Footprint {
		out = append(out, e.Position.Neighbor(f))
	}
	return out
}

// HeatCapacity is the number of heat points the entity can sink per round,
// before any radical heat sink or coolant pod bonus.
func (e *Entity) HeatCapacity() int {
	capacity := e.Equipment.HeatSinks
	if e.Equipment.DoubleHeatSinks {
		capacity *= 2
	}
	capacity -= e.Thermal.CoolantFailure
	return max(0, capacity)
}
