package deploy

import (
	"fmt"

	"github.com/OCAP2/roundengine/internal/game"
	"github.com/OCAP2/roundengine/internal/hex"
	"github.com/OCAP2/roundengine/internal/report"
	"github.com/OCAP2/roundengine/internal/unit"
)

// Commit applies a validated action. The steps run in a fixed order since
// later steps read what earlier ones set.
func Commit(g *game.Game, a Action) error {
	e, ok := g.Entity(a.Entity)
	if !ok {
		return fmt.Errorf("%w: commit of unknown entity %d", game.ErrInvariant, a.Entity)
	}

	loadCargo(g, e, a.Cargo)
	if g.Options.VectorMovement && e.Category.SupportsVectorMovement() {
		seedVectors(e, a.Facing)
	}

	pos := a.Coords
	e.Position = &pos
	e.BoardID = a.BoardID
	e.Facing = a.Facing.Normalize()
	e.SecondaryFacing = e.Facing

	elevation := a.Elevation
	if e.ReturningFromOffBoard && e.ExitAltitude != nil {
		elevation = *e.ExitAltitude
		e.ExitAltitude = nil
	}
	space := g.Boards.IsSpace(a.BoardID)
	setElevation(g, e, a, elevation, space)

	if a.AssaultDrop && g.Options.AssaultDrop && e.Category.CanAssaultDrop() {
		e.Altitude = 1
		e.AssaultDropping = true
	} else if e.Category.IsSurface() {
		for stackingViolation(g, e) && e.Elevation < maxStackingElevation {
			e.Elevation++
		}
	}
	if e.Airborne && !space {
		clampAirborne(g, e)
	}

	if !e.IsAero() {
		enterBuilding(g, e)
	}
	if e.Category.IsBuilding() && e.Building != nil {
		if err := g.Boards.AddBuildingTerrain(e.BoardID, e.OccupiedHexes(), *e.Building, e.ID); err != nil {
			return fmt.Errorf("stamp building terrain for entity %d: %w", e.ID, err)
		}
	}

	e.Done = true
	e.Deployed = true
	e.DeployedBefore = true
	e.ReturningFromOffBoard = false
	g.Report(report.About(report.Deployed, e.ID, e.Owner, pos.String(), a.BoardID))
	g.Logger.Debug("Entity deployed", "entity", e.ID, "coords", pos.String(), "board", a.BoardID,
		"elevation", e.Elevation, "altitude", e.Altitude)
	g.NotifyEntity(e.ID)
	for _, id := range e.Loaded {
		g.NotifyEntity(id)
	}
	return nil
}

// loadCargo puts every listed unit aboard e. A cargo unit that already has
// a position is left alone and logged as an error.
func loadCargo(g *game.Game, e *unit.Entity, cargo []int) {
	for _, id := range cargo {
		c, ok := g.Entity(id)
		if !ok {
			continue
		}
		if c.TransportID == e.ID {
			continue
		}
		if c.Position != nil || c.IsLoaded() {
			g.Logger.Error("Cargo already placed, not loading", "transport", e.ID, "cargo", id,
				"transportId", c.TransportID)
			g.Report(report.About(report.CargoConflict, e.ID, e.Owner, id))
			continue
		}
		hadTurn := g.IsEligible(c)
		e.Load(c)
		if hadTurn {
			g.RemoveTurnFor(c)
		}
		if c.IsInfantryClass() && g.Engagements.Has(e.ID) {
			g.Engagements.Reinforce(e.ID, c, false)
			g.Report(report.About(report.EngagementReinforced, c.ID, c.Owner, e.ID))
		}
	}
}

// seedVectors sets the movement vectors of an aerospace unit. A first
// deployment puts all velocity along the new facing. A unit returning from
// off board keeps its vectors rotated to the new facing at half strength.
func seedVectors(e *unit.Entity, facing hex.Facing) {
	facing = facing.Normalize()
	if !e.DeployedBefore {
		e.Vectors = [6]int{}
		e.Vectors[facing] = e.Velocity
		e.NextVelocity = e.Velocity
		return
	}
	if !e.ReturningFromOffBoard {
		return
	}
	turn := int(facing) - int(e.Facing)
	var rotated [6]int
	for i, v := range e.Vectors {
		rotated[hex.Facing(i).Rotate(turn)] = v / 2
	}
	e.Vectors = rotated
	e.Velocity /= 2
	e.NextVelocity = e.Velocity
}

func setElevation(g *game.Game, e *unit.Entity, a Action, elevation int, space bool) {
	if e.Category.IsAirborneCapable() {
		if elevation == 0 && !space {
			e.Land()
		} else {
			e.LiftOff(elevation)
		}
		return
	}
	e.Elevation = elevation
	if bldg, ok := g.Boards.Building(a.BoardID, a.Coords); ok && bldg.Wall {
		e.Elevation = bldg.Height
	}
}

// stackingViolation reports whether another non-infantry surface unit
// already holds e's hex at e's elevation.
func stackingViolation(g *game.Game, e *unit.Entity) bool {
	if e.IsInfantryClass() {
		return false
	}
	for _, o := range g.EntitiesAt(e.BoardID, *e.Position) {
		if o.ID == e.ID || !o.Deployed || o.IsAero() || o.IsInfantryClass() {
			continue
		}
		if o.Elevation == e.Elevation {
			return true
		}
	}
	return false
}

func clampAirborne(g *game.Game, e *unit.Entity) {
	if h, ok := g.Boards.Hex(e.BoardID, *e.Position); ok && e.Altitude <= h.Ceiling {
		e.Altitude = h.Ceiling + 1
	}
	if g.Boards.Atmosphere(e.BoardID).ThinnerThanThin() || e.Spheroid {
		e.Velocity = 0
		e.NextVelocity = 0
	}
}

// enterBuilding rolls the basement of a building hex entered for the first
// time and checks whether the added load collapses it.
func enterBuilding(g *game.Game, e *unit.Entity) {
	bldg, ok := g.Boards.Building(e.BoardID, *e.Position)
	if !ok {
		return
	}
	if bt, rolled := g.Boards.RollBasement(e.BoardID, *e.Position, g.Roller); rolled {
		g.Report(report.About(report.BasementRolled, e.ID, e.Owner, e.Position.String(), bt.String()))
	}
	load := 0
	for _, o := range g.EntitiesAt(e.BoardID, *e.Position) {
		if !o.IsAero() && o.Elevation <= bldg.Height {
			load += o.Tonnage
		}
	}
	if !g.Boards.CheckCollapse(e.BoardID, *e.Position, load) {
		return
	}
	g.Report(report.About(report.BuildingCollapse, e.ID, e.Owner, bldg.ID, e.Position.String()))
	if e.Elevation > 0 {
		e.Elevation--
	}
}
