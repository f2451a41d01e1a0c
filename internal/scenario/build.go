package scenario

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/OCAP2/roundengine/internal/board"
	"github.com/OCAP2/roundengine/internal/config"
	"github.com/OCAP2/roundengine/internal/dice"
	"github.com/OCAP2/roundengine/internal/game"
	"github.com/OCAP2/roundengine/internal/hex"
	"github.com/OCAP2/roundengine/internal/unit"
)

// Built is a game created from a scenario.
type Built struct {
	Game   *game.Game
	Boards *board.Set
	Roller *dice.Stream
	// Seed is the seed the roll stream was created with.
	Seed uint64
}

// Options resolves the rule switches: the scenario's when it has them,
// otherwise the configured ones.
func (s *Scenario) Options(defaults config.RulesConfig) game.Options {
	if s.Rules != nil {
		return game.Options{
			ExtendedHeat:    s.Rules.ExtendedHeat,
			AssaultDrop:     s.Rules.AssaultDrop,
			Minefields:      s.Rules.Minefields,
			CoolantFailure:  s.Rules.CoolantFailure,
			VectorMovement:  s.Rules.VectorMovement,
			MaxExternalHeat: s.Rules.MaxExternalHeat,
		}
	}
	return game.Options{
		ExtendedHeat:    defaults.ExtendedHeat,
		AssaultDrop:     defaults.AssaultDrop,
		Minefields:      defaults.Minefields,
		CoolantFailure:  defaults.CoolantFailure,
		VectorMovement:  defaults.VectorMovement,
		MaxExternalHeat: defaults.MaxExternalHeat,
	}
}

// ResolveSeed returns the scenario seed, then the configured one, then a
// time-based one.
func (s *Scenario) ResolveSeed(defaults config.RulesConfig) uint64 {
	switch {
	case s.Seed != 0:
		return s.Seed
	case defaults.Seed != 0:
		return defaults.Seed
	}
	return uint64(time.Now().UnixNano())
}

// Build creates the game in the lounge. Entities with a position are
// placed deployed.
func (s *Scenario) Build(defaults config.RulesConfig, b game.Broadcaster, logger *slog.Logger) (*Built, error) {
	set, err := s.boards()
	if err != nil {
		return nil, err
	}
	seed := s.ResolveSeed(defaults)
	roller := dice.NewStream(seed)
	opts := s.Options(defaults)
	g := game.New(opts, set, roller, b, logger)

	for i := range s.Players {
		p := s.Players[i]
		if !opts.Minefields {
			p.Minefields = 0
		}
		if err := g.AddPlayer(&p); err != nil {
			return nil, fmt.Errorf("scenario: %w", err)
		}
	}
	for _, spec := range s.Entities {
		e, err := spec.entity()
		if err != nil {
			return nil, err
		}
		if err := g.AddEntity(e); err != nil {
			return nil, fmt.Errorf("scenario: %w", err)
		}
		if e.Deployed && e.Building != nil && e.Category.IsBuilding() {
			if err := set.AddBuildingTerrain(e.BoardID, e.OccupiedHexes(), *e.Building, e.ID); err != nil {
				return nil, fmt.Errorf("scenario: entity %d: %w", e.ID, err)
			}
		}
	}

	return &Built{Game: g, Boards: set, Roller: roller, Seed: seed}, nil
}

func (s *Scenario) boards() (*board.Set, error) {
	set := board.NewSet()
	for _, spec := range s.Boards {
		b := board.New(spec.ID, spec.Width, spec.Height)
		b.Name = spec.Name
		b.Space = spec.Space
		if spec.Atmosphere != "" {
			a, ok := board.ParseAtmosphere(spec.Atmosphere)
			if !ok {
				return nil, invalid("board %d atmosphere %q", spec.ID, spec.Atmosphere)
			}
			b.Atmosphere = a
		}
		if spec.Temperature != nil {
			b.Temperature = *spec.Temperature
		}
		for player, z := range spec.Zones {
			b.Zones[player] = z
		}
		for _, h := range spec.Hexes {
			target, ok := b.Hex(h.Coords)
			if !ok {
				return nil, invalid("board %d hex %s", spec.ID, h.Coords)
			}
			target.Level = h.Level
			target.Fire = h.Fire
			target.Magma = h.Magma
			target.Ceiling = h.Ceiling
		}
		for _, bldg := range spec.Buildings {
			b.AddBuilding(&bldg)
		}
		set.Add(b)
	}
	return set, nil
}

func (spec EntitySpec) entity() (*unit.Entity, error) {
	cat, ok := unit.ParseCategory(spec.Category)
	if !ok {
		return nil, invalid("entity %d category %q", spec.ID, spec.Category)
	}
	e := &unit.Entity{
		ID:          spec.ID,
		Owner:       spec.Owner,
		Name:        spec.Name,
		Category:    cat,
		Tonnage:     spec.Tonnage,
		Crew:        spec.Crew,
		DeployRound: spec.DeployRound,
		Facing:      hex.Facing(spec.Facing).Normalize(),
		Elevation:   spec.Elevation,
		Altitude:    spec.Altitude,
		Airborne:    spec.Airborne,
		Spheroid:    spec.Spheroid,
		Equipment:   spec.Equipment,
		Thermal:     spec.Thermal,
		Building:    spec.Building,
	}
	e.SecondaryFacing = e.Facing
	if len(spec.Quirks) > 0 {
		e.Quirks = make(map[unit.Quirk]bool, len(spec.Quirks))
		for _, q := range spec.Quirks {
			e.Quirks[q] = true
		}
	}
	if spec.Position != nil {
		pos := *spec.Position
		e.Position = &pos
		e.BoardID = spec.BoardID
		e.Deployed = true
		e.DeployedBefore = true
	}
	return e, nil
}

// Args renders the deployment as :DEPLOY: command arguments.
func (d DeploymentSpec) Args(player int) []string {
	args := []string{
		strconv.Itoa(player),
		strconv.Itoa(d.Entity),
		strconv.Itoa(d.BoardID),
		strconv.Itoa(d.Coords.Col),
		strconv.Itoa(d.Coords.Row),
		strconv.Itoa(d.Facing),
		strconv.Itoa(d.Elevation),
		strconv.FormatBool(d.AssaultDrop),
	}
	if len(d.Cargo) > 0 {
		cargo, _ := json.Marshal(d.Cargo)
		args = append(args, string(cargo))
	}
	return args
}

// Args renders the field as :EMP: command arguments.
func (e EMPSpec) Args() []string {
	return []string{
		strconv.Itoa(e.BoardID),
		strconv.Itoa(e.Center.Col),
		strconv.Itoa(e.Center.Row),
		strconv.Itoa(e.Radius),
		strconv.Itoa(e.Rounds),
	}
}
