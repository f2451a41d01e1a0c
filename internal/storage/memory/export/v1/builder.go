package v1

import (
	"cmp"
	"slices"

	"github.com/OCAP2/roundengine/pkg/core"
)

// GameData contains all the data needed to build an export
type GameData struct {
	Info     *core.GameInfo
	Result   *core.GameResult
	Entities map[int]*EntityRecord
	Phases   []core.PhaseRecord
	Rounds   []core.RoundRecord
}

// EntityRecord groups an entity's snapshots in recording order
type EntityRecord struct {
	States []core.EntityState
}

// Build creates an Export from the game data
func Build(data *GameData) Export {
	export := Export{
		FormatVersion: FormatVersion,
		Entities:      make([]Entity, 0),
		Phases:        make([]Phase, 0, len(data.Phases)),
		RoundLog:      make([]Round, 0, len(data.Rounds)),
	}
	if data.Info != nil {
		export.Game = *data.Info
	}
	if data.Result != nil {
		end := data.Result.EndTime
		export.EndTime = &end
		export.Rounds = data.Result.Rounds
		export.WinningTeam = data.Result.WinningTeam
	}

	// index == entity id
	maxID := 0
	for id, record := range data.Entities {
		if len(record.States) > 0 {
			maxID = max(maxID, id)
		}
	}
	if maxID > 0 {
		export.Entities = make([]Entity, maxID+1)
	}
	for id, record := range data.Entities {
		if len(record.States) == 0 {
			continue
		}
		last := record.States[len(record.States)-1]
		entity := Entity{
			ID:       id,
			Name:     last.Name,
			Owner:    last.Owner,
			Category: last.Category,
			Track:    make([][]any, 0, len(record.States)),
		}
		for _, s := range record.States {
			entity.Track = append(entity.Track, trackRow(s))
			export.Rounds = max(export.Rounds, s.Round)
		}
		export.Entities[id] = entity
	}

	for _, p := range data.Phases {
		export.Phases = append(export.Phases, Phase{
			Round:   p.Round,
			Phase:   p.Phase,
			Turns:   p.Turns,
			Reports: p.Reports,
		})
	}

	rounds := slices.Clone(data.Rounds)
	slices.SortStableFunc(rounds, func(a, b core.RoundRecord) int { return cmp.Compare(a.Round, b.Round) })
	for _, r := range rounds {
		export.RoundLog = append(export.RoundLog, Round{
			Round:       r.Round,
			Initiative:  r.Initiative,
			Engagements: r.Engagements,
			AreaEffects: r.AreaEffects,
		})
		export.Rounds = max(export.Rounds, r.Round)
	}

	return export
}

func trackRow(s core.EntityState) []any {
	boardID, col, row := 0, -1, -1
	if s.Position != nil {
		boardID, col, row = s.Position.BoardID, s.Position.Col, s.Position.Row
	}
	return []any{
		s.Round,
		s.Phase,
		boardID,
		col,
		row,
		s.Facing,
		s.Thermal.Heat,
		s.Thermal.Shutdown,
		boolToInt(s.Destroyed),
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
