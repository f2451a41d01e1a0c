// Package convert provides functions to convert between GORM models and core models
package convert

import (
	"encoding/json"

	geom "github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"

	"github.com/OCAP2/roundengine/internal/model"
	"github.com/OCAP2/roundengine/pkg/core"
)

// positionToPoint converts a core.Position to a 2D geom.Point
func positionToPoint(p core.Position) geom.Point {
	return geom.NewPoint(geom.Coordinates{XY: geom.XY{X: p.X, Y: p.Y}, Type: geom.DimXY})
}

// toJSON marshals v for a JSON column. nil slices become "[]".
func toJSON[T any](v []T) datatypes.JSON {
	if len(v) == 0 {
		return datatypes.JSON("[]")
	}
	data, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON("[]")
	}
	return datatypes.JSON(data)
}

// CoreToGame converts a core.GameInfo to a GORM model.Game with its boards.
func CoreToGame(g core.GameInfo) model.Game {
	out := model.Game{
		ID:        g.ID,
		Name:      g.Name,
		StartTime: g.StartTime,
		Seed:      g.Seed,
		Rules:     model.Rules(g.Rules),
		Players:   toJSON(g.Players),
	}
	for _, b := range g.Boards {
		out.Boards = append(out.Boards, model.Board{
			GameID:      g.ID,
			BoardID:     b.ID,
			Name:        b.Name,
			Width:       b.Width,
			Height:      b.Height,
			Space:       b.Space,
			Atmosphere:  b.Atmosphere,
			Temperature: b.Temperature,
		})
	}
	return out
}

// CoreToEntityState converts a core.EntityState to a GORM model.EntityState.
func CoreToEntityState(s core.EntityState) model.EntityState {
	out := model.EntityState{
		Time:        s.Time,
		GameID:      s.GameID,
		Round:       s.Round,
		Phase:       s.Phase,
		EntityID:    s.EntityID,
		Owner:       s.Owner,
		Name:        s.Name,
		Category:    s.Category,
		Facing:      s.Facing,
		Elevation:   s.Elevation,
		Altitude:    s.Altitude,
		Deployed:    s.Deployed,
		Done:        s.Done,
		Destroyed:   s.Destroyed,
		TransportID: s.TransportID,
		Thermal:     model.Thermal(s.Thermal),
	}
	if s.Position != nil {
		out.OnBoard = true
		out.BoardID = s.Position.BoardID
		out.Col = s.Position.Col
		out.Row = s.Position.Row
		out.Position = positionToPoint(*s.Position)
	}
	return out
}

// CoreToPhaseRecord converts a core.PhaseRecord to a GORM model.PhaseRecord.
func CoreToPhaseRecord(r core.PhaseRecord) model.PhaseRecord {
	return model.PhaseRecord{
		Time:      r.Time,
		GameID:    r.GameID,
		Round:     r.Round,
		Phase:     r.Phase,
		Turns:     toJSON(r.Turns),
		TurnIndex: r.TurnIndex,
		Reports:   toJSON(r.Reports),
	}
}

// CoreToAreaEffect converts a core.AreaEffectRecord to a GORM model.AreaEffect.
func CoreToAreaEffect(a core.AreaEffectRecord) model.AreaEffect {
	return model.AreaEffect{
		EffectID:     a.ID,
		Kind:         a.Kind,
		BoardID:      a.Center.BoardID,
		Col:          a.Center.Col,
		Row:          a.Center.Row,
		Center:       positionToPoint(a.Center),
		Radius:       a.Radius,
		ExpiresRound: a.ExpiresRound,
	}
}

// CoreToRoundRecord converts a core.RoundRecord to a GORM model.RoundRecord.
// Area effects become child rows.
func CoreToRoundRecord(r core.RoundRecord) model.RoundRecord {
	out := model.RoundRecord{
		Time:        r.Time,
		GameID:      r.GameID,
		Round:       r.Round,
		Initiative:  toJSON(r.Initiative),
		Engagements: toJSON(r.Engagements),
		Reports:     toJSON(r.Reports),
	}
	for _, a := range r.AreaEffects {
		out.AreaEffects = append(out.AreaEffects, CoreToAreaEffect(a))
	}
	return out
}
