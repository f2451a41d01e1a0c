package convert

import (
	"encoding/json"

	geom "github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"

	"github.com/OCAP2/roundengine/internal/model"
	"github.com/OCAP2/roundengine/pkg/core"
)

// pointToXY returns the planar coordinates of p, zero for an empty point
func pointToXY(p geom.Point) (x, y float64) {
	xy, ok := p.XY()
	if !ok {
		return 0, 0
	}
	return xy.X, xy.Y
}

// fromJSON unmarshals a JSON column, ignoring malformed data
func fromJSON[T any](data datatypes.JSON) []T {
	var out []T
	if len(data) == 0 {
		return nil
	}
	_ = json.Unmarshal(data, &out)
	return out
}

// GameToCore converts a GORM Game with loaded boards to a core.GameInfo.
func GameToCore(g model.Game) core.GameInfo {
	out := core.GameInfo{
		ID:        g.ID,
		Name:      g.Name,
		StartTime: g.StartTime,
		Seed:      g.Seed,
		Rules:     core.Rules(g.Rules),
		Players:   fromJSON[core.Player](g.Players),
	}
	for _, b := range g.Boards {
		out.Boards = append(out.Boards, core.Board{
			ID:          b.BoardID,
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

// EntityStateToCore converts a GORM EntityState to a core.EntityState.
func EntityStateToCore(s model.EntityState) core.EntityState {
	out := core.EntityState{
		GameID:      s.GameID,
		EntityID:    s.EntityID,
		Owner:       s.Owner,
		Name:        s.Name,
		Category:    s.Category,
		Round:       s.Round,
		Phase:       s.Phase,
		Time:        s.Time,
		Facing:      s.Facing,
		Elevation:   s.Elevation,
		Altitude:    s.Altitude,
		Deployed:    s.Deployed,
		Done:        s.Done,
		Destroyed:   s.Destroyed,
		TransportID: s.TransportID,
		Thermal:     core.ThermalRecord(s.Thermal),
	}
	if s.OnBoard {
		x, y := pointToXY(s.Position)
		out.Position = &core.Position{BoardID: s.BoardID, Col: s.Col, Row: s.Row, X: x, Y: y}
	}
	return out
}

// PhaseRecordToCore converts a GORM PhaseRecord to a core.PhaseRecord.
func PhaseRecordToCore(r model.PhaseRecord) core.PhaseRecord {
	return core.PhaseRecord{
		GameID:    r.GameID,
		Round:     r.Round,
		Phase:     r.Phase,
		Time:      r.Time,
		Turns:     fromJSON[core.Turn](r.Turns),
		TurnIndex: r.TurnIndex,
		Reports:   fromJSON[core.ReportEntry](r.Reports),
	}
}

// RoundRecordToCore converts a GORM RoundRecord with loaded area effects to a core.RoundRecord.
func RoundRecordToCore(r model.RoundRecord) core.RoundRecord {
	out := core.RoundRecord{
		GameID:      r.GameID,
		Round:       r.Round,
		Time:        r.Time,
		Initiative:  fromJSON[core.Initiative](r.Initiative),
		Engagements: fromJSON[core.EngagementRecord](r.Engagements),
		Reports:     fromJSON[core.ReportEntry](r.Reports),
	}
	for _, a := range r.AreaEffects {
		x, y := pointToXY(a.Center)
		out.AreaEffects = append(out.AreaEffects, core.AreaEffectRecord{
			ID:           a.EffectID,
			Kind:         a.Kind,
			Center:       core.Position{BoardID: a.BoardID, Col: a.Col, Row: a.Row, X: x, Y: y},
			Radius:       a.Radius,
			ExpiresRound: a.ExpiresRound,
		})
	}
	return out
}
