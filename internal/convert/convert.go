// Package convert turns live game state into the storage-agnostic records
// of pkg/core.
package convert

import (
	"fmt"
	"time"

	"github.com/OCAP2/roundengine/internal/board"
	"github.com/OCAP2/roundengine/internal/game"
	"github.com/OCAP2/roundengine/internal/geo"
	"github.com/OCAP2/roundengine/internal/hex"
	"github.com/OCAP2/roundengine/internal/report"
	"github.com/OCAP2/roundengine/internal/unit"
	"github.com/OCAP2/roundengine/pkg/core"
)

// Clock returns the time stamped on records. Tests replace it.
var Clock = time.Now

// GameInfo describes g. Boards are listed only when g.Boards is a
// *board.Set.
func GameInfo(g *game.Game, name string, seed uint64) *core.GameInfo {
	info := &core.GameInfo{
		ID:        g.ID.String(),
		Name:      name,
		StartTime: Clock(),
		Seed:      seed,
		Rules: core.Rules{
			ExtendedHeat:    g.Options.ExtendedHeat,
			AssaultDrop:     g.Options.AssaultDrop,
			Minefields:      g.Options.Minefields,
			CoolantFailure:  g.Options.CoolantFailure,
			VectorMovement:  g.Options.VectorMovement,
			MaxExternalHeat: g.Options.MaxExternalHeat,
		},
	}
	for _, p := range g.Players() {
		info.Players = append(info.Players, core.Player{ID: p.ID, Name: p.Name, Team: p.Team})
	}
	set, ok := g.Boards.(*board.Set)
	if !ok {
		return info
	}
	for _, b := range set.Boards() {
		info.Boards = append(info.Boards, core.Board{
			ID:          b.ID,
			Name:        b.Name,
			Width:       b.Width,
			Height:      b.Height,
			Space:       b.Space,
			Atmosphere:  b.Atmosphere.String(),
			Temperature: b.Temperature,
		})
	}
	return info
}

// Position returns the record of c on boardID.
func Position(boardID int, c hex.Coords) core.Position {
	x, y := geo.Center(c)
	return core.Position{BoardID: boardID, Col: c.Col, Row: c.Row, X: x, Y: y}
}

// EntityState snapshots e.
func EntityState(g *game.Game, e *unit.Entity) *core.EntityState {
	s := &core.EntityState{
		GameID:      g.ID.String(),
		EntityID:    e.ID,
		Owner:       e.Owner,
		Name:        e.Name,
		Category:    e.Category.String(),
		Round:       g.Round(),
		Phase:       g.Phase().String(),
		Time:        Clock(),
		Facing:      int(e.Facing),
		Elevation:   e.Elevation,
		Altitude:    e.Altitude,
		Deployed:    e.Deployed,
		Done:        e.Done,
		Destroyed:   e.Gone(),
		TransportID: e.TransportID,
		Thermal: core.ThermalRecord{
			Heat:              e.Thermal.Heat,
			Capacity:          e.HeatCapacity(),
			Shutdown:          e.Thermal.Shutdown.String(),
			CoolantFailure:    e.Thermal.CoolantFailure,
			CoolingFlawActive: e.Thermal.CoolingFlawActive,
			EMPInterference:   e.Thermal.EMPInterferenceRounds,
		},
	}
	if e.Position != nil {
		pos := Position(e.BoardID, *e.Position)
		s.Position = &pos
	}
	return s
}

// Reports converts report messages.
func Reports(msgs []report.Message) []core.ReportEntry {
	out := make([]core.ReportEntry, len(msgs))
	for i, m := range msgs {
		params := make([]string, len(m.Params))
		for j, p := range m.Params {
			params[j] = fmt.Sprint(p)
		}
		out[i] = core.ReportEntry{
			MessageID: m.ID,
			Subject:   m.Subject,
			Player:    m.Player,
			Public:    m.Public,
			Indent:    m.Indent,
			Params:    params,
			Text:      m.String(),
		}
	}
	return out
}

// Turns converts a turn list.
func Turns(turns []game.Turn) []core.Turn {
	out := make([]core.Turn, len(turns))
	for i, t := range turns {
		out[i] = core.Turn{Player: t.Player, Entity: t.Entity}
	}
	return out
}

// PhaseRecord describes the phase g just entered with the given reports.
func PhaseRecord(g *game.Game, round int, phase game.Phase, msgs []report.Message) *core.PhaseRecord {
	return &core.PhaseRecord{
		GameID:    g.ID.String(),
		Round:     round,
		Phase:     phase.String(),
		Time:      Clock(),
		Turns:     Turns(g.Turns()),
		TurnIndex: g.TurnIndex(),
		Reports:   Reports(msgs),
	}
}

// AreaEffects converts area effects.
func AreaEffects(effects []game.AreaEffect) []core.AreaEffectRecord {
	out := make([]core.AreaEffectRecord, len(effects))
	for i, a := range effects {
		out[i] = core.AreaEffectRecord{
			ID:           a.ID,
			Kind:         a.Kind.String(),
			Center:       Position(a.BoardID, a.Center),
			Radius:       a.Radius,
			ExpiresRound: a.ExpiresRound,
		}
	}
	return out
}

// RoundRecord closes the current round of g.
func RoundRecord(g *game.Game) *core.RoundRecord {
	r := &core.RoundRecord{
		GameID:      g.ID.String(),
		Round:       g.Round(),
		Time:        Clock(),
		AreaEffects: AreaEffects(g.AreaEffects()),
		Reports:     Reports(g.RoundMessages()),
	}
	for _, p := range g.Players() {
		r.Initiative = append(r.Initiative, core.Initiative{
			Player: p.ID,
			Total:  p.Initiative.Total,
			Dice:   p.Initiative.Dice,
		})
	}
	snapshot := g.Engagements.Snapshot()
	for _, target := range g.Engagements.Targets() {
		a := snapshot[target]
		r.Engagements = append(r.Engagements, core.EngagementRecord{
			Target:         target,
			Attackers:      a.Attackers(),
			Defenders:      a.Defenders(),
			Turns:          a.Turns,
			PartialControl: a.PartialControl,
		})
	}
	return r
}
