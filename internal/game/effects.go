package game

import (
	"slices"

	"github.com/OCAP2/roundengine/internal/hex"
	"github.com/OCAP2/roundengine/internal/report"
)

// EffectKind is the kind of a temporary area effect.
type EffectKind int

const (
	EMPInterference EffectKind = iota + 1
)

func (k EffectKind) String() string {
	if k == EMPInterference {
		return "emp_interference"
	}
	return "unknown"
}

// AreaEffect is a temporary field on a board. It lasts until the given
// phase of ExpiresRound, so a field expiring at END covers that round.
type AreaEffect struct {
	ID           int        `json:"id"`
	Kind         EffectKind `json:"kind"`
	BoardID      int        `json:"boardId"`
	Center       hex.Coords `json:"center"`
	Radius       int        `json:"radius"`
	ExpiresRound int        `json:"expiresRound"`
	ExpiresPhase Phase      `json:"expiresPhase"`
}

// Covers reports whether c on boardID lies inside the effect.
func (a AreaEffect) Covers(boardID int, c hex.Coords) bool {
	return a.BoardID == boardID && hex.Distance(a.Center, c) <= a.Radius
}

// remaining is the number of end phases the field still covers from round.
func (a AreaEffect) remaining(round int) int {
	return a.ExpiresRound - round + 1
}

func (a AreaEffect) expired(round int, phase Phase) bool {
	return round > a.ExpiresRound || (round == a.ExpiresRound && phase >= a.ExpiresPhase)
}

// AreaEffects returns a copy of the active effects.
func (g *Game) AreaEffects() []AreaEffect {
	return slices.Clone(g.areaEffects)
}

// TriggerEMP creates an EMP interference field covering the end phases of
// rounds rounds, the current one included. Units inside it suffer
// interference heat for as long as the field lasts. The field is broadcast
// best-effort.
func (g *Game) TriggerEMP(boardID int, center hex.Coords, radius, rounds int) AreaEffect {
	rounds = max(rounds, 1)
	eff := AreaEffect{
		ID:           g.nextEffectID,
		Kind:         EMPInterference,
		BoardID:      boardID,
		Center:       center,
		Radius:       radius,
		ExpiresRound: g.round + rounds - 1,
		ExpiresPhase: End,
	}
	g.nextEffectID++
	g.areaEffects = append(g.areaEffects, eff)

	g.applyEffect(eff)
	g.Report(report.New(report.EMPInterference, center.String(), radius, rounds))
	g.notifyAreaEffects()
	return eff
}

// ApplyAreaEffects puts every unit standing in an active field under its
// effect. It runs each end phase before heat, so units that entered a field
// after it was triggered are caught too.
func (g *Game) ApplyAreaEffects() {
	for _, eff := range g.areaEffects {
		g.applyEffect(eff)
	}
}

func (g *Game) applyEffect(eff AreaEffect) {
	if eff.Kind != EMPInterference {
		return
	}
	left := eff.remaining(g.round)
	if left <= 0 {
		return
	}
	for _, e := range g.Entities() {
		if e.Gone() || e.Position == nil || !eff.Covers(e.BoardID, *e.Position) {
			continue
		}
		if e.Thermal.EMPInterferenceRounds >= left {
			continue
		}
		e.Thermal.EMPInterferenceRounds = left
		g.NotifyEntity(e.ID)
	}
}

// ExpireAreaEffects removes every effect whose expiry has been reached and
// returns them.
func (g *Game) ExpireAreaEffects() []AreaEffect {
	var removed []AreaEffect
	kept := g.areaEffects[:0]
	for _, a := range g.areaEffects {
		if a.expired(g.round, g.phase) {
			removed = append(removed, a)
			continue
		}
		kept = append(kept, a)
	}
	g.areaEffects = kept
	for _, a := range removed {
		g.Report(report.New(report.AreaExpired, a.ID, a.Kind.String()))
	}
	if len(removed) > 0 {
		g.notifyAreaEffects()
	}
	return removed
}

// RestoreAreaEffects replaces the active effects, for loading a saved game.
func (g *Game) RestoreAreaEffects(effects []AreaEffect) {
	g.areaEffects = slices.Clone(effects)
	for _, a := range effects {
		g.nextEffectID = max(g.nextEffectID, a.ID+1)
	}
}

func (g *Game) notifyAreaEffects() {
	if err := g.Broadcaster.NotifyAreaEffects(g.AreaEffects()); err != nil {
		g.Logger.Warn("Failed to broadcast area effects", "error", err)
	}
}
