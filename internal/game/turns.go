package game

import (
	"slices"

	"github.com/OCAP2/roundengine/internal/unit"
)

// Turn gives a player the right to act. Entity is unit.None when any eligible
// unit of the player may act, or the id of the only unit that may.
type Turn struct {
	Player int `json:"player"`
	Entity int `json:"entity,omitempty"`
}

// IsSpecific reports whether the turn is reserved for one entity.
func (t Turn) IsSpecific() bool {
	return t.Entity != unit.None
}

func (g *Game) eligibleForDeployment(e *unit.Entity) bool {
	return !e.Deployed && !e.Gone() && !e.IsLoaded() && e.DeployRound <= g.round
}

// IsEligible reports whether e may take a turn in the current phase.
func (g *Game) IsEligible(e *unit.Entity) bool {
	switch {
	case g.phase == Deployment:
		return g.eligibleForDeployment(e)
	case g.phase.HasTurns():
		return e.Deployed && e.OnBoard() && !e.Done && !e.Gone() && !e.IsLoaded()
	}
	return false
}

// IsValidEntity reports whether e may act on turn t.
func (g *Game) IsValidEntity(t Turn, e *unit.Entity) bool {
	if t.IsSpecific() {
		return e.ID == t.Entity && g.IsEligible(e)
	}
	return e.Owner == t.Player && g.IsEligible(e)
}

// turnUsable reports whether some entity can act on t.
func (g *Game) turnUsable(t Turn) bool {
	if t.IsSpecific() {
		e, ok := g.entities[t.Entity]
		return ok && g.IsEligible(e)
	}
	for _, e := range g.EntitiesOf(t.Player) {
		if g.IsEligible(e) {
			return true
		}
	}
	return false
}

// TurnOrder returns players in acting order: lowest initiative first, ties
// and unrolled initiative by ascending id.
func (g *Game) TurnOrder() []*Player {
	players := g.Players()
	slices.SortStableFunc(players, func(a, b *Player) int {
		return a.Initiative.Total - b.Initiative.Total
	})
	return players
}

// ComputeTurns rebuilds the turn list for the current phase. Players get one
// turn per eligible unit, interleaved round-robin in turn order.
func (g *Game) ComputeTurns() {
	order := g.TurnOrder()
	remaining := make(map[int]int, len(order))
	total := 0
	for _, p := range order {
		for _, e := range g.EntitiesOf(p.ID) {
			if g.IsEligible(e) {
				remaining[p.ID]++
				total++
			}
		}
	}
	turns := make([]Turn, 0, total)
	for len(turns) < total {
		for _, p := range order {
			if remaining[p.ID] > 0 {
				turns = append(turns, Turn{Player: p.ID})
				remaining[p.ID]--
			}
		}
	}
	g.SetTurns(turns)
}

// SetTurns replaces the turn list and rewinds to its start.
func (g *Game) SetTurns(turns []Turn) {
	g.turns = turns
	g.turnIndex = 0
}

// Turns returns a copy of the turn list.
func (g *Game) Turns() []Turn {
	return slices.Clone(g.turns)
}

func (g *Game) TurnIndex() int {
	return g.turnIndex
}

// CurrentTurn returns the turn at the current index.
func (g *Game) CurrentTurn() (Turn, bool) {
	if g.turnIndex < 0 || g.turnIndex >= len(g.turns) {
		return Turn{}, false
	}
	return g.turns[g.turnIndex], true
}

// AdvanceTurn moves to the next usable turn. It reports false when the turn
// list is exhausted.
func (g *Game) AdvanceTurn() (Turn, bool) {
	for g.turnIndex < len(g.turns) {
		g.turnIndex++
		if t, ok := g.CurrentTurn(); ok && g.turnUsable(t) {
			return t, true
		}
	}
	return Turn{}, false
}

// SkipUnusableTurns moves forward from the current index to the first usable
// turn and reports whether one exists.
func (g *Game) SkipUnusableTurns() bool {
	if t, ok := g.CurrentTurn(); ok && g.turnUsable(t) {
		return true
	}
	_, ok := g.AdvanceTurn()
	return ok
}

// InsertTurnAfter places t directly after the current turn.
func (g *Game) InsertTurnAfter(t Turn) {
	at := min(g.turnIndex+1, len(g.turns))
	g.turns = slices.Insert(g.turns, at, t)
}

// RemoveTurnFor drops the last unplayed general turn of e's owner. It is used
// when e stops needing a turn of its own.
func (g *Game) RemoveTurnFor(e *unit.Entity) bool {
	for i := len(g.turns) - 1; i > g.turnIndex; i-- {
		t := g.turns[i]
		if !t.IsSpecific() && t.Player == e.Owner {
			g.turns = slices.Delete(g.turns, i, i+1)
			return true
		}
	}
	return false
}

// SendTurns sends the turn list and index to player, or to everyone when
// player is 0. Failures are logged.
func (g *Game) SendTurns(player int) {
	if err := g.Broadcaster.SendTurns(player, g.Turns(), g.turnIndex); err != nil {
		g.Logger.Warn("Failed to send turns", "player", player, "error", err)
	}
}
