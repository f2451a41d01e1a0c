package phase

import (
	"context"

	"github.com/OCAP2/roundengine/internal/game"
)

// AttackResolver resolves the attacks declared in the targeting, offboard,
// firing and physical phases.
type AttackResolver interface {
	ResolveAttacks(ctx context.Context, g *game.Game, p game.Phase) error
}

// MovementResolver executes the moves declared in the movement phase.
type MovementResolver interface {
	ResolveMovement(ctx context.Context, g *game.Game) error
}

// DamageResolver applies damage that accumulates over a phase.
type DamageResolver interface {
	ApplyBuildingDamage(ctx context.Context, g *game.Game) error
	ResolvePilotingRolls(ctx context.Context, g *game.Game, p game.Phase) error
}

// VictoryEvaluator decides whether the game is over. It may add its own
// report messages.
type VictoryEvaluator interface {
	Evaluate(ctx context.Context, g *game.Game) (bool, error)
}

// Recorder persists phase changes. Its errors are logged and never stop
// the round.
type Recorder interface {
	RecordPhase(ctx context.Context, g *game.Game) error
	RecordRound(ctx context.Context, g *game.Game) error
}

// Nop implements every collaborator by doing nothing.
type Nop struct{}

func (Nop) ResolveAttacks(context.Context, *game.Game, game.Phase) error { return nil }
func (Nop) ResolveMovement(context.Context, *game.Game) error { return nil }
func (Nop) ApplyBuildingDamage(context.Context, *game.Game) error { return nil }
func (Nop) ResolvePilotingRolls(context.Context, *game.Game, game.Phase) error { return nil }
func (Nop) RecordPhase(context.Context, *game.Game) error { return nil }
func (Nop) RecordRound(context.Context, *game.Game) error { return nil }

// LastTeamStanding declares victory once at most one team has units left.
type LastTeamStanding struct{}

func (LastTeamStanding) Evaluate(_ context.Context, g *game.Game) (bool, error) {
	alive := make(map[int]bool)
	for _, e := range g.Entities() {
		if e.Gone() {
			continue
		}
		if p, ok := g.Player(e.Owner); ok {
			alive[p.Team] = true
		}
	}
	return len(alive) <= 1, nil
}

// SurvivingTeam returns the only team with units left, or 0 when no team
// or more than one has.
func SurvivingTeam(g *game.Game) int {
	team := 0
	for _, e := range g.Entities() {
		if e.Gone() {
			continue
		}
		p, ok := g.Player(e.Owner)
		if !ok {
			continue
		}
		if team != 0 && p.Team != team {
			return 0
		}
		team = p.Team
	}
	return team
}
