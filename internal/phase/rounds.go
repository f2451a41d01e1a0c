package phase

import (
	"context"
	"fmt"

	"github.com/OCAP2/roundengine/internal/dice"
	"github.com/OCAP2/roundengine/internal/game"
	"github.com/OCAP2/roundengine/internal/heat"
	"github.com/OCAP2/roundengine/internal/report"
	"github.com/OCAP2/roundengine/internal/unit"
)

// startRound closes the previous round, increments the round counter,
// clears per-round movement and firing state and rolls initiative.
func (m *Machine) startRound(ctx context.Context) error {
	g := m.g
	if g.Round() > 0 {
		m.recordRound(ctx)
	}
	g.IncrementRound()
	m.rounds.Add(ctx, 1)

	for _, e := range g.Entities() {
		e.Moved = unit.NotMoved
		e.JumpDistance = 0
		e.WeaponsFired = 0
	}

	g.Report(report.New(report.RoundHeader, g.Round()), report.New(report.InitiativeHeader))
	rollInitiative(g)
	return nil
}

// rollInitiative rolls 2d6 for every player in id order. Players that tie
// roll again, in id order, until no two players share a total.
func rollInitiative(g *game.Game) {
	players := g.Players()
	for _, p := range players {
		p.Initiative = g.Roller.Roll2D6()
		g.Report(report.About(report.InitiativeRoll, 0, p.ID, p.Name, p.Initiative.String()).Indented(1))
	}
	for {
		tied := tiedPlayers(players)
		if len(tied) == 0 {
			return
		}
		for _, p := range tied {
			p.Initiative = g.Roller.Roll2D6()
			g.Report(report.About(report.InitiativeTie, 0, p.ID, p.Name, p.Initiative.String()).Indented(1))
		}
	}
}

// tiedPlayers returns, in id order, every player whose total is shared.
func tiedPlayers(players []*game.Player) []*game.Player {
	count := make(map[int]int, len(players))
	for _, p := range players {
		count[p.Initiative.Total]++
	}
	var out []*game.Player
	for _, p := range players {
		if count[p.Initiative.Total] > 1 {
			out = append(out, p)
		}
	}
	return out
}

func (m *Machine) placeMinefields(context.Context) error {
	for _, p := range m.g.Players() {
		p.Minefields = 0
	}
	return nil
}

// resolveMovement executes declared moves and everything that depends on
// where units ended up.
func (m *Machine) resolveMovement(ctx context.Context) error {
	g := m.g
	if err := m.c.Movement.ResolveMovement(ctx, g); err != nil {
		return fmt.Errorf("movement: %w", err)
	}
	landAssaultDrops(g)
	heat.AddMovementHeat(g)
	return m.afterDamage(ctx, game.Movement)
}

// combat resolves the attacks of a firing or physical phase and the damage
// they dealt.
func combat(p game.Phase) func(*Machine, context.Context) error {
	return func(m *Machine, ctx context.Context) error {
		if err := m.c.Attacks.ResolveAttacks(ctx, m.g, p); err != nil {
			return fmt.Errorf("attacks: %w", err)
		}
		return m.afterDamage(ctx, p)
	}
}

func (m *Machine) afterDamage(ctx context.Context, p game.Phase) error {
	g := m.g
	if err := m.c.Damage.ApplyBuildingDamage(ctx, g); err != nil {
		return fmt.Errorf("building damage: %w", err)
	}
	if err := m.c.Damage.ResolvePilotingRolls(ctx, g, p); err != nil {
		return fmt.Errorf("piloting rolls: %w", err)
	}
	heat.CheckFlawedCooling(g)
	removeGone(g)
	return nil
}

// landAssaultDrops puts units that dropped in this round on the ground.
func landAssaultDrops(g *game.Game) {
	for _, e := range g.Entities() {
		if e.AssaultDropping && !e.Gone() {
			e.AssaultDropping = false
			e.Land()
			g.NotifyEntity(e.ID)
		}
	}
}

// removeGone takes destroyed units out of every engagement.
func removeGone(g *game.Game) {
	for _, e := range g.Entities() {
		if e.Gone() {
			g.Engagements.RemoveEverywhere(e.ID)
		}
	}
}

// endRound runs the end of round bookkeeping. Active fields are applied
// before heat so their interference counts this round, and expire last.
func (m *Machine) endRound(context.Context) error {
	g := m.g
	g.ApplyAreaEffects()
	if err := m.c.Heat.Resolve(g); err != nil {
		return err
	}
	g.Engagements.Tick()
	for _, a := range g.ExpireAreaEffects() {
		m.logger.Debug("Area effect expired", "effect", a.ID, "kind", a.Kind)
	}
	return nil
}

func (m *Machine) evaluateVictory(ctx context.Context) error {
	won, err := m.c.Victory.Evaluate(ctx, m.g)
	if err != nil {
		return fmt.Errorf("victory: %w", err)
	}
	m.won = won
	return nil
}

func (m *Machine) declareVictory(ctx context.Context) error {
	m.g.Report(report.New(report.VictoryHeader, m.g.Round()))
	m.recordRound(ctx)
	m.logger.Info("Game over", "round", m.g.Round())
	return nil
}

// reset returns the game to the lounge state of a new game.
func (m *Machine) reset(context.Context) error {
	g := m.g
	m.won = false
	g.Engagements.Clear()
	g.RestoreAreaEffects(nil)
	g.ResetRound()
	for _, p := range g.Players() {
		p.Initiative = dice.Roll{}
	}
	return nil
}

func (m *Machine) recordRound(ctx context.Context) {
	if err := m.c.Recorder.RecordRound(ctx, m.g); err != nil {
		m.logger.Warn("Failed to record round", "round", m.g.Round(), "error", err)
	}
}
