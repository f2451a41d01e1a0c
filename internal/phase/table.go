package phase

import (
	"context"

	"github.com/OCAP2/roundengine/internal/game"
	"github.com/OCAP2/roundengine/internal/report"
)

type step struct {
	// prepare runs after the common preparation when the phase is entered.
	prepare func(m *Machine, ctx context.Context) error
	// resolve runs when every turn of the phase is done.
	resolve func(m *Machine, ctx context.Context) error
	// next picks the following phase once resolve succeeded.
	next func(m *Machine) game.Phase
}

var headers = map[game.Phase]int{
	game.Deployment: report.DeploymentHeader,
	game.Targeting:  report.TargetingHeader,
	game.Movement:   report.MovementHeader,
	game.Offboard:   report.OffboardHeader,
	game.Firing:     report.FiringHeader,
	game.Physical:   report.PhysicalHeader,
	game.End:        report.EndHeader,
}

var table map[game.Phase]step

func init() {
	table = map[game.Phase]step{
		game.Lounge:   {next: to(game.Exchange)},
		game.Exchange: {next: to(game.SetArtilleryAutoHitHexes)},
		game.SetArtilleryAutoHitHexes: {next: func(m *Machine) game.Phase {
			if m.g.AnyPlayerHasMinefields() {
				return game.DeployMinefields
			}
			return game.Initiative
		}},
		game.DeployMinefields: {
			resolve: (*Machine).placeMinefields,
			next:    to(game.Initiative),
		},
		game.Initiative: {
			prepare: (*Machine).startRound,
			next:    to(game.InitiativeReport),
		},
		game.InitiativeReport: displayAndContinue(func(m *Machine) game.Phase {
			if m.g.ShouldDeployThisRound() {
				return game.Deployment
			}
			return game.Targeting
		}),
		game.Deployment: {next: func(m *Machine) game.Phase {
			if m.g.Round() < 1 {
				return game.Initiative
			}
			return game.Targeting
		}},
		game.Targeting: {
			resolve: attacks(game.Targeting),
			next:    reportOr(game.TargetingReport, game.PreMovement),
		},
		game.TargetingReport: displayAndContinue(to(game.PreMovement)),
		game.PreMovement:     {next: to(game.Movement)},
		game.Movement: {
			resolve: (*Machine).resolveMovement,
			next:    reportOr(game.MovementReport, game.Offboard),
		},
		game.MovementReport: displayAndContinue(to(game.Offboard)),
		game.Offboard: {
			resolve: attacks(game.Offboard),
			next:    reportOr(game.OffboardReport, game.PreFiring),
		},
		game.OffboardReport: displayAndContinue(to(game.PreFiring)),
		game.PreFiring:      {next: to(game.Firing)},
		game.Firing: {
			resolve: combat(game.Firing),
			next:    reportOr(game.FiringReport, game.Physical),
		},
		game.FiringReport: displayAndContinue(to(game.Physical)),
		game.Physical: {
			resolve: combat(game.Physical),
			next:    reportOr(game.PhysicalReport, game.End),
		},
		game.PhysicalReport: displayAndContinue(to(game.End)),
		game.End: {
			prepare: (*Machine).endRound,
			resolve: (*Machine).evaluateVictory,
			next:    (*Machine).afterEnd,
		},
		game.EndReport: displayAndContinue(to(game.Initiative)),
		game.Victory: {
			prepare: (*Machine).declareVictory,
			resolve: (*Machine).reset,
			next:    to(game.Lounge),
		},
	}
}

func to(p game.Phase) func(*Machine) game.Phase {
	return func(*Machine) game.Phase { return p }
}

// displayAndContinue is the step of every report phase: the reports were
// broadcast on entry, so resolving only moves on.
func displayAndContinue(next func(*Machine) game.Phase) step {
	return step{next: next}
}

// reportOr goes to the report phase when the phase reported more than its
// header. Otherwise it records that nothing happened and skips the report.
func reportOr(rep, skip game.Phase) func(*Machine) game.Phase {
	return func(m *Machine) game.Phase {
		if m.g.Reports().Len() > 1 {
			return rep
		}
		m.g.Report(report.New(report.Nothing))
		return skip
	}
}

func (m *Machine) afterEnd() game.Phase {
	if m.won {
		return game.Victory
	}
	buf := m.g.Reports()
	if buf.Len() > 3 {
		return game.EndReport
	}
	if second, ok := buf.At(1); ok && second.ID != report.Nothing {
		return game.EndReport
	}
	return game.Initiative
}

func attacks(p game.Phase) func(*Machine, context.Context) error {
	return func(m *Machine, ctx context.Context) error {
		return m.c.Attacks.ResolveAttacks(ctx, m.g, p)
	}
}
