// Package phase drives a game through its phases. Each call to Advance
// resolves the current phase, picks the next one from the transition table
// and prepares it.
package phase

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/OCAP2/roundengine/internal/game"
	"github.com/OCAP2/roundengine/internal/heat"
	"github.com/OCAP2/roundengine/internal/report"
)

// Collaborators are the resolvers the machine calls into. Nil fields get
// no-op defaults and victory defaults to LastTeamStanding.
type Collaborators struct {
	Heat     *heat.Engine
	Attacks  AttackResolver
	Movement MovementResolver
	Damage   DamageResolver
	Victory  VictoryEvaluator
	Recorder Recorder
}

// Machine is the phase state machine of one game. It shares the game's
// single writer.
type Machine struct {
	g      *game.Game
	c      Collaborators
	logger *slog.Logger

	// won is set by the END resolution and consumed by its guard.
	won bool

	transitions metric.Int64Counter
	rounds      metric.Int64Counter
}

// New creates a machine for g.
func New(g *game.Game, c Collaborators) (*Machine, error) {
	if c.Heat == nil {
		c.Heat = heat.New(nil, g.Logger)
	}
	if c.Attacks == nil {
		c.Attacks = Nop{}
	}
	if c.Movement == nil {
		c.Movement = Nop{}
	}
	if c.Damage == nil {
		c.Damage = Nop{}
	}
	if c.Victory == nil {
		c.Victory = LastTeamStanding{}
	}
	if c.Recorder == nil {
		c.Recorder = Nop{}
	}

	m := meter()
	transitions, err := m.Int64Counter("phase.transitions",
		metric.WithDescription("Number of phase transitions"))
	if err != nil {
		return nil, fmt.Errorf("creating transitions counter: %w", err)
	}
	rounds, err := m.Int64Counter("phase.rounds",
		metric.WithDescription("Number of rounds started"))
	if err != nil {
		return nil, fmt.Errorf("creating rounds counter: %w", err)
	}

	return &Machine{
		g:           g,
		c:           c,
		logger:      g.Logger,
		transitions: transitions,
		rounds:      rounds,
	}, nil
}

// Game returns the game the machine drives.
func (m *Machine) Game() *game.Game {
	return m.g
}

// Start leaves the lounge and enters the first phase.
func (m *Machine) Start(ctx context.Context) error {
	if m.g.Phase() != game.Lounge {
		return fmt.Errorf("start in %s: %w", m.g.Phase(), game.ErrWrongPhase)
	}
	return m.transition(ctx, game.Lounge, game.Exchange)
}

// Advance resolves the current phase and moves to the next one. An error
// leaves the game in the phase that failed; the caller should treat it as
// fatal.
func (m *Machine) Advance(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cur := m.g.Phase()
	st, ok := table[cur]
	if !ok {
		return fmt.Errorf("no transition from %s: %w", cur, game.ErrInvariant)
	}
	if st.resolve != nil {
		if err := st.resolve(m, ctx); err != nil {
			return fmt.Errorf("resolving %s: %w", cur, err)
		}
	}
	return m.transition(ctx, cur, st.next(m))
}

// NeedsInput reports whether the current phase waits for a player: a phase
// with a usable turn left, or the lounge.
func (m *Machine) NeedsInput() bool {
	p := m.g.Phase()
	if p == game.Lounge {
		return true
	}
	return p.HasTurns() && m.g.SkipUnusableTurns()
}

// AdvanceUntilInput advances until a phase waits for a player. Report
// phases are displayed and continued. A victory stops in the lounge.
func (m *Machine) AdvanceUntilInput(ctx context.Context) error {
	for {
		if err := m.Advance(ctx); err != nil {
			return err
		}
		if m.NeedsInput() {
			return nil
		}
	}
}

func (m *Machine) transition(ctx context.Context, from, to game.Phase) error {
	g := m.g
	g.ArchiveReports()
	g.SetPhase(to)
	m.transitions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("from", from.String()),
		attribute.String("to", to.String()),
	))
	m.logger.Debug("Phase transition", "from", from, "to", to, "round", g.Round())

	if err := m.prepare(ctx, to); err != nil {
		return fmt.Errorf("preparing %s: %w", to, err)
	}

	g.NotifyAll()
	g.NotifyPhase()
	g.SendTurns(0)
	if err := m.c.Recorder.RecordPhase(ctx, g); err != nil {
		m.logger.Warn("Failed to record phase", "phase", to, "error", err)
	}
	return nil
}

// prepare runs the common preparation of p and then its own.
func (m *Machine) prepare(ctx context.Context, p game.Phase) error {
	g := m.g
	for _, e := range g.Entities() {
		e.Done = false
		e.DamagedThisPhase = false
	}
	if p.HasTurns() {
		g.ComputeTurns()
	} else {
		g.SetTurns(nil)
	}
	if h, ok := headers[p]; ok {
		g.Report(report.New(h, g.Round()))
	}
	if st, ok := table[p]; ok && st.prepare != nil {
		return st.prepare(m, ctx)
	}
	return nil
}
