// Package worker is the single writer of a running game. Every inbound
// command goes through the Manager, which holds the game lock while it
// mutates state and drives the phase machine.
package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/OCAP2/roundengine/internal/deploy"
	"github.com/OCAP2/roundengine/internal/game"
	"github.com/OCAP2/roundengine/internal/logging"
	"github.com/OCAP2/roundengine/internal/monitor"
	"github.com/OCAP2/roundengine/internal/parser"
	"github.com/OCAP2/roundengine/internal/phase"
	"github.com/OCAP2/roundengine/pkg/core"
)

// ErrGameOver is returned for commands that arrive after victory.
var ErrGameOver = errors.New("game is over")

// Dependencies holds all dependencies for the worker manager.
type Dependencies struct {
	Machine *phase.Machine
	Parser  *parser.Parser
	Logger  *slog.Logger
	// Position is updated after every command. Optional.
	Position *logging.Position
	// OnGameOver runs once, after the game went through victory and back to
	// the lounge. It runs under the writer lock and must not call back into
	// the Manager. Optional.
	OnGameOver func(ctx context.Context, result core.GameResult)
	// Pending reports the storage write queue length. Optional.
	Pending func() int
}

// Reply answers a command. A rejected command leaves the game unchanged.
type Reply struct {
	Accepted bool           `json:"accepted"`
	Reason   string         `json:"reason,omitempty"`
	Status   monitor.Status `json:"status"`
}

// Manager serializes commands onto one game.
type Manager struct {
	deps Dependencies

	mu     sync.Mutex
	result *core.GameResult
}

// NewManager creates a new worker manager.
func NewManager(deps Dependencies) *Manager {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}
	if deps.Parser == nil {
		deps.Parser = parser.NewParser(deps.Logger)
	}
	return &Manager{deps: deps}
}

// Game returns the game. Callers outside the manager must not mutate it.
func (m *Manager) Game() *game.Game {
	return m.deps.Machine.Game()
}

// Result returns the outcome once the game is over.
func (m *Manager) Result() (core.GameResult, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.result == nil {
		return core.GameResult{}, false
	}
	return *m.result, true
}

// Status returns the current snapshot under the writer lock.
func (m *Manager) Status() monitor.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status()
}

func (m *Manager) status() monitor.Status {
	s := monitor.Snapshot(m.Game())
	if m.result != nil {
		s.GameOver = true
		s.WinningTeam = m.result.WinningTeam
	}
	if m.deps.Pending != nil {
		s.PendingWrites = m.deps.Pending()
	}
	return s
}

// ActableEntities returns the ids of the units that may act on the current
// turn, in ascending order.
func (m *Manager) ActableEntities() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	g := m.Game()
	turn, ok := g.CurrentTurn()
	if !ok {
		return nil
	}
	var ids []int
	for _, e := range g.Entities() {
		if g.IsValidEntity(turn, e) {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

// Start leaves the lounge and advances until a player has to act.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.start(ctx)
}

func (m *Manager) start(ctx context.Context) error {
	if m.result != nil {
		return ErrGameOver
	}
	if err := m.deps.Machine.Start(ctx); err != nil {
		return err
	}
	return m.advanceUntilInput(ctx)
}

// endTurn moves to the next usable turn, or resolves the phase when none
// is left.
func (m *Manager) endTurn(ctx context.Context) error {
	g := m.Game()
	if _, ok := g.AdvanceTurn(); ok {
		g.SendTurns(0)
		return nil
	}
	return m.advanceUntilInput(ctx)
}

// advanceUntilInput advances one phase at a time so the outcome can be
// taken while the game still sits in VICTORY.
func (m *Manager) advanceUntilInput(ctx context.Context) error {
	mach := m.deps.Machine
	g := m.Game()
	for {
		if err := mach.Advance(ctx); err != nil {
			return err
		}
		if g.Phase() == game.Victory && m.result == nil {
			m.result = &core.GameResult{
				GameID:      g.ID.String(),
				EndTime:     time.Now(),
				Rounds:      g.Round(),
				WinningTeam: phase.SurvivingTeam(g),
			}
			m.deps.Logger.Info("Game over", "rounds", m.result.Rounds, "winningTeam", m.result.WinningTeam)
		}
		if mach.NeedsInput() {
			break
		}
	}
	if m.result != nil && g.Phase() == game.Lounge && m.deps.OnGameOver != nil {
		m.deps.OnGameOver(ctx, *m.result)
	}
	return nil
}

// updatePosition stamps log records with where the game stands.
func (m *Manager) updatePosition() {
	if m.deps.Position == nil {
		return
	}
	g := m.Game()
	m.deps.Position.Set(g.Round(), g.Phase().String())
}

// isRejection reports whether err was caused by the request rather than
// the engine.
func isRejection(err error) bool {
	if deploy.IsRejection(err) {
		return true
	}
	for _, target := range []error{
		game.ErrWrongPhase, game.ErrNotYourTurn, game.ErrIllegalTarget,
		game.ErrUnknownEntity, game.ErrUnknownPlayer, ErrGameOver,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
