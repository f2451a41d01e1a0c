package worker

import (
	"context"
	"fmt"

	"github.com/OCAP2/roundengine/internal/deploy"
	"github.com/OCAP2/roundengine/internal/dispatcher"
	"github.com/OCAP2/roundengine/internal/game"
)

// Commands handled by the manager.
const (
	CmdDeploy         = ":DEPLOY:"
	CmdUnloadDeployed = ":UNLOAD:DEPLOYED:"
	CmdTurnDone       = ":TURN:DONE:"
	CmdAdvance        = ":ADVANCE:"
	CmdStatus         = ":STATUS:"
	CmdEMP            = ":EMP:"
)

// RegisterHandlers registers all command handlers with the dispatcher.
func (m *Manager) RegisterHandlers(d *dispatcher.Dispatcher) {
	d.Register(CmdDeploy, m.locked(m.handleDeploy), dispatcher.Logged())
	d.Register(CmdUnloadDeployed, m.locked(m.handleUnloadDeployed), dispatcher.Logged())
	d.Register(CmdTurnDone, m.locked(m.handleTurnDone), dispatcher.Logged())
	d.Register(CmdAdvance, m.locked(m.handleAdvance), dispatcher.Logged())
	d.Register(CmdEMP, m.locked(m.handleEMP), dispatcher.Logged())
	d.Register(CmdStatus, m.handleStatus)
}

// locked runs h as the game's single writer and turns request rejections
// into a Reply. Any other error is an engine failure and is returned.
func (m *Manager) locked(h dispatcher.HandlerFunc) dispatcher.HandlerFunc {
	return func(ctx context.Context, e dispatcher.Event) (any, error) {
		m.mu.Lock()
		defer m.mu.Unlock()
		defer m.updatePosition()

		if _, err := h(ctx, e); err != nil {
			if !isRejection(err) {
				return nil, err
			}
			m.deps.Logger.Warn("Command rejected", "command", e.Command, "reason", err)
			return Reply{Reason: err.Error(), Status: m.status()}, nil
		}
		return Reply{Accepted: true, Status: m.status()}, nil
	}
}

func (m *Manager) handleDeploy(ctx context.Context, e dispatcher.Event) (any, error) {
	if m.result != nil {
		return nil, ErrGameOver
	}
	req, err := m.deps.Parser.ParseDeploy(e.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to parse deployment: %w", err)
	}
	if err := deploy.Deploy(m.Game(), req.Action, req.Player); err != nil {
		return nil, err
	}
	return nil, m.endTurn(ctx)
}

func (m *Manager) handleUnloadDeployed(_ context.Context, e dispatcher.Event) (any, error) {
	if m.result != nil {
		return nil, ErrGameOver
	}
	req, err := m.deps.Parser.ParseUnload(e.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to parse unload: %w", err)
	}
	return nil, deploy.UnloadDeployed(m.Game(), req.Loader, req.Loaded, req.Player)
}

// handleTurnDone ends the current turn with the named entity standing
// still. Deployment turns end by deploying.
func (m *Manager) handleTurnDone(ctx context.Context, e dispatcher.Event) (any, error) {
	if m.result != nil {
		return nil, ErrGameOver
	}
	req, err := m.deps.Parser.ParseTurnDone(e.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to parse turn done: %w", err)
	}
	g := m.Game()
	if err := m.validateTurnDone(g, req.Player, req.Entity); err != nil {
		g.SendTurns(req.Player)
		return nil, err
	}

	ent, _ := g.Entity(req.Entity)
	ent.Done = true
	g.NotifyEntity(ent.ID)
	return nil, m.endTurn(ctx)
}

func (m *Manager) validateTurnDone(g *game.Game, player, entity int) error {
	if !g.Phase().HasTurns() || g.Phase() == game.Deployment {
		return fmt.Errorf("turn done in %s: %w", g.Phase(), game.ErrWrongPhase)
	}
	if _, ok := g.Player(player); !ok {
		return fmt.Errorf("player %d: %w", player, game.ErrUnknownPlayer)
	}
	ent, ok := g.Entity(entity)
	if !ok {
		return fmt.Errorf("entity %d: %w", entity, game.ErrUnknownEntity)
	}
	turn, ok := g.CurrentTurn()
	if !ok || turn.Player != player {
		return fmt.Errorf("player %d: %w", player, game.ErrNotYourTurn)
	}
	if !g.IsValidEntity(turn, ent) {
		return fmt.Errorf("entity %d cannot act on this turn: %w", entity, game.ErrNotYourTurn)
	}
	return nil
}

// handleAdvance starts the game from the lounge. In any other phase it
// resolves the phase without waiting for the remaining turns.
func (m *Manager) handleAdvance(ctx context.Context, _ dispatcher.Event) (any, error) {
	if m.result != nil {
		return nil, ErrGameOver
	}
	if m.Game().Phase() == game.Lounge {
		return nil, m.start(ctx)
	}
	return nil, m.advanceUntilInput(ctx)
}

func (m *Manager) handleEMP(_ context.Context, e dispatcher.Event) (any, error) {
	if m.result != nil {
		return nil, ErrGameOver
	}
	req, err := m.deps.Parser.ParseEMP(e.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to parse emp: %w", err)
	}
	g := m.Game()
	if _, ok := g.Boards.Hex(req.BoardID, req.Center); !ok {
		return nil, fmt.Errorf("emp centre %s on board %d: %w", req.Center, req.BoardID, game.ErrIllegalTarget)
	}
	eff := g.TriggerEMP(req.BoardID, req.Center, req.Radius, req.Rounds)
	m.deps.Logger.Info("EMP triggered", "effect", eff.ID, "board", eff.BoardID,
		"center", eff.Center.String(), "radius", eff.Radius, "expiresRound", eff.ExpiresRound)
	return nil, nil
}

func (m *Manager) handleStatus(context.Context, dispatcher.Event) (any, error) {
	return m.Status(), nil
}
