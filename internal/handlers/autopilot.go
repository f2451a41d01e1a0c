package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/OCAP2/roundengine/internal/dispatcher"
	"github.com/OCAP2/roundengine/internal/game"
	"github.com/OCAP2/roundengine/internal/monitor"
	"github.com/OCAP2/roundengine/internal/scenario"
	"github.com/OCAP2/roundengine/internal/worker"
)

// ErrStalled is returned when the autopilot keeps issuing commands without
// the game reaching an end.
var ErrStalled = errors.New("autopilot stalled")

const maxSteps = 10000

// Autopilot plays a scenario headless: units deploy where the scenario
// puts them and otherwise stand still. Every action goes through the
// dispatcher like a player command would.
type Autopilot struct {
	dispatcher *dispatcher.Dispatcher
	manager    *worker.Manager
	scenario   *scenario.Scenario
	logger     *slog.Logger
	// MaxRounds stops the game after that many rounds. Zero plays to the end.
	MaxRounds int

	firedRound int
}

// NewAutopilot creates a runner for the game mgr is driving.
func NewAutopilot(d *dispatcher.Dispatcher, mgr *worker.Manager, scn *scenario.Scenario, logger *slog.Logger) *Autopilot {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Autopilot{dispatcher: d, manager: mgr, scenario: scn, logger: logger}
}

// Run starts the game and plays until victory, the round limit or ctx is
// done. It returns the last status seen.
func (a *Autopilot) Run(ctx context.Context) (monitor.Status, error) {
	if _, err := a.send(ctx, worker.CmdAdvance, nil); err != nil {
		return a.manager.Status(), err
	}

	for range maxSteps {
		if err := ctx.Err(); err != nil {
			return a.manager.Status(), err
		}
		st := a.manager.Status()
		if st.GameOver {
			return st, nil
		}
		if a.MaxRounds > 0 && st.Round > a.MaxRounds {
			a.logger.Info("Round limit reached", "rounds", a.MaxRounds)
			return st, nil
		}
		if err := a.fireEvents(ctx, st.Round); err != nil {
			return st, err
		}
		if err := a.step(ctx, st); err != nil {
			return a.manager.Status(), err
		}
	}
	return a.manager.Status(), ErrStalled
}

// fireEvents dispatches the scenario events of round once.
func (a *Autopilot) fireEvents(ctx context.Context, round int) error {
	if round <= a.firedRound {
		return nil
	}
	a.firedRound = round
	for _, ev := range a.scenario.EventsAt(round) {
		if ev.EMP == nil {
			continue
		}
		if _, err := a.send(ctx, worker.CmdEMP, ev.EMP.Args()); err != nil {
			return err
		}
	}
	return nil
}

func (a *Autopilot) step(ctx context.Context, st monitor.Status) error {
	if st.CurrentTurn == nil {
		_, err := a.send(ctx, worker.CmdAdvance, nil)
		return err
	}
	turn := *st.CurrentTurn
	ids := a.manager.ActableEntities()

	if st.Phase == game.Deployment.String() {
		for _, id := range ids {
			if d, ok := a.scenario.Deployment(id); ok {
				_, err := a.send(ctx, worker.CmdDeploy, d.Args(turn.Player))
				return err
			}
		}
		a.logger.Debug("No scripted deployment, skipping the phase", "player", turn.Player)
		_, err := a.send(ctx, worker.CmdAdvance, nil)
		return err
	}

	if len(ids) == 0 {
		_, err := a.send(ctx, worker.CmdAdvance, nil)
		return err
	}
	_, err := a.send(ctx, worker.CmdTurnDone, []string{strconv.Itoa(turn.Player), strconv.Itoa(ids[0])})
	return err
}

// send dispatches one command. A rejection is an error here since the
// autopilot only issues legal commands.
func (a *Autopilot) send(ctx context.Context, command string, args []string) (worker.Reply, error) {
	res, err := a.dispatcher.Dispatch(ctx, dispatcher.Event{
		Command:   command,
		Args:      args,
		Timestamp: time.Now(),
	})
	if err != nil {
		return worker.Reply{}, err
	}
	reply, ok := res.(worker.Reply)
	if !ok {
		return worker.Reply{}, fmt.Errorf("unexpected reply %T to %s", res, command)
	}
	if !reply.Accepted {
		return reply, fmt.Errorf("%s %v rejected: %s", command, args, reply.Reason)
	}
	return reply, nil
}
