// Package broadcast forwards game notifications and phase records to a
// storage backend and, when configured, to time-series telemetry.
package broadcast

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/OCAP2/roundengine/internal/convert"
	"github.com/OCAP2/roundengine/internal/game"
	"github.com/OCAP2/roundengine/internal/report"
	"github.com/OCAP2/roundengine/internal/storage"
	"github.com/OCAP2/roundengine/internal/unit"
	"github.com/OCAP2/roundengine/pkg/core"
)

// Telemetry receives per-round heat and phase points.
type Telemetry interface {
	RecordHeat(states []*core.EntityState) error
	RecordPhase(r *core.PhaseRecord) error
}

// Turns is the last turn list sent to a player.
type Turns struct {
	Player int         `json:"player"`
	Turns  []core.Turn `json:"turns"`
	Index  int         `json:"index"`
}

// Broadcaster implements game.Broadcaster and phase.Recorder. It has to be
// attached to its game before the first notification.
type Broadcaster struct {
	store     storage.Backend
	telemetry Telemetry
	logger    *slog.Logger

	mu        sync.Mutex
	g         *game.Game
	lastTurns Turns
	lastPhase *core.PhaseRecord
}

// New creates a broadcaster writing to store. telemetry may be nil.
func New(store storage.Backend, telemetry Telemetry, logger *slog.Logger) *Broadcaster {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Broadcaster{store: store, telemetry: telemetry, logger: logger}
}

// Attach binds the broadcaster to g.
func (b *Broadcaster) Attach(g *game.Game) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.g = g
	b.lastPhase = nil
	b.lastTurns = Turns{}
}

func (b *Broadcaster) game() (*game.Game, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.g == nil {
		return nil, errors.New("broadcaster not attached to a game")
	}
	return b.g, nil
}

func (b *Broadcaster) NotifyEntity(e *unit.Entity) error {
	g, err := b.game()
	if err != nil {
		return err
	}
	return b.store.RecordEntityState(convert.EntityState(g, e))
}

func (b *Broadcaster) NotifyAll(entities []*unit.Entity) error {
	g, err := b.game()
	if err != nil {
		return err
	}
	var errs []error
	for _, e := range entities {
		errs = append(errs, b.store.RecordEntityState(convert.EntityState(g, e)))
	}
	return errors.Join(errs...)
}

// SendTurns keeps the turn list for status queries. Turn lists are part of
// every phase record, so nothing is stored here.
func (b *Broadcaster) SendTurns(player int, turns []game.Turn, index int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastTurns = Turns{Player: player, Turns: convert.Turns(turns), Index: index}
	b.logger.Debug("Turns sent", "player", player, "turns", len(turns), "index", index)
	return nil
}

func (b *Broadcaster) NotifyAreaEffects(effects []game.AreaEffect) error {
	g, err := b.game()
	if err != nil {
		return err
	}
	return b.store.RecordAreaEffects(g.ID.String(), g.Round(), convert.AreaEffects(effects))
}

// NotifyPhase keeps the phase and its reports for status queries.
func (b *Broadcaster) NotifyPhase(round int, p game.Phase, reports []report.Message) error {
	g, err := b.game()
	if err != nil {
		return err
	}
	rec := convert.PhaseRecord(g, round, p, reports)
	b.mu.Lock()
	b.lastPhase = rec
	b.mu.Unlock()
	return nil
}

// RecordPhase stores the phase g just entered.
func (b *Broadcaster) RecordPhase(_ context.Context, g *game.Game) error {
	rec := convert.PhaseRecord(g, g.Round(), g.Phase(), g.Reports().All())
	err := b.store.RecordPhase(rec)
	if b.telemetry != nil {
		err = errors.Join(err, b.telemetry.RecordPhase(rec))
	}
	return err
}

// RecordRound stores the round record and writes one heat point per
// entity.
func (b *Broadcaster) RecordRound(_ context.Context, g *game.Game) error {
	err := b.store.RecordRound(convert.RoundRecord(g))
	if b.telemetry == nil {
		return err
	}
	entities := g.Entities()
	states := make([]*core.EntityState, 0, len(entities))
	for _, e := range entities {
		if e.TracksHeat() {
			states = append(states, convert.EntityState(g, e))
		}
	}
	return errors.Join(err, b.telemetry.RecordHeat(states))
}

// LastTurns returns the last turn list sent.
func (b *Broadcaster) LastTurns() Turns {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastTurns
}

// LastPhase returns the record of the last phase notified, or nil.
func (b *Broadcaster) LastPhase() *core.PhaseRecord {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastPhase
}
