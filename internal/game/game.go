// Package game holds the explicit context passed to every round resolver:
// players, entities, boards, the current phase and round, turn order,
// reports and area effects.
//
// A Game has a single writer. Callers serialize every mutating call.
package game

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/OCAP2/roundengine/internal/board"
	"github.com/OCAP2/roundengine/internal/dice"
	"github.com/OCAP2/roundengine/internal/engagement"
	"github.com/OCAP2/roundengine/internal/hex"
	"github.com/OCAP2/roundengine/internal/report"
	"github.com/OCAP2/roundengine/internal/unit"
)

// Options are the rule switches of a game.
type Options struct {
	ExtendedHeat   bool
	AssaultDrop    bool
	Minefields     bool
	CoolantFailure bool
	VectorMovement bool
	// MaxExternalHeat caps the heat a unit can take from outside sources in one round.
	MaxExternalHeat int
}

// DefaultOptions returns the standard rule set.
func DefaultOptions() Options {
	return Options{MaxExternalHeat: 15}
}

// Player is a participant.
type Player struct {
	ID         int       `json:"id" yaml:"id"`
	Name       string    `json:"name" yaml:"name"`
	Team       int       `json:"team" yaml:"team"`
	Minefields int       `json:"minefields" yaml:"minefields"`
	Initiative dice.Roll `json:"initiative"`
}

// Game is the state of one game.
type Game struct {
	ID      uuid.UUID
	Options Options
	Boards  board.Accessor

	Roller      dice.Roller
	Broadcaster Broadcaster
	Logger      *slog.Logger
	Engagements *engagement.Tracker

	players  map[int]*Player
	entities map[int]*unit.Entity
	order    []int

	phase Phase
	round int

	reports  *report.Buffer
	roundLog []report.Message
	// roundStart indexes the first roundLog message of the current round.
	roundStart int

	turns     []Turn
	turnIndex int

	areaEffects  []AreaEffect
	nextEffectID int
}

// New creates a game in the lounge. A nil broadcaster or logger is replaced
// with one that discards everything.
func New(opts Options, boards board.Accessor, roller dice.Roller, b Broadcaster, logger *slog.Logger) *Game {
	if b == nil {
		b = NopBroadcaster{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.MaxExternalHeat <= 0 {
		opts.MaxExternalHeat = DefaultOptions().MaxExternalHeat
	}
	g := &Game{
		ID:           uuid.New(),
		Options:      opts,
		Boards:       boards,
		Roller:       roller,
		Broadcaster:  b,
		Logger:       logger,
		players:      make(map[int]*Player),
		entities:     make(map[int]*unit.Entity),
		phase:        Lounge,
		reports:      report.NewBuffer(),
		nextEffectID: 1,
	}
	g.Engagements = engagement.New(func(id int) *unit.Entity {
		return g.entities[id]
	})
	return g
}

// AddPlayer registers p.
func (g *Game) AddPlayer(p *Player) error {
	if _, ok := g.players[p.ID]; ok {
		return fmt.Errorf("duplicate player id %d", p.ID)
	}
	g.players[p.ID] = p
	return nil
}

// Player returns the player with id.
func (g *Game) Player(id int) (*Player, bool) {
	p, ok := g.players[id]
	return p, ok
}

// Players returns every player in ascending id order.
func (g *Game) Players() []*Player {
	ids := make([]int, 0, len(g.players))
	for id := range g.players {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]*Player, len(ids))
	for i, id := range ids {
		out[i] = g.players[id]
	}
	return out
}

// AddEntity registers e. Its owner must already be a player.
func (g *Game) AddEntity(e *unit.Entity) error {
	if e.ID <= 0 {
		return fmt.Errorf("entity id must be positive, got %d", e.ID)
	}
	if _, ok := g.entities[e.ID]; ok {
		return fmt.Errorf("duplicate entity id %d", e.ID)
	}
	if _, ok := g.players[e.Owner]; !ok {
		return fmt.Errorf("entity %d: %w %d", e.ID, ErrUnknownPlayer, e.Owner)
	}
	g.entities[e.ID] = e
	i, _ := slices.BinarySearch(g.order, e.ID)
	g.order = slices.Insert(g.order, i, e.ID)
	return nil
}

// Entity returns the entity with id.
func (g *Game) Entity(id int) (*unit.Entity, bool) {
	e, ok := g.entities[id]
	return e, ok
}

// Entities returns every entity in ascending id order. This is the order
// every per-entity resolution step walks, so a seeded roll stream replays
// the same game.
func (g *Game) Entities() []*unit.Entity {
	out := make([]*unit.Entity, len(g.order))
	for i, id := range g.order {
		out[i] = g.entities[id]
	}
	return out
}

// EntitiesOf returns the entities owned by player in ascending id order.
func (g *Game) EntitiesOf(player int) []*unit.Entity {
	var out []*unit.Entity
	for _, id := range g.order {
		if e := g.entities[id]; e.Owner == player {
			out = append(out, e)
		}
	}
	return out
}

// EntitiesAt returns the deployed entities at c on boardID.
func (g *Game) EntitiesAt(boardID int, c hex.Coords) []*unit.Entity {
	var out []*unit.Entity
	for _, id := range g.order {
		e := g.entities[id]
		if e.Position != nil && e.BoardID == boardID && *e.Position == c && !e.Gone() {
			out = append(out, e)
		}
	}
	return out
}

func (g *Game) Phase() Phase {
	return g.phase
}

// SetPhase is called by the phase machine only.
func (g *Game) SetPhase(p Phase) {
	g.phase = p
}

func (g *Game) Round() int {
	return g.round
}

// IncrementRound starts a new round.
func (g *Game) IncrementRound() {
	g.round++
	g.roundStart = len(g.roundLog)
}

// ResetRound puts the round counter back to zero.
func (g *Game) ResetRound() {
	g.round = 0
	g.roundStart = len(g.roundLog)
}

// Report appends messages to the current phase report.
func (g *Game) Report(msgs ...report.Message) {
	g.reports.Add(msgs...)
}

// Reports returns the current phase report buffer.
func (g *Game) Reports() *report.Buffer {
	return g.reports
}

// ArchiveReports moves the phase report into the round log.
func (g *Game) ArchiveReports() {
	g.roundLog = append(g.roundLog, g.reports.Drain()...)
}

// RoundLog returns a copy of every archived message of the game.
func (g *Game) RoundLog() []report.Message {
	return slices.Clone(g.roundLog)
}

// RoundMessages returns a copy of the archived messages of the current round.
func (g *Game) RoundMessages() []report.Message {
	return slices.Clone(g.roundLog[g.roundStart:])
}

// ShouldDeployThisRound reports whether any unit is scheduled to deploy in
// the current round.
func (g *Game) ShouldDeployThisRound() bool {
	for _, e := range g.Entities() {
		if g.eligibleForDeployment(e) {
			return true
		}
	}
	return false
}

// AnyPlayerHasMinefields reports whether a player still has minefields to place.
func (g *Game) AnyPlayerHasMinefields() bool {
	for _, p := range g.players {
		if p.Minefields > 0 {
			return true
		}
	}
	return false
}

// NotifyEntity broadcasts the state of entity id. Failures are logged.
func (g *Game) NotifyEntity(id int) {
	e, ok := g.entities[id]
	if !ok {
		return
	}
	if err := g.Broadcaster.NotifyEntity(e); err != nil {
		g.Logger.Warn("Failed to broadcast entity", "entity", id, "error", err)
	}
}

// NotifyAll broadcasts every entity. Failures are logged.
func (g *Game) NotifyAll() {
	if err := g.Broadcaster.NotifyAll(g.Entities()); err != nil {
		g.Logger.Warn("Failed to broadcast entities", "error", err)
	}
}

// NotifyPhase broadcasts the phase change. Failures are logged.
func (g *Game) NotifyPhase() {
	if err := g.Broadcaster.NotifyPhase(g.round, g.phase, g.reports.All()); err != nil {
		g.Logger.Warn("Failed to broadcast phase", "phase", g.phase, "error", err)
	}
}
