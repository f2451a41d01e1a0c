// Package handlers runs the lifecycle of a game: it builds the game from a
// scenario, wires it to storage and the phase machine, and closes it out
// with an export and optional upload.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/OCAP2/roundengine/internal/broadcast"
	"github.com/OCAP2/roundengine/internal/config"
	"github.com/OCAP2/roundengine/internal/convert"
	"github.com/OCAP2/roundengine/internal/logging"
	"github.com/OCAP2/roundengine/internal/phase"
	"github.com/OCAP2/roundengine/internal/scenario"
	"github.com/OCAP2/roundengine/internal/storage"
	"github.com/OCAP2/roundengine/internal/worker"
	"github.com/OCAP2/roundengine/pkg/core"
)

// ErrNoGame is returned when ending a game that was never started.
var ErrNoGame = errors.New("no game running")

// Uploader sends an exported game file to the archive.
type Uploader interface {
	Upload(ctx context.Context, filePath string, meta core.UploadMetadata) error
}

// Dependencies holds all dependencies needed by the service.
type Dependencies struct {
	Backend storage.Backend
	// Telemetry receives heat and phase points. Optional.
	Telemetry broadcast.Telemetry
	// Uploader is used when the backend produces an uploadable file. Optional.
	Uploader Uploader
	Logger   *slog.Logger
	Rules    config.RulesConfig
	// Position is stamped on every log record. Optional.
	Position *logging.Position
	// Pending reports the storage write queue length. Optional.
	Pending func() int
}

// Service owns the running game.
type Service struct {
	deps        Dependencies
	broadcaster *broadcast.Broadcaster

	mu      sync.Mutex
	manager *worker.Manager
	built   *scenario.Built
	name    string
	ended   bool
}

// NewService creates a new lifecycle service.
func NewService(deps Dependencies) *Service {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		deps:        deps,
		broadcaster: broadcast.New(deps.Backend, deps.Telemetry, deps.Logger),
	}
}

// Broadcaster returns the broadcaster every game is attached to.
func (s *Service) Broadcaster() *broadcast.Broadcaster {
	return s.broadcaster
}

// Manager returns the worker of the running game, or nil.
func (s *Service) Manager() *worker.Manager {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.manager
}

// Seed returns the dice seed of the running game.
func (s *Service) Seed() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.built == nil {
		return 0
	}
	return s.built.Seed
}

// StartGame builds the game described by scn and records its start. The
// game waits in the lounge until the first :ADVANCE:.
func (s *Service) StartGame(scn *scenario.Scenario) (*worker.Manager, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.manager != nil && !s.ended {
		return nil, fmt.Errorf("game %s is still running", s.built.Game.ID)
	}

	built, err := scn.Build(s.deps.Rules, s.broadcaster, s.deps.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build scenario: %w", err)
	}
	g := built.Game
	s.broadcaster.Attach(g)

	mach, err := phase.New(g, phase.Collaborators{Recorder: s.broadcaster})
	if err != nil {
		return nil, fmt.Errorf("failed to create phase machine: %w", err)
	}

	info := convert.GameInfo(g, scn.Name, built.Seed)
	if err := s.deps.Backend.StartGame(info); err != nil {
		return nil, fmt.Errorf("failed to start game in storage: %w", err)
	}

	s.manager = worker.NewManager(worker.Dependencies{
		Machine:    mach,
		Logger:     s.deps.Logger,
		Position:   s.deps.Position,
		OnGameOver: s.onGameOver,
		Pending:    s.deps.Pending,
	})
	s.built = built
	s.name = scn.Name
	s.ended = false

	s.deps.Logger.Info("Game started", "game", info.ID, "name", scn.Name, "seed", built.Seed,
		"players", len(info.Players), "entities", len(g.Entities()))
	return s.manager, nil
}

func (s *Service) onGameOver(ctx context.Context, result core.GameResult) {
	if err := s.EndGame(ctx, result); err != nil {
		s.deps.Logger.Error("Failed to end game", "error", err)
	}
}

// Finish ends a game that stopped without a winner. It does nothing when
// the game already ended.
func (s *Service) Finish(ctx context.Context) error {
	mgr := s.Manager()
	if mgr == nil {
		return ErrNoGame
	}
	if res, ok := mgr.Result(); ok {
		return s.EndGame(ctx, res)
	}
	st := mgr.Status()
	return s.EndGame(ctx, core.GameResult{
		GameID:  st.GameID,
		EndTime: time.Now(),
		Rounds:  st.Round,
	})
}

// EndGame records the result and uploads the export when the backend
// produced one. A second call is a no-op.
func (s *Service) EndGame(ctx context.Context, result core.GameResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.manager == nil {
		return ErrNoGame
	}
	if s.ended {
		return nil
	}
	s.ended = true

	if err := s.deps.Backend.EndGame(&result); err != nil {
		return fmt.Errorf("failed to end game in storage: %w", err)
	}
	s.deps.Logger.Info("Game recorded", "game", result.GameID, "rounds", result.Rounds,
		"winningTeam", result.WinningTeam)

	up, ok := s.deps.Backend.(storage.Uploadable)
	if !ok || s.deps.Uploader == nil {
		return nil
	}
	path := up.ExportedFilePath()
	if path == "" {
		return nil
	}
	meta := up.ExportMetadata()
	if err := s.deps.Uploader.Upload(ctx, path, meta); err != nil {
		return fmt.Errorf("failed to upload %s: %w", path, err)
	}
	s.deps.Logger.Info("Game uploaded", "path", path, "name", meta.GameName)
	return nil
}
