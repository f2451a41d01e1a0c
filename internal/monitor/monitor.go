// Package monitor reports where a running game stands: a status snapshot
// served to the :STATUS: command and periodically written to a status file.
package monitor

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/OCAP2/roundengine/internal/game"
)

// StatusFileName is the file written into the output directory.
const StatusFileName = "status.json"

// Status is a point-in-time view of a game.
type Status struct {
	Time        time.Time   `json:"time"`
	GameID      string      `json:"gameId"`
	Round       int         `json:"round"`
	Phase       string      `json:"phase"`
	Turns       []game.Turn `json:"turns"`
	TurnIndex   int         `json:"turnIndex"`
	CurrentTurn *game.Turn  `json:"currentTurn,omitempty"`

	Entities    int `json:"entities"`
	Deployed    int `json:"deployed"`
	Gone        int `json:"gone"`
	Shutdown    int `json:"shutdown"`
	AreaEffects int `json:"areaEffects"`

	GameOver    bool `json:"gameOver"`
	WinningTeam int  `json:"winningTeam,omitempty"`

	// PendingWrites is the storage write queue length when the backend
	// queues its writes.
	PendingWrites int `json:"pendingWrites"`
}

// Snapshot builds the status of g. The caller holds the game's writer lock.
func Snapshot(g *game.Game) Status {
	s := Status{
		Time:        time.Now(),
		GameID:      g.ID.String(),
		Round:       g.Round(),
		Phase:       g.Phase().String(),
		Turns:       g.Turns(),
		TurnIndex:   g.TurnIndex(),
		AreaEffects: len(g.AreaEffects()),
	}
	if t, ok := g.CurrentTurn(); ok {
		s.CurrentTurn = &t
	}
	for _, e := range g.Entities() {
		s.Entities++
		if e.Deployed {
			s.Deployed++
		}
		if e.Gone() {
			s.Gone++
		}
		if e.Thermal.Shutdown != 0 {
			s.Shutdown++
		}
	}
	return s
}

// Lines renders s for the log and the status file header.
func (s Status) Lines() []string {
	lines := []string{
		fmt.Sprintf("GAME: %s", s.GameID),
		fmt.Sprintf("ROUND: %d PHASE: %s", s.Round, s.Phase),
		fmt.Sprintf("TURN: %d/%d", s.TurnIndex, len(s.Turns)),
		fmt.Sprintf("ENTITIES: %d deployed, %d gone, %d shut down of %d",
			s.Deployed, s.Gone, s.Shutdown, s.Entities),
		fmt.Sprintf("AREA EFFECTS: %d", s.AreaEffects),
		fmt.Sprintf("PENDING WRITES: %d", s.PendingWrites),
	}
	if s.GameOver {
		lines = append(lines, fmt.Sprintf("GAME OVER: team %d", s.WinningTeam))
	}
	return lines
}

// Dependencies holds the monitor's sources.
type Dependencies struct {
	// Status returns the current snapshot. It must be safe to call from the
	// monitor goroutine.
	Status    func() Status
	Logger    *slog.Logger
	OutputDir string
	Interval  time.Duration
}

// Service writes the status file on an interval.
type Service struct {
	deps Dependencies

	mu        sync.Mutex
	isRunning bool
	stopChan  chan struct{}
	done      chan struct{}
}

// NewService creates a new monitor service.
func NewService(deps Dependencies) *Service {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}
	if deps.Interval <= 0 {
		deps.Interval = time.Second
	}
	return &Service{deps: deps}
}

// Path is the status file location.
func (s *Service) Path() string {
	return filepath.Join(s.deps.OutputDir, StatusFileName)
}

// WriteStatus writes one snapshot to the status file.
func (s *Service) WriteStatus() error {
	data, err := json.MarshalIndent(s.deps.Status(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal status: %w", err)
	}
	if err := os.WriteFile(s.Path(), data, 0o644); err != nil {
		return fmt.Errorf("write status file: %w", err)
	}
	return nil
}

// Start starts the status monitor goroutine.
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return nil
	}
	if err := os.MkdirAll(s.deps.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create status dir: %w", err)
	}
	s.isRunning = true
	s.stopChan = make(chan struct{})
	s.done = make(chan struct{})

	go s.run(s.stopChan, s.done)
	return nil
}

func (s *Service) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	logger := s.deps.Logger
	logger.Debug("Starting status monitor", "path", s.Path(), "interval", s.deps.Interval)

	ticker := time.NewTicker(s.deps.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			// last word on shutdown
			if err := s.WriteStatus(); err != nil {
				logger.Error("Error writing status file", "error", err)
			}
			return
		case <-ticker.C:
			if err := s.WriteStatus(); err != nil {
				logger.Error("Error writing status file", "error", err)
			}
		}
	}
}

// Stop stops the status monitor and waits for its final write.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	close(s.stopChan)
	done := s.done
	s.mu.Unlock()
	<-done
}

// IsRunning reports whether the monitor goroutine is active.
func (s *Service) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}
