// Package gormstore implements the storage.Backend interface using GORM
// with internal queues and a background DB writer goroutine.
package gormstore

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/OCAP2/roundengine/internal/database"
	"github.com/OCAP2/roundengine/internal/model"
	"github.com/OCAP2/roundengine/internal/model/convert"
	"github.com/OCAP2/roundengine/internal/queue"
	"github.com/OCAP2/roundengine/pkg/core"
)

// DefaultFlushInterval is how often queued records are written.
const DefaultFlushInterval = 2 * time.Second

// ErrNoDB is returned by Init when no connection was injected.
var ErrNoDB = errors.New("no database connection")

// Dependencies holds all dependencies for the GORM storage backend.
type Dependencies struct {
	DB            *gorm.DB
	Logger        *slog.Logger
	DBLogger      zerolog.Logger
	FlushInterval time.Duration
}

// queues holds the write queues for batch DB insertion.
type queues struct {
	EntityStates *queue.Batch[model.EntityState]
	Phases       *queue.Batch[model.PhaseRecord]
}

func newQueues() *queues {
	return &queues{
		EntityStates: queue.New[model.EntityState](),
		Phases:       queue.New[model.PhaseRecord](),
	}
}

// Backend implements storage.Backend using GORM with queue-based batch writes.
type Backend struct {
	deps   Dependencies
	queues *queues
	gameID atomic.Pointer[string]

	// flushMu serialises writer cycles
	flushMu  sync.Mutex
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// New creates a new GORM storage backend.
func New(deps Dependencies) *Backend {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}
	if deps.FlushInterval <= 0 {
		deps.FlushInterval = DefaultFlushInterval
	}
	return &Backend{
		deps:   deps,
		queues: newQueues(),
	}
}

// DB returns the underlying connection.
func (b *Backend) DB() *gorm.DB {
	return b.deps.DB
}

// Init runs schema migration and starts the DB writer goroutine.
func (b *Backend) Init() error {
	if b.deps.DB == nil {
		return ErrNoDB
	}
	if err := database.Setup(b.deps.DB, b.deps.DBLogger); err != nil {
		return fmt.Errorf("failed to setup DB: %w", err)
	}

	b.stopChan = make(chan struct{})
	b.wg.Add(1)
	go b.runWriter()
	return nil
}

// Close stops the DB writer goroutine and writes what is still queued.
func (b *Backend) Close() error {
	if b.stopChan != nil {
		close(b.stopChan)
		b.wg.Wait()
		b.stopChan = nil
	}
	return b.Flush()
}

// StartGame inserts the game and its boards.
func (b *Backend) StartGame(info *core.GameInfo) error {
	g := convert.CoreToGame(*info)
	if err := b.deps.DB.Create(&g).Error; err != nil {
		return fmt.Errorf("failed to insert new game: %w", err)
	}
	id := info.ID
	b.gameID.Store(&id)
	b.deps.Logger.Info("Game stored", "game", id, "boards", len(g.Boards))
	return nil
}

// EndGame writes everything queued and stamps the result on the game row.
func (b *Backend) EndGame(result *core.GameResult) error {
	if err := b.Flush(); err != nil {
		return err
	}
	end := result.EndTime
	err := b.deps.DB.Model(&model.Game{}).Where("id = ?", result.GameID).Updates(map[string]any{
		"end_time": &end,
		"rounds":   result.Rounds,
	}).Error
	if err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}
	b.gameID.Store(nil)
	return nil
}

// RecordEntityState converts and queues an entity state.
func (b *Backend) RecordEntityState(s *core.EntityState) error {
	b.queues.EntityStates.Add(convert.CoreToEntityState(*s))
	return nil
}

// RecordPhase converts and queues a phase record.
func (b *Backend) RecordPhase(r *core.PhaseRecord) error {
	b.queues.Phases.Add(convert.CoreToPhaseRecord(*r))
	return nil
}

// RecordRound inserts a round record with its area effects synchronously
// (low-volume, one per round).
func (b *Backend) RecordRound(r *core.RoundRecord) error {
	rec := convert.CoreToRoundRecord(*r)
	if err := b.deps.DB.Create(&rec).Error; err != nil {
		return fmt.Errorf("failed to insert round %d: %w", r.Round, err)
	}
	return nil
}

// RecordAreaEffects is a no-op. Area effects are stored with their round.
func (b *Backend) RecordAreaEffects(string, int, []core.AreaEffectRecord) error {
	return nil
}

// Pending returns the number of queued records.
func (b *Backend) Pending() int {
	return b.queues.EntityStates.Len() + b.queues.Phases.Len()
}

// Flush writes all queued records now.
func (b *Backend) Flush() error {
	b.flushMu.Lock()
	defer b.flushMu.Unlock()

	return errors.Join(
		writeQueue(b.deps.DB, b.queues.EntityStates, "entity states"),
		writeQueue(b.deps.DB, b.queues.Phases, "phase records"),
	)
}

// writeQueue writes all items from a queue to the database in a transaction.
// On failure the items go back to the front of the queue.
func writeQueue[T any](db *gorm.DB, q *queue.Batch[T], name string) error {
	items := q.Take()
	if len(items) == 0 {
		return nil
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&items).Error
	})
	if err != nil {
		q.Return(items)
		return fmt.Errorf("error creating %s: %w", name, err)
	}
	return nil
}

// runWriter periodically drains the queues into the DB.
func (b *Backend) runWriter() {
	defer b.wg.Done()
	ticker := time.NewTicker(b.deps.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-b.stopChan:
			return
		case <-ticker.C:
			start := time.Now()
			pending := b.Pending()
			if err := b.Flush(); err != nil {
				b.deps.Logger.Error("DB write failed", "error", err)
				continue
			}
			if pending > 0 {
				b.deps.Logger.Debug("DB write", "records", pending, "duration", time.Since(start))
			}
		}
	}
}
