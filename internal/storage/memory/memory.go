// Package memory keeps a game in memory and exports it to a JSON file when
// the game ends.
package memory

import (
	"errors"
	"sync"

	"github.com/OCAP2/roundengine/internal/config"
	v1 "github.com/OCAP2/roundengine/internal/storage/memory/export/v1"
	"github.com/OCAP2/roundengine/pkg/core"
)

// ErrNoGame is returned when recording outside a started game.
var ErrNoGame = errors.New("no game started")

// Backend stores game data in memory and exports to JSON
type Backend struct {
	cfg    config.MemoryConfig
	info   *core.GameInfo
	result *core.GameResult

	entities    map[int]*v1.EntityRecord
	phases      []core.PhaseRecord
	rounds      []core.RoundRecord
	areaEffects []core.AreaEffectRecord

	lastExportPath string
	lastExportMeta core.UploadMetadata
	mu             sync.RWMutex
}

// New creates a new memory backend
func New(cfg config.MemoryConfig) *Backend {
	return &Backend{
		cfg:      cfg,
		entities: make(map[int]*v1.EntityRecord),
	}
}

// Init initializes the backend
func (b *Backend) Init() error {
	return nil
}

// Close cleans up resources
func (b *Backend) Close() error {
	return nil
}

// StartGame begins recording a new game, discarding any previous one
func (b *Backend) StartGame(info *core.GameInfo) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.info = info
	b.result = nil
	b.entities = make(map[int]*v1.EntityRecord)
	b.phases = nil
	b.rounds = nil
	b.areaEffects = nil
	return nil
}

// EndGame finalizes and exports the game data
func (b *Backend) EndGame(result *core.GameResult) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.info == nil {
		return ErrNoGame
	}
	b.result = result
	return b.exportJSON()
}

// RecordEntityState appends a snapshot to the entity's track
func (b *Backend) RecordEntityState(s *core.EntityState) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.info == nil {
		return ErrNoGame
	}
	record, ok := b.entities[s.EntityID]
	if !ok {
		record = &v1.EntityRecord{}
		b.entities[s.EntityID] = record
	}
	record.States = append(record.States, *s)
	return nil
}

// RecordPhase appends a phase record
func (b *Backend) RecordPhase(r *core.PhaseRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.info == nil {
		return ErrNoGame
	}
	b.phases = append(b.phases, *r)
	return nil
}

// RecordRound appends a round record
func (b *Backend) RecordRound(r *core.RoundRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.info == nil {
		return ErrNoGame
	}
	b.rounds = append(b.rounds, *r)
	return nil
}

// RecordAreaEffects keeps the latest set of area effects
func (b *Backend) RecordAreaEffects(_ string, _ int, effects []core.AreaEffectRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.info == nil {
		return ErrNoGame
	}
	b.areaEffects = effects
	return nil
}

// EntityStates returns the recorded snapshots of an entity
func (b *Backend) EntityStates(id int) []core.EntityState {
	b.mu.RLock()
	defer b.mu.RUnlock()

	record, ok := b.entities[id]
	if !ok {
		return nil
	}
	return append([]core.EntityState(nil), record.States...)
}

// Phases returns the recorded phase records
func (b *Backend) Phases() []core.PhaseRecord {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]core.PhaseRecord(nil), b.phases...)
}

// Rounds returns the recorded round records
func (b *Backend) Rounds() []core.RoundRecord {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]core.RoundRecord(nil), b.rounds...)
}

// AreaEffects returns the latest area effects
func (b *Backend) AreaEffects() []core.AreaEffectRecord {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]core.AreaEffectRecord(nil), b.areaEffects...)
}
