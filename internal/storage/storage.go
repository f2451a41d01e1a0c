package storage

import "github.com/OCAP2/roundengine/pkg/core"

// Backend is the interface all storage implementations must satisfy
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Game management
	StartGame(info *core.GameInfo) error
	EndGame(result *core.GameResult) error

	// State recording
	RecordEntityState(s *core.EntityState) error
	RecordPhase(r *core.PhaseRecord) error
	RecordRound(r *core.RoundRecord) error
	RecordAreaEffects(gameID string, round int, effects []core.AreaEffectRecord) error
}

// Uploadable is an optional interface for storage backends that produce
// files suitable for upload to the game archive.
type Uploadable interface {
	ExportedFilePath() string
	ExportMetadata() core.UploadMetadata
}
