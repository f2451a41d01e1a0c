package memory

import (
	"compress/gzip"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OCAP2/roundengine/internal/config"
	"github.com/OCAP2/roundengine/internal/storage"
	v1 "github.com/OCAP2/roundengine/internal/storage/memory/export/v1"
	"github.com/OCAP2/roundengine/pkg/core"
)

var (
	_ storage.Backend    = (*Backend)(nil)
	_ storage.Uploadable = (*Backend)(nil)
)

var start = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newStarted(t *testing.T, cfg config.MemoryConfig) *Backend {
	t.Helper()
	b := New(cfg)
	require.NoError(t, b.Init())
	require.NoError(t, b.StartGame(&core.GameInfo{ID: "g1", Name: "Hill Fight: 2", StartTime: start}))
	return b
}

func TestRecordingRequiresGame(t *testing.T) {
	b := New(config.MemoryConfig{})
	assert.ErrorIs(t, b.RecordEntityState(&core.EntityState{EntityID: 1}), ErrNoGame)
	assert.ErrorIs(t, b.RecordPhase(&core.PhaseRecord{}), ErrNoGame)
	assert.ErrorIs(t, b.RecordRound(&core.RoundRecord{}), ErrNoGame)
	assert.ErrorIs(t, b.RecordAreaEffects("g1", 1, nil), ErrNoGame)
	assert.ErrorIs(t, b.EndGame(&core.GameResult{}), ErrNoGame)
}

func TestRecordsAccumulate(t *testing.T) {
	b := newStarted(t, config.MemoryConfig{})

	require.NoError(t, b.RecordEntityState(&core.EntityState{EntityID: 2, Round: 1}))
	require.NoError(t, b.RecordEntityState(&core.EntityState{EntityID: 2, Round: 2}))
	require.NoError(t, b.RecordPhase(&core.PhaseRecord{Phase: "MOVEMENT"}))
	require.NoError(t, b.RecordRound(&core.RoundRecord{Round: 1}))
	require.NoError(t, b.RecordAreaEffects("g1", 1, []core.AreaEffectRecord{{ID: 1}}))

	states := b.EntityStates(2)
	require.Len(t, states, 2)
	assert.Equal(t, 2, states[1].Round)
	assert.Nil(t, b.EntityStates(9))
	assert.Len(t, b.Phases(), 1)
	assert.Len(t, b.Rounds(), 1)
	assert.Len(t, b.AreaEffects(), 1)

	// a new game starts clean
	require.NoError(t, b.StartGame(&core.GameInfo{ID: "g2"}))
	assert.Nil(t, b.EntityStates(2))
	assert.Empty(t, b.Phases())
}

func TestEndGameExportsGzip(t *testing.T) {
	dir := t.TempDir()
	b := newStarted(t, config.MemoryConfig{OutputDir: dir, CompressOutput: true})
	require.NoError(t, b.RecordEntityState(&core.EntityState{EntityID: 1, Name: "Atlas", Round: 3}))
	require.NoError(t, b.EndGame(&core.GameResult{GameID: "g1", Rounds: 3, WinningTeam: 2, EndTime: start.Add(time.Hour)}))

	path := b.ExportedFilePath()
	assert.Equal(t, filepath.Join(dir, "Hill_Fight__2_20260301_120000.json.gz"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	zr, err := gzip.NewReader(f)
	require.NoError(t, err)

	var export v1.Export
	require.NoError(t, json.NewDecoder(zr).Decode(&export))
	assert.Equal(t, "g1", export.Game.ID)
	assert.Equal(t, 2, export.WinningTeam)
	require.Len(t, export.Entities, 2)
	assert.Equal(t, "Atlas", export.Entities[1].Name)

	meta := b.ExportMetadata()
	assert.Equal(t, "Hill Fight: 2", meta.GameName)
	assert.Equal(t, 3, meta.Rounds)
	assert.Equal(t, "team 2", meta.Winner)
}

func TestEndGameExportsPlainJSON(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	b := newStarted(t, config.MemoryConfig{OutputDir: dir})
	require.NoError(t, b.EndGame(&core.GameResult{GameID: "g1"}))

	data, err := os.ReadFile(b.ExportedFilePath())
	require.NoError(t, err)
	var export v1.Export
	require.NoError(t, json.Unmarshal(data, &export))
	assert.Equal(t, v1.FormatVersion, export.FormatVersion)
	assert.Empty(t, b.ExportMetadata().Winner)
}
