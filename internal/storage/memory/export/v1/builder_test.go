package v1

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OCAP2/roundengine/pkg/core"
)

func TestBuildEmpty(t *testing.T) {
	export := Build(&GameData{})
	assert.Equal(t, FormatVersion, export.FormatVersion)
	assert.NotNil(t, export.Entities)
	assert.Empty(t, export.Entities)
	assert.Nil(t, export.EndTime)

	data, err := json.Marshal(export)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"entities":[]`)
}

func TestBuildIndexesEntitiesByID(t *testing.T) {
	data := &GameData{
		Info: &core.GameInfo{ID: "g1", Name: "skirmish"},
		Entities: map[int]*EntityRecord{
			3: {States: []core.EntityState{
				{EntityID: 3, Name: "Atlas", Owner: 1, Category: "mek", Round: 1, Phase: "DEPLOYMENT"},
				{
					EntityID: 3, Name: "Atlas", Owner: 1, Category: "mek", Round: 2, Phase: "MOVEMENT",
					Position: &core.Position{BoardID: 1, Col: 4, Row: 6},
					Facing:   2,
					Thermal:  core.ThermalRecord{Heat: 9, Shutdown: "running"},
				},
			}},
			1: {States: []core.EntityState{{EntityID: 1, Name: "Locust", Owner: 2, Category: "mek", Destroyed: true, Round: 2}}},
			7: {},
		},
	}

	export := Build(data)
	require.Len(t, export.Entities, 4)
	assert.Equal(t, 0, export.Entities[0].ID)
	assert.Equal(t, "Locust", export.Entities[1].Name)
	assert.Equal(t, 0, export.Entities[2].ID)

	atlas := export.Entities[3]
	require.Len(t, atlas.Track, 2)
	assert.Equal(t, []any{1, "DEPLOYMENT", 0, -1, -1, 0, 0, "", 0}, atlas.Track[0])
	assert.Equal(t, []any{2, "MOVEMENT", 1, 4, 6, 2, 9, "running", 0}, atlas.Track[1])
	assert.Equal(t, 1, export.Entities[1].Track[0][8])
	assert.Equal(t, 2, export.Rounds)
}

func TestBuildResultAndRounds(t *testing.T) {
	end := time.Date(2026, 3, 1, 13, 0, 0, 0, time.UTC)
	data := &GameData{
		Result: &core.GameResult{EndTime: end, Rounds: 4, WinningTeam: 2},
		Rounds: []core.RoundRecord{{Round: 2}, {Round: 1}},
		Phases: []core.PhaseRecord{{Round: 1, Phase: "INITIATIVE", Reports: []core.ReportEntry{{MessageID: 1000}}}},
	}

	export := Build(data)
	require.NotNil(t, export.EndTime)
	assert.Equal(t, end, *export.EndTime)
	assert.Equal(t, 4, export.Rounds)
	assert.Equal(t, 2, export.WinningTeam)
	require.Len(t, export.RoundLog, 2)
	assert.Equal(t, 1, export.RoundLog[0].Round)
	require.Len(t, export.Phases, 1)
	assert.Equal(t, 1000, export.Phases[0].Reports[0].MessageID)
}
