package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableNames(t *testing.T) {
	tests := []struct {
		name     string
		model    interface{ TableName() string }
		expected string
	}{
		{"EngineInfo", &EngineInfo{}, "engine_infos"},
		{"Game", &Game{}, "games"},
		{"Board", &Board{}, "boards"},
		{"EntityState", &EntityState{}, "entity_states"},
		{"PhaseRecord", &PhaseRecord{}, "phase_records"},
		{"RoundRecord", &RoundRecord{}, "round_records"},
		{"AreaEffect", &AreaEffect{}, "area_effects"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.model.TableName())
		})
	}
}

func TestDatabaseModelsHaveTableNames(t *testing.T) {
	for _, m := range DatabaseModels {
		named, ok := m.(interface{ TableName() string })
		if assert.True(t, ok, "%T has no TableName", m) {
			assert.NotEmpty(t, named.TableName())
		}
	}
}
