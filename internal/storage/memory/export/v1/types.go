// Package v1 contains the v1 export format for recorded games.
package v1

import (
	"time"

	"github.com/OCAP2/roundengine/pkg/core"
)

// FormatVersion identifies this format in the exported file.
const FormatVersion = 1

// Export is the root JSON structure for v1 format
type Export struct {
	FormatVersion int           `json:"formatVersion"`
	Game          core.GameInfo `json:"game"`
	EndTime       *time.Time    `json:"endTime,omitempty"`
	Rounds        int           `json:"rounds"`
	WinningTeam   int           `json:"winningTeam"`
	Entities      []Entity      `json:"entities"`
	Phases        []Phase       `json:"phases"`
	RoundLog      []Round       `json:"roundLog"`
}

// Entity is one entity and its track. The entities array is indexed by
// entity id; unused slots have ID 0.
type Entity struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Owner    int    `json:"owner"`
	Category string `json:"category"`
	// Track rows are [round, phase, boardId, col, row, facing, heat, shutdown, destroyed].
	// Off-board snapshots carry boardId 0 with col and row -1.
	Track [][]any `json:"track"`
}

// Phase is an entered phase with its reports.
type Phase struct {
	Round   int                `json:"round"`
	Phase   string             `json:"phase"`
	Turns   []core.Turn        `json:"turns"`
	Reports []core.ReportEntry `json:"reports"`
}

// Round is a closed round.
type Round struct {
	Round       int                     `json:"round"`
	Initiative  []core.Initiative       `json:"initiative"`
	Engagements []core.EngagementRecord `json:"engagements"`
	AreaEffects []core.AreaEffectRecord `json:"areaEffects"`
}
