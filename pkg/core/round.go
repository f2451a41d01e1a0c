package core

import "time"

// ReportEntry is one report message.
type ReportEntry struct {
	MessageID int      `json:"messageId"`
	Subject   int      `json:"subject,omitempty"`
	Player    int      `json:"player,omitempty"`
	Public    bool     `json:"public"`
	Indent    int      `json:"indent,omitempty"`
	Params    []string `json:"params,omitempty"`
	Text      string   `json:"text"`
}

// Turn gives a player, or one entity of the player, the right to act.
type Turn struct {
	Player int `json:"player"`
	Entity int `json:"entity,omitempty"`
}

// PhaseRecord is written when a phase is entered.
type PhaseRecord struct {
	GameID    string        `json:"gameId"`
	Round     int           `json:"round"`
	Phase     string        `json:"phase"`
	Time      time.Time     `json:"time"`
	Turns     []Turn        `json:"turns"`
	TurnIndex int           `json:"turnIndex"`
	Reports   []ReportEntry `json:"reports"`
}

// Initiative is a player's initiative roll.
type Initiative struct {
	Player int    `json:"player"`
	Total  int    `json:"total"`
	Dice   [2]int `json:"dice"`
}

// EngagementRecord is an infantry engagement over a target.
type EngagementRecord struct {
	Target         int   `json:"target"`
	Attackers      []int `json:"attackers"`
	Defenders      []int `json:"defenders"`
	Turns          int   `json:"turns"`
	PartialControl bool  `json:"partialControl"`
}

// AreaEffectRecord is a temporary field on a board.
type AreaEffectRecord struct {
	ID           int      `json:"id"`
	Kind         string   `json:"kind"`
	Center       Position `json:"center"`
	Radius       int      `json:"radius"`
	ExpiresRound int      `json:"expiresRound"`
}

// RoundRecord is written when a round closes.
type RoundRecord struct {
	GameID      string             `json:"gameId"`
	Round       int                `json:"round"`
	Time        time.Time          `json:"time"`
	Initiative  []Initiative       `json:"initiative"`
	Engagements []EngagementRecord `json:"engagements"`
	AreaEffects []AreaEffectRecord `json:"areaEffects"`
	Reports     []ReportEntry      `json:"reports"`
}
