// Package core holds the storage-agnostic records of a game: what the
// storage backends persist and the observers receive.
package core

import "time"

// GameInfo describes a game when it starts.
type GameInfo struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StartTime time.Time `json:"startTime"`
	Seed      uint64    `json:"seed"`
	Rules     Rules     `json:"rules"`
	Players   []Player  `json:"players"`
	Boards    []Board   `json:"boards"`
}

// Rules are the rule switches the game runs with.
type Rules struct {
	ExtendedHeat    bool `json:"extendedHeat"`
	AssaultDrop     bool `json:"assaultDrop"`
	Minefields      bool `json:"minefields"`
	CoolantFailure  bool `json:"coolantFailure"`
	VectorMovement  bool `json:"vectorMovement"`
	MaxExternalHeat int  `json:"maxExternalHeat"`
}

// Player is a participant.
type Player struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Team int    `json:"team"`
}

// Board is a map sheet.
type Board struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Space       bool   `json:"space"`
	Atmosphere  string `json:"atmosphere"`
	Temperature int    `json:"temperature"`
}

// UploadMetadata is sent along with an exported game file.
type UploadMetadata struct {
	GameName string
	Rounds   int
	Winner   string
	Tag      string
}

// GameResult describes how a game ended.
type GameResult struct {
	GameID  string    `json:"gameId"`
	EndTime time.Time `json:"endTime"`
	Rounds  int       `json:"rounds"`
	// WinningTeam is 0 when the game ended without a winner.
	WinningTeam int `json:"winningTeam"`
}
