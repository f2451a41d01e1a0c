package model

import (
	"time"

	geom "github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

////////////////////////
// DATABASE STRUCTURES //
////////////////////////

// DatabaseModels is a list of all the structs exported here which represent tables in the database schema
var DatabaseModels = []interface{}{
	&EngineInfo{},
	&Game{},
	&Board{},
	&EntityState{},
	&PhaseRecord{},
	&RoundRecord{},
	&AreaEffect{},
}

////////////////////////
// SYSTEM MODELS
////////////////////////

// EngineInfo identifies the schema owner
type EngineInfo struct {
	gorm.Model
	Name          string `json:"name" gorm:"size:127"`
	SchemaVersion int    `json:"schemaVersion"`
}

func (*EngineInfo) TableName() string {
	return "engine_infos"
}

////////////////////////
// GAME MODELS
////////////////////////

// Game is one played game
type Game struct {
	ID        string         `json:"id" gorm:"primaryKey;size:36"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"deletedAt" gorm:"index"`
	Name      string         `json:"name" gorm:"size:200"`
	StartTime time.Time      `json:"startTime" gorm:"type:timestamptz;index:idx_game_start"`
	EndTime   *time.Time     `json:"endTime" gorm:"type:timestamptz"`
	Seed      uint64         `json:"seed"`
	Rules     Rules          `json:"rules" gorm:"embedded;embeddedPrefix:rules_"`
	Players   datatypes.JSON `json:"players"`
	Rounds    int            `json:"rounds"`
	Boards    []Board        `json:"boards" gorm:"foreignKey:GameID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (*Game) TableName() string {
	return "games"
}

// Rules are the rule switches a game ran with
type Rules struct {
	ExtendedHeat    bool `json:"extendedHeat"`
	AssaultDrop     bool `json:"assaultDrop"`
	Minefields      bool `json:"minefields"`
	CoolantFailure  bool `json:"coolantFailure"`
	VectorMovement  bool `json:"vectorMovement"`
	MaxExternalHeat int  `json:"maxExternalHeat"`
}

// Board is a map sheet of a game
// Uses composite primary key (GameID, BoardID)
type Board struct {
	GameID      string `json:"gameId" gorm:"primaryKey;size:36"`
	BoardID     int    `json:"boardId" gorm:"primaryKey;autoIncrement:false"`
	Name        string `json:"name" gorm:"size:127"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Space       bool   `json:"space"`
	Atmosphere  string `json:"atmosphere" gorm:"size:16"`
	Temperature int    `json:"temperature"`
}

func (*Board) TableName() string {
	return "boards"
}

// EntityState is an entity snapshot taken whenever the entity changes
type EntityState struct {
	ID       uint      `json:"id" gorm:"primarykey;autoIncrement;"`
	Time     time.Time `json:"time" gorm:"type:timestamptz;"`
	GameID   string    `json:"gameId" gorm:"size:36;index:idx_entitystate_game_id"`
	Game     Game      `json:"-" gorm:"foreignkey:GameID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Round    int       `json:"round" gorm:"index:idx_entitystate_round"`
	Phase    string    `json:"phase" gorm:"size:32"`
	EntityID int       `json:"entityId" gorm:"index:idx_entitystate_entity_id"`
	Owner    int       `json:"owner"`
	Name     string    `json:"name" gorm:"size:64"`
	Category string    `json:"category" gorm:"size:16"`

	// OnBoard is false for entities without a position; the position columns are then zero
	OnBoard   bool       `json:"onBoard"`
	BoardID   int        `json:"boardId"`
	Col       int        `json:"col"`
	Row       int        `json:"row"`
	Position  geom.Point `json:"position"` // hex centre in hex widths
	Facing    int        `json:"facing"`
	Elevation int        `json:"elevation"`
	Altitude  int        `json:"altitude"`

	Deployed    bool `json:"deployed"`
	Done        bool `json:"done"`
	Destroyed   bool `json:"destroyed"`
	TransportID int  `json:"transportId"`

	Thermal Thermal `json:"thermal" gorm:"embedded;embeddedPrefix:thermal_"`
}

func (*EntityState) TableName() string {
	return "entity_states"
}

// Thermal is the heat state of an entity snapshot
type Thermal struct {
	Heat              int    `json:"heat"`
	Capacity          int    `json:"capacity"`
	Shutdown          string `json:"shutdown" gorm:"size:64"`
	CoolantFailure    int    `json:"coolantFailure"`
	CoolingFlawActive bool   `json:"coolingFlawActive"`
	EMPInterference   int    `json:"empInterference"`
}

// PhaseRecord is written when a phase is entered
type PhaseRecord struct {
	ID        uint           `json:"id" gorm:"primarykey;autoIncrement;"`
	Time      time.Time      `json:"time" gorm:"type:timestamptz;"`
	GameID    string         `json:"gameId" gorm:"size:36;index:idx_phaserecord_game_id"`
	Game      Game           `json:"-" gorm:"foreignkey:GameID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Round     int            `json:"round"`
	Phase     string         `json:"phase" gorm:"size:32"`
	Turns     datatypes.JSON `json:"turns"`
	TurnIndex int            `json:"turnIndex"`
	Reports   datatypes.JSON `json:"reports"`
}

func (*PhaseRecord) TableName() string {
	return "phase_records"
}

// RoundRecord closes a round
type RoundRecord struct {
	ID          uint           `json:"id" gorm:"primarykey;autoIncrement;"`
	Time        time.Time      `json:"time" gorm:"type:timestamptz;"`
	GameID      string         `json:"gameId" gorm:"size:36;index:idx_roundrecord_game_id"`
	Game        Game           `json:"-" gorm:"foreignkey:GameID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Round       int            `json:"round"`
	Initiative  datatypes.JSON `json:"initiative"`
	Engagements datatypes.JSON `json:"engagements"`
	Reports     datatypes.JSON `json:"reports"`
	AreaEffects []AreaEffect   `json:"areaEffects" gorm:"foreignKey:RoundRecordID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (*RoundRecord) TableName() string {
	return "round_records"
}

// AreaEffect is an area effect live when its round closed
type AreaEffect struct {
	ID            uint       `json:"id" gorm:"primarykey;autoIncrement;"`
	RoundRecordID uint       `json:"roundRecordId" gorm:"index:idx_areaeffect_round_record_id"`
	EffectID      int        `json:"effectId"`
	Kind          string     `json:"kind" gorm:"size:32"`
	BoardID       int        `json:"boardId"`
	Col           int        `json:"col"`
	Row           int        `json:"row"`
	Center        geom.Point `json:"center"`
	Radius        int        `json:"radius"`
	ExpiresRound  int        `json:"expiresRound"`
}

func (*AreaEffect) TableName() string {
	return "area_effects"
}
