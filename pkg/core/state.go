package core

import "time"

// Position is a hex on a board. X and Y are the planar centre of the hex in
// hex widths.
type Position struct {
	BoardID int     `json:"boardId"`
	Col     int     `json:"col"`
	Row     int     `json:"row"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
}

// EntityState is a snapshot of one entity.
type EntityState struct {
	GameID    string    `json:"gameId"`
	EntityID  int       `json:"entityId"`
	Owner     int       `json:"owner"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Round     int       `json:"round"`
	Phase     string    `json:"phase"`
	Time      time.Time `json:"time"`
	Position  *Position `json:"position,omitempty"`
	Facing    int       `json:"facing"`
	Elevation int       `json:"elevation"`
	Altitude  int       `json:"altitude"`
	Deployed  bool      `json:"deployed"`
	Done      bool      `json:"done"`
	Destroyed bool      `json:"destroyed"`
	// TransportID is 0 unless the entity is carried.
	TransportID int           `json:"transportId"`
	Thermal     ThermalRecord `json:"thermal"`
}

// ThermalRecord is the heat state of an entity.
type ThermalRecord struct {
	Heat              int    `json:"heat"`
	Capacity          int    `json:"capacity"`
	Shutdown          string `json:"shutdown"`
	CoolantFailure    int    `json:"coolantFailure"`
	CoolingFlawActive bool   `json:"coolingFlawActive"`
	EMPInterference   int    `json:"empInterference"`
}
