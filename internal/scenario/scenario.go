// Package scenario loads game setups from YAML: rules, boards, players,
// entities, scripted deployments and timed events.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/OCAP2/roundengine/internal/board"
	"github.com/OCAP2/roundengine/internal/game"
	"github.com/OCAP2/roundengine/internal/hex"
	"github.com/OCAP2/roundengine/internal/unit"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid scenario")

// Scenario is a complete game setup.
type Scenario struct {
	Name        string           `yaml:"name"`
	Seed        uint64           `yaml:"seed"`
	Rules       *Rules           `yaml:"rules"`
	Boards      []BoardSpec      `yaml:"boards"`
	Players     []game.Player    `yaml:"players"`
	Entities    []EntitySpec     `yaml:"entities"`
	Deployments []DeploymentSpec `yaml:"deployments"`
	Events      []Event          `yaml:"events"`
}

// Rules override the configured rule switches when present.
type Rules struct {
	ExtendedHeat    bool `yaml:"extendedHeat"`
	AssaultDrop     bool `yaml:"assaultDrop"`
	Minefields      bool `yaml:"minefields"`
	CoolantFailure  bool `yaml:"coolantFailure"`
	VectorMovement  bool `yaml:"vectorMovement"`
	MaxExternalHeat int  `yaml:"maxExternalHeat"`
}

// BoardSpec describes one map. Boards start flat at 25 degrees; Hexes and
// Buildings overlay terrain.
type BoardSpec struct {
	ID          int                `yaml:"id"`
	Name        string             `yaml:"name"`
	Width       int                `yaml:"width"`
	Height      int                `yaml:"height"`
	Space       bool               `yaml:"space"`
	Atmosphere  string             `yaml:"atmosphere"`
	Temperature *int               `yaml:"temperature"`
	Zones       map[int]board.Zone `yaml:"zones"`
	Hexes       []board.Hex        `yaml:"hexes"`
	Buildings   []board.Building   `yaml:"buildings"`
}

// EntitySpec describes one unit. A unit with a position starts deployed.
type EntitySpec struct {
	ID          int                `yaml:"id"`
	Owner       int                `yaml:"owner"`
	Name        string             `yaml:"name"`
	Category    string             `yaml:"category"`
	Tonnage     int                `yaml:"tonnage"`
	Crew        unit.Crew          `yaml:"crew"`
	DeployRound int                `yaml:"deployRound"`
	Position    *hex.Coords        `yaml:"position"`
	BoardID     int                `yaml:"boardId"`
	Facing      int                `yaml:"facing"`
	Elevation   int                `yaml:"elevation"`
	Altitude    int                `yaml:"altitude"`
	Airborne    bool               `yaml:"airborne"`
	Spheroid    bool               `yaml:"spheroid"`
	Quirks      []unit.Quirk       `yaml:"quirks"`
	Equipment   unit.Equipment     `yaml:"equipment"`
	Thermal     unit.Thermal       `yaml:"thermal"`
	Building    *unit.BuildingSpec `yaml:"building"`
}

// DeploymentSpec is where a unit goes when its deployment turn comes.
type DeploymentSpec struct {
	Entity      int        `yaml:"entity"`
	BoardID     int        `yaml:"boardId"`
	Coords      hex.Coords `yaml:"coords"`
	Facing      int        `yaml:"facing"`
	Elevation   int        `yaml:"elevation"`
	AssaultDrop bool       `yaml:"assaultDrop"`
	Cargo       []int      `yaml:"cargo"`
}

// Event happens at the start of a round.
type Event struct {
	Round int      `yaml:"round"`
	EMP   *EMPSpec `yaml:"emp"`
}

// EMPSpec is an EMP interference field.
type EMPSpec struct {
	BoardID int        `yaml:"boardId"`
	Center  hex.Coords `yaml:"center"`
	Radius  int        `yaml:"radius"`
	Rounds  int        `yaml:"rounds"`
}

var knownQuirks = map[unit.Quirk]bool{
	unit.QuirkCombatComputer:  true,
	unit.QuirkImprovedCooling: true,
	unit.QuirkPoorCooling:     true,
	unit.QuirkFlawedCooling:   true,
}

// Load reads and validates the scenario file at path.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: read %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("scenario: %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes and validates a scenario. Unknown keys are an error.
func Parse(data []byte) (*Scenario, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s Scenario
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...)
}

// Validate checks references and ranges.
func (s *Scenario) Validate() error {
	if len(s.Boards) == 0 {
		return invalid("no boards")
	}
	boards := make(map[int]BoardSpec, len(s.Boards))
	for _, b := range s.Boards {
		if _, dup := boards[b.ID]; dup {
			return invalid("duplicate board %d", b.ID)
		}
		if b.Width <= 0 || b.Height <= 0 {
			return invalid("board %d has size %dx%d", b.ID, b.Width, b.Height)
		}
		if b.Atmosphere != "" {
			if _, ok := board.ParseAtmosphere(b.Atmosphere); !ok {
				return invalid("board %d atmosphere %q", b.ID, b.Atmosphere)
			}
		}
		boards[b.ID] = b
	}

	if len(s.Players) == 0 {
		return invalid("no players")
	}
	players := make(map[int]bool, len(s.Players))
	for _, p := range s.Players {
		if p.ID <= 0 || players[p.ID] {
			return invalid("player id %d", p.ID)
		}
		players[p.ID] = true
	}

	entities := make(map[int]bool, len(s.Entities))
	for _, e := range s.Entities {
		if e.ID <= 0 || entities[e.ID] {
			return invalid("entity id %d", e.ID)
		}
		entities[e.ID] = true
		if !players[e.Owner] {
			return invalid("entity %d owner %d", e.ID, e.Owner)
		}
		if _, ok := unit.ParseCategory(e.Category); !ok {
			return invalid("entity %d category %q", e.ID, e.Category)
		}
		for _, q := range e.Quirks {
			if !knownQuirks[q] {
				return invalid("entity %d quirk %q", e.ID, q)
			}
		}
		if e.Position != nil && !onBoard(boards, e.BoardID, *e.Position) {
			return invalid("entity %d position %s on board %d", e.ID, e.Position, e.BoardID)
		}
	}

	for _, d := range s.Deployments {
		if !entities[d.Entity] {
			return invalid("deployment of unknown entity %d", d.Entity)
		}
		for _, c := range d.Cargo {
			if !entities[c] {
				return invalid("deployment of %d carries unknown entity %d", d.Entity, c)
			}
		}
	}

	for i, ev := range s.Events {
		if ev.Round < 1 {
			return invalid("event %d round %d", i, ev.Round)
		}
		if ev.EMP == nil {
			return invalid("event %d has no effect", i)
		}
		if ev.EMP.Radius < 0 || ev.EMP.Rounds < 1 {
			return invalid("event %d emp radius %d rounds %d", i, ev.EMP.Radius, ev.EMP.Rounds)
		}
		if !onBoard(boards, ev.EMP.BoardID, ev.EMP.Center) {
			return invalid("event %d emp centre %s on board %d", i, ev.EMP.Center, ev.EMP.BoardID)
		}
	}
	return nil
}

func onBoard(boards map[int]BoardSpec, id int, c hex.Coords) bool {
	b, ok := boards[id]
	return ok && c.Col >= 1 && c.Col <= b.Width && c.Row >= 1 && c.Row <= b.Height
}

// Deployment returns the scripted deployment of entity.
func (s *Scenario) Deployment(entity int) (DeploymentSpec, bool) {
	for _, d := range s.Deployments {
		if d.Entity == entity {
			return d, true
		}
	}
	return DeploymentSpec{}, false
}

// EventsAt returns the events of round.
func (s *Scenario) EventsAt(round int) []Event {
	var out []Event
	for _, ev := range s.Events {
		if ev.Round == round {
			out = append(out, ev)
		}
	}
	return out
}
