// Package parser turns the string arguments of inbound commands into typed
// requests. It does no validation against game state.
package parser

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/OCAP2/roundengine/internal/deploy"
	"github.com/OCAP2/roundengine/internal/hex"
)

// parseIntFromFloat parses a string that may be an integer ("32") or a
// float with no fraction ("32.00").
func parseIntFromFloat(s string) (int, error) {
	if v, err := strconv.Atoi(s); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, fmt.Errorf("parseIntFromFloat: %q is not a whole number", s)
	}
	return int(f), nil
}

// parseBool accepts 1/0 as well as the strconv forms.
func parseBool(s string) (bool, error) {
	switch s {
	case "", "0":
		return false, nil
	case "1":
		return true, nil
	}
	return strconv.ParseBool(strings.ToLower(s))
}

// ints parses the named fields of data in order.
func ints(data []string, names ...string) ([]int, error) {
	if len(data) < len(names) {
		return nil, fmt.Errorf("insufficient data fields: got %d, need %d", len(data), len(names))
	}
	out := make([]int, len(names))
	for i, name := range names {
		v, err := parseIntFromFloat(data[i])
		if err != nil {
			return nil, fmt.Errorf("error parsing %s: %w", name, err)
		}
		out[i] = v
	}
	return out, nil
}

// Deployment is a parsed :DEPLOY: command.
type Deployment struct {
	Player int
	Action deploy.Action
}

// Unload is a parsed :UNLOAD:DEPLOYED: command.
type Unload struct {
	Player int
	Loader int
	Loaded int
}

// TurnDone is a parsed :TURN:DONE: command.
type TurnDone struct {
	Player int
	Entity int
}

// EMP is a parsed :EMP: command.
type EMP struct {
	BoardID int
	Center  hex.Coords
	Radius  int
	Rounds  int
}

// Parser provides pure []string -> request conversion.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a new parser.
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Parser{logger: logger}
}

// ParseDeploy parses a deployment.
// Args: [player, entity, boardId, col, row, facing, elevation, assaultDrop?, cargo?]
// where cargo is a JSON array of entity ids.
func (p *Parser) ParseDeploy(data []string) (Deployment, error) {
	var result Deployment
	data = cleanArgs(data)

	v, err := ints(data, "player", "entity", "boardId", "col", "row", "facing", "elevation")
	if err != nil {
		return result, err
	}
	result.Player = v[0]
	result.Action = deploy.Action{
		Entity:    v[1],
		BoardID:   v[2],
		Coords:    hex.Coords{Col: v[3], Row: v[4]},
		Facing:    hex.Facing(v[5]),
		Elevation: v[6],
	}

	if len(data) > 7 {
		result.Action.AssaultDrop, err = parseBool(data[7])
		if err != nil {
			return result, fmt.Errorf("error parsing assaultDrop: %w", err)
		}
	}
	if len(data) > 8 && data[8] != "" {
		if err := json.Unmarshal([]byte(data[8]), &result.Action.Cargo); err != nil {
			return result, fmt.Errorf("error parsing cargo: %w", err)
		}
	}

	p.logger.Debug("Parsed deployment", "player", result.Player, "entity", result.Action.Entity,
		"coords", result.Action.Coords.String(), "cargo", len(result.Action.Cargo))
	return result, nil
}

// ParseUnload parses an unload during deployment.
// Args: [player, loader, loaded]
func (p *Parser) ParseUnload(data []string) (Unload, error) {
	v, err := ints(cleanArgs(data), "player", "loader", "loaded")
	if err != nil {
		return Unload{}, err
	}
	return Unload{Player: v[0], Loader: v[1], Loaded: v[2]}, nil
}

// ParseTurnDone parses the end of a player's turn.
// Args: [player, entity]
func (p *Parser) ParseTurnDone(data []string) (TurnDone, error) {
	v, err := ints(cleanArgs(data), "player", "entity")
	if err != nil {
		return TurnDone{}, err
	}
	return TurnDone{Player: v[0], Entity: v[1]}, nil
}

// ParseEMP parses an EMP interference field.
// Args: [boardId, col, row, radius, rounds]
func (p *Parser) ParseEMP(data []string) (EMP, error) {
	v, err := ints(cleanArgs(data), "boardId", "col", "row", "radius", "rounds")
	if err != nil {
		return EMP{}, err
	}
	if v[3] < 0 || v[4] < 1 {
		return EMP{}, fmt.Errorf("invalid EMP radius %d or duration %d", v[3], v[4])
	}
	return EMP{BoardID: v[0], Center: hex.Coords{Col: v[1], Row: v[2]}, Radius: v[3], Rounds: v[4]}, nil
}
