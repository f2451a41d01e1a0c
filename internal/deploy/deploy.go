// Package deploy validates and commits unit placement during the deployment
// phase.
package deploy

import (
	"errors"
	"fmt"

	"github.com/OCAP2/roundengine/internal/game"
	"github.com/OCAP2/roundengine/internal/hex"
	"github.com/OCAP2/roundengine/internal/report"
	"github.com/OCAP2/roundengine/internal/unit"
)

// maxStackingElevation caps how far a surface unit climbs to clear a
// stacking violation.
const maxStackingElevation = 10

// Action is a single placement request.
type Action struct {
	Entity      int        `json:"entity"`
	Coords      hex.Coords `json:"coords"`
	BoardID     int        `json:"boardId"`
	Facing      hex.Facing `json:"facing"`
	Elevation   int        `json:"elevation"`
	Cargo       []int      `json:"cargo,omitempty"`
	AssaultDrop bool       `json:"assaultDrop"`
}

// Rejection is returned for a request that fails validation. Nothing is
// changed when a request is rejected.
type Rejection struct {
	Entity int
	Reason error
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("deployment of entity %d rejected: %v", r.Entity, r.Reason)
}

func (r *Rejection) Unwrap() error {
	return r.Reason
}

// IsRejection reports whether err is a user input rejection.
func IsRejection(err error) bool {
	var r *Rejection
	return errors.As(err, &r)
}

func reject(entity int, reason error, format string, args ...any) error {
	if format != "" {
		reason = fmt.Errorf("%w: "+format, append([]any{reason}, args...)...)
	}
	return &Rejection{Entity: entity, Reason: reason}
}

// Validate checks that player may deploy the action's entity where asked.
func Validate(g *game.Game, a Action, player int) error {
	if g.Phase() != game.Deployment {
		return reject(a.Entity, game.ErrWrongPhase, "phase is %s", g.Phase())
	}
	e, ok := g.Entity(a.Entity)
	if !ok {
		return reject(a.Entity, game.ErrUnknownEntity, "")
	}
	turn, ok := g.CurrentTurn()
	if !ok || turn.Player != player || !g.IsValidEntity(turn, e) {
		return reject(a.Entity, game.ErrNotYourTurn, "player %d", player)
	}
	if !g.Boards.IsLegalDeployment(a.BoardID, a.Coords, e) && !assaultDropAllowed(g, a, e) {
		return reject(a.Entity, game.ErrIllegalTarget, "%s on board %d", a.Coords, a.BoardID)
	}
	for _, id := range a.Cargo {
		c, ok := g.Entity(id)
		if !ok {
			return reject(a.Entity, game.ErrUnknownEntity, "cargo %d", id)
		}
		if c.Owner != e.Owner || c.ID == e.ID {
			return reject(a.Entity, game.ErrIllegalTarget, "cargo %d", id)
		}
	}
	return nil
}

// assaultDropAllowed reports whether an otherwise illegal hex is allowed as
// an assault drop target.
func assaultDropAllowed(g *game.Game, a Action, e *unit.Entity) bool {
	if !a.AssaultDrop || !g.Options.AssaultDrop || !e.Category.CanAssaultDrop() {
		return false
	}
	_, onBoard := g.Boards.Hex(a.BoardID, a.Coords)
	return onBoard
}

// Deploy validates and commits a. A rejected request is logged and the turn
// list is re-sent to the submitting player only.
func Deploy(g *game.Game, a Action, player int) error {
	if err := Validate(g, a, player); err != nil {
		g.Logger.Warn("Rejected deployment", "entity", a.Entity, "player", player, "error", err)
		g.SendTurns(player)
		return err
	}
	return Commit(g, a)
}

// UnloadDeployed takes loaded off loader before either has deployed and
// gives it a turn of its own right after the current one.
func UnloadDeployed(g *game.Game, loaderID, loadedID, player int) error {
	if err := validateUnload(g, loaderID, loadedID, player); err != nil {
		g.Logger.Warn("Rejected unload", "loader", loaderID, "loaded", loadedID, "player", player, "error", err)
		g.SendTurns(player)
		return err
	}
	loader, _ := g.Entity(loaderID)
	loaded, _ := g.Entity(loadedID)

	loader.Unload(loaded)
	loaded.Position = nil
	loaded.DeployRound = min(loaded.DeployRound, g.Round())
	g.InsertTurnAfter(game.Turn{Player: loaded.Owner, Entity: loaded.ID})

	g.Report(report.About(report.UnloadedDeployed, loaded.ID, loaded.Owner, loader.ID))
	g.Logger.Debug("Unloaded during deployment", "loader", loaderID, "loaded", loadedID)
	g.NotifyEntity(loader.ID)
	g.NotifyEntity(loaded.ID)
	g.SendTurns(0)
	return nil
}

func validateUnload(g *game.Game, loaderID, loadedID, player int) error {
	if g.Phase() != game.Deployment {
		return reject(loadedID, game.ErrWrongPhase, "phase is %s", g.Phase())
	}
	loader, ok := g.Entity(loaderID)
	if !ok {
		return reject(loadedID, game.ErrUnknownEntity, "loader %d", loaderID)
	}
	loaded, ok := g.Entity(loadedID)
	if !ok {
		return reject(loadedID, game.ErrUnknownEntity, "")
	}
	if loader.Owner != player {
		return reject(loadedID, game.ErrNotYourTurn, "player %d does not own loader %d", player, loaderID)
	}
	if loaded.TransportID != loader.ID {
		return reject(loadedID, game.ErrIllegalTarget, "not aboard %d", loaderID)
	}
	if turn, ok := g.CurrentTurn(); !ok || turn.Player != player {
		return reject(loadedID, game.ErrNotYourTurn, "player %d", player)
	}
	return nil
}
