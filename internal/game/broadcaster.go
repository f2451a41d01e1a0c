package game

import (
	"github.com/OCAP2/roundengine/internal/report"
	"github.com/OCAP2/roundengine/internal/unit"
)

// Broadcaster pushes state to observers. Delivery is best-effort: callers
// log a returned error and carry on.
type Broadcaster interface {
	NotifyEntity(e *unit.Entity) error
	NotifyAll(entities []*unit.Entity) error
	SendTurns(player int, turns []Turn, index int) error
	NotifyAreaEffects(effects []AreaEffect) error
	NotifyPhase(round int, phase Phase, reports []report.Message) error
}

// NopBroadcaster drops every notification.
type NopBroadcaster struct{}

func (NopBroadcaster) NotifyEntity(*unit.Entity) error { return nil }
func (NopBroadcaster) NotifyAll([]*unit.Entity) error { return nil }
func (NopBroadcaster) SendTurns(int, []Turn, int) error { return nil }
func (NopBroadcaster) NotifyAreaEffects([]AreaEffect) error { return nil }
func (NopBroadcaster) NotifyPhase(int, Phase, []report.Message) error { return nil }
