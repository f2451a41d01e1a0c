// Package engagement tracks multi-round infantry actions fought inside a
// target such as a building, vessel or aerospace unit.
//
// A record exists only while both sides have at least one member. Any
// mutation that empties a side deletes the record and clears the action
// stamp of every unit that was still in it.
package engagement

import (
	"slices"

	"github.com/OCAP2/roundengine/internal/unit"
)

// Action is one engagement at a target.
type Action struct {
	Target         int
	Turns          int
	PartialControl bool

	attackers map[int]struct{}
	defenders map[int]struct{}
}

func newAction(target int) *Action {
	return &Action{
		Target:    target,
		attackers: make(map[int]struct{}),
		defenders: make(map[int]struct{}),
	}
}

// Active reports whether both sides have members.
func (a *Action) Active() bool {
	return len(a.attackers) > 0 && len(a.defenders) > 0
}

// Attackers returns attacker ids in ascending order.
func (a *Action) Attackers() []int {
	return sortedIDs(a.attackers)
}

// Defenders returns defender ids in ascending order.
func (a *Action) Defenders() []int {
	return sortedIDs(a.defenders)
}

// HasMember reports whether id is on either side.
func (a *Action) HasMember(id int) bool {
	_, att := a.attackers[id]
	_, def := a.defenders[id]
	return att || def
}

func (a *Action) clone() Action {
	c := *a
	c.attackers = make(map[int]struct{}, len(a.attackers))
	for id := range a.attackers {
		c.attackers[id] = struct{}{}
	}
	c.defenders = make(map[int]struct{}, len(a.defenders))
	for id := range a.defenders {
		c.defenders[id] = struct{}{}
	}
	return c
}

func sortedIDs(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Tracker holds every active engagement, keyed by target id.
type Tracker struct {
	actions map[int]*Action
	lookup  func(id int) *unit.Entity
}

// New creates a tracker. lookup resolves entity ids so that stamps can be
// cleared on units leaving an engagement; it may return nil.
func New(lookup func(id int) *unit.Entity) *Tracker {
	if lookup == nil {
		lookup = func(int) *unit.Entity { return nil }
	}
	return &Tracker{
		actions: make(map[int]*Action),
		lookup:  lookup,
	}
}

// stamp marks u as engaged at target with a zeroed counter. A unit already
// stamped for the same side keeps its counter.
func stamp(u *unit.Entity, target int, attacker bool) {
	if s := u.InfantryAction; s != nil && s.Target == target && s.Attacker == attacker {
		return
	}
	u.InfantryAction = &unit.ActionStamp{Target: target, Attacker: attacker}
}

func (t *Tracker) unstamp(id, target int) {
	if u := t.lookup(id); u != nil && u.InfantryAction != nil && u.InfantryAction.Target == target {
		u.InfantryAction = nil
	}
}

// settle deletes a record that is no longer active.
func (t *Tracker) settle(a *Action) {
	if a.Active() {
		t.actions[a.Target] = a
		return
	}
	delete(t.actions, a.Target)
	for id := range a.attackers {
		t.unstamp(id, a.Target)
	}
	for id := range a.defenders {
		t.unstamp(id, a.Target)
	}
}

// Start creates or reuses the record for target and adds whichever side is
// given. A new record with an empty side is not retained and stamps nothing.
func (t *Tracker) Start(target int, attacker, defender *unit.Entity) *Action {
	a, ok := t.actions[target]
	if !ok {
		a = newAction(target)
	}
	if attacker != nil {
		a.attackers[attacker.ID] = struct{}{}
	}
	if defender != nil {
		a.defenders[defender.ID] = struct{}{}
	}
	if !a.Active() {
		return a
	}
	t.actions[target] = a
	if attacker != nil {
		stamp(attacker, target, true)
	}
	if defender != nil {
		stamp(defender, target, false)
	}
	return a
}

// Reinforce adds u to an existing engagement. It returns false and changes
// nothing when there is no engagement at target or u is not infantry.
func (t *Tracker) Reinforce(target int, u *unit.Entity, isAttacker bool) bool {
	a, ok := t.actions[target]
	if !ok || u == nil || !u.IsInfantryClass() {
		return false
	}
	if isAttacker {
		a.attackers[u.ID] = struct{}{}
	} else {
		a.defenders[u.ID] = struct{}{}
	}
	stamp(u, target, isAttacker)
	return true
}

// Withdraw removes every attacker from the engagement at target and returns
// their ids.
func (t *Tracker) Withdraw(target int) []int {
	a, ok := t.actions[target]
	if !ok {
		return nil
	}
	removed := a.Attackers()
	for _, id := range removed {
		t.unstamp(id, target)
	}
	clear(a.attackers)
	t.settle(a)
	return removed
}

// RemoveUnit strips unitID from whichever side holds it.
func (t *Tracker) RemoveUnit(target, unitID int) bool {
	a, ok := t.actions[target]
	if !ok || !a.HasMember(unitID) {
		return false
	}
	delete(a.attackers, unitID)
	delete(a.defenders, unitID)
	t.unstamp(unitID, target)
	t.settle(a)
	return true
}

// RemoveEverywhere strips unitID from every engagement, for units destroyed
// or leaving the board.
func (t *Tracker) RemoveEverywhere(unitID int) {
	for _, target := range t.Targets() {
		t.RemoveUnit(target, unitID)
	}
}

// Tick advances every engagement by one round. A unit's own counter
// counts the rounds since it joined, so a reinforcement lags the record.
func (t *Tracker) Tick() {
	for target, a := range t.actions {
		a.Turns++
		for _, ids := range [][]int{a.Attackers(), a.Defenders()} {
			for _, id := range ids {
				if u := t.lookup(id); u != nil && u.InfantryAction != nil && u.InfantryAction.Target == target {
					u.InfantryAction.Turns++
				}
			}
		}
	}
}

// Clear drops every engagement.
func (t *Tracker) Clear() {
	for target, a := range t.actions {
		for _, id := range append(a.Attackers(), a.Defenders()...) {
			t.unstamp(id, target)
		}
	}
	clear(t.actions)
}

// SetPartialControl flags the engagement at target.
func (t *Tracker) SetPartialControl(target int, v bool) bool {
	a, ok := t.actions[target]
	if !ok {
		return false
	}
	a.PartialControl = v
	return true
}

// Has reports whether an engagement is running at target.
func (t *Tracker) Has(target int) bool {
	_, ok := t.actions[target]
	return ok
}

// Get returns a copy of the engagement at target.
func (t *Tracker) Get(target int) (Action, bool) {
	a, ok := t.actions[target]
	if !ok {
		return Action{}, false
	}
	return a.clone(), true
}

// Snapshot returns a copy of every engagement.
func (t *Tracker) Snapshot() map[int]Action {
	out := make(map[int]Action, len(t.actions))
	for target, a := range t.actions {
		out[target] = a.clone()
	}
	return out
}

// Targets returns the targets of every engagement in ascending order.
func (t *Tracker) Targets() []int {
	out := make([]int, 0, len(t.actions))
	for target := range t.actions {
		out = append(out, target)
	}
	slices.Sort(out)
	return out
}

// Count returns the number of engagements.
func (t *Tracker) Count() int {
	return len(t.actions)
}
