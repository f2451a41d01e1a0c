package engagement

import (
	"testing"

	"github.com/OCAP2/roundengine/internal/unit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roster map[int]*unit.Entity

func (r roster) add(id int, cat unit.Category) *unit.Entity {
	e := &unit.Entity{ID: id, Category: cat}
	r[id] = e
	return e
}

func (r roster) lookup(id int) *unit.Entity {
	return r[id]
}

func newTracker() (*Tracker, roster) {
	r := roster{}
	return New(r.lookup), r
}

func TestStartCreatesActiveRecord(t *testing.T) {
	tr, r := newTracker()
	att := r.add(1, unit.Infantry)
	def := r.add(2, unit.Infantry)

	a := tr.Start(100, att, def)
	require.True(t, a.Active())
	assert.True(t, tr.Has(100))
	assert.Equal(t, 1, tr.Count())
	assert.Equal(t, []int{1}, a.Attackers())
	assert.Equal(t, []int{2}, a.Defenders())

	require.NotNil(t, att.InfantryAction)
	assert.Equal(t, 100, att.InfantryAction.Target)
	assert.True(t, att.InfantryAction.Attacker)
	assert.False(t, def.InfantryAction.Attacker)
	assert.Equal(t, 0, def.InfantryAction.Turns)
}

func TestStartOneSidedIsNotRetained(t *testing.T) {
	tr, r := newTracker()
	att := r.add(1, unit.Infantry)

	a := tr.Start(100, att, nil)
	assert.False(t, a.Active())
	assert.False(t, tr.Has(100))
	assert.Nil(t, att.InfantryAction)
}

func TestStartReusesRecord(t *testing.T) {
	tr, r := newTracker()
	tr.Start(100, r.add(1, unit.Infantry), r.add(2, unit.Infantry))
	tr.Start(100, r.add(3, unit.BattleArmor), nil)

	a, ok := tr.Get(100)
	require.True(t, ok)
	assert.Equal(t, []int{1, 3}, a.Attackers())
	assert.Equal(t, 1, tr.Count())
}

func TestReinforceRequiresExistingRecord(t *testing.T) {
	tr, r := newTracker()
	u := r.add(5, unit.Infantry)

	assert.False(t, tr.Reinforce(100, u, true))
	assert.Equal(t, 0, tr.Count())
	assert.Nil(t, u.InfantryAction)
	assert.Empty(t, tr.Snapshot())
}

func TestReinforceRejectsNonInfantry(t *testing.T) {
	tr, r := newTracker()
	tr.Start(100, r.add(1, unit.Infantry), r.add(2, unit.Infantry))
	mek := r.add(3, unit.Mek)

	assert.False(t, tr.Reinforce(100, mek, false))
	a, _ := tr.Get(100)
	assert.Equal(t, []int{2}, a.Defenders())
}

func TestReinforceAddsToSide(t *testing.T) {
	tr, r := newTracker()
	tr.Start(100, r.add(1, unit.Infantry), r.add(2, unit.Infantry))
	tr.Tick()
	u := r.add(3, unit.Infantry)

	require.True(t, tr.Reinforce(100, u, false))
	a, _ := tr.Get(100)
	assert.Equal(t, []int{2, 3}, a.Defenders())
	assert.Equal(t, 0, u.InfantryAction.Turns, "joins with a fresh counter")

	tr.Tick()
	a, _ = tr.Get(100)
	assert.Equal(t, 2, a.Turns)
	assert.Equal(t, 1, u.InfantryAction.Turns)
	assert.Equal(t, 2, r[2].InfantryAction.Turns)
}

func TestStartOnExistingRecordStampsZero(t *testing.T) {
	tr, r := newTracker()
	tr.Start(100, r.add(1, unit.Infantry), r.add(2, unit.Infantry))
	tr.Tick()
	tr.Tick()

	late := r.add(3, unit.Infantry)
	a := tr.Start(100, late, nil)
	assert.Equal(t, 2, a.Turns)
	assert.Equal(t, []int{1, 3}, a.Attackers())
	require.NotNil(t, late.InfantryAction)
	assert.Equal(t, 0, late.InfantryAction.Turns)
}

func TestWithdrawRemovesRecord(t *testing.T) {
	tr, r := newTracker()
	att := r.add(1, unit.Infantry)
	att2 := r.add(3, unit.Infantry)
	def := r.add(2, unit.Infantry)
	tr.Start(100, att, def)
	tr.Reinforce(100, att2, true)

	removed := tr.Withdraw(100)
	assert.Equal(t, []int{1, 3}, removed)
	assert.False(t, tr.Has(100))
	assert.Nil(t, att.InfantryAction)
	assert.Nil(t, def.InfantryAction)

	assert.Nil(t, tr.Withdraw(100))
}

func TestRemoveUnit(t *testing.T) {
	tr, r := newTracker()
	tr.Start(100, r.add(1, unit.Infantry), r.add(2, unit.Infantry))
	tr.Reinforce(100, r.add(3, unit.Infantry), false)

	assert.False(t, tr.RemoveUnit(100, 99))
	assert.False(t, tr.RemoveUnit(200, 1))

	assert.True(t, tr.RemoveUnit(100, 2))
	assert.True(t, tr.Has(100), "one defender remains")

	assert.True(t, tr.RemoveUnit(100, 3))
	assert.False(t, tr.Has(100))
	assert.Nil(t, r[1].InfantryAction)
}

func TestRemoveEverywhere(t *testing.T) {
	tr, r := newTracker()
	shared := r.add(1, unit.Infantry)
	tr.Start(100, shared, r.add(2, unit.Infantry))
	tr.Start(200, r.add(3, unit.Infantry), r.add(4, unit.Infantry))

	tr.RemoveEverywhere(1)
	assert.False(t, tr.Has(100))
	assert.True(t, tr.Has(200))
}

func TestTickAndSnapshot(t *testing.T) {
	tr, r := newTracker()
	att := r.add(1, unit.Infantry)
	tr.Start(100, att, r.add(2, unit.Infantry))

	tr.Tick()
	tr.Tick()
	a, _ := tr.Get(100)
	assert.Equal(t, 2, a.Turns)
	assert.Equal(t, 2, att.InfantryAction.Turns)

	snap := tr.Snapshot()
	require.Contains(t, snap, 100)
	snapAction := snap[100]
	snapAction.attackers[99] = struct{}{}
	fresh, _ := tr.Get(100)
	assert.Equal(t, []int{1}, fresh.Attackers(), "snapshot must not alias tracker state")
}

func TestPartialControlAndClear(t *testing.T) {
	tr, r := newTracker()
	att := r.add(1, unit.Infantry)
	tr.Start(100, att, r.add(2, unit.Infantry))

	assert.True(t, tr.SetPartialControl(100, true))
	assert.False(t, tr.SetPartialControl(300, true))
	a, _ := tr.Get(100)
	assert.True(t, a.PartialControl)

	tr.Clear()
	assert.Equal(t, 0, tr.Count())
	assert.Nil(t, att.InfantryAction)
}

func TestPresenceMatchesBothSidesNonEmpty(t *testing.T) {
	tr, r := newTracker()
	for i := 0; i < 5; i++ {
		tr.Start(100+i, r.add(10+i, unit.Infantry), r.add(20+i, unit.Infantry))
	}
	tr.Withdraw(101)
	tr.RemoveUnit(103, 23)

	for target, a := range tr.Snapshot() {
		assert.NotEmpty(t, a.Attackers(), "target %d", target)
		assert.NotEmpty(t, a.Defenders(), "target %d", target)
	}
	assert.Equal(t, 3, tr.Count())
}
