package convert

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OCAP2/roundengine/internal/board"
	"github.com/OCAP2/roundengine/internal/dice"
	"github.com/OCAP2/roundengine/internal/game"
	"github.com/OCAP2/roundengine/internal/hex"
	"github.com/OCAP2/roundengine/internal/report"
	"github.com/OCAP2/roundengine/internal/unit"
)

var fixed = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newGame(t *testing.T) *game.Game {
	t.Helper()
	Clock = func() time.Time { return fixed }
	t.Cleanup(func() { Clock = time.Now })

	b := board.New(1, 16, 17)
	b.Name = "grasslands"
	g := game.New(game.DefaultOptions(), board.NewSet(b), dice.NewStream(1), nil, nil)
	require.NoError(t, g.AddPlayer(&game.Player{ID: 1, Name: "blue", Team: 1}))
	require.NoError(t, g.AddPlayer(&game.Player{ID: 2, Name: "red", Team: 2}))
	return g
}

func TestGameInfo(t *testing.T) {
	g := newGame(t)
	info := GameInfo(g, "skirmish", 42)

	assert.Equal(t, g.ID.String(), info.ID)
	assert.Equal(t, "skirmish", info.Name)
	assert.Equal(t, uint64(42), info.Seed)
	assert.Equal(t, fixed, info.StartTime)
	require.Len(t, info.Players, 2)
	assert.Equal(t, "red", info.Players[1].Name)
	assert.Equal(t, 2, info.Players[1].Team)
	require.Len(t, info.Boards, 1)
	assert.Equal(t, "grasslands", info.Boards[0].Name)
	assert.Equal(t, 16, info.Boards[0].Width)
	assert.Equal(t, g.Options.MaxExternalHeat, info.Rules.MaxExternalHeat)
}

func TestEntityState(t *testing.T) {
	g := newGame(t)
	g.SetPhase(game.Movement)
	pos := hex.Coords{Col: 1, Row: 1}
	e := &unit.Entity{
		ID:       3,
		Owner:    1,
		Name:     "Atlas",
		Category: unit.Mek,
		Deployed: true,
		Position: &pos,
		BoardID:  1,
		Equipment: unit.Equipment{
			HeatSinks:       10,
			DoubleHeatSinks: true,
		},
		Thermal: unit.Thermal{Heat: 7, Shutdown: unit.CauseHeat, CoolantFailure: 2},
	}
	require.NoError(t, g.AddEntity(e))

	s := EntityState(g, e)
	assert.Equal(t, 3, s.EntityID)
	assert.Equal(t, "mek", s.Category)
	assert.Equal(t, "MOVEMENT", s.Phase)
	require.NotNil(t, s.Position)
	assert.Equal(t, 1, s.Position.BoardID)
	assert.InDelta(t, 0, s.Position.X, 1e-9)
	assert.InDelta(t, 0, s.Position.Y, 1e-9)
	assert.Equal(t, 7, s.Thermal.Heat)
	assert.Equal(t, 18, s.Thermal.Capacity)
	assert.Equal(t, "heat", s.Thermal.Shutdown)
	assert.False(t, s.Destroyed)

	e.Position = nil
	e.Destroyed = true
	s = EntityState(g, e)
	assert.Nil(t, s.Position)
	assert.True(t, s.Destroyed)
}

func TestReports(t *testing.T) {
	msgs := []report.Message{
		report.About(report.InitiativeRoll, 0, 2, 2, "red", "7 (3+4)").Indented(1),
		report.New(report.Nothing).Private(),
	}
	out := Reports(msgs)
	require.Len(t, out, 2)
	assert.Equal(t, report.InitiativeRoll, out[0].MessageID)
	assert.Equal(t, []string{"2", "red", "7 (3+4)"}, out[0].Params)
	assert.Equal(t, 1, out[0].Indent)
	assert.Equal(t, 2, out[0].Player)
	assert.Equal(t, msgs[0].String(), out[0].Text)
	assert.False(t, out[1].Public)
	assert.Empty(t, out[1].Params)
}

func TestPhaseRecord(t *testing.T) {
	g := newGame(t)
	g.SetTurns([]game.Turn{{Player: 1}, {Player: 2, Entity: 4}})

	rec := PhaseRecord(g, 3, game.Firing, []report.Message{report.New(report.FiringHeader)})
	assert.Equal(t, 3, rec.Round)
	assert.Equal(t, "FIRING", rec.Phase)
	require.Len(t, rec.Turns, 2)
	assert.Equal(t, 4, rec.Turns[1].Entity)
	require.Len(t, rec.Reports, 1)
	assert.Equal(t, report.FiringHeader, rec.Reports[0].MessageID)
}

func TestRoundRecord(t *testing.T) {
	g := newGame(t)
	g.IncrementRound()
	p, ok := g.Player(1)
	require.True(t, ok)
	p.Initiative = dice.Roll{Dice: [2]int{3, 4}, Total: 7}

	attacker := &unit.Entity{ID: 5, Owner: 1, Category: unit.Infantry}
	defender := &unit.Entity{ID: 6, Owner: 2, Category: unit.BattleArmor}
	require.NoError(t, g.AddEntity(attacker))
	require.NoError(t, g.AddEntity(defender))
	g.Engagements.Start(100, attacker, defender)

	g.TriggerEMP(1, hex.Coords{Col: 5, Row: 5}, 2, 3)
	g.Report(report.New(report.EndHeader))

	r := RoundRecord(g)
	assert.Equal(t, 1, r.Round)
	require.Len(t, r.Initiative, 2)
	assert.Equal(t, 7, r.Initiative[0].Total)
	assert.Equal(t, [2]int{3, 4}, r.Initiative[0].Dice)
	require.Len(t, r.Engagements, 1)
	assert.Equal(t, 100, r.Engagements[0].Target)
	assert.Equal(t, []int{5}, r.Engagements[0].Attackers)
	assert.Equal(t, []int{6}, r.Engagements[0].Defenders)
	require.Len(t, r.AreaEffects, 1)
	assert.Equal(t, 5, r.AreaEffects[0].Center.Col)
	assert.Equal(t, 3, r.AreaEffects[0].ExpiresRound)
}
