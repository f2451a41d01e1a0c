package phase

import (
	"context"
	"errors"
	"testing"

	"github.com/OCAP2/roundengine/internal/board"
	"github.com/OCAP2/roundengine/internal/dice"
	"github.com/OCAP2/roundengine/internal/game"
	"github.com/OCAP2/roundengine/internal/hex"
	"github.com/OCAP2/roundengine/internal/report"
	"github.com/OCAP2/roundengine/internal/unit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubs struct {
	Nop
	calls       []string
	movementErr error
	onAttack    func(g *game.Game, p game.Phase)
	won         bool
	phases      []game.Phase
	recordErr   error
}

func (s *stubs) ResolveAttacks(_ context.Context, g *game.Game, p game.Phase) error {
	s.calls = append(s.calls, "attacks:"+p.String())
	if s.onAttack != nil {
		s.onAttack(g, p)
	}
	return nil
}

func (s *stubs) ResolveMovement(context.Context, *game.Game) error {
	s.calls = append(s.calls, "movement")
	return s.movementErr
}

func (s *stubs) ApplyBuildingDamage(context.Context, *game.Game) error {
	s.calls = append(s.calls, "buildings")
	return nil
}

func (s *stubs) ResolvePilotingRolls(_ context.Context, _ *game.Game, p game.Phase) error {
	s.calls = append(s.calls, "piloting:"+p.String())
	return nil
}

func (s *stubs) Evaluate(context.Context, *game.Game) (bool, error) {
	return s.won, nil
}

func (s *stubs) RecordPhase(_ context.Context, g *game.Game) error {
	s.phases = append(s.phases, g.Phase())
	return s.recordErr
}

func newGame(t *testing.T, opts game.Options, rolls ...int) *game.Game {
	t.Helper()
	g := game.New(opts, board.NewSet(board.New(1, 16, 17)), dice.NewScripted(rolls...), nil, nil)
	require.NoError(t, g.AddPlayer(&game.Player{ID: 1, Name: "blue", Team: 1}))
	require.NoError(t, g.AddPlayer(&game.Player{ID: 2, Name: "red", Team: 2}))
	return g
}

// addVehicles places one deployed vehicle per player. Vehicles track no
// heat, so the end phase consumes no rolls.
func addVehicles(t *testing.T, g *game.Game) {
	t.Helper()
	for id, owner := range map[int]int{1: 1, 2: 2} {
		pos := hex.Coords{Col: id, Row: id}
		require.NoError(t, g.AddEntity(&unit.Entity{
			ID: id, Owner: owner, Category: unit.Vehicle,
			Deployed: true, Position: &pos, BoardID: 1,
		}))
	}
}

func newMachine(t *testing.T, g *game.Game, s *stubs) *Machine {
	t.Helper()
	c := Collaborators{}
	if s != nil {
		c = Collaborators{Attacks: s, Movement: s, Damage: s, Victory: s, Recorder: s}
	}
	m, err := New(g, c)
	require.NoError(t, err)
	return m
}

func walk(t *testing.T, m *Machine, steps int) []game.Phase {
	t.Helper()
	var seen []game.Phase
	for range steps {
		require.NoError(t, m.Advance(context.Background()))
		seen = append(seen, m.Game().Phase())
	}
	return seen
}

func TestStartRequiresLounge(t *testing.T) {
	g := newGame(t, game.DefaultOptions())
	m := newMachine(t, g, nil)

	require.NoError(t, m.Start(context.Background()))
	assert.Equal(t, game.Exchange, g.Phase())

	err := m.Start(context.Background())
	assert.ErrorIs(t, err, game.ErrWrongPhase)
}

func TestFullRoundWithQuietPhases(t *testing.T) {
	g := newGame(t, game.DefaultOptions(), 7, 9, 4, 10)
	addVehicles(t, g)
	s := &stubs{}
	m := newMachine(t, g, s)
	require.NoError(t, m.Start(context.Background()))

	seen := walk(t, m, 12)
	assert.Equal(t, []game.Phase{
		game.SetArtilleryAutoHitHexes,
		game.Initiative,
		game.InitiativeReport,
		game.Targeting,
		game.PreMovement,
		game.Movement,
		game.Offboard,
		game.PreFiring,
		game.Firing,
		game.Physical,
		game.End,
		game.Initiative,
	}, seen)
	assert.Equal(t, 2, g.Round())

	assert.Equal(t, []string{
		"attacks:TARGETING",
		"movement", "buildings", "piloting:MOVEMENT",
		"attacks:OFFBOARD",
		"attacks:FIRING", "buildings", "piloting:FIRING",
		"attacks:PHYSICAL", "buildings", "piloting:PHYSICAL",
	}, s.calls)

	var nothing int
	for _, msg := range g.RoundLog() {
		if msg.ID == report.Nothing {
			nothing++
		}
	}
	assert.Equal(t, 5, nothing, "one placeholder per skipped report phase")
}

func TestPhaseWithReportsGoesToReportPhase(t *testing.T) {
	g := newGame(t, game.DefaultOptions(), 7, 9)
	addVehicles(t, g)
	s := &stubs{onAttack: func(g *game.Game, p game.Phase) {
		if p == game.Targeting {
			g.Report(report.New(report.EngagementStarted))
		}
	}}
	m := newMachine(t, g, s)
	require.NoError(t, m.Start(context.Background()))

	seen := walk(t, m, 6)
	assert.Equal(t, game.TargetingReport, seen[4])
	assert.Equal(t, game.PreMovement, seen[5])
}

func TestMinefieldsPhase(t *testing.T) {
	tests := []struct {
		name       string
		minefields int
		want       game.Phase
	}{
		{"with minefields", 2, game.DeployMinefields},
		{"without minefields", 0, game.Initiative},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGame(t, game.DefaultOptions(), 7, 9)
			p, _ := g.Player(2)
			p.Minefields = tt.minefields
			m := newMachine(t, g, nil)
			require.NoError(t, m.Start(context.Background()))

			seen := walk(t, m, 2)
			assert.Equal(t, tt.want, seen[1])
			if tt.want == game.DeployMinefields {
				seen = walk(t, m, 1)
				assert.Equal(t, game.Initiative, seen[0])
				assert.Equal(t, 0, p.Minefields)
			}
		})
	}
}

func TestInitiativeTiesAreRerolled(t *testing.T) {
	roller := dice.NewScripted(7, 7, 5, 6, 10)
	g := game.New(game.DefaultOptions(), board.NewSet(), roller, nil, nil)
	for id := 1; id <= 3; id++ {
		require.NoError(t, g.AddPlayer(&game.Player{ID: id, Team: id}))
	}

	rollInitiative(g)

	p1, _ := g.Player(1)
	p2, _ := g.Player(2)
	p3, _ := g.Player(3)
	assert.Equal(t, 6, p1.Initiative.Total)
	assert.Equal(t, 10, p2.Initiative.Total)
	assert.Equal(t, 5, p3.Initiative.Total, "untied player keeps the first roll")
	assert.Equal(t, 5, roller.Used())

	var ties int
	for _, msg := range g.Reports().All() {
		if msg.ID == report.InitiativeTie {
			ties++
		}
	}
	assert.Equal(t, 2, ties)
	assert.Equal(t, []int{3, 1, 2}, []int{g.TurnOrder()[0].ID, g.TurnOrder()[1].ID, g.TurnOrder()[2].ID})
}

func TestDeploymentRoundScheduling(t *testing.T) {
	g := newGame(t, game.DefaultOptions(), 7, 9)
	require.NoError(t, g.AddEntity(&unit.Entity{ID: 1, Owner: 1, Category: unit.Vehicle, DeployRound: 1}))
	require.NoError(t, g.AddEntity(&unit.Entity{ID: 2, Owner: 2, Category: unit.Vehicle, DeployRound: 3}))
	m := newMachine(t, g, nil)
	require.NoError(t, m.Start(context.Background()))

	require.NoError(t, m.AdvanceUntilInput(context.Background()))
	assert.Equal(t, game.Deployment, g.Phase())
	assert.Equal(t, 1, g.Round())
	assert.Equal(t, []game.Turn{{Player: 1}}, g.Turns())

	e, _ := g.Entity(1)
	e.Deployed = true
	e.Position = &hex.Coords{Col: 3, Row: 3}
	e.BoardID = 1
	require.NoError(t, m.Advance(context.Background()))
	assert.Equal(t, game.Targeting, g.Phase())
}

func TestDeploymentBeforeFirstRoundReturnsToInitiative(t *testing.T) {
	g := newGame(t, game.DefaultOptions(), 7, 9)
	m := newMachine(t, g, nil)
	g.SetPhase(game.Deployment)

	require.NoError(t, m.Advance(context.Background()))
	assert.Equal(t, game.Initiative, g.Phase())
	assert.Equal(t, 1, g.Round())
}

func TestEndPhaseGuard(t *testing.T) {
	tests := []struct {
		name string
		msgs []report.Message
		want game.Phase
	}{
		{"header only", nil, game.Initiative},
		{"placeholder", []report.Message{report.New(report.Nothing)}, game.Initiative},
		{"one real message", []report.Message{report.New(report.HeatSummary)}, game.EndReport},
		{"several placeholders", []report.Message{
			report.New(report.Nothing), report.New(report.Nothing), report.New(report.Nothing),
		}, game.EndReport},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGame(t, game.DefaultOptions())
			addVehicles(t, g)
			m := newMachine(t, g, &stubs{})
			g.SetPhase(game.End)
			g.Report(report.New(report.EndHeader))
			g.Report(tt.msgs...)

			assert.Equal(t, tt.want, m.afterEnd())
		})
	}
}

func TestVictoryResetsToLounge(t *testing.T) {
	g := newGame(t, game.DefaultOptions(), 7, 9)
	addVehicles(t, g)
	s := &stubs{won: true}
	m := newMachine(t, g, s)
	require.NoError(t, m.Start(context.Background()))

	seen := walk(t, m, 12)
	assert.Equal(t, game.End, seen[10])
	assert.Equal(t, game.Victory, seen[11])

	require.NoError(t, m.Advance(context.Background()))
	assert.Equal(t, game.Lounge, g.Phase())
	assert.Equal(t, 0, g.Round())
	assert.False(t, m.won)

	var victory bool
	for _, msg := range g.RoundLog() {
		victory = victory || msg.ID == report.VictoryHeader
	}
	assert.True(t, victory)
}

func TestLastTeamStanding(t *testing.T) {
	g := newGame(t, game.DefaultOptions())
	addVehicles(t, g)

	won, err := LastTeamStanding{}.Evaluate(context.Background(), g)
	require.NoError(t, err)
	assert.False(t, won)

	e, _ := g.Entity(2)
	e.Destroyed = true
	won, err = LastTeamStanding{}.Evaluate(context.Background(), g)
	require.NoError(t, err)
	assert.True(t, won)
}

func TestCollaboratorErrorAbortsAdvance(t *testing.T) {
	g := newGame(t, game.DefaultOptions(), 7, 9)
	addVehicles(t, g)
	boom := errors.New("path blocked")
	s := &stubs{movementErr: boom}
	m := newMachine(t, g, s)
	require.NoError(t, m.Start(context.Background()))
	walk(t, m, 6)
	require.Equal(t, game.Movement, g.Phase())

	err := m.Advance(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, game.Movement, g.Phase())
}

func TestRecorderFailureDoesNotStopTheRound(t *testing.T) {
	g := newGame(t, game.DefaultOptions(), 7, 9)
	s := &stubs{recordErr: errors.New("disk full")}
	m := newMachine(t, g, s)

	require.NoError(t, m.Start(context.Background()))
	walk(t, m, 2)
	assert.Equal(t, []game.Phase{game.Exchange, game.SetArtilleryAutoHitHexes, game.Initiative}, s.phases)
}

func TestPreparationResetsPhaseFlags(t *testing.T) {
	g := newGame(t, game.DefaultOptions(), 7, 9)
	addVehicles(t, g)
	m := newMachine(t, g, nil)
	require.NoError(t, m.Start(context.Background()))
	walk(t, m, 4)
	require.Equal(t, game.Targeting, g.Phase())

	e, _ := g.Entity(1)
	e.Done = true
	e.DamagedThisPhase = true
	e.Moved = unit.Ran

	walk(t, m, 1)
	assert.False(t, e.Done)
	assert.False(t, e.DamagedThisPhase)
	assert.Equal(t, unit.Ran, e.Moved, "movement state lasts the whole round")
	assert.Len(t, g.Turns(), 2)
}

func TestEndRoundExpiresAreaEffects(t *testing.T) {
	g := newGame(t, game.DefaultOptions(), 7, 9)
	addVehicles(t, g)
	m := newMachine(t, g, &stubs{})
	require.NoError(t, m.Start(context.Background()))
	walk(t, m, 2)
	require.Equal(t, 1, g.Round())

	g.TriggerEMP(1, hex.Coords{Col: 1, Row: 1}, 1, 0)
	require.Len(t, g.AreaEffects(), 1)

	walk(t, m, 9)
	require.Equal(t, game.End, g.Phase())
	assert.Empty(t, g.AreaEffects())
}

// toEnd advances until the end phase of round.
func toEnd(t *testing.T, m *Machine, round int) {
	t.Helper()
	g := m.Game()
	for range 64 {
		if g.Round() == round && g.Phase() == game.End {
			return
		}
		require.NoError(t, m.Advance(context.Background()))
	}
	t.Fatalf("never reached the end of round %d", round)
}

func TestEMPFieldAndInterferenceExpireTogether(t *testing.T) {
	g := newGame(t, game.DefaultOptions(), 7, 9, 7, 9, 7, 9)
	addVehicles(t, g)
	// no heat sinks, so every point of interference heat stays
	late := &unit.Entity{ID: 3, Owner: 2, Category: unit.Mek, Deployed: true,
		Position: &hex.Coords{Col: 9, Row: 9}, BoardID: 1}
	require.NoError(t, g.AddEntity(late))
	m := newMachine(t, g, &stubs{})
	require.NoError(t, m.Start(context.Background()))
	walk(t, m, 2)
	require.Equal(t, 1, g.Round())

	inside, _ := g.Entity(1)
	g.TriggerEMP(1, hex.Coords{Col: 1, Row: 1}, 0, 2)
	require.Equal(t, 2, inside.Thermal.EMPInterferenceRounds)

	toEnd(t, m, 1)
	assert.Equal(t, 1, inside.Thermal.EMPInterferenceRounds)
	assert.Zero(t, late.Thermal.Heat)
	require.Len(t, g.AreaEffects(), 1)

	late.Position = &hex.Coords{Col: 1, Row: 1}
	toEnd(t, m, 2)
	assert.Equal(t, 5, late.Thermal.Heat, "a unit entering a live field takes interference heat")
	assert.Zero(t, inside.Thermal.EMPInterferenceRounds)
	assert.Zero(t, late.Thermal.EMPInterferenceRounds)
	assert.Empty(t, g.AreaEffects(), "field and interference end in the same round")
}

func TestSurvivingTeam(t *testing.T) {
	g := newGame(t, game.DefaultOptions())
	assert.Equal(t, 0, SurvivingTeam(g))

	addVehicles(t, g)
	assert.Equal(t, 0, SurvivingTeam(g))

	e, _ := g.Entity(1)
	e.Destroyed = true
	assert.Equal(t, 2, SurvivingTeam(g))
}
