package dice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamDeterministic(t *testing.T) {
	a := NewStream(42)
	b := NewStream(42)
	for i := 0; i < 50; i++ {
		ra, rb := a.Roll2D6(), b.Roll2D6()
		require.Equal(t, ra, rb)
		assert.GreaterOrEqual(t, ra.Total, 2)
		assert.LessOrEqual(t, ra.Total, 12)
		assert.Equal(t, ra.Dice[0]+ra.Dice[1], ra.Total)
	}
	assert.Equal(t, 100, a.Count())
	assert.Equal(t, uint64(42), a.Seed())
}

func TestScripted(t *testing.T) {
	s := NewScripted(2, 7, 12)
	assert.Equal(t, 2, s.Roll2D6().Total)
	r := s.Roll2D6()
	assert.Equal(t, 7, r.Total)
	assert.Equal(t, 7, r.Dice[0]+r.Dice[1])
	assert.Equal(t, 12, s.Roll2D6().Total)
	assert.Equal(t, 3, s.Used())
	assert.Panics(t, func() { s.Roll2D6() })
}

func TestRollSucceeds(t *testing.T) {
	r := Roll{Dice: [2]int{3, 4}, Total: 7}
	assert.True(t, r.Succeeds(7))
	assert.False(t, r.Succeeds(8))
	assert.Equal(t, "7 (3+4)", r.String())
}
