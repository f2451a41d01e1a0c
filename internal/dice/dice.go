// Package dice provides the roll stream consumed by rule checks. Every
// decision point takes exactly one roll so a seeded stream replays a game
// identically.
package dice

import (
	"fmt"
	"math/rand/v2"
	"sync"
)

// Roll is the result of a 2d6 roll.
type Roll struct {
	Dice  [2]int `json:"dice"`
	Total int    `json:"total"`
}

func (r Roll) String() string {
	return fmt.Sprintf("%d (%d+%d)", r.Total, r.Dice[0], r.Dice[1])
}

// Succeeds reports whether the roll meets or beats target.
func (r Roll) Succeeds(target int) bool {
	return r.Total >= target
}

// Roller is a source of dice rolls.
type Roller interface {
	D6() int
	Roll2D6() Roll
}

// randSource is the subset of *rand.Rand the stream needs.
type randSource interface {
	IntN(n int) int
}

// Stream is a deterministic roll stream seeded from a single value.
type Stream struct {
	mu   sync.Mutex
	rng  randSource
	seed uint64
	n    int
}

// NewStream creates a stream from seed.
func NewStream(seed uint64) *Stream {
	return &Stream{
		rng:  rand.New(rand.NewPCG(seed, 0)),
		seed: seed,
	}
}

// Seed returns the seed the stream was created with.
func (s *Stream) Seed() uint64 {
	return s.seed
}

// Count returns the number of dice rolled so far.
func (s *Stream) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.n
}

func (s *Stream) D6() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return s.rng.IntN(6) + 1
}

func (s *Stream) Roll2D6() Roll {
	a, b := s.D6(), s.D6()
	return Roll{Dice: [2]int{a, b}, Total: a + b}
}

// Scripted replays fixed 2d6 totals. It panics when exhausted so a test
// that consumes more rolls than expected fails loudly.
type Scripted struct {
	Totals []int
	pos    int
}

// NewScripted creates a roller returning totals in order.
func NewScripted(totals ...int) *Scripted {
	return &Scripted{Totals: totals}
}

// Used returns how many rolls were consumed.
func (s *Scripted) Used() int {
	return s.pos
}

func (s *Scripted) next() int {
	if s.pos >= len(s.Totals) {
		panic(fmt.Sprintf("dice: scripted roller exhausted after %d rolls", s.pos))
	}
	v := s.Totals[s.pos]
	s.pos++
	return v
}

func (s *Scripted) D6() int {
	return s.next()
}

func (s *Scripted) Roll2D6() Roll {
	t := s.next()
	a := min(6, max(1, t-1))
	return Roll{Dice: [2]int{a, t - a}, Total: t}
}
