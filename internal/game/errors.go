package game

import "errors"

var (
	// ErrInvariant marks an internal inconsistency. Callers must stop the
	// operation rather than continue with partial state.
	ErrInvariant = errors.New("invariant violated")

	ErrUnknownEntity = errors.New("unknown entity")
	ErrUnknownPlayer = errors.New("unknown player")
	ErrWrongPhase    = errors.New("wrong phase")
	ErrNotYourTurn   = errors.New("not your turn")
	ErrIllegalTarget = errors.New("illegal target")
)
