package gridworld

import "errors"

var (
	// ErrInvalidTerrain reports a grid that breaks the dimension,
	// border-wall or single-goal invariants
	ErrInvalidTerrain = errors.New("invalid terrain")

	// ErrInvalidPosition reports a coordinate that is out of bounds or
	// on a wall
	ErrInvalidPosition = errors.New("invalid position")

	// ErrInvalidAction reports an action outside the four directions
	ErrInvalidAction = errors.New("invalid action")
)
