package gridworld

import "fmt"

// Tile is the kind of a single grid cell
type Tile int

const (
	Floor Tile = iota
	Wall
	Goal
)

func (t Tile) String() string {
	switch t {
	case Wall:
		return "wall"
	case Goal:
		return "goal"
	case Floor:
		return "floor"
	default:
		return fmt.Sprintf("Tile(%d)", int(t))
	}
}

// Position is a (row, col) coordinate on the grid
type Position struct {
	Row, Col int
}

func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.Row, p.Col)
}

// Action is one of the four cardinal movement directions. The integer
// value of an Action is the column it occupies in a learner's table.
type Action int

const (
	Right Action = iota
	Up
	Left
	Down
)

// NumActions is the number of distinct Actions
const NumActions = 4

// Actions lists every Action in table order
var Actions = [NumActions]Action{Right, Up, Left, Down}

// Delta returns the unit (row, col) offset of moving in direction a
func (a Action) Delta() (row, col int) {
	switch a {
	case Right:
		return 0, 1
	case Up:
		return -1, 0
	case Left:
		return 0, -1
	case Down:
		return 1, 0
	}
	return 0, 0
}

// Valid returns whether a is one of the four cardinal Actions
func (a Action) Valid() bool {
	return a >= Right && a <= Down
}

// Opposite returns the Action pointing the other way
func (a Action) Opposite() Action {
	return (a + 2) % NumActions
}

// Letter returns the single-letter marker of the Action: R, U, L or D
func (a Action) Letter() string {
	switch a {
	case Right:
		return "R"
	case Up:
		return "U"
	case Left:
		return "L"
	case Down:
		return "D"
	}
	return "?"
}

func (a Action) String() string {
	switch a {
	case Right:
		return "right"
	case Up:
		return "up"
	case Left:
		return "left"
	case Down:
		return "down"
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// Weights is the fixed lookup from tile kind to reward
type Weights struct {
	Wall  int
	Floor int
	Goal  int
}

// DefaultWeights returns the default reward lookup: a large penalty for
// walls, a small step cost for floors and a large reward for the goal
func DefaultWeights() Weights {
	return Weights{Wall: -1000, Floor: -1, Goal: 100}
}

// For returns the reward of entering a tile of kind t
func (w Weights) For(t Tile) int {
	switch t {
	case Wall:
		return w.Wall
	case Goal:
		return w.Goal
	default:
		return w.Floor
	}
}
