package gridworld

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Terrain is a square matrix of tiles indexed [row][col].
//
// Terrain is treated as a value: GridWorld stores and returns copies, so
// two boards given the same Terrain never share cells.
type Terrain [][]Tile

// NewTerrain returns a size x size Terrain of floor tiles
func NewTerrain(size int) Terrain {
	t := make(Terrain, size)
	for row := range t {
		t[row] = make([]Tile, size)
	}
	return t
}

// DefaultTerrain returns the default layout: walls around the border,
// floor everywhere else and a single goal tile.
func DefaultTerrain(size int, goal Position) Terrain {
	t := NewTerrain(size)
	for i := 0; i < size; i++ {
		t[0][i] = Wall
		t[size-1][i] = Wall
		t[i][0] = Wall
		t[i][size-1] = Wall
	}
	t[goal.Row][goal.Col] = Goal
	return t
}

// Clone returns a deep copy of the Terrain
func (t Terrain) Clone() Terrain {
	if t == nil {
		return nil
	}
	c := make(Terrain, len(t))
	for row := range t {
		c[row] = make([]Tile, len(t[row]))
		copy(c[row], t[row])
	}
	return c
}

// At returns the tile at position p
func (t Terrain) At(p Position) Tile {
	return t[p.Row][p.Col]
}

// Size returns the number of rows in the Terrain
func (t Terrain) Size() int {
	return len(t)
}

// Count returns the number of tiles of kind k
func (t Terrain) Count(k Tile) int {
	n := 0
	for _, row := range t {
		for _, tile := range row {
			if tile == k {
				n++
			}
		}
	}
	return n
}

// GoalPosition returns the position of the first goal tile found in
// row-major order
func (t Terrain) GoalPosition() (Position, bool) {
	for r, row := range t {
		for c, tile := range row {
			if tile == Goal {
				return Position{r, c}, true
			}
		}
	}
	return Position{}, false
}

// Validate checks that the Terrain is size x size, that every border
// cell is a wall or the goal, that there is exactly one goal and that
// the start cell is floor.
func (t Terrain) Validate(size int, start Position) error {
	if len(t) != size {
		return fmt.Errorf("%w: %d rows, want %d", ErrInvalidTerrain, len(t),
			size)
	}
	for r, row := range t {
		if len(row) != size {
			return fmt.Errorf("%w: row %d has %d cols, want %d",
				ErrInvalidTerrain, r, len(row), size)
		}
		for c, tile := range row {
			if tile != Wall && tile != Floor && tile != Goal {
				return fmt.Errorf("%w: unknown tile %v at %v",
					ErrInvalidTerrain, tile, Position{r, c})
			}
			border := r == 0 || c == 0 || r == size-1 || c == size-1
			if border && tile == Floor {
				return fmt.Errorf("%w: border cell %v is not a wall",
					ErrInvalidTerrain, Position{r, c})
			}
		}
	}

	if goals := t.Count(Goal); goals != 1 {
		return fmt.Errorf("%w: %d goals, want 1", ErrInvalidTerrain, goals)
	}
	if !inBounds(start, size) || t.At(start) != Floor {
		return fmt.Errorf("%w: start %v is not a floor cell",
			ErrInvalidTerrain, start)
	}
	return nil
}

// RandomTerrain returns the default layout with each floor tile other
// than start independently turned into a wall with probability
// density.
func RandomTerrain(size int, start, goal Position, density float64,
	src rand.Source) (Terrain, error) {
	if density < 0 || density > 1 {
		return nil, fmt.Errorf("randomTerrain: density %v not in [0, 1]",
			density)
	}
	if size < MinSize || !inBounds(goal, size) {
		return nil, fmt.Errorf("randomTerrain: %w: goal %v on %dx%d grid",
			ErrInvalidTerrain, goal, size, size)
	}

	t := DefaultTerrain(size, goal)
	if err := t.Validate(size, start); err != nil {
		return nil, fmt.Errorf("randomTerrain: %w", err)
	}

	dist := distuv.Bernoulli{P: density, Src: src}
	for r := range t {
		for c := range t[r] {
			p := Position{r, c}
			if t[r][c] != Floor || p == start {
				continue
			}
			if dist.Rand() == 1 {
				t[r][c] = Wall
			}
		}
	}
	return t, nil
}

func inBounds(p Position, size int) bool {
	return p.Row >= 0 && p.Row < size && p.Col >= 0 && p.Col < size
}

// Reachable returns whether the goal can be reached from start by moving
// through floor cells
func (t Terrain) Reachable(start Position) bool {
	size := t.Size()
	if !inBounds(start, size) || t.At(start) == Wall {
		return false
	}

	seen := map[Position]bool{start: true}
	queue := []Position{start}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		if t.At(p) == Goal {
			return true
		}

		for _, a := range Actions {
			dr, dc := a.Delta()
			next := Position{p.Row + dr, p.Col + dc}
			if !inBounds(next, size) || seen[next] || t.At(next) == Wall {
				continue
			}
			seen[next] = true
			queue = append(queue, next)
		}
	}
	return false
}
