// Package gridworld implements a walled 2D gridworld environment
package gridworld

import (
	"fmt"

	"github.com/gridq/gridq/timestep"
)

// MinSize is the smallest grid with at least one interior cell
const MinSize = 3

// GridWorld represents a square gridworld environment
//
// A GridWorld tracks its terrain, a reward map derived from the terrain
// and the position of a single agent. Positions are discretized to
// state indices row*size + col.
type GridWorld struct {
	size    int
	start   Position
	home    Position // goal of the default layout
	goal    Position
	lookup  Weights
	terrain Terrain
	weights [][]int
	player  Position

	currentStep timestep.TimeStep
}

// Option configures a GridWorld at construction
type Option func(*GridWorld)

// WithStart sets the fixed start position
func WithStart(p Position) Option {
	return func(g *GridWorld) {
		g.start = p
	}
}

// WithGoal sets the goal position of the default layout
func WithGoal(p Position) Option {
	return func(g *GridWorld) {
		g.home = p
	}
}

// WithWeights sets the tile to reward lookup
func WithWeights(w Weights) Option {
	return func(g *GridWorld) {
		g.lookup = w
	}
}

// New creates a new size x size gridworld with the default layout. The
// agent starts at (1, 1) and the goal is at (size-1, size-2) unless
// overridden by opts.
func New(size int, opts ...Option) (*GridWorld, error) {
	if size < MinSize {
		return nil, fmt.Errorf("new: %w: size %d < %d", ErrInvalidTerrain,
			size, MinSize)
	}

	g := &GridWorld{
		size:   size,
		start:  Position{1, 1},
		home:   Position{size - 1, size - 2},
		lookup: DefaultWeights(),
	}
	for _, opt := range opts {
		opt(g)
	}

	if !inBounds(g.home, size) {
		return nil, fmt.Errorf("new: %w: goal %v out of bounds",
			ErrInvalidTerrain, g.home)
	}
	if err := DefaultTerrain(size, g.home).Validate(size, g.start); err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}

	g.GenerateMap()
	return g, nil
}

// GenerateMap resets the terrain to the default layout and moves the
// agent back to the start position
func (g *GridWorld) GenerateMap() {
	g.terrain = DefaultTerrain(g.size, g.home)
	g.goal = g.home
	g.AssignWeights()
	g.ResetPlayer()
}

// AssignWeights recomputes the reward map from the current terrain
func (g *GridWorld) AssignWeights() {
	weights := make([][]int, g.size)
	for r, row := range g.terrain {
		weights[r] = make([]int, g.size)
		for c, tile := range row {
			weights[r][c] = g.lookup.For(tile)
		}
	}
	g.weights = weights
}

// SetGrid replaces the terrain with a copy of t and recomputes the
// reward map. If t does not satisfy the terrain invariants, an error
// wrapping ErrInvalidTerrain is returned and the GridWorld is left
// unchanged. The agent position is not modified.
func (g *GridWorld) SetGrid(t Terrain) error {
	if err := t.Validate(g.size, g.start); err != nil {
		return fmt.Errorf("setGrid: %w", err)
	}
	if t.At(g.player) != Floor {
		return fmt.Errorf("setGrid: %w: agent at %v would not be on floor",
			ErrInvalidTerrain, g.player)
	}

	goal, _ := t.GoalPosition()
	g.terrain = t.Clone()
	g.goal = goal
	g.AssignWeights()
	return nil
}

// MovePlayer attempts to move the agent one cell in direction a and
// returns the reward of the attempted cell.
//
// Moving into a wall leaves the agent where it is but still returns the
// wall's reward. Moving into the goal returns the goal's reward and
// sends the agent back to the start position. Any other move updates
// the agent's position and returns the floor reward.
func (g *GridWorld) MovePlayer(a Action) (int, error) {
	if !a.Valid() {
		return 0, fmt.Errorf("movePlayer: %w: %d", ErrInvalidAction, int(a))
	}

	dr, dc := a.Delta()
	proposed := Position{g.player.Row + dr, g.player.Col + dc}
	reward := g.weights[proposed.Row][proposed.Col]

	switch g.terrain.At(proposed) {
	case Wall:
	case Goal:
		g.player = g.start
	default:
		g.player = proposed
	}
	return reward, nil
}

// Step moves the agent in direction a and returns the TimeStep of the
// transition. The returned bool and the TimeStep's type indicate
// whether the move reached the goal and so ended the episode.
func (g *GridWorld) Step(a Action) (timestep.TimeStep, bool, error) {
	dr, dc := a.Delta()
	target := Position{g.player.Row + dr, g.player.Col + dc}

	reward, err := g.MovePlayer(a)
	if err != nil {
		return timestep.TimeStep{}, false, fmt.Errorf("step: %w", err)
	}

	stepType := timestep.Mid
	if g.AtGoal(target) {
		stepType = timestep.Last
	}
	number := g.currentStep.Number + 1
	if g.currentStep.Last() {
		number = 1
	}

	step := timestep.New(stepType, float64(reward), g.State(), number)
	g.currentStep = step
	return step, stepType == timestep.Last, nil
}

// Reset moves the agent to the start position and returns the first
// TimeStep of a new episode
func (g *GridWorld) Reset() timestep.TimeStep {
	g.ResetPlayer()
	g.currentStep = timestep.New(timestep.First, 0, g.State(), 0)
	return g.currentStep
}

// ResetPlayer moves the agent to the start position
func (g *GridWorld) ResetPlayer() {
	g.player = g.start
}

// Player returns the agent's current position
func (g *GridWorld) Player() Position {
	return g.player
}

// SetPlayer moves the agent to p. Only floor positions are accepted:
// the agent never rests on a wall or on the goal.
func (g *GridWorld) SetPlayer(p Position) error {
	if !inBounds(p, g.size) || g.terrain.At(p) != Floor {
		return fmt.Errorf("setPlayer: %w: %v", ErrInvalidPosition, p)
	}
	g.player = p
	return nil
}

// Grid returns a copy of the current terrain
func (g *GridWorld) Grid() Terrain {
	return g.terrain.Clone()
}

// Weights returns a copy of the reward map
func (g *GridWorld) Weights() [][]int {
	weights := make([][]int, len(g.weights))
	for r := range g.weights {
		weights[r] = make([]int, len(g.weights[r]))
		copy(weights[r], g.weights[r])
	}
	return weights
}

// Weight returns the reward of entering position p
func (g *GridWorld) Weight(p Position) (int, error) {
	if !inBounds(p, g.size) {
		return 0, fmt.Errorf("weight: %w: %v", ErrInvalidPosition, p)
	}
	return g.weights[p.Row][p.Col], nil
}

// Lookup returns the tile to reward lookup used by the GridWorld
func (g *GridWorld) Lookup() Weights {
	return g.lookup
}

// Size returns the number of rows (and columns) of the GridWorld
func (g *GridWorld) Size() int {
	return g.size
}

// Dims gets the rows and columns of the GridWorld
func (g *GridWorld) Dims() (r, c int) {
	return g.size, g.size
}

// NumStates returns the number of discrete states, size * size
func (g *GridWorld) NumStates() int {
	return g.size * g.size
}

// Start returns the fixed start position
func (g *GridWorld) Start() Position {
	return g.start
}

// Goal returns the position of the goal tile
func (g *GridWorld) Goal() Position {
	return g.goal
}

// AtGoal returns whether p is the goal tile
func (g *GridWorld) AtGoal(p Position) bool {
	return inBounds(p, g.size) && g.terrain.At(p) == Goal
}

// State returns the state index of the agent's current position
func (g *GridWorld) State() int {
	return g.StateOf(g.player)
}

// StateOf returns the state index of position p
func (g *GridWorld) StateOf(p Position) int {
	return p.Row*g.size + p.Col
}

// PositionOf converts a state index back into a position
func (g *GridWorld) PositionOf(state int) (Position, error) {
	if state < 0 || state >= g.NumStates() {
		return Position{}, fmt.Errorf("positionOf: %w: state %d",
			ErrInvalidPosition, state)
	}
	return Position{state / g.size, state % g.size}, nil
}

func (g *GridWorld) String() string {
	str := "GridWorld | At: %v  |   Goal: %v  |  Bounds: (%d, %d)"
	return fmt.Sprintf(str, g.player, g.goal, g.size, g.size)
}
