package experiment

import (
	"fmt"
	"strings"

	"github.com/gridq/gridq/environment/gridworld"
)

// Board is a read-only view of a single GridWorld. Every field is a copy
// owned by the receiver.
type Board struct {
	Terrain gridworld.Terrain
	Weights [][]int
	Player  gridworld.Position

	// Annotations holds the last Q-value written to a cell together with
	// the direction the agent entered it from, e.g. "-1.2 L"
	Annotations map[gridworld.Position]string
}

// Annotation returns the annotation of cell p, if any
func (b Board) Annotation(p gridworld.Position) (string, bool) {
	a, ok := b.Annotations[p]
	return a, ok
}

// Snapshot is everything a client needs to draw the state of a Session
type Snapshot struct {
	Environment Board
	Learner     Board

	Episode         int
	Step            int
	ExplorationRate float64
	Convergence     float64

	Training      bool
	Running       bool
	DoubleSpeed   bool
	ShowWeights   bool
	TerrainMade   bool
	TerrainLocked bool
}

// Status returns a one line summary of the Snapshot's counters
func (s Snapshot) Status() string {
	mode := "idle"
	switch {
	case s.Training:
		mode = "training"
	case s.Running:
		mode = "running"
	}
	return fmt.Sprintf("%s | Episode: %d | Step: %d | Exploration Rate: "+
		"%.4g | Q-Table Convergence (MSE): %.4g", mode, s.Episode, s.Step,
		s.ExplorationRate, s.Convergence)
}

func (s Snapshot) String() string {
	var b strings.Builder
	b.WriteString(s.Status())
	fmt.Fprintf(&b, "\nenvironment at %v, learner at %v", s.Environment.Player,
		s.Learner.Player)
	return b.String()
}

// annotate formats a Q-value and the letter of the direction the agent
// came from
func annotate(value float64, a gridworld.Action) string {
	return fmt.Sprintf("%.4g %s", value, a.Opposite().Letter())
}
