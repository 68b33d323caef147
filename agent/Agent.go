// Package agent defines the interface of tabular agents
package agent

import (
	"gonum.org/v1/gonum/mat"
)

// Agent determines the implementation details of an agent or algorithm
//
// An Agent is composed of a Learner, which learns action values, and a
// Policy which chooses actions in each state. The Policy chooses which
// actions are taken, and the Learner uses these actions to update the
// values the Policy reads.
type Agent interface {
	Learner
	Policy
}

// Learner implements a learning algorithm over a table of (state,
// action) values
type Learner interface {
	// TrainStep updates the value of the last selected (state, action)
	// pair from the reward observed on entering newState, and selects
	// the next action in training mode
	TrainStep(newState int, reward float64) (int, error)

	// Convergence measures how far the table moved from an older copy
	Convergence(old mat.Matrix) (float64, error)

	// Table returns a copy of the table of values
	Table() *mat.Dense

	// Value returns the value of taking action in state
	Value(state, action int) (float64, error)
}

// Policy represents a policy that an agent can have.
//
// Policies determine how agents select actions. In training mode a
// Policy may explore, otherwise it acts greedily.
type Policy interface {
	SelectAction(state int, training bool) (int, error)

	// TestStep selects the greedy action in state
	TestStep(state int) (int, error)

	// ExplorationRate returns the current probability of exploring
	ExplorationRate() float64
}
