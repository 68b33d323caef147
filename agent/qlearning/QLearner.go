// Package qlearning implements tabular Q-learning with an ε-greedy
// behaviour policy.
//
// A QLearner holds a dense table of action values indexed by
// (state, action). Actions are selected with SelectAction, which
// remembers the chosen (state, action) pair; a following TrainStep
// updates that pair's value from the observed reward and next state and
// selects the next action, continuing the loop.
package qlearning

import (
	"fmt"
	"strings"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/gridq/gridq/agent"
	"github.com/gridq/gridq/utils/matutils"
)

var _ agent.Agent = (*QLearner)(nil)

// QLearner implements the Q-learning algorithm over a table of
// states x actions values
type QLearner struct {
	states, actions int
	table           *mat.Dense

	learningRate     float64
	discountRate     float64
	explorationRate  float64
	explorationDecay float64

	// Pending (state, action) pair to update on the next TrainStep
	state, action int
	pending       bool

	uniform distuv.Uniform
	random  distuv.Categorical
}

// New creates a new QLearner with a zero-valued table of states rows and
// actions columns. Fields of c that are nil take their default values.
// The seed determines the sequence of exploration draws.
func New(states, actions int, c Config, seed uint64) (*QLearner, error) {
	if states < 1 {
		return nil, fmt.Errorf("new: %w: %d states", ErrStateOutOfRange, states)
	}
	if actions < 1 {
		return nil, fmt.Errorf("new: %w: %d actions", ErrActionOutOfRange,
			actions)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}

	src := rand.NewSource(seed)
	weights := make([]float64, actions)
	for i := range weights {
		weights[i] = 1.0
	}

	q := &QLearner{
		states:           states,
		actions:          actions,
		table:            mat.NewDense(states, actions, nil),
		learningRate:     DefaultLearningRate,
		discountRate:     DefaultDiscountRate,
		explorationRate:  DefaultExplorationRate,
		explorationDecay: DefaultExplorationDecay,
		uniform:          distuv.Uniform{Min: 0, Max: 1, Src: src},
		random:           distuv.NewCategorical(weights, src),
	}
	q.apply(c)

	return q, nil
}

// SelectAction selects an action in state using an ε-greedy policy.
//
// When training, ε is first decayed by the exploration decay, and with
// probability ε a uniformly random action is chosen. Otherwise, and
// always when not training, the greedy action is chosen, with ties
// broken in favour of the lowest action index. The chosen pair is
// remembered as the target of the next TrainStep.
func (q *QLearner) SelectAction(state int, training bool) (int, error) {
	if err := q.checkState(state); err != nil {
		return 0, fmt.Errorf("selectAction: %w", err)
	}

	draw := q.uniform.Rand()
	if training {
		q.explorationRate *= q.explorationDecay
	}

	var action int
	if training && draw < q.explorationRate {
		action = int(q.random.Rand())
	} else {
		action = matutils.ArgMax(q.table.RawRowView(state))
	}

	q.state, q.action, q.pending = state, action, true
	return action, nil
}

// TrainStep updates the value of the pending (state, action) pair with
// the one-step Q-learning target
//
//	Q(s, a) <- (1 - α) Q(s, a) + α (reward + γ max_a' Q(newState, a'))
//
// where reward was observed on entering newState. It then selects and
// returns the next action from newState in training mode.
func (q *QLearner) TrainStep(newState int, reward float64) (int, error) {
	if !q.pending {
		return 0, fmt.Errorf("trainStep: %w", ErrUninitializedTrainingState)
	}
	if err := q.checkState(newState); err != nil {
		return 0, fmt.Errorf("trainStep: %w", err)
	}

	current := q.table.At(q.state, q.action)
	future := reward + q.discountRate*floats.Max(q.table.RawRowView(newState))
	updated := (1.0-q.learningRate)*current + q.learningRate*future
	q.table.Set(q.state, q.action, updated)

	return q.SelectAction(newState, true)
}

// TestStep returns the greedy action in state. No exploration happens
// and ε is not decayed.
func (q *QLearner) TestStep(state int) (int, error) {
	return q.SelectAction(state, false)
}

// Convergence returns the mean squared difference between the current
// table and an older snapshot of it, such as one returned by Table
func (q *QLearner) Convergence(old mat.Matrix) (float64, error) {
	r, c := old.Dims()
	if r != q.states || c != q.actions {
		return 0, fmt.Errorf("convergence: %w: (%d, %d) != (%d, %d)",
			ErrShapeMismatch, r, c, q.states, q.actions)
	}
	return matutils.MeanSquaredDiff(q.table, old)
}

// Table returns a copy of the full table
func (q *QLearner) Table() *mat.Dense {
	return mat.DenseCopyOf(q.table)
}

// Row returns a copy of the action values of state
func (q *QLearner) Row(state int) ([]float64, error) {
	if err := q.checkState(state); err != nil {
		return nil, fmt.Errorf("row: %w", err)
	}
	return mat.Row(nil, state, q.table), nil
}

// Value returns the value of taking action in state
func (q *QLearner) Value(state, action int) (float64, error) {
	if err := q.checkState(state); err != nil {
		return 0, fmt.Errorf("value: %w", err)
	}
	if action < 0 || action >= q.actions {
		return 0, fmt.Errorf("value: %w: %d not in [0, %d)",
			ErrActionOutOfRange, action, q.actions)
	}
	return q.table.At(state, action), nil
}

// Dims returns the number of states and actions of the table
func (q *QLearner) Dims() (states, actions int) {
	return q.states, q.actions
}

// ExplorationRate returns the current (decayed) ε
func (q *QLearner) ExplorationRate() float64 {
	return q.explorationRate
}

// Pending returns the (state, action) pair the next TrainStep will
// update, and whether there is one
func (q *QLearner) Pending() (state, action int, ok bool) {
	return q.state, q.action, q.pending
}

// Preferences returns the current values of the named hyperparameters.
// Fields that were not requested are left nil. With no names, every
// hyperparameter is returned.
func (q *QLearner) Preferences(names ...Hyperparameter) (Config, error) {
	if len(names) == 0 {
		names = Hyperparameters
	}

	var c Config
	for _, name := range names {
		switch name {
		case LearningRate:
			c.LearningRate = Float(q.learningRate)
		case DiscountRate:
			c.DiscountRate = Float(q.discountRate)
		case ExplorationRate:
			c.ExplorationRate = Float(q.explorationRate)
		case ExplorationDecay:
			c.ExplorationDecay = Float(q.explorationDecay)
		default:
			return Config{}, fmt.Errorf("preferences: unknown "+
				"hyperparameter %q", name)
		}
	}
	return c, nil
}

// SetPreferences overrides the hyperparameters set in c. Nil fields are
// left untouched. If any field is invalid, nothing is changed.
func (q *QLearner) SetPreferences(c Config) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("setPreferences: %w", err)
	}
	q.apply(c)
	return nil
}

func (q *QLearner) apply(c Config) {
	if c.LearningRate != nil {
		q.learningRate = *c.LearningRate
	}
	if c.DiscountRate != nil {
		q.discountRate = *c.DiscountRate
	}
	if c.ExplorationRate != nil {
		q.explorationRate = *c.ExplorationRate
	}
	if c.ExplorationDecay != nil {
		q.explorationDecay = *c.ExplorationDecay
	}
}

func (q *QLearner) checkState(state int) error {
	if state < 0 || state >= q.states {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrStateOutOfRange, state,
			q.states)
	}
	return nil
}

func (q *QLearner) String() string {
	var b strings.Builder
	b.WriteString("QLearner data:\n")
	fmt.Fprintf(&b, "states: %d\n", q.states)
	fmt.Fprintf(&b, "actions: %d\n", q.actions)
	fmt.Fprintf(&b, "learning rate: %v\n", q.learningRate)
	fmt.Fprintf(&b, "discount rate: %v\n", q.discountRate)
	fmt.Fprintf(&b, "exploration rate: %v\n", q.explorationRate)
	fmt.Fprintf(&b, "exploration decay: %v\n", q.explorationDecay)
	return b.String()
}
