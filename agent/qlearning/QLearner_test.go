package qlearning

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func newLearner(t *testing.T, c Config) *QLearner {
	t.Helper()
	q, err := New(100, 4, c, 1)
	require.NoError(t, err)
	return q
}

func TestNewRejectsBadArgs(t *testing.T) {
	_, err := New(0, 4, Config{}, 1)
	assert.ErrorIs(t, err, ErrStateOutOfRange)

	_, err = New(10, 0, Config{}, 1)
	assert.ErrorIs(t, err, ErrActionOutOfRange)

	_, err = New(10, 4, Config{LearningRate: Float(1.5)}, 1)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestDefaults(t *testing.T) {
	q := newLearner(t, Config{})

	c, err := q.Preferences()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), c)

	states, actions := q.Dims()
	assert.Equal(t, 100, states)
	assert.Equal(t, 4, actions)

	table := q.Table()
	assert.Equal(t, 0.0, floats.Norm(table.RawMatrix().Data, 1))
}

func TestFirstGoalUpdate(t *testing.T) {
	q := newLearner(t, Config{ExplorationRate: Float(0)})

	a, err := q.TestStep(88)
	require.NoError(t, err)
	assert.Equal(t, 0, a)

	_, err = q.TrainStep(11, 100)
	require.NoError(t, err)

	v, err := q.Value(88, a)
	require.NoError(t, err)
	assert.InDelta(t, 20.0, v, 1e-12)
}

func TestTrainStepClosedForm(t *testing.T) {
	alpha, gamma := 0.3, 0.8
	q := newLearner(t, Config{
		LearningRate:    Float(alpha),
		DiscountRate:    Float(gamma),
		ExplorationRate: Float(0),
	})

	// Populate the next state's row and the pending entry with known values
	q.table.SetRow(7, []float64{1, 5, -2, 3})
	q.table.Set(3, 0, 2)

	a, err := q.TestStep(3)
	require.NoError(t, err)
	require.Equal(t, 0, a)

	reward := -1.0
	next, err := q.TrainStep(7, reward)
	require.NoError(t, err)

	want := (1-alpha)*2 + alpha*(reward+gamma*5)
	got, err := q.Value(3, 0)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// Greedy selection from the next state with ε = 0
	assert.Equal(t, 1, next)
	state, action, ok := q.Pending()
	assert.True(t, ok)
	assert.Equal(t, 7, state)
	assert.Equal(t, 1, action)
}

func TestExplorationDecay(t *testing.T) {
	q := newLearner(t, Config{})

	n := 37
	for i := 0; i < n; i++ {
		_, err := q.SelectAction(i%100, true)
		require.NoError(t, err)
	}
	want := DefaultExplorationRate * math.Pow(DefaultExplorationDecay, float64(n))
	assert.InDelta(t, want, q.ExplorationRate(), 1e-12)

	// Greedy selection never decays
	for i := 0; i < 10; i++ {
		_, err := q.TestStep(0)
		require.NoError(t, err)
	}
	assert.InDelta(t, want, q.ExplorationRate(), 1e-12)
}

func TestTieBreakLowestIndex(t *testing.T) {
	q := newLearner(t, Config{})

	q.table.SetRow(4, []float64{-1, 2, 2, 2})
	a, err := q.TestStep(4)
	require.NoError(t, err)
	assert.Equal(t, 1, a)

	q.table.SetRow(5, []float64{0, 0, 0, 0})
	a, err = q.TestStep(5)
	require.NoError(t, err)
	assert.Equal(t, 0, a)
}

func TestExplorationCoversActions(t *testing.T) {
	q := newLearner(t, Config{
		ExplorationRate:  Float(1),
		ExplorationDecay: Float(1),
	})

	seen := make(map[int]bool)
	for i := 0; i < 200; i++ {
		a, err := q.SelectAction(0, true)
		require.NoError(t, err)
		require.GreaterOrEqual(t, a, 0)
		require.Less(t, a, 4)
		seen[a] = true
	}
	assert.Len(t, seen, 4)
}

func TestUninitializedTrainStep(t *testing.T) {
	q := newLearner(t, Config{})

	_, err := q.TrainStep(0, 1)
	assert.ErrorIs(t, err, ErrUninitializedTrainingState)
	assert.Equal(t, 0.0, floats.Norm(q.Table().RawMatrix().Data, 1))
}

func TestRangeErrors(t *testing.T) {
	q := newLearner(t, Config{})

	_, err := q.SelectAction(100, true)
	assert.ErrorIs(t, err, ErrStateOutOfRange)
	_, err = q.SelectAction(-1, false)
	assert.ErrorIs(t, err, ErrStateOutOfRange)
	_, _, ok := q.Pending()
	assert.False(t, ok)

	_, err = q.Row(100)
	assert.ErrorIs(t, err, ErrStateOutOfRange)
	_, err = q.Value(0, 4)
	assert.ErrorIs(t, err, ErrActionOutOfRange)

	_, err = q.TestStep(3)
	require.NoError(t, err)
	_, err = q.TrainStep(100, 1)
	assert.ErrorIs(t, err, ErrStateOutOfRange)
	v, err := q.Value(3, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)
}

func TestCopiesDoNotAlias(t *testing.T) {
	q := newLearner(t, Config{})

	table := q.Table()
	table.Set(0, 0, 42)
	row, err := q.Row(0)
	require.NoError(t, err)
	row[1] = 42

	v, err := q.Value(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)
	v, err = q.Value(0, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)
}

func TestConvergence(t *testing.T) {
	q := newLearner(t, Config{ExplorationRate: Float(0)})
	old := q.Table()

	mse, err := q.Convergence(old)
	require.NoError(t, err)
	assert.Equal(t, 0.0, mse)

	_, err = q.TestStep(88)
	require.NoError(t, err)
	_, err = q.TrainStep(11, 100)
	require.NoError(t, err)

	// One entry changed by 20 across 400 entries
	mse, err = q.Convergence(old)
	require.NoError(t, err)
	assert.InDelta(t, 400.0/400.0, mse, 1e-12)

	_, err = q.Convergence(q.Table().Slice(0, 10, 0, 4))
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestPreferences(t *testing.T) {
	q := newLearner(t, Config{})

	c, err := q.Preferences(LearningRate, DiscountRate)
	require.NoError(t, err)
	v, ok := c.Get(LearningRate)
	assert.True(t, ok)
	assert.Equal(t, DefaultLearningRate, v)
	assert.Nil(t, c.ExplorationRate)
	assert.Nil(t, c.ExplorationDecay)

	_, err = q.Preferences("Momentum")
	assert.Error(t, err)

	require.NoError(t, q.SetPreferences(Config{DiscountRate: Float(0.5)}))
	c, err = q.Preferences()
	require.NoError(t, err)
	assert.Equal(t, 0.5, *c.DiscountRate)
	assert.Equal(t, DefaultLearningRate, *c.LearningRate)

	// Rejected updates are atomic
	err = q.SetPreferences(Config{
		LearningRate:     Float(0.7),
		ExplorationDecay: Float(-0.1),
	})
	assert.ErrorIs(t, err, ErrInvalidConfig)
	c, err = q.Preferences(LearningRate)
	require.NoError(t, err)
	assert.Equal(t, DefaultLearningRate, *c.LearningRate)
}

func TestSeedDeterminism(t *testing.T) {
	run := func() []int {
		q, err := New(25, 4, Config{}, 99)
		require.NoError(t, err)
		actions := make([]int, 50)
		for i := range actions {
			actions[i], err = q.SelectAction(i%25, true)
			require.NoError(t, err)
		}
		return actions
	}
	assert.Equal(t, run(), run())
}

func BenchmarkTrainStep(b *testing.B) {
	q, err := New(100, 4, Config{}, 1)
	if err != nil {
		b.Fatal(err)
	}
	if _, err := q.TestStep(11); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := q.TrainStep(i%100, -1); err != nil {
			b.Error(err)
		}
	}
}
