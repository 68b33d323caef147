package trackers

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ts "github.com/gridq/gridq/timestep"
)

// episode returns the timesteps of an episode with the given rewards,
// the final one being the Last step
func episode(rewards ...float64) []ts.TimeStep {
	steps := make([]ts.TimeStep, len(rewards))
	for i, r := range rewards {
		t := ts.Mid
		if i == len(rewards)-1 {
			t = ts.Last
		}
		steps[i] = ts.New(t, r, 0, i+1)
	}
	return steps
}

func TestReturn(t *testing.T) {
	file := filepath.Join(t.TempDir(), "return.bin")
	r := NewReturn(file)

	r.Track(ts.New(ts.First, 0, 11, 0))
	for _, step := range episode(-1, -1, 100) {
		r.Track(step)
	}
	for _, step := range episode(-1000, 100) {
		r.Track(step)
	}
	// Unfinished episode is not cached
	r.Track(ts.New(ts.Mid, -1, 12, 1))

	assert.Equal(t, []float64{98, -900}, r.Data())

	require.NoError(t, r.Save())
	data, err := LoadData(file)
	require.NoError(t, err)
	assert.Equal(t, []float64{98, -900}, data)
}

func TestReturnNonSequentialPanics(t *testing.T) {
	r := NewReturn("")
	r.Track(ts.New(ts.First, 0, 11, 0))
	assert.Panics(t, func() {
		r.Track(ts.New(ts.Mid, -1, 12, 3))
	})
}

func TestReturnFirstRestartsEpisode(t *testing.T) {
	r := NewReturn("")
	r.Track(ts.New(ts.First, 0, 11, 0))
	r.Track(ts.New(ts.Mid, -1, 12, 1))
	r.Track(ts.New(ts.First, 0, 11, 0))
	r.Track(ts.New(ts.Last, 100, 11, 1))
	assert.Equal(t, []float64{100}, r.Data())
}

func TestEpisodeLength(t *testing.T) {
	file := filepath.Join(t.TempDir(), "length.bin")
	e := NewEpisodeLength(file)

	for _, step := range episode(-1, -1, -1, 100) {
		e.Track(step)
	}
	for _, step := range episode(100) {
		e.Track(step)
	}
	assert.Equal(t, []float64{4, 1}, e.Data())

	require.NoError(t, e.Save())
	data, err := LoadData(file)
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 1}, data)
}

func TestConvergence(t *testing.T) {
	value := 0.0
	c := NewConvergence(filepath.Join(t.TempDir(), "mse.bin"), func() float64 {
		return value
	})

	for _, v := range []float64{3, 1.5} {
		value = v
		for _, step := range episode(-1, 100) {
			c.Track(step)
		}
	}
	assert.Equal(t, []float64{3, 1.5}, c.Data())
	require.NoError(t, c.Save())
}

func TestLoadDataMissingFile(t *testing.T) {
	_, err := LoadData(filepath.Join(t.TempDir(), "none.bin"))
	assert.Error(t, err)
}

func TestSaveBadPath(t *testing.T) {
	r := NewReturn(filepath.Join(t.TempDir(), "missing", "return.bin"))
	assert.Error(t, r.Save())
}
