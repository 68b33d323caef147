package timestep

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStepTypes(t *testing.T) {
	first := New(First, 0, 11, 0)
	assert.True(t, first.First())
	assert.False(t, first.Mid())
	assert.False(t, first.Last())

	last := New(Last, 100, 11, 12)
	assert.True(t, last.Last())
	assert.Equal(t, 100.0, last.Reward)
	assert.Equal(t, 12, last.Number)
	assert.Contains(t, last.String(), "Type: Last")
}
