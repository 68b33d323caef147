package trackers

import (
	ts "github.com/gridq/gridq/timestep"
)

// Convergence tracks the convergence measure of a learner once per
// episode. On each Last timestep the source function is called and its
// value cached, so the source must already reflect the episode that
// just ended.
type Convergence struct {
	source      func() float64
	convergence []float64
	filename    string
}

// NewConvergence returns a new Convergence tracker reading values from
// source and saving them to filename
func NewConvergence(filename string, source func() float64) *Convergence {
	return &Convergence{source: source, filename: filename}
}

// Track caches the current convergence value at the end of an episode
func (c *Convergence) Track(step ts.TimeStep) {
	if step.Last() {
		c.convergence = append(c.convergence, c.source())
	}
}

// Data returns a copy of the convergence values tracked so far
func (c *Convergence) Data() []float64 {
	return clone(c.convergence)
}

// Save saves the data tracked by the Convergence Tracker to disk.
func (c *Convergence) Save() error {
	return save(c.filename, c.convergence)
}
