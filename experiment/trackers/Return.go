package trackers

import (
	"fmt"

	ts "github.com/gridq/gridq/timestep"
)

// Return tracks and saves the episodic return in an experiment. When
// the environment returns a TimeStep, this Tracker will extract the
// reward and accumulate the return for each episode in the experiment.
//
// Note: An episode must finish for this Tracker to save its data.
// If the last episode in an experiment does not finish, that episode's
// return will not be saved.
type Return struct {
	lastTimeStep   int
	currentReturn  float64
	episodeReturns []float64
	filename       string
}

// NewReturn creates and returns a new *Return Tracker
func NewReturn(filename string) *Return {
	return &Return{filename: filename}
}

// Track tracks the reward seen on a timestep. A First timestep starts a
// new episode, discarding any unfinished return. A Last timestep
// closes the episode and caches its return.
//
// Track panics if it is called for non-sequential timesteps within an
// episode.
func (r *Return) Track(step ts.TimeStep) {
	if step.First() {
		r.currentReturn = 0.0
		r.lastTimeStep = step.Number
		return
	}

	if r.lastTimeStep+1 != step.Number {
		msg := fmt.Sprintf("track: last two timesteps tracked are not "+
			"sequential: timestep %v --> timestep %v were tracked",
			r.lastTimeStep, step.Number)
		panic(msg)
	}

	r.currentReturn += step.Reward
	r.lastTimeStep = step.Number

	if step.Last() {
		r.episodeReturns = append(r.episodeReturns, r.currentReturn)
		r.currentReturn = 0.0
		r.lastTimeStep = 0
	}
}

// Data returns a copy of the episodic returns tracked so far
func (r *Return) Data() []float64 {
	return clone(r.episodeReturns)
}

// Save saves the data tracked by the Return Tracker to disk.
func (r *Return) Save() error {
	return save(r.filename, r.episodeReturns)
}
