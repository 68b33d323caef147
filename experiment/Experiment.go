// Package experiment implements functionality for running an experiment:
// a learner trained and evaluated on a gridworld, driven one tick at a
// time
package experiment

import (
	"context"
	"errors"

	"github.com/gridq/gridq/experiment/checkpointer"
	"github.com/gridq/gridq/experiment/trackers"
)

// Interface Experiment outlines structs that can run experiments.
// Experiments will track environment TimeSteps, caching each TimeStep
// in its Trackers to be later saved to disk. The Save() function
// will then take all cached data and save it to disk. This is usually
// performed after an experiment has been run. The RunEpisode() function
// will run a single episode.
//
// New Trackers and Checkpointers can be registered with an Experiment
// through the constructor or through the Register functions.
type Experiment interface {
	// RunEpisode runs until an episode finishes and returns whether the
	// step budget of the experiment is exhausted
	RunEpisode(ctx context.Context) (bool, error)

	// Save all tracked data to disk
	Save() error

	// Adds a new Tracker to the (possibly already running) experiment.
	// Useful if you want to track data only after a specified event.
	Register(t trackers.Tracker)

	// Adds a new Checkpointer to the experiment
	RegisterCheckpointer(c checkpointer.Checkpointer)
}

var (
	// ErrNoTerrain reports a training or run request before any
	// terrain was generated
	ErrNoTerrain = errors.New("no terrain generated")

	// ErrTerrainLocked reports a terrain change after training or
	// running has started
	ErrTerrainLocked = errors.New("terrain is locked")

	// ErrStepBudget reports that a headless run hit its step budget
	ErrStepBudget = errors.New("step budget exhausted")
)
