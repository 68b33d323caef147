// Package checkpointer implements Checkpointers, which periodically save
// views of an experiment while it runs
package checkpointer

import (
	ts "github.com/gridq/gridq/timestep"
)

// Saver is an object that can save itself to a named file
type Saver interface {
	Save(filename string) error
}

// SaverFunc adapts a function to the Saver interface
type SaverFunc func(filename string) error

// Save calls f(filename)
func (f SaverFunc) Save(filename string) error {
	return f(filename)
}

// Checkpointer checkpoints/saves objects based on timestep.TimeSteps
type Checkpointer interface {
	Checkpoint(ts.TimeStep) error
}
