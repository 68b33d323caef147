package qlearning

import "errors"

var (
	// ErrUninitializedTrainingState reports a TrainStep made before any
	// action was selected, so there is no table entry to update
	ErrUninitializedTrainingState = errors.New("no state/action selected " +
		"before training step")

	// ErrStateOutOfRange reports a state index outside the table
	ErrStateOutOfRange = errors.New("state out of range")

	// ErrActionOutOfRange reports an action index outside the table
	ErrActionOutOfRange = errors.New("action out of range")

	// ErrShapeMismatch reports a table snapshot with the wrong shape
	ErrShapeMismatch = errors.New("table shape mismatch")

	// ErrInvalidConfig reports a hyperparameter outside its range
	ErrInvalidConfig = errors.New("invalid config")
)
