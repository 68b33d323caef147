package qlearning

import (
	"fmt"
	"strings"
)

// Default hyperparameters used for any field left unset in a Config
const (
	DefaultLearningRate     float64 = 0.2
	DefaultDiscountRate     float64 = 0.9
	DefaultExplorationRate  float64 = 0.5
	DefaultExplorationDecay float64 = 0.99
)

// Hyperparameter names a single tunable field of a QLearner
type Hyperparameter string

const (
	LearningRate     Hyperparameter = "LearningRate"
	DiscountRate     Hyperparameter = "DiscountRate"
	ExplorationRate  Hyperparameter = "ExplorationRate"
	ExplorationDecay Hyperparameter = "ExplorationDecay"
)

// Hyperparameters lists every Hyperparameter
var Hyperparameters = []Hyperparameter{
	LearningRate,
	DiscountRate,
	ExplorationRate,
	ExplorationDecay,
}

// Config represents a configuration for the QLearner. Every field is
// optional; a nil field means "use the default" at construction and
// "leave unchanged" when passed to SetPreferences.
type Config struct {
	LearningRate     *float64 `json:",omitempty"` // α
	DiscountRate     *float64 `json:",omitempty"` // γ
	ExplorationRate  *float64 `json:",omitempty"` // ε
	ExplorationDecay *float64 `json:",omitempty"` // ε multiplier per training step
}

// Float returns a pointer to v, for filling in Config fields
func Float(v float64) *float64 {
	return &v
}

// DefaultConfig returns a Config with every field set to its default
func DefaultConfig() Config {
	return Config{
		LearningRate:     Float(DefaultLearningRate),
		DiscountRate:     Float(DefaultDiscountRate),
		ExplorationRate:  Float(DefaultExplorationRate),
		ExplorationDecay: Float(DefaultExplorationDecay),
	}
}

// Validate ensures that every set field lies in [0, 1]
func (c Config) Validate() error {
	for _, name := range Hyperparameters {
		v := c.field(name)
		if v == nil {
			continue
		}
		if *v < 0 || *v > 1 {
			return fmt.Errorf("%w: %v = %v not in [0, 1]", ErrInvalidConfig,
				name, *v)
		}
	}
	return nil
}

// Get returns the value of a set field and whether it was set
func (c Config) Get(name Hyperparameter) (float64, bool) {
	v := c.field(name)
	if v == nil {
		return 0, false
	}
	return *v, true
}

func (c Config) field(name Hyperparameter) *float64 {
	switch name {
	case LearningRate:
		return c.LearningRate
	case DiscountRate:
		return c.DiscountRate
	case ExplorationRate:
		return c.ExplorationRate
	case ExplorationDecay:
		return c.ExplorationDecay
	}
	return nil
}

func (c Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	first := true
	for _, name := range Hyperparameters {
		v, ok := c.Get(name)
		if !ok {
			continue
		}
		if !first {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%v: %v", name, v)
		first = false
	}
	b.WriteString("}")
	return b.String()
}
