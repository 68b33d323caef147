// Package config implements the run configuration of gridq
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/gridq/gridq/agent/qlearning"
	"github.com/gridq/gridq/environment/gridworld"
)

// Environment variables read by Load
const (
	EnvSize     = "GRIDQ_SIZE"
	EnvDensity  = "GRIDQ_DENSITY"
	EnvSeed     = "GRIDQ_SEED"
	EnvEpisodes = "GRIDQ_EPISODES"
	EnvMaxSteps = "GRIDQ_MAX_STEPS"
	EnvOutDir   = "GRIDQ_OUT_DIR"
	EnvAlpha    = "GRIDQ_LEARNING_RATE"
	EnvGamma    = "GRIDQ_DISCOUNT_RATE"
	EnvEpsilon  = "GRIDQ_EXPLORATION_RATE"
	EnvDecay    = "GRIDQ_EXPLORATION_DECAY"
)

// ErrInvalidConfig reports a configuration that cannot be run
var ErrInvalidConfig = errors.New("invalid config")

// Config holds the configuration of a single gridq run
type Config struct {
	Size    int                `json:"size"`
	Start   gridworld.Position `json:"start"`
	Goal    gridworld.Position `json:"goal"`
	Density float64            `json:"density"` // Probability of a floor cell turning into a wall
	Agent   qlearning.Config   `json:"agent"`

	Seed     uint64 `json:"seed"`
	Episodes int    `json:"episodes"`  // Episodes to train for headless runs
	MaxSteps int    `json:"max_steps"` // Step budget for headless runs
	OutDir   string `json:"out_dir"`   // Directory for saved data and frames
}

// Default returns the default configuration: a 10x10 board started at
// (1, 1) with the goal at (9, 8), a wall density of 0.25 and the default
// learner hyperparameters.
func Default() Config {
	return Config{
		Size:     10,
		Start:    gridworld.Position{Row: 1, Col: 1},
		Goal:     GoalFor(10),
		Density:  0.25,
		Agent:    qlearning.DefaultConfig(),
		Seed:     1,
		Episodes: 100,
		MaxSteps: 1_000_000,
		OutDir:   ".",
	}
}

// GoalFor returns the default goal position on a size x size board
func GoalFor(size int) gridworld.Position {
	return gridworld.Position{Row: size - 1, Col: size - 2}
}

// Validate checks that a board and learner can be built from c
func (c Config) Validate() error {
	if c.Size < gridworld.MinSize {
		return fmt.Errorf("%w: size %d < %d", ErrInvalidConfig, c.Size,
			gridworld.MinSize)
	}
	if c.Goal.Row < 0 || c.Goal.Row >= c.Size || c.Goal.Col < 0 ||
		c.Goal.Col >= c.Size {
		return fmt.Errorf("%w: goal %v out of bounds", ErrInvalidConfig,
			c.Goal)
	}
	terrain := gridworld.DefaultTerrain(c.Size, c.Goal)
	if err := terrain.Validate(c.Size, c.Start); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Density < 0 || c.Density > 1 {
		return fmt.Errorf("%w: density %v not in [0, 1]", ErrInvalidConfig,
			c.Density)
	}
	if err := c.Agent.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Episodes < 0 {
		return fmt.Errorf("%w: episodes %d < 0", ErrInvalidConfig, c.Episodes)
	}
	if c.MaxSteps < 1 {
		return fmt.Errorf("%w: max steps %d < 1", ErrInvalidConfig,
			c.MaxSteps)
	}
	return nil
}

// Load returns the default configuration overridden by the GRIDQ_*
// environment variables. The named dotenv files (".env" if none) are
// loaded into the environment first; missing files are skipped.
// Variables already set in the environment take precedence over the
// files.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return Config{}, fmt.Errorf("load: %v: %w", file, err)
		}
	}

	c := Default()
	if err := c.fromEnv(); err != nil {
		return Config{}, fmt.Errorf("load: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("load: %w", err)
	}
	return c, nil
}

// LoadJSON reads a Config from a JSON file. Fields absent from the file
// keep their default values.
func LoadJSON(filename string) (Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("loadJSON: %w", err)
	}

	c := Default()
	if err := json.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("loadJSON: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("loadJSON: %w", err)
	}
	return c, nil
}

// fromEnv overrides fields of c with any GRIDQ_* variables that are set.
// Setting only the size moves the goal to its default for that size.
func (c *Config) fromEnv() error {
	if v, ok := os.LookupEnv(EnvSize); ok {
		size, err := strconv.Atoi(v)
		if err != nil {
			return envError(EnvSize, err)
		}
		c.Size = size
		c.Goal = GoalFor(size)
	}
	if v, ok := os.LookupEnv(EnvSeed); ok {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return envError(EnvSeed, err)
		}
		c.Seed = seed
	}
	if v, ok := os.LookupEnv(EnvOutDir); ok {
		c.OutDir = v
	}

	ints := map[string]*int{
		EnvEpisodes: &c.Episodes,
		EnvMaxSteps: &c.MaxSteps,
	}
	for key, field := range ints {
		v, ok := os.LookupEnv(key)
		if !ok {
			continue
		}
		i, err := strconv.Atoi(v)
		if err != nil {
			return envError(key, err)
		}
		*field = i
	}

	if v, ok := os.LookupEnv(EnvDensity); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return envError(EnvDensity, err)
		}
		c.Density = f
	}

	floats := map[string]**float64{
		EnvAlpha:   &c.Agent.LearningRate,
		EnvGamma:   &c.Agent.DiscountRate,
		EnvEpsilon: &c.Agent.ExplorationRate,
		EnvDecay:   &c.Agent.ExplorationDecay,
	}
	for key, field := range floats {
		v, ok := os.LookupEnv(key)
		if !ok {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return envError(key, err)
		}
		*field = qlearning.Float(f)
	}
	return nil
}

func envError(key string, err error) error {
	return fmt.Errorf("%w: environment variable %s: %v", ErrInvalidConfig,
		key, err)
}
