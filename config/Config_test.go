package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridq/gridq/agent/qlearning"
	"github.com/gridq/gridq/environment/gridworld"
)

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, gridworld.Position{Row: 9, Col: 8}, c.Goal)
	assert.Equal(t, qlearning.DefaultConfig(), c.Agent)
}

func TestValidate(t *testing.T) {
	tests := map[string]func(*Config){
		"smallBoard":   func(c *Config) { c.Size = 2 },
		"goalOutside":  func(c *Config) { c.Goal = gridworld.Position{Row: 10, Col: 8} },
		"startOnWall":  func(c *Config) { c.Start = gridworld.Position{Row: 0, Col: 3} },
		"density":      func(c *Config) { c.Density = -0.1 },
		"learningRate": func(c *Config) { c.Agent.LearningRate = qlearning.Float(2) },
		"episodes":     func(c *Config) { c.Episodes = -1 },
		"maxSteps":     func(c *Config) { c.MaxSteps = 0 },
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c := Default()
			mutate(&c)
			assert.ErrorIs(t, c.Validate(), ErrInvalidConfig)
		})
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv(EnvSize, "7")
	t.Setenv(EnvSeed, "12")
	t.Setenv(EnvEpisodes, "30")
	t.Setenv(EnvAlpha, "0.5")

	c, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, 7, c.Size)
	assert.Equal(t, GoalFor(7), c.Goal)
	assert.Equal(t, uint64(12), c.Seed)
	assert.Equal(t, 30, c.Episodes)
	assert.Equal(t, 0.5, *c.Agent.LearningRate)
	assert.Equal(t, qlearning.DefaultDiscountRate, *c.Agent.DiscountRate)
}

func TestLoadDotenvFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "gridq.env")
	contents := EnvDensity + "=0.1\n" + EnvDecay + "=0.95\n"
	require.NoError(t, os.WriteFile(file, []byte(contents), 0o600))

	// godotenv sets the variables in the process environment
	t.Cleanup(func() {
		os.Unsetenv(EnvDensity)
		os.Unsetenv(EnvDecay)
	})

	c, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, 0.1, c.Density)
	assert.Equal(t, 0.95, *c.Agent.ExplorationDecay)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv(EnvEpsilon, "lots")
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoadJSON(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.json")
	contents := `{"size": 5, "goal": {"Row": 4, "Col": 3}, "episodes": 3}`
	require.NoError(t, os.WriteFile(file, []byte(contents), 0o600))

	c, err := LoadJSON(file)
	require.NoError(t, err)
	assert.Equal(t, 5, c.Size)
	assert.Equal(t, 3, c.Episodes)
	assert.Equal(t, Default().Density, c.Density)
}
