package experiment

import (
	"fmt"

	"github.com/gridq/gridq/environment/gridworld"
)

// Command is a discrete request forwarded by a client to a Session
type Command int

const (
	RegenerateTerrain Command = iota
	ToggleTraining
	ToggleRun
	ToggleSpeed
	ToggleWeights
)

func (c Command) String() string {
	switch c {
	case RegenerateTerrain:
		return "regenerate terrain"
	case ToggleTraining:
		return "toggle training"
	case ToggleRun:
		return "toggle run"
	case ToggleSpeed:
		return "toggle speed"
	case ToggleWeights:
		return "toggle weights"
	}
	return fmt.Sprintf("Command(%d)", int(c))
}

// Apply dispatches a Command to the matching Session method
func (s *Session) Apply(c Command) error {
	switch c {
	case RegenerateTerrain:
		return s.RegenerateTerrain()
	case ToggleTraining:
		return s.ToggleTraining()
	case ToggleRun:
		return s.ToggleRun()
	case ToggleSpeed:
		s.ToggleSpeed()
		return nil
	case ToggleWeights:
		s.ToggleWeights()
		return nil
	}
	return fmt.Errorf("apply: unknown command %v", c)
}

// maxTerrainAttempts bounds the number of terrains sampled while looking
// for one whose goal is reachable
const maxTerrainAttempts = 100

// RegenerateTerrain replaces the terrain of both boards with a freshly
// sampled random terrain and clears the annotations. Terrains whose goal
// cannot be reached from the start are resampled. The terrain can only
// be changed before training or running has started.
func (s *Session) RegenerateTerrain() error {
	if s.terrainLocked {
		return fmt.Errorf("regenerateTerrain: %w", ErrTerrainLocked)
	}

	var terrain gridworld.Terrain
	for attempt := 1; ; attempt++ {
		var err error
		terrain, err = gridworld.RandomTerrain(s.cfg.Size, s.cfg.Start,
			s.cfg.Goal, s.cfg.Density, s.src)
		if err != nil {
			return fmt.Errorf("regenerateTerrain: %w", err)
		}
		if terrain.Reachable(s.cfg.Start) {
			break
		}
		if attempt == maxTerrainAttempts {
			return fmt.Errorf("regenerateTerrain: %w: goal unreachable "+
				"after %d attempts", gridworld.ErrInvalidTerrain, attempt)
		}
	}

	for _, board := range []*gridworld.GridWorld{s.env, s.board} {
		board.GenerateMap()
		if err := board.SetGrid(terrain); err != nil {
			return fmt.Errorf("regenerateTerrain: %w", err)
		}
	}

	s.annotations = make(map[gridworld.Position]string)
	s.terrainMade = true
	s.logger.Printf("generated terrain with %d walls",
		terrain.Count(gridworld.Wall))
	return nil
}

// ToggleTraining starts or stops training. Starting locks the terrain.
func (s *Session) ToggleTraining() error {
	if !s.terrainMade {
		return fmt.Errorf("toggleTraining: %w", ErrNoTerrain)
	}
	s.terrainLocked = true
	s.training = !s.training
	s.logger.Printf("training: %v", s.training)
	return nil
}

// ToggleRun starts or stops replaying the greedy policy. Starting locks
// the terrain and moves both boards' agents back to the start on the
// next tick.
func (s *Session) ToggleRun() error {
	if !s.terrainMade {
		return fmt.Errorf("toggleRun: %w", ErrNoTerrain)
	}
	s.terrainLocked = true
	s.running = !s.running
	if s.running {
		s.firstRun = true
	}
	s.logger.Printf("running: %v", s.running)
	return nil
}

// ToggleSpeed switches between normal and double speed
func (s *Session) ToggleSpeed() {
	s.fast = !s.fast
}

// ToggleWeights switches the weight display of clients on or off
func (s *Session) ToggleWeights() {
	s.showWeights = !s.showWeights
}
