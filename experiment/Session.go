package experiment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	"github.com/gridq/gridq/agent"
	"github.com/gridq/gridq/agent/qlearning"
	"github.com/gridq/gridq/config"
	"github.com/gridq/gridq/environment/gridworld"
	"github.com/gridq/gridq/experiment/checkpointer"
	"github.com/gridq/gridq/experiment/trackers"
	ts "github.com/gridq/gridq/timestep"
)

// Tick intervals of a Session at normal and double speed
const (
	NormalInterval = 100 * time.Millisecond
	FastInterval   = 50 * time.Millisecond
)

var _ Experiment = (*Session)(nil)

// Session is an Experiment that trains a QLearner online on a gridworld
// and lets it replay its greedy policy.
//
// A Session keeps two boards: the environment board, which produces
// rewards, and the learner board, which mirrors every move and carries
// the Q-value annotations of the cells the agent entered. Both boards
// hold independent copies of the same terrain.
//
// A Session is not safe for concurrent use. While Run is active, the
// Session belongs to Run's goroutine and must only be driven through
// the commands channel.
type Session struct {
	cfg     config.Config
	logger  *log.Logger
	src     rand.Source
	env     *gridworld.GridWorld
	board   *gridworld.GridWorld
	learner agent.Agent

	trackers      []trackers.Tracker
	checkpointers []checkpointer.Checkpointer

	annotations map[gridworld.Position]string
	action      gridworld.Action
	oldTable    *mat.Dense

	episode     int
	step        int
	completed   int // Episodes finished since construction
	totalSteps  int // Environment steps taken while training
	convergence float64

	training      bool
	running       bool
	fast          bool
	showWeights   bool
	terrainMade   bool
	terrainLocked bool
	firstTrain    bool
	firstRun      bool
	trained       bool
}

// SessionOption configures a Session at construction
type SessionOption func(*Session)

// WithLogger sets the logger of the Session
func WithLogger(l *log.Logger) SessionOption {
	return func(s *Session) {
		s.logger = l
	}
}

// WithTrackers registers trackers with the Session
func WithTrackers(t ...trackers.Tracker) SessionOption {
	return func(s *Session) {
		s.trackers = append(s.trackers, t...)
	}
}

// WithCheckpointers registers checkpointers with the Session
func WithCheckpointers(c ...checkpointer.Checkpointer) SessionOption {
	return func(s *Session) {
		s.checkpointers = append(s.checkpointers, c...)
	}
}

// WithAgent replaces the default QLearner. The agent's table must have
// one row per board cell and one column per gridworld.Action.
func WithAgent(a agent.Agent) SessionOption {
	return func(s *Session) {
		s.learner = a
	}
}

// WithSource sets the source of randomness used to generate terrain
func WithSource(src rand.Source) SessionOption {
	return func(s *Session) {
		s.src = src
	}
}

// NewSession creates a new Session from a configuration. Both boards
// start with the default layout and no terrain is generated.
func NewSession(cfg config.Config, opts ...SessionOption) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("newSession: %w", err)
	}

	s := &Session{
		cfg:         cfg,
		logger:      log.New(io.Discard, "", 0),
		annotations: make(map[gridworld.Position]string),
		firstTrain:  true,
		firstRun:    true,
		episode:     1,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.src == nil {
		s.src = rand.NewSource(cfg.Seed + 1)
	}

	var err error
	gridOpts := []gridworld.Option{
		gridworld.WithStart(cfg.Start),
		gridworld.WithGoal(cfg.Goal),
	}
	if s.env, err = gridworld.New(cfg.Size, gridOpts...); err != nil {
		return nil, fmt.Errorf("newSession: %w", err)
	}
	if s.board, err = gridworld.New(cfg.Size, gridOpts...); err != nil {
		return nil, fmt.Errorf("newSession: %w", err)
	}

	if s.learner == nil {
		s.learner, err = qlearning.New(s.env.NumStates(),
			gridworld.NumActions, cfg.Agent, cfg.Seed)
		if err != nil {
			return nil, fmt.Errorf("newSession: %w", err)
		}
	}
	s.oldTable = s.learner.Table()
	if r, c := s.oldTable.Dims(); r != s.env.NumStates() ||
		c != gridworld.NumActions {
		return nil, fmt.Errorf("newSession: agent table is (%d, %d), "+
			"want (%d, %d)", r, c, s.env.NumStates(), gridworld.NumActions)
	}

	return s, nil
}

// Register registers a Tracker with the Session so that data generated
// while training can be tracked and saved
func (s *Session) Register(t trackers.Tracker) {
	s.trackers = append(s.trackers, t)
}

// RegisterCheckpointer registers a Checkpointer with the Session
func (s *Session) RegisterCheckpointer(c checkpointer.Checkpointer) {
	s.checkpointers = append(s.checkpointers, c)
}

// Tick advances the Session by one driver step. While training, the
// agent takes one step on both boards and the learner is updated. While
// running, the agent takes one greedy step. Otherwise Tick does nothing.
// Training takes precedence when both are enabled.
func (s *Session) Tick() error {
	switch {
	case s.training:
		if err := s.trainTick(); err != nil {
			return fmt.Errorf("tick: %w", err)
		}
	case s.running:
		if err := s.runTick(); err != nil {
			return fmt.Errorf("tick: %w", err)
		}
	}
	return nil
}

// trainTick takes one training step. The first training tick, and the
// first one after the greedy policy has been replayed, only restarts
// the agent and selects its initial action.
func (s *Session) trainTick() error {
	if s.firstTrain {
		step := s.env.Reset()
		s.board.ResetPlayer()

		action, err := s.learner.TestStep(step.State)
		if err != nil {
			return err
		}
		s.action = gridworld.Action(action)
		s.firstTrain = false
		if !s.trained {
			s.episode = 1
			s.trained = true
		}
		s.step = 1
		return s.track(step)
	}

	state := s.env.State()
	step, _, err := s.env.Step(s.action)
	if err != nil {
		return err
	}
	if _, err := s.board.MovePlayer(s.action); err != nil {
		return err
	}
	s.totalSteps++

	if err := s.annotate(state, s.action); err != nil {
		return err
	}

	next, err := s.learner.TrainStep(step.State, step.Reward)
	if err != nil {
		return err
	}
	s.action = gridworld.Action(next)
	s.step++

	if step.Last() {
		if s.convergence, err = s.learner.Convergence(s.oldTable); err != nil {
			return err
		}
		s.oldTable = s.learner.Table()
		s.logger.Printf("episode %d finished after %d steps, convergence "+
			"%.4g, exploration rate %.4g", s.episode, step.Number,
			s.convergence, s.learner.ExplorationRate())
		s.episode++
		s.completed++
		s.step = 0
	}
	return s.track(step)
}

// runTick takes one greedy step on both boards without learning
func (s *Session) runTick() error {
	if s.firstRun {
		s.env.Reset()
		s.board.ResetPlayer()
		s.firstRun = false
	}

	state := s.env.State()
	action, err := s.learner.TestStep(state)
	if err != nil {
		return err
	}
	a := gridworld.Action(action)
	if _, _, err := s.env.Step(a); err != nil {
		return err
	}
	if _, err := s.board.MovePlayer(a); err != nil {
		return err
	}

	// The learner's pending pair no longer matches the training
	// trajectory, so training restarts from the start cell
	s.firstTrain = true
	return s.annotate(state, a)
}

// annotate records the value of taking a in state on the learner
// board's current cell
func (s *Session) annotate(state int, a gridworld.Action) error {
	value, err := s.learner.Value(state, int(a))
	if err != nil {
		return err
	}
	s.annotations[s.board.Player()] = annotate(value, a)
	return nil
}

// track sends a TimeStep to every Tracker and Checkpointer
func (s *Session) track(step ts.TimeStep) error {
	for _, t := range s.trackers {
		t.Track(step)
	}
	for _, c := range s.checkpointers {
		if err := c.Checkpoint(step); err != nil {
			return fmt.Errorf("track: %w", err)
		}
	}
	return nil
}

// Interval returns the time between two ticks at the current speed
func (s *Session) Interval() time.Duration {
	if s.fast {
		return FastInterval
	}
	return NormalInterval
}

// RunEpisode enables training and ticks until an episode finishes. It
// returns whether the step budget of the Session is exhausted.
func (s *Session) RunEpisode(ctx context.Context) (bool, error) {
	if !s.training {
		if err := s.ToggleTraining(); err != nil {
			return false, fmt.Errorf("runEpisode: %w", err)
		}
	}

	target := s.completed + 1
	for s.completed < target {
		if s.totalSteps >= s.cfg.MaxSteps {
			return true, nil
		}
		if err := ctx.Err(); err != nil {
			return false, fmt.Errorf("runEpisode: %w", err)
		}
		if err := s.Tick(); err != nil {
			return false, fmt.Errorf("runEpisode: %w", err)
		}
	}
	return s.totalSteps >= s.cfg.MaxSteps, nil
}

// TrainEpisodes trains without pacing until n more episodes have
// finished. An error wrapping ErrStepBudget is returned if the step
// budget runs out first.
func (s *Session) TrainEpisodes(ctx context.Context, n int) error {
	for i := 0; i < n; i++ {
		before := s.completed
		exhausted, err := s.RunEpisode(ctx)
		if err != nil {
			return fmt.Errorf("trainEpisodes: %w", err)
		}
		if exhausted && s.completed == before {
			return fmt.Errorf("trainEpisodes: %w: %d episodes in %d steps",
				ErrStepBudget, i, s.totalSteps)
		}
	}
	return nil
}

// Save saves all the data cached by the Trackers to disk
func (s *Session) Save() error {
	var errs []error
	for _, t := range s.trackers {
		if err := t.Save(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Learner returns the Session's Agent
func (s *Session) Learner() agent.Agent {
	return s.learner
}

// Convergence returns the mean squared difference between the Q-table
// snapshots taken at the end of the last two finished episodes
func (s *Session) Convergence() float64 {
	return s.convergence
}

// Completed returns the number of episodes finished while training
func (s *Session) Completed() int {
	return s.completed
}

// Snapshot returns a copy of everything a client needs to draw the
// Session
func (s *Session) Snapshot() Snapshot {
	annotations := make(map[gridworld.Position]string, len(s.annotations))
	for p, a := range s.annotations {
		annotations[p] = a
	}

	return Snapshot{
		Environment: Board{
			Terrain: s.env.Grid(),
			Weights: s.env.Weights(),
			Player:  s.env.Player(),
		},
		Learner: Board{
			Terrain:     s.board.Grid(),
			Weights:     s.board.Weights(),
			Player:      s.board.Player(),
			Annotations: annotations,
		},
		Episode:         s.episode,
		Step:            s.step,
		ExplorationRate: s.learner.ExplorationRate(),
		Convergence:     s.convergence,
		Training:        s.training,
		Running:         s.running,
		DoubleSpeed:     s.fast,
		ShowWeights:     s.showWeights,
		TerrainMade:     s.terrainMade,
		TerrainLocked:   s.terrainLocked,
	}
}
