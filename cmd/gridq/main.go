// Command gridq trains a tabular Q-learning agent on a walled gridworld
// and renders what it learned.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/gridq/gridq/config"
	"github.com/gridq/gridq/experiment"
)

// options holds the flags shared by every subcommand
type options struct {
	envFile    string
	configFile string
	seed       uint64
	size       int
	density    float64
	episodes   int
	maxSteps   int
	outDir     string
	verbose    bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	o := &options{}
	cmd := &cobra.Command{
		Use:           "gridq",
		Short:         "Tabular Q-learning on a walled gridworld",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&o.envFile, "env", ".env", "dotenv file with GRIDQ_* settings")
	flags.StringVar(&o.configFile, "config", "", "JSON configuration file, replaces --env")
	flags.Uint64Var(&o.seed, "seed", 0, "seed for terrain and exploration")
	flags.IntVar(&o.size, "size", 0, "rows and columns of the board")
	flags.Float64Var(&o.density, "density", 0, "probability of a floor cell becoming a wall")
	flags.IntVar(&o.episodes, "episodes", 0, "episodes to train for")
	flags.IntVar(&o.maxSteps, "max-steps", 0, "step budget for training")
	flags.StringVar(&o.outDir, "out", "", "directory for saved data, frames and charts")
	flags.BoolVarP(&o.verbose, "verbose", "v", false, "log training progress")

	cmd.AddCommand(
		newTrainCommand(o),
		newRunCommand(o),
		newRenderCommand(o),
		newPlotCommand(o),
	)
	return cmd
}

// load builds the configuration: the JSON file if given, otherwise the
// dotenv file and environment, then any flags set on the command line
func (o *options) load(cmd *cobra.Command) (config.Config, error) {
	var c config.Config
	var err error
	if o.configFile != "" {
		c, err = config.LoadJSON(o.configFile)
	} else {
		c, err = config.Load(o.envFile)
	}
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		c.Seed = o.seed
	}
	if flags.Changed("size") {
		c.Size = o.size
		c.Goal = config.GoalFor(o.size)
	}
	if flags.Changed("density") {
		c.Density = o.density
	}
	if flags.Changed("episodes") {
		c.Episodes = o.episodes
	}
	if flags.Changed("max-steps") {
		c.MaxSteps = o.maxSteps
	}
	if flags.Changed("out") {
		c.OutDir = o.outDir
	}

	if err := c.Validate(); err != nil {
		return config.Config{}, err
	}
	return c, nil
}

// logger returns the logger handed to sessions
func (o *options) logger(cmd *cobra.Command) *log.Logger {
	if !o.verbose {
		return log.New(io.Discard, "", 0)
	}
	return log.New(cmd.ErrOrStderr(), "gridq: ", log.LstdFlags)
}

// run identifies the artifacts of a single command invocation
type run struct {
	id  string
	dir string
}

func newRun(c config.Config) (run, error) {
	if err := os.MkdirAll(c.OutDir, 0o755); err != nil {
		return run{}, fmt.Errorf("newRun: %w", err)
	}
	return run{id: uuid.NewString(), dir: c.OutDir}, nil
}

// file returns the path of an artifact of the run
func (r run) file(name string) string {
	return filepath.Join(r.dir, r.id+"-"+name)
}

// newSession creates a Session with freshly generated terrain
func newSession(c config.Config, l *log.Logger,
	opts ...experiment.SessionOption) (*experiment.Session, error) {
	opts = append(opts, experiment.WithLogger(l))
	s, err := experiment.NewSession(c, opts...)
	if err != nil {
		return nil, err
	}
	if err := s.RegenerateTerrain(); err != nil {
		return nil, err
	}
	return s, nil
}
