package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gridq/gridq/experiment"
	"github.com/gridq/gridq/render"
)

func newRunCommand(o *options) *cobra.Command {
	var steps int
	var fast bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Train, then replay the greedy policy in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := o.load(cmd)
			if err != nil {
				return err
			}
			s, err := newSession(c, o.logger(cmd))
			if err != nil {
				return err
			}
			if err := s.TrainEpisodes(cmd.Context(), c.Episodes); err != nil {
				return err
			}

			commands := []experiment.Command{experiment.ToggleTraining,
				experiment.ToggleRun}
			if fast {
				commands = append(commands, experiment.ToggleSpeed)
			}
			return replay(cmd, s, commands, steps)
		},
	}
	cmd.Flags().IntVar(&steps, "steps", 50, "greedy steps to replay")
	cmd.Flags().BoolVar(&fast, "fast", false, "replay at double speed")
	return cmd
}

// replay drives s with Run, applying commands first and printing the
// learner board after every greedy step until steps have been shown
func replay(cmd *cobra.Command, s *experiment.Session,
	commands []experiment.Command, steps int) error {
	// Cancelling stops Run once we stop reading
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	in := make(chan experiment.Command, len(commands))
	for _, c := range commands {
		in <- c
	}
	close(in)

	out := cmd.OutOrStdout()
	shown := 0
	for snap := range s.Run(ctx, in) {
		if !snap.Running || snap.Training {
			continue
		}
		fmt.Fprint(out, "\033[H\033[2J")
		if err := render.Terminal(out, snap.Learner, false, true); err != nil {
			return err
		}
		fmt.Fprintln(out, snap.Status())

		shown++
		if shown >= steps {
			return nil
		}
	}
	return nil
}
