package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gridq/gridq/config"
	"github.com/gridq/gridq/experiment"
	"github.com/gridq/gridq/experiment/checkpointer"
	"github.com/gridq/gridq/experiment/trackers"
	"github.com/gridq/gridq/render"
	"github.com/gridq/gridq/utils/progressbar"
)

// Tracked series saved by train and read back by plot
const (
	returnFile      = "return.bin"
	lengthFile      = "length.bin"
	convergenceFile = "convergence.bin"
)

func newTrainCommand(o *options) *cobra.Command {
	var frameEvery int
	var weights bool

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train headless and save per-episode data",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := o.load(cmd)
			if err != nil {
				return err
			}
			return train(cmd, o, c, frameEvery, weights)
		},
	}
	cmd.Flags().IntVar(&frameEvery, "frames", 0, "save a PNG frame every n episodes (0 disables)")
	cmd.Flags().BoolVar(&weights, "weights", true, "draw annotations on saved frames")
	return cmd
}

func train(cmd *cobra.Command, o *options, c config.Config, frameEvery int,
	weights bool) error {
	r, err := newRun(c)
	if err != nil {
		return err
	}

	returns := trackers.NewReturn(r.file(returnFile))
	lengths := trackers.NewEpisodeLength(r.file(lengthFile))
	s, err := newSession(c, o.logger(cmd),
		experiment.WithTrackers(returns, lengths))
	if err != nil {
		return err
	}
	s.Register(trackers.NewConvergence(r.file(convergenceFile),
		s.Convergence))

	if frameEvery > 0 {
		ro := render.DefaultOptions()
		ro.Weights = weights
		frame := checkpointer.SaverFunc(func(filename string) error {
			return saveFrame(filename, s.Snapshot(), ro)
		})
		cp, err := checkpointer.NewNEpisode(frameEvery, frame,
			checkpointer.FilenameEnumerator(0, r.file("frame"), ".png"))
		if err != nil {
			return err
		}
		s.RegisterCheckpointer(cp)
	}

	bar := progressbar.NewManualProgressBar(cmd.OutOrStdout(), 40, c.Episodes)
	for i := 0; i < c.Episodes; i++ {
		if err := s.TrainEpisodes(cmd.Context(), 1); err != nil {
			bar.Close()
			return err
		}
		bar.Increment()
		bar.SetSuffix(s.Snapshot().Status())
		if err := bar.Display(); err != nil {
			return err
		}
	}
	if err := bar.Close(); err != nil {
		return err
	}

	if err := s.Save(); err != nil {
		return err
	}

	snap := s.Snapshot()
	out := cmd.OutOrStdout()
	if err := render.Terminal(out, snap.Learner, true, true); err != nil {
		return err
	}
	fmt.Fprintf(out, "%s\nrun %s saved to %s\n", snap.Status(), r.id, r.dir)
	return nil
}

// saveFrame renders s to a PNG file
func saveFrame(filename string, s experiment.Snapshot, o render.Options) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("saveFrame: %w", err)
	}
	if err := render.Frame(f, s, o); err != nil {
		f.Close()
		return fmt.Errorf("saveFrame: %w", err)
	}
	return f.Close()
}
