package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gridq/gridq/render"
)

func newRenderCommand(o *options) *cobra.Command {
	ro := render.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Train, then save a PNG frame of both boards",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := o.load(cmd)
			if err != nil {
				return err
			}
			r, err := newRun(c)
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

			filename := r.file("frame.png")
			if err := saveFrame(filename, s.Snapshot(), ro); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %s\n", filename)
			return nil
		},
	}
	cmd.Flags().IntVar(&ro.TileSize, "tile", render.DefaultTileSize, "tile size in pixels")
	cmd.Flags().BoolVar(&ro.Weights, "weights", true, "draw annotations")
	return cmd
}
