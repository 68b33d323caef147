package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gridq/gridq/experiment/plot"
	"github.com/gridq/gridq/experiment/trackers"
)

func newPlotCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "plot <run-id>",
		Short: "Chart the data saved by a train run as HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := o.load(cmd)
			if err != nil {
				return err
			}
			r := run{id: args[0], dir: c.OutDir}

			charts := []struct {
				title, name, file string
			}{
				{"Episodic return", "return", returnFile},
				{"Episode length", "steps", lengthFile},
				{"Q-table convergence (MSE)", "convergence", convergenceFile},
			}
			for _, chart := range charts {
				data, err := trackers.LoadData(r.file(chart.file))
				if err != nil {
					return err
				}
				name := r.file(chart.name + ".html")
				if err := writeChart(name, chart.title, plot.Series{
					Name: chart.name, Values: data,
				}); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "saved %s\n",
					filepath.Clean(name))
			}
			return nil
		},
	}
}

func writeChart(filename, title string, s plot.Series) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("writeChart: %w", err)
	}
	if err := plot.Lines(f, title, s); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
