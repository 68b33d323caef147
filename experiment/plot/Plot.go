// Package plot renders tracked experiment data as HTML line charts
package plot

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// Series is a named sequence of per-episode values
type Series struct {
	Name   string
	Values []float64
}

// Lines renders one line chart of all series, indexed by episode, as an
// HTML page to w. Series may differ in length; the x axis covers the
// longest.
func Lines(w io.Writer, title string, series ...Series) error {
	if len(series) == 0 {
		return fmt.Errorf("lines: no series to plot")
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: title,
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: "shine",
		}),
	)

	line = line.SetXAxis(Episodes(series...))
	for _, s := range series {
		items := make([]opts.LineData, 0, len(s.Values))
		for _, v := range s.Values {
			items = append(items, opts.LineData{Value: v})
		}
		line.AddSeries(s.Name, items)
	}

	page := components.NewPage()
	page.AddCharts(line)
	if err := page.Render(w); err != nil {
		return fmt.Errorf("lines: %w", err)
	}
	return nil
}

// Episodes returns the x axis labels "1", "2", ... of the longest series
func Episodes(series ...Series) []string {
	n := 0
	for _, s := range series {
		if len(s.Values) > n {
			n = len(s.Values)
		}
	}

	episodes := make([]string, n)
	for i := range episodes {
		episodes[i] = fmt.Sprintf("%d", i+1)
	}
	return episodes
}
