package render

import (
	"fmt"
	"io"

	"github.com/logrusorgru/aurora"

	"github.com/gridq/gridq/environment/gridworld"
	"github.com/gridq/gridq/experiment"
)

// cellWidth is the width of a single cell printed with weights
const cellWidth = 8

// Terminal prints a board to w, one row per line. Without weights each
// cell is a single character: '#' for walls, '.' for floor, 'G' for the
// goal and '@' for the agent. With weights, each cell shows its Label
// instead. Colours are only emitted if colours is true.
func Terminal(w io.Writer, b experiment.Board, weights, colours bool) error {
	au := aurora.NewAurora(colours)

	for r, row := range b.Terrain {
		for c, t := range row {
			p := gridworld.Position{Row: r, Col: c}

			var text string
			switch {
			case weights:
				label, _ := Label(b, p)
				text = fmt.Sprintf("%*s|", cellWidth, label)
			case p == b.Player:
				text = "@"
			default:
				text = symbol(t)
			}

			var v aurora.Value
			switch {
			case p == b.Player:
				v = au.Green(text)
			case t == gridworld.Wall:
				v = au.Blue(text)
			case t == gridworld.Goal:
				v = au.Red(text)
			default:
				v = au.White(text)
			}
			if _, err := fmt.Fprint(w, v); err != nil {
				return fmt.Errorf("terminal: %w", err)
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return fmt.Errorf("terminal: %w", err)
		}
	}
	return nil
}

func symbol(t gridworld.Tile) string {
	switch t {
	case gridworld.Wall:
		return "#"
	case gridworld.Goal:
		return "G"
	default:
		return "."
	}
}
