// Package render draws Session boards as PNG images and as coloured
// terminal text
package render

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"strconv"

	"github.com/fogleman/gg"

	"github.com/gridq/gridq/environment/gridworld"
	"github.com/gridq/gridq/experiment"
)

// Default drawing sizes, in pixels
const (
	DefaultTileSize = 60
	DefaultPadding  = 30
)

// Board colours
var (
	WallColour   = color.RGBA{70, 70, 70, 255}
	FloorColour  = color.RGBA{255, 255, 255, 255}
	PlayerColour = color.RGBA{0, 255, 0, 255}
	GoalColour   = color.RGBA{255, 0, 0, 255}
	TextColour   = color.RGBA{0, 0, 0, 255}
	Background   = color.RGBA{0, 0, 0, 255}
	TitleColour  = color.RGBA{245, 245, 245, 255}
)

// Options determines how boards are drawn
type Options struct {
	TileSize int
	Padding  int

	// Weights draws text on each cell: the annotations of the board if it
	// has any, otherwise the reward of every cell
	Weights bool
}

// DefaultOptions returns the default drawing options
func DefaultOptions() Options {
	return Options{TileSize: DefaultTileSize, Padding: DefaultPadding}
}

func (o Options) validate() error {
	if o.TileSize < 1 {
		return fmt.Errorf("tile size %d < 1", o.TileSize)
	}
	if o.Padding < 0 {
		return fmt.Errorf("padding %d < 0", o.Padding)
	}
	return nil
}

// PNG draws a single board and encodes it as a PNG image to w
func PNG(w io.Writer, b experiment.Board, o Options) error {
	img, err := Board(b, o)
	if err != nil {
		return fmt.Errorf("png: %w", err)
	}

	dc := gg.NewContextForImage(img)
	return dc.EncodePNG(w)
}

// Board draws a single board without padding
func Board(b experiment.Board, o Options) (image.Image, error) {
	if err := o.validate(); err != nil {
		return nil, fmt.Errorf("board: %w", err)
	}

	size := b.Terrain.Size() * o.TileSize
	dc := gg.NewContext(size, size)
	drawBoard(dc, b, 0, 0, o)
	return dc.Image(), nil
}

// Frame draws the environment and learner boards of a Snapshot side by
// side, titled, above a status line, and encodes the result as a PNG
// image to w
func Frame(w io.Writer, s experiment.Snapshot, o Options) error {
	if err := o.validate(); err != nil {
		return fmt.Errorf("frame: %w", err)
	}
	o.Weights = o.Weights || s.ShowWeights

	boardLength := s.Environment.Terrain.Size() * o.TileSize
	width := 2*boardLength + 3*o.Padding
	height := boardLength + 2*o.Padding + statusHeight

	dc := gg.NewContext(width, height)
	dc.SetColor(Background)
	dc.Clear()

	left, right := float64(o.Padding), float64(2*o.Padding+boardLength)
	top := float64(o.Padding)
	drawBoard(dc, s.Environment, left, top, o)
	drawBoard(dc, s.Learner, right, top, o)

	dc.SetColor(TitleColour)
	half := float64(boardLength) / 2
	dc.DrawStringAnchored("Environment", left+half, top/2, 0.5, 0.5)
	dc.DrawStringAnchored("Learner", right+half, top/2, 0.5, 0.5)

	status := top + float64(boardLength+o.Padding)
	dc.DrawStringAnchored(s.Status(), left, status, 0, 0.5)

	return dc.EncodePNG(w)
}

// statusHeight is the height in pixels of the status line under a frame
const statusHeight = 20

// drawBoard draws b with its top left corner at (x, y)
func drawBoard(dc *gg.Context, b experiment.Board, x, y float64, o Options) {
	tile := float64(o.TileSize)
	for r, row := range b.Terrain {
		for c, t := range row {
			p := gridworld.Position{Row: r, Col: c}
			left, top := x+float64(c)*tile, y+float64(r)*tile

			dc.SetColor(Colour(t))
			if p == b.Player {
				dc.SetColor(PlayerColour)
			}
			dc.DrawRectangle(left, top, tile, tile)
			dc.Fill()

			if !o.Weights {
				continue
			}
			text, ok := Label(b, p)
			if !ok {
				continue
			}
			dc.SetColor(TextColour)
			dc.DrawStringAnchored(text, left+tile/2, top+tile/2, 0.5, 0.5)
		}
	}
}

// Colour returns the fill colour of a tile
func Colour(t gridworld.Tile) color.Color {
	switch t {
	case gridworld.Wall:
		return WallColour
	case gridworld.Goal:
		return GoalColour
	default:
		return FloorColour
	}
}

// Label returns the text drawn on cell p of b when weights are shown.
// Boards with annotations only label annotated cells.
func Label(b experiment.Board, p gridworld.Position) (string, bool) {
	if len(b.Annotations) > 0 {
		return b.Annotation(p)
	}
	if p.Row >= len(b.Weights) || p.Col >= len(b.Weights[p.Row]) {
		return "", false
	}
	return strconv.Itoa(b.Weights[p.Row][p.Col]), true
}
