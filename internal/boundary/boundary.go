// Package boundary samples a two-input network over the unit square and
// renders the resulting decision surface.
package boundary

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/FlavioCFOliveira/shallownet/internal/net"
)

// Grid holds output unit 0 sampled at (x/Resolution, y/Resolution) for
// x, y in [0, Resolution). Values[y][x] follows image row order.
type Grid struct {
	Resolution int
	Values     [][]float64
}

// Sample predicts every grid point of a two-input network.
func Sample(n *net.Network, resolution int) (Grid, error) {
	if resolution <= 0 {
		return Grid{}, fmt.Errorf("boundary: resolution must be > 0 (got %d)", resolution)
	}
	if n.InputSize() != 2 {
		return Grid{}, fmt.Errorf("boundary: %w: network has %d inputs, want 2", net.ErrShapeMismatch, n.InputSize())
	}

	g := Grid{Resolution: resolution, Values: make([][]float64, resolution)}
	in := make([]float64, 2)
	for y := 0; y < resolution; y++ {
		row := make([]float64, resolution)
		for x := 0; x < resolution; x++ {
			in[0] = float64(x) / float64(resolution)
			in[1] = float64(y) / float64(resolution)
			out, err := n.Predict(in)
			if err != nil {
				return Grid{}, err
			}
			row[x] = out[0]
		}
		g.Values[y] = row
	}
	return g, nil
}

// Classify counts grid points below and at-or-above threshold.
func (g Grid) Classify(threshold float64) (below, above int) {
	for _, row := range g.Values {
		for _, v := range row {
			if v < threshold {
				below++
			} else {
				above++
			}
		}
	}
	return below, above
}

// Color maps an output to red (below 0.5) or blue, with alpha growing with
// distance from 0.5 and never under 30.
func Color(v float64) color.NRGBA {
	alpha := uint8(math.Max(30, 200*math.Abs(2*v-1)))
	if v < 0.5 {
		return color.NRGBA{R: 255, A: alpha}
	}
	return color.NRGBA{B: 255, A: alpha}
}

// Image renders g with one pixel per grid point.
func (g Grid) Image() (*image.NRGBA, error) {
	if g.Resolution <= 0 || len(g.Values) != g.Resolution {
		return nil, errors.New("boundary: empty or malformed grid")
	}
	img := image.NewNRGBA(image.Rect(0, 0, g.Resolution, g.Resolution))
	for y, row := range g.Values {
		if len(row) != g.Resolution {
			return nil, fmt.Errorf("boundary: row %d has %d points, want %d", y, len(row), g.Resolution)
		}
		for x, v := range row {
			img.SetNRGBA(x, y, Color(v))
		}
	}
	return img, nil
}

// WritePNG encodes g as a PNG image to w.
func WritePNG(w io.Writer, g Grid) error {
	img, err := g.Image()
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("boundary: encode png: %w", err)
	}
	return nil
}
