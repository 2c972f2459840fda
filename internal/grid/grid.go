// Package grid resamples raw raster pairs onto the fixed logical grid the
// mesh stages operate on. Point sampling only — one source pixel per cell,
// no filtering, so a cell's scalars always come from a real pixel.
package grid

import (
	"math"

	"depthmesh/internal/raster"
)

// Cell holds the per-cell scalars sampled from the source rasters.
type Cell struct {
	R, G, B float32 // source color, [0,1]
	Alpha   uint8   // 0–255, drives the visibility test
	Depth   float32 // grayscale depth, [0,1]
	U, V    float32 // normalized source-image coordinate, [0,1]
}

// Grid is the fixed-resolution sampling grid for one side.
type Grid struct {
	W, H  int
	Cells []Cell // row-major, len = W*H
}

// At returns the cell at (x, y).
func (g *Grid) At(x, y int) Cell {
	return g.Cells[y*g.W+x]
}

// Aspect returns the logical width/height ratio.
func (g *Grid) Aspect() float32 {
	return float32(g.W) / float32(g.H)
}

// Build samples a color/depth raster pair onto a grid of logical width
// targetW. Height follows the color raster's aspect ratio. Color and depth
// may differ in pixel dimensions; each is sampled at its own stride.
func Build(color, depth *raster.Buffer, targetW int) *Grid {
	aspect := float64(color.Width) / float64(color.Height)
	h := int(math.Round(float64(targetW) / aspect))
	if h < 2 {
		h = 2
	}
	w := targetW

	g := &Grid{W: w, H: h, Cells: make([]Cell, w*h)}
	for y := 0; y < h; y++ {
		cy := y * color.Height / h
		dy := y * depth.Height / h
		v := float32(1)
		if h > 1 {
			v = 1 - float32(y)/float32(h-1)
		}
		for x := 0; x < w; x++ {
			cx := x * color.Width / w
			dx := x * depth.Width / w
			u := float32(0)
			if w > 1 {
				u = float32(x) / float32(w-1)
			}

			r, gr, b, a := color.RGBA(cx, cy)
			g.Cells[y*w+x] = Cell{
				R:     float32(r) / 255,
				G:     float32(gr) / 255,
				B:     float32(b) / 255,
				Alpha: a,
				Depth: float32(depth.Depth(dx, dy)) / 255,
				U:     u,
				V:     v,
			}
		}
	}
	return g
}
