package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"depthmesh/internal/raster"
)

func solidBuffer(w, h int, r, g, b, a uint8) *raster.Buffer {
	buf := &raster.Buffer{Width: w, Height: h, Pix: make([]uint8, w*h*4)}
	for i := 0; i < w*h; i++ {
		buf.Pix[i*4] = r
		buf.Pix[i*4+1] = g
		buf.Pix[i*4+2] = b
		buf.Pix[i*4+3] = a
	}
	return buf
}

func TestBuildDimensions(t *testing.T) {
	tests := []struct {
		name         string
		srcW, srcH   int
		targetW      int
		wantW, wantH int
	}{
		{"square", 100, 100, 10, 10, 10},
		{"wide 2:1", 100, 50, 10, 10, 5},
		{"tall 1:2", 50, 100, 10, 10, 20},
		{"rounding", 100, 30, 10, 10, 3},
		{"min height clamp", 100, 1, 10, 10, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			color := solidBuffer(tt.srcW, tt.srcH, 255, 255, 255, 255)
			depth := solidBuffer(tt.srcW, tt.srcH, 128, 128, 128, 255)
			g := Build(color, depth, tt.targetW)
			assert.Equal(t, tt.wantW, g.W)
			assert.Equal(t, tt.wantH, g.H)
			assert.Len(t, g.Cells, tt.wantW*tt.wantH)
		})
	}
}

func TestBuildNearestSampling(t *testing.T) {
	// 4x4 source where each pixel's R encodes its own coordinates; a 4-wide
	// grid must pick up every pixel exactly, with no blending.
	color := solidBuffer(4, 4, 0, 0, 0, 255)
	depth := solidBuffer(4, 4, 0, 0, 0, 255)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			color.Pix[(y*4+x)*4] = uint8(y*4 + x)
			depth.Pix[(y*4+x)*4] = uint8((y*4 + x) * 17)
		}
	}

	g := Build(color, depth, 4)
	require.Equal(t, 4, g.W)
	require.Equal(t, 4, g.H)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			c := g.At(x, y)
			assert.InDelta(t, float32(y*4+x)/255, c.R, 1e-6, "cell (%d,%d) color", x, y)
			assert.InDelta(t, float32((y*4+x)*17)/255, c.Depth, 1e-6, "cell (%d,%d) depth", x, y)
		}
	}
}

func TestBuildDownsampleStride(t *testing.T) {
	// 8x8 source sampled onto a 4-wide grid: cell (x,y) reads pixel (2x,2y).
	color := solidBuffer(8, 8, 0, 0, 0, 255)
	depth := solidBuffer(8, 8, 0, 0, 0, 255)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			depth.Pix[(y*8+x)*4] = uint8(y*8 + x)
		}
	}
	g := Build(color, depth, 4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			want := float32(2*y*8+2*x) / 255
			assert.InDelta(t, want, g.At(x, y).Depth, 1e-6, "cell (%d,%d)", x, y)
		}
	}
}

func TestBuildUVRange(t *testing.T) {
	color := solidBuffer(16, 16, 255, 255, 255, 255)
	depth := solidBuffer(16, 16, 0, 0, 0, 255)
	g := Build(color, depth, 8)

	for _, c := range g.Cells {
		assert.GreaterOrEqual(t, c.U, float32(0))
		assert.LessOrEqual(t, c.U, float32(1))
		assert.GreaterOrEqual(t, c.V, float32(0))
		assert.LessOrEqual(t, c.V, float32(1))
	}

	// Corners: top-left cell is (u=0, v=1), bottom-right is (u=1, v=0).
	assert.Equal(t, float32(0), g.At(0, 0).U)
	assert.Equal(t, float32(1), g.At(0, 0).V)
	assert.Equal(t, float32(1), g.At(g.W-1, g.H-1).U)
	assert.Equal(t, float32(0), g.At(g.W-1, g.H-1).V)
}

func TestBuildMismatchedRasterSizes(t *testing.T) {
	// Color and depth differ in resolution; each is sampled at its own
	// stride and the grid shape follows the color raster.
	color := solidBuffer(40, 20, 200, 100, 50, 255)
	depth := solidBuffer(10, 5, 128, 0, 0, 255)
	g := Build(color, depth, 10)
	require.Equal(t, 10, g.W)
	require.Equal(t, 5, g.H)
	for _, c := range g.Cells {
		assert.InDelta(t, float32(128)/255, c.Depth, 1e-6)
		assert.InDelta(t, float32(200)/255, c.R, 1e-6)
	}
}

func TestBuildIsPure(t *testing.T) {
	color := solidBuffer(8, 8, 10, 20, 30, 255)
	depth := solidBuffer(8, 8, 99, 0, 0, 255)
	before := append([]uint8(nil), color.Pix...)
	beforeDepth := append([]uint8(nil), depth.Pix...)

	g1 := Build(color, depth, 4)
	g2 := Build(color, depth, 4)

	assert.Equal(t, before, color.Pix, "source buffers must not be mutated")
	assert.Equal(t, beforeDepth, depth.Pix)
	assert.Equal(t, g1.Cells, g2.Cells, "identical inputs must yield identical grids")
}
