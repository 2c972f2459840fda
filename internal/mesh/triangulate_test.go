package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTriangulateFullGrid(t *testing.T) {
	tests := []struct {
		w, h int
	}{
		{4, 4},
		{8, 5},
		{2, 2},
	}
	for _, tt := range tests {
		g := opaqueGrid(tt.w, tt.h, 0.5)
		surf := NewSynthesizer(g, SideFront, Params{Mode: ModePlanar, DisplacementScale: 1}).Run()
		idx, st := Triangulate(surf, SideFront, 0)

		want := 2 * (tt.w - 1) * (tt.h - 1)
		assert.Equal(t, want, len(idx)/3, "%dx%d grid", tt.w, tt.h)
		assert.Equal(t, want, st.Emitted)
		assert.Zero(t, st.Rejected)
	}
}

func TestTriangulateIndicesInRange(t *testing.T) {
	g := opaqueGrid(6, 6, 0.3)
	surf := NewSynthesizer(g, SideFront, Params{Mode: ModePlanar, DisplacementScale: 1}).Run()
	idx, _ := Triangulate(surf, SideFront, 0)

	n := uint32(surf.VertexCount())
	for _, i := range idx {
		assert.Less(t, i, n)
	}
}

func TestSilhouetteCarving(t *testing.T) {
	// 20x20 grid with a transparent 10x10 corner block: the block produces
	// no vertices and no triangle may touch it.
	g := makeGrid(20, 20, func(x, y int) (float32, uint8) {
		if x < 10 && y < 10 {
			return 0.5, 0
		}
		return 0.5, 255
	})
	surf := NewSynthesizer(g, SideFront, Params{Mode: ModePlanar, DisplacementScale: 1}).Run()

	require.Equal(t, 400-100, surf.VertexCount())
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			assert.Equal(t, NoVertex, surf.Index.At(x, y))
		}
	}

	idx, _ := Triangulate(surf, SideFront, 0)
	// Every emitted index must belong to a surviving cell; collect the
	// carved block's would-be neighbors to be sure no face bridges the gap.
	valid := make(map[uint32]bool)
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			if i := surf.Index.At(x, y); i != NoVertex {
				valid[uint32(i)] = true
			}
		}
	}
	for _, i := range idx {
		assert.True(t, valid[i])
	}

	// Quads straddling the block boundary are dropped, so the triangle
	// count is lower than a full 19x19 quad grid.
	assert.Less(t, len(idx)/3, 2*19*19)
}

func TestDegeneracyFilter(t *testing.T) {
	// One depth spike: the spiked vertex is far out of plane, so every
	// triangle touching it exceeds the edge budget and is dropped.
	g := makeGrid(8, 8, func(x, y int) (float32, uint8) {
		if x == 4 && y == 4 {
			return 1, 255
		}
		return 0, 255
	})
	p := Params{Mode: ModePlanar, DisplacementScale: 10}
	surf := NewSynthesizer(g, SideFront, p).Run()

	maxEdge := MaxEdge(NominalSpacing(g, p))
	idx, st := Triangulate(surf, SideFront, maxEdge)

	assert.Equal(t, 6, st.Rejected, "all six triangles around the spike are dropped")
	assert.Equal(t, 2*7*7-6, len(idx)/3)

	// With the filter disabled everything is emitted.
	idxAll, stAll := Triangulate(surf, SideFront, 0)
	assert.Equal(t, 2*7*7, len(idxAll)/3)
	assert.Zero(t, stAll.Rejected)
}

func TestWindingFrontFacesViewer(t *testing.T) {
	// A flat relief plane must come out with all normals on +Z, which is
	// only true if the front winding is counter-clockwise toward the viewer.
	g := opaqueGrid(4, 4, 0)
	surf := NewSynthesizer(g, SideFront, Params{Mode: ModePlanar, DisplacementScale: 1}).Run()
	idx, _ := Triangulate(surf, SideFront, 0)

	geo := Assemble(&SideMesh{Surface: surf, Indices: idx}, nil, false)
	for i := 0; i < geo.VertexCount(); i++ {
		assert.InDelta(t, 0, geo.Normals[i*3], 1e-5)
		assert.InDelta(t, 0, geo.Normals[i*3+1], 1e-5)
		assert.InDelta(t, 1, geo.Normals[i*3+2], 1e-5)
	}
}

func TestWindingBackIsReversed(t *testing.T) {
	g := opaqueGrid(4, 4, 0)
	surf := NewSynthesizer(g, SideFront, Params{Mode: ModePlanar, DisplacementScale: 1}).Run()

	front, _ := Triangulate(surf, SideFront, 0)
	back, _ := Triangulate(surf, SideBack, 0)
	require.Equal(t, len(front), len(back))

	// Same vertex sets per triangle, opposite orientation.
	geo := Assemble(&SideMesh{Surface: surf, Indices: back}, nil, false)
	for i := 0; i < geo.VertexCount(); i++ {
		assert.InDelta(t, -1, geo.Normals[i*3+2], 1e-5)
	}
}
