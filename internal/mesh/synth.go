package mesh

import (
	"github.com/chewxy/math32"

	"depthmesh/internal/grid"
	"depthmesh/internal/mathutil"
)

// Surface is the vertex stream synthesized from one side's sampling grid.
// Positions, UVs and Colors are flat arrays aligned by vertex index; Index
// maps grid cells back to those indices for triangulation.
type Surface struct {
	Positions []float32 // xyz per vertex
	UVs       []float32 // uv per vertex
	Colors    []float32 // rgb per vertex, [0,1]
	Index     *IndexGrid
}

// VertexCount returns the number of synthesized vertices.
func (s *Surface) VertexCount() int { return len(s.Positions) / 3 }

type mapFunc func(u, v, disp float32) mathutil.Vec3

// Synthesizer walks a sampling grid row by row and emits a vertex for every
// cell that passes the visibility test. Step-based so the progressive
// pipeline can process a bounded number of rows between yields.
type Synthesizer struct {
	grid      *grid.Grid
	params    Params
	mapPos    mapFunc
	threshold uint8
	taper     bool
	surf      *Surface
	row       int
}

// NewSynthesizer prepares vertex synthesis for one side of the subject.
func NewSynthesizer(g *grid.Grid, side Side, p Params) *Synthesizer {
	return &Synthesizer{
		grid:      g,
		params:    p,
		mapPos:    mapperFor(g, side, p),
		threshold: p.AlphaThreshold(),
		taper:     p.edgeTaper(),
		surf: &Surface{
			Index: NewIndexGrid(g.W, g.H),
		},
	}
}

// mapperFor binds the mode's position mapping to the grid's aspect ratio
// and the side's angular offset.
func mapperFor(g *grid.Grid, side Side, p Params) mapFunc {
	scale := p.DisplacementScale
	switch p.Mode {
	case ModeCylindrical:
		offset := float32(0)
		if side == SideBack {
			offset = math32.Pi
		}
		return func(u, v, disp float32) mathutil.Vec3 {
			theta := (u-0.5)*arcAngle + offset
			r := baseRadius + disp*scale*radiusGain
			sin, cos := math32.Sincos(theta)
			return mathutil.Vec3{r * sin, (v - 0.5) * heightScale, r * cos}
		}
	default:
		invAspect := 1 / g.Aspect()
		return func(u, v, disp float32) mathutil.Vec3 {
			return mathutil.Vec3{
				(u - 0.5) * planeWidth,
				(v - 0.5) * planeWidth * invAspect,
				disp * scale,
			}
		}
	}
}

// taperFactor attenuates displacement near the UV boundary, scaled by the
// cell's normalized alpha, so the shell bends back onto the base surface
// at the silhouette instead of leaving an open rim.
func taperFactor(c grid.Cell) float32 {
	d := c.U
	if 1-c.U < d {
		d = 1 - c.U
	}
	if c.V < d {
		d = c.V
	}
	if 1-c.V < d {
		d = 1 - c.V
	}
	return mathutil.Clamp01(d/taperBand) * float32(c.Alpha) / 255
}

// Step synthesizes up to rows further grid rows. Returns true once the
// whole grid has been processed.
func (s *Synthesizer) Step(rows int) bool {
	g := s.grid
	end := s.row + rows
	if end > g.H {
		end = g.H
	}
	for y := s.row; y < end; y++ {
		for x := 0; x < g.W; x++ {
			c := g.At(x, y)
			if c.Alpha < s.threshold {
				continue // silhouette carving: cell stays NoVertex
			}
			disp := c.Depth
			if s.taper {
				disp *= taperFactor(c)
			}
			pos := s.mapPos(c.U, c.V, disp)

			idx := int32(s.surf.VertexCount())
			s.surf.Positions = append(s.surf.Positions, pos[0], pos[1], pos[2])
			s.surf.UVs = append(s.surf.UVs, c.U, c.V)
			s.surf.Colors = append(s.surf.Colors, c.R, c.G, c.B)
			s.surf.Index.Set(x, y, idx)
		}
	}
	s.row = end
	return s.row >= g.H
}

// Rows returns processed and total row counts.
func (s *Synthesizer) Rows() (done, total int) {
	return s.row, s.grid.H
}

// Surface returns the vertex stream built so far. Only complete once Step
// has returned true.
func (s *Synthesizer) Surface() *Surface { return s.surf }

// Run synthesizes the entire grid in one pass.
func (s *Synthesizer) Run() *Surface {
	s.Step(s.grid.H - s.row)
	return s.surf
}

// NominalSpacing is the expected world-space distance between adjacent
// vertices on the undisplaced base surface. The triangulator's degeneracy
// filter is expressed as a multiple of it.
func NominalSpacing(g *grid.Grid, p Params) float32 {
	switch p.Mode {
	case ModeCylindrical:
		arc := baseRadius * arcAngle / float32(g.W)
		vert := heightScale / float32(g.H)
		if vert > arc {
			return vert
		}
		return arc
	default:
		horiz := planeWidth / float32(g.W)
		vert := planeWidth / g.Aspect() / float32(g.H)
		if vert > horiz {
			return vert
		}
		return horiz
	}
}
