// Package pipeline runs the full depth-to-geometry reconstruction:
// sampling grid → vertex synthesis → triangulation → assembly, per side,
// with the ordering guarantees each stage depends on. The front and back
// sides are independent and run concurrently; assembly waits for both.
package pipeline

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"depthmesh/internal/grid"
	"depthmesh/internal/mesh"
	"depthmesh/internal/raster"
)

// DefaultGridWidth balances silhouette fidelity against triangle count.
const DefaultGridWidth = 300

// Rows synthesized between cancellation checks / progress reports.
const rowsPerBatch = 16

// Fraction of rejected candidate faces above which the result is flagged
// as degenerate.
const degenerateRatio = 0.25

var (
	ErrMissingFront    = errors.New("pipeline: front color and depth rasters are required")
	ErrIncompleteBack  = errors.New("pipeline: back view needs both color and depth rasters")
	ErrInvalidGridSize = errors.New("pipeline: grid width must be at least 2")
)

// Request carries the input rasters for one reconstruction. The front pair
// is required; the back pair is optional but must be complete when present.
type Request struct {
	FrontColor *raster.Buffer
	FrontDepth *raster.Buffer
	BackColor  *raster.Buffer
	BackDepth  *raster.Buffer
}

func (r Request) validate() error {
	if r.FrontColor == nil || r.FrontDepth == nil {
		return ErrMissingFront
	}
	if (r.BackColor == nil) != (r.BackDepth == nil) {
		return ErrIncompleteBack
	}
	return nil
}

func (r Request) hasBack() bool { return r.BackColor != nil && r.BackDepth != nil }

// Options are the reconstruction parameters.
type Options struct {
	GridWidth         int // logical grid width W, default DefaultGridWidth
	Mode              mesh.Mode
	DisplacementScale float32 // default 1
	PointCloud        bool
}

func (o Options) withDefaults() Options {
	if o.GridWidth == 0 {
		o.GridWidth = DefaultGridWidth
	}
	if o.DisplacementScale == 0 {
		o.DisplacementScale = 1
	}
	return o
}

func (o Options) meshParams() mesh.Params {
	return mesh.Params{
		Mode:              o.Mode,
		DisplacementScale: o.DisplacementScale,
		PointCloud:        o.PointCloud,
	}
}

// Stats summarizes a finished reconstruction. Empty and Degenerate are
// quality signals, not errors: the caller decides how to surface them.
type Stats struct {
	Vertices       int
	Triangles      int
	CandidateFaces int
	RejectedFaces  int
	Empty          bool // zero vertices survived the visibility test
	Degenerate     bool // unusually many faces dropped by the edge filter
}

// Result is the assembled geometry plus its quality stats.
type Result struct {
	Geometry *mesh.Geometry
	Stats    Stats
}

// Reconstruct runs the whole pipeline synchronously. Both sides are
// processed concurrently; ctx cancels between row batches.
func Reconstruct(ctx context.Context, req Request, opts Options) (*Result, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()
	if opts.GridWidth < 2 {
		return nil, ErrInvalidGridSize
	}

	var front, back *mesh.SideMesh
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		front, err = buildSide(gctx, req.FrontColor, req.FrontDepth, mesh.SideFront, opts)
		return err
	})
	if req.hasBack() {
		g.Go(func() error {
			var err error
			back, err = buildSide(gctx, req.BackColor, req.BackDepth, mesh.SideBack, opts)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return assemble(front, back, opts), nil
}

// buildSide runs grid sampling, vertex synthesis and triangulation for one
// side. Sampling always completes before synthesis, and synthesis before
// triangulation.
func buildSide(ctx context.Context, color, depth *raster.Buffer, side mesh.Side, opts Options) (*mesh.SideMesh, error) {
	g := grid.Build(color, depth, opts.GridWidth)
	params := opts.meshParams()

	syn := mesh.NewSynthesizer(g, side, params)
	for !syn.Step(rowsPerBatch) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	surf := syn.Surface()

	sm := &mesh.SideMesh{Surface: surf}
	if !params.PointCloud {
		maxEdge := mesh.MaxEdge(mesh.NominalSpacing(g, params))
		sm.Indices, sm.Stats = mesh.Triangulate(surf, side, maxEdge)
	}
	return sm, nil
}

// assemble merges the side meshes and derives the result stats.
func assemble(front, back *mesh.SideMesh, opts Options) *Result {
	geo := mesh.Assemble(front, back, opts.PointCloud)

	var st mesh.Stats
	st.Add(front.Stats)
	if back != nil {
		st.Add(back.Stats)
	}

	stats := Stats{
		Vertices:       geo.VertexCount(),
		Triangles:      geo.TriangleCount(),
		CandidateFaces: st.Candidates,
		RejectedFaces:  st.Rejected,
		Empty:          geo.Empty(),
	}
	if st.Candidates > 0 && float64(st.Rejected)/float64(st.Candidates) > degenerateRatio {
		stats.Degenerate = true
	}
	return &Result{Geometry: geo, Stats: stats}
}
