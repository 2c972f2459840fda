package pipeline

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"depthmesh/internal/grid"
	"depthmesh/internal/mesh"
)

// ProgressFunc receives the completed fraction in [0,1].
type ProgressFunc func(frac float64)

// DoneFunc receives the finished result, or the error that stopped the run.
// Never called for a superseded run.
type DoneFunc func(*Result, error)

// Runner is the progressive variant of Reconstruct: vertex synthesis is
// chunked into bounded row batches so a host render loop is never blocked
// by one long pass, and progress is reported between batches.
//
// Last request started wins. Starting a new run cancels the previous one
// and its callbacks are dropped; a stale run's partial buffer can never
// reach the caller. Runs are told apart by a uuid stamp.
type Runner struct {
	mu      sync.Mutex
	current uuid.UUID
	cancel  context.CancelFunc
}

// NewRunner returns a Runner with no active reconstruction.
func NewRunner() *Runner { return &Runner{} }

// Start begins a reconstruction in the background, superseding any run in
// flight, and returns the new run's id. onProgress and onDone may be nil.
func (r *Runner) Start(req Request, opts Options, onProgress ProgressFunc, onDone DoneFunc) uuid.UUID {
	ctx, cancel := context.WithCancel(context.Background())
	id := uuid.New()

	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
	}
	r.current = id
	r.cancel = cancel
	r.mu.Unlock()

	go r.run(ctx, id, req, opts, onProgress, onDone)
	return id
}

// Cancel abandons the current run, if any. Its callbacks are dropped.
func (r *Runner) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
		r.current = uuid.Nil
	}
}

func (r *Runner) isCurrent(id uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current == id
}

func (r *Runner) run(ctx context.Context, id uuid.UUID, req Request, opts Options, onProgress ProgressFunc, onDone DoneFunc) {
	result, err := r.reconstructChunked(ctx, id, req, opts, onProgress)

	// A superseded run's output is discarded, never delivered.
	if !r.isCurrent(id) || ctx.Err() != nil {
		return
	}
	if onDone != nil {
		onDone(result, err)
	}
}

// reconstructChunked is Reconstruct with the sides run sequentially in row
// batches, reporting fractional completion across both sides.
func (r *Runner) reconstructChunked(ctx context.Context, id uuid.UUID, req Request, opts Options, onProgress ProgressFunc) (*Result, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()
	if opts.GridWidth < 2 {
		return nil, ErrInvalidGridSize
	}
	params := opts.meshParams()

	frontGrid := grid.Build(req.FrontColor, req.FrontDepth, opts.GridWidth)
	var backGrid *grid.Grid
	if req.hasBack() {
		backGrid = grid.Build(req.BackColor, req.BackDepth, opts.GridWidth)
	}

	totalRows := frontGrid.H
	if backGrid != nil {
		totalRows += backGrid.H
	}
	report := func(done int) {
		if onProgress != nil && r.isCurrent(id) {
			onProgress(float64(done) / float64(totalRows))
		}
	}

	sides := []struct {
		g    *grid.Grid
		side mesh.Side
	}{{frontGrid, mesh.SideFront}}
	if backGrid != nil {
		sides = append(sides, struct {
			g    *grid.Grid
			side mesh.Side
		}{backGrid, mesh.SideBack})
	}

	var front, back *mesh.SideMesh
	rowsDone := 0
	for _, s := range sides {
		syn := mesh.NewSynthesizer(s.g, s.side, params)
		for {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			finished := syn.Step(rowsPerBatch)
			done, _ := syn.Rows()
			report(rowsDone + done)
			if finished {
				break
			}
		}
		rowsDone += s.g.H

		sm := &mesh.SideMesh{Surface: syn.Surface()}
		if !params.PointCloud {
			maxEdge := mesh.MaxEdge(mesh.NominalSpacing(s.g, params))
			sm.Indices, sm.Stats = mesh.Triangulate(sm.Surface, s.side, maxEdge)
		}
		if s.side == mesh.SideFront {
			front = sm
		} else {
			back = sm
		}
	}

	return assemble(front, back, opts), nil
}
