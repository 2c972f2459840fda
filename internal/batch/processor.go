package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HugoSmits86/nativewebp"

	"depthmesh/internal/mesh"
	"depthmesh/internal/pipeline"
	"depthmesh/internal/preview"
	"depthmesh/internal/raster"
)

// Config holds shared settings for a batch run.
type Config struct {
	OutputDir    string
	GridWidth    int
	Mode         string // default when a job does not set one
	Displacement float64
	RenderSize   int
	Supersample  int
	WebPQuality  int
	Workers      int
	YawDeg       float64 // preview turntable angle
}

// Result holds the outcome of processing one job.
type Result struct {
	Name       string `json:"name"`
	Image      string `json:"image,omitempty"`
	Success    bool   `json:"success"`
	Error      string `json:"error,omitempty"`
	Vertices   int    `json:"vertices"`
	Triangles  int    `json:"triangles"`
	Empty      bool   `json:"empty,omitempty"`
	Degenerate bool   `json:"degenerate,omitempty"`
}

// Run processes all jobs using a worker pool.
func Run(cfg Config, jobs []Job) []Result {
	total := len(jobs)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					rate := float64(p) / elapsed
					fmt.Printf("  [%d/%d] %.1f jobs/sec\n", p, total, rate)
				}
			}
		}
	}()

	// Worker pool
	jobChan := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobChan {
				results[idx] = ProcessJob(cfg, jobs[idx])
				processed.Add(1)
			}
		}()
	}

	for i := range jobs {
		jobChan <- i
	}
	close(jobChan)

	wg.Wait()
	close(done)

	return results
}

// ProcessJob reconstructs one job and writes its WebP preview.
func ProcessJob(cfg Config, job Job) Result {
	res := Result{Name: job.Name}
	fail := func(err error) Result {
		res.Error = err.Error()
		return res
	}

	front, err := raster.LoadView(job.FrontColor, job.FrontDepth)
	if err != nil {
		return fail(err)
	}
	req := pipeline.Request{
		FrontColor: front.Color,
		FrontDepth: front.Depth,
	}
	if job.BackColor != "" {
		back, err := raster.LoadView(job.BackColor, job.BackDepth)
		if err != nil {
			return fail(err)
		}
		req.BackColor = back.Color
		req.BackDepth = back.Depth
	}

	modeName := job.Mode
	if modeName == "" {
		modeName = cfg.Mode
	}
	mode, err := mesh.ParseMode(modeName)
	if err != nil {
		return fail(err)
	}
	displacement := job.Displacement
	if displacement == 0 {
		displacement = cfg.Displacement
	}

	out, err := pipeline.Reconstruct(context.Background(), req, pipeline.Options{
		GridWidth:         cfg.GridWidth,
		Mode:              mode,
		DisplacementScale: float32(displacement),
		PointCloud:        job.PointCloud,
	})
	if err != nil {
		return fail(err)
	}
	res.Vertices = out.Stats.Vertices
	res.Triangles = out.Stats.Triangles
	res.Empty = out.Stats.Empty
	res.Degenerate = out.Stats.Degenerate

	// Two-sided geometry carries UVs per side; fall back to vertex colors
	// there, since a single texture can only cover the front shell.
	var tex *raster.Buffer
	if req.BackColor == nil {
		tex = front.Color
	}
	img := preview.Render(out.Geometry, tex, preview.Options{
		Size:        cfg.RenderSize,
		Supersample: cfg.Supersample,
		YawDeg:      float32(cfg.YawDeg),
	})
	if cfg.Supersample > 1 {
		img = preview.Downsample(img, cfg.RenderSize)
	}

	outPath := filepath.Join(cfg.OutputDir, job.Name+".webp")
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return fail(err)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fail(err)
	}
	defer f.Close()
	if err := nativewebp.Encode(f, img, nil); err != nil {
		return fail(fmt.Errorf("batch: webp encode: %w", err))
	}

	res.Image = job.Name + ".webp"
	res.Success = true
	return res
}
