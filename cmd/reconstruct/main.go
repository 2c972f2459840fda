package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"depthmesh/internal/batch"
	"depthmesh/internal/config"
)

func main() {
	configFile := flag.String("config", "", "Path to config.json file")
	manifest := flag.String("manifest", "", "Path to a JSON manifest of reconstruction jobs")
	frontColor := flag.String("front-color", "", "Front color image (file path or data URL)")
	frontDepth := flag.String("front-depth", "", "Front depth map (file path or data URL)")
	backColor := flag.String("back-color", "", "Back color image (optional)")
	backDepth := flag.String("back-depth", "", "Back depth map (optional)")
	name := flag.String("name", "mesh", "Output name for a single reconstruction")
	mode := flag.String("mode", "", "Mapping mode: planar or cylindrical")
	displacement := flag.Float64("displacement", 0, "Displacement scale (default: 1.0)")
	pointCloud := flag.Bool("pointcloud", false, "Skip triangulation, render a point cloud")
	gridWidth := flag.Int("grid", 0, "Sampling grid width (default: 300)")
	outputDir := flag.String("output", "", "Output directory (default: renders)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	quality := flag.Int("quality", 0, "WebP quality 1-100 (default: 90)")
	yaw := flag.Float64("yaw", 25, "Preview turntable angle in degrees")

	flag.Parse()

	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	cfg.Resolve(config.Flags{
		Manifest:     *manifest,
		OutputDir:    *outputDir,
		GridWidth:    *gridWidth,
		Mode:         *mode,
		Displacement: *displacement,
		Workers:      *workers,
		Quality:      *quality,
	})

	// Assemble the job list: a manifest, or a single job from flags.
	var jobs []batch.Job
	if cfg.Manifest != "" {
		var err error
		jobs, err = batch.LoadManifest(cfg.Manifest)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	} else {
		if *frontColor == "" || *frontDepth == "" {
			fmt.Fprintln(os.Stderr, "Error: -front-color and -front-depth are required (or use -manifest).")
			os.Exit(1)
		}
		jobs = []batch.Job{{
			Name:       *name,
			FrontColor: *frontColor,
			FrontDepth: *frontDepth,
			BackColor:  *backColor,
			BackDepth:  *backDepth,
			PointCloud: *pointCloud || cfg.PointCloud,
		}}
	}
	if len(jobs) == 0 {
		fmt.Println("No jobs to reconstruct.")
		os.Exit(0)
	}

	batchCfg := batch.Config{
		OutputDir:    cfg.OutputDir,
		GridWidth:    cfg.GridWidth,
		Mode:         cfg.Mode,
		Displacement: cfg.Displacement,
		RenderSize:   cfg.RenderSize,
		Supersample:  cfg.Supersample,
		WebPQuality:  cfg.WebPQuality,
		Workers:      cfg.Workers,
		YawDeg:       *yaw,
	}

	fmt.Printf("Depth map → 3D mesh reconstruction\n")
	fmt.Printf("Jobs: %d, Grid: %d, Mode: %s, Workers: %d\n", len(jobs), cfg.GridWidth, cfg.Mode, cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()
	results := batch.Run(batchCfg, jobs)
	elapsed := time.Since(start)

	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	success, failed := 0, 0
	var errors []batch.Result
	for _, r := range results {
		if r.Success {
			success++
			if r.Degenerate {
				fmt.Printf("  warning: %s: noisy depth map, many faces dropped\n", r.Name)
			}
			if r.Empty {
				fmt.Printf("  warning: %s: fully transparent input, empty mesh\n", r.Name)
			}
		} else {
			failed++
			errors = append(errors, r)
		}
	}
	fmt.Printf("Reconstructed: %d/%d\n", success, len(jobs))

	if len(errors) > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		limit := 20
		if len(errors) < limit {
			limit = len(errors)
		}
		for _, e := range errors[:limit] {
			fmt.Printf("  %s: %s\n", e.Name, e.Error)
		}
	}

	resultsPath := filepath.Join(cfg.OutputDir, "results.json")
	os.MkdirAll(cfg.OutputDir, 0755)
	if err := batch.WriteResults(resultsPath, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: results write failed: %v\n", err)
	} else {
		fmt.Printf("Results: %s\n", resultsPath)
	}

	if failed > 0 {
		os.Exit(1)
	}
}
