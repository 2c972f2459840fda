package batch

import (
	"encoding/json"
	"fmt"
	"os"
)

// Job describes one reconstruction in a manifest: a front color/depth pair,
// an optional back pair, and per-job parameter overrides.
type Job struct {
	Name         string  `json:"name"`
	FrontColor   string  `json:"front_color"`
	FrontDepth   string  `json:"front_depth"`
	BackColor    string  `json:"back_color,omitempty"`
	BackDepth    string  `json:"back_depth,omitempty"`
	Mode         string  `json:"mode,omitempty"`
	Displacement float64 `json:"displacement,omitempty"`
	PointCloud   bool    `json:"point_cloud,omitempty"`
}

// LoadManifest reads a JSON array of jobs.
func LoadManifest(path string) ([]Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("batch: read manifest %s: %w", path, err)
	}
	var jobs []Job
	if err := json.Unmarshal(data, &jobs); err != nil {
		return nil, fmt.Errorf("batch: parse manifest %s: %w", path, err)
	}
	for i, j := range jobs {
		if j.FrontColor == "" || j.FrontDepth == "" {
			return nil, fmt.Errorf("batch: job %d (%s): front_color and front_depth are required", i, j.Name)
		}
		if (j.BackColor == "") != (j.BackDepth == "") {
			return nil, fmt.Errorf("batch: job %d (%s): back view needs both back_color and back_depth", i, j.Name)
		}
	}
	return jobs, nil
}

// WriteResults writes the per-job outcome summary next to the renders.
func WriteResults(path string, results []Result) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
