package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"tilseg/internal/segment"
)

// ManifestFile is the name of the manifest written to the batch output root.
const ManifestFile = "run.json"

// Patch statuses.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Manifest records one batch run.
type Manifest struct {
	RunID    string               `json:"run_id"`
	Version  string               `json:"version"`
	Started  time.Time            `json:"started"`
	Finished time.Time            `json:"finished"`
	InputDir string               `json:"input_dir"`
	Filter   segment.FilterParams `json:"filter"`
	Patches  []PatchRecord        `json:"patches"`
}

// PatchRecord is the outcome of segmenting one patch.
type PatchRecord struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Output   string `json:"output,omitempty"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	Status   string `json:"status"`
	Error    string `json:"error,omitempty"`
	Cluster  int    `json:"selected_cluster"`
	Counts   []int  `json:"contour_counts,omitempty"`
	Contours int    `json:"contours"`
}

// Succeeded counts patches with StatusOK.
func (m *Manifest) Succeeded() int {
	n := 0
	for _, p := range m.Patches {
		if p.Status == StatusOK {
			n++
		}
	}
	return n
}

// Failed counts patches with StatusFailed.
func (m *Manifest) Failed() int {
	return len(m.Patches) - m.Succeeded()
}

// LoadManifest reads a manifest written by Save.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return &m, nil
}

// Save writes the manifest as indented JSON.
func (m *Manifest) Save(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
