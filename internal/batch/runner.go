// Package batch segments every patch in a directory with a fitted model and
// writes per-patch results plus a run manifest.
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"tilseg/internal/patch"
	"tilseg/internal/results"
	"tilseg/internal/segment"
	"tilseg/internal/version"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gocv.io/x/gocv"
)

// Predictor assigns a cluster label to every pixel of an image, row-major.
// *cluster.Model satisfies it.
type Predictor interface {
	Predict(img gocv.Mat) ([]int, error)
}

// Runner segments patches one at a time.
type Runner struct {
	Model  Predictor
	Filter segment.FilterParams
	Writer *results.Writer
	log    zerolog.Logger
}

// NewRunner creates a Runner.
func NewRunner(model Predictor, filter segment.FilterParams, writer *results.Writer, logger zerolog.Logger) *Runner {
	return &Runner{
		Model:  model,
		Filter: filter,
		Writer: writer,
		log:    logger.With().Str("component", "batch").Logger(),
	}
}

// Run segments every supported image in inDir in lexical order, writing each
// patch's results to outDir/<name>. A failing patch is logged and recorded
// in the manifest and the run moves on. Cancellation is checked between
// patches; the manifest of the completed patches is still written.
func (r *Runner) Run(ctx context.Context, inDir, outDir string) (*Manifest, error) {
	if err := requireDir(inDir); err != nil {
		return nil, fmt.Errorf("input: %w", err)
	}
	if err := requireDir(outDir); err != nil {
		return nil, fmt.Errorf("output: %w", err)
	}

	paths, err := patch.List(inDir)
	if err != nil {
		return nil, err
	}

	m := &Manifest{
		RunID:    uuid.NewString(),
		Version:  version.Version,
		Started:  time.Now().UTC(),
		InputDir: inDir,
		Filter:   r.Filter,
		Patches:  make([]PatchRecord, 0, len(paths)),
	}
	log := r.log.With().Str("run_id", m.RunID).Logger()
	log.Info().Int("patches", len(paths)).Str("in", inDir).Str("out", outDir).Msg("starting batch")

	var runErr error
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}

		rec := r.segmentPatch(path, outDir)
		if rec.Status == StatusFailed {
			log.Error().Str("patch", rec.Name).Str("error", rec.Error).Msg("patch failed")
		} else {
			log.Info().
				Str("patch", rec.Name).
				Int("width", rec.Width).
				Int("height", rec.Height).
				Int("cluster", rec.Cluster).
				Int("contours", rec.Contours).
				Msg("patch segmented")
		}
		m.Patches = append(m.Patches, rec)
	}

	m.Finished = time.Now().UTC()
	if err := m.Save(filepath.Join(outDir, ManifestFile)); err != nil {
		return m, err
	}
	log.Info().Int("ok", m.Succeeded()).Int("failed", m.Failed()).Msg("batch finished")
	return m, runErr
}

func (r *Runner) segmentPatch(path, outDir string) PatchRecord {
	rec := PatchRecord{Name: patch.Name(path), Path: path, Status: StatusFailed}

	res, err := r.process(path, filepath.Join(outDir, rec.Name), &rec)
	if err != nil {
		rec.Error = err.Error()
		return rec
	}
	defer res.Close()

	rec.Status = StatusOK
	rec.Output = filepath.Join(outDir, rec.Name)
	rec.Cluster = res.Selection.Cluster
	rec.Counts = res.Selection.Counts
	rec.Contours = res.Selection.Metrics.Len()
	return rec
}

func (r *Runner) process(path, dir string, rec *PatchRecord) (*segment.Result, error) {
	p, err := patch.Load(path)
	if err != nil {
		return nil, err
	}
	defer p.Close()
	rec.Width, rec.Height = p.Width(), p.Height()

	labels, err := r.Model.Predict(p.Mat)
	if err != nil {
		return nil, fmt.Errorf("failed to predict clusters: %w", err)
	}
	lm, err := segment.NewLabelMap(labels, p.Mat.Rows(), p.Mat.Cols())
	if err != nil {
		return nil, err
	}

	res, err := segment.Process(lm, p.Mat, r.Filter)
	if err != nil {
		return nil, err
	}
	if err := r.Writer.Write(dir, p.Mat, res); err != nil {
		res.Close()
		return nil, err
	}
	return res, nil
}

func requireDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to access directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	return nil
}
