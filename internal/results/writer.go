// Package results writes the images and tables produced by segmenting one
// patch to an output directory.
package results

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"tilseg/internal/segment"

	"github.com/rs/zerolog"
	"gocv.io/x/gocv"
)

// Output file and directory names inside a patch directory.
const (
	OriginalFile    = "Original.jpg"
	AllClustersFile = "AllClusters.jpg"
	OverlaysDir     = "Overlaid Images"
	MasksDir        = "Masks"
	CSVFile         = "Compiled_Data.csv"
	PlotFile        = "Contour_Counts.png"
)

// Options selects the optional outputs. Original.jpg and AllClusters.jpg
// are always written.
type Options struct {
	Overlays bool `mapstructure:"overlays" yaml:"overlays" json:"overlays"`
	Masks    bool `mapstructure:"masks" yaml:"masks" json:"masks"`
	CSV      bool `mapstructure:"csv" yaml:"csv" json:"csv"`
	Plot     bool `mapstructure:"plot" yaml:"plot" json:"plot"`
}

// DefaultOptions writes overlays, masks and the CSV but no plot.
func DefaultOptions() Options {
	return Options{Overlays: true, Masks: true, CSV: true}
}

// Writer persists segmentation results.
type Writer struct {
	Options Options
	log     zerolog.Logger
}

// NewWriter creates a Writer that logs through logger.
func NewWriter(opts Options, logger zerolog.Logger) *Writer {
	return &Writer{
		Options: opts,
		log:     logger.With().Str("component", "results").Logger(),
	}
}

// OverlayPath returns the path of the n-th (0-based) cluster overlay.
func OverlayPath(dir string, n int) string {
	return filepath.Join(dir, OverlaysDir, fmt.Sprintf("Image%d.jpg", n+1))
}

// MaskPath returns the path of the n-th (0-based) cluster mask.
func MaskPath(dir string, n int) string {
	return filepath.Join(dir, MasksDir, fmt.Sprintf("Image%d.jpg", n+1))
}

// Write saves original and res under dir, creating it if needed.
func (w *Writer) Write(dir string, original gocv.Mat, res *segment.Result) error {
	if res == nil || res.Clusters == nil || res.Selection == nil {
		return fmt.Errorf("%w: missing segmentation result", segment.ErrShape)
	}
	if err := segment.ValidateImage(original); err != nil {
		return fmt.Errorf("original image: %w", err)
	}
	if err := segment.ValidateImage(res.Clusters.Combined); err != nil {
		return fmt.Errorf("combined overlay: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := writeImage(filepath.Join(dir, OriginalFile), original); err != nil {
		return err
	}
	if err := writeImage(filepath.Join(dir, AllClustersFile), res.Clusters.Combined); err != nil {
		return err
	}

	if w.Options.Overlays {
		if err := w.writeOverlays(dir, res.Clusters.Overlays); err != nil {
			return err
		}
	}
	if w.Options.Masks {
		if err := w.writeMasks(dir, res.Clusters.Masks); err != nil {
			return err
		}
	}
	if w.Options.CSV {
		if err := WriteMetricsCSV(filepath.Join(dir, CSVFile), res.Selection.Metrics); err != nil {
			return err
		}
	}
	if w.Options.Plot {
		if err := WriteCountsPlot(filepath.Join(dir, PlotFile), res.Selection); err != nil {
			return err
		}
	}

	w.log.Debug().
		Str("dir", dir).
		Int("clusters", res.Clusters.K()).
		Int("selected", res.Selection.Cluster).
		Int("contours", res.Selection.Metrics.Len()).
		Msg("wrote results")
	return nil
}

func (w *Writer) writeOverlays(dir string, overlays []gocv.Mat) error {
	if err := os.MkdirAll(filepath.Join(dir, OverlaysDir), 0o755); err != nil {
		return fmt.Errorf("failed to create overlay directory: %w", err)
	}
	for i, overlay := range overlays {
		if err := writeImage(OverlayPath(dir, i), overlay); err != nil {
			return err
		}
	}
	return nil
}

// writeMasks saves each 0/1 mask scaled to 0/255 so it is visible.
func (w *Writer) writeMasks(dir string, masks []gocv.Mat) error {
	if err := os.MkdirAll(filepath.Join(dir, MasksDir), 0o755); err != nil {
		return fmt.Errorf("failed to create mask directory: %w", err)
	}
	for i, mask := range masks {
		visible := mask.Clone()
		visible.MultiplyUChar(255)
		err := writeImage(MaskPath(dir, i), visible)
		visible.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func writeImage(path string, img gocv.Mat) error {
	if !gocv.IMWrite(path, img) {
		return fmt.Errorf("failed to write image %s", path)
	}
	return nil
}

// WriteMetricsCSV writes table as CSV with a header row of column names.
func WriteMetricsCSV(path string, table segment.MetricsTable) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	columns := table.Columns
	if len(columns) == 0 {
		columns = segment.MetricsColumns
	}
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range table.Rows {
		vals := row.Values()
		record := make([]string, len(vals))
		for i, v := range vals {
			record[i] = strconv.FormatFloat(v, 'f', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return f.Close()
}
