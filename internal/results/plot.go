package results

import (
	"fmt"
	"image/color"

	"tilseg/internal/segment"
	"tilseg/pkg/colorutil"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// WriteCountsPlot saves a bar chart of accepted contours per cluster. The
// selected cluster's bar is drawn in its palette color, the rest in gray.
func WriteCountsPlot(path string, sel *segment.Selection) error {
	if sel == nil || len(sel.Counts) == 0 {
		return fmt.Errorf("%w: no cluster counts to plot", segment.ErrShape)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Accepted contours per cluster (selected: %d)", sel.Cluster+1)
	p.X.Label.Text = "Cluster"
	p.Y.Label.Text = "Contours"

	others := make(plotter.Values, len(sel.Counts))
	selected := make(plotter.Values, len(sel.Counts))
	names := make([]string, len(sel.Counts))
	for i, n := range sel.Counts {
		names[i] = fmt.Sprintf("%d", i+1)
		if i == sel.Cluster {
			selected[i] = float64(n)
		} else {
			others[i] = float64(n)
		}
	}

	width := vg.Points(20)
	otherBars, err := plotter.NewBarChart(others, width)
	if err != nil {
		return fmt.Errorf("failed to create bar chart: %w", err)
	}
	otherBars.Color = color.Gray{Y: 160}
	otherBars.LineStyle.Width = 0

	selectedBars, err := plotter.NewBarChart(selected, width)
	if err != nil {
		return fmt.Errorf("failed to create bar chart: %w", err)
	}
	if c, err := colorutil.ClusterColor(sel.Cluster); err == nil {
		selectedBars.Color = c
	}
	selectedBars.LineStyle.Width = 0

	p.Add(otherBars, selectedBars)
	p.NominalX(names...)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save plot: %w", err)
	}
	return nil
}
