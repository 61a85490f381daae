// Package segment turns a per-pixel cluster label map into per-cluster masks
// and overlays, filters the contours of each mask by TIL size and shape, and
// selects the cluster most likely to hold immune cells.
package segment

import "gocv.io/x/gocv"

// Result bundles everything derived from one label map and image.
type Result struct {
	Clusters  *ClusterMasks
	Selection *Selection
}

// Close releases the Mats held by the result.
func (r *Result) Close() {
	if r == nil || r.Clusters == nil {
		return
	}
	r.Clusters.Close()
}

// Process builds the cluster masks for img and runs immune cluster selection
// over them. The caller owns the returned Result and must Close it.
func Process(labels LabelMap, img gocv.Mat, filter FilterParams) (*Result, error) {
	clusters, err := BuildClusterMasks(labels, img)
	if err != nil {
		return nil, err
	}

	sel, err := SelectImmuneCluster(clusters.Masks, filter)
	if err != nil {
		clusters.Close()
		return nil, err
	}

	return &Result{Clusters: clusters, Selection: sel}, nil
}
