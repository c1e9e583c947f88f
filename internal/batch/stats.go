package batch

import "time"

// MeshStats records timing for one processed mesh.
type MeshStats struct {
	Name       string
	ID         string
	BakeCount  int
	ViewCount  int
	BakeTime   time.Duration
	SaveTime   time.Duration
	RenderTime time.Duration
	TotalTime  time.Duration
}

// Stats aggregates a whole run.
type Stats struct {
	Meshes    []MeshStats
	Failed    []string
	TotalTime time.Duration
}

// Processed is the number of meshes completed without error.
func (s *Stats) Processed() int { return len(s.Meshes) }

// TotalViews sums rendered views across the run.
func (s *Stats) TotalViews() int {
	n := 0
	for _, m := range s.Meshes {
		n += m.ViewCount
	}
	return n
}

// AverageMeshTime is the mean wall time per completed mesh.
func (s *Stats) AverageMeshTime() time.Duration {
	if len(s.Meshes) == 0 {
		return 0
	}
	return s.TotalTime / time.Duration(len(s.Meshes))
}

// Estimate extrapolates the run time to count meshes. Used for the
// end-of-run 1k and 1M dataset projections.
func (s *Stats) Estimate(count int) time.Duration {
	return s.AverageMeshTime() * time.Duration(count)
}
