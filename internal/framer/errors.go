package framer

import (
	"fmt"

	"github.com/Faultbox/turnbake/pkg/geom"
)

// DegenerateGeometryError reports a bounding box with zero extent on
// all three axes. There is no meaningful camera distance for a point;
// callers should skip the mesh rather than abort the batch.
type DegenerateGeometryError struct {
	Box geom.Box
}

func (e *DegenerateGeometryError) Error() string {
	return fmt.Sprintf("bounding box degenerates to a point at (%g, %g, %g)",
		e.Box.Min.X, e.Box.Min.Y, e.Box.Min.Z)
}

// InvalidConfigurationError reports a Config that violates the framer's
// constraints. Fatal to the call; never retried.
type InvalidConfigurationError struct {
	Field  string
	Reason string
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("invalid turnaround configuration: %s %s", e.Field, e.Reason)
}
