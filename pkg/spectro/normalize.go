package spectro

import (
	"math"

	"github.com/matzehuels/spectromap/pkg/errors"
)

// Normalize re-emits an arbitrary ring of at least four positions as the
// canonical axis-aligned bounding rectangle:
//
//	[(xmin,ymax), (xmin,ymin), (xmax,ymin), (xmax,ymax), (xmin,ymax)]
//
// Rotation is discarded. Normalize is idempotent.
func Normalize(ring []Point) (Polygon, error) {
	if len(ring) < 4 {
		return Polygon{}, errors.New(errors.ErrCodeInvalidGeometry, "ring needs at least 4 positions, got %d", len(ring))
	}
	xmin, ymin := math.Inf(1), math.Inf(1)
	xmax, ymax := math.Inf(-1), math.Inf(-1)
	for i, pt := range ring {
		if !pt.finite() {
			return Polygon{}, errors.New(errors.ErrCodeInvalidGeometry, "position %d is not finite: %v", i, pt)
		}
		xmin = math.Min(xmin, pt.X())
		xmax = math.Max(xmax, pt.X())
		ymin = math.Min(ymin, pt.Y())
		ymax = math.Max(ymax, pt.Y())
	}
	return Rect(xmin, ymax, xmax, ymin), nil
}
