package spectro

import "github.com/matzehuels/spectromap/pkg/errors"

// Centroid is the arithmetic mean of all five ring positions. The closing
// vertex is counted, which weights the result toward the first corner.
func Centroid(p Polygon) Point {
	var sx, sy float64
	for _, pt := range p.Ring {
		sx += pt.X()
		sy += pt.Y()
	}
	n := float64(len(p.Ring))
	return Point{sx / n, sy / n}
}

// Center places labels and recenters views on an annotation. Pulses use
// the bounded path; sequences use the temporal path with [DefaultBand].
// Anything else returns the origin and an ErrCodeUnknownKind error.
func Center(a Annotation, v View) (Point, error) {
	switch a := a.(type) {
	case Pulse, *Pulse, Sequence, *Sequence:
		return Centroid(Build(a, v)), nil
	default:
		return Point{}, errors.New(errors.ErrCodeUnknownKind, "cannot center annotation of type %T", a)
	}
}
