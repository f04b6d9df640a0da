package spectro

import (
	"encoding/json"
	"math"

	"github.com/matzehuels/spectromap/pkg/errors"
)

// Point is a pixel coordinate. It encodes as a GeoJSON position [x, y].
type Point [2]float64

// Pt builds a Point.
func Pt(x, y float64) Point { return Point{x, y} }

// X returns the horizontal pixel coordinate.
func (p Point) X() float64 { return p[0] }

// Y returns the vertical pixel coordinate.
func (p Point) Y() float64 { return p[1] }

func (p Point) finite() bool {
	return !math.IsNaN(p[0]) && !math.IsNaN(p[1]) && !math.IsInf(p[0], 0) && !math.IsInf(p[1], 0)
}

// Vertex positions of the canonical ring.
const (
	UpperLeft  = 0
	LowerLeft  = 1
	LowerRight = 2
	UpperRight = 3
	Closing    = 4
)

// Polygon is a closed, canonical 5-vertex rectangle in pixel space:
// [upper-left, lower-left, lower-right, upper-right, upper-left].
//
// "Upper" and "lower" follow the renderer's vertex-index convention, not
// screen direction; for a pulse, vertex 0 sits at the low frequency.
type Polygon struct {
	Ring [5]Point
}

var sentinel = Polygon{Ring: [5]Point{{-1, -1}, {-1, -1}, {-1, -1}, {-1, -1}, {-1, -1}}}

// SentinelPolygon returns the "not representable" polygon.
func SentinelPolygon() Polygon { return sentinel }

// Rect builds the canonical ring for x0/x1 and the vertex-0 and vertex-1 y values.
func Rect(x0, y0, x1, y1 float64) Polygon {
	return Polygon{Ring: [5]Point{{x0, y0}, {x0, y1}, {x1, y1}, {x1, y0}, {x0, y0}}}
}

// IsSentinel reports whether the corner vertices carry the (-1,-1) marker.
func (p Polygon) IsSentinel() bool {
	xmin, ymin, xmax, ymax := p.Bounds()
	return xmin == -1 && ymin == -1 && xmax == -1 && ymax == -1
}

// HasNaN reports whether any corner read by [Polygon.Bounds] is NaN.
func (p Polygon) HasNaN() bool {
	xmin, ymin, xmax, ymax := p.Bounds()
	return math.IsNaN(xmin) || math.IsNaN(ymin) || math.IsNaN(xmax) || math.IsNaN(ymax)
}

// Renderable reports whether the polygon should be drawn.
func (p Polygon) Renderable() bool {
	return !p.HasNaN() && !p.IsSentinel()
}

// Bounds reads vertex 0 as (xmin, ymin) and vertex 2 as (xmax, ymax), the
// placement convention used for tick lines and labels.
func (p Polygon) Bounds() (xmin, ymin, xmax, ymax float64) {
	return p.Ring[UpperLeft][0], p.Ring[UpperLeft][1], p.Ring[LowerRight][0], p.Ring[LowerRight][1]
}

func (p Polygon) finite() bool {
	for _, pt := range p.Ring {
		if !pt.finite() {
			return false
		}
	}
	return true
}

// Points returns the ring as a slice.
func (p Polygon) Points() []Point {
	return append([]Point(nil), p.Ring[:]...)
}

type geoJSONPolygon struct {
	Type        string    `json:"type"`
	Coordinates [][]Point `json:"coordinates"`
}

// MarshalJSON encodes the polygon as a GeoJSON Polygon geometry.
func (p Polygon) MarshalJSON() ([]byte, error) {
	return json.Marshal(geoJSONPolygon{Type: "Polygon", Coordinates: [][]Point{p.Ring[:]}})
}

// UnmarshalJSON decodes a GeoJSON Polygon whose outer ring has exactly five
// positions. Use [DecodeRing] for free-form edited geometry.
func (p *Polygon) UnmarshalJSON(data []byte) error {
	ring, err := DecodeRing(data)
	if err != nil {
		return err
	}
	if len(ring) != 5 {
		return errors.New(errors.ErrCodeInvalidGeometry, "polygon ring must have 5 positions, got %d", len(ring))
	}
	copy(p.Ring[:], ring)
	return nil
}
