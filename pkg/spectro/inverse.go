package spectro

import "github.com/matzehuels/spectromap/pkg/errors"

// Domain holds annotation values recovered from render space.
type Domain struct {
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
	LowFreq   float64 `json:"low_freq"`
	HighFreq  float64 `json:"high_freq"`
}

// Pulse returns d as a bounded annotation with the given id.
func (d Domain) Pulse(id int64) Pulse {
	return Pulse{ID: id, StartTime: d.StartTime, EndTime: d.EndTime, LowFreq: d.LowFreq, HighFreq: d.HighFreq}
}

// Invert recovers domain values from a canonical polygon. x_start is read
// from the lower-left vertex and x_end from the upper-right vertex.
//
// Errors are returned with best-effort values rather than a zero Domain:
//   - ErrCodeUnrecognizedLayout: all fields zero
//   - ErrCodeInvalidLayout / ErrCodeDegenerateRange: all fields zero
//   - ErrCodeSpansSegments: times are -1, frequencies are populated
func Invert(p Polygon, v View) (Domain, error) {
	form := v.Form()
	if form == FormUnrecognized {
		return Domain{}, errors.New(errors.ErrCodeUnrecognizedLayout, UnrecognizedLayoutMessage)
	}
	if err := v.Validate(); err != nil {
		return Domain{}, err
	}

	ll, ur := p.Ring[LowerLeft], p.Ring[UpperRight]

	freq := v.Frequency()
	if form == FormSegmented {
		freq = v.nativeFrequency()
	}
	d := Domain{
		HighFreq: freq.Inverse(ll.Y()),
		LowFreq:  freq.Inverse(ur.Y()),
	}

	start, end, err := v.Axis().InverseSpan(ll.X(), ur.X())
	d.StartTime, d.EndTime = start, end
	return d, err
}

// InvertRing normalizes a free-form edited ring and inverts it.
func InvertRing(ring []Point, v View) (Domain, error) {
	p, err := Normalize(ring)
	if err != nil {
		return Domain{}, err
	}
	return Invert(p, v)
}
