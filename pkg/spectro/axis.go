package spectro

import (
	"math"

	"github.com/matzehuels/spectromap/pkg/errors"
)

// SpansSegmentsMessage is the user-facing text of an ErrCodeSpansSegments error.
const SpansSegmentsMessage = "Start or End Time spread across pulses. This is not allowed in compressed annotations"

// UnrecognizedLayoutMessage is the user-facing text of an ErrCodeUnrecognizedLayout error.
const UnrecognizedLayoutMessage = "Spectrogram Info didn't match a regular or compressed view"

// AxisMapper maps domain time to pixel x for one view.
type AxisMapper struct {
	view View
}

// Axis returns the time-axis mapper of v.
func (v View) Axis() AxisMapper { return AxisMapper{view: v} }

// Scale is pixels per millisecond at the effective width. It is shared by
// every segment of a segmented layout.
func (m AxisMapper) Scale() float64 {
	return m.view.EffectiveWidth() / m.view.Duration()
}

// nativeScale is pixels per millisecond at the native width, used by the
// segmented inverse.
func (m AxisMapper) nativeScale() float64 {
	return m.view.Width / m.view.Duration()
}

// SegmentIndex returns the segment strictly containing [start, end], or -1.
// Uniform and malformed layouts always return -1.
func (m AxisMapper) SegmentIndex(start, end float64) int {
	starts, ends := m.view.StartTimes, m.view.EndTimes
	for i := 0; i < m.view.Segments(); i++ {
		if starts[i] < start && start < ends[i] && end < ends[i] && end > starts[i] {
			return i
		}
	}
	return -1
}

// Locate is [AxisMapper.SegmentIndex] with a SEGMENT_NOT_FOUND error for
// callers that report why an annotation was not placed.
func (m AxisMapper) Locate(start, end float64) (int, error) {
	if i := m.SegmentIndex(start, end); i >= 0 {
		return i, nil
	}
	return -1, errors.New(errors.ErrCodeSegmentNotFound, "no segment strictly contains %v-%v ms", start, end)
}

// offset is the pixel width of all segments before segment i.
func (m AxisMapper) offset(i int, scale float64) float64 {
	var px float64
	for j := 0; j < i; j++ {
		px += (m.view.EndTimes[j] - m.view.StartTimes[j]) * scale
	}
	return px
}

// Forward maps a time on a uniform axis to pixel x.
// The domain start time is not subtracted; times are measured from zero.
func (m AxisMapper) Forward(t float64) float64 {
	return t * m.Scale()
}

// ForwardSpan maps an annotation's time span to pixel x. For segmented
// layouts the span must lie strictly inside one segment; ok is false
// otherwise. A layout carrying only one of the segment lists is placed
// as uniform, while lists of unequal length match no segment.
func (m AxisMapper) ForwardSpan(start, end float64) (x0, x1 float64, ok bool) {
	switch {
	case m.view.StartTimes == nil || m.view.EndTimes == nil:
		return m.Forward(start), m.Forward(end), true
	default:
		i := m.SegmentIndex(start, end)
		if i < 0 {
			return 0, 0, false
		}
		scale := m.Scale()
		base := m.offset(i, scale)
		seg := m.view.StartTimes[i]
		return base + (start-seg)*scale, base + (end-seg)*scale, true
	}
}

// Inverse maps pixel x on a uniform axis back to a whole millisecond.
func (m AxisMapper) Inverse(x float64) float64 {
	return roundHalfUp(x / m.Scale())
}

// InverseSpan maps a pixel interval back to domain time.
//
// Segmented layouts walk the segments at the native pixel width and accept
// the interval only if it falls strictly inside one segment's pixel range.
// On failure both times are -1 and the error has ErrCodeSpansSegments.
func (m AxisMapper) InverseSpan(x0, x1 float64) (start, end float64, err error) {
	switch m.view.Form() {
	case FormUniform:
		return m.Inverse(x0), m.Inverse(x1), nil
	case FormSegmented:
		scale := m.nativeScale()
		var additive float64
		for i := 0; i < m.view.Segments(); i++ {
			next := (m.view.EndTimes[i] - m.view.StartTimes[i]) * scale
			if x0 > additive && x1 < additive+next {
				seg := m.view.StartTimes[i]
				return roundHalfUp(seg + (x0-additive)/scale), roundHalfUp(seg + (x1-additive)/scale), nil
			}
			additive += next
		}
		return -1, -1, errors.New(errors.ErrCodeSpansSegments, SpansSegmentsMessage)
	default:
		return 0, 0, errors.New(errors.ErrCodeUnrecognizedLayout, UnrecognizedLayoutMessage)
	}
}

// roundHalfUp rounds ties toward positive infinity, so -2.5 becomes -2.
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}
