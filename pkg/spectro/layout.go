package spectro

import (
	"math"

	"github.com/matzehuels/spectromap/pkg/errors"
)

// Form identifies how a [Layout] describes its time axis.
type Form int

const (
	// FormUniform is a single continuous time axis.
	FormUniform Form = iota
	// FormSegmented is a concatenation of disjoint time intervals.
	FormSegmented
	// FormUnrecognized is a partially specified segment list.
	FormUnrecognized
)

// String returns the lower-case name of the form.
func (f Form) String() string {
	switch f {
	case FormUniform:
		return "uniform"
	case FormSegmented:
		return "segmented"
	default:
		return "unrecognized"
	}
}

// Layout is the pixel/domain calibration of one spectrogram image.
//
// When StartTimes and EndTimes are both set the time axis is segmented and
// the segments replace the single [StartTime, EndTime] span for placement.
// Segments must be non-overlapping and listed in left-to-right pixel order.
// Widths is carried for wire compatibility and not used by the transform.
type Layout struct {
	Width      float64   `json:"width"`
	Height     float64   `json:"height"`
	StartTime  float64   `json:"start_time"`
	EndTime    float64   `json:"end_time"`
	StartTimes []float64 `json:"start_times"`
	EndTimes   []float64 `json:"end_times"`
	Widths     []float64 `json:"widths,omitempty"`
	LowFreq    float64   `json:"low_freq"`
	HighFreq   float64   `json:"high_freq"`
}

// NewLayout builds a uniform layout and validates it.
func NewLayout(width, height, startTime, endTime, lowFreq, highFreq float64) (Layout, error) {
	l := Layout{
		Width:     width,
		Height:    height,
		StartTime: startTime,
		EndTime:   endTime,
		LowFreq:   lowFreq,
		HighFreq:  highFreq,
	}
	return l, l.Validate()
}

// WithSegments returns a copy of l with the given segment list.
// The slices are copied so the result does not alias the arguments.
// An empty non-nil list stays present: the layout is segmented with no
// segments, and nothing can be placed on it.
func (l Layout) WithSegments(startTimes, endTimes []float64) Layout {
	l.StartTimes = cloneTimes(startTimes)
	l.EndTimes = cloneTimes(endTimes)
	return l
}

func cloneTimes(ts []float64) []float64 {
	if ts == nil {
		return nil
	}
	return append(make([]float64, 0, len(ts)), ts...)
}

// Form reports whether the layout is uniform, segmented or malformed.
func (l Layout) Form() Form {
	switch {
	case l.StartTimes == nil && l.EndTimes == nil:
		return FormUniform
	case l.StartTimes != nil && l.EndTimes != nil && len(l.StartTimes) == len(l.EndTimes):
		return FormSegmented
	default:
		return FormUnrecognized
	}
}

// Validate rejects layouts whose scales would be infinite or NaN.
// It does not check the segment list; see [Layout.Form].
func (l Layout) Validate() error {
	names := []string{"width", "height", "start_time", "end_time", "low_freq", "high_freq"}
	if err := errors.ValidateFinite(names, l.Width, l.Height, l.StartTime, l.EndTime, l.LowFreq, l.HighFreq); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidLayout, err, "invalid layout")
	}
	if l.Width <= 0 || l.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidLayout, "pixel size must be positive, got %vx%v", l.Width, l.Height)
	}
	if err := errors.ValidateRange("time", l.StartTime, l.EndTime); err != nil {
		return err
	}
	return errors.ValidateRange("frequency", l.LowFreq, l.HighFreq)
}

// Duration returns the overall domain time span in milliseconds.
func (l Layout) Duration() float64 { return l.EndTime - l.StartTime }

// Bandwidth returns the domain frequency span in Hz.
func (l Layout) Bandwidth() float64 { return l.HighFreq - l.LowFreq }

// Segments returns the number of usable segments, zero unless segmented.
func (l Layout) Segments() int {
	if l.Form() != FormSegmented {
		return 0
	}
	return len(l.StartTimes)
}

// View returns the layout displayed at its native pixel size.
func (l Layout) View() View { return View{Layout: l} }

// Scaled returns the layout displayed at a scaled pixel size. Scaled sizes
// smaller than the native size are ignored per axis.
func (l Layout) Scaled(width, height float64) View {
	return View{Layout: l, ScaledWidth: width, ScaledHeight: height}
}

// View is a layout as currently displayed. The forward transform uses the
// larger of native and scaled size on each axis and never clips.
type View struct {
	Layout
	ScaledWidth  float64 `json:"scaled_width,omitempty"`
	ScaledHeight float64 `json:"scaled_height,omitempty"`
}

// EffectiveWidth is max(native width, scaled width).
func (v View) EffectiveWidth() float64 { return math.Max(v.Width, v.ScaledWidth) }

// EffectiveHeight is max(native height, scaled height).
func (v View) EffectiveHeight() float64 { return math.Max(v.Height, v.ScaledHeight) }
