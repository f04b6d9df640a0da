package spectro

// Band is a fixed vertical display band in pixels for sequences.
type Band struct {
	Min, Max float64
}

var (
	// DefaultBand is used when no band is supplied.
	DefaultBand = Band{Min: 0, Max: 10}
	// SequenceBand places sequences just above the primary axis.
	SequenceBand = Band{Min: -10, Max: -50}
)

// BuildOption configures polygon construction.
type BuildOption func(*buildConfig)

type buildConfig struct {
	band   Band
	yScale float64
}

// WithBand sets the y values of a sequence polygon before scaling.
func WithBand(b Band) BuildOption { return func(c *buildConfig) { c.band = b } }

// WithYScale multiplies every y value, for secondary display bands.
func WithYScale(s float64) BuildOption { return func(c *buildConfig) { c.yScale = s } }

func newBuildConfig(opts []BuildOption) buildConfig {
	c := buildConfig{band: DefaultBand, yScale: 1}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// PulsePolygon maps a bounded annotation into render space.
func PulsePolygon(p Pulse, v View, opts ...BuildOption) Polygon {
	c := newBuildConfig(opts)
	if v.Validate() != nil {
		return SentinelPolygon()
	}
	x0, x1, ok := v.Axis().ForwardSpan(p.StartTime, p.EndTime)
	if !ok {
		return SentinelPolygon()
	}
	freq := v.Frequency()
	yLow := freq.Forward(p.LowFreq) * c.yScale
	yHigh := freq.Forward(p.HighFreq) * c.yScale
	return finiteOrSentinel(Rect(x0, yLow, x1, yHigh))
}

// SequencePolygon maps a temporal annotation into render space. Its y values
// come from the configured band rather than the frequency axis.
func SequencePolygon(s Sequence, v View, opts ...BuildOption) Polygon {
	c := newBuildConfig(opts)
	if v.Validate() != nil {
		return SentinelPolygon()
	}
	x0, x1, ok := v.Axis().ForwardSpan(s.StartTime, s.EndTime)
	if !ok {
		return SentinelPolygon()
	}
	return finiteOrSentinel(Rect(x0, c.band.Min*c.yScale, x1, c.band.Max*c.yScale))
}

// Build maps any annotation into render space. A nil annotation yields the
// sentinel polygon.
func Build(a Annotation, v View, opts ...BuildOption) Polygon {
	switch a := a.(type) {
	case Pulse:
		return PulsePolygon(a, v, opts...)
	case *Pulse:
		if a == nil {
			return SentinelPolygon()
		}
		return PulsePolygon(*a, v, opts...)
	case Sequence:
		return SequencePolygon(a, v, opts...)
	case *Sequence:
		if a == nil {
			return SentinelPolygon()
		}
		return SequencePolygon(*a, v, opts...)
	default:
		return SentinelPolygon()
	}
}

func finiteOrSentinel(p Polygon) Polygon {
	if !p.finite() {
		return SentinelPolygon()
	}
	return p
}
