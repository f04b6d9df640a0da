package spectro

// FrequencyMapper maps domain frequency to pixel y. Pixel y grows downward
// while frequency grows upward, so the mapping is inverted.
type FrequencyMapper struct {
	height   float64
	lowFreq  float64
	highFreq float64
}

// Frequency returns the frequency-axis mapper of v at its effective height.
func (v View) Frequency() FrequencyMapper {
	return FrequencyMapper{height: v.EffectiveHeight(), lowFreq: v.LowFreq, highFreq: v.HighFreq}
}

// nativeFrequency maps at the native height; the segmented inverse uses it.
func (v View) nativeFrequency() FrequencyMapper {
	return FrequencyMapper{height: v.Height, lowFreq: v.LowFreq, highFreq: v.HighFreq}
}

// Scale is pixels per Hz.
func (m FrequencyMapper) Scale() float64 {
	return m.height / (m.highFreq - m.lowFreq)
}

// Forward maps a frequency to pixel y.
func (m FrequencyMapper) Forward(f float64) float64 {
	return m.height - (f-m.lowFreq)*m.Scale()
}

// Inverse maps pixel y back to a whole Hz.
func (m FrequencyMapper) Inverse(y float64) float64 {
	return roundHalfUp(m.highFreq - y/m.Scale())
}
