package cache

// Keyer derives cache keys.
type Keyer interface {
	// RecordingKey addresses a decoded recording (layout plus annotations).
	RecordingKey(id string) string
	// ArtifactKey addresses a rendered overlay. The layout and annotation
	// hashes come from [HashJSON] of the respective values.
	ArtifactKey(layoutHash, annotationsHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the render options that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Format       string  `json:"format"`
	ScaledWidth  float64 `json:"scaled_width,omitempty"`
	ScaledHeight float64 `json:"scaled_height,omitempty"`
	Selected     *int64  `json:"selected,omitempty"`
	Layers       string  `json:"layers,omitempty"`
	Style        string  `json:"style,omitempty"`
	Scale        float64 `json:"scale,omitempty"`
	Background   string  `json:"background,omitempty"`
}

// DefaultKeyer is the standard key layout.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// RecordingKey returns "recording:<id>".
func (DefaultKeyer) RecordingKey(id string) string { return "recording:" + id }

// ArtifactKey hashes both content hashes together with opts.
func (DefaultKeyer) ArtifactKey(layoutHash, annotationsHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, annotationsHash, opts)
}
