package cache

// ScopedKeyer prefixes every key of an inner Keyer, giving separate
// namespaces to processes that share one Redis instance.
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "spectromap:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner (DefaultKeyer when nil) with prefix.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) RecordingKey(id string) string {
	return k.prefix + k.inner.RecordingKey(id)
}

func (k *ScopedKeyer) ArtifactKey(layoutHash, annotationsHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, annotationsHash, opts)
}
