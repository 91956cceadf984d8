package cache

// ScopedKeyer wraps a Keyer with a prefix so that several deployments or
// releases can share one backend without reading each other's entries.
//
// Example usage:
//
//	// Entries rendered by one release are not reused by the next
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "grap@"+buildinfo.Version+":")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// TableKey generates a prefixed key for parsed tables.
func (k *ScopedKeyer) TableKey(dataHash string) string {
	return k.prefix + k.inner.TableKey(dataHash)
}

// ArtifactKey generates a prefixed key for rendered artifacts.
func (k *ScopedKeyer) ArtifactKey(specHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(specHash, opts)
}

// ExportKey generates a prefixed key for export images.
func (k *ScopedKeyer) ExportKey(specHash string, opts ExportKeyOpts) string {
	return k.prefix + k.inner.ExportKey(specHash, opts)
}
