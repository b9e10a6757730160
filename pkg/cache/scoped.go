package cache

// ScopedKeyer wraps a Keyer with a prefix so several clients can share one
// backend without seeing each other's entries.
//
// Example usage:
//
//	// Keys written by the HTTP server
//	apiKeyer := NewScopedKeyer(NewDefaultKeyer(), "api:")
//
//	// Keys written by the CLI
//	cliKeyer := NewDefaultKeyer()
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

// Prefix returns the scope prefix.
func (k *ScopedKeyer) Prefix() string { return k.prefix }

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(recordsHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(recordsHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
