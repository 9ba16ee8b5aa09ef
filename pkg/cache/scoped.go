package cache

// ScopedKeyer prefixes every key from an inner Keyer so multiple
// deployments can share one backend without collisions. The server uses
// it to keep per-environment namespaces apart:
//
//	keyer := cache.NewScopedKeyer(nil, "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner with a key prefix. A nil inner falls back
// to the default keyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) FlatKey(docHash string, opts FlatKeyOpts) string {
	return k.prefix + k.inner.FlatKey(docHash, opts)
}

func (k *ScopedKeyer) ArtifactKey(flatHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(flatHash, opts)
}
