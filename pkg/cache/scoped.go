package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation, so
// several datasets (or several users of a shared server) can share one
// cache backend without key collisions.
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

// DatasetKey generates a prefixed key for dataset caching.
func (k *ScopedKeyer) DatasetKey(sourceHash string, opts DatasetKeyOpts) string {
	return k.prefix + k.inner.DatasetKey(sourceHash, opts)
}

// SuggestKey generates a prefixed key for suggestion caching.
func (k *ScopedKeyer) SuggestKey(outcome, course, level string, count int) string {
	return k.prefix + k.inner.SuggestKey(outcome, course, level, count)
}

// EvaluateKey generates a prefixed key for evaluation caching.
func (k *ScopedKeyer) EvaluateKey(outcome, detailText string) string {
	return k.prefix + k.inner.EvaluateKey(outcome, detailText)
}

// RenderKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) RenderKey(graphHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(graphHash, opts)
}
