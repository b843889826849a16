package cache

// ScopedKeyer wraps a Keyer with a prefix so several deployments can share
// one Redis without seeing each other's entries.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "spring-gala:")
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

// ScheduleKey generates a prefixed schedule key.
func (k *ScopedKeyer) ScheduleKey(rosterHash string, opts ScheduleKeyOpts) string {
	return k.prefix + k.inner.ScheduleKey(rosterHash, opts)
}

// GraphKey generates a prefixed diagram key.
func (k *ScopedKeyer) GraphKey(rosterHash string, opts GraphKeyOpts) string {
	return k.prefix + k.inner.GraphKey(rosterHash, opts)
}
