package cache

// LayerKeyOpts holds the load options that change the parsed result.
type LayerKeyOpts struct {
	Scale      int `json:"scale"`
	ChipHeight int `json:"chip_height"`
	Kind       int `json:"kind"`
}

// Keyer builds cache keys.
type Keyer interface {
	// LayerKey returns the key for a layer file with the given content hash.
	LayerKey(contentHash string, opts LayerKeyOpts) string
}

// DefaultKeyer produces unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayerKey hashes the content hash together with the load options.
func (DefaultKeyer) LayerKey(contentHash string, opts LayerKeyOpts) string {
	return hashKey("layer", contentHash, opts)
}

// ScopedKeyer wraps a Keyer with a prefix, so several projects can share one
// Redis instance without reading each other's entries.
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

// LayerKey generates a prefixed layer key.
func (k *ScopedKeyer) LayerKey(contentHash string, opts LayerKeyOpts) string {
	return k.prefix + k.inner.LayerKey(contentHash, opts)
}
