package renderer

// cache holds GPU objects keyed by K and releases the ones a frame did not
// touch.
type cache[K comparable, V any] struct {
	entries map[K]*cacheEntry[V]
	frame   uint64
}

type cacheEntry[V any] struct {
	value V
	used  uint64
}

func newCache[K comparable, V any]() *cache[K, V] {
	return &cache[K, V]{entries: make(map[K]*cacheEntry[V])}
}

// get returns the value for key, creating it on first use.
func (c *cache[K, V]) get(key K, create func() V) V {
	e, ok := c.entries[key]
	if !ok {
		e = &cacheEntry[V]{value: create()}
		c.entries[key] = e
	}
	e.used = c.frame
	return e.value
}

// sweep releases entries unused since the last sweep and starts a new frame.
func (c *cache[K, V]) sweep(release func(V)) int {
	n := 0
	for k, e := range c.entries {
		if e.used != c.frame {
			release(e.value)
			delete(c.entries, k)
			n++
		}
	}
	c.frame++
	return n
}

func (c *cache[K, V]) len() int { return len(c.entries) }

func (c *cache[K, V]) reset(release func(V)) {
	for _, e := range c.entries {
		release(e.value)
	}
	clear(c.entries)
}
