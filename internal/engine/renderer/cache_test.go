package renderer

import "testing"

func TestCacheCreatesOnce(t *testing.T) {
	c := newCache[string, int]()
	created := 0
	create := func() int {
		created++
		return created
	}

	if v := c.get("a", create); v != 1 {
		t.Errorf("expected 1, got %d", v)
	}
	if v := c.get("a", create); v != 1 {
		t.Errorf("expected cached 1, got %d", v)
	}
	if created != 1 {
		t.Errorf("expected 1 creation, got %d", created)
	}
}

func TestCacheSweepReleasesUnused(t *testing.T) {
	c := newCache[uint64, uint32]()
	var released []uint32
	release := func(id uint32) { released = append(released, id) }

	c.get(1, func() uint32 { return 10 })
	c.get(2, func() uint32 { return 20 })
	if n := c.sweep(release); n != 0 {
		t.Fatalf("expected nothing released after first frame, got %d", n)
	}

	// Next frame only uses revision 2.
	c.get(2, func() uint32 { return 99 })
	if n := c.sweep(release); n != 1 {
		t.Fatalf("expected 1 release, got %d", n)
	}
	if len(released) != 1 || released[0] != 10 {
		t.Errorf("expected texture 10 released, got %v", released)
	}
	if c.len() != 1 {
		t.Errorf("expected 1 entry left, got %d", c.len())
	}
}

func TestCacheReset(t *testing.T) {
	c := newCache[int, int]()
	c.get(1, func() int { return 1 })
	c.get(2, func() int { return 2 })

	total := 0
	c.reset(func(v int) { total += v })
	if total != 3 {
		t.Errorf("expected both values released, got sum %d", total)
	}
	if c.len() != 0 {
		t.Errorf("expected empty cache, got %d", c.len())
	}
}
