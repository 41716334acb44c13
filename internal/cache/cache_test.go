package cache

import (
	"testing"
	"time"
)

func TestMemoryGetBeforeAndAfterExpiry(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := NewMemory()
	c.now = func() time.Time { return now }

	c.Set("digest", []byte("v1"), time.Minute)

	if v, ok := c.Get("digest"); !ok || string(v) != "v1" {
		t.Fatalf("expected fresh hit, got %q ok=%v", v, ok)
	}

	now = now.Add(59 * time.Second)
	if _, ok := c.Get("digest"); !ok {
		t.Error("expected hit within TTL")
	}

	now = now.Add(2 * time.Second)
	if _, ok := c.Get("digest"); ok {
		t.Error("expected miss after TTL expiry")
	}
}

func TestMemoryInvalidate(t *testing.T) {
	c := NewMemory()
	c.Set("digest", []byte("v1"), time.Hour)
	c.Invalidate("digest")

	if _, ok := c.Get("digest"); ok {
		t.Error("expected miss after explicit invalidation")
	}
}

func TestMemoryMissingKey(t *testing.T) {
	c := NewMemory()
	if _, ok := c.Get("nope"); ok {
		t.Error("expected miss for unknown key")
	}
}
