package cache

import (
	"testing"
	"time"
)

func TestLRUGetSet(t *testing.T) {
	c := NewLRU[string](2, time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Error("empty cache returned a hit")
	}

	c.Set("a", "1")
	if got, ok := c.Get("a"); !ok || got != "1" {
		t.Errorf("Get(a) = %q, %v", got, ok)
	}

	c.Set("a", "2")
	if got, _ := c.Get("a"); got != "2" {
		t.Errorf("Set should overwrite, got %q", got)
	}
	if c.Size() != 1 {
		t.Errorf("Size = %d, want 1", c.Size())
	}
}

func TestLRUEviction(t *testing.T) {
	c := NewLRU[int](2, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a") // refresh a, making b the eviction candidate
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Error("least recently used entry survived eviction")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("recently used entry was evicted")
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("new entry was evicted")
	}
}

func TestLRUExpiry(t *testing.T) {
	c := NewLRU[int](8, time.Nanosecond)
	c.Set("a", 1)
	time.Sleep(time.Millisecond)

	if _, ok := c.Get("a"); ok {
		t.Error("expired entry returned a hit")
	}
	if c.Size() != 0 {
		t.Errorf("Size = %d after expired read, want 0", c.Size())
	}
}

func TestLRUDeletePrefix(t *testing.T) {
	c := NewLRU[int](8, time.Minute)
	c.Set("org-1/2024-01", 1)
	c.Set("org-1/2024-02", 2)
	c.Set("org-2/2024-01", 3)

	if n := c.DeletePrefix("org-1/"); n != 2 {
		t.Errorf("DeletePrefix dropped %d, want 2", n)
	}
	if _, ok := c.Get("org-1/2024-01"); ok {
		t.Error("prefixed entry survived")
	}
	if _, ok := c.Get("org-2/2024-01"); !ok {
		t.Error("unrelated entry was dropped")
	}
}

func TestLRUCleanExpired(t *testing.T) {
	c := NewLRU[int](8, time.Nanosecond)
	c.Set("a", 1)
	c.Set("b", 2)
	time.Sleep(time.Millisecond)

	if n := c.CleanExpired(); n != 2 {
		t.Errorf("CleanExpired = %d, want 2", n)
	}
	if c.Size() != 0 {
		t.Errorf("Size = %d, want 0", c.Size())
	}
}
