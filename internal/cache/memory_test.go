package cache

import (
	"errors"
	"testing"
)

func TestMemoryGetPut(t *testing.T) {
	c := NewMemory(100)

	if _, ok := c.Get("a"); ok {
		t.Fatal("empty cache returned a hit")
	}
	if err := c.Put("a", []byte("hello")); err != nil {
		t.Fatal(err)
	}
	got, ok := c.Get("a")
	if !ok || string(got) != "hello" {
		t.Errorf("Get = %q, %v", got, ok)
	}

	s := c.Stats()
	if s.Hits != 1 || s.Misses != 1 || s.Size != 5 || s.Items != 1 {
		t.Errorf("unexpected stats %+v", s)
	}
	if s.HitRate() != 0.5 {
		t.Errorf("HitRate = %f", s.HitRate())
	}
}

func TestMemoryEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewMemory(10)
	_ = c.Put("a", make([]byte, 4))
	_ = c.Put("b", make([]byte, 4))
	c.Get("a")
	_ = c.Put("c", make([]byte, 4))

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("a was recently used and should remain")
	}
	if c.Stats().Evictions != 1 {
		t.Errorf("Evictions = %d", c.Stats().Evictions)
	}
}

func TestMemoryReplaceAndTooLarge(t *testing.T) {
	c := NewMemory(8)
	_ = c.Put("a", make([]byte, 2))
	_ = c.Put("a", make([]byte, 6))
	if c.Stats().Size != 6 {
		t.Errorf("Size after replace = %d", c.Stats().Size)
	}
	if err := c.Put("big", make([]byte, 9)); !errors.Is(err, ErrItemTooLarge) {
		t.Errorf("expected ErrItemTooLarge, got %v", err)
	}
	_ = c.Delete("a")
	_ = c.Clear()
	if c.Stats().Items != 0 {
		t.Error("cache should be empty")
	}
}

func TestKey(t *testing.T) {
	a := Key("piper", "amy", "hello", 2.0)
	if a != Key("piper", "amy", "hello", 2.0) {
		t.Error("Key is not deterministic")
	}
	for _, other := range []string{
		Key("mock", "amy", "hello", 2.0),
		Key("piper", "bob", "hello", 2.0),
		Key("piper", "amy", "hello!", 2.0),
		Key("piper", "amy", "hello", 1.6),
	} {
		if other == a {
			t.Error("different inputs produced the same key")
		}
	}
}
