package cache

import (
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCache_GetSet(t *testing.T) {
	c := New[string, int](0, nil)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("a", 3)

	if got, ok := c.Get("a"); !ok || got != 3 {
		t.Errorf("Get(a) = %v, %v, want 3, true", got, ok)
	}
	if _, ok := c.Get("missing"); ok {
		t.Error("Get(missing) ok = true")
	}
	if got := c.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}

	st := c.Stats()
	if st.Hits != 1 || st.Misses != 1 || st.HitRate != 0.5 {
		t.Errorf("Stats() = %v", st)
	}
}

func TestCache_TrimEvictsLeastRecentlyUsed(t *testing.T) {
	var evicted []string
	c := New[string, int](2, func(k string, _ int) {
		evicted = append(evicted, k)
	})
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)
	c.Get("a")

	if c.Len() != 3 {
		t.Fatalf("Set() evicted before Trim(): Len() = %d", c.Len())
	}
	if n := c.Trim(); n != 1 {
		t.Errorf("Trim() = %d, want 1", n)
	}
	if diff := cmp.Diff([]string{"b"}, evicted); diff != "" {
		t.Errorf("evicted mismatch (-want +got):\n%s", diff)
	}
	if _, ok := c.Peek("b"); ok {
		t.Error("b survived Trim()")
	}
	if st := c.Stats(); st.Evictions != 1 {
		t.Errorf("Stats().Evictions = %d, want 1", st.Evictions)
	}
}

func TestCache_PeekDoesNotTouch(t *testing.T) {
	c := New[int, int](1, nil)
	c.Set(1, 1)
	c.Set(2, 2)
	c.Peek(1)
	c.Trim()

	if _, ok := c.Peek(1); ok {
		t.Error("Peek() refreshed recency")
	}
	if _, ok := c.Peek(2); !ok {
		t.Error("most recent entry was evicted")
	}
}

func TestCache_Delete(t *testing.T) {
	c := New[int, string](0, nil)
	for i := range 5 {
		c.Set(i, strconv.Itoa(i))
	}
	if !c.Delete(3) {
		t.Error("Delete(3) = false, want true")
	}
	if c.Delete(3) {
		t.Error("second Delete(3) = true, want false")
	}
	if n := c.DeleteFunc(func(k int, _ string) bool { return k%2 == 0 }); n != 3 {
		t.Errorf("DeleteFunc() = %d, want 3", n)
	}
	if got := c.Len(); got != 1 {
		t.Errorf("Len() = %d, want 1", got)
	}

	c.Clear()
	if got := c.Len(); got != 0 {
		t.Errorf("Len() after Clear() = %d, want 0", got)
	}
	c.Set(9, "9")
	if v, ok := c.Get(9); !ok || v != "9" {
		t.Errorf("Get(9) after Clear() = %q, %v", v, ok)
	}
}

func BenchmarkCacheGet(b *testing.B) {
	c := New[string, int](1000, nil)
	for i := 0; i < 100; i++ {
		c.Set(strconv.Itoa(i), i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get("50")
	}
}

func BenchmarkCacheSetTrim(b *testing.B) {
	c := New[string, int](64, nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Set(strconv.Itoa(i%100), i)
		if i%16 == 0 {
			c.Trim()
		}
	}
}
