package cache

import (
	"testing"
	"time"

	"github.com/JNZader/relint/internal/scan"
)

func matches(filename string) []scan.Match {
	return []scan.Match{{Filename: filename, StartLine: 1, EndLine: 1}}
}

func TestLRUCache(t *testing.T) {
	cache := NewLRUCache(2, time.Hour)

	cache.Set("key1", matches("a.py"))

	got, found := cache.Get("key1")
	if !found {
		t.Fatal("Get(key1) missed")
	}
	if len(got) != 1 || got[0].Filename != "a.py" {
		t.Errorf("Get(key1) = %+v", got)
	}

	if _, found := cache.Get("nonexistent"); found {
		t.Error("Get(nonexistent) found, want miss")
	}
}

func TestLRUCacheEmptyEntry(t *testing.T) {
	cache := NewLRUCache(2, 0)

	cache.Set("clean", nil)
	got, found := cache.Get("clean")
	if !found {
		t.Fatal("a file without matches should still be cached")
	}
	if len(got) != 0 {
		t.Errorf("Get(clean) = %v, want empty", got)
	}
}

func TestLRUEviction(t *testing.T) {
	cache := NewLRUCache(2, time.Hour)

	cache.Set("key1", matches("1"))
	cache.Set("key2", matches("2"))
	_, _ = cache.Get("key1")        // key2 is now least recently used
	cache.Set("key3", matches("3")) // evicts key2

	if _, found := cache.Get("key2"); found {
		t.Error("key2 should be evicted")
	}
	if _, found := cache.Get("key1"); !found {
		t.Error("key1 should exist")
	}
	if _, found := cache.Get("key3"); !found {
		t.Error("key3 should exist")
	}
}

func TestLRUUpdate(t *testing.T) {
	cache := NewLRUCache(2, time.Hour)

	cache.Set("key1", matches("old"))
	cache.Set("key1", matches("new"))

	got, _ := cache.Get("key1")
	if got[0].Filename != "new" {
		t.Errorf("Filename = %q, want new", got[0].Filename)
	}
	if stats := cache.Stats(); stats.Entries != 1 {
		t.Errorf("Entries = %d, want 1", stats.Entries)
	}
}

func TestLRUExpiration(t *testing.T) {
	cache := NewLRUCache(10, 10*time.Millisecond)

	cache.Set("key1", matches("a"))

	time.Sleep(20 * time.Millisecond)

	if _, found := cache.Get("key1"); found {
		t.Error("key1 should be expired")
	}
	if stats := cache.Stats(); stats.Entries != 0 {
		t.Errorf("expired entry not removed, Entries = %d", stats.Entries)
	}
}

func TestLRUDeleteAndClear(t *testing.T) {
	cache := NewLRUCache(10, time.Hour)

	cache.Set("key1", matches("1"))
	cache.Set("key2", matches("2"))

	cache.Delete("key1")
	if _, found := cache.Get("key1"); found {
		t.Error("key1 should be deleted")
	}

	cache.Clear()
	if stats := cache.Stats(); stats.Entries != 0 {
		t.Errorf("Entries after Clear() = %d, want 0", stats.Entries)
	}
}

func TestLRUStats(t *testing.T) {
	cache := NewLRUCache(10, time.Hour)

	cache.Set("key1", matches("a"))
	_, _ = cache.Get("key1")        // hit
	_, _ = cache.Get("key1")        // hit
	_, _ = cache.Get("nonexistent") // miss

	stats := cache.Stats()
	if stats.Hits != 2 {
		t.Errorf("Hits = %d, want 2", stats.Hits)
	}
	if stats.Misses != 1 {
		t.Errorf("Misses = %d, want 1", stats.Misses)
	}
	if rate := stats.HitRate(); rate < 0.66 || rate > 0.67 {
		t.Errorf("HitRate() = %v, want 2/3", rate)
	}
	if (Stats{}).HitRate() != 0 {
		t.Error("HitRate() of an unused cache should be 0")
	}
}

func TestComputeKey(t *testing.T) {
	content := []byte("# FIXME\n")

	key1 := ComputeKey("a.py", content, "fp1")
	key2 := ComputeKey("a.py", []byte("# FIXME\n"), "fp1")

	if key1 != key2 {
		t.Error("same input should have same key")
	}
	if key1 == ComputeKey("b.py", content, "fp1") {
		t.Error("different paths should have different keys")
	}
	if key1 == ComputeKey("a.py", content, "fp2") {
		t.Error("different rule sets should have different keys")
	}
	if key1 == ComputeKey("a.py", []byte("# TODO\n"), "fp1") {
		t.Error("different content should have different keys")
	}

	// 32-byte BLAKE3 digest, hex encoded.
	if len(key1) != 64 {
		t.Errorf("Key length = %d, want 64", len(key1))
	}
}
