// Package cache memoizes per-file scan results.
package cache

import (
	"encoding/hex"

	"github.com/zeebo/blake3"

	"github.com/JNZader/relint/internal/scan"
)

// Cache stores the matches produced by scanning one file's content with one
// rule set.
type Cache interface {
	// Get retrieves cached matches.
	Get(key string) ([]scan.Match, bool)

	// Set stores the matches for key. A nil slice is a valid entry.
	Set(key string, matches []scan.Match)

	// Clear removes all cached entries.
	Clear()

	Stats() Stats
}

// Stats contains cache statistics.
type Stats struct {
	Hits    int64
	Misses  int64
	Entries int
}

// HitRate returns hits / (hits + misses), or 0 before any lookup.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// ComputeKey derives the cache key of scanning content, read from path,
// with the rule set identified by fingerprint. The path is part of the key
// because rule file patterns and match filenames depend on it.
func ComputeKey(path string, content []byte, fingerprint string) string {
	h := blake3.New()
	_, _ = h.Write([]byte(fingerprint))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(path))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write(content)
	return hex.EncodeToString(h.Sum(nil))
}
