// Package determinism provides primitives for deterministic result
// emission. Code that iterates maps for output must go through these
// helpers instead of raw range loops.
package determinism

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
)

// Ordered is the constraint for sortable map keys
type Ordered interface {
	~string | ~int | ~int64 | ~float64
}

// SortedKeys returns the keys of m in ascending order
func SortedKeys[K Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Fingerprint returns a stable hash of v. JSON marshaling sorts map
// keys, so equal values always hash equally regardless of insertion
// order.
func Fingerprint(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:8])
}
