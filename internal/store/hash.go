package store

import (
	"crypto/sha256"
	"fmt"
	"sort"
)

// ComputeContentHash hashes a document's source bytes.
func ComputeContentHash(src []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(src))
}

// ComputeEdgeHash computes a deterministic hash of an edge set. Order and
// duplicates do not affect the hash, so two runs producing the same
// relationships compare equal even if rules were reordered.
func ComputeEdgeHash(edges []*Edge) string {
	keys := make([]string, 0, len(edges))
	seen := make(map[string]struct{}, len(edges))
	for _, e := range edges {
		k := fmt.Sprintf("%s:%d:%d", e.Rel, e.FromNode, e.ToNode)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := sha256.New()
	for _, k := range keys {
		fmt.Fprintf(h, "edge:%s\n", k)
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}
