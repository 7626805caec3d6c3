// Package cluster groups signed documents into near-duplicate clusters
// via LSH candidate retrieval and classifies each cluster.
package cluster

import (
	"sort"

	"librarian/internal/domain"
	"librarian/internal/lsh"
	"librarian/internal/minhash"
)

// Config holds the thresholds for scaffold classification.
type Config struct {
	ScaffoldMinCopies     int
	ScaffoldMinSimilarity float64
}

// Builder forms clusters from a signed corpus. The pass is greedy and
// seed-order dependent: when candidate sets overlap, a document joins
// whichever cluster's seed comes first in corpus order. Corpus order
// must therefore be fixed before building.
type Builder struct {
	cfg   Config
	trust domain.TrustPolicy
}

// NewBuilder creates a Builder with the given thresholds and trust policy.
func NewBuilder(cfg Config, trust domain.TrustPolicy) *Builder {
	if cfg.ScaffoldMinCopies <= 0 {
		cfg.ScaffoldMinCopies = 5
	}
	if cfg.ScaffoldMinSimilarity <= 0 {
		cfg.ScaffoldMinSimilarity = 0.98
	}
	return &Builder{cfg: cfg, trust: trust}
}

// Build runs a single greedy pass over the documents in order. sigs[i]
// is the signature of docs[i], nil when the document had no usable
// content and was never indexed. Only clusters of two or more documents
// are returned, largest first. No document appears in two clusters.
func (b *Builder) Build(docs []domain.Document, sigs []minhash.Signature, idx *lsh.Index) []domain.Cluster {
	assigned := make(map[int]struct{})
	var clusters []domain.Cluster

	for i := range docs {
		if _, ok := assigned[i]; ok || sigs[i] == nil {
			continue
		}
		members := make([]int, 0, 4)
		for _, j := range idx.Query(sigs[i]) {
			if _, ok := assigned[j]; ok || sigs[j] == nil {
				continue
			}
			members = append(members, j)
		}
		if len(members) < 2 {
			continue
		}

		c := domain.Cluster{
			Members:       members,
			AvgSimilarity: avgPairwise(members, sigs),
		}
		b.classify(&c, docs)
		clusters = append(clusters, c)

		for _, j := range members {
			assigned[j] = struct{}{}
		}
	}

	sort.SliceStable(clusters, func(i, j int) bool {
		return clusters[i].Size() > clusters[j].Size()
	})
	return clusters
}

// avgPairwise computes the mean sketch-estimated similarity over every
// member pair. O(size^2); fine for the small clusters this tool sees,
// a known cost for very large ones.
func avgPairwise(members []int, sigs []minhash.Signature) float64 {
	if len(members) < 2 {
		return 0
	}
	sum := 0.0
	pairs := 0
	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			sum += minhash.Estimate(sigs[members[i]], sigs[members[j]])
			pairs++
		}
	}
	return sum / float64(pairs)
}
