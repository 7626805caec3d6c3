// Package lsh provides a banded locality-sensitive hash index over
// MinHash signatures for approximate near-duplicate retrieval.
package lsh

import (
	"encoding/binary"
	"hash/fnv"
	"math"
	"sort"

	"librarian/internal/minhash"
)

// Index buckets signatures by band so documents above the similarity
// threshold are likely to share at least one bucket. It lives in memory
// for a single run and is never persisted.
type Index struct {
	bands   int
	rows    int
	buckets map[uint64][]int
}

// New creates an Index tuned for the given similarity threshold and
// signature length. Bands b and rows r are chosen with b*r = numPerm so
// that the collision-probability curve 1-(1-s^r)^b crosses 0.5 as close
// to the threshold as possible. This is a one-time construction step.
func New(threshold float64, numPerm int) *Index {
	bands, rows := tuneParams(threshold, numPerm)
	return &Index{
		bands:   bands,
		rows:    rows,
		buckets: make(map[uint64][]int),
	}
}

// Params returns the chosen band count and rows per band.
func (idx *Index) Params() (bands, rows int) { return idx.bands, idx.rows }

// Insert adds a signature to every band bucket it hashes into.
func (idx *Index) Insert(id int, sig minhash.Signature) {
	for b := 0; b < idx.bands; b++ {
		key := idx.bandKey(b, sig)
		idx.buckets[key] = append(idx.buckets[key], id)
	}
}

// Query returns the ids sharing at least one band bucket with the given
// signature, sorted and deduplicated. The result is a superset of the
// true above-threshold matches; callers needing an exact figure
// recompute similarity on the candidates. A querying document that was
// itself inserted appears in its own result and must be excluded by the
// caller.
func (idx *Index) Query(sig minhash.Signature) []int {
	seen := make(map[int]struct{})
	for b := 0; b < idx.bands; b++ {
		for _, id := range idx.buckets[idx.bandKey(b, sig)] {
			seen[id] = struct{}{}
		}
	}
	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// bandKey hashes one contiguous band of the signature, mixing in the
// band index so equal rows in different bands never collide.
func (idx *Index) bandKey(band int, sig minhash.Signature) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(band))
	h.Write(buf[:])
	start := band * idx.rows
	for _, v := range sig[start : start+idx.rows] {
		binary.LittleEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}
	return h.Sum64()
}

// tuneParams picks the divisor pair (b, r) of numPerm whose collision
// curve crosses probability 0.5 nearest the threshold. The crossing
// point for a given pair is s = (1 - 0.5^(1/b))^(1/r).
func tuneParams(threshold float64, numPerm int) (int, int) {
	if numPerm <= 0 {
		numPerm = 128
	}
	if threshold <= 0 || threshold >= 1 {
		threshold = 0.7
	}
	bestBands, bestRows := numPerm, 1
	bestDist := math.Inf(1)
	for bands := 1; bands <= numPerm; bands++ {
		if numPerm%bands != 0 {
			continue
		}
		rows := numPerm / bands
		crossing := math.Pow(1-math.Pow(0.5, 1/float64(bands)), 1/float64(rows))
		if d := math.Abs(crossing - threshold); d < bestDist {
			bestDist = d
			bestBands, bestRows = bands, rows
		}
	}
	return bestBands, bestRows
}
