// Package minhash implements MinHash sketches for Jaccard similarity
// estimation over shingle sets.
package minhash

import (
	"errors"
	"hash/fnv"
	"math"
	"math/rand"
)

// mersennePrime is 2^31 - 1, the modulus for the universal hash family.
const mersennePrime = 1<<31 - 1

// defaultSeed fixes the hash family so sketches are reproducible across
// runs; re-running on an unchanged corpus must produce identical output.
const defaultSeed = 1

// ErrEmptyShingleSet is returned when a sketch is requested for a set
// with no shingles. Callers must filter empty documents first.
var ErrEmptyShingleSet = errors.New("minhash: cannot sign an empty shingle set")

// Signature is a fixed-length MinHash sketch. The expected fraction of
// equal positions between two signatures estimates the Jaccard
// similarity of the underlying shingle sets.
type Signature []uint64

// permutation is one member of the universal hash family
// h(x) = (a*x + b) mod p.
type permutation struct {
	a uint64
	b uint64
}

// Generator produces MinHash signatures using K independent hash
// permutations derived deterministically from a fixed seed.
type Generator struct {
	perms []permutation
}

// NewGenerator creates a Generator with numPerm permutations.
func NewGenerator(numPerm int) *Generator {
	return NewGeneratorWithSeed(numPerm, defaultSeed)
}

// NewGeneratorWithSeed creates a Generator whose hash family is derived
// from the given seed.
func NewGeneratorWithSeed(numPerm int, seed int64) *Generator {
	if numPerm <= 0 {
		numPerm = 128
	}
	rng := rand.New(rand.NewSource(seed))
	perms := make([]permutation, numPerm)
	for i := range perms {
		// a must be non-zero for the family to stay universal.
		perms[i] = permutation{
			a: uint64(rng.Int63n(mersennePrime-1)) + 1,
			b: uint64(rng.Int63n(mersennePrime)),
		}
	}
	return &Generator{perms: perms}
}

// NumPerm returns the signature length K.
func (g *Generator) NumPerm() int { return len(g.perms) }

// Sign computes the MinHash signature of a shingle set. Signing an empty
// set is a precondition violation and returns ErrEmptyShingleSet.
func (g *Generator) Sign(shingles map[string]struct{}) (Signature, error) {
	if len(shingles) == 0 {
		return nil, ErrEmptyShingleSet
	}
	sig := make(Signature, len(g.perms))
	for i := range sig {
		sig[i] = math.MaxUint64
	}
	for s := range shingles {
		// Reduce the base hash below the modulus so a*x+b cannot
		// overflow uint64 (a, b, x all < 2^31).
		x := baseHash(s) % mersennePrime
		for i, p := range g.perms {
			h := (p.a*x + p.b) % mersennePrime
			if h < sig[i] {
				sig[i] = h
			}
		}
	}
	return sig, nil
}

// Estimate returns the fraction of equal positions between two
// signatures, an unbiased estimate of the true Jaccard similarity.
// Signatures of different lengths are incomparable and score zero.
func Estimate(a, b Signature) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	matches := 0
	for i := range a {
		if a[i] == b[i] {
			matches++
		}
	}
	return float64(matches) / float64(len(a))
}

// Jaccard computes the exact Jaccard similarity of two shingle sets.
// Used by tests to validate the sketch estimate against ground truth.
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for s := range a {
		if _, ok := b[s]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

func baseHash(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}
