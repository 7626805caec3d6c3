package minhash

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shingleSet(prefix string, n int) map[string]struct{} {
	set := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		set[fmt.Sprintf("%s-%d", prefix, i)] = struct{}{}
	}
	return set
}

func TestSignDeterministic(t *testing.T) {
	set := shingleSet("tok", 200)

	a, err := NewGenerator(128).Sign(set)
	require.NoError(t, err)
	b, err := NewGenerator(128).Sign(set)
	require.NoError(t, err)

	// Independent generators with the default seed must agree, or
	// re-running on an unchanged corpus would produce different reports.
	assert.Equal(t, a, b)
}

func TestSignEmptySet(t *testing.T) {
	_, err := NewGenerator(128).Sign(map[string]struct{}{})
	assert.ErrorIs(t, err, ErrEmptyShingleSet)
}

func TestSignatureLength(t *testing.T) {
	gen := NewGenerator(64)
	assert.Equal(t, 64, gen.NumPerm())

	sig, err := gen.Sign(shingleSet("tok", 10))
	require.NoError(t, err)
	assert.Len(t, sig, 64)
}

func TestEstimateIdenticalSets(t *testing.T) {
	gen := NewGenerator(128)
	sig, err := gen.Sign(shingleSet("tok", 150))
	require.NoError(t, err)

	assert.Equal(t, 1.0, Estimate(sig, sig))
}

func TestEstimateDisjointSets(t *testing.T) {
	gen := NewGenerator(128)
	a, err := gen.Sign(shingleSet("left", 200))
	require.NoError(t, err)
	b, err := gen.Sign(shingleSet("right", 200))
	require.NoError(t, err)

	assert.Less(t, Estimate(a, b), 0.1)
}

func TestEstimateMismatchedLengths(t *testing.T) {
	a, err := NewGenerator(128).Sign(shingleSet("tok", 10))
	require.NoError(t, err)
	b, err := NewGenerator(64).Sign(shingleSet("tok", 10))
	require.NoError(t, err)

	assert.Zero(t, Estimate(a, b))
	assert.Zero(t, Estimate(nil, nil))
}

func TestEstimateTracksJaccard(t *testing.T) {
	// 100 shared shingles, 50 unique on each side: J = 100/200 = 0.5.
	a := shingleSet("shared", 100)
	b := shingleSet("shared", 100)
	for s := range shingleSet("only-a", 50) {
		a[s] = struct{}{}
	}
	for s := range shingleSet("only-b", 50) {
		b[s] = struct{}{}
	}
	require.InDelta(t, 0.5, Jaccard(a, b), 1e-9)

	gen := NewGenerator(128)
	sa, err := gen.Sign(a)
	require.NoError(t, err)
	sb, err := gen.Sign(b)
	require.NoError(t, err)

	// K=128 gives a standard error around 0.044 at J=0.5.
	assert.InDelta(t, 0.5, Estimate(sa, sb), 0.15)
}

func TestJaccard(t *testing.T) {
	a := shingleSet("x", 4)
	assert.Equal(t, 1.0, Jaccard(a, a))
	assert.Equal(t, 1.0, Jaccard(map[string]struct{}{}, map[string]struct{}{}))
	assert.Zero(t, Jaccard(a, map[string]struct{}{}))
	assert.Zero(t, Jaccard(a, shingleSet("y", 4)))
}

func TestSeedChangesHashFamily(t *testing.T) {
	set := shingleSet("tok", 100)
	a, err := NewGeneratorWithSeed(128, 1).Sign(set)
	require.NoError(t, err)
	b, err := NewGeneratorWithSeed(128, 2).Sign(set)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}
