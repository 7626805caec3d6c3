package lsh

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"librarian/internal/minhash"
)

func shingleSet(prefix string, n int) map[string]struct{} {
	set := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		set[fmt.Sprintf("%s-%d", prefix, i)] = struct{}{}
	}
	return set
}

func TestTuneParams(t *testing.T) {
	tests := []struct {
		threshold float64
		numPerm   int
		bands     int
		rows      int
	}{
		// For K=128 and T=0.7 the closest 0.5-crossing is b=16, r=8
		// (crossing at roughly 0.674).
		{0.7, 128, 16, 8},
		// Degenerate thresholds fall back to the defaults.
		{0, 128, 16, 8},
		{1.5, 128, 16, 8},
	}
	for _, tt := range tests {
		idx := New(tt.threshold, tt.numPerm)
		bands, rows := idx.Params()
		assert.Equal(t, tt.bands, bands, "threshold=%v numPerm=%d", tt.threshold, tt.numPerm)
		assert.Equal(t, tt.rows, rows, "threshold=%v numPerm=%d", tt.threshold, tt.numPerm)
		assert.Equal(t, tt.bands*tt.rows, 128)
	}
}

func TestQueryFindsNearDuplicates(t *testing.T) {
	gen := minhash.NewGenerator(128)
	idx := New(0.7, 128)

	// Base set and a copy missing 3 of 300 shingles: J about 0.99.
	base := shingleSet("tok", 300)
	near := shingleSet("tok", 297)

	baseSig, err := gen.Sign(base)
	require.NoError(t, err)
	nearSig, err := gen.Sign(near)
	require.NoError(t, err)

	idx.Insert(0, baseSig)
	assert.Contains(t, idx.Query(nearSig), 0)
}

func TestQueryIdenticalAlwaysCollides(t *testing.T) {
	gen := minhash.NewGenerator(128)
	idx := New(0.7, 128)

	sig, err := gen.Sign(shingleSet("tok", 50))
	require.NoError(t, err)

	idx.Insert(7, sig)
	assert.Equal(t, []int{7}, idx.Query(sig))
}

func TestQuerySkipsUnrelated(t *testing.T) {
	gen := minhash.NewGenerator(128)
	idx := New(0.7, 128)

	for i := 0; i < 20; i++ {
		sig, err := gen.Sign(shingleSet(fmt.Sprintf("corpus-%d", i), 200))
		require.NoError(t, err)
		idx.Insert(i, sig)
	}

	probe, err := gen.Sign(shingleSet("probe", 200))
	require.NoError(t, err)
	assert.Empty(t, idx.Query(probe))
}

func TestQueryResultSortedAndDeduplicated(t *testing.T) {
	gen := minhash.NewGenerator(128)
	idx := New(0.7, 128)

	sig, err := gen.Sign(shingleSet("tok", 100))
	require.NoError(t, err)

	// Same signature under several ids: each id appears once, sorted,
	// even though every band bucket holds all of them.
	idx.Insert(5, sig)
	idx.Insert(1, sig)
	idx.Insert(3, sig)

	assert.Equal(t, []int{1, 3, 5}, idx.Query(sig))
}

func TestQueryOnEmptyIndex(t *testing.T) {
	gen := minhash.NewGenerator(128)
	idx := New(0.7, 128)

	sig, err := gen.Sign(shingleSet("tok", 10))
	require.NoError(t, err)
	assert.Empty(t, idx.Query(sig))
}
