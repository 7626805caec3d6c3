package engine

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"librarian/internal/domain"
)

func TestNewBaselineEmptyCorpus(t *testing.T) {
	e := testEngine()

	_, err := e.NewBaseline(nil)
	assert.ErrorIs(t, err, ErrEmptyBaseline)

	_, err = e.NewBaseline([]domain.Document{doc("mp-a", "p1", "empty.md", "")})
	assert.ErrorIs(t, err, ErrEmptyBaseline)
}

func TestBaselineSizeSkipsUnsigned(t *testing.T) {
	e := testEngine()
	b, err := e.NewBaseline([]domain.Document{
		doc("mp-a", "p1", "a.md", longText("alpha", 100)),
		doc("mp-a", "p2", "empty.md", ""),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, b.Size())
}

func TestCompareRedundantAndNovel(t *testing.T) {
	e := testEngine()
	template := longText("template", 200)
	b, err := e.NewBaseline([]domain.Document{
		doc("baseline-mp", "p1", "template.md", template),
	})
	require.NoError(t, err)

	cmp, err := b.Compare([]domain.Document{
		doc("target-mp", "q1", "copy.md", template),
		doc("target-mp", "q2", "fresh.md", longText("fresh", 200)),
		doc("target-mp", "q3", "empty.md", ""),
	}, 0)
	require.NoError(t, err)

	assert.Equal(t, 2, cmp.TotalFiles, "unsignable files stay out of the totals")

	require.Len(t, cmp.Redundant, 1)
	assert.Equal(t, "copy.md", cmp.Redundant[0].File)
	assert.Equal(t, 1.0, cmp.Redundant[0].Similarity)
	assert.Equal(t, "baseline-mp/p1/template.md", cmp.Redundant[0].SimilarTo)

	require.Len(t, cmp.Novel, 1)
	assert.Equal(t, "fresh.md", cmp.Novel[0].File)
	assert.Empty(t, cmp.Novel[0].SimilarTo)

	assert.Empty(t, cmp.Partial)
}

func TestComparePartialOverlap(t *testing.T) {
	// Wide threshold window so a moderately overlapping document lands
	// between the two bounds regardless of sketch noise.
	e := New(Config{
		ShingleSize:        3,
		NumPermutations:    128,
		Threshold:          0.25,
		RedundantThreshold: 0.95,
	}, testTrust())

	var shared strings.Builder
	for i := 0; i < 80; i++ {
		fmt.Fprintf(&shared, "shared-word-%d ", i)
	}
	baseDoc := shared.String() + longText("base-tail", 20)
	targetDoc := shared.String() + longText("target-tail", 20)

	b, err := e.NewBaseline([]domain.Document{
		doc("baseline-mp", "p1", "base.md", baseDoc),
	})
	require.NoError(t, err)

	cmp, err := b.Compare([]domain.Document{
		doc("target-mp", "q1", "overlap.md", targetDoc),
	}, 0)
	require.NoError(t, err)

	require.Len(t, cmp.Partial, 1)
	assert.Equal(t, "overlap.md", cmp.Partial[0].File)
	assert.Greater(t, cmp.Partial[0].Similarity, 0.25)
	assert.Less(t, cmp.Partial[0].Similarity, 0.95)
	assert.Empty(t, cmp.Novel)
	assert.Empty(t, cmp.Redundant)
}

func TestCompareEmptyTarget(t *testing.T) {
	e := testEngine()
	b, err := e.NewBaseline([]domain.Document{
		doc("baseline-mp", "p1", "a.md", longText("alpha", 100)),
	})
	require.NoError(t, err)

	cmp, err := b.Compare(nil, 0)
	require.NoError(t, err)

	assert.Zero(t, cmp.TotalFiles)
	assert.Equal(t, domain.ConfidenceNone, cmp.Sanity.Confidence)
	// Slices stay non-nil so the JSON output shows [] instead of null.
	assert.NotNil(t, cmp.Novel)
	assert.NotNil(t, cmp.Partial)
	assert.NotNil(t, cmp.Redundant)
}
