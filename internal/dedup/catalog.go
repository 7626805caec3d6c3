// Package dedup builds the exact-duplicate catalog: identity-level
// grouping of documents by content hash with canonical selection, plus
// detection of formatting-only variants via a normalized hash.
package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"librarian/internal/domain"
)

// Group is a set of documents with byte-identical content.
type Group struct {
	ExactHash string
	Members   []int
	Canonical int
}

// VariantGroup is a set of documents whose content differs only in
// whitespace or letter case: same normalized hash, two or more distinct
// exact hashes.
type VariantGroup struct {
	NormalizedHash string
	Members        []int
}

// Catalog is the result of exact-duplicate grouping over one corpus.
type Catalog struct {
	Groups   []Group
	Variants []VariantGroup

	TotalScanned   int
	UniqueCount    int
	DuplicateCount int
}

// ExactHash returns the truncated sha256 of the raw document bytes.
func ExactHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:8])
}

// NormalizedHash hashes the content after whitespace collapse and case
// folding, so formatting-only edits map to the same value.
func NormalizedHash(content string) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(content), " "))
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:8])
}

// Build groups the documents by exact hash, selects a canonical member
// for each group, and collects formatting-variant groups. Input order is
// the tie-breaker everywhere, so identical corpora produce identical
// catalogs.
func Build(docs []domain.Document, trust domain.TrustPolicy) Catalog {
	exact := make(map[string][]int)
	norm := make(map[string][]int)
	exactOrder := make([]string, 0)
	normOrder := make([]string, 0)

	for i, d := range docs {
		eh := ExactHash(d.Content)
		if _, ok := exact[eh]; !ok {
			exactOrder = append(exactOrder, eh)
		}
		exact[eh] = append(exact[eh], i)

		nh := NormalizedHash(d.Content)
		if _, ok := norm[nh]; !ok {
			normOrder = append(normOrder, nh)
		}
		norm[nh] = append(norm[nh], i)
	}

	cat := Catalog{TotalScanned: len(docs), UniqueCount: len(exact)}
	for _, eh := range exactOrder {
		members := exact[eh]
		cat.Groups = append(cat.Groups, Group{
			ExactHash: eh,
			Members:   members,
			Canonical: selectCanonical(members, docs, trust),
		})
		cat.DuplicateCount += len(members) - 1
	}
	sort.SliceStable(cat.Groups, func(i, j int) bool {
		return len(cat.Groups[i].Members) > len(cat.Groups[j].Members)
	})

	for _, nh := range normOrder {
		members := norm[nh]
		if len(members) < 2 {
			continue
		}
		distinct := make(map[string]struct{})
		for _, i := range members {
			distinct[ExactHash(docs[i].Content)] = struct{}{}
		}
		// A variant group needs real formatting differences, not just
		// byte-identical copies landing in the same normalized bucket.
		if len(distinct) < 2 {
			continue
		}
		cat.Variants = append(cat.Variants, VariantGroup{NormalizedHash: nh, Members: members})
	}
	return cat
}

// selectCanonical picks the group representative: highest trust tier
// first, then plugin file count, then readme and license presence.
// Earlier input order wins ties.
func selectCanonical(members []int, docs []domain.Document, trust domain.TrustPolicy) int {
	best := members[0]
	for _, i := range members[1:] {
		if scoreLess(docs[best], docs[i], trust) {
			best = i
		}
	}
	return best
}

func scoreLess(a, b domain.Document, trust domain.TrustPolicy) bool {
	at, bt := tier(a, trust), tier(b, trust)
	if at != bt {
		return at < bt
	}
	if a.Meta.FileCount != b.Meta.FileCount {
		return a.Meta.FileCount < b.Meta.FileCount
	}
	if a.Meta.HasReadme != b.Meta.HasReadme {
		return b.Meta.HasReadme
	}
	if a.Meta.HasLicense != b.Meta.HasLicense {
		return b.Meta.HasLicense
	}
	return false
}

func tier(d domain.Document, trust domain.TrustPolicy) int {
	if trust == nil {
		return 0
	}
	return trust.Tier(d.Marketplace)
}
