package cluster

import (
	"sort"

	"librarian/internal/domain"
)

// classify fills in the cluster's marketplaces, type tag and official
// flag from its members.
//
// A cluster is internal when every member shares one marketplace, and a
// scaffold when it is internal, large, and near-identical (repeated
// boilerplate within a single source). Everything else spans multiple
// marketplaces, the analytically interesting case.
func (b *Builder) classify(c *domain.Cluster, docs []domain.Document) {
	seen := make(map[string]struct{})
	for _, i := range c.Members {
		seen[docs[i].Marketplace] = struct{}{}
		if b.trust != nil && b.trust.IsOfficial(docs[i].Marketplace) {
			c.HasOfficial = true
		}
	}
	c.Marketplaces = make([]string, 0, len(seen))
	for mp := range seen {
		c.Marketplaces = append(c.Marketplaces, mp)
	}
	sort.Strings(c.Marketplaces)

	internal := len(seen) == 1
	scaffold := internal &&
		c.Size() >= b.cfg.ScaffoldMinCopies &&
		c.AvgSimilarity >= b.cfg.ScaffoldMinSimilarity

	switch {
	case scaffold:
		c.Type = domain.TypeScaffold
	case internal:
		c.Type = domain.TypeInternal
	default:
		c.Type = domain.TypeCross
	}
}
