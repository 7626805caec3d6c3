package domain

import "strings"

// PrefixTrust is a TrustPolicy driven by marketplace name prefixes and
// an explicit tier table. Marketplaces absent from the table get the
// default tier.
type PrefixTrust struct {
	OfficialPrefixes []string
	Tiers            map[string]int
	DefaultTier      int
}

// IsOfficial reports whether the marketplace name carries one of the
// configured official prefixes.
func (p PrefixTrust) IsOfficial(marketplace string) bool {
	for _, prefix := range p.OfficialPrefixes {
		if strings.HasPrefix(marketplace, prefix) {
			return true
		}
	}
	return false
}

// Tier returns the configured priority tier for a marketplace.
func (p PrefixTrust) Tier(marketplace string) int {
	if t, ok := p.Tiers[marketplace]; ok {
		return t
	}
	return p.DefaultTier
}
