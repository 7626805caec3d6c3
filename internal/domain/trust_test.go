package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrefixTrustIsOfficial(t *testing.T) {
	trust := PrefixTrust{
		OfficialPrefixes: []string{"anthropic", "claude-plugins-official"},
	}

	assert.True(t, trust.IsOfficial("anthropic"))
	assert.True(t, trust.IsOfficial("anthropic-agents"))
	assert.True(t, trust.IsOfficial("claude-plugins-official"))
	assert.False(t, trust.IsOfficial("community-anthropic"))
	assert.False(t, trust.IsOfficial("random-marketplace"))
	assert.False(t, trust.IsOfficial(""))
}

func TestPrefixTrustTier(t *testing.T) {
	trust := PrefixTrust{
		Tiers:       map[string]int{"claude-plugins-official": 100, "anthropic": 90},
		DefaultTier: 50,
	}

	assert.Equal(t, 100, trust.Tier("claude-plugins-official"))
	assert.Equal(t, 90, trust.Tier("anthropic"))
	assert.Equal(t, 50, trust.Tier("anything-else"))
}

func TestDocumentLocation(t *testing.T) {
	d := Document{Marketplace: "mp", Plugin: "p", RelPath: "docs/guide.md"}

	assert.Equal(t, "mp/p/docs/guide.md", d.Location())
	assert.Equal(t, "guide.md", d.Filename())
}

func TestLocationKeys(t *testing.T) {
	l := Location{Marketplace: "mp", Plugin: "p", Path: "commands/run.md"}

	assert.Equal(t, "mp/p/commands/run.md", l.FullKey())
	assert.Equal(t, "run.md", l.Filename())
}

func TestClusterSize(t *testing.T) {
	assert.Zero(t, Cluster{}.Size())
	assert.Equal(t, 3, Cluster{Members: []int{4, 7, 9}}.Size())
}
