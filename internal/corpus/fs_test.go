package corpus

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func longContent(n int) string {
	return strings.Repeat("marketplace plugin content words here ", n)
}

// writeTree lays out a marketplaces root for tests. Paths use slashes
// and are created relative to the returned root.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func TestDocumentsSortedAndFiltered(t *testing.T) {
	root := writeTree(t, map[string]string{
		"mp-b/plugins/tool/README.md":  longContent(5),
		"mp-a/plugins/agent/GUIDE.md":  longContent(5),
		"mp-a/plugins/agent/tiny.md":   "too short",
		"mp-a/plugins/agent/notes.txt": longContent(5),
		"mp-a/backup/old/README.md":    longContent(5),
		".hidden/plugins/x/README.md":  longContent(5),
	})
	src := NewFSSource(root, 100)

	docs, err := src.Documents()
	require.NoError(t, err)

	require.Len(t, docs, 2)
	// Marketplaces scan in sorted order.
	assert.Equal(t, "mp-a", docs[0].Marketplace)
	assert.Equal(t, "agent", docs[0].Plugin)
	assert.Equal(t, "plugins/agent/GUIDE.md", docs[0].RelPath)
	assert.Equal(t, "mp-b", docs[1].Marketplace)
	assert.Equal(t, "tool", docs[1].Plugin)
}

func TestDocumentsAttachMeta(t *testing.T) {
	root := writeTree(t, map[string]string{
		"mp-a/plugins/agent/README.md":   longContent(5),
		"mp-a/plugins/agent/commands.md": longContent(5),
		"mp-a/plugins/agent/LICENSE":     "MIT",
		"mp-b/plugins/bare/GUIDE.md":     longContent(5),
	})
	src := NewFSSource(root, 100)

	docs, err := src.Documents()
	require.NoError(t, err)
	require.Len(t, docs, 3)

	byPlugin := make(map[string][]int)
	for i, d := range docs {
		byPlugin[d.Plugin] = append(byPlugin[d.Plugin], i)
	}
	for _, i := range byPlugin["agent"] {
		assert.Equal(t, 2, docs[i].Meta.FileCount)
		assert.True(t, docs[i].Meta.HasReadme)
		assert.True(t, docs[i].Meta.HasLicense)
	}
	for _, i := range byPlugin["bare"] {
		assert.Equal(t, 1, docs[i].Meta.FileCount)
		assert.False(t, docs[i].Meta.HasReadme)
		assert.False(t, docs[i].Meta.HasLicense)
	}
}

func TestMarketplaceLookup(t *testing.T) {
	root := writeTree(t, map[string]string{
		"My-Marketplace/plugins/p/README.md": longContent(5),
	})
	src := NewFSSource(root, 100)

	docs, err := src.Marketplace("My-Marketplace")
	require.NoError(t, err)
	assert.Len(t, docs, 1)

	// Case-insensitive fallback keeps the on-disk name.
	docs, err = src.Marketplace("my-marketplace")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "My-Marketplace", docs[0].Marketplace)

	_, err = src.Marketplace("absent")
	assert.ErrorContains(t, err, "marketplace not found")
}

func TestPluginLookup(t *testing.T) {
	root := writeTree(t, map[string]string{
		"mp-a/plugins/direct/README.md":       longContent(5),
		"mp-a/plugins/devops/nested/GUIDE.md": longContent(5),
	})
	src := NewFSSource(root, 100)

	docs, err := src.Plugin("mp-a", "direct")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "mp-a/direct", docs[0].Marketplace)
	assert.Equal(t, "README.md", docs[0].RelPath)

	// Category layout: plugins/<category>/<plugin>.
	docs, err = src.Plugin("mp-a", "nested")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "GUIDE.md", docs[0].RelPath)

	_, err = src.Plugin("mp-a", "absent")
	assert.ErrorContains(t, err, "plugin not found")
}

func TestMarketplaces(t *testing.T) {
	root := writeTree(t, map[string]string{
		"mp-b/x.md":         longContent(5),
		"mp-a/y.md":         longContent(5),
		".hidden/z.md":      longContent(5),
		"mp-c/plugins/a.md": longContent(5),
	})
	src := NewFSSource(root, 100)

	names, err := src.Marketplaces()
	require.NoError(t, err)
	assert.Equal(t, []string{"mp-a", "mp-b", "mp-c"}, names)
}

func TestPluginFromPath(t *testing.T) {
	tests := []struct {
		rel  string
		want string
	}{
		{"plugins/agent/README.md", "agent"},
		{"plugins/devops/nested/GUIDE.md", "devops"},
		{"docs/overview.md", "docs"},
		{"README.md", "root"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, pluginFromPath(tt.rel), "rel=%s", tt.rel)
	}
}

func TestScanDir(t *testing.T) {
	root := writeTree(t, map[string]string{
		"pluginX/README.md":      longContent(5),
		"pluginX/docs/deep.md":   longContent(5),
		"pluginX/backup/old.md":  longContent(5),
		"pluginX/short.md":       "tiny",
		"pluginX/assets/img.png": longContent(5),
	})

	docs, err := ScanDir(filepath.Join(root, "pluginX"), "label", 100)
	require.NoError(t, err)

	require.Len(t, docs, 2)
	for _, d := range docs {
		assert.Equal(t, "label", d.Marketplace)
		assert.Equal(t, "pluginX", d.Plugin)
	}
}

func TestDocumentsMissingRoot(t *testing.T) {
	src := NewFSSource(filepath.Join(t.TempDir(), "nope"), 100)
	_, err := src.Documents()
	assert.Error(t, err)
}
