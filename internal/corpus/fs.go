// Package corpus loads documents from a marketplaces directory tree.
// All I/O happens here, before the engine runs; unreadable files are
// skipped best-effort, never surfaced as engine errors.
package corpus

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"librarian/internal/domain"
)

// FSSource reads markdown content files from a marketplaces root, one
// corpus per top-level directory. Documents below the minimum length
// are filtered out before tokenization ever sees them.
type FSSource struct {
	root      string
	minLength int
}

// NewFSSource creates a source rooted at the marketplaces directory.
func NewFSSource(root string, minLength int) *FSSource {
	if minLength <= 0 {
		minLength = 100
	}
	return &FSSource{root: root, minLength: minLength}
}

// Documents scans every marketplace in sorted order and returns their
// content files. The order is deterministic, which the greedy
// clustering pass depends on.
func (s *FSSource) Documents() ([]domain.Document, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("reading marketplaces dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	var docs []domain.Document
	for _, name := range names {
		mpDocs, err := s.scanMarketplace(filepath.Join(s.root, name), name)
		if err != nil {
			return nil, err
		}
		docs = append(docs, mpDocs...)
	}
	attachMeta(docs, s.root)
	return docs, nil
}

// Marketplace returns the documents of a single marketplace. Lookup is
// exact first, then case-insensitive.
func (s *FSSource) Marketplace(name string) ([]domain.Document, error) {
	dir, actual, err := s.findMarketplace(name)
	if err != nil {
		return nil, err
	}
	docs, err := s.scanMarketplace(dir, actual)
	if err != nil {
		return nil, err
	}
	attachMeta(docs, s.root)
	return docs, nil
}

// Plugin returns the documents of one plugin within a marketplace,
// looked up directly, under plugins/, or under a plugins/ category.
func (s *FSSource) Plugin(marketplace, plugin string) ([]domain.Document, error) {
	mpDir, actual, err := s.findMarketplace(marketplace)
	if err != nil {
		return nil, err
	}
	pluginDir := findPluginDir(mpDir, plugin)
	if pluginDir == "" {
		return nil, fmt.Errorf("plugin not found: %s in %s", plugin, actual)
	}
	return ScanDir(pluginDir, actual+"/"+plugin, s.minLength)
}

// Marketplaces lists the available marketplace names, sorted.
func (s *FSSource) Marketplaces() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func (s *FSSource) findMarketplace(name string) (dir, actual string, err error) {
	direct := filepath.Join(s.root, name)
	if info, statErr := os.Stat(direct); statErr == nil && info.IsDir() {
		return direct, name, nil
	}
	entries, readErr := os.ReadDir(s.root)
	if readErr != nil {
		return "", "", readErr
	}
	for _, e := range entries {
		if e.IsDir() && strings.EqualFold(e.Name(), name) {
			return filepath.Join(s.root, e.Name()), e.Name(), nil
		}
	}
	return "", "", fmt.Errorf("marketplace not found: %s", name)
}

func (s *FSSource) scanMarketplace(dir, name string) ([]domain.Document, error) {
	var docs []domain.Document
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
			return nil
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}
		if strings.Contains(strings.ToLower(path), "backup") {
			return nil
		}
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read %s: %v\n", path, readErr)
			return nil
		}
		if len(data) < s.minLength {
			return nil
		}
		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)
		docs = append(docs, domain.Document{
			Marketplace: name,
			Plugin:      pluginFromPath(rel),
			RelPath:     rel,
			Content:     string(data),
		})
		return nil
	})
	return docs, err
}

// pluginFromPath infers the plugin subgroup from a relative path:
// the segment after a "plugins" directory when present, otherwise the
// first path segment, otherwise "root".
func pluginFromPath(rel string) string {
	parts := strings.Split(rel, "/")
	for i, p := range parts {
		if p == "plugins" && i+1 < len(parts)-1 {
			return parts[i+1]
		}
	}
	if len(parts) > 1 {
		return parts[0]
	}
	return "root"
}

// attachMeta fills per-plugin metadata used by canonical selection:
// content file counts and readme/license presence in the plugin
// directory.
func attachMeta(docs []domain.Document, root string) {
	counts := make(map[string]int)
	for _, d := range docs {
		counts[d.Marketplace+"/"+d.Plugin]++
	}
	metaCache := make(map[string]domain.DocumentMeta)
	for i := range docs {
		key := docs[i].Marketplace + "/" + docs[i].Plugin
		meta, ok := metaCache[key]
		if !ok {
			dir := pluginDir(root, docs[i])
			meta = domain.DocumentMeta{
				FileCount:  counts[key],
				HasReadme:  fileExists(filepath.Join(dir, "README.md")),
				HasLicense: fileExists(filepath.Join(dir, "LICENSE")),
			}
			metaCache[key] = meta
		}
		docs[i].Meta = meta
	}
}

func pluginDir(root string, d domain.Document) string {
	mp := filepath.Join(root, d.Marketplace)
	if d.Plugin == "root" {
		return mp
	}
	parts := strings.Split(d.RelPath, "/")
	for i, p := range parts {
		if p == d.Plugin {
			return filepath.Join(mp, filepath.Join(parts[:i+1]...))
		}
	}
	return mp
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// findPluginDir locates a plugin directory within a marketplace.
func findPluginDir(mpDir, plugin string) string {
	candidates := []string{
		filepath.Join(mpDir, plugin),
		filepath.Join(mpDir, "plugins", plugin),
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && info.IsDir() {
			return c
		}
	}
	categories, err := os.ReadDir(filepath.Join(mpDir, "plugins"))
	if err != nil {
		return ""
	}
	for _, cat := range categories {
		if !cat.IsDir() {
			continue
		}
		c := filepath.Join(mpDir, "plugins", cat.Name(), plugin)
		if info, err := os.Stat(c); err == nil && info.IsDir() {
			return c
		}
	}
	return ""
}

// ScanDir reads the content files under one directory, labelling every
// document with the given corpus label. Used for compare targets that
// are a single plugin or arbitrary directory rather than a full
// marketplace tree.
func ScanDir(dir, label string, minLength int) ([]domain.Document, error) {
	if minLength <= 0 {
		minLength = 100
	}
	var docs []domain.Document
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
			return nil
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}
		if strings.Contains(strings.ToLower(path), "backup") {
			return nil
		}
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read %s: %v\n", path, readErr)
			return nil
		}
		if len(data) < minLength {
			return nil
		}
		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			return relErr
		}
		docs = append(docs, domain.Document{
			Marketplace: label,
			Plugin:      filepath.Base(dir),
			RelPath:     filepath.ToSlash(rel),
			Content:     string(data),
		})
		return nil
	})
	return docs, err
}
