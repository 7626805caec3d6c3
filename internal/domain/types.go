package domain

import "path"

// Document is a single content file loaded from a marketplace.
// Identity (marketplace, plugin, relative path) is fixed at scan time.
type Document struct {
	Marketplace string
	Plugin      string
	RelPath     string
	Content     string
	Meta        DocumentMeta
}

// DocumentMeta carries per-plugin facts used for canonical selection.
type DocumentMeta struct {
	FileCount  int
	HasReadme  bool
	HasLicense bool
}

// Location returns the marketplace/plugin/path key for the document.
func (d Document) Location() string {
	return d.Marketplace + "/" + d.Plugin + "/" + d.RelPath
}

// Filename returns the base name of the document's relative path.
func (d Document) Filename() string {
	return path.Base(d.RelPath)
}

// Location is a document position recorded in a similarity report.
type Location struct {
	Marketplace string `json:"marketplace"`
	Plugin      string `json:"plugin"`
	Path        string `json:"path"`
	IsOfficial  bool   `json:"is_official"`
}

// Filename returns the base name of the location's path.
func (l Location) Filename() string {
	return path.Base(l.Path)
}

// FullKey returns the marketplace/plugin/path key for the location.
func (l Location) FullKey() string {
	return l.Marketplace + "/" + l.Plugin + "/" + l.Path
}

// Cluster type tags.
const (
	TypeScaffold = "scaffold"
	TypeInternal = "internal"
	TypeCross    = "cross-marketplace"
)

// Cluster is a group of near-duplicate documents found in one run.
// A document belongs to at most one cluster per run.
type Cluster struct {
	Members       []int
	Type          string
	AvgSimilarity float64
	Marketplaces  []string
	HasOfficial   bool
}

// Size returns the number of member documents.
func (c Cluster) Size() int { return len(c.Members) }

// Confidence levels for sanity results, ordered weakest to strongest.
const (
	ConfidenceNone   = "none"
	ConfidenceLow    = "low"
	ConfidenceMedium = "medium"
	ConfidenceHigh   = "high"
)

// SanityResult is the outcome of validating aggregate scan counts.
type SanityResult struct {
	Confidence string   `json:"confidence"`
	Warnings   []string `json:"warnings"`
}

// CorpusSource supplies documents in a fixed order. The engine never
// performs I/O itself; a source is expected to have finished reading
// before the pipeline runs.
type CorpusSource interface {
	Documents() ([]Document, error)
}

// TrustPolicy decides which marketplaces count as official and ranks
// marketplaces for canonical selection.
type TrustPolicy interface {
	IsOfficial(marketplace string) bool
	Tier(marketplace string) int
}
