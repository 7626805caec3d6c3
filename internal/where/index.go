// Package where builds an inverted location index over a persisted
// similarity report for filename and pattern lookups.
package where

import (
	"path"
	"sort"
	"strings"

	"librarian/internal/domain"
	"librarian/internal/report"
)

// ClusterInfo is one indexed cluster with a stable id assigned in
// report order.
type ClusterInfo struct {
	ID            int
	Type          string
	Size          int
	AvgSimilarity float64
	HasOfficial   bool
	Marketplaces  []string
	Locations     []domain.Location
}

// Result pairs a cluster with the locations inside it that matched the
// query.
type Result struct {
	Cluster  ClusterInfo
	Matching []domain.Location
}

// Index answers "where does content like this live" questions against
// one report.
type Index struct {
	clusters      []ClusterInfo
	byFilename    map[string][]int
	byMarketplace map[string][]int
	totalFiles    int
}

// New builds the index from a loaded report.
func New(r *report.Report) *Index {
	idx := &Index{
		byFilename:    make(map[string][]int),
		byMarketplace: make(map[string][]int),
		totalFiles:    r.Summary.TotalFilesScanned,
	}
	for i, rec := range r.Clusters {
		info := ClusterInfo{
			ID:            i,
			Type:          rec.Type,
			Size:          rec.Size,
			AvgSimilarity: rec.AvgSimilarity,
			HasOfficial:   rec.HasOfficial,
			Marketplaces:  rec.Marketplaces,
			Locations:     rec.Locations,
		}
		idx.clusters = append(idx.clusters, info)

		seen := make(map[string]struct{})
		for _, loc := range rec.Locations {
			name := loc.Filename()
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			idx.byFilename[name] = append(idx.byFilename[name], i)
		}
		for _, mp := range rec.Marketplaces {
			idx.byMarketplace[mp] = append(idx.byMarketplace[mp], i)
		}
	}
	return idx
}

// Clusters returns every indexed cluster in report order.
func (idx *Index) Clusters() []ClusterInfo {
	return idx.clusters
}

// Where finds clusters containing files matching the query: exact
// filename first, then glob pattern or substring.
func (idx *Index) Where(query string) []Result {
	queryName := path.Base(query)

	if ids, ok := idx.byFilename[queryName]; ok {
		results := make([]Result, 0, len(ids))
		for _, id := range ids {
			c := idx.clusters[id]
			var matching []domain.Location
			for _, loc := range c.Locations {
				if loc.Filename() == queryName {
					matching = append(matching, loc)
				}
			}
			results = append(results, Result{Cluster: c, Matching: matching})
		}
		return results
	}

	var results []Result
	taken := make(map[int]struct{})
	for filename, ids := range idx.byFilename {
		if !matchesPattern(filename, query) {
			continue
		}
		for _, id := range ids {
			if _, ok := taken[id]; ok {
				continue
			}
			c := idx.clusters[id]
			var matching []domain.Location
			for _, loc := range c.Locations {
				if matchesPattern(loc.Filename(), query) {
					matching = append(matching, loc)
				}
			}
			if len(matching) > 0 {
				taken[id] = struct{}{}
				results = append(results, Result{Cluster: c, Matching: matching})
			}
		}
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Cluster.ID < results[j].Cluster.ID
	})
	return results
}

func matchesPattern(filename, query string) bool {
	if ok, err := path.Match(query, filename); err == nil && ok {
		return true
	}
	return strings.Contains(strings.ToLower(filename), strings.ToLower(query))
}

// Stats summarizes the indexed report.
type Stats struct {
	TotalFiles      int
	TotalClusters   int
	UniqueFilenames int
	Marketplaces    int
	ByType          map[string]int
	TopFilenames    []FilenameCount
}

// FilenameCount is a filename with the number of clusters it appears in.
type FilenameCount struct {
	Filename string
	Clusters int
}

// Stats computes index statistics, with the top filenames ranked by
// cluster count.
func (idx *Index) Stats(topN int) Stats {
	s := Stats{
		TotalFiles:      idx.totalFiles,
		TotalClusters:   len(idx.clusters),
		UniqueFilenames: len(idx.byFilename),
		Marketplaces:    len(idx.byMarketplace),
		ByType:          make(map[string]int),
	}
	for _, c := range idx.clusters {
		s.ByType[c.Type]++
	}
	for name, ids := range idx.byFilename {
		s.TopFilenames = append(s.TopFilenames, FilenameCount{Filename: name, Clusters: len(ids)})
	}
	sort.Slice(s.TopFilenames, func(i, j int) bool {
		if s.TopFilenames[i].Clusters != s.TopFilenames[j].Clusters {
			return s.TopFilenames[i].Clusters > s.TopFilenames[j].Clusters
		}
		return s.TopFilenames[i].Filename < s.TopFilenames[j].Filename
	})
	if topN > 0 && len(s.TopFilenames) > topN {
		s.TopFilenames = s.TopFilenames[:topN]
	}
	return s
}
