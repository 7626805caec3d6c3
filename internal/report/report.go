// Package report defines the persisted similarity report: explicit
// versioned record types with a documented JSON layout, written after a
// scan and consumed by the where/stats/compare flows.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"librarian/internal/domain"
)

// CurrentVersion is the schema version written by this build.
const CurrentVersion = 2

// ErrNotFound marks a missing report file. A missing baseline is an
// operator error ("run scan first"), never an empty baseline.
var ErrNotFound = errors.New("report: not found")

// ErrMalformed marks a report file that exists but cannot be decoded.
var ErrMalformed = errors.New("report: malformed")

// TypeCount is the per-type cluster breakdown in the summary.
type TypeCount struct {
	Clusters int `json:"clusters"`
	Files    int `json:"files"`
}

// Summary is the top-level scan outcome.
type Summary struct {
	TotalFilesScanned   int                  `json:"total_files_scanned"`
	FilesInClusters     int                  `json:"files_in_clusters"`
	UniqueClusters      int                  `json:"unique_clusters"`
	SimilarityThreshold float64              `json:"similarity_threshold"`
	Confidence          string               `json:"confidence"`
	Warnings            []string             `json:"warnings"`
	ByType              map[string]TypeCount `json:"by_type"`
}

// ClusterRecord is one similarity cluster as persisted.
type ClusterRecord struct {
	Type          string            `json:"type"`
	Size          int               `json:"size"`
	AvgSimilarity float64           `json:"avg_similarity"`
	HasOfficial   bool              `json:"has_official"`
	Marketplaces  []string          `json:"marketplaces"`
	Locations     []domain.Location `json:"locations"`
}

// Report is the persisted artifact of one scan.
//
// Version 2 adds the version marker, report id and generation timestamp.
// Version 1 (legacy, unversioned) carried only summary and clusters;
// Load still reads it.
type Report struct {
	Version     int             `json:"version"`
	ReportID    string          `json:"report_id"`
	GeneratedAt time.Time       `json:"generated_at"`
	Summary     Summary         `json:"summary"`
	Clusters    []ClusterRecord `json:"clusters"`
}

// legacyReport is the pre-versioning on-disk layout, kept as an explicit
// schema variant rather than ad hoc key probing.
type legacyReport struct {
	Summary  Summary         `json:"summary"`
	Clusters []ClusterRecord `json:"clusters"`
}

// Load reads a report from disk, accepting both the current and the
// legacy schema. A missing file returns ErrNotFound; undecodable content
// returns ErrMalformed. The two are distinct: a missing baseline means
// "scan first", a broken one means the artifact is damaged.
func Load(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}

	var probe struct {
		Version int `json:"version"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, path, err)
	}

	if probe.Version == 0 {
		var legacy legacyReport
		if err := json.Unmarshal(data, &legacy); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, path, err)
		}
		return &Report{Version: 1, Summary: legacy.Summary, Clusters: legacy.Clusters}, nil
	}

	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, path, err)
	}
	return &r, nil
}

// Write persists the report as indented JSON, creating the parent
// directory as needed.
func (r *Report) Write(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
