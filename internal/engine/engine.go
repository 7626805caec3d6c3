// Package engine wires the similarity pipeline together: tokenize, sign,
// index, cluster, classify and sanity-check a corpus in one pass.
package engine

import (
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"librarian/internal/cluster"
	"librarian/internal/domain"
	"librarian/internal/lsh"
	"librarian/internal/minhash"
	"librarian/internal/report"
	"librarian/internal/sanity"
	"librarian/internal/tokenizer"
)

// Config collects every engine tuning knob. All values are explicit
// constructor inputs; there is no package-level configuration.
type Config struct {
	ShingleSize           int
	NumPermutations       int
	Threshold             float64
	RedundantThreshold    float64
	ScaffoldMinCopies     int
	ScaffoldMinSimilarity float64
}

// Engine runs the similarity pipeline. Every structure it builds lives
// for a single invocation; nothing carries over between runs.
type Engine struct {
	cfg     Config
	tok     *tokenizer.Tokenizer
	gen     *minhash.Generator
	builder *cluster.Builder
	trust   domain.TrustPolicy
}

// New creates an Engine with the given configuration and trust policy.
func New(cfg Config, trust domain.TrustPolicy) *Engine {
	if cfg.NumPermutations <= 0 {
		cfg.NumPermutations = 128
	}
	if cfg.Threshold <= 0 || cfg.Threshold >= 1 {
		cfg.Threshold = 0.7
	}
	if cfg.RedundantThreshold <= 0 {
		cfg.RedundantThreshold = 0.9
	}
	return &Engine{
		cfg: cfg,
		tok: tokenizer.New(cfg.ShingleSize),
		gen: minhash.NewGenerator(cfg.NumPermutations),
		builder: cluster.NewBuilder(cluster.Config{
			ScaffoldMinCopies:     cfg.ScaffoldMinCopies,
			ScaffoldMinSimilarity: cfg.ScaffoldMinSimilarity,
		}, trust),
		trust: trust,
	}
}

// Sign computes signatures for every document. sigs[i] is nil when
// docs[i] has no usable content; such documents are never indexed.
// Signing is a pure function per document, so it runs in parallel;
// results land at fixed positions, keeping corpus order intact for the
// order-dependent clustering pass.
func (e *Engine) Sign(docs []domain.Document) ([]minhash.Signature, error) {
	sigs := make([]minhash.Signature, len(docs))
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i := range docs {
		i := i
		g.Go(func() error {
			shingles := e.tok.Shingle(docs[i].Content)
			if len(shingles) == 0 {
				return nil
			}
			sig, err := e.gen.Sign(shingles)
			if err != nil {
				return err
			}
			sigs[i] = sig
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sigs, nil
}

// ScanResult is the in-memory outcome of a full-corpus scan.
type ScanResult struct {
	Docs         []domain.Document
	Clusters     []domain.Cluster
	SignedCount  int
	SkippedCount int
	Sanity       domain.SanityResult
}

// FilesInClusters returns the number of documents that landed in any
// cluster.
func (r *ScanResult) FilesInClusters() int {
	n := 0
	for _, c := range r.Clusters {
		n += c.Size()
	}
	return n
}

// Scan runs the whole pipeline over one corpus: sign every document,
// build the LSH index, form clusters, and sanity-check the aggregate
// counts. Documents arrive in a fixed order from the corpus source and
// are processed in that order.
func (e *Engine) Scan(docs []domain.Document) (*ScanResult, error) {
	sigs, err := e.Sign(docs)
	if err != nil {
		return nil, err
	}

	idx := lsh.New(e.cfg.Threshold, e.gen.NumPerm())
	signed := 0
	for i, sig := range sigs {
		if sig == nil {
			continue
		}
		idx.Insert(i, sig)
		signed++
	}

	clusters := e.builder.Build(docs, sigs, idx)

	res := &ScanResult{
		Docs:         docs,
		Clusters:     clusters,
		SignedCount:  signed,
		SkippedCount: len(docs) - signed,
	}
	inClusters := res.FilesInClusters()
	res.Sanity = sanity.Check(len(docs), len(docs)-inClusters, inClusters, len(clusters))
	return res, nil
}

// Report converts a scan result into the persisted report form.
func (e *Engine) Report(res *ScanResult) *report.Report {
	byType := map[string]report.TypeCount{
		domain.TypeCross:    {},
		domain.TypeInternal: {},
		domain.TypeScaffold: {},
	}
	records := make([]report.ClusterRecord, 0, len(res.Clusters))
	for _, c := range res.Clusters {
		locations := make([]domain.Location, 0, c.Size())
		for _, i := range c.Members {
			d := res.Docs[i]
			locations = append(locations, domain.Location{
				Marketplace: d.Marketplace,
				Plugin:      d.Plugin,
				Path:        d.RelPath,
				IsOfficial:  e.trust != nil && e.trust.IsOfficial(d.Marketplace),
			})
		}
		records = append(records, report.ClusterRecord{
			Type:          c.Type,
			Size:          c.Size(),
			AvgSimilarity: round3(c.AvgSimilarity),
			HasOfficial:   c.HasOfficial,
			Marketplaces:  c.Marketplaces,
			Locations:     locations,
		})
		tc := byType[c.Type]
		tc.Clusters++
		tc.Files += c.Size()
		byType[c.Type] = tc
	}

	return &report.Report{
		Version:     report.CurrentVersion,
		ReportID:    uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Summary: report.Summary{
			TotalFilesScanned:   len(res.Docs),
			FilesInClusters:     res.FilesInClusters(),
			UniqueClusters:      len(res.Clusters),
			SimilarityThreshold: e.cfg.Threshold,
			Confidence:          res.Sanity.Confidence,
			Warnings:            res.Sanity.Warnings,
			ByType:              byType,
		},
		Clusters: records,
	}
}

func round3(v float64) float64 {
	return float64(int(v*1000+0.5)) / 1000
}
