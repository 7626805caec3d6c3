package engine

import (
	"errors"

	"librarian/internal/domain"
	"librarian/internal/lsh"
	"librarian/internal/minhash"
	"librarian/internal/sanity"
)

// ErrEmptyBaseline is returned when no baseline document produced a
// signature; comparing against nothing has no meaning.
var ErrEmptyBaseline = errors.New("engine: baseline contains no signable documents")

// Baseline is an LSH index built from one corpus, ready to be queried
// with sketches from another. Every comparison flow shares this one
// build-then-cross-query path instead of re-implementing it.
type Baseline struct {
	engine *Engine
	docs   []domain.Document
	sigs   []minhash.Signature
	index  *lsh.Index
}

// NewBaseline signs and indexes the baseline corpus.
func (e *Engine) NewBaseline(docs []domain.Document) (*Baseline, error) {
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
	if signed == 0 {
		return nil, ErrEmptyBaseline
	}
	return &Baseline{engine: e, docs: docs, sigs: sigs, index: idx}, nil
}

// Size returns the number of indexed baseline documents.
func (b *Baseline) Size() int {
	n := 0
	for _, sig := range b.sigs {
		if sig != nil {
			n++
		}
	}
	return n
}

// Match links one target document to its best baseline counterpart.
type Match struct {
	File       string  `json:"file"`
	Similarity float64 `json:"similarity,omitempty"`
	SimilarTo  string  `json:"similar_to,omitempty"`
}

// Comparison is the outcome of measuring a target corpus against a
// baseline: novel files matched nothing, redundant files matched above
// the redundant threshold, partial files fell between the engine
// threshold and the redundant one.
type Comparison struct {
	TotalFiles int                 `json:"total_files"`
	Novel      []Match             `json:"novel_files"`
	Partial    []Match             `json:"partial_files"`
	Redundant  []Match             `json:"redundant_files"`
	Sanity     domain.SanityResult `json:"sanity"`
}

// Compare signs the target documents and queries each sketch against
// the baseline index. LSH candidates are a superset of true matches, so
// the exact figure per file is recomputed from the sketches directly.
// totalClusters feeds the sanity check when a prior scan report is
// available; pass zero otherwise.
func (b *Baseline) Compare(target []domain.Document, totalClusters int) (*Comparison, error) {
	sigs, err := b.engine.Sign(target)
	if err != nil {
		return nil, err
	}

	cmp := &Comparison{
		Novel:     []Match{},
		Partial:   []Match{},
		Redundant: []Match{},
	}
	for i, sig := range sigs {
		if sig == nil {
			continue
		}
		cmp.TotalFiles++

		bestSim := 0.0
		bestLoc := ""
		for _, j := range b.index.Query(sig) {
			if b.sigs[j] == nil {
				continue
			}
			if sim := minhash.Estimate(sig, b.sigs[j]); sim > bestSim {
				bestSim = sim
				bestLoc = b.docs[j].Location()
			}
		}

		switch {
		case bestSim >= b.engine.cfg.RedundantThreshold:
			cmp.Redundant = append(cmp.Redundant, Match{
				File: target[i].RelPath, Similarity: round3(bestSim), SimilarTo: bestLoc,
			})
		case bestSim >= b.engine.cfg.Threshold:
			cmp.Partial = append(cmp.Partial, Match{
				File: target[i].RelPath, Similarity: round3(bestSim), SimilarTo: bestLoc,
			})
		default:
			cmp.Novel = append(cmp.Novel, Match{File: target[i].RelPath})
		}
	}

	cmp.Sanity = sanity.Check(cmp.TotalFiles, len(cmp.Novel), len(cmp.Redundant), totalClusters)
	return cmp, nil
}
