// Package sanity validates aggregate scan counts. It exists to catch
// internally-consistent but wrong output, such as a misconfigured LSH
// threshold silently destroying recall without raising any error.
package sanity

import (
	"fmt"

	"librarian/internal/domain"
)

var rank = map[string]int{
	domain.ConfidenceNone:   0,
	domain.ConfidenceLow:    1,
	domain.ConfidenceMedium: 2,
	domain.ConfidenceHigh:   3,
}

// Check inspects the counts of one run and returns a confidence level
// with any warnings. It is a pure function: confidence starts high and
// each independently-evaluated rule can only lower it.
func Check(totalFiles, novelCount, redundantCount, totalClusters int) domain.SanityResult {
	if totalFiles == 0 {
		return domain.SanityResult{
			Confidence: domain.ConfidenceNone,
			Warnings:   []string{"no files scanned; nothing to analyze"},
		}
	}

	result := domain.SanityResult{Confidence: domain.ConfidenceHigh, Warnings: []string{}}

	if totalClusters > 1000 && redundantCount == 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"improbable 0%% cluster membership for %d clusters", totalClusters))
		downgrade(&result, domain.ConfidenceLow)
	}

	redundantRatio := float64(redundantCount) / float64(totalFiles)
	novelRatio := float64(novelCount) / float64(totalFiles)

	if totalFiles > 500 && redundantRatio < 0.05 {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"low similarity ratio: only %.1f%% of %d files matched anything",
			redundantRatio*100, totalFiles))
		downgrade(&result, domain.ConfidenceMedium)
	}

	if totalFiles > 500 && redundantRatio > 0.95 {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"high similarity ratio: %.1f%% of %d files matched something",
			redundantRatio*100, totalFiles))
		downgrade(&result, domain.ConfidenceMedium)
	}

	if totalFiles > 100 &&
		novelRatio >= 0.48 && novelRatio <= 0.52 &&
		redundantRatio >= 0.48 && redundantRatio <= 0.52 {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"suspicious 50/50 split: %d novel vs %d redundant", novelCount, redundantCount))
		downgrade(&result, domain.ConfidenceMedium)
	}

	return result
}

// downgrade lowers the confidence to at most the given level.
func downgrade(r *domain.SanityResult, ceiling string) {
	if rank[ceiling] < rank[r.Confidence] {
		r.Confidence = ceiling
	}
}
