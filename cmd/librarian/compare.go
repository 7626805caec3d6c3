package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"librarian/internal/domain"
	"librarian/internal/report"
)

var compareCmd = &cobra.Command{
	Use:   "compare <marketplace[/plugin]>",
	Short: "Compare a target against a baseline corpus",
	Long: `Build an LSH index from the baseline corpus and query it with every
content file of the target, classifying each file as novel, partial
overlap, or redundant.

Examples:
  # Compare one marketplace against everything else available
  librarian compare some-marketplace

  # Compare a single plugin against a specific marketplace
  librarian compare some-marketplace/my-plugin --baseline claude-plugins-official`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		baselineSpec, _ := cmd.Flags().GetString("baseline")
		verbose, _ := cmd.Flags().GetBool("verbose")
		asJSON, _ := cmd.Flags().GetBool("json")

		targetName := args[0]
		target, err := loadTarget(targetName)
		if err != nil {
			return err
		}

		fmt.Printf("Building index from baseline: %s...\n", baselineSpec)
		baselineDocs, err := loadBaseline(baselineSpec)
		if err != nil {
			return err
		}

		eng := newEngine()
		baseline, err := eng.NewBaseline(baselineDocs)
		if err != nil {
			return err
		}
		fmt.Printf("Indexed %d files from %s.\n\n", baseline.Size(), baselineSpec)

		// A prior scan report enriches the sanity check; compare works
		// without one, but a damaged report is worth flagging.
		totalClusters := 0
		if rep, repErr := report.Load(cfg.ReportPath); repErr == nil {
			totalClusters = rep.Summary.UniqueClusters
		} else if errors.Is(repErr, report.ErrMalformed) {
			fmt.Fprintf(os.Stderr, "warning: %v\n", repErr)
		}

		cmp, err := baseline.Compare(target, totalClusters)
		if err != nil {
			return err
		}

		bold := color.New(color.Bold).SprintFunc()
		fmt.Printf("%s\n", bold("COMPARISON: "+targetName))
		fmt.Printf("vs BASELINE: %s\n", baselineSpec)
		total := cmp.TotalFiles
		fmt.Printf("Files in target:      %d\n", total)
		if total > 0 {
			fmt.Printf("Novel (not similar):  %d (%.0f%%)\n", len(cmp.Novel), pct(len(cmp.Novel), total))
			fmt.Printf("Redundant (>%.0f%% sim): %d (%.0f%%)\n",
				cfg.Similarity.RedundantThreshold*100, len(cmp.Redundant), pct(len(cmp.Redundant), total))
		} else {
			fmt.Println("Novel (not similar):  0")
			fmt.Println("Redundant:            0")
		}
		fmt.Printf("Partial overlap:      %d\n", len(cmp.Partial))
		fmt.Printf("Confidence:           %s\n", cmp.Sanity.Confidence)
		printWarnings(cmp.Sanity)

		if verbose && len(cmp.Redundant) > 0 {
			fmt.Println("\nRedundant files:")
			for i, r := range cmp.Redundant {
				if i >= 10 {
					fmt.Printf("  ... and %d more\n", len(cmp.Redundant)-10)
					break
				}
				fmt.Printf("  %s\n    %.0f%% similar to %s\n", r.File, r.Similarity*100, r.SimilarTo)
			}
		}

		if total > 0 {
			ratio := float64(len(cmp.Redundant)) / float64(total)
			fmt.Println()
			switch {
			case ratio > 0.5:
				fmt.Println("High redundancy: >50% already exists in the baseline.")
			case ratio > 0.2:
				fmt.Printf("Some overlap with the baseline (%.0f%%).\n", ratio*100)
			default:
				fmt.Println("Low overlap - mostly novel content.")
			}
		}

		if asJSON {
			out := struct {
				Target   string `json:"target"`
				Baseline string `json:"baseline"`
				Summary  struct {
					TotalFiles int `json:"total_files"`
					Novel      int `json:"novel"`
					Redundant  int `json:"redundant"`
					Partial    int `json:"partial"`
				} `json:"summary"`
				Confidence string      `json:"confidence"`
				Warnings   []string    `json:"warnings"`
				Novel      interface{} `json:"novel_files"`
				Redundant  interface{} `json:"redundant_files"`
				Partial    interface{} `json:"partial_files"`
			}{
				Target:     targetName,
				Baseline:   baselineSpec,
				Confidence: cmp.Sanity.Confidence,
				Warnings:   cmp.Sanity.Warnings,
				Novel:      cmp.Novel,
				Redundant:  cmp.Redundant,
				Partial:    cmp.Partial,
			}
			out.Summary.TotalFiles = total
			out.Summary.Novel = len(cmp.Novel)
			out.Summary.Redundant = len(cmp.Redundant)
			out.Summary.Partial = len(cmp.Partial)

			data, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println("\n" + string(data))
		}
		return nil
	},
}

func init() {
	compareCmd.Flags().StringP("baseline", "b", "all",
		"Baseline: 'all', a marketplace, or marketplace/plugin")
	compareCmd.Flags().BoolP("verbose", "v", false, "List redundant files")
	compareCmd.Flags().Bool("json", false, "Output results as JSON")
}

func loadTarget(spec string) ([]domain.Document, error) {
	src := newSource()
	mp, plugin, hasPlugin := strings.Cut(spec, "/")
	if hasPlugin {
		return src.Plugin(mp, plugin)
	}
	return src.Marketplace(mp)
}

func loadBaseline(spec string) ([]domain.Document, error) {
	src := newSource()
	if spec == "all" || spec == "" {
		return src.Documents()
	}
	return loadTarget(spec)
}

func pct(n, total int) float64 {
	return float64(n) / float64(total) * 100
}
