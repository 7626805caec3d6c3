package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"librarian/internal/domain"
	"librarian/internal/engine"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan marketplaces and build the similarity report",
	Long: `Scan every marketplace, compute MinHash signatures for all content
files, cluster near-duplicates via LSH, and persist the similarity report.

Examples:
  # Scan with defaults (report goes to the configured report path)
  librarian scan

  # Scan to a custom report location
  librarian scan --output /tmp/report.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		if output == "" {
			output = cfg.ReportPath
		}

		fmt.Printf("Scanning marketplaces in %s...\n", cfg.MarketplacesDir)
		fmt.Printf("Similarity threshold: %.0f%%\n\n", cfg.Similarity.Threshold*100)

		docs, err := newSource().Documents()
		if err != nil {
			return err
		}
		fmt.Printf("Found %d content files (>%d chars)\n", len(docs), cfg.MinDocumentLength)

		fmt.Println("Building MinHash signatures...")
		eng := newEngine()
		res, err := eng.Scan(docs)
		if err != nil {
			return err
		}
		fmt.Printf("Indexed %d files into LSH\n", res.SignedCount)
		if res.SkippedCount > 0 {
			fmt.Printf("Skipped %d files with empty shingles\n", res.SkippedCount)
		}

		rep := eng.Report(res)
		if err := rep.Write(output); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}

		bold := color.New(color.Bold).SprintFunc()
		fmt.Printf("\n%s\n", bold("SCAN COMPLETE"))
		fmt.Printf("Total files:       %d\n", len(docs))
		fmt.Printf("Files in clusters: %d\n", res.FilesInClusters())
		fmt.Printf("Clusters:          %d\n", len(res.Clusters))
		fmt.Printf("Confidence:        %s\n", res.Sanity.Confidence)

		fmt.Println("\nCluster breakdown by type:")
		for _, ctype := range []string{domain.TypeCross, domain.TypeInternal, domain.TypeScaffold} {
			tc := rep.Summary.ByType[ctype]
			fmt.Printf("  %s: %d clusters, %d files\n", ctype, tc.Clusters, tc.Files)
		}

		printTopClusters(res)
		printWarnings(res.Sanity)

		fmt.Printf("\nReport saved to: %s\n", output)
		return nil
	},
}

func init() {
	scanCmd.Flags().StringP("output", "o", "", "Report output path (default: configured report path)")
}

// printTopClusters shows the cross-marketplace clusters, the ones that
// indicate real copying between sources, plus a short scaffold listing.
func printTopClusters(res *engine.ScanResult) {
	cyan := color.New(color.FgCyan).SprintFunc()

	shown := 0
	for _, c := range res.Clusters {
		if c.Type != domain.TypeCross {
			continue
		}
		if shown == 0 {
			fmt.Println("\nCross-marketplace clusters (real similarity):")
		}
		if shown >= 15 {
			break
		}
		sample := res.Docs[c.Members[0]]
		fmt.Printf("\n  %d files, %.0f%% similar\n", c.Size(), c.AvgSimilarity*100)
		fmt.Printf("  File: %s\n", cyan(sample.Filename()))
		fmt.Printf("  Marketplaces: %s\n", strings.Join(c.Marketplaces, ", "))
		if c.HasOfficial {
			fmt.Println("  [contains official source]")
		}
		shown++
	}

	shown = 0
	for _, c := range res.Clusters {
		if c.Type != domain.TypeScaffold {
			continue
		}
		if shown == 0 {
			fmt.Println("\nScaffold clusters (internal templates):")
		}
		if shown >= 5 {
			break
		}
		sample := res.Docs[c.Members[0]]
		fmt.Printf("  %s: %d copies of %s\n", c.Marketplaces[0], c.Size(), sample.Filename())
		shown++
	}
}

func printWarnings(s domain.SanityResult) {
	if len(s.Warnings) == 0 {
		return
	}
	yellow := color.New(color.FgYellow).SprintFunc()
	fmt.Fprintf(os.Stderr, "\n%s\n", yellow("WARNINGS:"))
	for _, w := range s.Warnings {
		fmt.Fprintf(os.Stderr, "  ! %s\n", w)
	}
}
