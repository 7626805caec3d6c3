package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"librarian/internal/report"
	"librarian/internal/where"
)

var whereCmd = &cobra.Command{
	Use:   "where <filename-or-pattern>",
	Short: "Find locations of similar files in the last scan report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := loadIndex()
		if err != nil {
			return err
		}

		results := idx.Where(args[0])
		if len(results) == 0 {
			fmt.Printf("No similar files found for: %s\n", args[0])
			return nil
		}

		totalLocations := 0
		for _, r := range results {
			totalLocations += len(r.Matching)
		}
		fmt.Printf("Found %d locations across %d clusters:\n\n", totalLocations, len(results))

		cyan := color.New(color.FgCyan).SprintFunc()
		for _, r := range results {
			c := r.Cluster
			official := ""
			if c.HasOfficial {
				official = " [has official]"
			}
			fmt.Printf("%s: %d files, %.0f%% similar, type=%s%s\n",
				cyan(fmt.Sprintf("Cluster #%d", c.ID)), c.Size, c.AvgSimilarity*100, c.Type, official)
			fmt.Printf("  Marketplaces: %s\n", strings.Join(c.Marketplaces, ", "))
			fmt.Println("  Locations:")
			for _, loc := range r.Matching {
				off := ""
				if loc.IsOfficial {
					off = " [official]"
				}
				fmt.Printf("    %s%s\n", loc.FullKey(), off)
			}
			fmt.Println()
		}
		return nil
	},
}

// loadIndex loads the persisted report and builds the location index.
// Missing and malformed reports get distinct messages: the first means
// "scan first", the second means the artifact is damaged.
func loadIndex() (*where.Index, error) {
	rep, err := report.Load(cfg.ReportPath)
	if err != nil {
		if errors.Is(err, report.ErrNotFound) {
			return nil, fmt.Errorf("index not found, run 'librarian scan' first (expected: %s)", cfg.ReportPath)
		}
		return nil, err
	}
	return where.New(rep), nil
}
