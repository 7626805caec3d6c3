package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"librarian/internal/dedup"
	"librarian/internal/domain"
)

var dedupCmd = &cobra.Command{
	Use:   "dedup",
	Short: "Catalog exact duplicates and formatting variants",
	Long: `Hash every content file (exact and whitespace-normalized), group
byte-identical copies with a canonical pick per group, and report groups
that differ only in formatting.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		docs, err := newSource().Documents()
		if err != nil {
			return err
		}
		cat := dedup.Build(docs, trustPolicy())

		if asJSON {
			return printCatalogJSON(cat, docs)
		}

		bold := color.New(color.Bold).SprintFunc()
		fmt.Println(bold("DEDUPLICATION CATALOG"))
		fmt.Printf("Total files scanned:       %d\n", cat.TotalScanned)
		fmt.Printf("Unique (by exact hash):    %d\n", cat.UniqueCount)
		fmt.Printf("Exact duplicates:          %d\n", cat.DuplicateCount)
		fmt.Printf("Formatting variant groups: %d\n", len(cat.Variants))
		if cat.TotalScanned > 0 {
			ratio := 1 - float64(cat.UniqueCount)/float64(cat.TotalScanned)
			fmt.Printf("Deduplication ratio:       %.1f%%\n", ratio*100)
		}

		shown := 0
		for _, g := range cat.Groups {
			if len(g.Members) < 2 {
				continue
			}
			if shown == 0 {
				fmt.Println("\nExact duplicates:")
			}
			if shown >= 10 {
				break
			}
			canonical := docs[g.Canonical]
			fmt.Printf("  %s: %d copies (canonical: %s)\n",
				canonical.Filename(), len(g.Members), canonical.Location())
			shown++
		}

		if len(cat.Variants) > 0 {
			fmt.Println("\nFormatting variants (same content, different whitespace):")
			for i, v := range cat.Variants {
				if i >= 10 {
					break
				}
				names := make([]string, 0, len(v.Members))
				for _, m := range v.Members {
					names = append(names, docs[m].Filename()+"@"+docs[m].Marketplace)
				}
				fmt.Printf("  %s\n", strings.Join(names, ", "))
			}
		}
		return nil
	},
}

func init() {
	dedupCmd.Flags().Bool("json", false, "Output the catalog as JSON")
}

type catalogEntry struct {
	ExactHash      string            `json:"exact_hash"`
	Canonical      domain.Location   `json:"canonical"`
	DuplicateCount int               `json:"duplicate_count"`
	Duplicates     []domain.Location `json:"duplicates_in,omitempty"`
}

type variantEntry struct {
	NormalizedHash string            `json:"normalized_hash"`
	Locations      []domain.Location `json:"locations"`
}

func printCatalogJSON(cat dedup.Catalog, docs []domain.Document) error {
	trust := trustPolicy()
	loc := func(i int) domain.Location {
		return domain.Location{
			Marketplace: docs[i].Marketplace,
			Plugin:      docs[i].Plugin,
			Path:        docs[i].RelPath,
			IsOfficial:  trust.IsOfficial(docs[i].Marketplace),
		}
	}

	out := struct {
		Summary struct {
			TotalScanned            int `json:"total_scanned"`
			UniqueFiles             int `json:"unique_files"`
			ExactDuplicates         int `json:"exact_duplicates"`
			FormattingVariantGroups int `json:"formatting_variant_groups"`
		} `json:"summary"`
		UniqueFiles        []catalogEntry `json:"unique_files"`
		FormattingVariants []variantEntry `json:"formatting_variants"`
	}{
		UniqueFiles:        []catalogEntry{},
		FormattingVariants: []variantEntry{},
	}
	out.Summary.TotalScanned = cat.TotalScanned
	out.Summary.UniqueFiles = cat.UniqueCount
	out.Summary.ExactDuplicates = cat.DuplicateCount
	out.Summary.FormattingVariantGroups = len(cat.Variants)

	for _, g := range cat.Groups {
		entry := catalogEntry{
			ExactHash:      g.ExactHash,
			Canonical:      loc(g.Canonical),
			DuplicateCount: len(g.Members) - 1,
		}
		for _, m := range g.Members {
			if m != g.Canonical {
				entry.Duplicates = append(entry.Duplicates, loc(m))
			}
		}
		out.UniqueFiles = append(out.UniqueFiles, entry)
	}
	for _, v := range cat.Variants {
		entry := variantEntry{NormalizedHash: v.NormalizedHash}
		for _, m := range v.Members {
			entry.Locations = append(entry.Locations, loc(m))
		}
		out.FormattingVariants = append(out.FormattingVariants, entry)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
