package main

import (
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show statistics for the last scan report",
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := loadIndex()
		if err != nil {
			return err
		}
		s := idx.Stats(10)

		bold := color.New(color.Bold).SprintFunc()
		fmt.Println(bold("Location Index Statistics"))
		fmt.Printf("Total files scanned:     %d\n", s.TotalFiles)
		fmt.Printf("Total clusters indexed:  %d\n", s.TotalClusters)
		fmt.Printf("Unique filenames:        %d\n", s.UniqueFilenames)
		fmt.Printf("Marketplaces covered:    %d\n", s.Marketplaces)

		fmt.Println("\nMost common filenames in clusters:")
		for _, fc := range s.TopFilenames {
			fmt.Printf("  %s: %d clusters\n", fc.Filename, fc.Clusters)
		}

		types := make([]string, 0, len(s.ByType))
		for t := range s.ByType {
			types = append(types, t)
		}
		sort.Strings(types)
		fmt.Println("\nClusters by type:")
		for _, t := range types {
			fmt.Printf("  %s: %d\n", t, s.ByType[t])
		}
		return nil
	},
}
