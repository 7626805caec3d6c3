// Command librarian detects near-duplicate and exact-duplicate content
// across plugin marketplaces: scan builds a similarity report, compare
// measures a target against a baseline corpus, where/stats/browse query
// a persisted report, dedup catalogs exact copies.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"librarian/internal/config"
	"librarian/internal/corpus"
	"librarian/internal/domain"
	"librarian/internal/engine"
)

var (
	cfgPath string
	cfg     *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "librarian",
	Short: "Navigate and deduplicate plugin marketplace content",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfgPath == "" {
			cfg, _, err = config.LoadDefault()
		} else {
			cfg, err = config.Load(cfgPath)
		}
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "",
		"Path to YAML config file (default: ./librarian.yaml, then ~/.config/librarian/config.yaml)")
	rootCmd.AddCommand(scanCmd, compareCmd, whereCmd, statsCmd, dedupCmd, browseCmd)
}

func newEngine() *engine.Engine {
	return engine.New(engine.Config{
		ShingleSize:           cfg.Similarity.ShingleSize,
		NumPermutations:       cfg.Similarity.NumPermutations,
		Threshold:             cfg.Similarity.Threshold,
		RedundantThreshold:    cfg.Similarity.RedundantThreshold,
		ScaffoldMinCopies:     cfg.Similarity.ScaffoldMinCopies,
		ScaffoldMinSimilarity: cfg.Similarity.ScaffoldMinSimilarity,
	}, trustPolicy())
}

func trustPolicy() domain.TrustPolicy {
	return domain.PrefixTrust{
		OfficialPrefixes: cfg.Trust.OfficialPrefixes,
		Tiers:            cfg.Trust.Tiers,
		DefaultTier:      cfg.Trust.DefaultTier,
	}
}

func newSource() *corpus.FSSource {
	return corpus.NewFSSource(cfg.MarketplacesDir, cfg.MinDocumentLength)
}

func main() {
	_ = godotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
