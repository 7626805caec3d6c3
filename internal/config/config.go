package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SimilarityConfig tunes the near-duplicate detection engine.
type SimilarityConfig struct {
	ShingleSize           int     `yaml:"shingle_size"`
	NumPermutations       int     `yaml:"num_permutations"`
	Threshold             float64 `yaml:"threshold"`
	RedundantThreshold    float64 `yaml:"redundant_threshold"`
	ScaffoldMinCopies     int     `yaml:"scaffold_min_copies"`
	ScaffoldMinSimilarity float64 `yaml:"scaffold_min_similarity"`
}

// TrustConfig names the marketplaces treated as official sources and
// ranks marketplaces for canonical selection.
type TrustConfig struct {
	OfficialPrefixes []string       `yaml:"official_prefixes"`
	Tiers            map[string]int `yaml:"tiers,omitempty"`
	DefaultTier      int            `yaml:"default_tier"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	MarketplacesDir   string           `yaml:"marketplaces_dir"`
	ReportPath        string           `yaml:"report_path"`
	MinDocumentLength int              `yaml:"min_document_length"`
	Similarity        SimilarityConfig `yaml:"similarity"`
	Trust             TrustConfig      `yaml:"trust"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./librarian.yaml first, then ~/.config/librarian/config.yaml.
// If neither exists, it writes defaults to ~/.config/librarian/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "librarian.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "librarian", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	home, _ := os.UserHomeDir()
	if cfg.MarketplacesDir == "" {
		cfg.MarketplacesDir = filepath.Join(home, ".claude", "plugins", "marketplaces")
	}
	if cfg.ReportPath == "" {
		cfg.ReportPath = filepath.Join(home, ".librarian", "similarity_report.json")
	}
	if cfg.MinDocumentLength == 0 {
		cfg.MinDocumentLength = 100
	}
	if cfg.Similarity.ShingleSize == 0 {
		cfg.Similarity.ShingleSize = 3
	}
	if cfg.Similarity.NumPermutations == 0 {
		cfg.Similarity.NumPermutations = 128
	}
	if cfg.Similarity.Threshold == 0 {
		cfg.Similarity.Threshold = 0.7
	}
	if cfg.Similarity.RedundantThreshold == 0 {
		cfg.Similarity.RedundantThreshold = 0.9
	}
	if cfg.Similarity.ScaffoldMinCopies == 0 {
		cfg.Similarity.ScaffoldMinCopies = 5
	}
	if cfg.Similarity.ScaffoldMinSimilarity == 0 {
		cfg.Similarity.ScaffoldMinSimilarity = 0.98
	}
	if len(cfg.Trust.OfficialPrefixes) == 0 {
		cfg.Trust.OfficialPrefixes = []string{"anthropic", "claude-plugins-official"}
	}
	if cfg.Trust.Tiers == nil {
		cfg.Trust.Tiers = map[string]int{
			"claude-plugins-official": 100,
			"anthropic":               90,
		}
	}
	if cfg.Trust.DefaultTier == 0 {
		cfg.Trust.DefaultTier = 50
	}
}
