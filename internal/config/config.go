// Package config holds the tunables a ranked prolly tree needs at
// construction time: branching factor, cache capacity, block encoder,
// and whether to compress blocks at rest. It keeps the teacher repo's
// global+repo merge pattern and dotted-key GetValue/SetValue accessors,
// repointed at tree tunables instead of author identity.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/prollykv/prollytree/internal/rank"
)

// EncoderKind selects which block encoder a Tree uses.
type EncoderKind string

const (
	// EncoderColumnar is the default, dictionary-deduplicating encoder.
	EncoderColumnar EncoderKind = "columnar"
	// EncoderBasic is the simple TLV reference encoder.
	EncoderBasic EncoderKind = "basic"
)

// TreeConfig holds the branching factor and encoder choice for a Tree.
type TreeConfig struct {
	Factor  uint32      `json:"factor"`
	Encoder EncoderKind `json:"encoder"`
}

// StoreConfig holds the durable block store's tunables.
type StoreConfig struct {
	CacheCapacity int  `json:"cache_capacity"`
	Compress      bool `json:"compress"`
}

// Config is the top-level, persistable configuration for a prolly tree
// instance.
type Config struct {
	Tree  TreeConfig  `json:"tree"`
	Store StoreConfig `json:"store"`
}

// DefaultConfig returns a Config with sensible defaults: factor 32, no
// cache, the columnar encoder, no compression.
func DefaultConfig() *Config {
	return &Config{
		Tree: TreeConfig{
			Factor:  32,
			Encoder: EncoderColumnar,
		},
		Store: StoreConfig{
			CacheCapacity: 0,
			Compress:      false,
		},
	}
}

// Validate checks that c's fields describe a constructible tree.
func (c *Config) Validate() error {
	if !rank.Valid(c.Tree.Factor) {
		return fmt.Errorf("config: invalid factor %d: must be a power of two >= %d", c.Tree.Factor, rank.MinFactor)
	}
	if c.Store.CacheCapacity < 0 {
		return fmt.Errorf("config: cache_capacity must not be negative, got %d", c.Store.CacheCapacity)
	}
	switch c.Tree.Encoder {
	case EncoderColumnar, EncoderBasic:
	default:
		return fmt.Errorf("config: unknown encoder %q", c.Tree.Encoder)
	}
	return nil
}

// globalConfigPath returns the path to the user's global config file.
func globalConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".prollytreeconfig"), nil
}

// repoConfigPath returns the path to the repository-local config file.
func repoConfigPath() string {
	return filepath.Join(".prollytree", "config")
}

// LoadConfig loads configuration from both the global and repository
// config files, if present. Repository config takes precedence over
// global config, and both take precedence over DefaultConfig.
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	if globalPath, err := globalConfigPath(); err == nil {
		if data, err := os.ReadFile(globalPath); err == nil {
			var globalCfg Config
			if err := json.Unmarshal(data, &globalCfg); err == nil {
				mergeConfig(cfg, &globalCfg)
			}
		}
	}

	if data, err := os.ReadFile(repoConfigPath()); err == nil {
		var repoCfg Config
		if err := json.Unmarshal(data, &repoCfg); err == nil {
			mergeConfig(cfg, &repoCfg)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveGlobalConfig saves cfg to the user's global config file.
func SaveGlobalConfig(cfg *Config) error {
	globalPath, err := globalConfigPath()
	if err != nil {
		return err
	}
	return writeConfig(globalPath, cfg)
}

// SaveRepoConfig saves cfg to the repository-local config file, creating
// its containing directory if needed.
func SaveRepoConfig(cfg *Config) error {
	repoPath := repoConfigPath()
	if err := os.MkdirAll(filepath.Dir(repoPath), 0755); err != nil {
		return fmt.Errorf("config: failed to create config directory: %w", err)
	}
	return writeConfig(repoPath, cfg)
}

func writeConfig(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("config: failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// GetValue retrieves a configuration value by dotted key, e.g.
// "tree.factor" or "store.compress".
func GetValue(key string) (string, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return "", err
	}

	section, field, err := splitKey(key)
	if err != nil {
		return "", err
	}

	switch section {
	case "tree":
		switch field {
		case "factor":
			return fmt.Sprintf("%d", cfg.Tree.Factor), nil
		case "encoder":
			return string(cfg.Tree.Encoder), nil
		default:
			return "", fmt.Errorf("unknown tree config field: %s", field)
		}
	case "store":
		switch field {
		case "cache_capacity":
			return fmt.Sprintf("%d", cfg.Store.CacheCapacity), nil
		case "compress":
			return fmt.Sprintf("%t", cfg.Store.Compress), nil
		default:
			return "", fmt.Errorf("unknown store config field: %s", field)
		}
	default:
		return "", fmt.Errorf("unknown config section: %s", section)
	}
}

// SetValue sets a configuration value by dotted key and persists it to
// either the global or repository config file.
func SetValue(key, value string, global bool) error {
	var path string
	if global {
		p, err := globalConfigPath()
		if err != nil {
			return err
		}
		path = p
	} else {
		path = repoConfigPath()
	}

	cfg := DefaultConfig()
	if data, err := os.ReadFile(path); err == nil {
		json.Unmarshal(data, cfg)
	}

	section, field, err := splitKey(key)
	if err != nil {
		return err
	}

	switch section {
	case "tree":
		switch field {
		case "factor":
			var factor uint32
			if _, err := fmt.Sscanf(value, "%d", &factor); err != nil {
				return fmt.Errorf("config: invalid factor %q: %w", value, err)
			}
			cfg.Tree.Factor = factor
		case "encoder":
			cfg.Tree.Encoder = EncoderKind(value)
		default:
			return fmt.Errorf("unknown tree config field: %s", field)
		}
	case "store":
		switch field {
		case "cache_capacity":
			var capacity int
			if _, err := fmt.Sscanf(value, "%d", &capacity); err != nil {
				return fmt.Errorf("config: invalid cache_capacity %q: %w", value, err)
			}
			cfg.Store.CacheCapacity = capacity
		case "compress":
			cfg.Store.Compress = value == "true"
		default:
			return fmt.Errorf("unknown store config field: %s", field)
		}
	default:
		return fmt.Errorf("unknown config section: %s", section)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	if global {
		return SaveGlobalConfig(cfg)
	}
	return SaveRepoConfig(cfg)
}

func splitKey(key string) (section, field string, err error) {
	parts := strings.Split(key, ".")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid config key: %s (expected format: section.key)", key)
	}
	return parts[0], parts[1], nil
}

// mergeConfig merges source config into destination config. Tree fields
// from src override dst only when non-zero; Store fields from src always
// override dst, zero values included.
func mergeConfig(dst, src *Config) {
	if src.Tree.Factor != 0 {
		dst.Tree.Factor = src.Tree.Factor
	}
	if src.Tree.Encoder != "" {
		dst.Tree.Encoder = src.Tree.Encoder
	}
	dst.Store.CacheCapacity = src.Store.CacheCapacity
	dst.Store.Compress = src.Store.Compress
}
