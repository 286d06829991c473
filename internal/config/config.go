// Package config provides hierarchical configuration management for
// relnotes using koanf. Values are loaded with priority: environment
// variables > project config (.relnotes.yml) > user config
// (~/.config/relnotes/config.yml) > defaults. The user config also
// accepts a legacy JSON file at ~/.relnotes/config.json.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Configuration holds the relnotes settings that are meaningful to
// persist. Flags override these per run; GITHUB_TOKEN always comes from
// the environment (or a .env file), never from a config file.
type Configuration struct {
	// MainBranch is the release branch the preflight checks out and
	// pulls before walking history.
	MainBranch string `koanf:"main_branch" yaml:"main_branch"`

	// IncludePRNumbers appends "(#N)" markers to generated lines, as if
	// -p were always given.
	IncludePRNumbers bool `koanf:"include_pr_numbers" yaml:"include_pr_numbers"`

	// Clipboard copies the generated document to the clipboard, as if
	// -c were always given.
	Clipboard bool `koanf:"clipboard" yaml:"clipboard"`

	// CacheEnabled controls the SQLite cache for GitHub lookups.
	CacheEnabled bool `koanf:"cache_enabled" yaml:"cache_enabled"`

	// CachePath overrides the cache location (default ~/.relnotes/cache.db).
	CachePath string `koanf:"cache_path" yaml:"cache_path"`

	// MaxParallel bounds the concurrent classification lookups.
	MaxParallel int `koanf:"max_parallel" yaml:"max_parallel"`
}

// Defaults returns the built-in configuration values keyed by their
// koanf paths.
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"main_branch":        "main",
		"include_pr_numbers": false,
		"clipboard":          false,
		"cache_enabled":      true,
		"cache_path":         "",
		"max_parallel":       4,
	}
}

// Load loads configuration from user, project, and environment sources.
// projectPath overrides the project config location when non-empty.
func Load(projectPath string) (*Configuration, error) {
	k := koanf.New(".")

	for key, value := range Defaults() {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("setting default %s: %w", key, err)
		}
	}

	if err := loadUserConfig(k); err != nil {
		return nil, err
	}
	if err := loadProjectConfig(k, projectPath); err != nil {
		return nil, err
	}
	if err := k.Load(env.Provider("RELNOTES_", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("loading environment config: %w", err)
	}

	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadUserConfig loads the user-level config, preferring YAML over the
// legacy JSON location.
func loadUserConfig(k *koanf.Koanf) error {
	yamlPath, err := UserConfigPath()
	if err == nil && fileExists(yamlPath) {
		if err := k.Load(file.Provider(yamlPath), yaml.Parser()); err != nil {
			return fmt.Errorf("loading user config %s: %w", yamlPath, err)
		}
		return nil
	}

	legacyPath, err := LegacyUserConfigPath()
	if err == nil && fileExists(legacyPath) {
		if err := k.Load(file.Provider(legacyPath), json.Parser()); err != nil {
			return fmt.Errorf("loading legacy user config %s: %w", legacyPath, err)
		}
	}
	return nil
}

// loadProjectConfig loads the per-repository config file.
func loadProjectConfig(k *koanf.Koanf, customPath string) error {
	path := ProjectConfigPath()
	if customPath != "" {
		path = customPath
	}
	if !fileExists(path) {
		return nil
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("loading project config %s: %w", path, err)
	}
	return nil
}

// envTransform maps RELNOTES_MAIN_BRANCH to main_branch.
func envTransform(key string) string {
	return strings.ToLower(strings.TrimPrefix(key, "RELNOTES_"))
}

// validate rejects values the rest of the tool cannot work with.
func (c *Configuration) validate() error {
	if c.MainBranch == "" {
		return fmt.Errorf("config: main_branch must not be empty")
	}
	if c.MaxParallel < 1 {
		return fmt.Errorf("config: max_parallel must be at least 1, got %d", c.MaxParallel)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
