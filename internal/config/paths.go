package config

import (
	"os"
	"path/filepath"
)

// UserConfigPath returns the user-level config file location,
// following the XDG base directory convention:
// ~/.config/relnotes/config.yml on Linux.
func UserConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "relnotes", "config.yml"), nil
}

// LegacyUserConfigPath returns the old JSON config location,
// ~/.relnotes/config.json, still accepted for backward compatibility.
func LegacyUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".relnotes", "config.json"), nil
}

// ProjectConfigPath returns the per-repository config location,
// .relnotes.yml in the working directory.
func ProjectConfigPath() string {
	return ".relnotes.yml"
}
