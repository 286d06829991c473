package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const configHeader = `# relnotes configuration
# Values here are overridden by .relnotes.yml in a repository and by
# RELNOTES_* environment variables. Run 'relnotes config show' to see
# the effective configuration.
`

// DefaultYAML renders the built-in defaults as a YAML document suitable
// for writing as a starter config file.
func DefaultYAML() ([]byte, error) {
	body, err := yaml.Marshal(Defaults())
	if err != nil {
		return nil, fmt.Errorf("rendering default config: %w", err)
	}
	return append([]byte(configHeader), body...), nil
}

// WriteDefault writes the default config to path, creating parent
// directories. It refuses to overwrite an existing file.
func WriteDefault(path string) error {
	if fileExists(path) {
		return fmt.Errorf("config file already exists at %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	body, err := DefaultYAML()
	if err != nil {
		return err
	}
	return os.WriteFile(path, body, 0o644)
}
