// Package config loads workspace settings for the language server from an
// optional lgtls.yaml file at the workspace root, merged over defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

const FileName = "lgtls.yaml"

type Config struct {
	// Include and Exclude are doublestar globs over workspace-relative
	// paths, deciding which files the index covers.
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`

	// IndexPath is where the workspace index database lives, relative to
	// the workspace root unless absolute.
	IndexPath string `yaml:"index_path"`

	// Diagnostics toggles malformed-literal reporting.
	Diagnostics *bool `yaml:"diagnostics"`
}

func Default() Config {
	on := true
	return Config{
		Include:     []string{"**/*.lgt", "**/*.logtalk"},
		Exclude:     []string{"**/.git/**", "**/lgtmp/**"},
		IndexPath:   filepath.Join(".lgtls", "index.db"),
		Diagnostics: &on,
	}
}

// Load reads the workspace configuration. A missing file is not an error;
// defaults apply. Fields present in the file overwrite defaults.
func Load(root string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(filepath.Join(root, FileName))
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to read %s: %w", FileName, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}
	return cfg, nil
}

// DiagnosticsEnabled resolves the toggle's default.
func (c Config) DiagnosticsEnabled() bool {
	return c.Diagnostics == nil || *c.Diagnostics
}

// ResolveIndexPath anchors the index database under root.
func (c Config) ResolveIndexPath(root string) string {
	if filepath.IsAbs(c.IndexPath) {
		return c.IndexPath
	}
	return filepath.Join(root, c.IndexPath)
}

// Matches reports whether a workspace-relative path is part of the
// indexed source set.
func (c Config) Matches(rel string) bool {
	rel = filepath.ToSlash(rel)
	rel = strings.TrimPrefix(rel, "./")
	for _, pattern := range c.Exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return false
		}
	}
	for _, pattern := range c.Include {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}
