package core

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is looked up under the root before a run.
const ConfigFileName = ".jsxfix.yml"

// ReportFileName is the default JSON artifact, written under the root.
const ReportFileName = "jsxfix-report.json"

// Config is the single explicit run configuration. Zero values are filled
// by DefaultConfig; the optional .jsxfix.yml under the root overrides the
// defaults, and flags override the file.
type Config struct {
	// Root directory to scan.
	Root string `yaml:"-"`
	// Fix enables the transformer pass; detection-only otherwise.
	Fix bool `yaml:"fix"`
	// ReportPath receives the JSON artifact. Relative paths resolve
	// against Root.
	ReportPath string `yaml:"report"`
	// Extensions marking component source files.
	Extensions []string `yaml:"extensions"`
	// Exclude holds doublestar globs skipped during the scan, in addition
	// to the built-in directory set.
	Exclude []string `yaml:"exclude"`
	// Include, when non-empty, restricts the scan to matching files.
	Include []string `yaml:"include"`
	// Workers bounds per-file parallelism. 0 means NumCPU.
	Workers int `yaml:"workers"`
	// HistoryDSN is the run-history database; file path or libsql URL.
	HistoryDSN string `yaml:"history_dsn"`
	// History toggles run persistence.
	History bool `yaml:"history"`
	// Verbose enables per-file diff output.
	Verbose bool `yaml:"verbose"`
}

// DefaultConfig returns the named defaults for a root.
func DefaultConfig(root string) Config {
	return Config{
		Root:       root,
		ReportPath: ReportFileName,
		Extensions: []string{".jsx", ".tsx", ".js", ".mjs"},
		Workers:    runtime.NumCPU(),
		HistoryDSN: filepath.Join(".jsxfix", "history.db"),
		History:    true,
	}
}

// LoadConfig builds the effective config for root: defaults overlaid with
// .jsxfix.yml if one exists there.
func LoadConfig(root string) (Config, error) {
	cfg := DefaultConfig(root)

	path := filepath.Join(root, ConfigFileName)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.Root = root
	return cfg.normalized(), nil
}

func (c Config) normalized() Config {
	if c.ReportPath == "" {
		c.ReportPath = ReportFileName
	}
	if len(c.Extensions) == 0 {
		c.Extensions = DefaultConfig(c.Root).Extensions
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	return c
}

// ArtifactPath resolves the report path against the root.
func (c Config) ArtifactPath() string {
	if filepath.IsAbs(c.ReportPath) {
		return c.ReportPath
	}
	return filepath.Join(c.Root, c.ReportPath)
}
