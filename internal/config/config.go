package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Filestore backend constants
const (
	FilestoreDir    = "dir"    // local directory tree
	FilestoreSQLite = "sqlite" // blob table in the local covmeter database
)

// Config represents the flat covmeter configuration for one trial's worker.
type Config struct {
	Version       string `json:"version"`
	Experiment    string `json:"experiment"`
	Benchmark     string `json:"benchmark"`
	Fuzzer        string `json:"fuzzer"`
	ReportDir     string `json:"report_dir"`               // local scratch dir for export artifacts
	StateDir      string `json:"state_dir"`                // durable key prefix for cycle state blobs
	FilestoreRoot string `json:"filestore_root,omitempty"` // base dir for the "dir" backend
	Filestore     string `json:"filestore,omitempty"`      // "dir" (default) or "sqlite"
}

// Load reads .covmeter/config.json from the specified directory.
// Resolution order: cwd only (no home fallback).
// Returns error if no config found - caller should handle accordingly.
func Load(dir string) (*Config, error) {
	p := filepath.Join(dir, ".covmeter", "config.json")
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Filestore == "" {
		cfg.Filestore = FilestoreDir
	}

	return &cfg, nil
}

// Save writes config.json to directory
func Save(dir string, cfg *Config) error {
	covDir := filepath.Join(dir, ".covmeter")
	if err := os.MkdirAll(covDir, 0755); err != nil {
		return fmt.Errorf("failed to create .covmeter dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	p := filepath.Join(covDir, "config.json")
	if err := os.WriteFile(p, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// DefaultFilestoreRoot returns the default local filestore root.
func DefaultFilestoreRoot() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".covmeter", "filestore"), nil
}
