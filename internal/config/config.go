// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package config loads the application configuration. Defaults cover the
// CLI output settings; the matcher section exposes the cascade's tunable
// constants, which have no documented derivation and are expected to be
// calibrated per document corpus.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"citescope/internal/matcher"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	// Default output settings
	Defaults struct {
		Format   string  `yaml:"format"`
		MinScore float64 `yaml:"min_score"`
		Verbose  bool    `yaml:"verbose"`
		Debug    bool    `yaml:"debug"`
		NoColor  bool    `yaml:"no_color"`
		Quiet    bool    `yaml:"quiet"`
	} `yaml:"defaults"`

	// Matcher cascade tuning
	Matcher struct {
		WindowMultiplier int     `yaml:"window_multiplier"`
		StrideDivisor    int     `yaml:"stride_divisor"`
		LCSAcceptRatio   float64 `yaml:"lcs_accept_ratio"`
		JaccardAcceptSim float64 `yaml:"jaccard_accept_sim"`
		TrailingContext  int     `yaml:"trailing_context"`
		NgramSize        int     `yaml:"ngram_size"`
	} `yaml:"matcher"`

	// PDF extraction limits
	PDF struct {
		MaxPages int `yaml:"max_pages"`
	} `yaml:"pdf"`
}

// LoadConfig loads configuration from the specified file path. An empty
// path returns the default configuration.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	// Set default values
	defaults := matcher.DefaultParams()
	config.Defaults.Format = "text"
	config.Defaults.MinScore = defaults.MinScore
	config.Matcher.WindowMultiplier = defaults.WindowMultiplier
	config.Matcher.StrideDivisor = defaults.StrideDivisor
	config.Matcher.LCSAcceptRatio = defaults.LCSAcceptRatio
	config.Matcher.JaccardAcceptSim = defaults.JaccardAcceptSim
	config.Matcher.TrailingContext = defaults.TrailingContext
	config.Matcher.NgramSize = defaults.NgramSize
	config.PDF.MaxPages = 200

	if configPath == "" {
		return config, nil
	}

	cleanPath := filepath.Clean(configPath)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// MatcherParams converts the matcher section to cascade parameters using
// the given minimum score. Out-of-range values are handled downstream by
// the cascade itself.
func (c *Config) MatcherParams(minScore float64) matcher.Params {
	return matcher.Params{
		MinScore:         minScore,
		WindowMultiplier: c.Matcher.WindowMultiplier,
		StrideDivisor:    c.Matcher.StrideDivisor,
		LCSAcceptRatio:   c.Matcher.LCSAcceptRatio,
		JaccardAcceptSim: c.Matcher.JaccardAcceptSim,
		TrailingContext:  c.Matcher.TrailingContext,
		NgramSize:        c.Matcher.NgramSize,
	}
}

// ValidateConfig rejects settings the rest of the pipeline cannot recover
// from. Matcher tunables are not validated here: the cascade falls back to
// defaults field by field.
func ValidateConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("configuration cannot be nil")
	}
	if config.Defaults.MinScore < 0 || config.Defaults.MinScore > 1 {
		return fmt.Errorf("min_score must be in [0,1], got %v", config.Defaults.MinScore)
	}
	if config.PDF.MaxPages < 1 {
		return fmt.Errorf("pdf max_pages must be positive, got %d", config.PDF.MaxPages)
	}
	return nil
}

// FindConfigFile looks for a configuration file in standard locations.
func FindConfigFile() string {
	// Check current directory first
	for _, name := range []string{"citescope.yaml", "citescope.yml", ".citescope.yaml", ".citescope.yml"} {
		if fileExists(name) {
			return name
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	// Check XDG config directory
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}
	for _, name := range []string{"config.yaml", "config.yml"} {
		candidate := filepath.Join(xdgConfig, "citescope", name)
		if fileExists(candidate) {
			return candidate
		}
	}

	return ""
}

// LoadConfigOrDefault loads configuration from configFile (or searches
// standard locations when configFile is empty). If loading fails, it
// returns the default configuration — callers should not crash on a
// missing or bad config file.
func LoadConfigOrDefault(configFile string) *Config {
	configPath := configFile
	if configPath == "" {
		configPath = FindConfigFile()
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		cfg, _ = LoadConfig("")
	}
	return cfg
}

// fileExists checks if a file exists and is not a directory.
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}
