// Package config loads sleuth.toml. Every threshold the analysis stages
// use lives here with its default, so a team can tune the detector without
// rebuilding it.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Limits bound what sleuth is willing to chew on.
type Limits struct {
	// MaxFileSizeMB rejects larger files outright.
	MaxFileSizeMB int `toml:"max-file-size-mb"`
	// ReducedSamplingMB switches to reduced sampling above this size.
	ReducedSamplingMB int `toml:"reduced-sampling-mb"`
	// ReducedMaxRecords caps profiled records in reduced sampling mode.
	ReducedMaxRecords int `toml:"reduced-max-records"`
	// MaxFindings caps the findings per analysis.
	MaxFindings int `toml:"max-findings"`
}

// Profile tunes the statistical profiler.
type Profile struct {
	MajorityShare  float64 `toml:"majority-share"`
	EnumMaxUnique  int     `toml:"enum-max-unique"`
	ZeroShare      float64 `toml:"zero-share"`
	SampleValues   int     `toml:"sample-values"`
	PatternSamples int     `toml:"pattern-samples"`
}

// Anomaly tunes the outlier stage.
type Anomaly struct {
	ZScoreThreshold float64 `toml:"zscore-threshold"`
	MinYear         int     `toml:"min-year"`
	FutureYears     int     `toml:"future-years"`
	// Placeholders are the tokens treated as junk values in otherwise
	// populated string fields. Matching is case-insensitive.
	Placeholders []string `toml:"placeholders"`
	// PlaceholderNullRate: the field must be this populated for
	// placeholder checks to fire.
	PlaceholderNullRate float64 `toml:"placeholder-null-rate"`
	// PlaceholderUniqueRate: minimal variety before placeholders stand out.
	PlaceholderUniqueRate float64 `toml:"placeholder-unique-rate"`
}

// Drift tunes the version comparison stage.
type Drift struct {
	RecordCountRatio float64 `toml:"record-count-ratio"`
}

// Config is the whole sleuth.toml.
type Config struct {
	Limits  Limits  `toml:"limits"`
	Profile Profile `toml:"profile"`
	Anomaly Anomaly `toml:"anomaly"`
	Drift   Drift   `toml:"drift"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Limits: Limits{
			MaxFileSizeMB:     50,
			ReducedSamplingMB: 5,
			ReducedMaxRecords: 1000,
			MaxFindings:       500,
		},
		Profile: Profile{
			MajorityShare:  0.8,
			EnumMaxUnique:  20,
			ZeroShare:      0.5,
			SampleValues:   10,
			PatternSamples: 100,
		},
		Anomaly: Anomaly{
			ZScoreThreshold:       4.0,
			MinYear:               1900,
			FutureYears:           5,
			Placeholders:          []string{"unknown", "n/a", "null", "none", "na", "???"},
			PlaceholderNullRate:   0.1,
			PlaceholderUniqueRate: 0.5,
		},
		Drift: Drift{
			RecordCountRatio: 0.2,
		},
	}
}

// Load parses the file at path on top of the defaults: keys the file does
// not set keep their built-in values.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	return cfg, nil
}

// Discover walks up from startDir looking for sleuth.toml. When none is
// found the defaults are returned with ok=false.
func Discover(startDir string) (*Config, string, error) {
	dir := startDir
	for {
		candidate := filepath.Join(dir, "sleuth.toml")
		if _, err := os.Stat(candidate); err == nil {
			cfg, loadErr := Load(candidate)
			return cfg, candidate, loadErr
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return Default(), "", nil
		}
		dir = parent
	}
}

const defaultTemplate = `# sleuth.toml - analysis thresholds

[limits]
# Files above this size are rejected with a single finding.
max-file-size-mb = 50
# Files above this size are profiled with reduced sampling.
reduced-sampling-mb = 5
# How many records the reduced mode still profiles.
reduced-max-records = 1000
# Hard cap on findings per analysis.
max-findings = 500

[profile]
# A type must hold strictly more than this share of non-null values.
majority-share = 0.8
# Fields with at most this many distinct values count as enums.
enum-max-unique = 20
# Share of zeros above which a numeric field is zero-inflated.
zero-share = 0.5
# Example values kept per field.
sample-values = 10
# String values checked for a common format (email, url, ipv4, uuid).
pattern-samples = 100

[anomaly]
# |z| strictly above this flags a numeric outlier.
zscore-threshold = 4.0
# Dates before this year are suspicious.
min-year = 1900
# Dates further in the future than this are suspicious.
future-years = 5
# Junk tokens hunted in populated string fields (case-insensitive).
placeholders = ["unknown", "n/a", "null", "none", "na", "???"]
# The field's null rate must be below this for placeholder checks.
placeholder-null-rate = 0.1
# The field's unique rate must be above this for placeholder checks.
placeholder-unique-rate = 0.5

[drift]
# Relative record-count change that counts as drift.
record-count-ratio = 0.2
`

// WriteDefault writes the commented default template to path. Refuses to
// overwrite an existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultTemplate), 0o644)
}
