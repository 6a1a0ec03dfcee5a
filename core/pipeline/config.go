package pipeline

import (
	"fmt"

	"npi-linker/core/reference"
)

// Config holds the run parameters shared by match and filter runs.
type Config struct {
	// Reference is the reference dataset location (path or s3://bucket/key).
	Reference string `mapstructure:"reference" default:"data.csv"`
	// MatchChunkSize is the number of records per chunk for match runs.
	MatchChunkSize int `mapstructure:"match_chunk_size" default:"50000"`
	// FilterChunkSize is the number of records per chunk for filter runs.
	FilterChunkSize int `mapstructure:"filter_chunk_size" default:"100000"`
	// Prefetch reads the next chunk while the current one is consumed.
	Prefetch bool `mapstructure:"prefetch" default:"false"`
	// ProgressEvery logs progress every N chunks; 0 disables it.
	ProgressEvery int `mapstructure:"progress_every" default:"10"`
	// Policy is the resolution policy: "first" or "best".
	Policy string `mapstructure:"policy" default:"first"`
	// LicensePrefixes are stripped from license numbers before comparison.
	LicensePrefixes []string `mapstructure:"license_prefixes" default:"TEMP,RN,LP,PN"`
	// TaxonomyFile optionally replaces the built-in nursing code set.
	TaxonomyFile string `mapstructure:"taxonomy_file" default:""`
	// MatchMode is the taxonomy comparison: "exact" or "prefix".
	MatchMode string `mapstructure:"match_mode" default:"prefix"`
	// OutputDir receives match exports.
	OutputDir string `mapstructure:"output_dir" default:"output"`
}

// Validate rejects settings no run can use.
func (c Config) Validate() error {
	if c.MatchChunkSize <= 0 {
		return fmt.Errorf("match chunk size: %w", reference.ErrInvalidChunkSize)
	}
	if c.FilterChunkSize <= 0 {
		return fmt.Errorf("filter chunk size: %w", reference.ErrInvalidChunkSize)
	}
	if c.ProgressEvery < 0 {
		return fmt.Errorf("progress interval must not be negative, got %d", c.ProgressEvery)
	}
	switch c.Policy {
	case "", "first", "best":
	default:
		return fmt.Errorf("unknown match policy %q", c.Policy)
	}
	switch c.MatchMode {
	case "", "exact", "prefix":
	default:
		return fmt.Errorf("unknown taxonomy match mode %q", c.MatchMode)
	}
	return nil
}
