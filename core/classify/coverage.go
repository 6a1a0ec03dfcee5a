package classify

import (
	"context"
	"sort"
	"strings"

	"npi-linker/core/reference"
)

// PrefixCount is the number of rows carrying one code.
type PrefixCount struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Rows        int64  `json:"rows"`
}

// CoverageReport compares how many rows two code sets classify.
type CoverageReport struct {
	Rows      int64         `json:"rows"`
	Chunks    int           `json:"chunks"`
	Baseline  int64         `json:"baseline"`
	Candidate int64         `json:"candidate"`
	Breakdown []PrefixCount `json:"breakdown"`
}

// Gain is the number of extra rows the candidate set classifies.
func (r CoverageReport) Gain() int64 {
	return r.Candidate - r.Baseline
}

// GainPercent is Gain relative to Baseline, 0 when Baseline is 0.
func (r CoverageReport) GainPercent() float64 {
	if r.Baseline == 0 {
		return 0
	}
	return float64(r.Gain()) / float64(r.Baseline) * 100
}

// Coverage is a chunk consumer that counts rows under a baseline and a
// candidate taxonomy, optionally stopping after a number of chunks.
type Coverage struct {
	baseline  *Filter
	candidate *Filter
	taxonomy  Taxonomy
	maxChunks int

	report  CoverageReport
	perCode map[string]int64
}

// NewCoverage builds a coverage counter. maxChunks <= 0 scans everything.
func NewCoverage(baseline, candidate Taxonomy, maxChunks int) (*Coverage, error) {
	b, err := NewFilter(baseline.Values(), baseline.Mode, Predicates{})
	if err != nil {
		return nil, err
	}
	c, err := NewFilter(candidate.Values(), candidate.Mode, Predicates{})
	if err != nil {
		return nil, err
	}
	return &Coverage{
		baseline:  b,
		candidate: c,
		taxonomy:  candidate,
		maxChunks: maxChunks,
		perCode:   make(map[string]int64),
	}, nil
}

// Consume counts one chunk.
func (c *Coverage) Consume(_ context.Context, chunk *reference.Chunk) error {
	if chunk == nil {
		return nil
	}
	c.report.Chunks++
	for i := range chunk.Rows {
		row := chunk.Rows[i]
		c.report.Rows++
		if c.baseline.MatchesTaxonomy(row) {
			c.report.Baseline++
		}
		if c.candidate.MatchesTaxonomy(row) {
			c.report.Candidate++
			for _, code := range c.candidate.codes {
				if rowHasCode(row, code, c.candidate) {
					c.perCode[code]++
				}
			}
		}
	}
	return nil
}

func rowHasCode(row reference.Row, code string, f *Filter) bool {
	for _, slot := range row.TaxonomyCodes {
		if slot.Blank() {
			continue
		}
		if f.codeMatches(strings.ToUpper(slot.Trimmed()), code) {
			return true
		}
	}
	return false
}

// Done reports whether the chunk limit has been reached.
func (c *Coverage) Done() bool {
	return c.maxChunks > 0 && c.report.Chunks >= c.maxChunks
}

// Report returns the counts so far, breakdown sorted by row count.
func (c *Coverage) Report() CoverageReport {
	r := c.report
	r.Breakdown = make([]PrefixCount, 0, len(c.candidate.codes))
	for _, code := range c.candidate.codes {
		r.Breakdown = append(r.Breakdown, PrefixCount{
			Code:        code,
			Description: c.taxonomy.Describe(code),
			Rows:        c.perCode[code],
		})
	}
	sort.SliceStable(r.Breakdown, func(i, j int) bool {
		return r.Breakdown[i].Rows > r.Breakdown[j].Rows
	})
	return r
}
