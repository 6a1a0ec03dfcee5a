package checks

import (
	"context"
	"slices"

	"npi-linker/core/reference"
)

// SourceReport describes the reference dataset as seen through its header.
type SourceReport struct {
	Location  string `json:"location"`
	Reachable bool   `json:"reachable"`
	Error     string `json:"error,omitempty"`
	SizeBytes int64  `json:"size_bytes"`
	Columns   int    `json:"columns"`
	// MissingRequired are match columns the header lacks; the affected
	// cascade tiers can never fire.
	MissingRequired []string `json:"missing_required"`
	// MissingOptional are the other schema columns the header lacks.
	MissingOptional []string `json:"missing_optional"`
	Status          string   `json:"status"` // "ok", "degraded", "error"
}

// CheckSource opens the reference source and checks its header against the
// schema. An unreachable source is reported, not returned as an error.
func CheckSource(ctx context.Context, source reference.Source, schema reference.Schema) *SourceReport {
	report := &SourceReport{
		Location:        source.String(),
		MissingRequired: []string{},
		MissingOptional: []string{},
		Status:          "ok",
	}

	rc, err := source.Open(ctx)
	if err != nil {
		report.Error = err.Error()
		report.Status = "error"
		return report
	}
	defer rc.Close()

	scanner, err := reference.NewScanner(rc, schema, 1)
	if err != nil {
		report.Error = err.Error()
		report.Status = "error"
		return report
	}
	report.Reachable = true
	report.SizeBytes = source.Size(ctx)
	report.Columns = len(scanner.Header())

	required := schema.MatchColumns()
	for _, col := range scanner.Missing() {
		if slices.Contains(required, col) {
			report.MissingRequired = append(report.MissingRequired, col)
		} else {
			report.MissingOptional = append(report.MissingOptional, col)
		}
	}
	if len(report.MissingRequired) > 0 {
		report.Status = "degraded"
	}
	return report
}
