package checks

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"npi-linker/core/reference"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCheckSource(t *testing.T) {
	schema := reference.DefaultSchema()
	full := strings.Join(schema.MatchColumns(), ",") + "\n"

	tests := []struct {
		name         string
		content      string
		status       string
		reachable    bool
		wantRequired []string
	}{
		{"All match columns", full, "ok", true, []string{}},
		{"Missing phones", "NPI,Provider First Name,Provider Last Name (Legal Name)\n", "degraded", true, []string{
			schema.Practice.Phone, schema.Mailing.Phone, schema.LicenseNumbers[0], schema.TaxonomyCodes[0],
		}},
		{"Empty file", "", "error", false, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := reference.FileSource{Path: writeFile(t, tt.content)}
			report := CheckSource(context.Background(), src, schema)

			assert.Equal(t, tt.status, report.Status)
			assert.Equal(t, tt.reachable, report.Reachable)
			assert.Equal(t, tt.wantRequired, report.MissingRequired)
		})
	}
}

func TestCheckSource_Unreachable(t *testing.T) {
	src := reference.FileSource{Path: filepath.Join(t.TempDir(), "absent.csv")}
	report := CheckSource(context.Background(), src, reference.DefaultSchema())

	assert.Equal(t, "error", report.Status)
	assert.False(t, report.Reachable)
	assert.Contains(t, report.Error, "unavailable")
}

func TestCheckSource_ReportsSizeAndColumns(t *testing.T) {
	content := "NPI,Extra\n1,x\n"
	src := reference.FileSource{Path: writeFile(t, content)}
	report := CheckSource(context.Background(), src, reference.DefaultSchema())

	assert.Equal(t, int64(len(content)), report.SizeBytes)
	assert.Equal(t, 2, report.Columns)
	assert.NotEmpty(t, report.MissingOptional)
}
