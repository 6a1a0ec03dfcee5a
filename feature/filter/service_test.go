package filter_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"npi-linker/core/classify"
	"npi-linker/core/pipeline"
	"npi-linker/core/reference"
	"npi-linker/core/storage/mocks"
	"npi-linker/feature/filter"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var schema = reference.DefaultSchema()

var header = []string{
	schema.NPI, schema.FirstName, schema.LastName,
	schema.Practice.City, schema.Practice.State,
	schema.TaxonomyCodes[0], schema.TaxonomyCodes[1],
}

// writeReference writes rows (already in header order) to a temp CSV.
func writeReference(t *testing.T, rows ...[]string) string {
	t.Helper()
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	require.NoError(t, w.Write(header))
	require.NoError(t, w.WriteAll(rows))

	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func sampleReference(t *testing.T) string {
	return writeReference(t,
		[]string{"1", "JANE", "DOE", "DENVER", "CO", "163W00000X", ""},
		[]string{"2", "BOB", "KAY", "DENVER", "CO", "207Q00000X", ""},
		[]string{"3", "ANN", "LEE", "PHOENIX", "AZ", "", "363LF0000X"},
		[]string{"4", "MAY", "ROE", "AURORA", "CO", "364SP0808X", ""},
		[]string{"5", "TOM", "FOX", "DENVER", "CO", "163W00000X", ""},
	)
}

func testConfig(ref, outDir string) pipeline.Config {
	return pipeline.Config{
		Reference:       ref,
		MatchChunkSize:  2,
		FilterChunkSize: 2,
		MatchMode:       "prefix",
		OutputDir:       outDir,
	}
}

func TestService_Run(t *testing.T) {
	out := t.TempDir()
	svc := filter.NewService(nil, nil, testConfig(sampleReference(t), out), zap.NewNop())

	report, err := svc.Run(context.Background(), filter.Request{})
	require.NoError(t, err)

	assert.Equal(t, int64(4), report.Qualifying)
	assert.Equal(t, int64(5), report.Stats.Rows)
	assert.Equal(t, 3, report.Stats.Chunks)
	assert.Equal(t, classify.ModePrefix, report.Mode)
	assert.InDelta(t, 80.0, report.Percent(), 0.001)
	assert.Equal(t, filepath.Join(out, filter.DefaultOutputFile), report.Output)
	assert.Positive(t, report.OutputBytes)

	f, err := os.Open(report.Output)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, header, rows[0])
	assert.Equal(t, []string{"1", "3", "4", "5"}, []string{rows[1][0], rows[2][0], rows[3][0], rows[4][0]})
}

func TestService_RunWithPredicates(t *testing.T) {
	out := filepath.Join(t.TempDir(), "denver.csv")
	svc := filter.NewService(nil, nil, testConfig(sampleReference(t), ""), nil)

	report, err := svc.Run(context.Background(), filter.Request{
		Output:     out,
		Codes:      []string{"163W00000X"},
		Mode:       "exact",
		Predicates: classify.Predicates{City: "den", State: "co"},
		Prefetch:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), report.Qualifying)
	assert.Equal(t, out, report.Output)
}

func TestService_RunNothingQualifies(t *testing.T) {
	out := filepath.Join(t.TempDir(), "none.csv")
	svc := filter.NewService(nil, nil, testConfig(sampleReference(t), ""), nil)

	report, err := svc.Run(context.Background(), filter.Request{Output: out, Codes: []string{"999"}})
	require.NoError(t, err)

	assert.Zero(t, report.Qualifying)
	assert.Empty(t, report.Output)
	assert.Zero(t, report.OutputBytes)
	_, err = os.Stat(out)
	assert.True(t, os.IsNotExist(err))
}

func TestService_RunToObjectStorage(t *testing.T) {
	client := new(mocks.Client)
	client.On("PutObject", mock.Anything, "exports", "nurses.csv",
		mock.MatchedBy(func(body []byte) bool { return strings.Count(string(body), "\n") == 5 }),
		int64(-1), mock.Anything).
		Return(minio.UploadInfo{Size: 321}, nil)

	svc := filter.NewService(client, nil, testConfig(sampleReference(t), ""), nil)
	report, err := svc.Run(context.Background(), filter.Request{Output: "s3://exports/nurses.csv"})
	require.NoError(t, err)

	assert.Equal(t, "s3://exports/nurses.csv", report.Output)
	assert.Equal(t, int64(321), report.OutputBytes)
	client.AssertExpectations(t)
}

func TestService_RunErrors(t *testing.T) {
	ref := sampleReference(t)

	tests := []struct {
		name    string
		cfg     pipeline.Config
		req     filter.Request
		wantErr error
		want    string
	}{
		{"Missing source", testConfig(filepath.Join(t.TempDir(), "nope.csv"), t.TempDir()), filter.Request{}, reference.ErrSourceUnavailable, ""},
		{"Bad mode", testConfig(ref, t.TempDir()), filter.Request{Codes: []string{"1"}, Mode: "fuzzy"}, nil, "fuzzy"},
		{"Bad chunk size", testConfig(ref, t.TempDir()), filter.Request{ChunkSize: -1}, reference.ErrInvalidChunkSize, ""},
		{"Missing taxonomy file", pipeline.Config{Reference: ref, FilterChunkSize: 1, TaxonomyFile: "/nonexistent/tax.yaml"}, filter.Request{}, nil, "tax.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := filter.NewService(nil, nil, tt.cfg, nil)
			report, err := svc.Run(context.Background(), tt.req)
			require.Error(t, err)
			assert.Nil(t, report)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.want != "" {
				assert.ErrorContains(t, err, tt.want)
			}
		})
	}
}

func TestService_TaxonomyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taxonomy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: np-only\nmode: prefix\ncodes:\n  - code: 363L\n    description: Nurse Practitioner\n"), 0o644))

	cfg := testConfig(sampleReference(t), t.TempDir())
	cfg.TaxonomyFile = path
	svc := filter.NewService(nil, nil, cfg, nil)

	report, err := svc.Run(context.Background(), filter.Request{})
	require.NoError(t, err)
	assert.Equal(t, []string{"363L"}, report.Codes)
	assert.Equal(t, int64(1), report.Qualifying)
}

func TestService_Coverage(t *testing.T) {
	svc := filter.NewService(nil, nil, testConfig(sampleReference(t), ""), nil)

	result, err := svc.Coverage(context.Background(), filter.CoverageRequest{})
	require.NoError(t, err)

	assert.Equal(t, "nursing-legacy", result.Baseline)
	assert.Equal(t, "nursing", result.Candidate)
	assert.Equal(t, int64(5), result.Report.Rows)
	assert.Equal(t, int64(2), result.Report.Baseline)
	assert.Equal(t, int64(4), result.Report.Candidate)
	assert.Equal(t, int64(2), result.Report.Gain())
	require.NotEmpty(t, result.Report.Breakdown)
	assert.Equal(t, "163W", result.Report.Breakdown[0].Code)
	assert.Equal(t, int64(2), result.Report.Breakdown[0].Rows)
}

func TestService_CoverageSample(t *testing.T) {
	svc := filter.NewService(nil, nil, testConfig(sampleReference(t), ""), nil)

	result, err := svc.Coverage(context.Background(), filter.CoverageRequest{MaxChunks: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Report.Chunks)
	assert.Equal(t, int64(2), result.Report.Rows)
	assert.True(t, result.Stats.EarlyExit)
}
