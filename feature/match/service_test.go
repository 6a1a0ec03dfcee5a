package match_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"npi-linker/core/pipeline"
	"npi-linker/core/reconcile"
	"npi-linker/core/reference"
	"npi-linker/feature/match"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(ref string) pipeline.Config {
	return pipeline.Config{
		Reference:       ref,
		MatchChunkSize:  2,
		FilterChunkSize: 2,
		Policy:          "first",
		LicensePrefixes: []string{"TEMP", "RN", "LP", "PN"},
		MatchMode:       "prefix",
	}
}

func loadRecords(t *testing.T) []match.TargetRecord {
	t.Helper()
	records, err := match.LoadTargets(strings.NewReader(targetsJSON), match.FormatJSON)
	require.NoError(t, err)
	return records
}

func TestService_Run(t *testing.T) {
	ref := writeReference(t,
		providerRow("1000000001", "JANE", "DOE", "RN4455", "3035550199"),
		providerRow("1000000002", "JANE", "DOE", "RN4455", ""),
		providerRow("1000000003", "ANN", "LEE", "", "303-555-0111"),
		providerRow("1000000004", "ANN", "LEE", "", "(720) 555-0100"),
	)
	svc := match.NewService(nil, nil, nil, testConfig(ref), zap.NewNop())

	report, err := svc.Run(context.Background(), match.Request{Records: loadRecords(t)})
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, reconcile.FirstMatch, report.Policy)
	assert.Equal(t, 2, report.Stats.Chunks)
	assert.Equal(t, int64(4), report.Stats.Rows)
	assert.False(t, report.Stats.EarlyExit)

	byID := map[string]reconcile.Resolution{}
	for _, r := range report.Results {
		byID[r.Target.ID] = r.Resolution
	}

	jane := byID["fb-1"]
	assert.Equal(t, reconcile.Confirmed, jane.Confidence)
	assert.Equal(t, "LICENSE:4455", jane.Method)
	require.NotNil(t, jane.Profile)
	assert.Equal(t, "1000000001", jane.Profile.NPI)

	ann := byID["fb-2"]
	assert.Equal(t, reconcile.High, ann.Confidence)
	assert.Equal(t, reconcile.MethodNameContact, ann.Method)
	assert.Equal(t, "1000000004", ann.Profile.NPI)

	assert.False(t, byID["fb-3"].Resolved)
	assert.Equal(t, reconcile.Summary{
		Total: 3, Resolved: 2, Unresolved: 1, Confirmed: 1, High: 1,
		WithLicenses: 1, WithPhones: 1,
	}, report.Summary)
	assert.Equal(t, reconcile.TierCounts{License: 1, NameContact: 1}, report.Tiers)
}

func TestService_RunStopsWhenAllResolved(t *testing.T) {
	ref := writeReference(t,
		providerRow("1", "JANE", "DOE", "RN4455", ""),
		providerRow("2", "X", "Y", "", ""),
		providerRow("3", "X", "Y", "", ""),
		providerRow("4", "X", "Y", "", ""),
	)
	svc := match.NewService(nil, nil, nil, testConfig(ref), nil)

	records := loadRecords(t)[:1]
	report, err := svc.Run(context.Background(), match.Request{Records: records})
	require.NoError(t, err)

	assert.True(t, report.Stats.EarlyExit)
	assert.Equal(t, 1, report.Stats.Chunks)
	assert.Equal(t, 1, report.Summary.Confirmed)
}

func TestService_RunWithoutTargetsReadsNothing(t *testing.T) {
	ref := writeReference(t, providerRow("1", "A", "B", "", ""))
	svc := match.NewService(nil, nil, nil, testConfig(ref), nil)

	report, err := svc.Run(context.Background(), match.Request{})
	require.NoError(t, err)
	assert.Zero(t, report.Stats.Chunks)
	assert.True(t, report.Stats.EarlyExit)
}

func TestService_RunCancelled(t *testing.T) {
	ref := writeReference(t, providerRow("1", "JANE", "DOE", "RN4455", ""))
	svc := match.NewService(nil, nil, nil, testConfig(ref), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := svc.Run(ctx, match.Request{Records: loadRecords(t)})
	require.NoError(t, err)
	assert.True(t, report.Stats.Cancelled)
	assert.Equal(t, 3, report.Summary.Unresolved)
}

func TestService_RunErrors(t *testing.T) {
	ref := writeReference(t)

	tests := []struct {
		name    string
		cfg     pipeline.Config
		req     match.Request
		wantErr error
		want    string
	}{
		{
			name:    "Missing reference",
			cfg:     testConfig(filepath.Join(t.TempDir(), "absent.csv")),
			wantErr: reference.ErrSourceUnavailable,
		},
		{
			name:    "Zero chunk size",
			cfg:     pipeline.Config{Reference: ref, Policy: "first"},
			wantErr: reference.ErrInvalidChunkSize,
		},
		{
			name: "Unknown policy",
			cfg:  testConfig(ref),
			req:  match.Request{Policy: "greedy"},
			want: "greedy",
		},
		{
			name: "Duplicate target",
			cfg:  testConfig(ref),
			req: match.Request{Records: []match.TargetRecord{
				{Target: reconcile.Target{ID: "a"}},
				{Target: reconcile.Target{ID: "a"}},
			}},
			want: "duplicate target id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := match.NewService(nil, nil, nil, tt.cfg, nil)
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

func TestService_RunExportsAndPersists(t *testing.T) {
	ref := writeReference(t, providerRow("1000000001", "JANE", "DOE", "RN4455", "3035550199"))
	out := t.TempDir()

	repo := match.NewRepository(memoryDB(t))
	require.NoError(t, repo.Migrate())

	svc := match.NewService(nil, repo, nil, testConfig(ref), nil)
	report, err := svc.Run(context.Background(), match.Request{
		Name:      "denver",
		Records:   loadRecords(t),
		Export:    true,
		OutputDir: out,
	})
	require.NoError(t, err)

	assert.True(t, report.Persisted)
	assert.Equal(t, filepath.Join(out, "denver_matches.csv"), report.Exports.Matches)
	assert.Equal(t, filepath.Join(out, "denver_no_matches.csv"), report.Exports.NoMatches)
	assert.Equal(t, filepath.Join(out, "denver_enriched.json"), report.Exports.Enriched)

	data, err := os.ReadFile(report.Exports.Enriched)
	require.NoError(t, err)
	var enriched []map[string]any
	require.NoError(t, json.Unmarshal(data, &enriched))
	require.Len(t, enriched, 3)
	block := enriched[0][match.EnrichmentKey].(map[string]any)
	assert.Equal(t, true, block["found"])
	assert.Equal(t, "1000000001", block["npi"])

	run, results, err := repo.GetRun(context.Background(), report.RunID)
	require.NoError(t, err)
	assert.Equal(t, "completed", run.Status)
	assert.Equal(t, 1, run.Confirmed)
	require.Len(t, results, 3)
	assert.Equal(t, "fb-1", results[0].TargetID)
	assert.Equal(t, "LICENSE:4455", results[0].Method)
}
