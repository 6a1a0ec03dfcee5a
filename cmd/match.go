package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"npi-linker/core/reconcile"
	"npi-linker/feature/match"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	matchTargets   string
	matchReference string
	matchPolicy    string
	matchChunkSize int
	matchPrefetch  bool
	matchExport    bool
	matchOutputDir string
	matchJSON      bool
)

// matchCmd links a target list to reference records.
var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Link target profiles to NPI records",
	Long: `Streams the reference dataset once and links every target to at most one
NPI record through a cascade of license, name plus phone, and name only tests.

Targets are read from a JSON or YAML file holding an array of profiles.

Examples:
  # Match against the configured reference, writing exports to ./output
  npi-linker match --targets nurses.json

  # Keep scanning for a stronger match, read from object storage
  npi-linker match --targets nurses.json --policy best --reference s3://npi/nppes.csv`,
	RunE: runMatch,
}

func init() {
	matchCmd.Flags().StringVarP(&matchTargets, "targets", "t", "", "Target profiles file (.json, .yaml)")
	matchCmd.Flags().StringVarP(&matchReference, "reference", "r", "", "Reference location (path or s3://bucket/key)")
	matchCmd.Flags().StringVar(&matchPolicy, "policy", "", "Resolution policy: first or best")
	matchCmd.Flags().IntVar(&matchChunkSize, "chunk-size", 0, "Records per chunk")
	matchCmd.Flags().BoolVar(&matchPrefetch, "prefetch", false, "Read the next chunk while matching the current one")
	matchCmd.Flags().BoolVar(&matchExport, "export", true, "Write matches, no-matches and enriched files")
	matchCmd.Flags().StringVarP(&matchOutputDir, "output-dir", "o", "", "Export directory (path or s3://bucket/prefix)")
	matchCmd.Flags().BoolVar(&matchJSON, "json", false, "Print the full report as JSON")
	_ = matchCmd.MarkFlagRequired("targets")

	RootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, args []string) error {
	rt, err := bootstrap()
	if err != nil {
		return err
	}
	defer rt.close()

	records, err := match.LoadTargetsFile(matchTargets)
	if err != nil {
		return err
	}
	rt.logger.Info("Loaded targets", zap.String("file", matchTargets), zap.Int("count", len(records)))

	var repo *match.Repository
	if rt.db != nil {
		repo = match.NewRepository(rt.db)
		if err := repo.Migrate(); err != nil {
			return fmt.Errorf("failed to migrate result tables: %w", err)
		}
	}

	svc := match.NewService(rt.store, repo, rt.metrics, rt.cfg.Run, rt.logger)
	report, runErr := svc.Run(cmd.Context(), match.Request{
		Name:      strings.TrimSuffix(filepath.Base(matchTargets), filepath.Ext(matchTargets)),
		Reference: matchReference,
		Records:   records,
		Policy:    matchPolicy,
		ChunkSize: matchChunkSize,
		Prefetch:  matchPrefetch,
		Export:    matchExport,
		OutputDir: matchOutputDir,
	})
	if report == nil {
		return runErr
	}

	if matchJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
		return runErr
	}

	printMatchReport(report)
	return runErr
}

func printMatchReport(report *match.Report) {
	sum := report.Summary
	st := report.Stats

	fmt.Println()
	fmt.Println(keyValueTable([][]string{
		{"Run", report.RunID},
		{"Reference", report.Reference},
		{"Policy", string(report.Policy)},
		{"Rows scanned", humanize.Comma(st.Scanned())},
		{"Malformed rows", humanize.Comma(st.Malformed)},
		{"Chunks", humanize.Comma(int64(st.Chunks))},
		{"Duration", st.Duration.Round(time.Millisecond).String()},
		{"Rows per second", humanize.CommafWithDigits(st.RowsPerSecond(), 0)},
		{"Early exit", fmt.Sprint(st.EarlyExit)},
		{"Cancelled", fmt.Sprint(st.Cancelled)},
	}))

	fmt.Println(renderTable(
		[]string{"Outcome", "Targets", "Share"},
		[][]string{
			{"Confirmed (license)", fmt.Sprint(sum.Confirmed), percent(sum.Percent(sum.Confirmed))},
			{"High (name + phone)", fmt.Sprint(sum.High), percent(sum.Percent(sum.High))},
			{"Medium (name only)", fmt.Sprint(sum.Medium), percent(sum.Percent(sum.Medium))},
			{"Unresolved", fmt.Sprint(sum.Unresolved), percent(sum.Percent(sum.Unresolved))},
			{"Total", fmt.Sprint(sum.Total), ""},
		},
		[]columnAlignment{alignLeft, alignRight, alignRight},
	))

	fmt.Printf("Targets without license data: %d, without phone data: %d\n",
		sum.WithoutLicenses(), sum.WithoutPhones())
	if len(report.Missing) > 0 {
		fmt.Printf("Reference is missing %d columns: %s\n", len(report.Missing), strings.Join(report.Missing, ", "))
	}

	if samples := sampleMatches(report.Results, 10); len(samples) > 0 {
		fmt.Println(renderTable([]string{"Target", "NPI", "Name", "Confidence", "Method"}, samples, nil))
	}

	for _, path := range []string{report.Exports.Matches, report.Exports.NoMatches, report.Exports.Enriched} {
		if path != "" {
			fmt.Printf("Wrote %s\n", path)
		}
	}
	if report.Persisted {
		fmt.Printf("Run persisted as %s\n", report.RunID)
	}
}

func sampleMatches(results []reconcile.Result, limit int) [][]string {
	var rows [][]string
	for _, r := range results {
		if len(rows) == limit {
			break
		}
		res := r.Resolution
		if !res.Resolved || res.Profile == nil {
			continue
		}
		rows = append(rows, []string{r.Target.Name, res.Profile.NPI, res.Profile.FullName, string(res.Confidence), res.Method})
	}
	return rows
}

func percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}
