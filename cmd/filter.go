package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"npi-linker/core/classify"
	"npi-linker/core/storage"
	"npi-linker/feature/filter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	filterReference  string
	filterOutput     string
	filterCodes      []string
	filterMode       string
	filterChunkSize  int
	filterPrefetch   bool
	filterPredicates classify.Predicates
	yesConfirm       bool
)

// filterCmd classifies the reference by taxonomy code.
var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Extract reference rows carrying nursing taxonomy codes",
	Long: `Streams the reference dataset and writes every row whose taxonomy slots
match one of the codes to a CSV with the original header, in source order.
Without --codes the configured taxonomy (built-in nursing prefixes by default)
is used. Optional predicates narrow the rows further.

Examples:
  # Nursing rows into output/nurses_filtered.csv
  npi-linker filter

  # Exact codes, Colorado only, straight into object storage
  npi-linker filter --codes 163W00000X,164W00000X --mode exact --state CO --output s3://npi/co_nurses.csv`,
	RunE: runFilter,
}

func init() {
	filterCmd.Flags().StringVarP(&filterReference, "reference", "r", "", "Reference location (path or s3://bucket/key)")
	filterCmd.Flags().StringVarP(&filterOutput, "output", "o", "", "Output location (path or s3://bucket/key)")
	filterCmd.Flags().StringSliceVar(&filterCodes, "codes", nil, "Taxonomy codes or prefixes (comma separated)")
	filterCmd.Flags().StringVar(&filterMode, "mode", "", "Code comparison: exact or prefix")
	filterCmd.Flags().IntVar(&filterChunkSize, "chunk-size", 0, "Records per chunk")
	filterCmd.Flags().BoolVar(&filterPrefetch, "prefetch", false, "Read the next chunk while filtering the current one")
	filterCmd.Flags().StringVar(&filterPredicates.FirstName, "first-name", "", "Keep rows whose first name contains this text")
	filterCmd.Flags().StringVar(&filterPredicates.LastName, "last-name", "", "Keep rows whose last name contains this text")
	filterCmd.Flags().StringVar(&filterPredicates.City, "city", "", "Keep rows whose practice city contains this text")
	filterCmd.Flags().StringVar(&filterPredicates.State, "state", "", "Keep rows whose practice state equals this code")
	filterCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Overwrite an existing output file without asking")

	RootCmd.AddCommand(filterCmd)
}

func runFilter(cmd *cobra.Command, args []string) error {
	rt, err := bootstrap()
	if err != nil {
		return err
	}
	defer rt.close()

	output := filterOutput
	if output == "" {
		output = filepath.Join(rt.cfg.Run.OutputDir, filter.DefaultOutputFile)
	}
	if !storage.IsURI(output) {
		if _, err := os.Stat(output); err == nil && !confirmOverwrite(output) {
			rt.logger.Warn("Operation cancelled by user. No changes were made.")
			return nil
		}
		if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	svc := filter.NewService(rt.store, rt.metrics, rt.cfg.Run, rt.logger)
	report, runErr := svc.Run(cmd.Context(), filter.Request{
		Reference:  filterReference,
		Output:     output,
		Codes:      filterCodes,
		Mode:       filterMode,
		Predicates: filterPredicates,
		ChunkSize:  filterChunkSize,
		Prefetch:   filterPrefetch,
	})
	if report == nil {
		return runErr
	}

	st := report.Stats
	rows := [][]string{
		{"Reference", report.Reference},
		{"Mode", string(report.Mode)},
		{"Codes", fmt.Sprint(len(report.Codes))},
		{"Rows scanned", humanize.Comma(st.Scanned())},
		{"Malformed rows", humanize.Comma(st.Malformed)},
		{"Qualifying rows", humanize.Comma(report.Qualifying)},
		{"Share", percent(report.Percent())},
		{"Duration", st.Duration.Round(time.Millisecond).String()},
		{"Cancelled", fmt.Sprint(st.Cancelled)},
	}
	for _, p := range report.Predicates.Describe() {
		rows = append(rows, []string{"Predicate", p})
	}
	if report.Output != "" {
		rows = append(rows,
			[]string{"Output", report.Output},
			[]string{"Output size", humanize.Bytes(uint64(report.OutputBytes))},
		)
	} else {
		rows = append(rows, []string{"Output", "none (no qualifying rows)"})
	}
	fmt.Println()
	fmt.Println(keyValueTable(rows))

	rt.logger.Info("Filter completed", zap.Int64("qualifying", report.Qualifying))
	return runErr
}

// confirmOverwrite prompts before replacing an existing file, or uses --yes.
func confirmOverwrite(path string) bool {
	if yesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Printf("\n⚠️  %s exists. Type 'yes' to overwrite it: ", path)
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(response) == "yes"
}
