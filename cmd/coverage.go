package cmd

import (
	"fmt"
	"time"

	"npi-linker/feature/filter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	coverageReference string
	coverageMaxChunks int
	coverageChunkSize int
)

// coverageCmd compares the legacy exact codes with the configured taxonomy.
var coverageCmd = &cobra.Command{
	Use:   "coverage",
	Short: "Compare taxonomy code sets over the reference",
	Long: `Counts the rows classified by the legacy exact nursing codes and by the
configured taxonomy, with a per-code breakdown. Use --max-chunks to analyse a
sample instead of the whole reference.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.close()

		svc := filter.NewService(rt.store, rt.metrics, rt.cfg.Run, rt.logger)
		result, err := svc.Coverage(cmd.Context(), filter.CoverageRequest{
			Reference: coverageReference,
			MaxChunks: coverageMaxChunks,
			ChunkSize: coverageChunkSize,
		})
		if result == nil {
			return err
		}

		r := result.Report
		fmt.Println()
		fmt.Println(keyValueTable([][]string{
			{"Reference", result.Reference},
			{"Rows analysed", humanize.Comma(r.Rows)},
			{"Chunks", fmt.Sprint(r.Chunks)},
			{result.Baseline, humanize.Comma(r.Baseline)},
			{result.Candidate, humanize.Comma(r.Candidate)},
			{"Gain", fmt.Sprintf("%s (%s)", humanize.Comma(r.Gain()), percent(r.GainPercent()))},
			{"Duration", result.Stats.Duration.Round(time.Millisecond).String()},
		}))

		rows := make([][]string, 0, len(r.Breakdown))
		for _, pc := range r.Breakdown {
			rows = append(rows, []string{pc.Code, pc.Description, humanize.Comma(pc.Rows)})
		}
		if len(rows) > 0 {
			fmt.Println(renderTable([]string{"Code", "Description", "Rows"}, rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight}))
		}
		return err
	},
}

func init() {
	coverageCmd.Flags().StringVarP(&coverageReference, "reference", "r", "", "Reference location (path or s3://bucket/key)")
	coverageCmd.Flags().IntVar(&coverageMaxChunks, "max-chunks", 0, "Stop after this many chunks; 0 scans everything")
	coverageCmd.Flags().IntVar(&coverageChunkSize, "chunk-size", 0, "Records per chunk")

	RootCmd.AddCommand(coverageCmd)
}
