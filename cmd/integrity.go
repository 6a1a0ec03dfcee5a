package cmd

import (
	"context"
	"fmt"

	"npi-linker/feature/integrity"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	fixFlag        bool
	sourceLocation string
)

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Check that the reference, storage and result database are usable",
	Long:  `Checks the reference header, the storage bucket and the result tables. Subcommands run a single check.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			return cmd.Help()
		}
		return runIntegrityChecks(cmd.Context(), true, true, true)
	},
}

// sourceCmd represents the integrity source command
var sourceCmd = &cobra.Command{
	Use:   "source",
	Short: "Check the reference dataset header",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), true, false, false)
	},
}

// storageCmd represents the integrity storage command
var storageCmd = &cobra.Command{
	Use:   "storage",
	Short: "Check and fix the storage bucket",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), false, true, false)
	},
}

// schemaCmd represents the integrity schema command
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Check the result database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), false, false, true)
	},
}

func init() {
	RootCmd.AddCommand(integrityCmd)
	integrityCmd.AddCommand(sourceCmd, storageCmd, schemaCmd)

	sourceCmd.Flags().StringVar(&sourceLocation, "location", "", "Reference location to check instead of the configured one")
	storageCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create the bucket if it is missing")
}

func runIntegrityChecks(ctx context.Context, runSource, runStorage, runSchema bool) error {
	rt, err := bootstrap()
	if err != nil {
		return err
	}
	defer rt.close()
	logg := rt.logger

	svc := integrity.NewService(rt.store, rt.cfg.Storage, rt.db, rt.cfg.Run.Reference, logg)
	healthy := true

	if runSource {
		logg.Info("Checking reference source...")
		report, err := svc.CheckSource(ctx, sourceLocation)
		if err != nil {
			return fmt.Errorf("source check failed: %w", err)
		}
		switch report.Status {
		case "ok":
			logg.Info("Reference header is complete.",
				zap.String("location", report.Location),
				zap.Int("columns", report.Columns),
				zap.String("size", humanize.Bytes(uint64(max(report.SizeBytes, 0)))))
		case "degraded":
			healthy = false
			logg.Warn("Reference is missing match columns",
				zap.String("location", report.Location),
				zap.Strings("missing", report.MissingRequired))
		default:
			healthy = false
			logg.Error("Reference is unreachable", zap.String("location", report.Location), zap.String("error", report.Error))
		}
		if len(report.MissingOptional) > 0 {
			logg.Info("Optional columns absent", zap.Int("count", len(report.MissingOptional)))
		}
	}

	if runStorage {
		if rt.store == nil {
			logg.Info("Storage is disabled; skipping bucket check.")
		} else {
			logg.Info("Checking storage bucket...")
			report, err := svc.CheckStorage(ctx)
			if err != nil {
				return fmt.Errorf("storage check failed: %w", err)
			}
			switch {
			case report.Exists:
				logg.Info("Bucket is present.", zap.String("bucket", report.Bucket), zap.Strings("references", report.References))
			case fixFlag:
				logg.Info("Creating missing bucket...", zap.String("bucket", report.Bucket))
				if err := svc.FixStorage(ctx); err != nil {
					return fmt.Errorf("failed to create bucket: %w", err)
				}
				logg.Info("Bucket created successfully.")
			default:
				healthy = false
				logg.Warn("Bucket is missing. Run 'integrity storage --fix' to create it.", zap.String("bucket", report.Bucket))
			}
		}
	}

	if runSchema {
		if rt.db == nil {
			logg.Info("Database is disabled; skipping schema check.")
		} else {
			logg.Info("Checking result schema...")
			report, err := svc.CheckSchema()
			if err != nil {
				return fmt.Errorf("schema check failed: %w", err)
			}
			if report.Matched {
				logg.Info("Result schema matches the models.")
			} else {
				healthy = false
				logg.Warn("Result schema mismatches found")
				for table, tbl := range report.Tables {
					if tbl.Status == "ok" {
						continue
					}
					if tbl.Status == "missing" {
						logg.Warn("Missing table", zap.String("table", table))
					}
					if len(tbl.MissingColumns) > 0 {
						logg.Warn("Missing Columns", zap.String("table", table), zap.Strings("columns", tbl.MissingColumns))
					}
					if len(tbl.TypeMismatches) > 0 {
						logg.Warn("Type Mismatches", zap.String("table", table), zap.Strings("mismatches", tbl.TypeMismatches))
					}
				}
				for _, e := range report.Errors {
					logg.Error("Inspection Error", zap.String("error", e))
				}
			}
		}
	}

	if !healthy {
		return fmt.Errorf("integrity checks reported problems")
	}
	return nil
}
