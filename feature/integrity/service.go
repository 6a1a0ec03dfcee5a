package integrity

import (
	"context"

	"npi-linker/core/reference"
	"npi-linker/core/storage"
	"npi-linker/feature/integrity/checks"
	"npi-linker/feature/match/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service handles integrity checks.
type Service struct {
	client    storage.Client
	bucket    string
	region    string
	db        *gorm.DB
	reference string
	schema    reference.Schema
	logger    *zap.Logger
}

// NewService creates a new integrity service. client and db may be nil when
// storage or persistence is not configured.
func NewService(client storage.Client, storageCfg storage.Config, db *gorm.DB, referenceLocation string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		client:    client,
		bucket:    storageCfg.Bucket,
		region:    storageCfg.Region,
		db:        db,
		reference: referenceLocation,
		schema:    reference.DefaultSchema(),
		logger:    logger,
	}
}

// CheckSource checks that location (or the configured reference when empty)
// is reachable and carries the match columns.
func (s *Service) CheckSource(ctx context.Context, location string) (*checks.SourceReport, error) {
	if location == "" {
		location = s.reference
	}
	source, err := reference.ParseSource(location, s.client)
	if err != nil {
		return nil, err
	}
	return checks.CheckSource(ctx, source, s.schema), nil
}

// CheckStorage reports whether the bucket exists and which CSVs it holds.
func (s *Service) CheckStorage(ctx context.Context) (*checks.StorageReport, error) {
	return checks.CheckStorage(ctx, s.client, s.bucket)
}

// FixStorage creates the bucket if it is missing.
func (s *Service) FixStorage(ctx context.Context) error {
	return checks.FixStorage(ctx, s.client, s.bucket, s.region, s.logger)
}

// CheckSchema compares the result tables with the match models.
func (s *Service) CheckSchema() (*checks.SchemaReport, error) {
	return checks.CheckSchema(s.db, models.All()...)
}

// CheckAll runs every check. Each entry holds either a report or an error.
func (s *Service) CheckAll(ctx context.Context) map[string]any {
	report := make(map[string]any)

	if src, err := s.CheckSource(ctx, ""); err != nil {
		report["source"] = map[string]any{"status": "error", "error": err.Error()}
	} else {
		report["source"] = src
	}

	if s.client == nil {
		report["storage"] = map[string]any{"status": "skipped"}
	} else if st, err := s.CheckStorage(ctx); err != nil {
		report["storage"] = map[string]any{"status": "error", "error": err.Error()}
	} else {
		report["storage"] = st
	}

	if s.db == nil {
		report["schema"] = map[string]any{"status": "skipped"}
	} else if sc, err := s.CheckSchema(); err != nil {
		report["schema"] = map[string]any{"status": "error", "error": err.Error()}
	} else {
		report["schema"] = sc
	}

	return report
}
