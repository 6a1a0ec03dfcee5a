package match

import (
	"context"
	"errors"
	"fmt"
	"time"

	"npi-linker/core/metrics"
	"npi-linker/core/normalize"
	"npi-linker/core/pipeline"
	"npi-linker/core/reconcile"
	"npi-linker/core/reference"
	"npi-linker/core/storage"
	"npi-linker/feature/match/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Request describes one match run. Zero fields fall back to the service's
// run configuration.
type Request struct {
	// Name is the base name of exported files.
	Name      string         `json:"name"`
	Reference string         `json:"reference"`
	Records   []TargetRecord `json:"-"`
	Policy    string         `json:"policy"`
	ChunkSize int            `json:"chunk_size"`
	Prefetch  bool           `json:"prefetch"`
	// Export writes the matches, no-matches and enriched files to OutputDir.
	Export    bool   `json:"export"`
	OutputDir string `json:"output_dir"`
}

// Report is the outcome of a match run. It is returned even when the scan
// fails, carrying whatever was resolved before the failure.
type Report struct {
	RunID     string               `json:"run_id"`
	Reference string               `json:"reference"`
	Policy    reconcile.Policy     `json:"policy"`
	Missing   []string             `json:"missing_columns,omitempty"`
	Stats     pipeline.Stats       `json:"stats"`
	Summary   reconcile.Summary    `json:"summary"`
	Tiers     reconcile.TierCounts `json:"tiers"`
	Results   []reconcile.Result   `json:"results"`
	Exports   Exports              `json:"exports"`
	Persisted bool                 `json:"persisted"`
}

// Service runs target matching against the reference dataset.
type Service struct {
	client  storage.Client
	repo    *Repository
	metrics *metrics.Metrics
	cfg     pipeline.Config
	schema  reference.Schema
	logger  *zap.Logger
}

// NewService creates a match service. client, repo and m are optional.
func NewService(client storage.Client, repo *Repository, m *metrics.Metrics, cfg pipeline.Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		client:  client,
		repo:    repo,
		metrics: m,
		cfg:     cfg,
		schema:  reference.DefaultSchema(),
		logger:  logger,
	}
}

// Repository returns the result repository, nil when persistence is off.
func (s *Service) Repository() *Repository {
	return s.repo
}

// Run streams the reference dataset once, resolving every target it can.
func (s *Service) Run(ctx context.Context, req Request) (*Report, error) {
	policy, err := reconcile.ParsePolicy(firstNonEmpty(req.Policy, s.cfg.Policy))
	if err != nil {
		return nil, err
	}
	chunkSize := req.ChunkSize
	if chunkSize == 0 {
		chunkSize = s.cfg.MatchChunkSize
	}
	if chunkSize <= 0 {
		return nil, fmt.Errorf("match chunk size %d: %w", chunkSize, reference.ErrInvalidChunkSize)
	}
	location := firstNonEmpty(req.Reference, s.cfg.Reference)

	registry := reconcile.NewRegistry(policy, normalize.NewLicenseNormalizer(s.cfg.LicensePrefixes...))
	targets := make([]reconcile.Target, len(req.Records))
	for i, rec := range req.Records {
		targets[i] = rec.Target
	}
	if err := registry.Register(targets...); err != nil {
		return nil, err
	}

	report := &Report{
		RunID:     uuid.NewString(),
		Reference: location,
		Policy:    policy,
	}
	l := s.logger.With(zap.String("run_id", report.RunID))
	startedAt := time.Now()

	source, err := reference.ParseSource(location, s.client)
	if err != nil {
		return nil, err
	}
	rc, err := source.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	scanner, err := reference.NewScanner(rc, s.schema, chunkSize)
	if err != nil {
		return nil, err
	}
	report.Missing = scanner.Missing()
	if len(report.Missing) > 0 {
		l.Warn("Reference is missing columns; affected fields read as absent",
			zap.Strings("missing", report.Missing))
	}

	l.Info("Starting match run",
		zap.String("reference", source.String()),
		zap.Int("targets", registry.Len()),
		zap.String("policy", string(policy)),
		zap.Int("chunk_size", chunkSize),
	)

	cascade := reconcile.NewCascade(registry, l)
	cascade.OnResolve(func(_ string, res reconcile.Resolution) {
		s.metrics.ObserveResolution(string(res.Confidence))
	})

	ctrl := pipeline.NewController(l, pipeline.Options{
		Prefetch:      req.Prefetch || s.cfg.Prefetch,
		ProgressEvery: s.cfg.ProgressEvery,
		OnProgress: func(st pipeline.Stats) {
			sum := registry.Summary()
			l.Info("Match progress",
				zap.Float64("rows_per_second", st.RowsPerSecond()),
				zap.Int("resolved", sum.Resolved),
				zap.Int("searching", sum.Unresolved),
			)
		},
	})
	stats, runErr := ctrl.Run(ctx, scanner, s.metrics.Consumer(metrics.KindMatch, cascade))
	s.metrics.ObserveRun(metrics.KindMatch, stats, runErr)

	report.Stats = stats
	report.Summary = registry.Summary()
	report.Tiers = cascade.Counts()
	report.Results = registry.Results()

	// Persisting and exporting run on what was resolved, even after a
	// cancellation; a cancelled ctx must not abort them.
	bg := context.WithoutCancel(ctx)
	var errs []error
	if runErr != nil {
		errs = append(errs, runErr)
	}

	if req.Export && runErr == nil {
		dir := firstNonEmpty(req.OutputDir, s.cfg.OutputDir)
		exports, err := NewExporter(s.client, dir).Export(bg, req.Name, req.Records, report.Results)
		report.Exports = exports
		if err != nil {
			errs = append(errs, fmt.Errorf("export results: %w", err))
		}
	}

	if s.repo != nil {
		run := runModel(report, startedAt, runErr)
		if err := s.repo.SaveRun(bg, run, ResultModels(report.Results)); err != nil {
			l.Error("Failed to persist match run", zap.Error(err))
			errs = append(errs, err)
		} else {
			report.Persisted = true
		}
	}

	l.Info("Match run finished",
		zap.Int("resolved", report.Summary.Resolved),
		zap.Int("confirmed", report.Summary.Confirmed),
		zap.Int("high", report.Summary.High),
		zap.Int("medium", report.Summary.Medium),
		zap.Int("unresolved", report.Summary.Unresolved),
	)
	return report, errors.Join(errs...)
}

func runModel(report *Report, startedAt time.Time, runErr error) *models.MatchRun {
	run := &models.MatchRun{
		ID:          report.RunID,
		Reference:   report.Reference,
		Policy:      string(report.Policy),
		Status:      metrics.Outcome(report.Stats, runErr),
		Targets:     report.Summary.Total,
		Resolved:    report.Summary.Resolved,
		Confirmed:   report.Summary.Confirmed,
		High:        report.Summary.High,
		Medium:      report.Summary.Medium,
		Chunks:      report.Stats.Chunks,
		Rows:        report.Stats.Rows,
		Malformed:   report.Stats.Malformed,
		DurationMS:  report.Stats.Duration.Milliseconds(),
		StartedAt:   startedAt.UTC(),
		CompletedAt: time.Now().UTC(),
	}
	if runErr != nil {
		run.Error = runErr.Error()
	}
	return run
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
