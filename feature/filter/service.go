package filter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"npi-linker/core/classify"
	"npi-linker/core/metrics"
	"npi-linker/core/pipeline"
	"npi-linker/core/reference"
	"npi-linker/core/storage"

	"go.uber.org/zap"
)

// DefaultOutputFile is written under the configured output directory when a
// request names no output.
const DefaultOutputFile = "nurses_filtered.csv"

// Request describes one classification run. Zero fields fall back to the
// service's run configuration.
type Request struct {
	Reference  string              `json:"reference"`
	Output     string              `json:"output"`
	Codes      []string            `json:"codes"`
	Mode       string              `json:"mode"`
	Predicates classify.Predicates `json:"predicates"`
	ChunkSize  int                 `json:"chunk_size"`
	Prefetch   bool                `json:"prefetch"`
}

// Report is the outcome of a classification run.
type Report struct {
	Reference  string              `json:"reference"`
	Output     string              `json:"output,omitempty"`
	Codes      []string            `json:"codes"`
	Mode       classify.Mode       `json:"mode"`
	Predicates classify.Predicates `json:"predicates"`
	Stats      pipeline.Stats      `json:"stats"`
	Qualifying int64               `json:"qualifying"`
	// OutputBytes is the size of the written output, 0 when nothing qualified.
	OutputBytes int64 `json:"output_bytes"`
}

// Percent returns qualifying rows as a share of rows scanned.
func (r Report) Percent() float64 {
	if r.Stats.Rows == 0 {
		return 0
	}
	return float64(r.Qualifying) / float64(r.Stats.Rows) * 100
}

// CoverageRequest describes one coverage analysis.
type CoverageRequest struct {
	Reference string `json:"reference"`
	// MaxChunks limits the scan to a sample; 0 scans the whole source.
	MaxChunks int `json:"max_chunks"`
	ChunkSize int `json:"chunk_size"`
}

// CoverageResult pairs the coverage counts with the scan stats.
type CoverageResult struct {
	Reference string                  `json:"reference"`
	Baseline  string                  `json:"baseline"`
	Candidate string                  `json:"candidate"`
	Report    classify.CoverageReport `json:"report"`
	Stats     pipeline.Stats          `json:"stats"`
}

// Service runs classification and coverage scans.
type Service struct {
	client  storage.Client
	metrics *metrics.Metrics
	cfg     pipeline.Config
	schema  reference.Schema
	logger  *zap.Logger
}

// NewService creates a filter service. client and m are optional.
func NewService(client storage.Client, m *metrics.Metrics, cfg pipeline.Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		client:  client,
		metrics: m,
		cfg:     cfg,
		schema:  reference.DefaultSchema(),
		logger:  logger,
	}
}

// Taxonomy returns the configured taxonomy: the taxonomy file when set,
// otherwise the default nursing prefixes.
func (s *Service) Taxonomy() (classify.Taxonomy, error) {
	if s.cfg.TaxonomyFile == "" {
		return classify.DefaultNurseTaxonomy(), nil
	}
	tax, err := classify.LoadTaxonomy(s.cfg.TaxonomyFile)
	if err != nil {
		return classify.Taxonomy{}, err
	}
	return *tax, nil
}

// NewFilter resolves the codes and mode of req against the configuration.
func (s *Service) NewFilter(req Request) (*classify.Filter, error) {
	codes := req.Codes
	mode := req.Mode
	if len(codes) == 0 {
		tax, err := s.Taxonomy()
		if err != nil {
			return nil, err
		}
		codes = tax.Values()
		if mode == "" {
			mode = string(tax.Mode)
		}
	}
	if mode == "" {
		mode = s.cfg.MatchMode
	}
	m, err := classify.ParseMode(mode)
	if err != nil {
		return nil, err
	}
	return classify.NewFilter(codes, m, req.Predicates)
}

// Run writes every qualifying reference row to the output, in source order.
// When no row qualifies, no output is created.
func (s *Service) Run(ctx context.Context, req Request) (*Report, error) {
	f, err := s.NewFilter(req)
	if err != nil {
		return nil, err
	}
	chunkSize, err := s.chunkSize(req.ChunkSize, s.cfg.FilterChunkSize)
	if err != nil {
		return nil, err
	}

	location := firstNonEmpty(req.Reference, s.cfg.Reference)
	output := req.Output
	if output == "" {
		output = filepath.Join(s.cfg.OutputDir, DefaultOutputFile)
	}

	scanner, closer, err := s.open(ctx, location, chunkSize)
	if err != nil {
		return nil, err
	}
	defer closer()

	sink, err := reference.ParseSink(ctx, output, s.client, scanner.Header())
	if err != nil {
		return nil, err
	}

	report := &Report{
		Reference:  location,
		Codes:      f.Codes(),
		Mode:       f.Mode(),
		Predicates: req.Predicates,
	}
	l := s.logger.With(zap.String("reference", location), zap.String("output", sink.String()))
	if missing := scanner.Missing(); len(missing) > 0 {
		l.Warn("Reference is missing columns; affected fields read as absent", zap.Strings("missing", missing))
	}
	l.Info("Starting classification run",
		zap.Strings("codes", report.Codes),
		zap.String("mode", string(report.Mode)),
		zap.Strings("predicates", req.Predicates.Describe()),
	)

	consumer := classify.NewConsumer(f, sink, l)
	consumer.OnChunk(func(_ *reference.Chunk, qualifying int) {
		s.metrics.ObserveQualifying(qualifying)
	})

	ctrl := pipeline.NewController(l, pipeline.Options{
		Prefetch:      req.Prefetch || s.cfg.Prefetch,
		ProgressEvery: s.cfg.ProgressEvery,
		OnProgress: func(st pipeline.Stats) {
			l.Info("Classification progress",
				zap.Int64("qualifying", consumer.Matched()),
				zap.Float64("rows_per_second", st.RowsPerSecond()),
			)
		},
	})
	stats, runErr := ctrl.Run(ctx, scanner, s.metrics.Consumer(metrics.KindFilter, consumer))
	s.metrics.ObserveRun(metrics.KindFilter, stats, runErr)

	closeErr := sink.Close()
	report.Stats = stats
	report.Qualifying = consumer.Matched()
	if report.Qualifying > 0 && closeErr == nil {
		report.Output = sink.String()
		report.OutputBytes = outputSize(sink)
	}

	if report.Qualifying == 0 {
		l.Warn("No rows qualified; no output written")
	} else {
		l.Info("Classification run finished",
			zap.Int64("qualifying", report.Qualifying),
			zap.Int64("rows", stats.Rows),
		)
	}
	if closeErr != nil {
		closeErr = fmt.Errorf("close output %s: %w", sink, closeErr)
	}
	return report, errors.Join(runErr, closeErr)
}

// Coverage compares the legacy exact codes with the configured taxonomy.
func (s *Service) Coverage(ctx context.Context, req CoverageRequest) (*CoverageResult, error) {
	candidate, err := s.Taxonomy()
	if err != nil {
		return nil, err
	}
	baseline := classify.LegacyNurseTaxonomy()
	cov, err := classify.NewCoverage(baseline, candidate, req.MaxChunks)
	if err != nil {
		return nil, err
	}
	chunkSize, err := s.chunkSize(req.ChunkSize, s.cfg.FilterChunkSize)
	if err != nil {
		return nil, err
	}

	location := firstNonEmpty(req.Reference, s.cfg.Reference)
	scanner, closer, err := s.open(ctx, location, chunkSize)
	if err != nil {
		return nil, err
	}
	defer closer()

	l := s.logger.With(zap.String("reference", location))
	l.Info("Starting coverage analysis",
		zap.String("baseline", baseline.Name),
		zap.String("candidate", candidate.Name),
		zap.Int("max_chunks", req.MaxChunks),
	)

	ctrl := pipeline.NewController(l, pipeline.Options{ProgressEvery: s.cfg.ProgressEvery})
	stats, err := ctrl.Run(ctx, scanner, s.metrics.Consumer(metrics.KindCoverage, cov))
	s.metrics.ObserveRun(metrics.KindCoverage, stats, err)

	return &CoverageResult{
		Reference: location,
		Baseline:  baseline.Name,
		Candidate: candidate.Name,
		Report:    cov.Report(),
		Stats:     stats,
	}, err
}

func (s *Service) open(ctx context.Context, location string, chunkSize int) (*reference.Scanner, func(), error) {
	source, err := reference.ParseSource(location, s.client)
	if err != nil {
		return nil, nil, err
	}
	rc, err := source.Open(ctx)
	if err != nil {
		return nil, nil, err
	}
	scanner, err := reference.NewScanner(rc, s.schema, chunkSize)
	if err != nil {
		rc.Close()
		return nil, nil, err
	}
	return scanner, func() { rc.Close() }, nil
}

func (s *Service) chunkSize(requested, fallback int) (int, error) {
	size := requested
	if size == 0 {
		size = fallback
	}
	if size <= 0 {
		return 0, fmt.Errorf("chunk size %d: %w", size, reference.ErrInvalidChunkSize)
	}
	return size, nil
}

func outputSize(sink reference.Sink) int64 {
	switch out := sink.(type) {
	case *reference.FileSink:
		if info, err := os.Stat(out.String()); err == nil {
			return info.Size()
		}
	case *reference.ObjectSink:
		return out.Uploaded().Size
	}
	return 0
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
