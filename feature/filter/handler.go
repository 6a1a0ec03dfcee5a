package filter

import (
	"errors"

	"npi-linker/core/classify"
	"npi-linker/core/logger"
	"npi-linker/core/reference"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for classification runs.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the filter routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/filter")
	group.Post("/", h.HandleRun)
	group.Get("/coverage", h.HandleCoverage)
}

// HandleRun writes the qualifying reference rows to the requested output.
// @Summary Run Classification
// @Description Streams the reference dataset and writes every row whose taxonomy codes match the requested codes (and optional name, city, state predicates) to a CSV output. No output is created when nothing qualifies.
// @Tags filter
// @Accept json
// @Produce json
// @Param request body Request true "Codes, predicates and output; local paths must stay inside the configured directories"
// @Success 200 {object} Report "Classification Report"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 503 {object} map[string]string "Reference Unavailable"
// @Failure 500 {object} map[string]interface{} "Run failed"
// @Router /filter [post]
func (h *Handler) HandleRun(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body: " + err.Error()})
	}

	var err error
	if req.Reference, err = reference.Confine(reference.ReferenceRoot(h.service.cfg.Reference), req.Reference); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if req.Output, err = reference.Confine(h.service.cfg.OutputDir, req.Output); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	report, err := h.service.Run(c.Context(), req)
	if err != nil {
		l.Error("Classification run failed", zap.Error(err))
		if report == nil {
			return h.failure(c, err, nil)
		}
		return h.failure(c, err, report)
	}

	l.Info("Classification run completed",
		zap.Int64("qualifying", report.Qualifying),
		zap.Int64("rows", report.Stats.Rows))
	return c.JSON(report)
}

// HandleCoverage compares the legacy exact nursing codes with the configured taxonomy.
// @Summary Taxonomy Coverage
// @Description Counts reference rows matched by the legacy exact codes and by the configured taxonomy, with a per-code breakdown. Use max_chunks to sample.
// @Tags filter
// @Produce json
// @Param reference query string false "Reference location (path or s3://bucket/key)"
// @Param max_chunks query int false "Stop after this many chunks"
// @Param chunk_size query int false "Rows per chunk"
// @Success 200 {object} CoverageResult "Coverage Report"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 503 {object} map[string]string "Reference Unavailable"
// @Router /filter/coverage [get]
func (h *Handler) HandleCoverage(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	location, err := reference.Confine(reference.ReferenceRoot(h.service.cfg.Reference), c.Query("reference"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	result, err := h.service.Coverage(c.Context(), CoverageRequest{
		Reference: location,
		MaxChunks: c.QueryInt("max_chunks", 0),
		ChunkSize: c.QueryInt("chunk_size", 0),
	})
	if err != nil {
		l.Error("Coverage analysis failed", zap.Error(err))
		if result == nil {
			return h.failure(c, err, nil)
		}
		return h.failure(c, err, result)
	}
	return c.JSON(result)
}

// failure maps err to a status. partial is the report of a run that started,
// nil when the request was rejected before scanning.
func (h *Handler) failure(c *fiber.Ctx, err error, partial any) error {
	switch {
	case errors.Is(err, reference.ErrSourceUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, classify.ErrNoCodes), errors.Is(err, reference.ErrInvalidChunkSize), partial == nil:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":  err.Error(),
			"report": partial,
		})
	}
}

