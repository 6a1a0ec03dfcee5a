package match

import (
	"bytes"
	"encoding/json"
	"errors"

	"npi-linker/core/logger"
	"npi-linker/core/reference"
	"npi-linker/feature/match/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RunRequest is the body of POST /match.
type RunRequest struct {
	Name      string           `json:"name"`
	Reference string           `json:"reference"`
	Policy    string           `json:"policy"`
	ChunkSize int              `json:"chunk_size"`
	Prefetch  bool             `json:"prefetch"`
	Export    bool             `json:"export"`
	OutputDir string           `json:"output_dir"`
	Targets   []map[string]any `json:"targets"`
}

// RunDetail is the body of GET /match/runs/{id}.
type RunDetail struct {
	Run     *models.MatchRun     `json:"run"`
	Results []models.MatchResult `json:"results"`
}

// Handler handles HTTP requests for match runs.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the match routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/match")
	group.Post("/", h.HandleRun)
	group.Get("/runs/:id", h.HandleGetRun)
}

// HandleRun links the posted targets to the reference dataset.
// @Summary Run Match
// @Description Streams the reference dataset once and resolves each posted target through the LICENSE, NAME+CONTACT and NAME_ONLY tiers. Long running on a full reference file.
// @Tags match
// @Accept json
// @Produce json
// @Param request body RunRequest true "Targets and run options"
// @Success 200 {object} Report "Match Report"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 503 {object} map[string]string "Reference Unavailable"
// @Failure 500 {object} map[string]interface{} "Run failed; partial report included"
// @Router /match [post]
func (h *Handler) HandleRun(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	dec := json.NewDecoder(bytes.NewReader(c.Body()))
	dec.UseNumber()
	var body RunRequest
	if err := dec.Decode(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body: " + err.Error()})
	}

	records, err := ParseRecords(body.Targets)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if body.Reference, err = reference.Confine(reference.ReferenceRoot(h.service.cfg.Reference), body.Reference); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if body.OutputDir, err = reference.Confine(h.service.cfg.OutputDir, body.OutputDir); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	report, err := h.service.Run(c.Context(), Request{
		Name:      body.Name,
		Reference: body.Reference,
		Records:   records,
		Policy:    body.Policy,
		ChunkSize: body.ChunkSize,
		Prefetch:  body.Prefetch,
		Export:    body.Export,
		OutputDir: body.OutputDir,
	})
	if err != nil {
		l.Error("Match run failed", zap.Error(err))
		switch {
		case report != nil:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":  err.Error(),
				"report": report,
			})
		case errors.Is(err, reference.ErrSourceUnavailable):
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
	}

	return c.JSON(report)
}

// HandleGetRun returns a persisted run with its results.
// @Summary Get Match Run
// @Description Returns a stored match run and the resolution of each of its targets.
// @Tags match
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} RunDetail "Run Detail"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /match/runs/{id} [get]
func (h *Handler) HandleGetRun(c *fiber.Ctx) error {
	repo := h.service.Repository()
	if repo == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "run persistence is disabled"})
	}

	id := c.Params("id")
	run, results, err := repo.GetRun(c.Context(), id)
	if errors.Is(err, ErrRunNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Failed to load match run", zap.String("id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(RunDetail{Run: run, Results: results})
}
