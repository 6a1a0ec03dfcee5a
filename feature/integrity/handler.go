package integrity

import (
	"npi-linker/core/logger"
	"npi-linker/core/reference"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/source", h.HandleSourceCheck)
	group.Get("/storage", h.HandleStorageCheck)
	group.Get("/schema", h.HandleSchemaCheck)
}

// HandleIntegrityCheck triggers all integrity checks.
// @Summary Run All Integrity Checks
// @Description Performs all available integrity checks (Source, Storage, Schema). Checks whose backing service is not configured are reported as skipped.
// @Tags integrity
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "Combined Report"
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks")

	return c.JSON(h.service.CheckAll(c.Context()))
}

// HandleSourceCheck checks the reference dataset header.
// @Summary Check Reference Source
// @Description Opens the reference dataset and verifies that its header carries the columns the match cascade reads.
// @Tags integrity
// @Produce json
// @Param location query string false "Reference location (path or s3://bucket/key); defaults to the configured reference"
// @Success 200 {object} checks.SourceReport "Source Report"
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /integrity/source [get]
func (h *Handler) HandleSourceCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	location, err := reference.Confine(reference.ReferenceRoot(h.service.reference), c.Query("location"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	report, err := h.service.CheckSource(c.Context(), location)
	if err != nil {
		l.Error("Source check failed", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if report.Status != "ok" {
		l.Warn("Reference source is not fully usable",
			zap.String("status", report.Status),
			zap.Strings("missing_required", report.MissingRequired))
	}
	return c.JSON(report)
}

// HandleStorageCheck checks and optionally fixes the bucket.
// @Summary Check Storage
// @Description Checks that the configured bucket exists and lists the CSV objects in it. Optionally creates a missing bucket.
// @Tags integrity
// @Produce json
// @Param fix query boolean false "Create the bucket if missing"
// @Success 200 {object} checks.StorageReport "Storage Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/storage [get]
func (h *Handler) HandleStorageCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := c.Query("fix") == "true"

	report, err := h.service.CheckStorage(c.Context())
	if err != nil {
		l.Error("Storage check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if !report.Exists && fix {
		l.Info("Attempting to create missing bucket", zap.String("bucket", report.Bucket))
		if err := h.service.FixStorage(c.Context()); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":   "Failed to create bucket",
				"details": err.Error(),
			})
		}
		return c.JSON(fiber.Map{
			"status": "fixed",
			"bucket": report.Bucket,
		})
	}

	return c.JSON(report)
}

// HandleSchemaCheck checks the result database schema.
// @Summary Check Result Schema
// @Description Checks that the match_runs and match_results tables match the expected models.
// @Tags integrity
// @Produce json
// @Success 200 {object} checks.SchemaReport "Schema Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/schema [get]
func (h *Handler) HandleSchemaCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Starting result schema check")

	report, err := h.service.CheckSchema()
	if err != nil {
		l.Error("Result schema check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(report)
}
