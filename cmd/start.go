package cmd

import (
	"fmt"
	"time"

	"npi-linker/core/loader"
	"npi-linker/core/logger"
	"npi-linker/core/middleware/auth"
	"npi-linker/core/middleware/rayid"
	"npi-linker/feature/filter"
	"npi-linker/feature/integrity"
	"npi-linker/feature/match"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "npi-linker/docs/swagger"
)

// @title NPI Linker API
// @version 1.0
// @description API for linking nurse profiles to NPI records and classifying the NPPES reference.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the NPI linker server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.close()
		cfg := rt.cfg
		logg := rt.logger
		zap.ReplaceGlobals(logg)

		if err := cfg.Server.Validate(); err != nil {
			return err
		}

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
			BodyLimit:             cfg.Server.BodyLimit(),
		})

		var repo *match.Repository
		if rt.db != nil {
			repo = match.NewRepository(rt.db)
		}

		mgr := loader.NewManager(logg)
		mgr.Register(
			match.NewFeature(match.NewService(rt.store, repo, rt.metrics, cfg.Run, logg)),
			filter.NewFeature(filter.NewService(rt.store, rt.metrics, cfg.Run, logg)),
			integrity.NewFeature(integrity.NewService(rt.store, cfg.Storage, rt.db, cfg.Run.Reference, logg)),
		)

		// RayID first so every log line below carries it
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			start := time.Now()
			err := c.Next()
			fields := []zap.Field{
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
				zap.Int("status", c.Response().StatusCode()),
				zap.Duration("latency", time.Since(start)),
			}
			if err != nil {
				l.Error("Request error", append(fields, zap.Error(err))...)
			} else {
				l.Info("Request handled", fields...)
			}
			return err
		})

		// Public routes
		app.Get("/swagger/*", swagger.HandlerDefault)
		if cfg.Metrics.Enabled {
			app.Get(cfg.Metrics.Path, rt.metrics.Handler())
		}

		app.Use(auth.New(auth.Config{
			ApiKey: cfg.Server.ApiKey,
			Skip:   []string{"/swagger", cfg.Metrics.Path},
		}))

		if err := mgr.LoadAll(app); err != nil {
			return fmt.Errorf("failed to load features: %w", err)
		}

		serveErr := make(chan error, 1)
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			serveErr <- app.Listen(cfg.Server.Address())
		}()

		select {
		case err := <-serveErr:
			return fmt.Errorf("server failed to start: %w", err)
		case <-cmd.Context().Done():
		}

		logg.Info("Shutting down server...")
		return app.ShutdownWithTimeout(time.Duration(cfg.Server.ShutdownSeconds) * time.Second)
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
