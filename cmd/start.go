package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inventory-tracker/core/loader"
	"inventory-tracker/core/logger"
	"inventory-tracker/core/middleware/auth"
	"inventory-tracker/core/middleware/rayid"
	"inventory-tracker/core/reconcile"
	"inventory-tracker/core/scheduler"
	"inventory-tracker/core/storage"
	"inventory-tracker/feature/insights"
	"inventory-tracker/feature/integrity"
	"inventory-tracker/feature/inventory"
	"inventory-tracker/feature/scan"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "inventory-tracker/docs/swagger"
)

// @title Inventory Tracker API
// @version 1.0
// @description API for tracking household products, QR scans and expiry dates.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the inventory tracker server",
	Long:  `Starts the HTTP server, the expiry sweep schedule and all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Configuration, logger, document store and inventory state
		env, err := setup()
		if err != nil {
			log.Fatalf("Failed to start: %v", err)
		}
		defer env.Close()
		logg := env.logger
		cfg := env.cfg
		zap.ReplaceGlobals(logg)

		// 2. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
			BodyLimit:             cfg.Server.BodyLimit(),
		})

		// 3. Initialize Storage (Optional)
		var client storage.Client
		if c, err := storage.NewClient(cfg.Storage); err != nil {
			logg.Warn("Optional storage client failed", zap.Error(err))
		} else {
			client = c
		}

		// 4. QR decoder pool
		decoder, err := scan.NewDecoder(cfg.Scan, logg)
		if err != nil {
			logg.Fatal("Failed to create QR decoder", zap.Error(err))
		}
		defer decoder.Close()

		// 5. Insight generation
		generator, err := insights.NewGenerator(cfg.Insights, logg)
		if err != nil {
			logg.Fatal("Failed to create insight generator", zap.Error(err))
		}
		cache, err := insights.NewCache(cfg.Insights)
		if err != nil {
			logg.Fatal("Failed to create insight cache", zap.Error(err))
		}
		insightService := insights.NewService(env.inventory, generator, cache, logg)

		// 6. Initialize Feature Loader
		mgr := loader.NewManager()
		mgr.Register(inventory.NewFeature(env.inventory))
		mgr.Register(scan.NewFeature(decoder, env.inventory, logg))
		mgr.Register(insights.NewFeature(insightService))
		mgr.Register(integrity.NewFeature(env.db, client, cfg.Storage, logg))

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Logging Middleware (Zap + RayID)
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// 2.5 Swagger Documentation (Public)
		app.Get("/swagger/*", swagger.HandlerDefault)

		// 3. Auth (every route below identifies its owner by token)
		if cfg.Server.JWTSecret == "" {
			logg.Warn("SERVER_JWT_SECRET is empty; every API request will be rejected")
		}
		app.Use(auth.New(auth.Config{Secret: cfg.Server.JWTSecret, Issuer: cfg.Server.JWTIssuer}))

		// 4. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 5. Expiry sweep schedule
		sched := scheduler.New(env.inventory.Location(), logg)
		if cfg.Inventory.SweepEnabled {
			timeout := cfg.Inventory.WriteTimeout()
			err := sched.Add("expiry-sweep", cfg.Inventory.SweepSchedule, func(ctx context.Context) {
				ctx, cancel := context.WithTimeout(ctx, timeout)
				defer cancel()
				results, err := env.inventory.SweepAll(ctx, reconcile.Options{Confirmed: true})
				written := 0
				for _, r := range results {
					written += r.Written
				}
				if err != nil {
					logg.Warn("Expiry sweep finished with errors", zap.Int("owners", len(results)), zap.Int("expired", written), zap.Error(err))
					return
				}
				logg.Info("Expiry sweep finished", zap.Int("owners", len(results)), zap.Int("expired", written))
			})
			if err != nil {
				logg.Fatal("Failed to schedule expiry sweep", zap.Error(err))
			}
			sched.Start()
			logg.Info("Expiry sweep scheduled", zap.String("schedule", cfg.Inventory.SweepSchedule))
		}

		// 6. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 7. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		sched.Stop(ctx)
		_ = app.ShutdownWithContext(ctx)
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
