package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"surface-renderer/core/config"
	"surface-renderer/core/database"
	"surface-renderer/core/loader"
	"surface-renderer/core/logger"
	"surface-renderer/core/metrics"
	"surface-renderer/core/middleware/auth"
	"surface-renderer/core/middleware/rayid"
	"surface-renderer/core/storage"
	"surface-renderer/feature/surface"
	"surface-renderer/feature/surface/journal"
	"surface-renderer/feature/surface/publish"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "surface-renderer/docs/swagger"
)

var logChanges bool

// @title Surface Renderer API
// @version 1.0
// @description API for rendering keyed, sectioned surfaces with minimal edit scripts.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"start"},
	Short:   "Start the surface renderer server",
	Long:    `Starts the HTTP server, connects the optional journal and publisher, and restores published surfaces.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		opts := surface.Options{Render: cfg.Render, LogChanges: logChanges}

		// 3. Render Journal (Optional)
		if cfg.Database.Enabled {
			if db, err := database.Connect(cfg.Database); err != nil {
				logg.Warn("Optional database connection failed, journal disabled", zap.Error(err))
			} else {
				j := journal.New(db)
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				if cfg.Database.AutoMigrate {
					err = j.Migrate(ctx)
				} else {
					err = j.Verify(ctx)
				}
				cancel()
				if err != nil {
					logg.Fatal("Render journal is not usable", zap.Error(err))
				}
				opts.Journal = j
				logg.Info("Render journal enabled", zap.String("driver", cfg.Database.Driver))
			}
		}

		// 4. Publisher (Optional)
		if cfg.Storage.Enabled {
			store, err := storage.NewClient(cfg.Storage)
			if err != nil {
				logg.Fatal("Failed to create storage client", zap.Error(err))
			}
			p := publish.New(store, cfg.Storage.Bucket, cfg.Storage.Prefix)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			err = p.EnsureBucket(ctx, cfg.Storage.Region)
			cancel()
			if err != nil {
				logg.Fatal("Failed to prepare publish bucket", zap.Error(err))
			}
			opts.Publisher = p
			logg.Info("Publishing enabled", zap.String("bucket", cfg.Storage.Bucket))
		}

		// 5. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
			BodyLimit:             cfg.Server.BodyLimit(),
		})

		// 6. Initialize Feature Loader
		mgr := loader.NewManager()
		surfaces := surface.NewFeature(logg, opts)
		mgr.Register(surfaces)

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Logging Middleware (Zap + RayID)
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
				return err
			}
			l.Info("Request completed", fields...)
			return nil
		})

		// 3. Public endpoints
		app.Get("/swagger/*", swagger.HandlerDefault)
		if cfg.Metrics.Enabled {
			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			if err := metrics.Register(reg); err != nil {
				logg.Fatal("Failed to register metrics", zap.Error(err))
			}
			app.Get(cfg.Metrics.Path, metrics.Handler(reg))
		}

		// 4. Auth (Protect API)
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey, Skip: []string{cfg.Metrics.Path}}))

		// 7. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 8. Restore published surfaces
		if opts.Publisher != nil {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			restored, err := surfaces.Service().Restore(ctx)
			cancel()
			if err != nil {
				logg.Warn("Failed to restore published surfaces", zap.Error(err))
			} else {
				logg.Info("Restored published surfaces", zap.Int("count", restored))
			}
		}

		// 9. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(cfg.Server.Addr()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 10. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Render.ApplyTimeout())
		defer cancel()
		if err := surfaces.Service().Shutdown(ctx); err != nil {
			logg.Warn("Surfaces closed with renders in flight", zap.Error(err))
		}
	},
}

func init() {
	serveCmd.Flags().BoolVar(&logChanges, "log-changes", false, "Log every change applied to a surface")
	RootCmd.AddCommand(serveCmd)
}
