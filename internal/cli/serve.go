package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"appointment-booking-server/internal/config"
	"appointment-booking-server/internal/events"
	"appointment-booking-server/internal/jobs"
	"appointment-booking-server/internal/middleware"
	"appointment-booking-server/internal/models"
	"appointment-booking-server/internal/routes"
	"appointment-booking-server/internal/seed"
	"appointment-booking-server/internal/service"
	"appointment-booking-server/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the booking API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			return runServer(cfg)
		},
	}
}

func runServer(cfg *config.Config) error {
	logger := newLogger(cfg, os.Stdout)

	st, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	broadcaster := events.NewBroadcaster(logger)
	st.Subscribe(broadcaster)

	svc := newService(cfg, st, logger)

	refresher := jobs.NewCountdownRefresher(st, cfg.Jobs.JoinWindow, logger)
	scheduler, err := refresher.Start(cfg.Jobs.CountdownRefresh)
	if err != nil {
		return err
	}
	defer scheduler.Stop()

	router := newRouter(cfg, logger, routes.Dependencies{
		Config:      cfg,
		Store:       st,
		Service:     svc,
		Broadcaster: broadcaster,
		Log:         logger,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}

// newRouter builds the gin engine with the global middleware and every route.
func newRouter(cfg *config.Config, logger zerolog.Logger, deps routes.Dependencies) *gin.Engine {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logger(logger), middleware.Recovery(logger))

	// Event streams must not be buffered by the compressor.
	router.Use(gzip.Gzip(gzip.BestSpeed, gzip.WithExcludedPaths([]string{"/api/v1/events"})))

	// Configure CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Origin}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	routes.SetupRoutes(router, deps)
	return router
}

// openStore builds the store from the database mirror when enabled, and from
// the demo seed otherwise.
func openStore(cfg *config.Config, logger zerolog.Logger) (*store.AppointmentStore, error) {
	st := store.New()
	if !cfg.Database.Enabled {
		if err := st.Restore(seed.Snapshot()); err != nil {
			return nil, fmt.Errorf("load seed: %w", err)
		}
		return st, nil
	}

	db, err := models.InitDB(models.DatabaseConfig{Driver: cfg.Database.Driver, DSN: cfg.Database.DSN})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	logger.Info().Str("driver", cfg.Database.Driver).Str("host", cfg.Database.Host).Str("name", cfg.Database.Name).Msg("connected to database")

	snap, err := store.LoadSnapshot(db)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	journal := store.NewJournal(db, st, logger)

	if snap == nil {
		// Empty database: write the seed through the journal.
		st.Subscribe(journal)
		if err := st.Restore(seed.Snapshot()); err != nil {
			return nil, fmt.Errorf("load seed: %w", err)
		}
		logger.Info().Msg("seeded empty database")
		return st, nil
	}

	if err := st.Restore(*snap); err != nil {
		return nil, fmt.Errorf("restore snapshot: %w", err)
	}
	st.Subscribe(journal)
	logger.Info().Int("appointments", len(snap.Appointments)).Msg("restored state from database")
	return st, nil
}

func newService(cfg *config.Config, st *store.AppointmentStore, logger zerolog.Logger) *service.AppointmentService {
	opts := []service.Option{service.WithLogger(logger)}
	if cfg.SimulationSeed != 0 {
		opts = append(opts, service.WithSeed(cfg.SimulationSeed))
	}
	return service.New(cfg.Simulation, st, opts...)
}
