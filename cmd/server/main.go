package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"vex-tracker/internal/config"
	"vex-tracker/internal/constants"
	fxmodules "vex-tracker/internal/fx"
	applog "vex-tracker/internal/logger"
	"vex-tracker/internal/metrics"
	"vex-tracker/internal/middleware"
	"vex-tracker/internal/server"
	"vex-tracker/internal/service"

	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		fxmodules.Module,
		fx.Invoke(runServer),
	).Run()
}

func runServer(
	lc fx.Lifecycle,
	srv *server.Server,
	tracker *service.Tracker,
	cfg *config.Config,
	db *sql.DB,
	m *metrics.Metrics,
	logger zerolog.Logger,
) {
	applog.SetLevel(cfg.LogLevel)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	handler := middleware.RequestID(logger, m)(c.Handler(srv.Routes()))

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: handler,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			startCtx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
			defer cancel()
			if err := tracker.Start(startCtx); err != nil {
				return err
			}

			go func() {
				logger.Info().Str("addr", httpSrv.Addr).Msg("server starting")
				if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Fatal().Err(err).Msg("server failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
			defer cancel()

			if err := tracker.Stop(shutdownCtx); err != nil {
				logger.Warn().Err(err).Msg("tracker did not stop cleanly")
			}

			if err := db.Close(); err != nil {
				logger.Warn().Err(err).Msg("error closing database connection")
			}

			if err := httpSrv.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("server shutdown failed")
				return err
			}
			logger.Info().Msg("server stopped gracefully")
			return nil
		},
	})
}
