package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/yt-insights/ytdash/internal/api"
	"github.com/yt-insights/ytdash/internal/config"
	"github.com/yt-insights/ytdash/internal/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, dotenv, err := config.Load()
	if err != nil {
		bootLogger := logging.New("info", "ytdash-api")
		bootLogger.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger := logging.New(cfg.LogLevel, "ytdash-api")
	if !dotenv {
		logger.Warn().Msg(".env file not found, using process environment")
	}
	if err := cfg.Validate(); err != nil {
		logger.Warn().Err(err).Msg("starting without an API key, YouTube calls will fail")
	}
	if cfg.AppEnv != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := api.NewYouTubeClient(ctx, cfg.YouTubeAPIKey,
		api.WithBaseURL(cfg.YouTubeBaseURL),
		api.WithTimeout(cfg.UpstreamTimeout),
		api.WithCompetitorConcurrency(cfg.CompetitorConcurrency),
		api.WithLogger(logger.With().Str("component", "youtube").Logger()),
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize YouTube client")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	server := api.NewServer(cfg, client, logger, reg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Str("env", cfg.AppEnv).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("server stopped")
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
