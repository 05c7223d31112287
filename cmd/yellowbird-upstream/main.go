package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MarcelloBorromeo/yellowbird-query-grove/internal/config"
	"github.com/MarcelloBorromeo/yellowbird-query-grove/internal/upstream"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ds := buildDataSource(ctx, cfg)
	if ds != nil {
		defer ds.Close()
	}

	engine := buildEngine(cfg, ds)
	sim := upstream.NewSimulator(engine, cfg.SimulatorFormat, time.Duration(cfg.AgentTimeout)*time.Second)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.SimulatorPort),
		Handler:      sim.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 180 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	log.Info().Str("addr", srv.Addr).Str("format", cfg.SimulatorFormat).Msg("upstream listening")

	select {
	case <-ctx.Done():
		log.Info().Msg("graceful shutdown initiated")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown error")
		}
	case err := <-errCh:
		if err != nil {
			log.Fatal().Err(err).Msg("server exited with error")
		}
	}
}

// buildDataSource prefers Postgres when a DSN is set, then BigQuery when a
// project is configured. With neither, the engine fabricates data.
func buildDataSource(ctx context.Context, cfg *config.Config) upstream.DataSource {
	if cfg.PostgresDSN != "" {
		ds, err := upstream.NewPostgresSource(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to postgres")
		}
		log.Info().Msg("using postgres data source")
		return ds
	}
	if cfg.GCPProjectID != "" {
		ds, err := upstream.NewBigQuerySource(ctx, cfg.GCPProjectID, cfg.GoogleApplicationCredentials, cfg.BigQueryLocation)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create bigquery client")
		}
		log.Info().Str("project", cfg.GCPProjectID).Msg("using bigquery data source")
		return ds
	}
	return nil
}

func buildEngine(cfg *config.Config, ds upstream.DataSource) upstream.Engine {
	if cfg.AnthropicAPIKey != "" && ds != nil {
		log.Info().Str("model", cfg.AnthropicModel).Msg("using LLM answerer")
		return upstream.NewAgentEngine(cfg.AnthropicAPIKey, cfg.AnthropicModel, cfg.AnthropicBaseURL, ds)
	}
	log.Info().Msg("using scripted answerer")
	return upstream.NewScriptedEngine(ds)
}

func setupLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.Environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
