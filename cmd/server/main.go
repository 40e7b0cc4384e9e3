package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"organicare/internal/agenda"
	"organicare/internal/api"
	"organicare/internal/clients"
	"organicare/internal/clinic"
	"organicare/internal/config"
	"organicare/internal/events"
	"organicare/internal/metrics"
	"organicare/internal/state"
	"organicare/internal/templates"
)

func main() {
	_ = godotenv.Load()

	// Initialize logger
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()

	cfg, err := config.Load(os.Getenv("ORGANICARE_CONFIG_PATH"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	store, err := state.Open(cfg.State.Path, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open state store")
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clinicsCfg, err := config.LoadClinicsConfig(cfg.Clinics.Path)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load clinics config")
	}
	logger.Info().Str("catalogue", clinicsCfg.String()).Msg("Clinics loaded")

	provider, err := clinic.NewProvider(ctx, clinicsCfg, store, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build clinic provider")
	}

	// Hot reload of the clinic catalogue.
	if err := config.WatchClinics(ctx, cfg.Clinics.Path, cfg.ClinicsReloadInterval(), &logger, func(updated *config.ClinicsConfig) {
		if updated == nil {
			return
		}
		provider.ReplaceCatalogue(updated)
	}); err != nil {
		logger.Error().Err(err).Msg("clinics watch failed")
	}

	tpls, err := templates.Load(cfg.Templates.Path)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load schedule templates")
	}

	var rdb *redis.Client
	var cache *api.Cache
	if cfg.Redis.Address != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		cache = api.NewCache(rdb, cfg.CacheTTL())
		logger.Info().Str("addr", cfg.Redis.Address).Msg("Redis cache enabled")
	}

	bus := events.NewBus()
	book := agenda.NewBook(bus, &logger)
	directory := clients.NewDirectory(&logger)

	if cfg.Monitoring.PrometheusEnabled {
		if cfg.Monitoring.PrometheusPort == 0 {
			cfg.Monitoring.PrometheusPort = 9090
		}
		metrics.Register()
		go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, &logger)
	}

	server := api.NewServer(api.Options{
		Book:              book,
		Provider:          provider,
		Directory:         directory,
		Templates:         tpls,
		Cache:             cache,
		Bus:               bus,
		Logger:            &logger,
		APIKey:            cfg.Server.APIKey,
		RequestsPerSecond: cfg.Limits.RequestsPerSecond,
		Burst:             cfg.Limits.Burst,
		TrustProxy:        cfg.Server.TrustProxy,
	})

	logger.Info().Str("addr", cfg.Server.Address).Msg("Organicare console started")
	if err := server.Serve(ctx, cfg.Server.Address); err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}
	logger.Info().Msg("Shutdown complete")
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	logger.Info().Int("port", port).Msg("Metrics server listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
