package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/placeviewer/internal/adapters/cache"
	"github.com/zatekoja/placeviewer/internal/adapters/providers/geolocation"
	"github.com/zatekoja/placeviewer/internal/application/services"
	"github.com/zatekoja/placeviewer/internal/domain/entities"
	"github.com/zatekoja/placeviewer/internal/domain/providers"
	"github.com/zatekoja/placeviewer/internal/infrastructure/clients/redis"
	"github.com/zatekoja/placeviewer/internal/infrastructure/observability"
	"github.com/zatekoja/placeviewer/pkg/config"
)

// app holds the process-wide dependencies shared by every subcommand.
type app struct {
	cfg     *config.Config
	metrics *observability.Metrics
	closers []func(context.Context) error

	format   string
	logLevel string
}

// setup loads configuration and starts logging, tracing and metrics.
func (a *app) setup(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if a.logLevel != "" {
		cfg.App.LogLevel = a.logLevel
	}
	a.cfg = cfg

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.App.Environment, cfg.App.LogLevel)

	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			a.closers = append(a.closers, shutdown)
			log.Debug().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}
	a.metrics = metrics
	return nil
}

// close releases everything setup and the command acquired, newest first.
func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			log.Warn().Err(err).Msg("shutdown step failed")
		}
	}
	a.closers = nil
}

func (a *app) newWorkspace() *services.Workspace {
	return services.NewWorkspace(
		float64(a.cfg.Viewer.MinReviewCount),
		services.WithMetrics(a.metrics),
		services.WithLocation(a.cfg.App.Location()),
	)
}

// loadDataset reads path into a fresh workspace.
func (a *app) loadDataset(ctx context.Context, path string) (*services.Workspace, *entities.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	ws := a.newWorkspace()
	dataset, err := ws.Load(ctx, path, data)
	if err != nil {
		return nil, nil, err
	}
	return ws, dataset, nil
}

// geocodeCache prefers Redis when enabled and reachable, otherwise an
// in-process cache.
func (a *app) geocodeCache(ctx context.Context) providers.CacheProvider {
	if a.cfg.Redis.Enabled {
		client, err := redis.NewClient(ctx, &a.cfg.Redis)
		if err == nil {
			a.closers = append(a.closers, func(context.Context) error { return client.Close() })
			log.Debug().Str("addr", a.cfg.Redis.RedisAddr()).Msg("geocode cache backed by Redis")
			return cache.NewRedisAdapter(client, "placeview:")
		}
		log.Warn().Err(err).Msg("Redis unavailable, using in-memory geocode cache")
	}
	return cache.NewMemoryAdapter(10 * time.Minute)
}

// geocoders builds the configured provider chain, each behind the cache.
func (a *app) geocoders(ctx context.Context) []providers.GeocodingProvider {
	gc := a.cfg.Geocoder
	httpOpts := func(baseURL string) geolocation.HTTPOptions {
		return geolocation.HTTPOptions{
			BaseURL:     baseURL,
			Client:      &http.Client{Timeout: gc.Timeout},
			UserAgent:   gc.UserAgent,
			MaxAttempts: gc.MaxAttempts,
		}
	}

	store := a.geocodeCache(ctx)
	chain := make([]providers.GeocodingProvider, 0, len(gc.Providers))
	for _, name := range gc.Providers {
		var p providers.GeocodingProvider
		switch name {
		case "photon":
			p = geolocation.NewPhotonProvider(httpOpts(gc.PhotonURL))
		case "nominatim":
			p = geolocation.NewNominatimProvider(httpOpts(gc.NominatimURL), geolocation.NominatimOptions{
				CountryCodes:  gc.CountryCodes,
				Language:      gc.Language,
				RatePerSecond: gc.RatePerSecond,
			})
		case "mock":
			p = geolocation.NewMockGeocodingProvider()
		default:
			continue
		}
		chain = append(chain, geolocation.NewCachedProvider(p, store, gc.CacheTTLSeconds, a.metrics))
	}
	return chain
}

func (a *app) centerSearch(ctx context.Context) *services.CenterSearchService {
	gc := a.cfg.Geocoder
	return services.NewCenterSearchService(a.geocoders(ctx), gc.Limit, gc.MinQueryLength)
}
