package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/prestataires/backend/internal/adapters/cache"
	"github.com/prestataires/backend/internal/adapters/database"
	"github.com/prestataires/backend/internal/adapters/events"
	"github.com/prestataires/backend/internal/adapters/providers/geolocation"
	"github.com/prestataires/backend/internal/adapters/search"
	sessionadapter "github.com/prestataires/backend/internal/adapters/session"
	"github.com/prestataires/backend/internal/api/handlers"
	"github.com/prestataires/backend/internal/api/middleware"
	"github.com/prestataires/backend/internal/api/routes"
	"github.com/prestataires/backend/internal/application/services"
	"github.com/prestataires/backend/internal/domain/entities"
	"github.com/prestataires/backend/internal/domain/providers"
	"github.com/prestataires/backend/internal/domain/repositories"
	"github.com/prestataires/backend/internal/infrastructure/clients/postgres"
	"github.com/prestataires/backend/internal/infrastructure/clients/redis"
	"github.com/prestataires/backend/internal/infrastructure/clients/typesense"
	"github.com/prestataires/backend/internal/infrastructure/observability"
	"github.com/prestataires/backend/pkg/config"
	apperrors "github.com/prestataires/backend/pkg/errors"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// OpenTelemetry is optional; the service runs fine without a collector
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Warn().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()
	log.Info().Msg("PostgreSQL client initialized")

	// Redis is optional; caching, sessions and events degrade gracefully
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize Redis client, continuing without cache")
		redisClient = nil
	} else {
		defer redisClient.Close()
		log.Info().Msg("Redis client initialized")
	}

	typesenseClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize Typesense client, text search disabled")
		typesenseClient = nil
	} else {
		log.Info().Msg("Typesense client initialized")
	}

	var cacheProvider providers.CacheProvider
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	baseProviderAdapter := database.NewProviderAdapter(pgClient)
	var providerRepo repositories.ProviderRepository
	if cacheProvider != nil {
		providerRepo = database.NewCachedProviderAdapter(baseProviderAdapter, cacheProvider)
		log.Info().Msg("provider adapter wrapped with caching layer")
	} else {
		providerRepo = baseProviderAdapter
	}

	ratingRepo := database.NewRatingAdapter(pgClient)

	var indexRepo repositories.ProviderIndexRepository
	if typesenseClient != nil {
		adapter := search.NewTypesenseAdapter(typesenseClient)
		if err := adapter.InitSchema(context.Background()); err != nil {
			log.Warn().Err(err).Msg("failed to init Typesense schema")
		}
		indexRepo = adapter
	}

	var eventBus providers.EventBus
	if redisClient != nil {
		eventBus = events.NewRedisEventBus(redisClient)
		log.Info().Msg("event bus initialized")
	}

	var sessions providers.SessionProvider
	if redisClient != nil {
		sessions = sessionadapter.NewRedisAdapter(redisClient)
	} else {
		log.Warn().Msg("sessions disabled (Redis not available), write endpoints will reject requests")
		sessions = unavailableSessions{}
	}

	geolocationProvider := geolocation.NewGeolocationProvider(cfg.Search, cacheProvider)

	providerService := services.NewProviderService(providerRepo, indexRepo, eventBus)
	ratingService := services.NewRatingService(ratingRepo, providerRepo, eventBus)
	searchService := services.NewSearchService(services.DistanceSource(cfg.Search.DistanceSource))

	var cacheInvalidationService *services.CacheInvalidationService
	if cacheProvider != nil && eventBus != nil {
		cacheInvalidationService = services.NewCacheInvalidationService(cacheProvider, eventBus)
		if err := cacheInvalidationService.Start(); err != nil {
			log.Warn().Err(err).Msg("failed to start cache invalidation service")
		}
	}

	providerHandler := handlers.NewProviderHandler(providerService, searchService, sessions, metrics)
	ratingHandler := handlers.NewRatingHandler(ratingService, sessions)
	geolocationHandler := handlers.NewGeolocationHandler(geolocationProvider)
	localityHandler := handlers.NewLocalityHandler()

	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider)
	}

	router := routes.NewRouter(
		providerHandler,
		ratingHandler,
		geolocationHandler,
		localityHandler,
		cacheMiddleware,
		metrics,
	)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("error during server shutdown")
	}

	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			log.Warn().Err(err).Msg("error closing event bus")
		}
	}
	if cacheInvalidationService != nil {
		cacheInvalidationService.Stop()
	}

	log.Info().Msg("server stopped")
}

// unavailableSessions stands in when Redis is down. Every token resolution
// fails, so authenticated endpoints reject writes instead of panicking.
type unavailableSessions struct{}

func (unavailableSessions) Current(ctx context.Context, token string) (*entities.Session, error) {
	return nil, apperrors.NewUnavailableError("session store unavailable", nil)
}
