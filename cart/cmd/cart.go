package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/Alturino/storefront/cart/internal/controller"
	"github.com/Alturino/storefront/cart/internal/persistence"
	"github.com/Alturino/storefront/cart/internal/service"
	"github.com/Alturino/storefront/cart/internal/store"
	"github.com/Alturino/storefront/internal/config"
	"github.com/Alturino/storefront/internal/constants"
	inErrors "github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/internal/infra"
	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/internal/middleware"
	"github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/internal/session"
)

const (
	storageRedis    = "redis"
	storagePostgres = "postgres"
)

// newPersister opens the snapshot backend selected by cfg.Storage.Backend. The returned func closes it.
func newPersister(c context.Context, cfg *config.Config) (persistence.Persister, func(), error) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "main newPersister").
		Str(log.KeyStorageBackend, cfg.Storage.Backend).
		Logger()

	switch cfg.Storage.Backend {
	case storageRedis:
		logger = logger.With().Str(log.KeyProcess, "initializing cache").Logger()
		logger.Info().Msg("initializing cache")
		c = logger.WithContext(c)
		cache := infra.NewCacheClient(c, cfg.Cache)
		logger.Info().Msg("initialized cache")
		return persistence.NewRedisPersister(cache, cfg.Storage.Key, cfg.Storage.TTL), func() {
			logger.Info().Msg("shutting down cache")
			if err := cache.Close(); err != nil {
				logger.Error().Err(err).Msgf("failed shutting down cache with error=%s", err.Error())
				return
			}
			logger.Info().Msg("shutdown cache")
		}, nil
	case storagePostgres:
		logger = logger.With().Str(log.KeyProcess, "migrating database").Logger()
		logger.Info().Msg("migrating database")
		c = logger.WithContext(c)
		if err := infra.Migrate(c, cfg.Database); err != nil {
			return nil, nil, fmt.Errorf("failed migrating database with error=%w", err)
		}
		logger.Info().Msg("migrated database")

		logger = logger.With().Str(log.KeyProcess, "initializing database").Logger()
		logger.Info().Msg("initializing database")
		c = logger.WithContext(c)
		db := infra.NewDatabaseClient(c, cfg.Database)
		logger.Info().Msg("initialized database")
		return persistence.NewPostgresPersister(db), func() {
			logger.Info().Msg("shutting down database")
			db.Close()
			logger.Info().Msg("shutdown database")
		}, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", inErrors.ErrUnknownStorage, cfg.Storage.Backend)
	}
}

func RunCartService(c context.Context, configName string) {
	c, span := otel.Tracer.Start(c, "main runCartService")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyAppName, constants.AppCartService).
		Str(log.KeyTag, "main runCartService").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "init config").Logger()
	logger.Info().Msg("initializing config")
	c = logger.WithContext(c)
	cfg := config.InitConfig(c, configName)
	logger = logger.Level(log.LevelForEnv(cfg.Application.Env))
	if cfg.Application.SecretKey == "" {
		err := errors.New("application.secret_key is required to sign session tokens")
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	logger.Info().Msg("initialized config")

	logger = logger.With().Str(log.KeyProcess, "initializing otel sdk").Logger()
	logger.Info().Msg("initializing otel sdk")
	c = logger.WithContext(c)
	otelShutdowns, err := otel.InitOtelSdk(c, constants.AppCartService, cfg.Otel)
	if err != nil {
		err = fmt.Errorf("failed initializing otel sdk with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	defer func() {
		logger.Info().Msg("shutting down otel")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(c), 5*time.Second)
		defer cancel()
		if err := otel.ShutdownOtel(shutdownCtx, otelShutdowns); err != nil {
			err = fmt.Errorf("failed shutting down otel with error=%w", err)
			logger.Error().Err(err).Msg(err.Error())
			return
		}
		logger.Info().Msg("shutdown otel")
	}()
	logger.Info().Msg("initialized otel sdk")

	logger = logger.With().Str(log.KeyProcess, "initializing storage").Logger()
	logger.Info().Str(log.KeyStorageBackend, cfg.Storage.Backend).Msg("initializing storage")
	c = logger.WithContext(c)
	persister, closeStorage, err := newPersister(c, cfg)
	if err != nil {
		err = fmt.Errorf("failed initializing storage with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	defer closeStorage()
	logger.Info().Msg("initialized storage")

	logger = logger.With().Str(log.KeyProcess, "initializing session registry").Logger()
	logger.Info().Msg("initializing session registry")
	registry := store.NewRegistry(persister, cfg.Storage.IdleTimeout)
	evictorCtx, stopEvictor := context.WithCancel(c)
	defer stopEvictor()
	wg := &sync.WaitGroup{}
	wg.Add(1)
	go registry.StartEvictor(evictorCtx, wg, cfg.Storage.EvictionInterval)
	logger.Info().Msg("initialized session registry")

	logger = logger.With().Str(log.KeyProcess, "initializing cart service").Logger()
	logger.Info().Msg("initializing cart service")
	cartService := service.NewCartService(registry, cfg.Order)
	issuer := session.NewIssuer(cfg.Application.SecretKey, cfg.Session.TTL)
	logger.Info().Msg("initialized cart service")

	logger = logger.With().Str(log.KeyProcess, "initializing router").Logger()
	logger.Info().Msg("initializing router")
	router := mux.NewRouter()
	router.Use(otelmux.Middleware(constants.AppCartService), middleware.Logging, middleware.RecoverPanic)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	api := router.PathPrefix("/").Subrouter()
	api.Use(middleware.Session(issuer, cfg.Session))
	controller.AttachCartController(api, cartService)
	logger.Info().Msg("initialized router")

	logger = logger.With().Str(log.KeyProcess, "initializing server").Logger()
	logger.Info().Msg("initializing server")
	httpServer := http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Application.Host, cfg.Application.Port),
		BaseContext:  func(net.Listener) context.Context { return c },
		Handler:      router,
		ReadTimeout:  45 * time.Second,
		WriteTimeout: 45 * time.Second,
	}
	logger.Info().Msg("initialized server")

	serverErr := make(chan error, 1)
	go func() {
		logger.Info().Msgf("start listening request at %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("error=%w occured while server is running", err)
		}
		close(serverErr)
	}()

	select {
	case <-c.Done():
		logger.Info().Msg("received interuption signal shutting down")
	case err := <-serverErr:
		if err != nil {
			otel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
		}
	}

	logger = logger.With().Str(log.KeyProcess, "shutting down http server").Logger()
	logger.Info().Msg("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(c), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		err = fmt.Errorf("failed shutting down http server with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
	}
	logger.Info().Msg("shutdown http server")

	logger.Info().Msg("waiting for evictor")
	stopEvictor()
	wg.Wait()
	logger.Info().Int("sessions", registry.Len()).Msg("stopped evictor")
}
