package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"finboard/src/api"
	"finboard/src/api/controllers"
	"finboard/src/clients/bcb"
	"finboard/src/clients/feeds"
	"finboard/src/clients/fred"
	"finboard/src/clients/yahoo"
	"finboard/src/config"
	"finboard/src/database"
	"finboard/src/repositories"
	"finboard/src/services"
	"finboard/src/utils"
	redis_utils "finboard/src/utils/redis"
	"finboard/src/worker"
	workercontrollers "finboard/src/worker/controllers"

	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 15 * time.Second

var errWorkerNeedsSharedCache = errors.New("worker mode requires a reachable redis cache: an in-process cache is invisible to API processes")

// newCache picks Redis when it is enabled and reachable, the in-process cache otherwise.
// shared reports whether the returned cache is visible to other processes.
func newCache(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (cache utils.CacheHandlerI, shared bool, closeFn func()) {
	if !cfg.Databases.Redis.Enabled {
		return utils.NewMemoryCacheHandler(), false, func() {}
	}
	handler, err := redis_utils.NewRedisHandler(ctx, cfg.Databases.Redis)
	if err != nil {
		logger.WithError(err).Warn("Redis unavailable, falling back to in-memory cache")
		return utils.NewMemoryCacheHandler(), false, func() {}
	}
	return handler, true, func() {
		if err := handler.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close redis client")
		}
	}
}

func newNewsService(cfg *config.Config, cache utils.CacheHandlerI) *services.NewsService {
	return services.NewNewsService(cfg.News, feeds.NewFetcher(cfg.News.RequestTimeout), cache)
}

func newCalendarService(cfg *config.Config, cache utils.CacheHandlerI) *services.CalendarService {
	return services.NewCalendarService(cfg.Calendar, cache,
		services.NewBCBEventSource(bcb.NewClient(cfg)),
		services.NewFREDEventSource(fred.NewClient(cfg)),
	)
}

func newAPIServer(ctx context.Context, cfg *config.Config, cache utils.CacheHandlerI, logger *logrus.Logger) (*http.Server, func(), error) {
	pool, err := database.SetupDB(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	quotes := services.NewQuoteService(yahoo.NewFromConfig(cfg, cache))
	portfolios := services.NewPortfolioService(pool,
		repositories.NewPortfolioRepository(pool),
		repositories.NewHoldingRepository(pool),
		quotes,
	)
	watchlist := services.NewWatchlistService(repositories.NewWatchlistRepository(pool), quotes)

	controller := controllers.NewController(
		quotes,
		newNewsService(cfg, cache),
		newCalendarService(cfg, cache),
		portfolios,
		watchlist,
	)
	server := api.NewServer(cfg, controller, logger)
	return api.NewHTTPServer(cfg, server), pool.Close, nil
}

// checkCache rejects configurations where scheduled refreshes could never reach a reader.
func checkCache(serviceType config.ServiceType, shared bool) error {
	if serviceType == config.WORKER && !shared {
		return errWorkerNeedsSharedCache
	}
	return nil
}

func newWorkerServer(cfg *config.Config, cache utils.CacheHandlerI, logger *logrus.Logger) (*http.Server, func(), error) {
	controller := workercontrollers.NewController(logger,
		workercontrollers.Job{Name: "news", CronSpec: cfg.News.RefreshCron, Timeout: time.Minute, Refresher: newNewsService(cfg, cache)},
		workercontrollers.Job{Name: "calendar", CronSpec: cfg.Calendar.RefreshCron, Timeout: 2 * time.Minute, Refresher: newCalendarService(cfg, cache)},
	)
	if err := controller.ScheduleAll(); err != nil {
		return nil, nil, err
	}
	server := worker.NewServer(controller)
	return worker.NewHTTPServer(cfg, server), controller.Stop, nil
}

// serve runs the configured service until SIGINT or SIGTERM, then drains in-flight requests.
func serve(parent context.Context, cfg *config.Config) error {
	logger := utils.NewLogger(cfg.Service.LogLevel, cfg.Service.LogFile)

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = utils.WithLogger(ctx, logger)

	cache, shared, closeCache := newCache(ctx, cfg, logger)
	defer closeCache()
	if err := checkCache(cfg.Service.Type, shared); err != nil {
		return err
	}

	var (
		httpServer *http.Server
		cleanup    func()
		err        error
	)
	switch cfg.Service.Type {
	case config.API:
		httpServer, cleanup, err = newAPIServer(ctx, cfg, cache, logger)
	case config.WORKER:
		httpServer, cleanup, err = newWorkerServer(cfg, cache, logger)
	default:
		err = fmt.Errorf("unknown service type %q", cfg.Service.Type)
	}
	if err != nil {
		return err
	}
	defer cleanup()

	errC := make(chan error, 1)
	go func() {
		logger.WithFields(logrus.Fields{"type": cfg.Service.Type, "addr": httpServer.Addr}).Info("Starting server")

		// ListenAndServe always returns a non-nil error; after Shutdown it is ErrServerClosed.
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errC <- err
		}
		close(errC)
	}()

	select {
	case err := <-errC:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return <-errC
}

func migrate(ctx context.Context, cfg *config.Config, command string) error {
	logger := utils.NewLogger(cfg.Service.LogLevel, cfg.Service.LogFile)
	logger.WithFields(logrus.Fields{"command": command, "dir": migrationsDir}).Info("Running migrations")
	return database.Migrate(ctx, cfg, migrationsDir, command)
}
