package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/angelmondragon/cartkeeper/api/routes"
	"github.com/angelmondragon/cartkeeper/internal/cart"
	"github.com/angelmondragon/cartkeeper/internal/catalog"
	"github.com/angelmondragon/cartkeeper/internal/cron"
	"github.com/angelmondragon/cartkeeper/pkg/config"
	"github.com/angelmondragon/cartkeeper/pkg/db"
	"github.com/angelmondragon/cartkeeper/pkg/instance"
	"github.com/angelmondragon/cartkeeper/pkg/logger"
	"github.com/angelmondragon/cartkeeper/pkg/metrics"
	"github.com/angelmondragon/cartkeeper/pkg/migrate"
	"github.com/angelmondragon/cartkeeper/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, dbClient.Close())
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return err
		}
		defer func() {
			err = multierr.Append(err, redisClient.Close())
		}()
	}

	reg := prometheus.DefaultRegisterer
	products := catalog.NewDefault()
	repo := cart.NewRepository(dbClient.DB(), cfg.DB.OpTimeout)
	cartService, err := cart.NewService(repo, products, metrics.NewCartMetrics(reg))
	if err != nil {
		return err
	}

	cleanupJob, err := cron.NewCartCleanupJob(cron.CartCleanupJobParams{
		Logger:        logg,
		Store:         repo,
		RetentionDays: cfg.Cleanup.RetentionDays,
	})
	if err != nil {
		return err
	}

	// Typed nils must not reach the router as non-nil interfaces.
	var (
		redisPinger      redis.Pinger
		idempotencyStore redis.IdempotencyStore
	)
	if redisClient != nil {
		redisPinger = redisClient
		idempotencyStore = redisClient
	}

	addr := ":" + cfg.App.Port
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisPinger,
			idempotencyStore,
			metrics.NewHTTPMetrics(reg),
			promhttp.Handler(),
			cartService,
			products,
			repo,
			cleanupJob,
		),
		ReadHeaderTimeout: 5 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)

	if cfg.Cleanup.Enabled {
		scheduler, err := newScheduler(cfg, logg, redisClient, reg, cleanupJob)
		if err != nil {
			return err
		}
		group.Go(func() error {
			if err := scheduler.Run(groupCtx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	group.Go(func() error {
		logCtx := logg.WithFields(groupCtx, map[string]any{
			"env":      cfg.App.Env,
			"addr":     addr,
			"instance": instance.GetID(),
			"driver":   cfg.DB.Driver,
			"redis":    redisClient != nil,
		})
		logg.Info(logCtx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logg.Info(shutdownCtx, "api server shutting down gracefully")
		return server.Shutdown(shutdownCtx)
	})

	return group.Wait()
}

func newScheduler(cfg *config.Config, logg *logger.Logger, redisClient *redis.Client, reg prometheus.Registerer, jobs ...cron.Job) (*cron.Service, error) {
	registry, err := cron.NewRegistry(jobs...)
	if err != nil {
		return nil, err
	}

	var lock cron.Lock = cron.NewLocalLock()
	if redisClient != nil {
		lock, err = cron.NewRedisLock(redisClient, redisClient.LockKey("cron:"+cfg.App.Env), 0)
		if err != nil {
			return nil, err
		}
	}

	return cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: registry,
		Lock:     lock,
		Metrics:  metrics.NewCronJobMetrics(reg),
		Interval: cfg.Cleanup.Interval,
	})
}
