package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/dig"

	"sendit/internal/config"
	"sendit/internal/jobs"
	"sendit/internal/logx"
	"sendit/internal/notify"
	"sendit/internal/service/user"
	"sendit/internal/transport/kafka"
)

const shutdownTimeout = 15 * time.Second

// Runner runs the API process.
type Runner struct {
	runFn func(*dig.Container) error
}

// NewRunner returns a Runner.
func NewRunner() *Runner {
	return &Runner{runFn: run}
}

// MustRun starts the HTTP server using the provided DI container and blocks until shutdown.
func (r *Runner) MustRun(container *dig.Container) {
	err := r.runFn(container)
	if err == nil {
		return
	}

	var logger logx.Logger = logx.Nop()
	_ = container.Invoke(func(l logx.Logger) { logger = l })

	switch {
	case errors.Is(err, context.Canceled):
		logger.Info("shutdown requested, exiting")
	case errors.Is(err, context.DeadlineExceeded):
		logger.Error("startup aborted: startup timeout exceeded")
	default:
		logger.Error("run error", logx.Err(err))
		panic(err)
	}
}

type runIn struct {
	dig.In

	Ctx        context.Context
	Config     *config.Config
	Logger     logx.Logger
	Pool       *pgxpool.Pool
	Server     *http.Server
	Pprof      *http.Server `name:"pprof_server" optional:"true"`
	Dispatcher *notify.Dispatcher
	StatsJob   *jobs.ParcelStatsJob
	Users      *user.Service
	Producer   *kafka.Producer `optional:"true"`
	Redis      *redis.Client   `optional:"true"`
}

func run(container *dig.Container) error {
	return container.Invoke(appRun)
}

func appRun(in runIn) error {
	ctx, logger := in.Ctx, in.Logger

	if err := bootstrap(ctx, in.Config, in.Pool, in.Users, logger); err != nil {
		closeResources(in, logger)
		return err
	}

	in.Dispatcher.Start()
	if err := in.StatsJob.Start(ctx); err != nil {
		closeResources(in, logger)
		return err
	}

	errCh := make(chan error, 2)
	startServer(in.Server, logger, "api", errCh)
	if in.Pprof != nil {
		startServer(in.Pprof, logger, "pprof", errCh)
	}

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down sendit")
		runErr = ctx.Err()
	case runErr = <-errCh:
		logger.Error("server failed, shutting down", logx.Err(runErr))
	}

	gracefulShutdown(in.Server, logger, shutdownTimeout)
	if in.Pprof != nil {
		gracefulShutdown(in.Pprof, logger, time.Second)
	}
	in.StatsJob.Stop()
	drainNotifications(in.Dispatcher, logger, in.Config.Notify.DrainTimeout)
	closeResources(in, logger)

	return runErr
}

func startServer(srv *http.Server, logger logx.Logger, name string, errCh chan<- error) {
	go func() {
		logger.Info("listening", logx.String("server", name), logx.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
}

func gracefulShutdown(srv *http.Server, logger logx.Logger, timeout time.Duration) {
	shCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		logger.Warn("graceful shutdown error", logx.Err(err))
	}
}

// drainNotifications gives queued events a bounded chance to go out after the server stopped.
func drainNotifications(d *notify.Dispatcher, logger logx.Logger, timeout time.Duration) {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := d.Shutdown(ctx); err != nil {
		logger.Warn("notification queue not drained", logx.Err(err))
	}
}

func closeResources(in runIn, logger logx.Logger) {
	if in.Producer != nil {
		if err := in.Producer.Close(); err != nil {
			logger.Warn("kafka producer close error", logx.Err(err))
		}
	}
	if in.Redis != nil {
		if err := in.Redis.Close(); err != nil {
			logger.Warn("redis close error", logx.Err(err))
		}
	}
	if in.Pool != nil {
		in.Pool.Close()
	}
}
