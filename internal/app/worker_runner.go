package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/dig"

	"sendit/internal/logx"
	"sendit/internal/transport/kafka"
)

// WorkerRunner runs the notifier worker.
type WorkerRunner struct {
	runFn func(*dig.Container) error
}

// NewWorkerRunner returns a new WorkerRunner
func NewWorkerRunner() *WorkerRunner {
	return &WorkerRunner{runFn: runWorker}
}

// MustRun consumes parcel events until the context ends; other failures panic.
func (r *WorkerRunner) MustRun(container *dig.Container) {
	err := r.runFn(container)
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	panic(err)
}

func runWorker(container *dig.Container) error {
	return container.Invoke(workerRun)
}

type eventConsumer interface {
	Run(ctx context.Context) error
	Close() error
}

func workerRun(ctx context.Context, logger logx.Logger, consumer *kafka.Consumer, srv *http.Server) error {
	if consumer == nil {
		return fmt.Errorf("kafka consumer is nil: set KAFKA_BROKERS for the notifier")
	}
	return consumeAndServe(ctx, logger, consumer, srv)
}

// consumeAndServe runs the consumer until ctx ends or the worker server fails to serve.
func consumeAndServe(ctx context.Context, logger logx.Logger, consumer eventConsumer, srv *http.Server) error {
	defer closeWorker(logger, consumer, srv)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 1)
	if srv != nil {
		startServer(srv, logger, "worker", errCh)
	}

	done := make(chan error, 1)
	go func() { done <- consumer.Run(ctx) }()
	logger.Info("sendit-notifier started")

	select {
	case err := <-done:
		return err
	case err := <-errCh:
		logger.Error("server failed, shutting down", logx.Err(err))
		cancel()
		<-done
		return err
	}
}

func closeWorker(logger logx.Logger, consumer eventConsumer, srv *http.Server) {
	if srv != nil {
		gracefulShutdown(srv, logger, shutdownTimeout)
	}
	if err := consumer.Close(); err != nil {
		logger.Error("kafka close error", logx.Err(err))
	}
}
