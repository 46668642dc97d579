package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/dig"

	"sendit/internal/config"
	"sendit/internal/http/handlers"
	"sendit/internal/logx"
	"sendit/internal/metrics"
	"sendit/internal/notify"
	"sendit/internal/transport/kafka"
)

var newKafkaConsumer = kafka.NewConsumer

// MustBuildWorkerContainer builds the container of the notifier worker or exits.
func MustBuildWorkerContainer(ctx context.Context) *dig.Container {
	c, err := buildWorker(ctx)
	if err != nil {
		log.Fatalf("failed to build worker container: %v", err)
	}
	return c
}

func buildWorker(ctx context.Context) (*dig.Container, error) {
	container := dig.New()
	if err := registerCore(container, ctx); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	if err := registerMetrics(container); err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	if err := registerWorker(container); err != nil {
		return nil, fmt.Errorf("worker: %w", err)
	}
	return container, nil
}

type workerSinkIn struct {
	dig.In

	Config  *config.Config
	Logger  logx.Logger
	Retries prometheus.Counter `name:"notification_retries_total"`
}

func newWorkerSink(in workerSinkIn) (notify.Sink, error) {
	return newDeliverySink(in.Config, in.Logger, in.Retries)
}

// newNotificationHandler delivers consumed events and counts the outcome.
func newNotificationHandler(sink notify.Sink, n *metrics.Notifications) kafka.HandleFunc {
	return func(ctx context.Context, ev notify.Event) error {
		if err := sink.Send(ctx, ev); err != nil {
			n.Failed.Inc()
			return err
		}
		n.Sent.Inc()
		return nil
	}
}

func newWorkerConsumer(cfg *config.Config, logger logx.Logger, h kafka.HandleFunc) (*kafka.Consumer, error) {
	return newKafkaConsumer(logger, cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.Topic, h)
}

// newWorkerServer exposes liveness and metrics of the worker.
func newWorkerServer(cfg *config.Config, g prometheus.Gatherer, logger logx.Logger) *http.Server {
	base := handlers.New(logger)
	r := chi.NewRouter()
	r.Get("/ping", base.Ping)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	r.NotFound(base.NotFound)

	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func registerWorker(container *dig.Container) error {
	return provideAll(container,
		newWorkerSink,
		newNotificationHandler,
		newWorkerConsumer,
		newWorkerServer,
	)
}
