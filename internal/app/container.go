package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"sendit/internal/auth"
	"sendit/internal/config"
	"sendit/internal/jobs"
	"sendit/internal/logx"
	"sendit/internal/metrics"
	"sendit/internal/notify"
	"sendit/internal/repository"
	"sendit/internal/service/parcel"
	"sendit/internal/service/user"
)

type dbConnectFunc func(context.Context, logx.Logger, string, int, time.Duration) (*pgxpool.Pool, error)

// ContainerBuilder is a dig container builder.
type ContainerBuilder struct {
	dbConnect dbConnectFunc
	logFatalf func(string, ...interface{})
}

// NewContainerBuilder returns a new dig container builder
func NewContainerBuilder() *ContainerBuilder {
	return &ContainerBuilder{
		dbConnect: connectDbWithRetry,
		logFatalf: log.Fatalf,
	}
}

// WithDBConnect sets the database connection function
func (b *ContainerBuilder) WithDBConnect(fn dbConnectFunc) *ContainerBuilder {
	if fn != nil {
		b.dbConnect = fn
	}
	return b
}

// WithLogFatalf sets the log.Fatalf function
func (b *ContainerBuilder) WithLogFatalf(fn func(string, ...interface{})) *ContainerBuilder {
	if fn != nil {
		b.logFatalf = fn
	}
	return b
}

// MustBuild builds the API container or exits.
func (b *ContainerBuilder) MustBuild(ctx context.Context) *dig.Container {
	container, err := b.build(ctx)
	if err != nil {
		b.logFatalf("failed to build container: %v", err)
	}
	return container
}

func (b *ContainerBuilder) build(ctx context.Context) (*dig.Container, error) {
	container := dig.New()

	steps := []struct {
		name string
		fn   func(*dig.Container) error
	}{
		{"core", func(c *dig.Container) error { return registerCore(c, ctx) }},
		{"db", func(c *dig.Container) error { return registerDb(c, b.dbConnect) }},
		{"metrics", registerMetrics},
		{"notify", registerNotify},
		{"service", registerDomainServices},
		{"jobs", registerJobs},
		{"http", registerHTTP},
	}
	for _, s := range steps {
		if err := s.fn(container); err != nil {
			return nil, fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return container, nil
}

// MustBuildContainer builds the API container with default settings.
func MustBuildContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuild(ctx)
}

func provideAll(container *dig.Container, providers ...any) error {
	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return fmt.Errorf("provide %T: %w", provider, err)
		}
	}
	return nil
}

func registerCore(container *dig.Container, ctx context.Context) error {
	return provideAll(container,
		func() context.Context { return ctx },
		config.Load,
		NewLogger,
		func() prometheus.Registerer { return prometheus.DefaultRegisterer },
		func() prometheus.Gatherer { return prometheus.DefaultGatherer },
	)
}

func registerDb(container *dig.Container, dbConnect dbConnectFunc) error {
	providerDB := func(ctx context.Context, cfg *config.Config, logger logx.Logger) (*pgxpool.Pool, error) {
		return dbConnect(ctx, logger, cfg.DB.DSN(), 10, time.Second)
	}
	return provideAll(container, providerDB)
}

type metricsOut struct {
	dig.Out

	HTTP              *metrics.HTTP
	Notifications     *metrics.Notifications
	ParcelsByStatus   *prometheus.GaugeVec
	RateLimitExceeded prometheus.Counter `name:"rate_limit_exceeded_total"`
	MailRetries       prometheus.Counter `name:"notification_retries_total"`
}

func provideMetrics(reg prometheus.Registerer) (metricsOut, error) {
	out := metricsOut{
		HTTP:              metrics.NewHTTP(),
		Notifications:     metrics.NewNotifications(),
		ParcelsByStatus:   metrics.NewParcelsByStatus(),
		RateLimitExceeded: metrics.NewRateLimitExceededTotal(),
		MailRetries:       metrics.NewMailRetriesTotal(),
	}
	err := metrics.Register(reg,
		out.HTTP.Requests,
		out.HTTP.Duration,
		out.Notifications.Sent,
		out.Notifications.Failed,
		out.Notifications.Dropped,
		out.ParcelsByStatus,
		out.RateLimitExceeded,
		out.MailRetries,
	)
	if err != nil {
		return metricsOut{}, fmt.Errorf("register metrics: %w", err)
	}
	return out, nil
}

func registerMetrics(container *dig.Container) error {
	return provideAll(container, provideMetrics)
}

func registerDomainServices(container *dig.Container) error {
	return provideAll(container,
		repository.NewUserRepo,
		repository.NewParcelRepo,
		func(cfg *config.Config) *auth.PasswordHasher {
			return auth.NewPasswordHasher(cfg.Auth.BcryptCost)
		},
		func(cfg *config.Config) *auth.TokenIssuer {
			return auth.NewTokenIssuer(cfg.Auth.Secret, cfg.Auth.TokenTTL)
		},
		func(
			cfg *config.Config,
			repo *repository.UserRepo,
			hasher *auth.PasswordHasher,
			tokens *auth.TokenIssuer,
			logger logx.Logger,
		) *user.Service {
			return user.NewService(repo, hasher, tokens, cfg.OperationTimeout, logger)
		},
		func(
			cfg *config.Config,
			parcels *repository.ParcelRepo,
			users *repository.UserRepo,
			d *notify.Dispatcher,
			logger logx.Logger,
		) *parcel.Service {
			return parcel.NewService(parcels, users, d, cfg.OperationTimeout, logger)
		},
	)
}

func registerJobs(container *dig.Container) error {
	return provideAll(container,
		func(cfg *config.Config, repo *repository.ParcelRepo, gauge *prometheus.GaugeVec, logger logx.Logger) *jobs.ParcelStatsJob {
			return jobs.NewParcelStatsJob(repo, gauge, cfg.Jobs.StatsSchedule, logger)
		},
	)
}

func newMainServer(cfg *config.Config, mux http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
