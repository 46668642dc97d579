package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/dig"

	"sendit/internal/config"
	"sendit/internal/http/handlers"
	"sendit/internal/http/middleware/ratelimit"
	"sendit/internal/jobs"
	"sendit/internal/logx"
	"sendit/internal/notify"
)

type httpServersIn struct {
	dig.In

	Main  *http.Server
	Pprof *http.Server `name:"pprof_server" optional:"true"`
}

func setupHTTPContainer(t *testing.T, cfg *config.Config) *dig.Container {
	t.Helper()

	reg := prometheus.NewRegistry()
	c := dig.New()
	require.NoError(t, provideAll(c,
		func() context.Context { return context.Background() },
		func() *config.Config { return cfg },
		logx.Nop,
		func() prometheus.Registerer { return reg },
		func() prometheus.Gatherer { return reg },
		func() *pgxpool.Pool { return &pgxpool.Pool{} },
	))
	require.NoError(t, registerMetrics(c))
	require.NoError(t, registerNotify(c))
	require.NoError(t, registerDomainServices(c))
	require.NoError(t, registerJobs(c))
	require.NoError(t, registerHTTP(c))
	return c
}

func TestRegisterHTTP_ProvidesServerAndHandlers(t *testing.T) {
	t.Parallel()

	c := setupHTTPContainer(t, testConfig())

	err := c.Invoke(func(in httpServersIn, base *handlers.Handlers, a *handlers.AuthHandler, p *handlers.ParcelHandler) {
		require.NotNil(t, in.Main)
		require.Equal(t, ":8080", in.Main.Addr)
		require.Greater(t, in.Main.ReadHeaderTimeout, time.Duration(0))
		require.Greater(t, in.Main.IdleTimeout, time.Duration(0))
		require.Nil(t, in.Pprof)
		require.NotNil(t, base)
		require.NotNil(t, a)
		require.NotNil(t, p)
	})
	require.NoError(t, err)
}

func TestRegisterHTTP_RoutesAreMounted(t *testing.T) {
	t.Parallel()

	c := setupHTTPContainer(t, testConfig())

	err := c.Invoke(func(in httpServersIn) {
		h := in.Main.Handler

		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))
		require.Equal(t, http.StatusOK, rr.Code)

		rr = httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/parcels", nil))
		require.Equal(t, http.StatusBadRequest, rr.Code)
		require.Contains(t, rr.Body.String(), "token not found")

		rr = httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		require.Equal(t, http.StatusOK, rr.Code)
		require.Contains(t, rr.Body.String(), "sendit_notifications_sent_total")
	})
	require.NoError(t, err)
}

func TestRegisterHTTP_PprofEnabled(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Pprof = config.Pprof{Addr: "127.0.0.1:6060", User: "u", Pass: "p"}
	c := setupHTTPContainer(t, cfg)

	err := c.Invoke(func(in httpServersIn) {
		require.NotNil(t, in.Pprof)
		require.Equal(t, "127.0.0.1:6060", in.Pprof.Addr)
		require.NotNil(t, in.Pprof.Handler)
	})
	require.NoError(t, err)
}

func TestRegisterHTTP_ProvidesDispatcherAndJob(t *testing.T) {
	t.Parallel()

	c := setupHTTPContainer(t, testConfig())

	err := c.Invoke(func(d *notify.Dispatcher, j *jobs.ParcelStatsJob, sink notify.Sink) {
		require.NotNil(t, d)
		require.NotNil(t, j)
		require.IsType(t, &notify.LogSink{}, sink)
	})
	require.NoError(t, err)
}

func TestNewRateLimiter(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	clock := ratelimit.RealClock{}

	require.IsType(t, &ratelimit.TokenBucketLimiter{}, newRateLimiter(cfg, clock, nil, logx.Nop()))

	cfg.RateLimit.RedisAddr = "127.0.0.1:6379"
	client := newRedisClient(cfg)
	require.NotNil(t, client)
	t.Cleanup(func() { _ = client.Close() })
	require.IsType(t, &ratelimit.RedisLimiter{}, newRateLimiter(cfg, clock, client, logx.Nop()))

	cfg.RateLimit.Enabled = false
	require.IsType(t, ratelimit.NopLimiter{}, newRateLimiter(cfg, clock, client, logx.Nop()))

	require.Nil(t, newRedisClient(testConfig()))
}

type errRegisterer struct{ err error }

func (e errRegisterer) Register(prometheus.Collector) error  { return e.err }
func (e errRegisterer) MustRegister(...prometheus.Collector) {}
func (e errRegisterer) Unregister(prometheus.Collector) bool { return false }

func TestProvideMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	out, err := provideMetrics(reg)
	require.NoError(t, err)
	require.NotNil(t, out.HTTP)
	require.NotNil(t, out.Notifications)
	require.NotNil(t, out.ParcelsByStatus)
	require.NotNil(t, out.RateLimitExceeded)
	require.NotNil(t, out.MailRetries)

	// a second container on the same registry must not fail
	_, err = provideMetrics(reg)
	require.NoError(t, err)

	_, err = provideMetrics(errRegisterer{err: errors.New("boom")})
	require.Error(t, err)
	require.Contains(t, err.Error(), "register metrics")
}

func TestProvideAll_InvalidProvider(t *testing.T) {
	t.Parallel()

	err := provideAll(dig.New(), 42)
	require.Error(t, err)
	require.Contains(t, err.Error(), "provide int")
}

func TestContainerBuilder_BuildsWithoutConnecting(t *testing.T) {
	var fatal string
	b := NewContainerBuilder().
		WithDBConnect(func(context.Context, logx.Logger, string, int, time.Duration) (*pgxpool.Pool, error) {
			return nil, errors.New("unused")
		}).
		WithLogFatalf(func(format string, _ ...interface{}) { fatal = format })

	// build only registers constructors, so nothing runs and nothing fails here
	c := b.MustBuild(context.Background())
	require.NotNil(t, c)
	require.Empty(t, fatal)
}
