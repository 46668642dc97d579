package app

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/dig"

	"sendit/internal/auth"
	"sendit/internal/config"
	"sendit/internal/http/handlers"
	"sendit/internal/http/middleware"
	"sendit/internal/http/middleware/ratelimit"
	"sendit/internal/http/pprofserver"
	"sendit/internal/http/router"
	"sendit/internal/logx"
	"sendit/internal/metrics"
	"sendit/internal/service/parcel"
	"sendit/internal/service/user"
)

type routerIn struct {
	dig.In

	Config    *config.Config
	Logger    logx.Logger
	Gatherer  prometheus.Gatherer
	Metrics   *metrics.HTTP
	Tokens    *auth.TokenIssuer
	RateLimit *ratelimit.Middleware
	Base      *handlers.Handlers
	Auth      *handlers.AuthHandler
	Parcels   *handlers.ParcelHandler
}

func newRouter(in routerIn) http.Handler {
	return router.New(router.Params{
		APIVersion:    in.Config.APIVersion,
		Base:          in.Base,
		Auth:          in.Auth,
		Parcels:       in.Parcels,
		RequireToken:  middleware.RequireToken(in.Tokens, in.Logger),
		RateLimit:     in.RateLimit.Handler(),
		Observability: middleware.Observability(in.Logger, in.Metrics),
		Metrics:       promhttp.HandlerFor(in.Gatherer, promhttp.HandlerOpts{}),
	})
}

type serversOut struct {
	dig.Out

	Main  *http.Server
	Pprof *http.Server `name:"pprof_server"`
}

func newServers(cfg *config.Config, mux http.Handler, logger logx.Logger) serversOut {
	return serversOut{
		Main: newMainServer(cfg, mux),
		Pprof: pprofserver.NewServer(pprofserver.Config{
			Addr: cfg.Pprof.Addr,
			User: cfg.Pprof.User,
			Pass: cfg.Pprof.Pass,
		}, logger),
	}
}

func registerHTTP(container *dig.Container) error {
	if err := registerRateLimit(container); err != nil {
		return err
	}
	return provideAll(container,
		handlers.New,
		func(svc *user.Service, logger logx.Logger) *handlers.AuthHandler {
			return handlers.NewAuthHandler(svc, logger)
		},
		func(svc *parcel.Service, logger logx.Logger) *handlers.ParcelHandler {
			return handlers.NewParcelHandler(svc, logger)
		},
		newRouter,
		newServers,
	)
}
