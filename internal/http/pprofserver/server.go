// Package pprofserver exposes runtime profiles on a separate listener.
package pprofserver

import (
	"crypto/subtle"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"sendit/internal/http/respond"
	"sendit/internal/logx"
)

// Config stores pprof server settings. Without credentials only loopback clients get in.
type Config struct {
	Addr string
	User string
	Pass string
}

// Enabled reports whether the debug listener should start.
func (c Config) Enabled() bool { return strings.TrimSpace(c.Addr) != "" }

// Handler mounts chi's profiler under /debug behind the access guard.
func Handler(cfg Config, logger logx.Logger) http.Handler {
	if logger == nil {
		logger = logx.Nop()
	}
	r := chi.NewRouter()
	r.Use(guard(cfg, logger))
	r.Mount("/debug", middleware.Profiler())
	return r
}

// NewServer returns the debug server, or nil when disabled.
func NewServer(cfg Config, logger logx.Logger) *http.Server {
	if !cfg.Enabled() {
		return nil
	}
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           Handler(cfg, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func guard(cfg Config, logger logx.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isLoopback(r.RemoteAddr) || authorized(r, cfg) {
				next.ServeHTTP(w, r)
				return
			}
			logger.Warn("pprof access denied", logx.String("remote", r.RemoteAddr))
			w.Header().Set("WWW-Authenticate", `Basic realm="pprof"`)
			respond.Error(logger, w, r, http.StatusUnauthorized, "unauthorized")
		})
	}
}

func authorized(r *http.Request, cfg Config) bool {
	if cfg.User == "" || cfg.Pass == "" {
		return false
	}
	u, p, ok := r.BasicAuth()
	return ok && secureEq(u, cfg.User) && secureEq(p, cfg.Pass)
}

func secureEq(u, s string) bool {
	if len(u) != len(s) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(u), []byte(s)) == 1
}

func isLoopback(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	ip := net.ParseIP(strings.TrimSpace(host))
	return ip != nil && ip.IsLoopback()
}
