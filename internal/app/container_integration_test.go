//go:build integration

package app

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"sendit/internal/config"
	"sendit/internal/repository"
	"sendit/internal/service/user"
)

func TestMustBuildContainer_BootstrapsDatabase(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pg, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("sendit_app"),
		postgres.WithUsername("app_user"),
		postgres.WithPassword("app_pass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(context.Background()) })

	host, err := pg.Host(ctx)
	require.NoError(t, err)
	port, err := pg.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	t.Setenv("POSTGRES_HOST", host)
	t.Setenv("POSTGRES_PORT", port.Port())
	t.Setenv("POSTGRES_USER", "app_user")
	t.Setenv("POSTGRES_PASSWORD", "app_pass")
	t.Setenv("POSTGRES_DB", "sendit_app")
	t.Setenv("ADMIN_USERNAME", "root")
	t.Setenv("ADMIN_EMAIL", "root@sendit.test")
	t.Setenv("ADMIN_PASSWORD", "root-pass")

	oldFlags, oldArgs := pflag.CommandLine, os.Args
	pflag.CommandLine = pflag.NewFlagSet("app", pflag.ContinueOnError)
	os.Args = []string{"sendit", "--migrate"}
	t.Cleanup(func() {
		pflag.CommandLine = oldFlags
		os.Args = oldArgs
	})

	oldReg, oldGath := prometheus.DefaultRegisterer, prometheus.DefaultGatherer
	reg := prometheus.NewRegistry()
	prometheus.DefaultRegisterer, prometheus.DefaultGatherer = reg, reg
	t.Cleanup(func() {
		prometheus.DefaultRegisterer, prometheus.DefaultGatherer = oldReg, oldGath
	})

	c := MustBuildContainer(ctx)

	err = c.Invoke(func(cfg *config.Config, pool *pgxpool.Pool, users *user.Service, repo *repository.UserRepo) {
		defer pool.Close()

		require.NoError(t, bootstrap(ctx, cfg, pool, users, NewLogger(cfg)))
		// seeding twice is a no-op
		require.NoError(t, bootstrap(ctx, cfg, pool, users, NewLogger(cfg)))

		admin, err := repo.GetByUsername(ctx, "root")
		require.NoError(t, err)
		require.NotNil(t, admin)
		require.True(t, admin.IsAdmin)
	})
	require.NoError(t, err)
}
