package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"sendit/internal/config"
	"sendit/internal/domain"
	"sendit/internal/logx"
	"sendit/internal/repository"
)

var migrate = repository.Migrate

type adminSeeder interface {
	EnsureAdmin(ctx context.Context, n domain.NewUser) error
}

// bootstrap prepares the store before the server accepts traffic.
func bootstrap(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, admins adminSeeder, logger logx.Logger) error {
	if cfg.Migrate {
		if err := migrate(ctx, pool); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		logger.Info("migrations applied")
	}

	if cfg.Admin.Username == "" {
		return nil
	}
	err := admins.EnsureAdmin(ctx, domain.NewUser{
		FirstName: "SendIT",
		LastName:  "Admin",
		Email:     cfg.Admin.Email,
		Username:  cfg.Admin.Username,
		Password:  cfg.Admin.Password,
	})
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	return nil
}
