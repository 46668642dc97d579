package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"sendit/internal/apperr"
	"sendit/internal/domain"
)

const userColumns = `id, firstname, lastname, othernames, email, username, password, is_admin, registered`

// UserRepo represents the identity store.
type UserRepo struct{ db *pgxpool.Pool }

// NewUserRepo creates a new UserRepo.
func NewUserRepo(db *pgxpool.Pool) *UserRepo { return &UserRepo{db: db} }

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.OtherNames, &u.Email,
		&u.Username, &u.PasswordHash, &u.IsAdmin, &u.Registered); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a user and fills its id and registration time.
func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	err := r.db.QueryRow(ctx, `
        INSERT INTO users (firstname, lastname, othernames, email, username, password, is_admin)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, registered
    `, u.FirstName, u.LastName, u.OtherNames, u.Email, u.Username, u.PasswordHash, u.IsAdmin,
	).Scan(&u.ID, &u.Registered)
	if err != nil {
		if IsDuplicate(err) {
			return apperr.Conflict
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetByID returns the user or nil if absent.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return u, nil
}

// GetByUsername returns the user or nil if absent.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	return u, nil
}

// ExistsByEmailOrUsername reports whether either unique field is taken.
func (r *UserRepo) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 OR username = $2)`, email, username,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check user exists: %w", err)
	}
	return exists, nil
}
