package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sendit/internal/apperr"
	"sendit/internal/domain"
	"sendit/internal/ports/parceltx"
)

const parcelColumns = `p.id, p.placed_by, p.weight, p.weightmetric, p.from_loc, p.to_loc,
        p.current_loc, p.status, p.sent_on, p.delivered_on`

// ParcelRepo represents the parcel store.
type ParcelRepo struct {
	db *pgxpool.Pool
}

// NewParcelRepo creates a new ParcelRepo.
func NewParcelRepo(db *pgxpool.Pool) *ParcelRepo {
	return &ParcelRepo{db: db}
}

func scanParcel(row interface{ Scan(...any) error }, extra ...any) (*domain.Parcel, error) {
	var p domain.Parcel
	var status string
	dest := append([]any{&p.ID, &p.PlacedBy, &p.Weight, &p.WeightMetric, &p.From, &p.To,
		&p.CurrentLocation, &status, &p.SentOn, &p.DeliveredOn}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	p.Status = domain.ParcelStatus(status)
	return &p, nil
}

// Create inserts a placed parcel whose current location is its origin.
func (r *ParcelRepo) Create(ctx context.Context, n domain.NewParcel) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
        INSERT INTO parcels (placed_by, weight, weightmetric, from_loc, to_loc, current_loc, status)
        VALUES ($1, $2, $3, $4, $5, $4, $6)
        RETURNING id
    `, n.PlacedBy, n.Weight, n.WeightMetric, n.From, n.To, string(domain.ParcelPlaced)).Scan(&id)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return 0, apperr.Forbidden
		}
		return 0, fmt.Errorf("create parcel: %w", err)
	}
	return id, nil
}

// Get returns the parcel or nil if absent.
func (r *ParcelRepo) Get(ctx context.Context, id int64) (*domain.Parcel, error) {
	p, err := scanParcel(r.db.QueryRow(ctx, `SELECT `+parcelColumns+` FROM parcels p WHERE p.id = $1`, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get parcel %d: %w", id, err)
	}
	return p, nil
}

// List returns parcels in the requested order and window.
func (r *ParcelRepo) List(ctx context.Context, page domain.Page) ([]domain.Parcel, error) {
	return r.list(ctx, `SELECT `+parcelColumns+` FROM parcels p`, nil, page)
}

// ListByOwner returns the parcels placed by a user.
func (r *ParcelRepo) ListByOwner(ctx context.Context, ownerID int64, page domain.Page) ([]domain.Parcel, error) {
	return r.list(ctx, `SELECT `+parcelColumns+` FROM parcels p WHERE p.placed_by = $1`, []any{ownerID}, page)
}

func (r *ParcelRepo) list(ctx context.Context, q string, args []any, page domain.Page) ([]domain.Parcel, error) {
	q += " ORDER BY " + orderClause(page)
	if page.Limit != nil {
		args = append(args, *page.Limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if page.Offset != nil {
		args = append(args, *page.Offset)
		q += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list parcels: %w", err)
	}
	defer rows.Close()

	capacity := 0
	if page.Limit != nil && *page.Limit > 0 {
		capacity = *page.Limit
	}
	out := make([]domain.Parcel, 0, capacity)
	for rows.Next() {
		p, err := scanParcel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// orderClause only ever emits whitelisted column names.
func orderClause(page domain.Page) string {
	col := domain.OrderByID
	if page.OrderBy.Valid() {
		col = page.OrderBy
	}
	clause := "p." + string(col)
	if page.Desc {
		clause += " DESC"
	}
	if col != domain.OrderByID {
		clause += ", p.id"
	}
	return clause
}

// CountByStatus returns the number of parcels per status.
func (r *ParcelRepo) CountByStatus(ctx context.Context) (map[domain.ParcelStatus]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT status, count(*) FROM parcels GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count parcels: %w", err)
	}
	defer rows.Close()

	out := make(map[domain.ParcelStatus]int64)
	for rows.Next() {
		var (
			status string
			n      int64
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		out[domain.ParcelStatus(status)] = n
	}
	return out, rows.Err()
}

// WithTx opens a transaction and executes fn within it.
func (r *ParcelRepo) WithTx(ctx context.Context, fn func(tx parceltx.Repository) error) (err error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(&TxRepo{tx: tx}); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback tx: %w (original error: %s)", rbErr, err.Error())
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// TxRepo represents the parcel store bound to a transaction.
type TxRepo struct {
	tx pgx.Tx
}

var _ parceltx.Repository = (*TxRepo)(nil)

const lockQuery = `
        SELECT ` + parcelColumns + `, u.email, u.firstname
        FROM parcels p
        JOIN users u ON u.id = p.placed_by
        WHERE p.id = $1`

func (r *TxRepo) lock(ctx context.Context, q string, args ...any) (*domain.LockedParcel, error) {
	var owner domain.ParcelOwner
	p, err := scanParcel(r.tx.QueryRow(ctx, q, args...), &owner.Email, &owner.FirstName)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	owner.UserID = p.PlacedBy
	return &domain.LockedParcel{Parcel: *p, Owner: owner}, nil
}

// Lock - reads a parcel and its owner for update.
func (r *TxRepo) Lock(ctx context.Context, id int64) (*domain.LockedParcel, error) {
	lp, err := r.lock(ctx, lockQuery+` FOR UPDATE OF p`, id)
	if err != nil {
		return nil, fmt.Errorf("lock parcel %d: %w", id, err)
	}
	return lp, nil
}

// LockOwned - like Lock but only matches a parcel placed by ownerID.
func (r *TxRepo) LockOwned(ctx context.Context, id, ownerID int64) (*domain.LockedParcel, error) {
	lp, err := r.lock(ctx, lockQuery+` AND p.placed_by = $2 FOR UPDATE OF p`, id, ownerID)
	if err != nil {
		return nil, fmt.Errorf("lock parcel %d for owner %d: %w", id, ownerID, err)
	}
	return lp, nil
}

func (r *TxRepo) exec(ctx context.Context, what string, id int64, q string, args ...any) error {
	ct, err := r.tx.Exec(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("%s %d: %w", what, id, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%s %d: parcel not found", what, id)
	}
	return nil
}

// Delete - removes a parcel.
func (r *TxRepo) Delete(ctx context.Context, id int64) error {
	return r.exec(ctx, "delete parcel", id, `DELETE FROM parcels WHERE id = $1`, id)
}

// UpdateDestination - sets to_loc.
func (r *TxRepo) UpdateDestination(ctx context.Context, id int64, to string) error {
	return r.exec(ctx, "update destination", id, `UPDATE parcels SET to_loc = $2 WHERE id = $1`, id, to)
}

// UpdateStatus - sets status and stamps delivered_on when delivered.
func (r *TxRepo) UpdateStatus(ctx context.Context, id int64, status domain.ParcelStatus) error {
	return r.exec(ctx, "update status", id, `
        UPDATE parcels
        SET status = $2::text,
            delivered_on = CASE WHEN $2::text = 'delivered' THEN now() ELSE delivered_on END
        WHERE id = $1
    `, id, string(status))
}

// UpdateLocation - sets current_loc.
func (r *TxRepo) UpdateLocation(ctx context.Context, id int64, location string) error {
	return r.exec(ctx, "update location", id, `UPDATE parcels SET current_loc = $2 WHERE id = $1`, id, location)
}
