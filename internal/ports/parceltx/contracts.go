package parceltx

import (
	"context"

	"sendit/internal/domain"
)

// Repository is the parcel store as seen inside a transaction. Lock methods hold a row
// lock on the parcel until the transaction ends.
type Repository interface {
	Lock(ctx context.Context, id int64) (*domain.LockedParcel, error)
	LockOwned(ctx context.Context, id, ownerID int64) (*domain.LockedParcel, error)
	Delete(ctx context.Context, id int64) error
	UpdateDestination(ctx context.Context, id int64, to string) error
	UpdateStatus(ctx context.Context, id int64, status domain.ParcelStatus) error
	UpdateLocation(ctx context.Context, id int64, location string) error
}

// Runner is a transaction runner
type Runner interface {
	WithTx(ctx context.Context, fn func(tx Repository) error) error
}
