//go:generate mockgen -source=contracts.go -destination=mocks_test.go -package=parcel_test

package parcel

import (
	"context"

	"sendit/internal/domain"
	"sendit/internal/notify"
	"sendit/internal/ports/parceltx"
)

type parcelRepository interface {
	Create(ctx context.Context, n domain.NewParcel) (int64, error)
	Get(ctx context.Context, id int64) (*domain.Parcel, error)
	List(ctx context.Context, page domain.Page) ([]domain.Parcel, error)
	ListByOwner(ctx context.Context, ownerID int64, page domain.Page) ([]domain.Parcel, error)
	WithTx(ctx context.Context, fn func(tx parceltx.Repository) error) error
}

type userRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type notifier interface {
	Dispatch(ev notify.Event) bool
}
