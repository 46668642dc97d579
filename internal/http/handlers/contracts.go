package handlers

import (
	"context"

	"sendit/internal/domain"
)

type userUsecase interface {
	Signup(ctx context.Context, n domain.NewUser) (domain.Session, error)
	Login(ctx context.Context, c domain.Credentials) (domain.Session, error)
}

type parcelUsecase interface {
	Create(ctx context.Context, principal int64, n domain.NewParcel) (int64, error)
	List(ctx context.Context, principal int64, page domain.Page) ([]domain.Parcel, error)
	Get(ctx context.Context, principal, parcelID int64) (*domain.Parcel, error)
	ListForUser(ctx context.Context, principal, userID int64, page domain.Page) ([]domain.Parcel, error)
	Cancel(ctx context.Context, principal, parcelID int64) (domain.CancelResult, error)
	ChangeDestination(ctx context.Context, principal, parcelID int64, to string) (domain.DestinationResult, error)
	ChangeStatus(ctx context.Context, principal, parcelID int64, status domain.ParcelStatus) (domain.StatusResult, error)
	ChangeLocation(ctx context.Context, principal, parcelID int64, location string) (domain.LocationResult, error)
}
