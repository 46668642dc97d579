package notify

import (
	"time"

	"github.com/google/uuid"

	"sendit/internal/domain"
)

// Kind is the type of parcel update a user is notified about.
type Kind string

// List of notification kinds
const (
	KindStatus   Kind = "status"
	KindLocation Kind = "location"
)

// Valid checks if the Kind is known
func (k Kind) Valid() bool {
	return k == KindStatus || k == KindLocation
}

// Event is a single parcel update addressed to the parcel owner.
type Event struct {
	ID         uuid.UUID
	Kind       Kind
	ParcelID   int64
	Email      string
	FirstName  string
	Status     domain.ParcelStatus
	Location   string
	OccurredAt time.Time
}

// NewStatusEvent builds the event sent after an administrator changed a parcel status.
func NewStatusEvent(owner domain.ParcelOwner, parcelID int64, status domain.ParcelStatus, at time.Time) Event {
	return Event{
		ID:         uuid.New(),
		Kind:       KindStatus,
		ParcelID:   parcelID,
		Email:      owner.Email,
		FirstName:  owner.FirstName,
		Status:     status,
		OccurredAt: at,
	}
}

// NewLocationEvent builds the event sent after an administrator moved a parcel.
func NewLocationEvent(owner domain.ParcelOwner, parcelID int64, location string, at time.Time) Event {
	return Event{
		ID:         uuid.New(),
		Kind:       KindLocation,
		ParcelID:   parcelID,
		Email:      owner.Email,
		FirstName:  owner.FirstName,
		Location:   location,
		OccurredAt: at,
	}
}
