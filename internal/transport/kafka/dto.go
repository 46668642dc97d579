package kafka

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"sendit/internal/domain"
	"sendit/internal/notify"
)

// EventDTO is the wire form of notify.Event on the parcel-events topic.
type EventDTO struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	ParcelID   int64     `json:"parcel_id"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name"`
	Status     string    `json:"status,omitempty"`
	Location   string    `json:"location,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// FromDomain converts notify.Event to EventDTO
func FromDomain(ev notify.Event) EventDTO {
	return EventDTO{
		ID:         ev.ID.String(),
		Kind:       string(ev.Kind),
		ParcelID:   ev.ParcelID,
		Email:      ev.Email,
		FirstName:  ev.FirstName,
		Status:     string(ev.Status),
		Location:   ev.Location,
		OccurredAt: ev.OccurredAt,
	}
}

// ToDomain converts EventDTO to notify.Event and rejects events that cannot be delivered.
func ToDomain(dto EventDTO) (notify.Event, error) {
	id, err := uuid.Parse(strings.TrimSpace(dto.ID))
	if err != nil {
		return notify.Event{}, errors.New("bad event id")
	}
	ev := notify.Event{
		ID:         id,
		Kind:       notify.Kind(strings.TrimSpace(dto.Kind)),
		ParcelID:   dto.ParcelID,
		Email:      strings.TrimSpace(dto.Email),
		FirstName:  strings.TrimSpace(dto.FirstName),
		Status:     domain.ParcelStatus(strings.TrimSpace(dto.Status)),
		Location:   strings.TrimSpace(dto.Location),
		OccurredAt: dto.OccurredAt,
	}
	switch {
	case !ev.Kind.Valid():
		return notify.Event{}, errors.New("unknown kind")
	case ev.Email == "":
		return notify.Event{}, errors.New("empty email")
	case ev.ParcelID <= 0:
		return notify.Event{}, errors.New("bad parcel id")
	}
	return ev, nil
}
