package kafka_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"sendit/internal/domain"
	"sendit/internal/notify"
	"sendit/internal/transport/kafka"
)

func TestDTO_RoundTripsEvent(t *testing.T) {
	t.Parallel()

	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	ev := notify.NewStatusEvent(domain.ParcelOwner{Email: "ada@mail.test", FirstName: "Ada"}, 9, domain.ParcelDelivered, ts)

	got, err := kafka.ToDomain(kafka.FromDomain(ev))
	require.NoError(t, err)
	require.Equal(t, ev, got)
}

func TestToDomain_TrimsFields(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	got, err := kafka.ToDomain(kafka.EventDTO{
		ID:       " " + id.String() + " ",
		Kind:     " location ",
		ParcelID: 3,
		Email:    "  ada@mail.test ",
		Location: "  Kano ",
	})
	require.NoError(t, err)
	require.Equal(t, id, got.ID)
	require.Equal(t, notify.KindLocation, got.Kind)
	require.Equal(t, "ada@mail.test", got.Email)
	require.Equal(t, "Kano", got.Location)
}

func TestToDomain_Rejects(t *testing.T) {
	t.Parallel()

	valid := kafka.EventDTO{ID: uuid.NewString(), Kind: "status", ParcelID: 1, Email: "a@mail.test"}

	cases := map[string]func(*kafka.EventDTO){
		"bad id":       func(d *kafka.EventDTO) { d.ID = "nope" },
		"unknown kind": func(d *kafka.EventDTO) { d.Kind = "party" },
		"no email":     func(d *kafka.EventDTO) { d.Email = "" },
		"no parcel":    func(d *kafka.EventDTO) { d.ParcelID = 0 },
	}
	for name, mutate := range cases {
		dto := valid
		mutate(&dto)
		_, err := kafka.ToDomain(dto)
		require.Error(t, err, name)
	}
}
