package notify

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"

	"sendit/internal/domain"
)

var testOwner = domain.ParcelOwner{UserID: 1, Email: "ada@mail.test", FirstName: "Ada"}

func TestRender(t *testing.T) {
	t.Parallel()

	subject, body, err := Render(NewStatusEvent(testOwner, 12, domain.ParcelTransiting, time.Now()))
	require.NoError(t, err)
	require.Equal(t, "Parcel #12 is now transiting", subject)
	require.Contains(t, body, "Hello Ada,")
	require.Contains(t, body, "<strong>transiting</strong>")

	subject, body, err = Render(NewLocationEvent(testOwner, 12, "Kano", time.Now()))
	require.NoError(t, err)
	require.Equal(t, "Parcel #12 location update", subject)
	require.Contains(t, body, "<strong>Kano</strong>")
}

func TestRender_EscapesUserData(t *testing.T) {
	t.Parallel()

	_, body, err := Render(NewLocationEvent(testOwner, 1, "<script>x</script>", time.Now()))
	require.NoError(t, err)
	require.NotContains(t, body, "<script>")
	require.Contains(t, body, "&lt;script&gt;")
}

func TestRender_UnknownKindIsPermanent(t *testing.T) {
	t.Parallel()

	_, _, err := Render(Event{Kind: "parade"})
	require.Error(t, err)
	require.True(t, IsPermanent(err))
}

func TestNewMailer_RequiresHost(t *testing.T) {
	t.Parallel()

	_, err := NewMailer(MailerConfig{Port: 587})
	require.Error(t, err)

	m, err := NewMailer(MailerConfig{Host: "smtp.mail.test", Port: 587, Username: "u", Password: "p", From: "no-reply@mail.test"})
	require.NoError(t, err)
	require.NotNil(t, m)
}

func TestMailer_SendBuildsMessage(t *testing.T) {
	t.Parallel()

	var sent []*mail.Msg
	m := &Mailer{
		from: "no-reply@mail.test",
		send: func(_ context.Context, msgs ...*mail.Msg) error {
			sent = append(sent, msgs...)
			return nil
		},
	}

	require.NoError(t, m.Send(context.Background(), NewLocationEvent(testOwner, 5, "Kano", time.Now())))
	require.Len(t, sent, 1)

	rcpts, err := sent[0].GetRecipients()
	require.NoError(t, err)
	require.Equal(t, []string{"ada@mail.test"}, rcpts)

	var buf bytes.Buffer
	_, err = sent[0].WriteTo(&buf)
	require.NoError(t, err)
	require.Contains(t, buf.String(), "Parcel #5 location update")
}

func TestMailer_BadRecipientIsPermanent(t *testing.T) {
	t.Parallel()

	called := false
	m := &Mailer{
		from: "no-reply@mail.test",
		send: func(context.Context, ...*mail.Msg) error {
			called = true
			return nil
		},
	}

	ev := NewStatusEvent(domain.ParcelOwner{Email: "not an address"}, 1, domain.ParcelDelivered, time.Now())
	err := m.Send(context.Background(), ev)
	require.True(t, IsPermanent(err))
	require.False(t, called)
}

func TestMailer_TransportErrorIsWrapped(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection refused")
	m := &Mailer{
		from: "no-reply@mail.test",
		send: func(context.Context, ...*mail.Msg) error { return boom },
	}

	err := m.Send(context.Background(), NewStatusEvent(testOwner, 1, domain.ParcelDelivered, time.Now()))
	require.ErrorIs(t, err, boom)
	require.False(t, IsPermanent(err))
}
