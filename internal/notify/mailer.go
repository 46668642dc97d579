package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wneessen/go-mail"
)

// MailerConfig holds the SMTP relay settings.
type MailerConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Mailer sends parcel updates as HTML email over SMTP.
type Mailer struct {
	from string
	send func(ctx context.Context, msgs ...*mail.Msg) error
}

// NewMailer creates a Mailer for the given SMTP relay.
func NewMailer(cfg MailerConfig) (*Mailer, error) {
	if strings.TrimSpace(cfg.Host) == "" {
		return nil, errors.New("smtp host is empty")
	}
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &Mailer{from: cfg.From, send: client.DialAndSendWithContext}, nil
}

// Send renders ev and delivers it to the parcel owner.
func (m *Mailer) Send(ctx context.Context, ev Event) error {
	msg, err := m.message(ev)
	if err != nil {
		return err
	}
	if err := m.send(ctx, msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", ev.Email, err)
	}
	return nil
}

func (m *Mailer) message(ev Event) (*mail.Msg, error) {
	subject, body, err := Render(ev)
	if err != nil {
		return nil, err
	}
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return nil, Permanent(fmt.Errorf("mail from: %w", err))
	}
	if err := msg.To(ev.Email); err != nil {
		return nil, Permanent(fmt.Errorf("mail to: %w", err))
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, body)
	return msg, nil
}
