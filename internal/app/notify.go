package app

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"sendit/internal/config"
	"sendit/internal/logx"
	"sendit/internal/metrics"
	"sendit/internal/notify"
	"sendit/internal/transport/kafka"
)

var newKafkaProducer = kafka.NewProducer

type notifySinkIn struct {
	dig.In

	Config  *config.Config
	Logger  logx.Logger
	Retries prometheus.Counter `name:"notification_retries_total"`
}

type notifySinkOut struct {
	dig.Out

	Sink     notify.Sink
	Producer *kafka.Producer
}

// newNotifySink picks where parcel events go: Kafka when brokers are configured,
// SMTP when a mail host is set, otherwise the log.
func newNotifySink(in notifySinkIn) (notifySinkOut, error) {
	cfg := in.Config
	if cfg.Kafka.Enabled() {
		p, err := newKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			return notifySinkOut{}, fmt.Errorf("kafka producer: %w", err)
		}
		in.Logger.Info("notifications go to kafka", logx.String("topic", cfg.Kafka.Topic))
		return notifySinkOut{Sink: p, Producer: p}, nil
	}

	sink, err := newDeliverySink(cfg, in.Logger, in.Retries)
	if err != nil {
		return notifySinkOut{}, err
	}
	return notifySinkOut{Sink: sink}, nil
}

// newDeliverySink returns the sink that actually reaches the user: SMTP with retries, or the log.
func newDeliverySink(cfg *config.Config, logger logx.Logger, retries prometheus.Counter) (notify.Sink, error) {
	if cfg.Mail.Host == "" {
		logger.Info("notifications go to the log")
		return notify.NewLogSink(logger), nil
	}

	mailer, err := notify.NewMailer(notify.MailerConfig{
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		Username: cfg.Mail.Username,
		Password: cfg.Mail.Password,
		From:     cfg.Mail.From,
	})
	if err != nil {
		return nil, fmt.Errorf("mailer: %w", err)
	}
	logger.Info("notifications go to smtp", logx.String("host", cfg.Mail.Host))
	return notify.NewRetryingSink(mailer, logger, retries, notify.RetryConfig{
		MaxAttempts: cfg.Mail.MaxAttempts,
		BaseDelay:   cfg.Mail.BaseDelay,
		MaxDelay:    cfg.Mail.MaxDelay,
	}), nil
}

func newDispatcher(cfg *config.Config, sink notify.Sink, logger logx.Logger, n *metrics.Notifications) *notify.Dispatcher {
	return notify.NewDispatcher(sink, logger, notify.Options{
		QueueSize:       cfg.Notify.QueueSize,
		Workers:         cfg.Notify.Workers,
		DeliveryTimeout: cfg.Notify.DeliveryTimeout,
	}, notify.Counters{
		Sent:    n.Sent,
		Failed:  n.Failed,
		Dropped: n.Dropped,
	})
}

func registerNotify(container *dig.Container) error {
	return provideAll(container, newNotifySink, newDispatcher)
}
