package app

import (
	"context"
	"time"

	"sendit/internal/config"
	"sendit/internal/domain"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:             8080,
		APIVersion:       "v1",
		OperationTimeout: time.Second,
		Auth: config.Auth{
			Secret:     "app-test-secret",
			TokenTTL:   time.Hour,
			BcryptCost: 4,
		},
		Mail: config.Mail{From: "no-reply@sendit.test", Port: 2525, MaxAttempts: 2},
		Notify: config.Notify{
			QueueSize:       8,
			Workers:         1,
			DeliveryTimeout: time.Second,
			DrainTimeout:    time.Second,
		},
		Kafka: config.Kafka{Topic: "parcel-events", GroupID: "sendit-notifier"},
		RateLimit: config.RateLimit{
			Enabled:    true,
			Rate:       1,
			Burst:      5,
			TTL:        time.Minute,
			MaxBuckets: 100,
			Window:     time.Second,
		},
		Jobs: config.Jobs{StatsSchedule: "@every 1h"},
		Log:  config.Log{Level: "info", Backend: "slog"},
	}
}

type stubCounter struct{}

func (stubCounter) CountByStatus(context.Context) (map[domain.ParcelStatus]int64, error) {
	return map[domain.ParcelStatus]int64{}, nil
}
