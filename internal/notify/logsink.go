package notify

import (
	"context"

	"sendit/internal/logx"
)

// LogSink writes events to the log instead of delivering them. It is used when
// neither SMTP nor Kafka is configured.
type LogSink struct {
	logger logx.Logger
}

// NewLogSink creates a LogSink.
func NewLogSink(logger logx.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Send implements Sink.
func (s *LogSink) Send(_ context.Context, ev Event) error {
	s.logger.Info("parcel notification",
		logx.String("event_id", ev.ID.String()),
		logx.String("kind", string(ev.Kind)),
		logx.Int64("parcel_id", ev.ParcelID),
		logx.String("email", ev.Email),
		logx.String("status", string(ev.Status)),
		logx.String("location", ev.Location),
	)
	return nil
}
