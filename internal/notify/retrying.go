package notify

import (
	"context"
	"time"

	"sendit/internal/logx"
)

// RetryConfig describes how RetryingSink retries failed deliveries.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// RetryingSink retries transient failures of the wrapped sink with exponential backoff.
type RetryingSink struct {
	next    Sink
	logger  logx.Logger
	retries counter
	cfg     RetryConfig
	wait    func(context.Context, time.Duration) bool
}

// NewRetryingSink wraps next; it returns nil when next is nil.
func NewRetryingSink(next Sink, logger logx.Logger, retries counter, cfg RetryConfig) *RetryingSink {
	if next == nil {
		return nil
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &RetryingSink{next: next, logger: logger, retries: retries, cfg: cfg, wait: sleepWithContext}
}

// Send implements Sink.
func (s *RetryingSink) Send(ctx context.Context, ev Event) error {
	var lastErr error
	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		err := s.next.Send(ctx, ev)
		if err == nil {
			return nil
		}
		lastErr = err

		if ctx.Err() != nil || attempt == s.cfg.MaxAttempts || IsPermanent(err) {
			break
		}

		delay := backoff(s.cfg.BaseDelay, s.cfg.MaxDelay, attempt)
		if s.retries != nil {
			s.retries.Inc()
		}
		s.logger.Warn("notification retry",
			logx.String("event_id", ev.ID.String()),
			logx.Int("attempt", attempt),
			logx.Duration("delay", delay),
			logx.Err(err),
		)
		if !s.wait(ctx, delay) {
			break
		}
	}
	return lastErr
}

// backoff doubles base per attempt and caps it at max.
func backoff(base, max time.Duration, attempt int) time.Duration {
	d := base << (attempt - 1)
	if d > max || d < 0 {
		return max
	}
	return d
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
