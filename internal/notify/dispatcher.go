package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"sendit/internal/logx"
)

// Sink delivers a single event.
type Sink interface {
	Send(ctx context.Context, ev Event) error
}

type counter interface {
	Inc()
}

// Counters are the metrics a Dispatcher reports to. Nil counters are skipped.
type Counters struct {
	Sent    counter
	Failed  counter
	Dropped counter
}

// Options configure a Dispatcher.
type Options struct {
	QueueSize       int
	Workers         int
	DeliveryTimeout time.Duration
}

// ErrClosed is returned by Shutdown when the dispatcher has already been shut down.
var ErrClosed = errors.New("dispatcher closed")

// Dispatcher hands events to a Sink on background workers so that callers never wait for delivery.
type Dispatcher struct {
	sink     Sink
	logger   logx.Logger
	counters Counters
	workers  int
	timeout  time.Duration

	queue chan Event
	base  context.Context
	abort context.CancelFunc

	mu        sync.RWMutex
	closed    bool
	startOnce sync.Once
	wg        sync.WaitGroup
}

// NewDispatcher creates a Dispatcher. Start must be called before events are delivered.
func NewDispatcher(sink Sink, logger logx.Logger, opts Options, c Counters) *Dispatcher {
	if opts.QueueSize <= 0 {
		opts.QueueSize = 256
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.DeliveryTimeout <= 0 {
		opts.DeliveryTimeout = 10 * time.Second
	}
	if logger == nil {
		logger = logx.Nop()
	}
	base, abort := context.WithCancel(context.Background())
	return &Dispatcher{
		sink:     sink,
		logger:   logger,
		counters: c,
		workers:  opts.Workers,
		timeout:  opts.DeliveryTimeout,
		queue:    make(chan Event, opts.QueueSize),
		base:     base,
		abort:    abort,
	}
}

// Start launches the worker goroutines. Calling it more than once has no effect.
func (d *Dispatcher) Start() {
	d.startOnce.Do(func() {
		for i := 0; i < d.workers; i++ {
			d.wg.Add(1)
			go d.work()
		}
	})
}

// Dispatch enqueues ev without blocking. It reports false when the event was dropped
// because the queue is full or the dispatcher is shut down.
func (d *Dispatcher) Dispatch(ev Event) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.drop(ev, "dispatcher closed")
		return false
	}
	select {
	case d.queue <- ev:
		return true
	default:
		d.drop(ev, "queue full")
		return false
	}
}

func (d *Dispatcher) drop(ev Event, reason string) {
	inc(d.counters.Dropped)
	d.logger.Warn("notification dropped",
		logx.String("reason", reason),
		logx.String("event_id", ev.ID.String()),
		logx.Int64("parcel_id", ev.ParcelID),
	)
}

func (d *Dispatcher) work() {
	defer d.wg.Done()
	for ev := range d.queue {
		d.deliver(ev)
	}
}

func (d *Dispatcher) deliver(ev Event) {
	ctx, cancel := context.WithTimeout(d.base, d.timeout)
	defer cancel()

	if err := d.sink.Send(ctx, ev); err != nil {
		inc(d.counters.Failed)
		d.logger.Warn("notification failed",
			logx.String("event_id", ev.ID.String()),
			logx.String("kind", string(ev.Kind)),
			logx.Int64("parcel_id", ev.ParcelID),
			logx.Err(err),
		)
		return
	}
	inc(d.counters.Sent)
	d.logger.Debug("notification sent",
		logx.String("event_id", ev.ID.String()),
		logx.Int64("parcel_id", ev.ParcelID),
	)
}

// Shutdown stops accepting events and waits for queued ones to be delivered.
// When ctx expires first, in-flight deliveries are canceled and ctx.Err() is returned.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrClosed
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	// workers that were never started still have to drain the queue
	d.Start()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.abort()
		return nil
	case <-ctx.Done():
		d.abort()
		<-done
		return ctx.Err()
	}
}

func inc(c counter) {
	if c != nil {
		c.Inc()
	}
}
