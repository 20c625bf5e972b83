package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var ErrDispatcherClosed = errors.New("notify: dispatcher closed")

type DispatcherConfig struct {
	QueueSize int
	Timeout   time.Duration
}

// Dispatcher delivers notifications off the request path. Enqueue never blocks; when the
// queue is full the signup is dropped and counted.
type Dispatcher struct {
	sink    Notifier
	logger  Logger
	timeout time.Duration

	queue  chan Signup
	errs   chan error
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool

	sent    *prometheus.CounterVec
	dropped prometheus.Counter
}

func NewDispatcher(sink Notifier, logger Logger, cfg DispatcherConfig) *Dispatcher {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 100
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if sink == nil {
		sink = Noop{}
	}

	d := &Dispatcher{
		sink:    sink,
		logger:  logger,
		timeout: cfg.Timeout,
		queue:   make(chan Signup, cfg.QueueSize),
		errs:    make(chan error, cfg.QueueSize),
		sent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "waitlist_notifications_total",
			Help: "Signup notifications by delivery result.",
		}, []string{"result"}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "waitlist_notifications_dropped_total",
			Help: "Signup notifications dropped because the queue was full.",
		}),
	}

	d.wg.Add(2)
	go d.work()
	go d.drainErrors()

	return d
}

// Register adds the dispatcher counters to reg.
func (d *Dispatcher) Register(reg prometheus.Registerer) error {
	if err := reg.Register(d.sent); err != nil {
		return err
	}
	return reg.Register(d.dropped)
}

// Enqueue reports whether the signup was accepted for delivery.
func (d *Dispatcher) Enqueue(signup Signup) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return false
	}

	select {
	case d.queue <- signup:
		return true
	default:
		d.dropped.Inc()
		if d.logger != nil {
			d.logger.Warn("Notification queue full, dropping signup notification", "signup_id", signup.ID)
		}
		return false
	}
}

// QueueState reports the buffered signups, the queue capacity and whether Close has been called.
func (d *Dispatcher) QueueState() (depth, capacity int, closed bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.queue), cap(d.queue), d.closed
}

func (d *Dispatcher) work() {
	defer d.wg.Done()
	defer close(d.errs)

	for signup := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		err := d.sink.Notify(ctx, signup)
		cancel()

		if err != nil {
			d.sent.WithLabelValues("error").Inc()
			d.errs <- err
			continue
		}
		d.sent.WithLabelValues("ok").Inc()
	}
}

func (d *Dispatcher) drainErrors() {
	defer d.wg.Done()

	for err := range d.errs {
		if d.logger != nil {
			d.logger.Error("Signup notification failed", "sink", d.sink.Name(), "error", err)
		}
	}
}

// Close stops accepting signups and waits for queued ones to be delivered or for ctx to end.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrDispatcherClosed
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
