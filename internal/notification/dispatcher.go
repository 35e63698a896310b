package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/sethvargo/go-retry"
)

// Common errors returned by the Dispatcher
var (
	ErrQueueClosed = errors.New("notification queue is closed")
	ErrQueueFull   = errors.New("notification queue is full")
)

// Config holds configuration for the dispatcher.
type Config struct {
	// QueueSize is the buffer size of the in-memory queue.
	QueueSize int

	// WorkerCount determines how many messages are delivered concurrently.
	// If zero or negative, defaults to 1.
	WorkerCount int

	// MaxRetries is the number of redeliveries after a failed first attempt.
	MaxRetries int

	// RetryBase is the first backoff interval; later ones double.
	// If zero, defaults to 100ms.
	RetryBase time.Duration
}

// DefaultConfig returns a Config with reasonable defaults
func DefaultConfig() Config {
	return Config{
		QueueSize:   100,
		WorkerCount: 2,
		MaxRetries:  3,
		RetryBase:   100 * time.Millisecond,
	}
}

// Stats reports delivery outcomes since the dispatcher was created.
type Stats struct {
	Delivered int64
	Failed    int64
}

// Dispatcher queues notifications and delivers them with a pool of workers.
type Dispatcher struct {
	mailer Mailer
	config Config
	logger *slog.Logger

	// mu guards queue closure and errHandler.
	mu     sync.Mutex
	queue  chan Message
	closed bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	delivered atomic.Int64
	failed    atomic.Int64

	errHandler func(msg Message, err error)
}

// Ensure Dispatcher implements domain.Notifier
var _ domain.Notifier = (*Dispatcher)(nil)

// NewDispatcher creates a dispatcher. Workers are not started until Start is called.
func NewDispatcher(mailer Mailer, config Config, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "notification_dispatcher"))

	if config.WorkerCount <= 0 {
		logger.Warn("invalid worker count specified, using default",
			"specified_count", config.WorkerCount,
			"default_count", 1)
		config.WorkerCount = 1
	}
	if config.QueueSize < 0 {
		config.QueueSize = 0
	}
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	}
	if config.RetryBase <= 0 {
		config.RetryBase = 100 * time.Millisecond
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Dispatcher{
		mailer: mailer,
		config: config,
		logger: logger,
		queue:  make(chan Message, config.QueueSize),
		ctx:    ctx,
		cancel: cancel,
		errHandler: func(msg Message, err error) {
			logger.Error("notification delivery failed",
				"message_id", msg.ID,
				"user_id", msg.UserID,
				"error", err)
		},
	}
}

// SetErrorHandler replaces the handler called when a message is given up on.
// It is safe to call while workers are running.
func (d *Dispatcher) SetErrorHandler(handler func(msg Message, err error)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.errHandler = handler
}

func (d *Dispatcher) errorHandler() func(msg Message, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.errHandler
}

// Start launches the worker goroutines.
func (d *Dispatcher) Start() {
	for i := 0; i < d.config.WorkerCount; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}
	d.logger.Info("notification dispatcher started",
		"worker_count", d.config.WorkerCount,
		"queue_size", d.config.QueueSize)
}

// Notify implements domain.Notifier by enqueueing a message for the user.
// It never blocks on delivery.
func (d *Dispatcher) Notify(ctx context.Context, user *domain.User, text string) error {
	msg := Message{
		ID:        uuid.New(),
		UserID:    user.ID,
		Email:     user.Email,
		FullName:  user.FirstName + " " + user.LastName,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	return d.Enqueue(msg)
}

// Enqueue adds a message to the queue.
// Returns ErrQueueFull or ErrQueueClosed when the message cannot be accepted.
func (d *Dispatcher) Enqueue(msg Message) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrQueueClosed
	}

	select {
	case d.queue <- msg:
		d.logger.Debug("notification enqueued",
			"message_id", msg.ID,
			"queue_len", len(d.queue),
			"queue_cap", cap(d.queue))
		return nil
	default:
		return fmt.Errorf("%w: queue capacity %d reached", ErrQueueFull, cap(d.queue))
	}
}

// Stop closes the queue and waits for workers to deliver what is left.
// If ctx ends first, pending retries are abandoned and ctx.Err() is returned.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.cancel()
		d.logger.Info("notification dispatcher stopped")
		return nil
	case <-ctx.Done():
		d.cancel()
		<-done
		d.logger.Warn("notification dispatcher stopped before the queue drained")
		return ctx.Err()
	}
}

// Stats returns delivery counters.
func (d *Dispatcher) Stats() Stats {
	return Stats{
		Delivered: d.delivered.Load(),
		Failed:    d.failed.Load(),
	}
}

func (d *Dispatcher) worker(id int) {
	defer d.wg.Done()

	d.logger.Debug("starting worker", "worker_id", id)
	for msg := range d.queue {
		d.deliver(msg, id)
	}
	d.logger.Debug("queue closed, stopping worker", "worker_id", id)
}

func (d *Dispatcher) deliver(msg Message, workerID int) {
	logger := d.logger.With(
		"message_id", msg.ID,
		"user_id", msg.UserID,
		"worker_id", workerID,
	)

	backoff := retry.WithMaxRetries(uint64(d.config.MaxRetries), retry.NewExponential(d.config.RetryBase))

	attempt := 0
	err := retry.Do(d.ctx, backoff, func(ctx context.Context) error {
		attempt++
		if err := d.mailer.Send(ctx, msg); err != nil {
			if errors.Is(err, ErrPermanent) {
				return err
			}
			logger.Warn("notification attempt failed", "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})

	if err != nil {
		d.failed.Add(1)
		d.errorHandler()(msg, err)
		return
	}

	d.delivered.Add(1)
	logger.Debug("notification delivered", "attempts", attempt)
}
