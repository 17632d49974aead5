// Package worker runs event consumers off the request path.
package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/accept/school-service/internal/events"
)

// EventHandler is the consumer a worker feeds.
type EventHandler interface {
	Subscriptions() []events.EventType
	Handle(ctx context.Context, event events.Event) error
}

// NotificationWorker queues dispatched events and hands them to the handler
// on a background goroutine. Events are dropped when the queue is full.
type NotificationWorker struct {
	handler EventHandler
	logger  *zap.Logger
	queue   chan events.Event

	once sync.Once
	wg   sync.WaitGroup
}

const defaultQueueSize = 256

// NewNotificationWorker builds a worker with the given queue capacity.
func NewNotificationWorker(handler EventHandler, logger *zap.Logger, queueSize int) *NotificationWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	return &NotificationWorker{
		handler: handler,
		logger:  logger,
		queue:   make(chan events.Event, queueSize),
	}
}

// Subscribe attaches the worker to every event type the handler wants.
func (w *NotificationWorker) Subscribe(dispatcher events.Dispatcher) {
	for _, et := range w.handler.Subscriptions() {
		dispatcher.Subscribe(et, w.enqueue)
	}
}

func (w *NotificationWorker) enqueue(_ context.Context, event events.Event) error {
	select {
	case w.queue <- event:
	default:
		w.logger.Warn("notification queue full, dropping event",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)))
	}
	return nil
}

// Start consumes the queue until Stop is called.
func (w *NotificationWorker) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for event := range w.queue {
			if err := w.handler.Handle(ctx, event); err != nil {
				w.logger.Warn("notification failed",
					zap.String("event_id", event.ID),
					zap.String("event_type", string(event.Type)),
					zap.Error(err))
			}
		}
	}()
}

// Stop closes the queue and waits for queued events to drain or ctx to end.
func (w *NotificationWorker) Stop(ctx context.Context) error {
	w.once.Do(func() { close(w.queue) })
	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
