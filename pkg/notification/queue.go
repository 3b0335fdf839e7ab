package notification

import (
	"context"
	"sync"
	"time"

	"backoffice/pkg/metrics"
	"backoffice/pkg/utils"

	"go.uber.org/zap"
)

const sendTimeout = 10 * time.Second

// Queue is a bounded in-process Dispatcher drained by a single worker.
// Delivery is at most once: a full queue rejects the message and a failed
// send is logged and dropped.
type Queue struct {
	ch        chan Message
	transport Transport
	log       *zap.Logger

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewQueue(transport Transport, size int, log *zap.Logger) *Queue {
	if size < 1 {
		size = 1
	}
	q := &Queue{
		ch:        make(chan Message, size),
		transport: transport,
		log:       log.With(zap.String("component", "notification_queue")),
		done:      make(chan struct{}),
	}
	go q.run()
	return q
}

func (q *Queue) Enqueue(ctx context.Context, msg Message) error {
	if msg.ID == "" {
		msg.ID = utils.GenerateUUIDString()
	}
	if msg.QueuedAt.IsZero() {
		msg.QueuedAt = time.Now().UTC()
	}

	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.ch <- msg:
		metrics.SetNotificationQueueDepth(len(q.ch))
		return nil
	default:
		metrics.Notification(msg.Template, "dropped")
		q.log.Warn("Notification queue full, dropping message",
			zap.String("id", msg.ID),
			zap.String("template", msg.Template),
		)
		return ErrQueueFull
	}
}

func (q *Queue) run() {
	defer close(q.done)

	for msg := range q.ch {
		metrics.SetNotificationQueueDepth(len(q.ch))
		q.deliver(msg)
	}
}

func (q *Queue) deliver(msg Message) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	if err := q.transport.Send(ctx, msg); err != nil {
		metrics.Notification(msg.Template, "failed")
		q.log.Error("Failed to deliver notification",
			zap.Error(err),
			zap.String("id", msg.ID),
			zap.String("template", msg.Template),
			zap.Strings("to", msg.To),
		)
		return
	}
	metrics.Notification(msg.Template, "sent")
}

// Close stops accepting messages, delivers what is already queued and
// closes the transport.
func (q *Queue) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	<-q.done
	return q.transport.Close()
}
