package notification

import (
	"context"
	"errors"
	"time"
)

var (
	ErrQueueFull   = errors.New("notification queue is full")
	ErrQueueClosed = errors.New("notification queue is closed")
)

// Message is one templated notification for one or more recipients.
type Message struct {
	ID       string         `json:"id"`
	Template string         `json:"template"`
	To       []string       `json:"to"`
	Payload  map[string]any `json:"payload,omitempty"`
	QueuedAt time.Time      `json:"queued_at"`
}

// Dispatcher accepts messages for asynchronous delivery. Enqueue never
// waits for delivery.
type Dispatcher interface {
	Enqueue(ctx context.Context, msg Message) error
}

// Transport delivers a message to its destination.
type Transport interface {
	Send(ctx context.Context, msg Message) error
	Close() error
}
