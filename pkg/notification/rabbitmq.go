package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	DefaultExchange = "backoffice.notifications"

	confirmWait = 5 * time.Second
)

// RabbitTransport publishes messages to a topic exchange with publisher
// confirms. A mail worker downstream binds to "notification.#".
type RabbitTransport struct {
	exchange string
	log      *zap.Logger

	mu sync.Mutex

	conn *amqp.Connection
	ch   *amqp.Channel

	confirmCh <-chan amqp.Confirmation
	returnCh  <-chan amqp.Return
}

func NewRabbitTransport(url, exchange string, log *zap.Logger) (*RabbitTransport, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}

	t := &RabbitTransport{
		exchange: exchange,
		log:      log.With(zap.String("transport", "rabbitmq"), zap.String("exchange", exchange)),
	}
	if err := t.connect(url); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *RabbitTransport) connect(url string) error {
	conn, err := amqp.Dial(url)
	if err != nil {
		return fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(t.exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("declare exchange %s: %w", t.exchange, err)
	}

	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("enable confirms: %w", err)
	}

	t.conn = conn
	t.ch = ch
	t.confirmCh = ch.NotifyPublish(make(chan amqp.Confirmation, 1))
	t.returnCh = ch.NotifyReturn(make(chan amqp.Return, 1))

	return nil
}

// RoutingKey is the topic a message is published under.
func RoutingKey(msg Message) string {
	return "notification." + msg.Template
}

func (t *RabbitTransport) Send(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message %s: %w", msg.ID, err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.ch == nil {
		return errors.New("rabbitmq channel not ready")
	}

	err = t.ch.PublishWithContext(
		ctx,
		t.exchange,
		RoutingKey(msg),
		true,  // mandatory
		false, // immediate
		amqp.Publishing{
			MessageId:    msg.ID,
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    msg.QueuedAt,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", msg.ID, err)
	}

	// an unroutable message is returned before its confirm
	select {
	case ret := <-t.returnCh:
		select {
		case <-t.confirmCh:
		case <-time.After(confirmWait):
		}
		return fmt.Errorf("message %s returned: no route for %s", msg.ID, ret.RoutingKey)
	case conf := <-t.confirmCh:
		if !conf.Ack {
			return fmt.Errorf("message %s nacked by broker", msg.ID)
		}
		return nil
	case <-time.After(confirmWait):
		return fmt.Errorf("message %s: confirm timeout", msg.ID)
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *RabbitTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.ch != nil {
		_ = t.ch.Close()
		t.ch = nil
	}
	if t.conn != nil {
		err := t.conn.Close()
		t.conn = nil
		return err
	}
	return nil
}
