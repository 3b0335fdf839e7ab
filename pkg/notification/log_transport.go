package notification

import (
	"context"

	"go.uber.org/zap"
)

// LogTransport writes messages to the log instead of delivering them.
// Used in development and when no broker is configured.
type LogTransport struct {
	log *zap.Logger
}

func NewLogTransport(log *zap.Logger) *LogTransport {
	return &LogTransport{log: log.With(zap.String("transport", "log"))}
}

func (t *LogTransport) Send(ctx context.Context, msg Message) error {
	t.log.Info("Notification",
		zap.String("id", msg.ID),
		zap.String("template", msg.Template),
		zap.Strings("to", msg.To),
		zap.Any("payload", msg.Payload),
	)
	return nil
}

func (t *LogTransport) Close() error { return nil }
