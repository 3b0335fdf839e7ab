package utils

import (
	"context"
)

type contextKey string

const (
	ActorIDKey   contextKey = "actor_id"
	RequestIDKey contextKey = "request_id"
)

// GetActorIDFromContext returns the id of the authenticated user acting on the request.
func GetActorIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(ActorIDKey).(int64)
	if !ok || id <= 0 {
		return 0, false
	}
	return id, true
}

func SetActorContext(ctx context.Context, actorID int64) context.Context {
	return context.WithValue(ctx, ActorIDKey, actorID)
}

func GetRequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(RequestIDKey).(string)
	return id, ok && id != ""
}

func SetRequestIDContext(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}
