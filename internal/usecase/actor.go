package usecase

import (
	"context"

	"backoffice/internal/data/entity"
	"backoffice/internal/data/repository"
)

// Actor is whoever performs a write. A nil ID is the anonymous system actor.
type Actor struct {
	ID *int64
}

func SystemActor() Actor { return Actor{} }

func UserActor(id int64) Actor { return Actor{ID: &id} }

func (a Actor) IsSystem() bool { return a.ID == nil }

// AuditEntry describes one recorded event, e.g. "client.created".
type AuditEntry struct {
	Actor       Actor
	Event       string
	SubjectType string
	SubjectID   int64
	Properties  map[string]any
}

// AuditLog records audit entries. Callers treat failures as best-effort.
type AuditLog interface {
	Record(ctx context.Context, entry AuditEntry) error
}

// NopAuditLog discards every entry.
type NopAuditLog struct{}

func (NopAuditLog) Record(context.Context, AuditEntry) error { return nil }

type activityAuditLog struct {
	repo repository.ActivityRepository
}

// NewActivityAuditLog persists entries to the activity log table.
func NewActivityAuditLog(repo repository.ActivityRepository) AuditLog {
	return &activityAuditLog{repo: repo}
}

func (a *activityAuditLog) Record(ctx context.Context, entry AuditEntry) error {
	subjectID := entry.SubjectID
	return a.repo.Record(ctx, &entity.Activity{
		LogName:     "default",
		Event:       entry.Event,
		SubjectType: entry.SubjectType,
		SubjectID:   &subjectID,
		CauserID:    entry.Actor.ID,
		Properties:  entry.Properties,
	})
}
