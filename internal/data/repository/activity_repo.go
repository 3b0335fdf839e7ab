package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"backoffice/internal/data/entity"
	"backoffice/pkg/database"

	"go.uber.org/zap"
)

type ActivityRepository interface {
	Record(ctx context.Context, activity *entity.Activity) error
	FindBySubject(ctx context.Context, subjectType string, subjectID int64) ([]*entity.Activity, error)
}

type activityRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewActivityRepository(db database.Querier, log *zap.Logger) ActivityRepository {
	return &activityRepository{
		db:  db,
		log: log.With(zap.String("repository", "activity")),
	}
}

// Record appends an entry to the activity log.
func (ar *activityRepository) Record(ctx context.Context, activity *entity.Activity) error {
	props, err := json.Marshal(activity.Properties)
	if err != nil {
		return fmt.Errorf("marshal activity properties: %w", err)
	}

	query := `
		INSERT INTO activity_log (log_name, description, subject_type, subject_id, causer_id, properties)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err = ar.db.QueryRow(ctx, query,
		activity.LogName,
		activity.Event,
		activity.SubjectType,
		activity.SubjectID,
		activity.CauserID,
		props,
	).Scan(&activity.ID, &activity.CreatedAt)
	if err != nil {
		ar.log.Error("Failed to record activity",
			zap.Error(err),
			zap.String("event", activity.Event),
		)
		return fmt.Errorf("record activity %s: %w", activity.Event, err)
	}

	return nil
}

// FindBySubject returns the subject's history, oldest first.
func (ar *activityRepository) FindBySubject(ctx context.Context, subjectType string, subjectID int64) ([]*entity.Activity, error) {
	query := `
		SELECT id, log_name, description, subject_type, subject_id, causer_id, properties, created_at
		FROM activity_log
		WHERE subject_type = $1 AND subject_id = $2
		ORDER BY id
	`

	rows, err := ar.db.Query(ctx, query, subjectType, subjectID)
	if err != nil {
		ar.log.Error("Failed to find activity", zap.Error(err), zap.Int64("subject_id", subjectID))
		return nil, fmt.Errorf("find activity for %s %d: %w", subjectType, subjectID, err)
	}
	defer rows.Close()

	activities := []*entity.Activity{}
	for rows.Next() {
		var (
			a        entity.Activity
			logName  *string
			subjType *string
			props    []byte
		)
		if err := rows.Scan(&a.ID, &logName, &a.Event, &subjType, &a.SubjectID, &a.CauserID, &props, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activity row: %w", err)
		}
		if logName != nil {
			a.LogName = *logName
		}
		if subjType != nil {
			a.SubjectType = *subjType
		}
		if len(props) > 0 {
			if err := json.Unmarshal(props, &a.Properties); err != nil {
				return nil, fmt.Errorf("unmarshal activity properties: %w", err)
			}
		}
		activities = append(activities, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activity rows: %w", err)
	}

	return activities, nil
}
