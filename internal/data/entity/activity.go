package entity

// Activity is a single audit log entry.
type Activity struct {
	BaseSimple
	LogName     string         `db:"log_name"`
	Event       string         `db:"description"`
	SubjectType string         `db:"subject_type"`
	SubjectID   *int64         `db:"subject_id"`
	CauserID    *int64         `db:"causer_id"`
	Properties  map[string]any `db:"properties"`
}
