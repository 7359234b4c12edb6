package models

import "time"

// TaskGroup is a row of the task_groups table.
type TaskGroup struct {
	GroupID    string     `db:"group_id"`
	ProjectID  string     `db:"project_id"`
	Name       string     `db:"name"`
	GroupType  string     `db:"group_type"`
	Position   int        `db:"position"`
	ArchivedAt *time.Time `db:"archived_at"`
	AuditFields
}
