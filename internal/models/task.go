package models

import "time"

// Task is a row of the tasks table.
type Task struct {
	TaskID             string     `db:"task_id"`
	ProjectID          string     `db:"project_id"`
	GroupID            *string    `db:"group_id"`
	Name               string     `db:"name"`
	Description        string     `db:"description"`
	AssignedToUserID   *string    `db:"assigned_to_user_id"`
	CreatedByUserID    string     `db:"created_by_user_id"`
	OrderColumn        int        `db:"order_column"`
	CompletedAt        *time.Time `db:"completed_at"`
	CompletionOverride bool       `db:"completion_override"`
	HiddenFromClients  bool       `db:"hidden_from_clients"`
	Priority           string     `db:"priority"`
	DueOn              *time.Time `db:"due_on"`
	ArchivedAt         *time.Time `db:"archived_at"`
	AuditFields
}
