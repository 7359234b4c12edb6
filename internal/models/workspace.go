package models

import "time"

// Workspace is a row of the workspaces table.
type Workspace struct {
	WorkspaceID string `db:"workspace_id"`
	Name        string `db:"name"`
	Description string `db:"description"`
	AuditFields
}

// WorkspaceMembership is a row of the workspace_memberships table.
type WorkspaceMembership struct {
	WorkspaceID string    `db:"workspace_id"`
	UserID      string    `db:"user_id"`
	Role        string    `db:"role"`
	JoinedAt    time.Time `db:"joined_at"`
}
