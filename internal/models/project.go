package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Project is a row of the projects table.
type Project struct {
	ProjectID   string              `db:"project_id"`
	WorkspaceID string              `db:"workspace_id"`
	Name        string              `db:"name"`
	Description string              `db:"description"`
	DueDate     *time.Time          `db:"due_date"`
	Budget      decimal.NullDecimal `db:"budget"` // Nullable
	ArchivedAt  *time.Time          `db:"archived_at"`
	AuditFields
}

// ProjectMembership is a row of the project_memberships table.
type ProjectMembership struct {
	ProjectID string    `db:"project_id"`
	UserID    string    `db:"user_id"`
	Role      string    `db:"role"`
	JoinedAt  time.Time `db:"joined_at"`
}
