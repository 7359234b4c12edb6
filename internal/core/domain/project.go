package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Project belongs to exactly one workspace and owns its task groups and tasks.
type Project struct {
	ProjectID   string           `json:"projectID"`
	WorkspaceID string           `json:"workspaceID"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	DueDate     *time.Time       `json:"dueDate,omitempty"`
	Budget      *decimal.Decimal `json:"budget,omitempty"`
	State       ArchiveState     `json:"-"`
	AuditFields
}

// ProjectMembership is the (project, user) -> role association, layered on top of
// the workspace role. Unique per pair.
type ProjectMembership struct {
	ProjectID string    `json:"projectID"`
	UserID    string    `json:"userID"`
	Role      Role      `json:"role"`
	JoinedAt  time.Time `json:"joinedAt"`
}
