package domain

import "time"

// Workspace is the tenant boundary. It owns projects and members.
type Workspace struct {
	WorkspaceID string `json:"workspaceID"` // Primary Key (UUID)
	Name        string `json:"name"`
	Description string `json:"description"`
	AuditFields
}

// Role is the label assigned to a user within a workspace or a project.
// The same label set is used at both scopes, assigned independently.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
	RoleClient Role = "client" // read-only
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleMember, RoleClient:
		return true
	}
	return false
}

// WorkspaceMembership is the (workspace, user) -> role association. Unique per pair.
type WorkspaceMembership struct {
	WorkspaceID string    `json:"workspaceID"`
	UserID      string    `json:"userID"`
	Role        Role      `json:"role"`
	JoinedAt    time.Time `json:"joinedAt"`
}

// RequestContext identifies the caller and the workspace a request is scoped to.
// It is passed explicitly into every core call.
type RequestContext struct {
	UserID      string
	WorkspaceID string
}
