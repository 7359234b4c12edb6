package services

import (
	"context"

	"github.com/SscSPs/taskboard_app/internal/core/domain"
)

// AccessScopeSvc resolves the role a user holds at workspace and project scope.
// A missing membership resolves to a nil role, never to an error; errors are
// reserved for storage failures.
type AccessScopeSvc interface {
	// ResolveWorkspaceRole looks up the workspace membership of userID.
	ResolveWorkspaceRole(ctx context.Context, userID, workspaceID string) (*domain.Role, error)

	// ResolveProjectRole looks up the project membership of userID for that project only.
	ResolveProjectRole(ctx context.Context, userID, projectID string) (*domain.Role, error)

	// ResolveProjectAccess loads the project (which must belong to rc.WorkspaceID) and the
	// caller's effective role and team membership within it.
	ResolveProjectAccess(ctx context.Context, rc domain.RequestContext, projectID string) (*domain.Project, domain.ProjectAccess, error)
}
