package services

import (
	"context"

	"github.com/SscSPs/taskboard_app/internal/core/domain"
)

// WorkspaceReaderSvc defines read operations for workspace data
type WorkspaceReaderSvc interface {
	// FindWorkspaceByID retrieves a workspace the requesting user belongs to.
	FindWorkspaceByID(ctx context.Context, rc domain.RequestContext) (*domain.Workspace, error)

	// ListUserWorkspaces retrieves the workspaces a user belongs to.
	ListUserWorkspaces(ctx context.Context, userID string) ([]domain.Workspace, error)

	// ListWorkspaceMembers retrieves all members of the request's workspace.
	ListWorkspaceMembers(ctx context.Context, rc domain.RequestContext) ([]domain.WorkspaceMembership, error)
}

// WorkspaceWriterSvc defines write operations for workspace data
type WorkspaceWriterSvc interface {
	// CreateWorkspace persists a new workspace and makes the creator its admin.
	CreateWorkspace(ctx context.Context, name, description, creatorUserID string) (*domain.Workspace, error)
}

// WorkspaceMembershipSvc defines operations for managing workspace membership
type WorkspaceMembershipSvc interface {
	// AddUserToWorkspace adds a user to a workspace, or changes their role. Admin only.
	AddUserToWorkspace(ctx context.Context, rc domain.RequestContext, targetUserID string, role domain.Role) error

	// RemoveUserFromWorkspace removes a user from a workspace. Admin only.
	RemoveUserFromWorkspace(ctx context.Context, rc domain.RequestContext, targetUserID string) error
}

// WorkspaceAuthorizerSvc defines operations for workspace authorization
type WorkspaceAuthorizerSvc interface {
	// AuthorizeUserAction checks that a user holds one of the allowed roles in a workspace.
	AuthorizeUserAction(ctx context.Context, userID, workspaceID string, allowed ...domain.Role) error
}

// WorkspaceSvcFacade combines all workspace-related service interfaces
type WorkspaceSvcFacade interface {
	WorkspaceReaderSvc
	WorkspaceWriterSvc
	WorkspaceMembershipSvc
	WorkspaceAuthorizerSvc
}
