package repositories

import (
	"context"

	"github.com/SscSPs/taskboard_app/internal/core/domain"
)

// WorkspaceReader defines read operations for workspace data
type WorkspaceReader interface {
	// FindWorkspaceByID retrieves a specific workspace by its ID.
	FindWorkspaceByID(ctx context.Context, workspaceID string) (*domain.Workspace, error)

	// ListWorkspacesByUserID retrieves all workspaces a user belongs to.
	ListWorkspacesByUserID(ctx context.Context, userID string) ([]domain.Workspace, error)
}

// WorkspaceWriter defines write operations for workspace data
type WorkspaceWriter interface {
	// SaveWorkspace persists a new workspace together with its creator's admin membership.
	SaveWorkspace(ctx context.Context, workspace domain.Workspace, creator domain.WorkspaceMembership) error
}

// WorkspaceMembershipStore persists the (workspace, user) -> role rows.
type WorkspaceMembershipStore interface {
	// UpsertWorkspaceMembership adds a user to a workspace or changes their role.
	UpsertWorkspaceMembership(ctx context.Context, membership domain.WorkspaceMembership) error

	// FindWorkspaceMembership returns apperrors.ErrNotFound when the user is not a member.
	FindWorkspaceMembership(ctx context.Context, userID, workspaceID string) (*domain.WorkspaceMembership, error)

	// DeleteWorkspaceMembership removes the membership row.
	DeleteWorkspaceMembership(ctx context.Context, userID, workspaceID string) error

	// ListWorkspaceMemberships lists every member of a workspace.
	ListWorkspaceMemberships(ctx context.Context, workspaceID string) ([]domain.WorkspaceMembership, error)
}

// WorkspaceRepositoryFacade combines all workspace-related repository interfaces
type WorkspaceRepositoryFacade interface {
	WorkspaceReader
	WorkspaceWriter
	WorkspaceMembershipStore
}
