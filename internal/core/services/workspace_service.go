package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/SscSPs/taskboard_app/internal/apperrors"
	"github.com/SscSPs/taskboard_app/internal/core/domain"
	portsrepo "github.com/SscSPs/taskboard_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/taskboard_app/internal/core/ports/services"
	"github.com/google/uuid"
)

// workspaceService implements the WorkspaceSvcFacade interface
type workspaceService struct {
	BaseService
	workspaceRepo portsrepo.WorkspaceRepositoryFacade
}

// NewWorkspaceService creates a new workspace service with the provided dependencies
func NewWorkspaceService(workspaceRepo portsrepo.WorkspaceRepositoryFacade, opts ...ServiceOption) portssvc.WorkspaceSvcFacade {
	return &workspaceService{
		BaseService:   newBaseService(opts),
		workspaceRepo: workspaceRepo,
	}
}

// Ensure workspaceService implements the WorkspaceSvcFacade interface
var _ portssvc.WorkspaceSvcFacade = (*workspaceService)(nil)

// FindWorkspaceByID retrieves the request's workspace if the caller belongs to it
func (s *workspaceService) FindWorkspaceByID(ctx context.Context, rc domain.RequestContext) (*domain.Workspace, error) {
	if err := s.AuthorizeUserAction(ctx, rc.UserID, rc.WorkspaceID); err != nil {
		return nil, err
	}

	workspace, err := s.workspaceRepo.FindWorkspaceByID(ctx, rc.WorkspaceID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find workspace by ID",
				slog.String("workspace_id", rc.WorkspaceID))
		}
		return nil, err
	}

	s.LogDebug(ctx, "Workspace retrieved successfully",
		slog.String("workspace_id", workspace.WorkspaceID))
	return workspace, nil
}

// ListUserWorkspaces retrieves all workspaces a user belongs to
func (s *workspaceService) ListUserWorkspaces(ctx context.Context, userID string) ([]domain.Workspace, error) {
	workspaces, err := s.workspaceRepo.ListWorkspacesByUserID(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list workspaces for user",
			slog.String("user_id", userID))
		return nil, err
	}

	if workspaces == nil {
		return []domain.Workspace{}, nil
	}

	s.LogDebug(ctx, "Workspaces listed successfully",
		slog.Int("count", len(workspaces)),
		slog.String("user_id", userID))
	return workspaces, nil
}

// ListWorkspaceMembers retrieves all members of the request's workspace
func (s *workspaceService) ListWorkspaceMembers(ctx context.Context, rc domain.RequestContext) ([]domain.WorkspaceMembership, error) {
	if err := s.AuthorizeUserAction(ctx, rc.UserID, rc.WorkspaceID); err != nil {
		return nil, err
	}

	members, err := s.workspaceRepo.ListWorkspaceMemberships(ctx, rc.WorkspaceID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list workspace members",
			slog.String("workspace_id", rc.WorkspaceID))
		return nil, err
	}
	if members == nil {
		return []domain.WorkspaceMembership{}, nil
	}
	return members, nil
}

// CreateWorkspace creates a new workspace with its creator as admin
func (s *workspaceService) CreateWorkspace(ctx context.Context, name, description, creatorUserID string) (*domain.Workspace, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("name", "must not be empty")
	}

	now := s.now()
	workspace := domain.Workspace{
		WorkspaceID: uuid.NewString(),
		Name:        name,
		Description: description,
		AuditFields: domain.NewAuditFields(creatorUserID, now),
	}
	creator := domain.WorkspaceMembership{
		WorkspaceID: workspace.WorkspaceID,
		UserID:      creatorUserID,
		Role:        domain.RoleAdmin,
		JoinedAt:    now,
	}

	if err := s.workspaceRepo.SaveWorkspace(ctx, workspace, creator); err != nil {
		s.LogError(ctx, err, "Failed to save workspace",
			slog.String("workspace_id", workspace.WorkspaceID))
		return nil, err
	}

	s.LogInfo(ctx, "Workspace created successfully",
		slog.String("workspace_id", workspace.WorkspaceID),
		slog.String("creator_id", creatorUserID))
	return &workspace, nil
}

// AddUserToWorkspace adds a user to the workspace, or changes their role
func (s *workspaceService) AddUserToWorkspace(ctx context.Context, rc domain.RequestContext, targetUserID string, role domain.Role) error {
	if err := s.AuthorizeUserAction(ctx, rc.UserID, rc.WorkspaceID, domain.RoleAdmin); err != nil {
		s.LogWarn(ctx, "User not authorized to add members to workspace",
			slog.String("adding_user_id", rc.UserID),
			slog.String("workspace_id", rc.WorkspaceID))
		return err
	}
	if strings.TrimSpace(targetUserID) == "" {
		return apperrors.NewValidationError("userID", "must not be empty")
	}
	if !role.Valid() {
		return apperrors.NewValidationError("role", "must be one of admin, member, client")
	}
	if targetUserID == rc.UserID && role != domain.RoleAdmin {
		if err := s.ensureAnotherAdmin(ctx, rc); err != nil {
			return err
		}
	}

	membership := domain.WorkspaceMembership{
		WorkspaceID: rc.WorkspaceID,
		UserID:      targetUserID,
		Role:        role,
		JoinedAt:    s.now(),
	}
	if err := s.workspaceRepo.UpsertWorkspaceMembership(ctx, membership); err != nil {
		s.LogError(ctx, err, "Failed to add user to workspace",
			slog.String("target_user_id", targetUserID),
			slog.String("workspace_id", rc.WorkspaceID))
		return err
	}

	s.LogInfo(ctx, "User added to workspace successfully",
		slog.String("target_user_id", targetUserID),
		slog.String("workspace_id", rc.WorkspaceID),
		slog.String("role", string(role)))
	return nil
}

// RemoveUserFromWorkspace removes a user from the workspace
func (s *workspaceService) RemoveUserFromWorkspace(ctx context.Context, rc domain.RequestContext, targetUserID string) error {
	if err := s.AuthorizeUserAction(ctx, rc.UserID, rc.WorkspaceID, domain.RoleAdmin); err != nil {
		s.LogWarn(ctx, "User not authorized to remove members from workspace",
			slog.String("removing_user_id", rc.UserID),
			slog.String("workspace_id", rc.WorkspaceID))
		return err
	}
	if targetUserID == rc.UserID {
		if err := s.ensureAnotherAdmin(ctx, rc); err != nil {
			return err
		}
	}

	if err := s.workspaceRepo.DeleteWorkspaceMembership(ctx, targetUserID, rc.WorkspaceID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to remove user from workspace",
				slog.String("target_user_id", targetUserID),
				slog.String("workspace_id", rc.WorkspaceID))
		}
		return err
	}

	s.LogInfo(ctx, "User removed from workspace",
		slog.String("target_user_id", targetUserID),
		slog.String("workspace_id", rc.WorkspaceID))
	return nil
}

// ensureAnotherAdmin keeps a workspace from losing its last admin.
func (s *workspaceService) ensureAnotherAdmin(ctx context.Context, rc domain.RequestContext) error {
	members, err := s.workspaceRepo.ListWorkspaceMemberships(ctx, rc.WorkspaceID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list workspace members",
			slog.String("workspace_id", rc.WorkspaceID))
		return err
	}
	for _, m := range members {
		if m.UserID != rc.UserID && m.Role == domain.RoleAdmin {
			return nil
		}
	}
	return apperrors.NewValidationError("userID", "workspace must keep at least one admin", rc.UserID)
}

// AuthorizeUserAction checks that a user belongs to a workspace and, when allowed roles
// are given, holds one of them
func (s *workspaceService) AuthorizeUserAction(ctx context.Context, userID, workspaceID string, allowed ...domain.Role) error {
	membership, err := s.workspaceRepo.FindWorkspaceMembership(ctx, userID, workspaceID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogDebug(ctx, "User not a member of workspace",
				slog.String("user_id", userID),
				slog.String("workspace_id", workspaceID))
			return apperrors.NewForbiddenError("not a member of this workspace")
		}
		s.LogError(ctx, err, "Failed to find user workspace role",
			slog.String("user_id", userID),
			slog.String("workspace_id", workspaceID))
		return err
	}

	if !hasAllowedRole(membership.Role, allowed) {
		s.LogDebug(ctx, "User does not have required role",
			slog.String("user_id", userID),
			slog.String("workspace_id", workspaceID),
			slog.String("user_role", string(membership.Role)))
		return apperrors.NewForbiddenError("insufficient role for this action")
	}

	return nil
}

// hasAllowedRole reports whether role is in allowed; an empty list allows any role.
func hasAllowedRole(role domain.Role, allowed []domain.Role) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
