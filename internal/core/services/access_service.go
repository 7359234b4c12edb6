package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/SscSPs/taskboard_app/internal/apperrors"
	"github.com/SscSPs/taskboard_app/internal/core/domain"
	portsrepo "github.com/SscSPs/taskboard_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/taskboard_app/internal/core/ports/services"
)

// accessService resolves workspace and project roles from the membership stores.
type accessService struct {
	BaseService
	workspaceMembers portsrepo.WorkspaceMembershipStore
	projects         portsrepo.ProjectReader
	projectMembers   portsrepo.ProjectMembershipStore
}

// NewAccessService creates the AccessScope resolver
func NewAccessService(
	workspaceMembers portsrepo.WorkspaceMembershipStore,
	projects portsrepo.ProjectReader,
	projectMembers portsrepo.ProjectMembershipStore,
	opts ...ServiceOption,
) portssvc.AccessScopeSvc {
	return &accessService{
		BaseService:      newBaseService(opts),
		workspaceMembers: workspaceMembers,
		projects:         projects,
		projectMembers:   projectMembers,
	}
}

var _ portssvc.AccessScopeSvc = (*accessService)(nil)

func (s *accessService) ResolveWorkspaceRole(ctx context.Context, userID, workspaceID string) (*domain.Role, error) {
	if userID == "" || workspaceID == "" {
		return nil, nil
	}
	membership, err := s.workspaceMembers.FindWorkspaceMembership(ctx, userID, workspaceID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		s.LogError(ctx, err, "Failed to resolve workspace role",
			slog.String("user_id", userID),
			slog.String("workspace_id", workspaceID))
		return nil, err
	}
	role := membership.Role
	return &role, nil
}

func (s *accessService) ResolveProjectRole(ctx context.Context, userID, projectID string) (*domain.Role, error) {
	if userID == "" || projectID == "" {
		return nil, nil
	}
	membership, err := s.projectMembers.FindProjectMembership(ctx, userID, projectID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		s.LogError(ctx, err, "Failed to resolve project role",
			slog.String("user_id", userID),
			slog.String("project_id", projectID))
		return nil, err
	}
	role := membership.Role
	return &role, nil
}

// ResolveProjectAccess returns ErrNotFound for projects outside rc.WorkspaceID and for archived
// projects. A caller without a workspace role gets a zero ProjectAccess, not an error.
func (s *accessService) ResolveProjectAccess(ctx context.Context, rc domain.RequestContext, projectID string) (*domain.Project, domain.ProjectAccess, error) {
	access := domain.ProjectAccess{UserID: rc.UserID, ProjectID: projectID}

	project, err := s.projects.FindProjectByID(ctx, projectID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to load project for access check",
				slog.String("project_id", projectID))
		}
		return nil, access, err
	}
	if project.WorkspaceID != rc.WorkspaceID || project.State.IsArchived() {
		return nil, access, apperrors.NewNotFoundError("project not found")
	}

	workspaceRole, err := s.ResolveWorkspaceRole(ctx, rc.UserID, rc.WorkspaceID)
	if err != nil {
		return nil, access, err
	}
	projectRole, err := s.ResolveProjectRole(ctx, rc.UserID, projectID)
	if err != nil {
		return nil, access, err
	}

	access.OnTeam = projectRole != nil
	access.Role = EffectiveProjectRole(workspaceRole, projectRole)
	return project, access, nil
}

// EffectiveProjectRole reconciles the two membership scopes. Workspace membership is required;
// a workspace admin is admin everywhere; otherwise a project role overrides the workspace role.
func EffectiveProjectRole(workspaceRole, projectRole *domain.Role) *domain.Role {
	if workspaceRole == nil {
		return nil
	}
	if *workspaceRole == domain.RoleAdmin || projectRole == nil {
		r := *workspaceRole
		return &r
	}
	r := *projectRole
	return &r
}
