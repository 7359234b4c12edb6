package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/taskboard_app/internal/apperrors"
	"github.com/SscSPs/taskboard_app/internal/core/domain"
	portsrepo "github.com/SscSPs/taskboard_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/taskboard_app/internal/core/ports/services"
	"github.com/google/uuid"
)

const maxProjectNameLength = 255

// projectService implements the ProjectSvcFacade interface
type projectService struct {
	BaseService
	projectRepo portsrepo.ProjectRepositoryFacade
	boardRepo   portsrepo.TxRunner
	access      portssvc.AccessScopeSvc
	filter      VisibilityFilter
}

// NewProjectService creates a new project service with the provided dependencies
func NewProjectService(
	projectRepo portsrepo.ProjectRepositoryFacade,
	boardRepo portsrepo.TxRunner,
	access portssvc.AccessScopeSvc,
	filter VisibilityFilter,
	opts ...ServiceOption,
) portssvc.ProjectSvcFacade {
	return &projectService{
		BaseService: newBaseService(opts),
		projectRepo: projectRepo,
		boardRepo:   boardRepo,
		access:      access,
		filter:      filter,
	}
}

var _ portssvc.ProjectSvcFacade = (*projectService)(nil)

// CreateProject persists the project, puts the creator on its team and seeds the system
// groups, all in one transaction
func (s *projectService) CreateProject(ctx context.Context, rc domain.RequestContext, in portssvc.CreateProjectInput) (*domain.Project, []domain.TaskGroup, error) {
	name, err := validateProjectName(in.Name)
	if err != nil {
		return nil, nil, err
	}
	if in.Budget != nil && in.Budget.IsNegative() {
		return nil, nil, apperrors.NewValidationError("budget", "must not be negative")
	}

	role, err := s.access.ResolveWorkspaceRole(ctx, rc.UserID, rc.WorkspaceID)
	if err != nil {
		return nil, nil, err
	}
	if role == nil || (*role != domain.RoleAdmin && *role != domain.RoleMember) {
		s.LogWarn(ctx, "Project creation denied",
			slog.String("user_id", rc.UserID),
			slog.String("workspace_id", rc.WorkspaceID))
		return nil, nil, apperrors.NewForbiddenError("insufficient role to create projects")
	}

	now := s.now()
	project := domain.Project{
		ProjectID:   uuid.NewString(),
		WorkspaceID: rc.WorkspaceID,
		Name:        name,
		Description: in.Description,
		DueDate:     in.DueDate,
		Budget:      in.Budget,
		State:       domain.ActiveState(),
		AuditFields: domain.NewAuditFields(rc.UserID, now),
	}
	creator := domain.ProjectMembership{
		ProjectID: project.ProjectID,
		UserID:    rc.UserID,
		Role:      *role,
		JoinedAt:  now,
	}

	var groups []domain.TaskGroup
	err = s.boardRepo.RunInTx(ctx, func(ctx context.Context, tx portsrepo.BoardTx) error {
		if err := tx.InsertProject(ctx, project); err != nil {
			return err
		}
		if err := tx.InsertProjectMembership(ctx, creator); err != nil {
			return err
		}
		seeded, err := seedSystemGroups(ctx, tx, project.ProjectID, rc.UserID, now)
		groups = seeded
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create project",
			slog.String("workspace_id", rc.WorkspaceID))
		return nil, nil, err
	}

	s.LogInfo(ctx, "Project created successfully",
		slog.String("project_id", project.ProjectID),
		slog.String("workspace_id", rc.WorkspaceID))
	s.publish(ctx, domain.BoardEvent{
		Type:        domain.EventProjectCreated,
		WorkspaceID: rc.WorkspaceID,
		ProjectID:   project.ProjectID,
		ActorUserID: rc.UserID,
		SubjectID:   project.ProjectID,
		Properties:  map[string]any{"name": project.Name},
	})
	return &project, groups, nil
}

// GetProject returns a project the caller may see per the workspace-level project scope
func (s *projectService) GetProject(ctx context.Context, rc domain.RequestContext, projectID string) (*domain.Project, error) {
	project, access, err := s.access.ResolveProjectAccess(ctx, rc, projectID)
	if err != nil {
		return nil, err
	}
	workspaceRole, err := s.access.ResolveWorkspaceRole(ctx, rc.UserID, rc.WorkspaceID)
	if err != nil {
		return nil, err
	}
	if workspaceRole == nil {
		return nil, apperrors.NewForbiddenError("not a member of this workspace")
	}
	scope := s.filter.ProjectsVisibleTo(workspaceRole, rc.UserID, rc.WorkspaceID)
	if !scope.Matches(*project, access.OnTeam) {
		return nil, apperrors.NewNotFoundError("project not found")
	}
	return project, nil
}

// ListProjects returns the non-archived projects of the workspace visible to the caller
func (s *projectService) ListProjects(ctx context.Context, rc domain.RequestContext) ([]domain.Project, error) {
	workspaceRole, err := s.access.ResolveWorkspaceRole(ctx, rc.UserID, rc.WorkspaceID)
	if err != nil {
		return nil, err
	}
	scope := s.filter.ProjectsVisibleTo(workspaceRole, rc.UserID, rc.WorkspaceID)
	if scope.Kind == domain.ScopeNone {
		return []domain.Project{}, nil
	}

	projects, err := s.projectRepo.ListProjects(ctx, scope)
	if err != nil {
		s.LogError(ctx, err, "Failed to list projects",
			slog.String("workspace_id", rc.WorkspaceID))
		return nil, err
	}
	if projects == nil {
		return []domain.Project{}, nil
	}

	s.LogDebug(ctx, "Projects listed successfully",
		slog.String("workspace_id", rc.WorkspaceID),
		slog.String("scope", scope.Kind.String()),
		slog.Int("count", len(projects)))
	return projects, nil
}

// ListProjectMembers returns the team of a project visible to the caller
func (s *projectService) ListProjectMembers(ctx context.Context, rc domain.RequestContext, projectID string) ([]domain.ProjectMembership, error) {
	if _, err := s.GetProject(ctx, rc, projectID); err != nil {
		return nil, err
	}
	members, err := s.projectRepo.ListProjectMemberships(ctx, projectID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list project members",
			slog.String("project_id", projectID))
		return nil, err
	}
	if members == nil {
		return []domain.ProjectMembership{}, nil
	}
	return members, nil
}

// UpdateProject patches a project. Requires the admin role in the project.
func (s *projectService) UpdateProject(ctx context.Context, rc domain.RequestContext, projectID string, in portssvc.UpdateProjectInput) (*domain.Project, error) {
	project, access, err := s.access.ResolveProjectAccess(ctx, rc, projectID)
	if err != nil {
		return nil, err
	}
	if err := requireProjectRole(ctx, &s.BaseService, access, domain.RoleAdmin); err != nil {
		return nil, err
	}

	if in.Name != nil {
		name, err := validateProjectName(*in.Name)
		if err != nil {
			return nil, err
		}
		project.Name = name
	}
	if in.Description != nil {
		project.Description = *in.Description
	}
	switch {
	case in.ClearDue:
		project.DueDate = nil
	case in.DueDate != nil:
		due := *in.DueDate
		project.DueDate = &due
	}
	if in.Budget != nil {
		if in.Budget.IsNegative() {
			return nil, apperrors.NewValidationError("budget", "must not be negative")
		}
		project.Budget = in.Budget
	}
	project.Touch(rc.UserID, s.now())

	if err := s.projectRepo.UpdateProject(ctx, *project); err != nil {
		s.LogError(ctx, err, "Failed to update project",
			slog.String("project_id", projectID))
		return nil, err
	}

	s.LogInfo(ctx, "Project updated successfully",
		slog.String("project_id", projectID))
	return project, nil
}

// ArchiveProject soft-deletes a project. Requires the workspace admin role.
func (s *projectService) ArchiveProject(ctx context.Context, rc domain.RequestContext, projectID string) error {
	return s.setArchived(ctx, rc, projectID, true)
}

// RestoreProject reverses ArchiveProject. Requires the workspace admin role.
func (s *projectService) RestoreProject(ctx context.Context, rc domain.RequestContext, projectID string) error {
	return s.setArchived(ctx, rc, projectID, false)
}

func (s *projectService) setArchived(ctx context.Context, rc domain.RequestContext, projectID string, archive bool) error {
	role, err := s.access.ResolveWorkspaceRole(ctx, rc.UserID, rc.WorkspaceID)
	if err != nil {
		return err
	}
	if role == nil || *role != domain.RoleAdmin {
		s.LogWarn(ctx, "Project archive change denied",
			slog.String("user_id", rc.UserID),
			slog.String("project_id", projectID))
		return apperrors.NewForbiddenError("only workspace admins can archive or restore projects")
	}

	project, err := s.projectRepo.FindProjectByID(ctx, projectID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find project",
				slog.String("project_id", projectID))
		}
		return err
	}
	if project.WorkspaceID != rc.WorkspaceID {
		return apperrors.NewNotFoundError("project not found")
	}

	now := s.now()
	state := project.State.Restore()
	if archive {
		state = project.State.Archive(now)
	}
	if err := s.projectRepo.SetProjectArchivedAt(ctx, projectID, state.ArchivedAt(), rc.UserID, now); err != nil {
		s.LogError(ctx, err, "Failed to change project archive state",
			slog.String("project_id", projectID))
		return err
	}

	s.LogInfo(ctx, "Project archive state changed",
		slog.String("project_id", projectID),
		slog.String("state", state.String()))
	return nil
}

// AddProjectMember puts a workspace member on the project team, or changes their project role
func (s *projectService) AddProjectMember(ctx context.Context, rc domain.RequestContext, projectID, targetUserID string, role domain.Role) error {
	if !role.Valid() {
		return apperrors.NewValidationError("role", "must be one of admin, member, client")
	}
	_, access, err := s.access.ResolveProjectAccess(ctx, rc, projectID)
	if err != nil {
		return err
	}
	if err := requireProjectRole(ctx, &s.BaseService, access, domain.RoleAdmin); err != nil {
		return err
	}

	targetRole, err := s.access.ResolveWorkspaceRole(ctx, targetUserID, rc.WorkspaceID)
	if err != nil {
		return err
	}
	if targetRole == nil {
		return apperrors.NewValidationError("userID", "is not a member of the workspace", targetUserID)
	}

	membership := domain.ProjectMembership{
		ProjectID: projectID,
		UserID:    targetUserID,
		Role:      role,
		JoinedAt:  s.now(),
	}
	if err := s.projectRepo.UpsertProjectMembership(ctx, membership); err != nil {
		s.LogError(ctx, err, "Failed to add project member",
			slog.String("project_id", projectID),
			slog.String("target_user_id", targetUserID))
		return err
	}

	s.LogInfo(ctx, "Project member added",
		slog.String("project_id", projectID),
		slog.String("target_user_id", targetUserID),
		slog.String("role", string(role)))
	return nil
}

// RemoveProjectMember takes a user off the project team
func (s *projectService) RemoveProjectMember(ctx context.Context, rc domain.RequestContext, projectID, targetUserID string) error {
	_, access, err := s.access.ResolveProjectAccess(ctx, rc, projectID)
	if err != nil {
		return err
	}
	if err := requireProjectRole(ctx, &s.BaseService, access, domain.RoleAdmin); err != nil {
		return err
	}

	if err := s.projectRepo.DeleteProjectMembership(ctx, targetUserID, projectID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to remove project member",
				slog.String("project_id", projectID),
				slog.String("target_user_id", targetUserID))
		}
		return err
	}

	s.LogInfo(ctx, "Project member removed",
		slog.String("project_id", projectID),
		slog.String("target_user_id", targetUserID))
	return nil
}

func validateProjectName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperrors.NewValidationError("name", "must not be empty")
	}
	if len(name) > maxProjectNameLength {
		return "", apperrors.NewValidationError("name", fmt.Sprintf("must be at most %d characters", maxProjectNameLength))
	}
	return name, nil
}
