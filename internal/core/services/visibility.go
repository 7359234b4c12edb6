package services

import "github.com/SscSPs/taskboard_app/internal/core/domain"

// VisibilityFilter builds the role-scoped predicates deciding which projects and tasks
// a user may read or mutate. It performs no I/O.
type VisibilityFilter struct {
	// HideTasksFromClients excludes tasks flagged hidden_from_clients from the client scope.
	HideTasksFromClients bool
}

// NewVisibilityFilter returns a filter with client-hidden tasks excluded.
func NewVisibilityFilter() VisibilityFilter {
	return VisibilityFilter{HideTasksFromClients: true}
}

// ProjectsVisibleTo scopes project listings of a workspace by the workspace role.
// Admins and clients see every non-archived project, members only projects they are on the team of.
func (f VisibilityFilter) ProjectsVisibleTo(role *domain.Role, userID, workspaceID string) domain.ProjectScope {
	scope := domain.ProjectScope{Kind: domain.ScopeNone, WorkspaceID: workspaceID, UserID: userID}
	if role == nil {
		return scope
	}
	switch *role {
	case domain.RoleAdmin, domain.RoleClient:
		scope.Kind = domain.ScopeAll
	case domain.RoleMember:
		scope.Kind = domain.ScopeMember
	}
	return scope
}

// TasksVisibleTo scopes the tasks of one project by the caller's effective project role.
func (f VisibilityFilter) TasksVisibleTo(access domain.ProjectAccess) domain.TaskScope {
	scope := domain.TaskScope{Kind: domain.ScopeNone, ProjectID: access.ProjectID, UserID: access.UserID}
	if access.Role == nil || access.UserID == "" {
		return scope
	}
	switch *access.Role {
	case domain.RoleAdmin:
		scope.Kind = domain.ScopeAll
	case domain.RoleClient:
		scope.Kind = domain.ScopeAll
		scope.ExcludeHiddenToClient = f.HideTasksFromClients
	case domain.RoleMember:
		scope.Kind = domain.ScopeMember
		scope.IncludeUnassigned = access.OnTeam
	}
	return scope
}

// CanMutateTask: admins always, members only for tasks visible to them, clients never.
func (f VisibilityFilter) CanMutateTask(access domain.ProjectAccess, task domain.Task) bool {
	if access.Role == nil || task.ProjectID != access.ProjectID {
		return false
	}
	switch *access.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleMember:
		return f.TasksVisibleTo(access).Matches(task)
	default:
		return false
	}
}

// CanReassignTask gates changes of assigned_to_user_id separately from general mutation.
func (f VisibilityFilter) CanReassignTask(access domain.ProjectAccess) bool {
	return access.Is(domain.RoleAdmin)
}

// CanManageBoard gates column management and task creation: clients are read-only.
func (f VisibilityFilter) CanManageBoard(access domain.ProjectAccess) bool {
	return access.Is(domain.RoleAdmin) || access.Is(domain.RoleMember)
}
