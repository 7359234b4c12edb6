// Package memory is an in-process implementation of the repository ports. Transactions
// are serialized behind one lock and rolled back by restoring a snapshot.
package memory

import (
	"context"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/taskboard_app/internal/apperrors"
	"github.com/SscSPs/taskboard_app/internal/core/domain"
	portsrepo "github.com/SscSPs/taskboard_app/internal/core/ports/repositories"
)

type membershipKey struct {
	scopeID string
	userID  string
}

// Store holds every table in maps keyed by primary key.
type Store struct {
	mu sync.RWMutex

	workspaces        map[string]domain.Workspace
	workspaceMembers  map[membershipKey]domain.WorkspaceMembership
	projects          map[string]domain.Project
	projectMembers    map[membershipKey]domain.ProjectMembership
	groups            map[string]domain.TaskGroup
	tasks             map[string]domain.Task
	committedTxCount  int
	rolledBackTxCount int
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		workspaces:       map[string]domain.Workspace{},
		workspaceMembers: map[membershipKey]domain.WorkspaceMembership{},
		projects:         map[string]domain.Project{},
		projectMembers:   map[membershipKey]domain.ProjectMembership{},
		groups:           map[string]domain.TaskGroup{},
		tasks:            map[string]domain.Task{},
	}
}

// NewRepositoryProvider wires one store behind every repository port.
func NewRepositoryProvider(store *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		WorkspaceRepo: store,
		ProjectRepo:   store,
		BoardRepo:     store,
	}
}

var (
	_ portsrepo.WorkspaceRepositoryFacade = (*Store)(nil)
	_ portsrepo.ProjectRepositoryFacade   = (*Store)(nil)
	_ portsrepo.BoardRepositoryFacade     = (*Store)(nil)
)

type snapshot struct {
	projects       map[string]domain.Project
	projectMembers map[membershipKey]domain.ProjectMembership
	groups         map[string]domain.TaskGroup
	tasks          map[string]domain.Task
}

// RunInTx holds the write lock for the whole of fn, which makes every transaction serializable.
// Any error from fn restores the tables to their state before the call.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.BoardTx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	before := snapshot{
		projects:       maps.Clone(s.projects),
		projectMembers: maps.Clone(s.projectMembers),
		groups:         maps.Clone(s.groups),
		tasks:          maps.Clone(s.tasks),
	}

	if err := fn(ctx, &boardTx{s: s}); err != nil {
		s.projects = before.projects
		s.projectMembers = before.projectMembers
		s.groups = before.groups
		s.tasks = before.tasks
		s.rolledBackTxCount++
		return err
	}
	s.committedTxCount++
	return nil
}

// TxCounts reports how many transactions committed and rolled back.
func (s *Store) TxCounts() (committed, rolledBack int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.committedTxCount, s.rolledBackTxCount
}

// Workspaces

func (s *Store) FindWorkspaceByID(_ context.Context, workspaceID string) (*domain.Workspace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ws, ok := s.workspaces[workspaceID]
	if !ok {
		return nil, apperrors.NewNotFoundError("workspace not found")
	}
	return &ws, nil
}

func (s *Store) ListWorkspacesByUserID(_ context.Context, userID string) ([]domain.Workspace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Workspace
	for key := range s.workspaceMembers {
		if key.userID != userID {
			continue
		}
		if ws, ok := s.workspaces[key.scopeID]; ok {
			out = append(out, ws)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) SaveWorkspace(_ context.Context, workspace domain.Workspace, creator domain.WorkspaceMembership) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.workspaces[workspace.WorkspaceID]; exists {
		return apperrors.NewConflictError("workspace ID " + workspace.WorkspaceID + " already exists")
	}
	s.workspaces[workspace.WorkspaceID] = workspace
	s.workspaceMembers[membershipKey{workspace.WorkspaceID, creator.UserID}] = creator
	return nil
}

func (s *Store) UpsertWorkspaceMembership(_ context.Context, membership domain.WorkspaceMembership) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.workspaces[membership.WorkspaceID]; !ok {
		return apperrors.NewNotFoundError("workspace not found")
	}
	key := membershipKey{membership.WorkspaceID, membership.UserID}
	if existing, ok := s.workspaceMembers[key]; ok {
		membership.JoinedAt = existing.JoinedAt
	}
	s.workspaceMembers[key] = membership
	return nil
}

func (s *Store) FindWorkspaceMembership(_ context.Context, userID, workspaceID string) (*domain.WorkspaceMembership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.workspaceMembers[membershipKey{workspaceID, userID}]
	if !ok {
		return nil, apperrors.NewNotFoundError("workspace membership not found")
	}
	return &m, nil
}

// DeleteWorkspaceMembership also drops the user's project memberships in that workspace.
func (s *Store) DeleteWorkspaceMembership(_ context.Context, userID, workspaceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := membershipKey{workspaceID, userID}
	if _, ok := s.workspaceMembers[key]; !ok {
		return apperrors.NewNotFoundError("workspace membership not found")
	}
	delete(s.workspaceMembers, key)
	for k := range s.projectMembers {
		if k.userID == userID && s.projects[k.scopeID].WorkspaceID == workspaceID {
			delete(s.projectMembers, k)
		}
	}
	return nil
}

func (s *Store) ListWorkspaceMemberships(_ context.Context, workspaceID string) ([]domain.WorkspaceMembership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.WorkspaceMembership
	for key, m := range s.workspaceMembers {
		if key.scopeID == workspaceID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].JoinedAt.Equal(out[j].JoinedAt) {
			return out[i].JoinedAt.Before(out[j].JoinedAt)
		}
		return out[i].UserID < out[j].UserID
	})
	return out, nil
}

// Projects

func (s *Store) FindProjectByID(_ context.Context, projectID string) (*domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.projects[projectID]
	if !ok {
		return nil, apperrors.NewNotFoundError("project not found")
	}
	return &p, nil
}

func (s *Store) ListProjects(_ context.Context, scope domain.ProjectScope) ([]domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Project
	for _, p := range s.projects {
		_, onTeam := s.projectMembers[membershipKey{p.ProjectID, scope.UserID}]
		if scope.Matches(p, onTeam) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) UpdateProject(_ context.Context, project domain.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.projects[project.ProjectID]
	if !ok {
		return apperrors.NewNotFoundError("project not found")
	}
	project.State = existing.State
	project.AuditFields.CreatedAt = existing.CreatedAt
	project.AuditFields.CreatedBy = existing.CreatedBy
	s.projects[project.ProjectID] = project
	return nil
}

func (s *Store) SetProjectArchivedAt(_ context.Context, projectID string, archivedAt *time.Time, userID string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[projectID]
	if !ok {
		return apperrors.NewNotFoundError("project not found")
	}
	p.State = domain.ArchiveStateFrom(archivedAt)
	p.Touch(userID, now)
	s.projects[projectID] = p
	return nil
}

func (s *Store) UpsertProjectMembership(_ context.Context, membership domain.ProjectMembership) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upsertProjectMembership(membership)
}

func (s *Store) upsertProjectMembership(membership domain.ProjectMembership) error {
	if _, ok := s.projects[membership.ProjectID]; !ok {
		return apperrors.NewNotFoundError("project not found")
	}
	key := membershipKey{membership.ProjectID, membership.UserID}
	if existing, ok := s.projectMembers[key]; ok {
		membership.JoinedAt = existing.JoinedAt
	}
	s.projectMembers[key] = membership
	return nil
}

func (s *Store) FindProjectMembership(_ context.Context, userID, projectID string) (*domain.ProjectMembership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.projectMembers[membershipKey{projectID, userID}]
	if !ok {
		return nil, apperrors.NewNotFoundError("project membership not found")
	}
	return &m, nil
}

func (s *Store) DeleteProjectMembership(_ context.Context, userID, projectID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := membershipKey{projectID, userID}
	if _, ok := s.projectMembers[key]; !ok {
		return apperrors.NewNotFoundError("project membership not found")
	}
	delete(s.projectMembers, key)
	return nil
}

func (s *Store) ListProjectMemberships(_ context.Context, projectID string) ([]domain.ProjectMembership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.ProjectMembership
	for key, m := range s.projectMembers {
		if key.scopeID == projectID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

// Board reads

func (s *Store) FindGroupByID(_ context.Context, groupID string) (*domain.TaskGroup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.groups[groupID]
	if !ok {
		return nil, apperrors.NewNotFoundError("task group not found")
	}
	return &g, nil
}

func (s *Store) ListGroupsByProject(_ context.Context, projectID string, includeArchived bool) ([]domain.TaskGroup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.TaskGroup
	for _, g := range s.groupsOf(projectID) {
		if includeArchived || g.State.IsActive() {
			out = append(out, g)
		}
	}
	return out, nil
}

func (s *Store) FindTaskByID(_ context.Context, taskID string) (*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[taskID]
	if !ok {
		return nil, apperrors.NewNotFoundError("task not found")
	}
	return &t, nil
}

// ListTasks orders by group position, then order_column; tasks without a group come last.
func (s *Store) ListTasks(_ context.Context, scope domain.TaskScope, filter portsrepo.TaskFilter) ([]domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Task
	for _, t := range s.tasks {
		if filter.GroupID != nil && (t.GroupID == nil || *t.GroupID != *filter.GroupID) {
			continue
		}
		if !scope.Matches(t) {
			archivedButAllowed := filter.IncludeArchived && scope.Kind == domain.ScopeAll &&
				t.ProjectID == scope.ProjectID && t.State.IsArchived() &&
				!(scope.ExcludeHiddenToClient && t.HiddenFromClients)
			if !archivedButAllowed {
				continue
			}
		}
		out = append(out, t)
	}

	groupPosition := func(t domain.Task) int {
		if t.GroupID == nil {
			return int(^uint(0) >> 1)
		}
		return s.groups[*t.GroupID].Position
	}
	sort.Slice(out, func(i, j int) bool {
		pi, pj := groupPosition(out[i]), groupPosition(out[j])
		if pi != pj {
			return pi < pj
		}
		if out[i].OrderColumn != out[j].OrderColumn {
			return out[i].OrderColumn < out[j].OrderColumn
		}
		return out[i].TaskID < out[j].TaskID
	})
	return out, nil
}

// groupsOf returns the groups of a project ordered by position. Callers hold the lock.
func (s *Store) groupsOf(projectID string) []domain.TaskGroup {
	var out []domain.TaskGroup
	for _, g := range s.groups {
		if g.ProjectID == projectID {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}
