package services_test

import (
	"context"
	"sort"
	"testing"

	"github.com/SscSPs/taskboard_app/internal/adapters/events"
	"github.com/SscSPs/taskboard_app/internal/core/domain"
	portssvc "github.com/SscSPs/taskboard_app/internal/core/ports/services"
	"github.com/SscSPs/taskboard_app/internal/core/services"
	"github.com/SscSPs/taskboard_app/internal/platform/config"
	"github.com/SscSPs/taskboard_app/internal/repositories/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// boardFixture is a workspace with one user per role and a freshly created project.
// Only the admin is on the project team.
type boardFixture struct {
	t        *testing.T
	ctx      context.Context
	store    *memory.Store
	recorder *events.Recorder
	svc      *portssvc.ServiceContainer

	workspaceID string
	admin       string
	member      string
	client      string
	outsider    string

	project domain.Project
	todo    domain.TaskGroup
	doing   domain.TaskGroup
	done    domain.TaskGroup
}

func newBoardFixture(t *testing.T) *boardFixture {
	t.Helper()

	f := &boardFixture{
		t:        t,
		ctx:      context.Background(),
		store:    memory.NewStore(),
		recorder: &events.Recorder{},
		admin:    uuid.NewString(),
		member:   uuid.NewString(),
		client:   uuid.NewString(),
		outsider: uuid.NewString(),
	}
	cfg := &config.Config{BoardWriteRetries: 3, HideTasksFromClients: true}
	f.svc = services.NewServiceContainer(cfg, memory.NewRepositoryProvider(f.store), f.recorder)

	ws, err := f.svc.Workspace.CreateWorkspace(f.ctx, "Acme", "", f.admin)
	require.NoError(t, err)
	f.workspaceID = ws.WorkspaceID

	require.NoError(t, f.svc.Workspace.AddUserToWorkspace(f.ctx, f.rc(f.admin), f.member, domain.RoleMember))
	require.NoError(t, f.svc.Workspace.AddUserToWorkspace(f.ctx, f.rc(f.admin), f.client, domain.RoleClient))

	f.project = f.createProject("Website", portssvc.CreateProjectInput{})
	groups, err := f.svc.TaskGroup.ListGroups(f.ctx, f.rc(f.admin), f.project.ProjectID, false)
	require.NoError(t, err)
	require.Len(t, groups, 3)
	f.todo, f.doing, f.done = groups[0], groups[1], groups[2]
	return f
}

func (f *boardFixture) rc(userID string) domain.RequestContext {
	return domain.RequestContext{UserID: userID, WorkspaceID: f.workspaceID}
}

func (f *boardFixture) createProject(name string, in portssvc.CreateProjectInput) domain.Project {
	f.t.Helper()
	in.Name = name
	project, _, err := f.svc.Project.CreateProject(f.ctx, f.rc(f.admin), in)
	require.NoError(f.t, err)
	return *project
}

func (f *boardFixture) addToTeam(userID string, role domain.Role) {
	f.t.Helper()
	require.NoError(f.t, f.svc.Project.AddProjectMember(f.ctx, f.rc(f.admin), f.project.ProjectID, userID, role))
}

// createTask creates a task as userID, optionally in a group and assigned to someone.
func (f *boardFixture) createTask(userID, name string, groupID, assignee *string) domain.Task {
	f.t.Helper()
	task, err := f.svc.Task.CreateTask(f.ctx, f.rc(userID), f.project.ProjectID, portssvc.CreateTaskInput{
		Name:             name,
		GroupID:          groupID,
		AssignedToUserID: assignee,
	})
	require.NoError(f.t, err)
	return *task
}

func (f *boardFixture) groups() []domain.TaskGroup {
	f.t.Helper()
	groups, err := f.svc.TaskGroup.ListGroups(f.ctx, f.rc(f.admin), f.project.ProjectID, true)
	require.NoError(f.t, err)
	return groups
}

func (f *boardFixture) task(taskID string) domain.Task {
	f.t.Helper()
	task, err := f.store.FindTaskByID(f.ctx, taskID)
	require.NoError(f.t, err)
	return *task
}

// positionsByName maps group name to position.
func positionsByName(groups []domain.TaskGroup) map[string]int {
	out := make(map[string]int, len(groups))
	for _, g := range groups {
		out[g.Name] = g.Position
	}
	return out
}

func sortedIDs(ids ...string) []string {
	out := append([]string(nil), ids...)
	sort.Strings(out)
	return out
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }
