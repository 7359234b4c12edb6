package services_test

import (
	"testing"

	"github.com/SscSPs/taskboard_app/internal/core/domain"
	"github.com/SscSPs/taskboard_app/internal/core/services"
	"github.com/stretchr/testify/assert"
)

func TestVisibilityFilter_ProjectsVisibleTo(t *testing.T) {
	f := services.NewVisibilityFilter()

	assert.Equal(t, domain.ScopeAll, f.ProjectsVisibleTo(rolePtr(domain.RoleAdmin), "u", "w").Kind)
	assert.Equal(t, domain.ScopeAll, f.ProjectsVisibleTo(rolePtr(domain.RoleClient), "u", "w").Kind)
	assert.Equal(t, domain.ScopeMember, f.ProjectsVisibleTo(rolePtr(domain.RoleMember), "u", "w").Kind)
	assert.Equal(t, domain.ScopeNone, f.ProjectsVisibleTo(nil, "u", "w").Kind)

	member := f.ProjectsVisibleTo(rolePtr(domain.RoleMember), "u", "w")
	p := domain.Project{ProjectID: "p", WorkspaceID: "w"}
	assert.True(t, member.Matches(p, true))
	assert.False(t, member.Matches(p, false))
	assert.False(t, member.Matches(domain.Project{WorkspaceID: "other"}, true))
}

func TestVisibilityFilter_TaskPredicates(t *testing.T) {
	f := services.NewVisibilityFilter()
	u, v := "user-u", "user-v"
	unassigned := domain.Task{ProjectID: "p", CreatedByUserID: v}
	mine := domain.Task{ProjectID: "p", CreatedByUserID: v, AssignedToUserID: &u}
	theirs := domain.Task{ProjectID: "p", CreatedByUserID: v, AssignedToUserID: &v}

	access := func(r *domain.Role, onTeam bool) domain.ProjectAccess {
		return domain.ProjectAccess{UserID: u, ProjectID: "p", Role: r, OnTeam: onTeam}
	}
	admin := access(rolePtr(domain.RoleAdmin), false)
	memberOnTeam := access(rolePtr(domain.RoleMember), true)
	memberOffTeam := access(rolePtr(domain.RoleMember), false)
	client := access(rolePtr(domain.RoleClient), true)
	none := access(nil, false)

	assert.True(t, f.TasksVisibleTo(admin).Matches(theirs))
	assert.True(t, f.TasksVisibleTo(client).Matches(theirs))
	assert.True(t, f.TasksVisibleTo(memberOnTeam).Matches(unassigned))
	assert.False(t, f.TasksVisibleTo(memberOffTeam).Matches(unassigned))
	assert.True(t, f.TasksVisibleTo(memberOffTeam).Matches(mine))
	assert.True(t, f.TasksVisibleTo(none).IsEmpty())

	assert.True(t, f.CanMutateTask(admin, theirs))
	assert.True(t, f.CanMutateTask(memberOffTeam, mine))
	assert.False(t, f.CanMutateTask(memberOnTeam, theirs))
	assert.False(t, f.CanMutateTask(client, mine))
	assert.False(t, f.CanMutateTask(none, mine))

	assert.True(t, f.CanReassignTask(admin))
	assert.False(t, f.CanReassignTask(memberOnTeam))
	assert.False(t, f.CanReassignTask(client))
}

func TestVisibilityFilter_HiddenFromClients(t *testing.T) {
	hidden := domain.Task{ProjectID: "p", HiddenFromClients: true}
	client := domain.ProjectAccess{UserID: "u", ProjectID: "p", Role: rolePtr(domain.RoleClient)}

	assert.False(t, services.NewVisibilityFilter().TasksVisibleTo(client).Matches(hidden))
	assert.True(t, services.VisibilityFilter{HideTasksFromClients: false}.TasksVisibleTo(client).Matches(hidden))
}
