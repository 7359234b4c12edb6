package services_test

import (
	"testing"

	"github.com/SscSPs/taskboard_app/internal/apperrors"
	"github.com/SscSPs/taskboard_app/internal/core/domain"
	"github.com/SscSPs/taskboard_app/internal/core/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rolePtr(r domain.Role) *domain.Role { return &r }

func TestEffectiveProjectRole(t *testing.T) {
	tests := []struct {
		name          string
		workspaceRole *domain.Role
		projectRole   *domain.Role
		want          *domain.Role
	}{
		{name: "no workspace membership", projectRole: rolePtr(domain.RoleAdmin), want: nil},
		{name: "workspace admin wins", workspaceRole: rolePtr(domain.RoleAdmin), projectRole: rolePtr(domain.RoleClient), want: rolePtr(domain.RoleAdmin)},
		{name: "project role overrides member", workspaceRole: rolePtr(domain.RoleMember), projectRole: rolePtr(domain.RoleClient), want: rolePtr(domain.RoleClient)},
		{name: "project role overrides client", workspaceRole: rolePtr(domain.RoleClient), projectRole: rolePtr(domain.RoleMember), want: rolePtr(domain.RoleMember)},
		{name: "workspace role without project row", workspaceRole: rolePtr(domain.RoleMember), want: rolePtr(domain.RoleMember)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, services.EffectiveProjectRole(tt.workspaceRole, tt.projectRole))
		})
	}
}

func TestAccessService_ResolveRoles(t *testing.T) {
	f := newBoardFixture(t)

	role, err := f.svc.Access.ResolveWorkspaceRole(f.ctx, f.member, f.workspaceID)
	require.NoError(t, err)
	assert.Equal(t, rolePtr(domain.RoleMember), role)

	role, err = f.svc.Access.ResolveWorkspaceRole(f.ctx, f.outsider, f.workspaceID)
	require.NoError(t, err, "absence is not an error")
	assert.Nil(t, role)

	role, err = f.svc.Access.ResolveProjectRole(f.ctx, f.member, f.project.ProjectID)
	require.NoError(t, err)
	assert.Nil(t, role)

	role, err = f.svc.Access.ResolveProjectRole(f.ctx, f.admin, f.project.ProjectID)
	require.NoError(t, err)
	assert.Equal(t, rolePtr(domain.RoleAdmin), role, "the creator is on the team")
}

func TestAccessService_ResolveProjectAccess(t *testing.T) {
	f := newBoardFixture(t)

	_, access, err := f.svc.Access.ResolveProjectAccess(f.ctx, f.rc(f.member), f.project.ProjectID)
	require.NoError(t, err)
	assert.True(t, access.Is(domain.RoleMember))
	assert.False(t, access.OnTeam)

	f.addToTeam(f.member, domain.RoleClient)
	_, access, err = f.svc.Access.ResolveProjectAccess(f.ctx, f.rc(f.member), f.project.ProjectID)
	require.NoError(t, err)
	assert.True(t, access.Is(domain.RoleClient), "project role narrows the workspace role")
	assert.True(t, access.OnTeam)

	_, access, err = f.svc.Access.ResolveProjectAccess(f.ctx, f.rc(f.outsider), f.project.ProjectID)
	require.NoError(t, err)
	assert.False(t, access.HasRole())

	_, _, err = f.svc.Access.ResolveProjectAccess(f.ctx, f.rc(f.admin), uuid.NewString())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	wrongWorkspace := domain.RequestContext{UserID: f.admin, WorkspaceID: uuid.NewString()}
	_, _, err = f.svc.Access.ResolveProjectAccess(f.ctx, wrongWorkspace, f.project.ProjectID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
