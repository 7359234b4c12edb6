package services_test

import (
	"sort"
	"testing"

	"github.com/SscSPs/taskboard_app/internal/apperrors"
	"github.com/SscSPs/taskboard_app/internal/core/domain"
	portssvc "github.com/SscSPs/taskboard_app/internal/core/ports/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type ProjectServiceTestSuite struct {
	suite.Suite
	f *boardFixture
}

func (suite *ProjectServiceTestSuite) SetupTest() {
	suite.f = newBoardFixture(suite.T())
}

func TestProjectServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ProjectServiceTestSuite))
}

func (suite *ProjectServiceTestSuite) projectNames(userID string) []string {
	projects, err := suite.f.svc.Project.ListProjects(suite.f.ctx, suite.f.rc(userID))
	suite.Require().NoError(err)
	names := make([]string, 0, len(projects))
	for _, p := range projects {
		names = append(names, p.Name)
	}
	sort.Strings(names)
	return names
}

func (suite *ProjectServiceTestSuite) TestCreateProject_SeedsGroupsAndTeam() {
	f := suite.f
	budget := decimal.RequireFromString("1250.50")
	project, groups, err := f.svc.Project.CreateProject(f.ctx, f.rc(f.member), portssvc.CreateProjectInput{
		Name:   "Member project",
		Budget: &budget,
	})
	suite.Require().NoError(err)
	suite.Require().Len(groups, 3)
	suite.Equal(domain.GroupNameComplete, groups[2].Name)
	suite.True(budget.Equal(*project.Budget))

	members, err := f.svc.Project.ListProjectMembers(f.ctx, f.rc(f.member), project.ProjectID)
	suite.Require().NoError(err)
	suite.Require().Len(members, 1)
	suite.Equal(f.member, members[0].UserID)
	suite.Equal(domain.RoleMember, members[0].Role)
}

func (suite *ProjectServiceTestSuite) TestCreateProject_Rejected() {
	f := suite.f
	_, _, err := f.svc.Project.CreateProject(f.ctx, f.rc(f.client), portssvc.CreateProjectInput{Name: "Nope"})
	suite.ErrorIs(err, apperrors.ErrForbidden)

	_, _, err = f.svc.Project.CreateProject(f.ctx, f.rc(f.outsider), portssvc.CreateProjectInput{Name: "Nope"})
	suite.ErrorIs(err, apperrors.ErrForbidden)

	negative := decimal.NewFromInt(-1)
	_, _, err = f.svc.Project.CreateProject(f.ctx, f.rc(f.admin), portssvc.CreateProjectInput{Name: "Broke", Budget: &negative})
	suite.ErrorIs(err, apperrors.ErrValidation)

	suite.Equal([]string{"Website"}, suite.projectNames(f.admin))
}

func (suite *ProjectServiceTestSuite) TestListProjects_ByWorkspaceRole() {
	f := suite.f
	f.createProject("Internal", portssvc.CreateProjectInput{})

	suite.Equal([]string{"Internal", "Website"}, suite.projectNames(f.admin))
	suite.Equal([]string{"Internal", "Website"}, suite.projectNames(f.client))
	suite.Empty(suite.projectNames(f.member), "member sees only projects they are on the team of")
	suite.Empty(suite.projectNames(f.outsider))

	f.addToTeam(f.member, domain.RoleMember)
	suite.Equal([]string{"Website"}, suite.projectNames(f.member))

	_, err := f.svc.Project.GetProject(f.ctx, f.rc(f.member), f.project.ProjectID)
	suite.NoError(err)
}

func (suite *ProjectServiceTestSuite) TestArchiveProject_HidesFromListings() {
	f := suite.f

	suite.ErrorIs(f.svc.Project.ArchiveProject(f.ctx, f.rc(f.member), f.project.ProjectID), apperrors.ErrForbidden)
	suite.Require().NoError(f.svc.Project.ArchiveProject(f.ctx, f.rc(f.admin), f.project.ProjectID))
	suite.Empty(suite.projectNames(f.admin))

	_, err := f.svc.Project.GetProject(f.ctx, f.rc(f.admin), f.project.ProjectID)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	_, err = f.svc.TaskGroup.ListGroups(f.ctx, f.rc(f.admin), f.project.ProjectID, false)
	suite.ErrorIs(err, apperrors.ErrNotFound)

	suite.Require().NoError(f.svc.Project.RestoreProject(f.ctx, f.rc(f.admin), f.project.ProjectID))
	suite.Equal([]string{"Website"}, suite.projectNames(f.admin))
}

func (suite *ProjectServiceTestSuite) TestUpdateProject() {
	f := suite.f
	name := "Website v2"
	updated, err := f.svc.Project.UpdateProject(f.ctx, f.rc(f.admin), f.project.ProjectID, portssvc.UpdateProjectInput{Name: &name})
	suite.Require().NoError(err)
	suite.Equal(name, updated.Name)

	f.addToTeam(f.member, domain.RoleMember)
	_, err = f.svc.Project.UpdateProject(f.ctx, f.rc(f.member), f.project.ProjectID, portssvc.UpdateProjectInput{Name: &name})
	suite.ErrorIs(err, apperrors.ErrForbidden)

	// A project admin role lifts a workspace member
	f.addToTeam(f.member, domain.RoleAdmin)
	_, err = f.svc.Project.UpdateProject(f.ctx, f.rc(f.member), f.project.ProjectID, portssvc.UpdateProjectInput{Name: &name})
	suite.NoError(err)
}

func (suite *ProjectServiceTestSuite) TestProjectMembership() {
	f := suite.f

	err := f.svc.Project.AddProjectMember(f.ctx, f.rc(f.admin), f.project.ProjectID, f.outsider, domain.RoleMember)
	suite.ErrorIs(err, apperrors.ErrValidation, "team members must belong to the workspace")

	err = f.svc.Project.AddProjectMember(f.ctx, f.rc(f.admin), f.project.ProjectID, f.member, domain.Role("owner"))
	suite.ErrorIs(err, apperrors.ErrValidation)

	err = f.svc.Project.AddProjectMember(f.ctx, f.rc(f.client), f.project.ProjectID, f.member, domain.RoleMember)
	suite.ErrorIs(err, apperrors.ErrForbidden)

	f.addToTeam(f.member, domain.RoleMember)
	suite.Require().NoError(f.svc.Project.RemoveProjectMember(f.ctx, f.rc(f.admin), f.project.ProjectID, f.member))

	err = f.svc.Project.RemoveProjectMember(f.ctx, f.rc(f.admin), f.project.ProjectID, uuid.NewString())
	suite.ErrorIs(err, apperrors.ErrNotFound)
}
