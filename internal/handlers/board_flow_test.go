package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/SscSPs/taskboard_app/internal/adapters/events"
	"github.com/SscSPs/taskboard_app/internal/core/domain"
	"github.com/SscSPs/taskboard_app/internal/core/services"
	"github.com/SscSPs/taskboard_app/internal/dto"
	"github.com/SscSPs/taskboard_app/internal/handlers"
	"github.com/SscSPs/taskboard_app/internal/repositories/memory"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

// BoardFlowTestSuite drives the full HTTP surface against the in-memory store.
type BoardFlowTestSuite struct {
	suite.Suite
	router    *gin.Engine
	publisher *events.Recorder

	admin, member, client string
	workspaceID           string
}

func (suite *BoardFlowTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.Require().NoError(dto.RegisterValidators())

	cfg := testConfig()
	suite.publisher = &events.Recorder{}
	container := services.NewServiceContainer(cfg, memory.NewRepositoryProvider(memory.NewStore()), suite.publisher)

	suite.router = gin.New()
	handlers.RegisterRoutes(suite.router, cfg, container)

	suite.admin, suite.member, suite.client = uuid.NewString(), uuid.NewString(), uuid.NewString()

	w := doJSON(suite.T(), suite.router, http.MethodPost, "/api/v1/workspaces", suite.admin,
		dto.CreateWorkspaceRequest{Name: "Agency"})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var ws dto.WorkspaceResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &ws))
	suite.workspaceID = ws.WorkspaceID

	for userID, role := range map[string]domain.Role{suite.member: domain.RoleMember, suite.client: domain.RoleClient} {
		w = doJSON(suite.T(), suite.router, http.MethodPost, suite.url("/members"), suite.admin,
			dto.AddMemberRequest{UserID: userID, Role: role})
		suite.Require().Equal(http.StatusNoContent, w.Code, w.Body.String())
	}
}

func (suite *BoardFlowTestSuite) url(format string, args ...any) string {
	return fmt.Sprintf("/api/v1/workspaces/%s", suite.workspaceID) + fmt.Sprintf(format, args...)
}

func (suite *BoardFlowTestSuite) decode(body []byte, v any) {
	suite.Require().NoError(json.Unmarshal(body, v), string(body))
}

func (suite *BoardFlowTestSuite) createProject(name string) dto.ProjectResponse {
	w := doJSON(suite.T(), suite.router, http.MethodPost, suite.url("/projects"), suite.admin,
		map[string]any{"name": name, "dueDate": "2026-12-31", "budget": "1500.00"})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var project dto.ProjectResponse
	suite.decode(w.Body.Bytes(), &project)
	return project
}

func (suite *BoardFlowTestSuite) createTask(userID, projectID string, body map[string]any) (int, dto.TaskResponse) {
	w := doJSON(suite.T(), suite.router, http.MethodPost, suite.url("/projects/%s/tasks", projectID), userID, body)
	var task dto.TaskResponse
	if w.Code == http.StatusCreated {
		suite.decode(w.Body.Bytes(), &task)
	}
	return w.Code, task
}

func (suite *BoardFlowTestSuite) listGroups(projectID string) []dto.TaskGroupResponse {
	w := doJSON(suite.T(), suite.router, http.MethodGet, suite.url("/projects/%s/groups", projectID), suite.admin, nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var resp dto.ListTaskGroupsResponse
	suite.decode(w.Body.Bytes(), &resp)
	return resp.Groups
}

func groupByName(groups []dto.TaskGroupResponse, name string) dto.TaskGroupResponse {
	for _, g := range groups {
		if g.Name == name {
			return g
		}
	}
	return dto.TaskGroupResponse{}
}

func (suite *BoardFlowTestSuite) TestCreateProject_SeedsSystemGroups() {
	project := suite.createProject("Launch")

	suite.Require().Len(project.Groups, 3)
	suite.Equal("To Do", project.Groups[0].Name)
	suite.Equal(1, project.Groups[0].Position)
	suite.Equal("In Progress", project.Groups[1].Name)
	suite.Equal(2, project.Groups[1].Position)
	suite.Equal("Complete", project.Groups[2].Name)
	suite.Equal(3, project.Groups[2].Position)
	suite.Require().NotNil(project.Budget)
	suite.Equal("1500", project.Budget.String())
	suite.Require().NotNil(project.DueDate)
	suite.Equal("2026-12-31", *project.DueDate)
}

func (suite *BoardFlowTestSuite) TestCustomGroup_InsertedBeforeComplete() {
	project := suite.createProject("Launch")

	w := doJSON(suite.T(), suite.router, http.MethodPost, suite.url("/projects/%s/groups", project.ProjectID), suite.member,
		dto.CreateTaskGroupRequest{Name: "Review"})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var review dto.TaskGroupResponse
	suite.decode(w.Body.Bytes(), &review)
	suite.Equal(3, review.Position)
	suite.Equal(domain.GroupTypeCustom, review.Type)

	groups := suite.listGroups(project.ProjectID)
	suite.Equal(4, groupByName(groups, "Complete").Position)
}

func (suite *BoardFlowTestSuite) TestSystemGroups_CannotBeDeletedOrRenamed() {
	project := suite.createProject("Launch")
	todo := groupByName(project.Groups, "To Do")

	w := doJSON(suite.T(), suite.router, http.MethodDelete, suite.url("/groups/%s", todo.GroupID), suite.admin, nil)
	suite.Equal(http.StatusConflict, w.Code)

	w = doJSON(suite.T(), suite.router, http.MethodPatch, suite.url("/groups/%s", todo.GroupID), suite.admin,
		dto.RenameTaskGroupRequest{Name: "Backlog"})
	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *BoardFlowTestSuite) TestReorderGroups_RejectsGapsWithoutWriting() {
	project := suite.createProject("Launch")
	positions := map[string]int{}
	for _, g := range project.Groups {
		positions[g.GroupID] = g.Position * 2
	}

	w := doJSON(suite.T(), suite.router, http.MethodPut, suite.url("/projects/%s/groups/order", project.ProjectID), suite.admin,
		dto.ReorderTaskGroupsRequest{Positions: positions})
	suite.Equal(http.StatusBadRequest, w.Code)
	var errResp handlers.ErrorResponse
	suite.decode(w.Body.Bytes(), &errResp)
	suite.NotEmpty(errResp.IDs)

	for _, g := range suite.listGroups(project.ProjectID) {
		suite.Equal(groupByName(project.Groups, g.Name).Position, g.Position)
	}
}

func (suite *BoardFlowTestSuite) TestMoveTask_CompletesAndAppends() {
	project := suite.createProject("Launch")
	todo := groupByName(project.Groups, "To Do")
	complete := groupByName(project.Groups, "Complete")

	status, first := suite.createTask(suite.admin, project.ProjectID, map[string]any{"name": "Draft", "groupID": todo.GroupID})
	suite.Require().Equal(http.StatusCreated, status)
	status, second := suite.createTask(suite.admin, project.ProjectID, map[string]any{"name": "Polish", "groupID": todo.GroupID})
	suite.Require().Equal(http.StatusCreated, status)
	suite.Equal(0, first.OrderColumn)
	suite.Equal(1, second.OrderColumn)

	w := doJSON(suite.T(), suite.router, http.MethodPost, suite.url("/tasks/%s/move", second.TaskID), suite.admin,
		dto.MoveTaskRequest{GroupID: complete.GroupID})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var moved dto.TaskResponse
	suite.decode(w.Body.Bytes(), &moved)
	suite.Equal(0, moved.OrderColumn, "empty group starts at 0")
	suite.NotNil(moved.CompletedAt)

	w = doJSON(suite.T(), suite.router, http.MethodPost, suite.url("/tasks/%s/move", second.TaskID), suite.admin,
		dto.MoveTaskRequest{GroupID: todo.GroupID})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var reopened dto.TaskResponse
	suite.decode(w.Body.Bytes(), &reopened)
	suite.Equal(1, reopened.OrderColumn)
	suite.Nil(reopened.CompletedAt)

	suite.Contains(suite.publisher.Types(), domain.EventTaskMoved)
}

func (suite *BoardFlowTestSuite) TestClient_ReadOnlyAndHiddenTasksExcluded() {
	project := suite.createProject("Launch")
	todo := groupByName(project.Groups, "To Do")

	_, public := suite.createTask(suite.admin, project.ProjectID, map[string]any{"name": "Public", "groupID": todo.GroupID})
	_, hidden := suite.createTask(suite.admin, project.ProjectID, map[string]any{"name": "Internal", "groupID": todo.GroupID, "hiddenFromClients": true})

	w := doJSON(suite.T(), suite.router, http.MethodGet, suite.url("/projects/%s/tasks", project.ProjectID), suite.client, nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var list dto.ListTasksResponse
	suite.decode(w.Body.Bytes(), &list)
	suite.Require().Len(list.Tasks, 1)
	suite.Equal(public.TaskID, list.Tasks[0].TaskID)

	w = doJSON(suite.T(), suite.router, http.MethodGet, suite.url("/tasks/%s", hidden.TaskID), suite.client, nil)
	suite.Equal(http.StatusNotFound, w.Code)

	status, _ := suite.createTask(suite.client, project.ProjectID, map[string]any{"name": "Request"})
	suite.Equal(http.StatusForbidden, status)

	w = doJSON(suite.T(), suite.router, http.MethodPost, suite.url("/tasks/%s/move", public.TaskID), suite.client,
		dto.MoveTaskRequest{GroupID: groupByName(project.Groups, "Complete").GroupID})
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *BoardFlowTestSuite) TestMember_SeesOnlyTeamProjects() {
	onTeam := suite.createProject("Launch")
	suite.createProject("Payroll")

	w := doJSON(suite.T(), suite.router, http.MethodPost, suite.url("/projects/%s/members", onTeam.ProjectID), suite.admin,
		dto.AddMemberRequest{UserID: suite.member, Role: domain.RoleMember})
	suite.Require().Equal(http.StatusNoContent, w.Code, w.Body.String())

	w = doJSON(suite.T(), suite.router, http.MethodGet, suite.url("/projects"), suite.member, nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var list dto.ListProjectsResponse
	suite.decode(w.Body.Bytes(), &list)
	suite.Require().Len(list.Projects, 1)
	suite.Equal(onTeam.ProjectID, list.Projects[0].ProjectID)
}

func (suite *BoardFlowTestSuite) TestOutsider_SeesNothing() {
	project := suite.createProject("Launch")
	outsider := uuid.NewString()

	w := doJSON(suite.T(), suite.router, http.MethodGet, suite.url(""), outsider, nil)
	suite.Equal(http.StatusForbidden, w.Code)

	w = doJSON(suite.T(), suite.router, http.MethodGet, suite.url("/projects"), outsider, nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var list dto.ListProjectsResponse
	suite.decode(w.Body.Bytes(), &list)
	suite.Empty(list.Projects)

	w = doJSON(suite.T(), suite.router, http.MethodGet, suite.url("/projects/%s/tasks", project.ProjectID), outsider, nil)
	suite.Equal(http.StatusForbidden, w.Code)
}

func TestBoardFlow(t *testing.T) {
	suite.Run(t, new(BoardFlowTestSuite))
}
