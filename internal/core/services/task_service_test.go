package services_test

import (
	"testing"
	"time"

	"github.com/SscSPs/taskboard_app/internal/apperrors"
	"github.com/SscSPs/taskboard_app/internal/core/domain"
	portssvc "github.com/SscSPs/taskboard_app/internal/core/ports/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type TaskServiceTestSuite struct {
	suite.Suite
	f *boardFixture
}

func (suite *TaskServiceTestSuite) SetupTest() {
	suite.f = newBoardFixture(suite.T())
}

func TestTaskServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TaskServiceTestSuite))
}

func (suite *TaskServiceTestSuite) TestCreateTask_PlacedAtEndOfGroup() {
	f := suite.f
	first := f.createTask(f.admin, "First", &f.todo.GroupID, nil)
	second := f.createTask(f.admin, "Second", &f.todo.GroupID, nil)
	loose := f.createTask(f.admin, "No column", nil, nil)

	suite.Equal(0, first.OrderColumn)
	suite.Equal(1, second.OrderColumn)
	suite.Nil(loose.GroupID)
	suite.Equal(domain.PriorityMedium, first.Priority)
	suite.Nil(first.CompletedAt)

	inDone := f.createTask(f.admin, "Already done", &f.done.GroupID, nil)
	suite.NotNil(inDone.CompletedAt)
}

func (suite *TaskServiceTestSuite) TestCreateTask_Validation() {
	f := suite.f
	_, err := f.svc.Task.CreateTask(f.ctx, f.rc(f.admin), f.project.ProjectID, portssvc.CreateTaskInput{Name: " "})
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = f.svc.Task.CreateTask(f.ctx, f.rc(f.admin), f.project.ProjectID, portssvc.CreateTaskInput{Name: "x", Priority: "someday"})
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = f.svc.Task.CreateTask(f.ctx, f.rc(f.admin), f.project.ProjectID, portssvc.CreateTaskInput{Name: "x", AssignedToUserID: strPtr(f.outsider)})
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = f.svc.Task.CreateTask(f.ctx, f.rc(f.member), f.project.ProjectID, portssvc.CreateTaskInput{Name: "x", AssignedToUserID: strPtr(f.admin)})
	suite.ErrorIs(err, apperrors.ErrForbidden)

	_, err = f.svc.Task.CreateTask(f.ctx, f.rc(f.client), f.project.ProjectID, portssvc.CreateTaskInput{Name: "x"})
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *TaskServiceTestSuite) TestMoveToGroup_AppendsToTarget() {
	f := suite.f
	a := f.createTask(f.admin, "A", &f.todo.GroupID, nil)
	b := f.createTask(f.admin, "B", &f.todo.GroupID, nil)

	movedA, err := f.svc.Task.MoveToGroup(f.ctx, f.rc(f.admin), a.TaskID, f.doing.GroupID, nil)
	suite.Require().NoError(err)
	suite.Equal(f.doing.GroupID, *movedA.GroupID)
	suite.Equal(0, movedA.OrderColumn, "empty group starts at 0")

	movedB, err := f.svc.Task.MoveToGroup(f.ctx, f.rc(f.admin), b.TaskID, f.doing.GroupID, nil)
	suite.Require().NoError(err)
	suite.Equal(1, movedB.OrderColumn)
}

func (suite *TaskServiceTestSuite) TestMoveToGroup_CompletionRule() {
	f := suite.f
	task := f.createTask(f.admin, "Ship it", &f.todo.GroupID, nil)

	done, err := f.svc.Task.MoveToGroup(f.ctx, f.rc(f.admin), task.TaskID, f.done.GroupID, nil)
	suite.Require().NoError(err)
	suite.Require().NotNil(done.CompletedAt)
	suite.Equal([]domain.EventType{domain.EventTaskMoved, domain.EventTaskCompleted}, lastEventTypes(f.recorder.Types(), 2))

	back, err := f.svc.Task.MoveToGroup(f.ctx, f.rc(f.admin), task.TaskID, f.todo.GroupID, nil)
	suite.Require().NoError(err)
	suite.Nil(back.CompletedAt)
	suite.Equal([]domain.EventType{domain.EventTaskMoved, domain.EventTaskReopened}, lastEventTypes(f.recorder.Types(), 2))

	overridden, err := f.svc.Task.MoveToGroup(f.ctx, f.rc(f.admin), task.TaskID, f.doing.GroupID, boolPtr(true))
	suite.Require().NoError(err)
	suite.NotNil(overridden.CompletedAt, "override wins over the group name")
	suite.True(overridden.CompletionOverride)

	// A stored override survives later moves until cleared
	again, err := f.svc.Task.MoveToGroup(f.ctx, f.rc(f.admin), task.TaskID, f.todo.GroupID, nil)
	suite.Require().NoError(err)
	suite.Equal(overridden.CompletedAt, again.CompletedAt)

	cleared, err := f.svc.Task.MoveToGroup(f.ctx, f.rc(f.admin), task.TaskID, f.todo.GroupID, boolPtr(false))
	suite.Require().NoError(err)
	suite.Nil(cleared.CompletedAt)
}

func (suite *TaskServiceTestSuite) TestMoveToGroup_TargetMustBeActiveAndInProject() {
	f := suite.f
	task := f.createTask(f.admin, "A", &f.todo.GroupID, nil)

	otherProject := f.createProject("Mobile", portssvc.CreateProjectInput{})
	otherGroups, err := f.svc.TaskGroup.ListGroups(f.ctx, f.rc(f.admin), otherProject.ProjectID, false)
	suite.Require().NoError(err)

	_, err = f.svc.Task.MoveToGroup(f.ctx, f.rc(f.admin), task.TaskID, otherGroups[0].GroupID, nil)
	suite.ErrorIs(err, apperrors.ErrValidation)

	qa, err := f.svc.TaskGroup.CreateCustomGroup(f.ctx, f.rc(f.admin), f.project.ProjectID, "QA")
	suite.Require().NoError(err)
	_, err = f.svc.TaskGroup.ArchiveGroup(f.ctx, f.rc(f.admin), qa.GroupID)
	suite.Require().NoError(err)
	_, err = f.svc.Task.MoveToGroup(f.ctx, f.rc(f.admin), task.TaskID, qa.GroupID, nil)
	suite.ErrorIs(err, apperrors.ErrNotFound)

	_, err = f.svc.Task.MoveToGroup(f.ctx, f.rc(f.admin), task.TaskID, uuid.NewString(), nil)
	suite.ErrorIs(err, apperrors.ErrNotFound)

	unchanged := f.task(task.TaskID)
	suite.Equal(f.todo.GroupID, *unchanged.GroupID)
	suite.Equal(0, unchanged.OrderColumn)
}

func (suite *TaskServiceTestSuite) TestReorderWithinProject() {
	f := suite.f
	a := f.createTask(f.admin, "A", &f.todo.GroupID, nil)
	b := f.createTask(f.admin, "B", &f.todo.GroupID, nil)
	c := f.createTask(f.admin, "C", &f.doing.GroupID, nil)

	err := f.svc.Task.ReorderWithinProject(f.ctx, f.rc(f.admin), f.project.ProjectID, []string{c.TaskID, b.TaskID, a.TaskID})
	suite.Require().NoError(err)
	suite.Equal(1, f.task(c.TaskID).OrderColumn)
	suite.Equal(2, f.task(b.TaskID).OrderColumn)
	suite.Equal(3, f.task(a.TaskID).OrderColumn)
	suite.Contains(f.recorder.Types(), domain.EventTasksReordered)
}

func (suite *TaskServiceTestSuite) TestReorderWithinProject_RejectsForeignIDsAtomically() {
	f := suite.f
	a := f.createTask(f.admin, "A", &f.todo.GroupID, nil)
	b := f.createTask(f.admin, "B", &f.todo.GroupID, nil)
	foreign := uuid.NewString()

	err := f.svc.Task.ReorderWithinProject(f.ctx, f.rc(f.admin), f.project.ProjectID, []string{b.TaskID, foreign, a.TaskID})
	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	var vErr *apperrors.ValidationError
	suite.Require().ErrorAs(err, &vErr)
	suite.Equal([]string{foreign}, vErr.IDs)

	suite.Equal(0, f.task(a.TaskID).OrderColumn)
	suite.Equal(1, f.task(b.TaskID).OrderColumn)

	err = f.svc.Task.ReorderWithinProject(f.ctx, f.rc(f.admin), f.project.ProjectID, []string{a.TaskID, a.TaskID})
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *TaskServiceTestSuite) TestReorderWithinProject_MemberLimitedToOwnTasks() {
	f := suite.f
	own := f.createTask(f.member, "Mine", &f.todo.GroupID, nil)
	other := f.createTask(f.admin, "Theirs", &f.todo.GroupID, nil)

	err := f.svc.Task.ReorderWithinProject(f.ctx, f.rc(f.member), f.project.ProjectID, []string{other.TaskID, own.TaskID})
	suite.ErrorIs(err, apperrors.ErrForbidden)

	err = f.svc.Task.ReorderWithinProject(f.ctx, f.rc(f.client), f.project.ProjectID, []string{own.TaskID})
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *TaskServiceTestSuite) TestListTasks_VisibilityByRole() {
	f := suite.f
	assignedToMember := f.createTask(f.admin, "For member", &f.todo.GroupID, &f.member)
	unassigned := f.createTask(f.admin, "Up for grabs", &f.todo.GroupID, nil)
	createdByMember := f.createTask(f.member, "Member idea", &f.todo.GroupID, nil)
	assignedToAdmin := f.createTask(f.admin, "Admin work", &f.doing.GroupID, &f.admin)
	hidden, err := f.svc.Task.CreateTask(f.ctx, f.rc(f.admin), f.project.ProjectID, portssvc.CreateTaskInput{
		Name: "Internal", GroupID: &f.doing.GroupID, HiddenFromClients: true,
	})
	suite.Require().NoError(err)

	ids := func(userID string) []string {
		tasks, err := f.svc.Task.ListTasks(f.ctx, f.rc(userID), f.project.ProjectID, nil)
		suite.Require().NoError(err)
		out := make([]string, 0, len(tasks))
		for _, t := range tasks {
			out = append(out, t.TaskID)
		}
		return sortedIDs(out...)
	}

	all := sortedIDs(assignedToMember.TaskID, unassigned.TaskID, createdByMember.TaskID, assignedToAdmin.TaskID, hidden.TaskID)
	suite.Equal(all, ids(f.admin))
	suite.Equal(sortedIDs(assignedToMember.TaskID, unassigned.TaskID, createdByMember.TaskID, assignedToAdmin.TaskID), ids(f.client))

	// Off the team: only tasks tied to the member
	suite.Equal(sortedIDs(assignedToMember.TaskID, createdByMember.TaskID), ids(f.member))

	// On the team: unassigned tasks too
	f.addToTeam(f.member, domain.RoleMember)
	suite.Equal(sortedIDs(assignedToMember.TaskID, unassigned.TaskID, createdByMember.TaskID, hidden.TaskID), ids(f.member))

	_, err = f.svc.Task.ListTasks(f.ctx, f.rc(f.outsider), f.project.ProjectID, nil)
	suite.ErrorIs(err, apperrors.ErrForbidden, "no role is refused like GetTask and ListGroups")
}

func (suite *TaskServiceTestSuite) TestListTasks_FilterByGroupInBoardOrder() {
	f := suite.f
	a := f.createTask(f.admin, "A", &f.todo.GroupID, nil)
	b := f.createTask(f.admin, "B", &f.todo.GroupID, nil)
	f.createTask(f.admin, "C", &f.doing.GroupID, nil)
	suite.Require().NoError(f.svc.Task.ReorderWithinProject(f.ctx, f.rc(f.admin), f.project.ProjectID, []string{b.TaskID, a.TaskID}))

	tasks, err := f.svc.Task.ListTasks(f.ctx, f.rc(f.admin), f.project.ProjectID, &f.todo.GroupID)
	suite.Require().NoError(err)
	suite.Require().Len(tasks, 2)
	suite.Equal(b.TaskID, tasks[0].TaskID)
	suite.Equal(a.TaskID, tasks[1].TaskID)
}

func (suite *TaskServiceTestSuite) TestGetTask_HiddenOutsideScope() {
	f := suite.f
	task := f.createTask(f.admin, "Admin only", &f.todo.GroupID, &f.admin)

	_, err := f.svc.Task.GetTask(f.ctx, f.rc(f.member), task.TaskID)
	suite.ErrorIs(err, apperrors.ErrNotFound)

	_, err = f.svc.Task.GetTask(f.ctx, f.rc(f.outsider), task.TaskID)
	suite.ErrorIs(err, apperrors.ErrForbidden)

	got, err := f.svc.Task.GetTask(f.ctx, f.rc(f.client), task.TaskID)
	suite.Require().NoError(err)
	suite.Equal(task.TaskID, got.TaskID)
}

func (suite *TaskServiceTestSuite) TestUpdateTask_ReassignmentIsAdminOnly() {
	f := suite.f
	task := f.createTask(f.member, "Mine", &f.todo.GroupID, &f.member)

	_, err := f.svc.Task.UpdateTask(f.ctx, f.rc(f.member), task.TaskID, portssvc.TaskPatch{AssignedToUserID: strPtr(f.admin)})
	suite.ErrorIs(err, apperrors.ErrForbidden)
	_, err = f.svc.Task.UpdateTask(f.ctx, f.rc(f.member), task.TaskID, portssvc.TaskPatch{Unassign: true})
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.Equal(f.member, *f.task(task.TaskID).AssignedToUserID)

	// Other fields are fine for the member
	name := "Renamed"
	updated, err := f.svc.Task.UpdateTask(f.ctx, f.rc(f.member), task.TaskID, portssvc.TaskPatch{Name: &name})
	suite.Require().NoError(err)
	suite.Equal("Renamed", updated.Name)

	reassigned, err := f.svc.Task.UpdateTask(f.ctx, f.rc(f.admin), task.TaskID, portssvc.TaskPatch{AssignedToUserID: strPtr(f.admin)})
	suite.Require().NoError(err)
	suite.Equal(f.admin, *reassigned.AssignedToUserID)

	last := f.recorder.Events()[len(f.recorder.Events())-1]
	suite.Equal(domain.EventTaskAssigned, last.Type)
	suite.Equal(f.admin, last.Properties["assigned_to_user_id"])
	suite.Equal(f.member, last.Properties["previous_user_id"])
}

func (suite *TaskServiceTestSuite) TestUpdateTask_DueDateBoundedByProject() {
	f := suite.f
	projectDue := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	project := f.createProject("Launch", portssvc.CreateProjectInput{DueDate: &projectDue})
	task, err := f.svc.Task.CreateTask(f.ctx, f.rc(f.admin), project.ProjectID, portssvc.CreateTaskInput{Name: "Press kit"})
	suite.Require().NoError(err)

	late := projectDue.AddDate(0, 0, 1)
	_, err = f.svc.Task.UpdateTask(f.ctx, f.rc(f.admin), task.TaskID, portssvc.TaskPatch{DueOn: &late})
	suite.ErrorIs(err, apperrors.ErrValidation)

	sameDay := projectDue.Add(15 * time.Hour)
	updated, err := f.svc.Task.UpdateTask(f.ctx, f.rc(f.admin), task.TaskID, portssvc.TaskPatch{DueOn: &sameDay})
	suite.Require().NoError(err)
	suite.NotNil(updated.DueOn)

	_, err = f.svc.Task.CreateTask(f.ctx, f.rc(f.admin), project.ProjectID, portssvc.CreateTaskInput{Name: "Late", DueOn: &late})
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *TaskServiceTestSuite) TestClientCannotMutate() {
	f := suite.f
	task := f.createTask(f.admin, "A", &f.todo.GroupID, nil)

	_, err := f.svc.Task.MoveToGroup(f.ctx, f.rc(f.client), task.TaskID, f.doing.GroupID, nil)
	suite.ErrorIs(err, apperrors.ErrForbidden)

	name := "x"
	_, err = f.svc.Task.UpdateTask(f.ctx, f.rc(f.client), task.TaskID, portssvc.TaskPatch{Name: &name})
	suite.ErrorIs(err, apperrors.ErrForbidden)

	suite.ErrorIs(f.svc.Task.ArchiveTask(f.ctx, f.rc(f.client), task.TaskID), apperrors.ErrForbidden)
}

func (suite *TaskServiceTestSuite) TestArchiveAndRestoreTask() {
	f := suite.f
	task := f.createTask(f.member, "Mine", &f.doing.GroupID, nil)

	suite.Require().NoError(f.svc.Task.ArchiveTask(f.ctx, f.rc(f.member), task.TaskID))
	_, err := f.svc.Task.GetTask(f.ctx, f.rc(f.member), task.TaskID)
	suite.ErrorIs(err, apperrors.ErrNotFound)

	suite.ErrorIs(f.svc.Task.RestoreTask(f.ctx, f.rc(f.member), task.TaskID), apperrors.ErrForbidden)
	suite.Require().NoError(f.svc.Task.RestoreTask(f.ctx, f.rc(f.admin), task.TaskID))

	restored := f.task(task.TaskID)
	suite.True(restored.State.IsActive())
	suite.Equal(f.doing.GroupID, *restored.GroupID)
	suite.Equal(task.OrderColumn, restored.OrderColumn)
}
