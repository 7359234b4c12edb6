package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/taskboard_app/internal/apperrors"
	"github.com/SscSPs/taskboard_app/internal/core/domain"
	portsrepo "github.com/SscSPs/taskboard_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/taskboard_app/internal/core/ports/services"
	"github.com/google/uuid"
)

const maxTaskNameLength = 255

// taskService implements the TaskSvc interface
type taskService struct {
	BaseService
	boardRepo portsrepo.BoardRepositoryFacade
	access    portssvc.AccessScopeSvc
	filter    VisibilityFilter
}

// NewTaskService creates the task placement engine
func NewTaskService(
	boardRepo portsrepo.BoardRepositoryFacade,
	access portssvc.AccessScopeSvc,
	filter VisibilityFilter,
	opts ...ServiceOption,
) portssvc.TaskSvc {
	return &taskService{
		BaseService: newBaseService(opts),
		boardRepo:   boardRepo,
		access:      access,
		filter:      filter,
	}
}

var _ portssvc.TaskSvc = (*taskService)(nil)

// CreateTask adds a task to a project, at the end of its group when one is given
func (s *taskService) CreateTask(ctx context.Context, rc domain.RequestContext, projectID string, in portssvc.CreateTaskInput) (*domain.Task, error) {
	name, err := validateTaskName(in.Name)
	if err != nil {
		return nil, err
	}
	if in.Priority == "" {
		in.Priority = domain.PriorityMedium
	}
	if !in.Priority.Valid() {
		return nil, apperrors.NewValidationError("priority", "must be one of low, medium, high, urgent")
	}

	project, access, err := s.access.ResolveProjectAccess(ctx, rc, projectID)
	if err != nil {
		return nil, err
	}
	if !s.filter.CanManageBoard(access) {
		return nil, requireProjectRole(ctx, &s.BaseService, access, domain.RoleAdmin, domain.RoleMember)
	}
	if err := validateDueOn(in.DueOn, project); err != nil {
		return nil, err
	}
	if in.AssignedToUserID != nil {
		if *in.AssignedToUserID == "" {
			in.AssignedToUserID = nil
		} else if err := s.checkAssignee(ctx, rc, access, *in.AssignedToUserID); err != nil {
			return nil, err
		}
	}

	var created domain.Task
	err = s.withWriteRetry(ctx, "create task", func() error {
		return s.boardRepo.RunInTx(ctx, func(ctx context.Context, tx portsrepo.BoardTx) error {
			now := s.now()
			created = domain.Task{
				TaskID:            uuid.NewString(),
				ProjectID:         projectID,
				Name:              name,
				Description:       in.Description,
				AssignedToUserID:  in.AssignedToUserID,
				CreatedByUserID:   rc.UserID,
				HiddenFromClients: in.HiddenFromClients,
				Priority:          in.Priority,
				DueOn:             in.DueOn,
				State:             domain.ActiveState(),
				AuditFields:       domain.NewAuditFields(rc.UserID, now),
			}
			if in.GroupID != nil {
				group, err := lockTargetGroup(ctx, tx, *in.GroupID, projectID)
				if err != nil {
					return err
				}
				order, err := nextOrderColumn(ctx, tx, group.GroupID)
				if err != nil {
					return err
				}
				created.GroupID = &group.GroupID
				created.OrderColumn = order
				created.ApplyGroupCompletion(*group, nil, now)
			}
			return tx.InsertTask(ctx, created)
		})
	})
	if err != nil {
		s.logTaskFailure(ctx, err, "create task", slog.String("project_id", projectID))
		return nil, err
	}

	s.LogInfo(ctx, "Task created",
		slog.String("task_id", created.TaskID),
		slog.String("project_id", projectID))
	if created.AssignedToUserID != nil {
		s.publishAssigned(ctx, rc, created, nil)
	}
	return &created, nil
}

// GetTask returns a task visible to the caller
func (s *taskService) GetTask(ctx context.Context, rc domain.RequestContext, taskID string) (*domain.Task, error) {
	task, _, access, err := s.loadVisibleTask(ctx, rc, taskID)
	if err != nil {
		return nil, err
	}
	if !access.HasRole() {
		return nil, requireProjectRole(ctx, &s.BaseService, access)
	}
	return task, nil
}

// ListTasks returns the project's tasks visible to the caller, optionally for one group.
// A caller with no role on the project is refused, like every other project read.
func (s *taskService) ListTasks(ctx context.Context, rc domain.RequestContext, projectID string, groupID *string) ([]domain.Task, error) {
	_, access, err := s.access.ResolveProjectAccess(ctx, rc, projectID)
	if err != nil {
		return nil, err
	}

	if !access.HasRole() {
		return nil, requireProjectRole(ctx, &s.BaseService, access)
	}
	scope := s.filter.TasksVisibleTo(access)
	if scope.IsEmpty() {
		return []domain.Task{}, nil
	}

	tasks, err := s.boardRepo.ListTasks(ctx, scope, portsrepo.TaskFilter{GroupID: groupID})
	if err != nil {
		s.LogError(ctx, err, "Failed to list tasks",
			slog.String("project_id", projectID))
		return nil, err
	}
	if tasks == nil {
		return []domain.Task{}, nil
	}

	s.LogDebug(ctx, "Tasks listed",
		slog.String("project_id", projectID),
		slog.String("scope", scope.Kind.String()),
		slog.Int("count", len(tasks)))
	return tasks, nil
}

// MoveToGroup places a task at the end of targetGroupID and applies the completion rule.
// A non-nil completionOverride takes precedence over the group-name rule.
func (s *taskService) MoveToGroup(ctx context.Context, rc domain.RequestContext, taskID, targetGroupID string, completionOverride *bool) (*domain.Task, error) {
	_, _, access, err := s.loadMutableTask(ctx, rc, taskID)
	if err != nil {
		return nil, err
	}

	var (
		moved       domain.Task
		target      domain.TaskGroup
		previous    *string
		wasComplete bool
	)
	err = s.withWriteRetry(ctx, "move task", func() error {
		return s.boardRepo.RunInTx(ctx, func(ctx context.Context, tx portsrepo.BoardTx) error {
			task, err := tx.FindTaskForUpdate(ctx, taskID)
			if err != nil {
				return err
			}
			if task.State.IsArchived() {
				return apperrors.NewNotFoundError("task not found")
			}
			group, err := lockTargetGroup(ctx, tx, targetGroupID, task.ProjectID)
			if err != nil {
				return err
			}
			order, err := nextOrderColumn(ctx, tx, group.GroupID)
			if err != nil {
				return err
			}

			previous, wasComplete = task.GroupID, task.CompletedAt != nil
			now := s.now()
			task.GroupID = &group.GroupID
			task.OrderColumn = order
			task.ApplyGroupCompletion(*group, completionOverride, now)
			task.Touch(rc.UserID, now)
			if err := tx.UpdateTask(ctx, *task); err != nil {
				return err
			}
			moved, target = *task, *group
			return nil
		})
	})
	if err != nil {
		s.logTaskFailure(ctx, err, "move task",
			slog.String("task_id", taskID),
			slog.String("group_id", targetGroupID))
		return nil, err
	}

	s.LogInfo(ctx, "Task moved",
		slog.String("task_id", taskID),
		slog.String("group_id", target.GroupID),
		slog.Int("order_column", moved.OrderColumn))

	props := map[string]any{"to_group_id": target.GroupID, "to_group": target.Name}
	if previous != nil {
		props["from_group_id"] = *previous
	}
	s.publish(ctx, s.taskEvent(domain.EventTaskMoved, rc, access, moved, props))
	isComplete := moved.CompletedAt != nil
	switch {
	case isComplete && !wasComplete:
		s.publish(ctx, s.taskEvent(domain.EventTaskCompleted, rc, access, moved, nil))
	case !isComplete && wasComplete:
		s.publish(ctx, s.taskEvent(domain.EventTaskReopened, rc, access, moved, nil))
	}
	return &moved, nil
}

// ReorderWithinProject sets order_column to index+1 for each id, atomically
func (s *taskService) ReorderWithinProject(ctx context.Context, rc domain.RequestContext, projectID string, orderedTaskIDs []string) error {
	if len(orderedTaskIDs) == 0 {
		return apperrors.NewValidationError("taskIDs", "must not be empty")
	}
	seen := make(map[string]struct{}, len(orderedTaskIDs))
	var repeated []string
	for _, id := range orderedTaskIDs {
		if _, ok := seen[id]; ok {
			repeated = append(repeated, id)
		}
		seen[id] = struct{}{}
	}
	if len(repeated) > 0 {
		return apperrors.NewValidationError("taskIDs", "must not repeat a task", repeated...)
	}

	_, access, err := s.access.ResolveProjectAccess(ctx, rc, projectID)
	if err != nil {
		return err
	}
	if !s.filter.CanManageBoard(access) {
		return requireProjectRole(ctx, &s.BaseService, access, domain.RoleAdmin, domain.RoleMember)
	}

	err = s.withWriteRetry(ctx, "reorder tasks", func() error {
		return s.boardRepo.RunInTx(ctx, func(ctx context.Context, tx portsrepo.BoardTx) error {
			tasks, err := tx.FindTasksForUpdate(ctx, orderedTaskIDs)
			if err != nil {
				return err
			}
			var foreign, denied []string
			for _, id := range orderedTaskIDs {
				task, ok := tasks[id]
				if !ok || task.ProjectID != projectID {
					foreign = append(foreign, id)
					continue
				}
				if !s.filter.CanMutateTask(access, task) {
					denied = append(denied, id)
				}
			}
			if len(foreign) > 0 {
				return apperrors.NewValidationError("taskIDs", "contains tasks outside the project", foreign...)
			}
			if len(denied) > 0 {
				return apperrors.NewForbiddenError(fmt.Sprintf("not allowed to reorder tasks: %s", strings.Join(denied, ", ")))
			}

			orders := make(map[string]int, len(orderedTaskIDs))
			for i, id := range orderedTaskIDs {
				orders[id] = i + 1
			}
			return tx.UpdateTaskOrders(ctx, orders, rc.UserID, s.now())
		})
	})
	if err != nil {
		s.logTaskFailure(ctx, err, "reorder tasks", slog.String("project_id", projectID))
		return err
	}

	s.LogInfo(ctx, "Tasks reordered",
		slog.String("project_id", projectID),
		slog.Int("count", len(orderedTaskIDs)))
	s.publish(ctx, domain.BoardEvent{
		Type:        domain.EventTasksReordered,
		WorkspaceID: rc.WorkspaceID,
		ProjectID:   projectID,
		ActorUserID: rc.UserID,
		SubjectID:   projectID,
		Properties:  map[string]any{"count": len(orderedTaskIDs)},
	})
	return nil
}

// UpdateTask applies patch to the locked task row and persists it in one write
func (s *taskService) UpdateTask(ctx context.Context, rc domain.RequestContext, taskID string, patch portssvc.TaskPatch) (*domain.Task, error) {
	if patch.Name != nil {
		name, err := validateTaskName(*patch.Name)
		if err != nil {
			return nil, err
		}
		patch.Name = &name
	}
	if patch.Priority != nil && !patch.Priority.Valid() {
		return nil, apperrors.NewValidationError("priority", "must be one of low, medium, high, urgent")
	}
	if patch.AssignedToUserID != nil && *patch.AssignedToUserID == "" {
		patch.AssignedToUserID, patch.Unassign = nil, true
	}

	current, project, access, err := s.loadMutableTask(ctx, rc, taskID)
	if err != nil {
		return nil, err
	}
	if !patch.ClearDueOn {
		if err := validateDueOn(patch.DueOn, project); err != nil {
			return nil, err
		}
	}
	if reassigns(*current, patch) {
		if !s.filter.CanReassignTask(access) {
			s.LogWarn(ctx, "Task reassignment denied",
				slog.String("task_id", taskID),
				slog.String("user_id", rc.UserID))
			return nil, apperrors.NewForbiddenError("only admins can reassign tasks")
		}
		if patch.AssignedToUserID != nil {
			if err := s.checkAssignee(ctx, rc, access, *patch.AssignedToUserID); err != nil {
				return nil, err
			}
		}
	}

	var (
		updated      domain.Task
		assignChange bool
		previous     *string
	)
	err = s.withWriteRetry(ctx, "update task", func() error {
		return s.boardRepo.RunInTx(ctx, func(ctx context.Context, tx portsrepo.BoardTx) error {
			task, err := tx.FindTaskForUpdate(ctx, taskID)
			if err != nil {
				return err
			}
			if task.State.IsArchived() {
				return apperrors.NewNotFoundError("task not found")
			}
			previous = task.AssignedToUserID
			assignChange = reassigns(*task, patch)
			if assignChange && !s.filter.CanReassignTask(access) {
				return apperrors.NewForbiddenError("only admins can reassign tasks")
			}
			if !applyTaskPatch(task, patch) {
				updated = *task
				return nil
			}
			task.Touch(rc.UserID, s.now())
			if err := tx.UpdateTask(ctx, *task); err != nil {
				return err
			}
			updated = *task
			return nil
		})
	})
	if err != nil {
		s.logTaskFailure(ctx, err, "update task", slog.String("task_id", taskID))
		return nil, err
	}

	s.LogInfo(ctx, "Task updated", slog.String("task_id", taskID))
	if assignChange {
		s.publishAssigned(ctx, rc, updated, previous)
	}
	return &updated, nil
}

// ArchiveTask soft-deletes a task the caller may mutate
func (s *taskService) ArchiveTask(ctx context.Context, rc domain.RequestContext, taskID string) error {
	if _, _, _, err := s.loadMutableTask(ctx, rc, taskID); err != nil {
		return err
	}
	return s.setTaskState(ctx, rc, taskID, true)
}

// RestoreTask brings an archived task back with its group and order unchanged. Admin only.
func (s *taskService) RestoreTask(ctx context.Context, rc domain.RequestContext, taskID string) error {
	task, err := s.boardRepo.FindTaskByID(ctx, taskID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find task", slog.String("task_id", taskID))
		}
		return err
	}
	_, access, err := s.access.ResolveProjectAccess(ctx, rc, task.ProjectID)
	if err != nil {
		return err
	}
	if err := requireProjectRole(ctx, &s.BaseService, access, domain.RoleAdmin); err != nil {
		return err
	}
	return s.setTaskState(ctx, rc, taskID, false)
}

func (s *taskService) setTaskState(ctx context.Context, rc domain.RequestContext, taskID string, archive bool) error {
	op := "restore task"
	if archive {
		op = "archive task"
	}
	err := s.withWriteRetry(ctx, op, func() error {
		return s.boardRepo.RunInTx(ctx, func(ctx context.Context, tx portsrepo.BoardTx) error {
			task, err := tx.FindTaskForUpdate(ctx, taskID)
			if err != nil {
				return err
			}
			now := s.now()
			if archive {
				task.State = task.State.Archive(now)
			} else {
				task.State = task.State.Restore()
			}
			task.Touch(rc.UserID, now)
			return tx.UpdateTask(ctx, *task)
		})
	})
	if err != nil {
		s.logTaskFailure(ctx, err, op, slog.String("task_id", taskID))
		return err
	}
	s.LogInfo(ctx, "Task archive state changed",
		slog.String("task_id", taskID),
		slog.Bool("archived", archive))
	return nil
}

// loadVisibleTask returns ErrNotFound both for missing tasks and for tasks outside the
// caller's visibility scope.
func (s *taskService) loadVisibleTask(ctx context.Context, rc domain.RequestContext, taskID string) (*domain.Task, *domain.Project, domain.ProjectAccess, error) {
	task, err := s.boardRepo.FindTaskByID(ctx, taskID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find task", slog.String("task_id", taskID))
		}
		return nil, nil, domain.ProjectAccess{}, err
	}
	project, access, err := s.access.ResolveProjectAccess(ctx, rc, task.ProjectID)
	if err != nil {
		return nil, nil, access, err
	}
	if access.HasRole() && !s.filter.TasksVisibleTo(access).Matches(*task) {
		return nil, nil, access, apperrors.NewNotFoundError("task not found")
	}
	return task, project, access, nil
}

// loadMutableTask additionally requires CanMutateTask.
func (s *taskService) loadMutableTask(ctx context.Context, rc domain.RequestContext, taskID string) (*domain.Task, *domain.Project, domain.ProjectAccess, error) {
	task, project, access, err := s.loadVisibleTask(ctx, rc, taskID)
	if err != nil {
		return nil, nil, access, err
	}
	if !s.filter.CanMutateTask(access, *task) {
		return nil, nil, access, requireProjectRole(ctx, &s.BaseService, access, domain.RoleAdmin, domain.RoleMember)
	}
	return task, project, access, nil
}

// checkAssignee requires the assignee to belong to the workspace; members may only assign themselves.
func (s *taskService) checkAssignee(ctx context.Context, rc domain.RequestContext, access domain.ProjectAccess, assigneeID string) error {
	if assigneeID != rc.UserID && !s.filter.CanReassignTask(access) {
		return apperrors.NewForbiddenError("only admins can assign tasks to other users")
	}
	role, err := s.access.ResolveWorkspaceRole(ctx, assigneeID, rc.WorkspaceID)
	if err != nil {
		return err
	}
	if role == nil {
		return apperrors.NewValidationError("assignedToUserID", "is not a member of the workspace", assigneeID)
	}
	return nil
}

func (s *taskService) publishAssigned(ctx context.Context, rc domain.RequestContext, task domain.Task, previous *string) {
	props := map[string]any{}
	if task.AssignedToUserID != nil {
		props["assigned_to_user_id"] = *task.AssignedToUserID
	}
	if previous != nil {
		props["previous_user_id"] = *previous
	}
	s.publish(ctx, domain.BoardEvent{
		Type:        domain.EventTaskAssigned,
		WorkspaceID: rc.WorkspaceID,
		ProjectID:   task.ProjectID,
		ActorUserID: rc.UserID,
		SubjectID:   task.TaskID,
		Properties:  props,
	})
}

func (s *taskService) taskEvent(t domain.EventType, rc domain.RequestContext, access domain.ProjectAccess, task domain.Task, props map[string]any) domain.BoardEvent {
	return domain.BoardEvent{
		Type:        t,
		WorkspaceID: rc.WorkspaceID,
		ProjectID:   access.ProjectID,
		ActorUserID: rc.UserID,
		SubjectID:   task.TaskID,
		Properties:  props,
	}
}

func (s *taskService) logTaskFailure(ctx context.Context, err error, op string, keyvals ...any) {
	switch {
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrForbidden), errors.Is(err, apperrors.ErrNotFound):
		s.LogWarn(ctx, "Rejected "+op, append(keyvals, slog.String("reason", err.Error()))...)
	default:
		s.LogError(ctx, err, "Failed to "+op, keyvals...)
	}
}

// lockTargetGroup locks a group that must be active and belong to projectID.
func lockTargetGroup(ctx context.Context, tx portsrepo.BoardTx, groupID, projectID string) (*domain.TaskGroup, error) {
	group, err := tx.FindGroupForUpdate(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group.ProjectID != projectID {
		return nil, apperrors.NewValidationError("groupID", "does not belong to the task's project", groupID)
	}
	if group.State.IsArchived() {
		return nil, apperrors.NewNotFoundError("task group is archived")
	}
	return group, nil
}

// nextOrderColumn is max(order_column)+1 within the group, or 0 for an empty group.
func nextOrderColumn(ctx context.Context, tx portsrepo.BoardTx, groupID string) (int, error) {
	maxOrder, err := tx.MaxOrderColumn(ctx, groupID)
	if err != nil {
		return 0, err
	}
	if maxOrder == nil {
		return 0, nil
	}
	return *maxOrder + 1, nil
}

// reassigns reports whether applying patch would change the task's assignee.
func reassigns(task domain.Task, patch portssvc.TaskPatch) bool {
	if patch.Unassign {
		return !task.IsUnassigned()
	}
	if patch.AssignedToUserID == nil {
		return false
	}
	return !task.IsAssignedTo(*patch.AssignedToUserID)
}

// applyTaskPatch mutates task and reports whether anything changed.
func applyTaskPatch(task *domain.Task, patch portssvc.TaskPatch) bool {
	changed := false
	if patch.Name != nil && *patch.Name != task.Name {
		task.Name = *patch.Name
		changed = true
	}
	if patch.Description != nil && *patch.Description != task.Description {
		task.Description = *patch.Description
		changed = true
	}
	switch {
	case patch.ClearDueOn:
		if task.DueOn != nil {
			task.DueOn = nil
			changed = true
		}
	case patch.DueOn != nil:
		if task.DueOn == nil || !sameDate(*task.DueOn, *patch.DueOn) {
			due := *patch.DueOn
			task.DueOn = &due
			changed = true
		}
	}
	if patch.Priority != nil && *patch.Priority != task.Priority {
		task.Priority = *patch.Priority
		changed = true
	}
	if reassigns(*task, patch) {
		if patch.Unassign {
			task.AssignedToUserID = nil
		} else {
			assignee := *patch.AssignedToUserID
			task.AssignedToUserID = &assignee
		}
		changed = true
	}
	if patch.HiddenFromClients != nil && *patch.HiddenFromClients != task.HiddenFromClients {
		task.HiddenFromClients = *patch.HiddenFromClients
		changed = true
	}
	return changed
}

// validateDueOn rejects a due_on after the project's due_date, compared by calendar date.
func validateDueOn(dueOn *time.Time, project *domain.Project) error {
	if dueOn == nil || project == nil || project.DueDate == nil {
		return nil
	}
	if dateOnly(*dueOn).After(dateOnly(*project.DueDate)) {
		return apperrors.NewValidationError("dueOn", fmt.Sprintf("must not be after the project due date %s",
			project.DueDate.Format(time.DateOnly)))
	}
	return nil
}

func validateTaskName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperrors.NewValidationError("name", "must not be empty")
	}
	if len(name) > maxTaskNameLength {
		return "", apperrors.NewValidationError("name", fmt.Sprintf("must be at most %d characters", maxTaskNameLength))
	}
	return name, nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sameDate(a, b time.Time) bool {
	return dateOnly(a).Equal(dateOnly(b))
}
