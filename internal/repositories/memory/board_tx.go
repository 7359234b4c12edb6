package memory

import (
	"context"
	"sort"
	"time"

	"github.com/SscSPs/taskboard_app/internal/apperrors"
	"github.com/SscSPs/taskboard_app/internal/core/domain"
	portsrepo "github.com/SscSPs/taskboard_app/internal/core/ports/repositories"
)

// boardTx runs against the store while RunInTx holds its write lock.
type boardTx struct {
	s *Store
}

var _ portsrepo.BoardTx = (*boardTx)(nil)

func (tx *boardTx) InsertProject(_ context.Context, project domain.Project) error {
	if _, exists := tx.s.projects[project.ProjectID]; exists {
		return apperrors.NewConflictError("project ID " + project.ProjectID + " already exists")
	}
	if _, ok := tx.s.workspaces[project.WorkspaceID]; !ok {
		return apperrors.NewValidationFailedError("workspace does not exist")
	}
	tx.s.projects[project.ProjectID] = project
	return nil
}

func (tx *boardTx) InsertProjectMembership(_ context.Context, membership domain.ProjectMembership) error {
	return tx.s.upsertProjectMembership(membership)
}

func (tx *boardTx) LockGroupsByProject(_ context.Context, projectID string) ([]domain.TaskGroup, error) {
	return tx.s.groupsOf(projectID), nil
}

func (tx *boardTx) FindGroupForUpdate(_ context.Context, groupID string) (*domain.TaskGroup, error) {
	g, ok := tx.s.groups[groupID]
	if !ok {
		return nil, apperrors.NewNotFoundError("task group not found")
	}
	return &g, nil
}

func (tx *boardTx) LockTasksByGroups(_ context.Context, groupIDs []string) ([]domain.Task, error) {
	wanted := make(map[string]struct{}, len(groupIDs))
	for _, id := range groupIDs {
		wanted[id] = struct{}{}
	}
	out := []domain.Task{}
	for _, t := range tx.s.tasks {
		if t.GroupID == nil {
			continue
		}
		if _, ok := wanted[*t.GroupID]; ok {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TaskID < out[j].TaskID })
	return out, nil
}

func (tx *boardTx) ShiftGroupPositions(_ context.Context, projectID string, fromPosition, delta int) error {
	for id, g := range tx.s.groups {
		if g.ProjectID == projectID && g.Position >= fromPosition {
			g.Position += delta
			tx.s.groups[id] = g
		}
	}
	return nil
}

func (tx *boardTx) InsertGroup(_ context.Context, group domain.TaskGroup) error {
	if _, exists := tx.s.groups[group.GroupID]; exists {
		return apperrors.NewConflictError("task group ID " + group.GroupID + " already exists")
	}
	if _, ok := tx.s.projects[group.ProjectID]; !ok {
		return apperrors.NewValidationFailedError("project does not exist")
	}
	for _, g := range tx.s.groups {
		if g.ProjectID == group.ProjectID && g.Position == group.Position {
			return apperrors.NewWriteConflictError("duplicate task group position", nil)
		}
	}
	tx.s.groups[group.GroupID] = group
	return nil
}

func (tx *boardTx) UpdateGroup(_ context.Context, group domain.TaskGroup) error {
	existing, ok := tx.s.groups[group.GroupID]
	if !ok {
		return apperrors.NewNotFoundError("task group not found")
	}
	existing.Name = group.Name
	existing.State = group.State
	existing.LastUpdatedAt = group.LastUpdatedAt
	existing.LastUpdatedBy = group.LastUpdatedBy
	tx.s.groups[group.GroupID] = existing
	return nil
}

func (tx *boardTx) UpdateGroupPositions(_ context.Context, positions map[string]int, userID string, now time.Time) error {
	for id, pos := range positions {
		g, ok := tx.s.groups[id]
		if !ok {
			return apperrors.NewNotFoundError("task group not found")
		}
		g.Position = pos
		g.Touch(userID, now)
		tx.s.groups[id] = g
	}
	return nil
}

// DeleteGroup detaches the group's tasks, like ON DELETE SET NULL.
func (tx *boardTx) DeleteGroup(_ context.Context, groupID string) error {
	if _, ok := tx.s.groups[groupID]; !ok {
		return apperrors.NewNotFoundError("task group not found")
	}
	tx.detachTasks(groupID)
	delete(tx.s.groups, groupID)
	return nil
}

func (tx *boardTx) detachTasks(groupID string) {
	for id, t := range tx.s.tasks {
		if t.GroupID != nil && *t.GroupID == groupID {
			t.GroupID = nil
			tx.s.tasks[id] = t
		}
	}
}

func (tx *boardTx) CountActiveTasksInGroup(_ context.Context, groupID string) (int, error) {
	n := 0
	for _, t := range tx.s.tasks {
		if t.GroupID != nil && *t.GroupID == groupID && t.State.IsActive() {
			n++
		}
	}
	return n, nil
}

func (tx *boardTx) MaxOrderColumn(_ context.Context, groupID string) (*int, error) {
	var maxOrder *int
	for _, t := range tx.s.tasks {
		if t.GroupID == nil || *t.GroupID != groupID {
			continue
		}
		if maxOrder == nil || t.OrderColumn > *maxOrder {
			v := t.OrderColumn
			maxOrder = &v
		}
	}
	return maxOrder, nil
}

func (tx *boardTx) FindTaskForUpdate(_ context.Context, taskID string) (*domain.Task, error) {
	t, ok := tx.s.tasks[taskID]
	if !ok {
		return nil, apperrors.NewNotFoundError("task not found")
	}
	return &t, nil
}

func (tx *boardTx) FindTasksForUpdate(_ context.Context, taskIDs []string) (map[string]domain.Task, error) {
	out := make(map[string]domain.Task, len(taskIDs))
	for _, id := range taskIDs {
		if t, ok := tx.s.tasks[id]; ok {
			out[id] = t
		}
	}
	return out, nil
}

func (tx *boardTx) InsertTask(_ context.Context, task domain.Task) error {
	if _, exists := tx.s.tasks[task.TaskID]; exists {
		return apperrors.NewConflictError("task ID " + task.TaskID + " already exists")
	}
	if _, ok := tx.s.projects[task.ProjectID]; !ok {
		return apperrors.NewValidationFailedError("project does not exist")
	}
	tx.s.tasks[task.TaskID] = task
	return nil
}

func (tx *boardTx) UpdateTask(_ context.Context, task domain.Task) error {
	existing, ok := tx.s.tasks[task.TaskID]
	if !ok {
		return apperrors.NewNotFoundError("task not found")
	}
	task.CreatedAt = existing.CreatedAt
	task.CreatedBy = existing.CreatedBy
	task.CreatedByUserID = existing.CreatedByUserID
	task.ProjectID = existing.ProjectID
	tx.s.tasks[task.TaskID] = task
	return nil
}

func (tx *boardTx) UpdateTaskOrders(_ context.Context, orders map[string]int, userID string, now time.Time) error {
	for id, order := range orders {
		t, ok := tx.s.tasks[id]
		if !ok {
			return apperrors.NewNotFoundError("task not found")
		}
		t.OrderColumn = order
		t.Touch(userID, now)
		tx.s.tasks[id] = t
	}
	return nil
}
