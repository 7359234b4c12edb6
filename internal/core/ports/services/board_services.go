package services

import (
	"context"
	"time"

	"github.com/SscSPs/taskboard_app/internal/core/domain"
)

// TaskGroupSvc owns the lifecycle and positions of board columns.
type TaskGroupSvc interface {
	// InitializeSystemGroups creates "To Do", "In Progress" and "Complete" for a project.
	// It is safe to call again: a board with each system group exactly once is returned as it
	// is. Otherwise missing system groups are seeded and duplicates dropped, their tasks moved
	// to the surviving group of the same name. Custom groups are kept.
	InitializeSystemGroups(ctx context.Context, rc domain.RequestContext, projectID string) ([]domain.TaskGroup, error)

	// ListGroups returns the groups of a project ordered by position.
	ListGroups(ctx context.Context, rc domain.RequestContext, projectID string, includeArchived bool) ([]domain.TaskGroup, error)

	// CreateCustomGroup inserts a custom group immediately before "Complete".
	CreateCustomGroup(ctx context.Context, rc domain.RequestContext, projectID, name string) (*domain.TaskGroup, error)

	// RenameGroup renames a custom group.
	RenameGroup(ctx context.Context, rc domain.RequestContext, groupID, newName string) (*domain.TaskGroup, error)

	// DeleteGroup removes an empty custom group.
	DeleteGroup(ctx context.Context, rc domain.RequestContext, groupID string) error

	// ReorderGroups assigns the given positions, which must cover every group of the project as 1..N.
	ReorderGroups(ctx context.Context, rc domain.RequestContext, projectID string, positions map[string]int) ([]domain.TaskGroup, error)

	// ArchiveGroup soft-deletes a group without changing its position.
	ArchiveGroup(ctx context.Context, rc domain.RequestContext, groupID string) (*domain.TaskGroup, error)

	// RestoreGroup clears the archive state without changing its position.
	RestoreGroup(ctx context.Context, rc domain.RequestContext, groupID string) (*domain.TaskGroup, error)
}

// CreateTaskInput carries the fields of a new task.
type CreateTaskInput struct {
	Name              string
	Description       string
	GroupID           *string
	AssignedToUserID  *string
	Priority          domain.TaskPriority
	DueOn             *time.Time
	HiddenFromClients bool
}

// TaskPatch is a generic field patch; nil fields are left unchanged.
type TaskPatch struct {
	Name              *string
	Description       *string
	DueOn             *time.Time
	ClearDueOn        bool
	Priority          *domain.TaskPriority
	AssignedToUserID  *string
	Unassign          bool
	HiddenFromClients *bool
}

// TaskSvc owns task placement, intra-column order and field updates.
type TaskSvc interface {
	// CreateTask adds a task, placed at the end of its group when one is given.
	CreateTask(ctx context.Context, rc domain.RequestContext, projectID string, in CreateTaskInput) (*domain.Task, error)

	// GetTask returns a task visible to the caller.
	GetTask(ctx context.Context, rc domain.RequestContext, taskID string) (*domain.Task, error)

	// ListTasks returns the project's tasks visible to the caller.
	ListTasks(ctx context.Context, rc domain.RequestContext, projectID string, groupID *string) ([]domain.Task, error)

	// MoveToGroup places a task at the end of the target group and applies the completion rule.
	MoveToGroup(ctx context.Context, rc domain.RequestContext, taskID, targetGroupID string, completionOverride *bool) (*domain.Task, error)

	// ReorderWithinProject sets order_column = index+1 following orderedTaskIDs.
	ReorderWithinProject(ctx context.Context, rc domain.RequestContext, projectID string, orderedTaskIDs []string) error

	// UpdateTask applies a field patch as one write.
	UpdateTask(ctx context.Context, rc domain.RequestContext, taskID string, patch TaskPatch) (*domain.Task, error)

	// ArchiveTask soft-deletes a task.
	ArchiveTask(ctx context.Context, rc domain.RequestContext, taskID string) error

	// RestoreTask reverses ArchiveTask. Admin only.
	RestoreTask(ctx context.Context, rc domain.RequestContext, taskID string) error
}
