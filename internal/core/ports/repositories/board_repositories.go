package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/taskboard_app/internal/core/domain"
)

// TaskFilter narrows a scoped task listing.
type TaskFilter struct {
	GroupID         *string
	IncludeArchived bool // only honored for ScopeAll
}

// BoardReader defines non-locking reads of groups and tasks.
type BoardReader interface {
	// FindGroupByID retrieves a group regardless of its archive state.
	FindGroupByID(ctx context.Context, groupID string) (*domain.TaskGroup, error)

	// ListGroupsByProject lists groups ordered by position.
	ListGroupsByProject(ctx context.Context, projectID string, includeArchived bool) ([]domain.TaskGroup, error)

	// FindTaskByID retrieves a task regardless of its archive state.
	FindTaskByID(ctx context.Context, taskID string) (*domain.Task, error)

	// ListTasks returns the tasks matched by scope, ordered by group position then order_column.
	ListTasks(ctx context.Context, scope domain.TaskScope, filter TaskFilter) ([]domain.Task, error)
}

// BoardTx is the set of writes and locking reads available inside one board transaction.
// Every method runs on the same underlying database transaction.
type BoardTx interface {
	// InsertProject persists a new project row.
	InsertProject(ctx context.Context, project domain.Project) error

	// InsertProjectMembership adds a team row inside the transaction.
	InsertProjectMembership(ctx context.Context, membership domain.ProjectMembership) error

	// LockGroupsByProject returns every group of a project (archived included), ordered by
	// position, holding row locks until the transaction ends.
	LockGroupsByProject(ctx context.Context, projectID string) ([]domain.TaskGroup, error)

	// FindGroupForUpdate locks and returns a single group.
	FindGroupForUpdate(ctx context.Context, groupID string) (*domain.TaskGroup, error)

	// LockTasksByGroups locks and returns every task (archived included) sitting in one of groupIDs.
	LockTasksByGroups(ctx context.Context, groupIDs []string) ([]domain.Task, error)

	// ShiftGroupPositions adds delta to the position of every group at or after fromPosition.
	ShiftGroupPositions(ctx context.Context, projectID string, fromPosition, delta int) error

	// InsertGroup persists a new group row.
	InsertGroup(ctx context.Context, group domain.TaskGroup) error

	// UpdateGroup persists name, archive state and audit fields of a group.
	UpdateGroup(ctx context.Context, group domain.TaskGroup) error

	// UpdateGroupPositions writes all positions as one batch.
	UpdateGroupPositions(ctx context.Context, positions map[string]int, userID string, now time.Time) error

	// DeleteGroup removes a group row.
	DeleteGroup(ctx context.Context, groupID string) error

	// CountActiveTasksInGroup counts non-archived tasks in a group.
	CountActiveTasksInGroup(ctx context.Context, groupID string) (int, error)

	// MaxOrderColumn returns the highest order_column in a group, nil when it holds no tasks.
	MaxOrderColumn(ctx context.Context, groupID string) (*int, error)

	// FindTaskForUpdate locks and returns a single task.
	FindTaskForUpdate(ctx context.Context, taskID string) (*domain.Task, error)

	// FindTasksForUpdate locks and returns the tasks with the given ids, keyed by id.
	// Missing ids are simply absent from the map.
	FindTasksForUpdate(ctx context.Context, taskIDs []string) (map[string]domain.Task, error)

	// InsertTask persists a new task row.
	InsertTask(ctx context.Context, task domain.Task) error

	// UpdateTask persists every mutable column of a task in one write.
	UpdateTask(ctx context.Context, task domain.Task) error

	// UpdateTaskOrders writes all order_column values as one batch.
	UpdateTaskOrders(ctx context.Context, orders map[string]int, userID string, now time.Time) error
}

// BoardRepositoryFacade combines board reads with the transactional unit of work.
type BoardRepositoryFacade interface {
	BoardReader
	TxRunner
}
