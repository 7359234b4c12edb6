package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/taskboard_app/internal/apperrors"
	"github.com/SscSPs/taskboard_app/internal/core/domain"
	portsrepo "github.com/SscSPs/taskboard_app/internal/core/ports/repositories"
	"github.com/SscSPs/taskboard_app/internal/models"
	"github.com/SscSPs/taskboard_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxBoardRepository reads task groups and tasks and runs board transactions.
type PgxBoardRepository struct {
	BaseRepository
}

func newPgxBoardRepository(pool *pgxpool.Pool) *PgxBoardRepository {
	return &PgxBoardRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.BoardRepositoryFacade = (*PgxBoardRepository)(nil)

const taskGroupSelectQuery = `
SELECT
	g.group_id, g.project_id, g.name, g.group_type, g.position, g.archived_at,
	g.created_at, g.created_by, g.last_updated_at, g.last_updated_by
FROM task_groups g
`

const taskSelectQuery = `
SELECT
	t.task_id, t.project_id, t.group_id, t.name, t.description, t.assigned_to_user_id,
	t.created_by_user_id, t.order_column, t.completed_at, t.completion_override,
	t.hidden_from_clients, t.priority, t.due_on, t.archived_at,
	t.created_at, t.created_by, t.last_updated_at, t.last_updated_by
FROM tasks t
`

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func queryGroups(ctx context.Context, db querier, filterQuery string, args ...any) ([]domain.TaskGroup, error) {
	rows, err := db.Query(ctx, taskGroupSelectQuery+filterQuery, args...)
	if err != nil {
		return nil, mapWriteError(err, "failed to query task groups")
	}
	defer rows.Close()

	modelGroups, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.TaskGroup])
	if err != nil {
		return nil, mapWriteError(err, "failed to collect task group rows")
	}
	return mapping.ToDomainTaskGroupSlice(modelGroups), nil
}

func queryTasks(ctx context.Context, db querier, filterQuery string, args ...any) ([]domain.Task, error) {
	rows, err := db.Query(ctx, taskSelectQuery+filterQuery, args...)
	if err != nil {
		return nil, mapWriteError(err, "failed to query tasks")
	}
	defer rows.Close()

	modelTasks, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Task])
	if err != nil {
		return nil, mapWriteError(err, "failed to collect task rows")
	}
	return mapping.ToDomainTaskSlice(modelTasks), nil
}

// RunInTx hands fn a BoardTx bound to a single pgx transaction.
func (r *PgxBoardRepository) RunInTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.BoardTx) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(ctx, &pgxBoardTx{tx: tx})
	})
}

func (r *PgxBoardRepository) FindGroupByID(ctx context.Context, groupID string) (*domain.TaskGroup, error) {
	groups, err := queryGroups(ctx, r.Pool, `WHERE g.group_id = $1`, groupID)
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return nil, apperrors.NewNotFoundError("task group not found")
	}
	return &groups[0], nil
}

func (r *PgxBoardRepository) ListGroupsByProject(ctx context.Context, projectID string, includeArchived bool) ([]domain.TaskGroup, error) {
	query := `WHERE g.project_id = $1`
	if !includeArchived {
		query += ` AND g.archived_at IS NULL`
	}
	return queryGroups(ctx, r.Pool, query+` ORDER BY g.position;`, projectID)
}

func (r *PgxBoardRepository) FindTaskByID(ctx context.Context, taskID string) (*domain.Task, error) {
	tasks, err := queryTasks(ctx, r.Pool, `WHERE t.task_id = $1`, taskID)
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, apperrors.NewNotFoundError("task not found")
	}
	return &tasks[0], nil
}

// ListTasks orders by board column, then by position within the column. Tasks outside
// any column come last.
func (r *PgxBoardRepository) ListTasks(ctx context.Context, scope domain.TaskScope, filter portsrepo.TaskFilter) ([]domain.Task, error) {
	where := taskScopeWhere(scope, filter)
	query := `LEFT JOIN task_groups g ON g.group_id = t.group_id` + where.String() +
		` ORDER BY g.position NULLS LAST, t.order_column, t.created_at, t.task_id;`
	return queryTasks(ctx, r.Pool, query, where.args...)
}

// pgxBoardTx implements portsrepo.BoardTx on one open transaction.
type pgxBoardTx struct {
	tx pgx.Tx
}

var _ portsrepo.BoardTx = (*pgxBoardTx)(nil)

func (b *pgxBoardTx) InsertProject(ctx context.Context, project domain.Project) error {
	return insertProject(ctx, b.tx, project)
}

func (b *pgxBoardTx) InsertProjectMembership(ctx context.Context, membership domain.ProjectMembership) error {
	return upsertProjectMembership(ctx, b.tx, membership)
}

func (b *pgxBoardTx) LockGroupsByProject(ctx context.Context, projectID string) ([]domain.TaskGroup, error) {
	return queryGroups(ctx, b.tx, `WHERE g.project_id = $1 ORDER BY g.position FOR UPDATE;`, projectID)
}

func (b *pgxBoardTx) FindGroupForUpdate(ctx context.Context, groupID string) (*domain.TaskGroup, error) {
	groups, err := queryGroups(ctx, b.tx, `WHERE g.group_id = $1 FOR UPDATE;`, groupID)
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return nil, apperrors.NewNotFoundError("task group not found")
	}
	return &groups[0], nil
}

func (b *pgxBoardTx) LockTasksByGroups(ctx context.Context, groupIDs []string) ([]domain.Task, error) {
	if len(groupIDs) == 0 {
		return []domain.Task{}, nil
	}
	return queryTasks(ctx, b.tx, `WHERE t.group_id = ANY($1) ORDER BY t.task_id FOR UPDATE;`, groupIDs)
}

// ShiftGroupPositions is a single statement; the position uniqueness check is deferred
// to commit so intermediate collisions do not fail it.
func (b *pgxBoardTx) ShiftGroupPositions(ctx context.Context, projectID string, fromPosition, delta int) error {
	_, err := b.tx.Exec(ctx, `
		UPDATE task_groups SET position = position + $1
		WHERE project_id = $2 AND position >= $3;`,
		delta, projectID, fromPosition,
	)
	if err != nil {
		return mapWriteError(err, "failed to shift task group positions")
	}
	return nil
}

func (b *pgxBoardTx) InsertGroup(ctx context.Context, group domain.TaskGroup) error {
	m := mapping.ToModelTaskGroup(group)
	_, err := b.tx.Exec(ctx, `
		INSERT INTO task_groups (
			group_id, project_id, name, group_type, position, archived_at,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);`,
		m.GroupID, m.ProjectID, m.Name, m.GroupType, m.Position, m.ArchivedAt,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, "failed to save task group "+group.GroupID)
	}
	return nil
}

func (b *pgxBoardTx) UpdateGroup(ctx context.Context, group domain.TaskGroup) error {
	m := mapping.ToModelTaskGroup(group)
	ct, err := b.tx.Exec(ctx, `
		UPDATE task_groups
		SET name = $1, archived_at = $2, last_updated_at = $3, last_updated_by = $4
		WHERE group_id = $5;`,
		m.Name, m.ArchivedAt, m.LastUpdatedAt, m.LastUpdatedBy, m.GroupID,
	)
	if err != nil {
		return mapWriteError(err, "failed to update task group "+group.GroupID)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("task group not found")
	}
	return nil
}

// UpdateGroupPositions queues one UPDATE per group and sends them as a single batch.
func (b *pgxBoardTx) UpdateGroupPositions(ctx context.Context, positions map[string]int, userID string, now time.Time) error {
	query := `
		UPDATE task_groups SET position = $2, last_updated_at = $3, last_updated_by = $4
		WHERE group_id = $1;
	`
	return b.sendOrderingBatch(ctx, query, positions, userID, now, "task group")
}

func (b *pgxBoardTx) DeleteGroup(ctx context.Context, groupID string) error {
	ct, err := b.tx.Exec(ctx, `DELETE FROM task_groups WHERE group_id = $1;`, groupID)
	if err != nil {
		return mapWriteError(err, "failed to delete task group "+groupID)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("task group not found")
	}
	return nil
}

func (b *pgxBoardTx) CountActiveTasksInGroup(ctx context.Context, groupID string) (int, error) {
	var n int
	err := b.tx.QueryRow(ctx, `SELECT COUNT(*) FROM tasks WHERE group_id = $1 AND archived_at IS NULL;`, groupID).Scan(&n)
	if err != nil {
		return 0, mapWriteError(err, "failed to count tasks of group "+groupID)
	}
	return n, nil
}

// MaxOrderColumn must run after the group row is locked.
func (b *pgxBoardTx) MaxOrderColumn(ctx context.Context, groupID string) (*int, error) {
	var maxOrder *int
	err := b.tx.QueryRow(ctx, `SELECT MAX(order_column) FROM tasks WHERE group_id = $1;`, groupID).Scan(&maxOrder)
	if err != nil {
		return nil, mapWriteError(err, "failed to read task order of group "+groupID)
	}
	return maxOrder, nil
}

func (b *pgxBoardTx) FindTaskForUpdate(ctx context.Context, taskID string) (*domain.Task, error) {
	tasks, err := queryTasks(ctx, b.tx, `WHERE t.task_id = $1 FOR UPDATE;`, taskID)
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, apperrors.NewNotFoundError("task not found")
	}
	return &tasks[0], nil
}

func (b *pgxBoardTx) FindTasksForUpdate(ctx context.Context, taskIDs []string) (map[string]domain.Task, error) {
	if len(taskIDs) == 0 {
		return map[string]domain.Task{}, nil
	}
	tasks, err := queryTasks(ctx, b.tx, `WHERE t.task_id = ANY($1) ORDER BY t.task_id FOR UPDATE;`, taskIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]domain.Task, len(tasks))
	for _, t := range tasks {
		byID[t.TaskID] = t
	}
	return byID, nil
}

func (b *pgxBoardTx) InsertTask(ctx context.Context, task domain.Task) error {
	m := mapping.ToModelTask(task)
	_, err := b.tx.Exec(ctx, `
		INSERT INTO tasks (
			task_id, project_id, group_id, name, description, assigned_to_user_id,
			created_by_user_id, order_column, completed_at, completion_override,
			hidden_from_clients, priority, due_on, archived_at,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);`,
		m.TaskID, m.ProjectID, m.GroupID, m.Name, m.Description, m.AssignedToUserID,
		m.CreatedByUserID, m.OrderColumn, m.CompletedAt, m.CompletionOverride,
		m.HiddenFromClients, m.Priority, m.DueOn, m.ArchivedAt,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, "failed to save task "+task.TaskID)
	}
	return nil
}

// UpdateTask writes every mutable column in one statement. The owning project and the
// creation fields never change.
func (b *pgxBoardTx) UpdateTask(ctx context.Context, task domain.Task) error {
	m := mapping.ToModelTask(task)
	ct, err := b.tx.Exec(ctx, `
		UPDATE tasks
		SET group_id = $1, name = $2, description = $3, assigned_to_user_id = $4,
			order_column = $5, completed_at = $6, completion_override = $7,
			hidden_from_clients = $8, priority = $9, due_on = $10, archived_at = $11,
			last_updated_at = $12, last_updated_by = $13
		WHERE task_id = $14;`,
		m.GroupID, m.Name, m.Description, m.AssignedToUserID,
		m.OrderColumn, m.CompletedAt, m.CompletionOverride,
		m.HiddenFromClients, m.Priority, m.DueOn, m.ArchivedAt,
		m.LastUpdatedAt, m.LastUpdatedBy, m.TaskID,
	)
	if err != nil {
		return mapWriteError(err, "failed to update task "+task.TaskID)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("task not found")
	}
	return nil
}

// UpdateTaskOrders queues one UPDATE per task and sends them as a single batch.
func (b *pgxBoardTx) UpdateTaskOrders(ctx context.Context, orders map[string]int, userID string, now time.Time) error {
	query := `
		UPDATE tasks SET order_column = $2, last_updated_at = $3, last_updated_by = $4
		WHERE task_id = $1;
	`
	return b.sendOrderingBatch(ctx, query, orders, userID, now, "task")
}

// sendOrderingBatch runs query once per (id, value) pair and checks every result.
func (b *pgxBoardTx) sendOrderingBatch(ctx context.Context, query string, values map[string]int, userID string, now time.Time, entity string) error {
	if len(values) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	ids := make([]string, 0, len(values))
	for id, value := range values {
		batch.Queue(query, id, value, now, userID)
		ids = append(ids, id)
	}

	br := b.tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		ct, err := br.Exec()
		if err != nil {
			if batchErr == nil {
				batchErr = mapWriteError(err, fmt.Sprintf("failed to update %s %s", entity, ids[i]))
			}
		} else if ct.RowsAffected() == 0 && batchErr == nil {
			batchErr = apperrors.NewNotFoundError(entity + " " + ids[i] + " not found")
		}
	}

	// Important: Close the batch results to check for errors in each command
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = mapWriteError(err, "failed to close "+entity+" ordering batch")
	}
	return batchErr
}
