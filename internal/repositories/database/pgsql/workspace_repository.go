package pgsql

import (
	"context"

	"github.com/SscSPs/taskboard_app/internal/apperrors"
	"github.com/SscSPs/taskboard_app/internal/core/domain"
	portsrepo "github.com/SscSPs/taskboard_app/internal/core/ports/repositories"
	"github.com/SscSPs/taskboard_app/internal/models"
	"github.com/SscSPs/taskboard_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxWorkspaceRepository struct {
	BaseRepository
}

// newPgxWorkspaceRepository creates a new repository for workspace data.
func newPgxWorkspaceRepository(pool *pgxpool.Pool) *PgxWorkspaceRepository {
	return &PgxWorkspaceRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxWorkspaceRepository implements portsrepo.WorkspaceRepositoryFacade
var _ portsrepo.WorkspaceRepositoryFacade = (*PgxWorkspaceRepository)(nil)

const workspaceSelectQuery = `
SELECT
	w.workspace_id, w.name, w.description,
	w.created_at, w.created_by, w.last_updated_at, w.last_updated_by
FROM workspaces w
`

const workspaceMembershipSelectQuery = `
SELECT wm.workspace_id, wm.user_id, wm.role, wm.joined_at
FROM workspace_memberships wm
`

// getWorkspaces runs the select query with the given filter.
func (r *PgxWorkspaceRepository) getWorkspaces(ctx context.Context, filterQuery string, args ...any) ([]domain.Workspace, error) {
	rows, err := r.Pool.Query(ctx, workspaceSelectQuery+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query workspaces", err)
	}
	defer rows.Close()

	modelWorkspaces, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Workspace])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect workspace rows", err)
	}
	return mapping.ToDomainWorkspaceSlice(modelWorkspaces), nil
}

func (r *PgxWorkspaceRepository) getMemberships(ctx context.Context, filterQuery string, args ...any) ([]domain.WorkspaceMembership, error) {
	rows, err := r.Pool.Query(ctx, workspaceMembershipSelectQuery+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query workspace memberships", err)
	}
	defer rows.Close()

	modelMemberships, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.WorkspaceMembership])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect workspace membership rows", err)
	}
	return mapping.ToDomainWorkspaceMembershipSlice(modelMemberships), nil
}

// SaveWorkspace inserts the workspace and its creator's membership in one transaction.
func (r *PgxWorkspaceRepository) SaveWorkspace(ctx context.Context, workspace domain.Workspace, creator domain.WorkspaceMembership) error {
	m := mapping.ToModelWorkspace(workspace)
	return r.inTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO workspaces (
				workspace_id, name, description,
				created_at, created_by, last_updated_at, last_updated_by
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7);`,
			m.WorkspaceID, m.Name, m.Description,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
		)
		if err != nil {
			return mapWriteError(err, "failed to save workspace "+workspace.WorkspaceID)
		}
		return upsertWorkspaceMembership(ctx, tx, creator)
	})
}

func (r *PgxWorkspaceRepository) FindWorkspaceByID(ctx context.Context, workspaceID string) (*domain.Workspace, error) {
	workspaces, err := r.getWorkspaces(ctx, `WHERE w.workspace_id = $1`, workspaceID)
	if err != nil {
		return nil, err
	}
	if len(workspaces) == 0 {
		return nil, apperrors.NewNotFoundError("workspace not found")
	}
	return &workspaces[0], nil
}

func (r *PgxWorkspaceRepository) ListWorkspacesByUserID(ctx context.Context, userID string) ([]domain.Workspace, error) {
	query := `JOIN workspace_memberships wm ON w.workspace_id = wm.workspace_id WHERE wm.user_id = $1 ORDER BY w.name;`
	return r.getWorkspaces(ctx, query, userID)
}

// UpsertWorkspaceMembership adds a user or updates their role if they already exist.
func (r *PgxWorkspaceRepository) UpsertWorkspaceMembership(ctx context.Context, membership domain.WorkspaceMembership) error {
	return upsertWorkspaceMembership(ctx, r.Pool, membership)
}

func upsertWorkspaceMembership(ctx context.Context, db execer, membership domain.WorkspaceMembership) error {
	_, err := db.Exec(ctx, `
		INSERT INTO workspace_memberships (workspace_id, user_id, role, joined_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (workspace_id, user_id) DO UPDATE SET role = EXCLUDED.role;`,
		membership.WorkspaceID, membership.UserID, string(membership.Role), membership.JoinedAt,
	)
	if err != nil {
		return mapWriteError(err, "failed to add/update user "+membership.UserID+" in workspace "+membership.WorkspaceID)
	}
	return nil
}

func (r *PgxWorkspaceRepository) FindWorkspaceMembership(ctx context.Context, userID, workspaceID string) (*domain.WorkspaceMembership, error) {
	memberships, err := r.getMemberships(ctx, `WHERE wm.user_id = $1 AND wm.workspace_id = $2`, userID, workspaceID)
	if err != nil {
		return nil, err
	}
	if len(memberships) == 0 {
		return nil, apperrors.NewNotFoundError("workspace membership not found")
	}
	return &memberships[0], nil
}

func (r *PgxWorkspaceRepository) DeleteWorkspaceMembership(ctx context.Context, userID, workspaceID string) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		ct, err := tx.Exec(ctx, `DELETE FROM workspace_memberships WHERE user_id = $1 AND workspace_id = $2;`, userID, workspaceID)
		if err != nil {
			return mapWriteError(err, "failed to remove user "+userID+" from workspace "+workspaceID)
		}
		if ct.RowsAffected() == 0 {
			return apperrors.NewNotFoundError("workspace membership not found")
		}
		// Project roles only exist on top of a workspace role.
		_, err = tx.Exec(ctx, `
			DELETE FROM project_memberships pm
			USING projects p
			WHERE pm.project_id = p.project_id AND p.workspace_id = $1 AND pm.user_id = $2;`,
			workspaceID, userID,
		)
		if err != nil {
			return mapWriteError(err, "failed to remove user "+userID+" from projects of workspace "+workspaceID)
		}
		return nil
	})
}

func (r *PgxWorkspaceRepository) ListWorkspaceMemberships(ctx context.Context, workspaceID string) ([]domain.WorkspaceMembership, error) {
	return r.getMemberships(ctx, `WHERE wm.workspace_id = $1 ORDER BY wm.joined_at, wm.user_id;`, workspaceID)
}
