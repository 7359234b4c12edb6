package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/taskboard_app/internal/apperrors"
	"github.com/SscSPs/taskboard_app/internal/core/domain"
	portsrepo "github.com/SscSPs/taskboard_app/internal/core/ports/repositories"
	"github.com/SscSPs/taskboard_app/internal/models"
	"github.com/SscSPs/taskboard_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxProjectRepository struct {
	BaseRepository
}

// newPgxProjectRepository creates a new repository for project data.
func newPgxProjectRepository(pool *pgxpool.Pool) *PgxProjectRepository {
	return &PgxProjectRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.ProjectRepositoryFacade = (*PgxProjectRepository)(nil)

const projectSelectQuery = `
SELECT
	p.project_id, p.workspace_id, p.name, p.description, p.due_date, p.budget, p.archived_at,
	p.created_at, p.created_by, p.last_updated_at, p.last_updated_by
FROM projects p
`

const projectMembershipSelectQuery = `
SELECT pm.project_id, pm.user_id, pm.role, pm.joined_at
FROM project_memberships pm
`

func (r *PgxProjectRepository) getProjects(ctx context.Context, filterQuery string, args ...any) ([]domain.Project, error) {
	rows, err := r.Pool.Query(ctx, projectSelectQuery+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query projects", err)
	}
	defer rows.Close()

	modelProjects, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Project])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect project rows", err)
	}
	return mapping.ToDomainProjectSlice(modelProjects), nil
}

func (r *PgxProjectRepository) FindProjectByID(ctx context.Context, projectID string) (*domain.Project, error) {
	projects, err := r.getProjects(ctx, `WHERE p.project_id = $1`, projectID)
	if err != nil {
		return nil, err
	}
	if len(projects) == 0 {
		return nil, apperrors.NewNotFoundError("project not found")
	}
	return &projects[0], nil
}

// ListProjects applies the visibility scope as a WHERE clause.
func (r *PgxProjectRepository) ListProjects(ctx context.Context, scope domain.ProjectScope) ([]domain.Project, error) {
	where := projectScopeWhere(scope)
	return r.getProjects(ctx, where.String()+" ORDER BY p.name, p.project_id;", where.args...)
}

func (r *PgxProjectRepository) UpdateProject(ctx context.Context, project domain.Project) error {
	m := mapping.ToModelProject(project)
	ct, err := r.Pool.Exec(ctx, `
		UPDATE projects
		SET name = $1, description = $2, due_date = $3, budget = $4, last_updated_at = $5, last_updated_by = $6
		WHERE project_id = $7;`,
		m.Name, m.Description, m.DueDate, m.Budget, m.LastUpdatedAt, m.LastUpdatedBy, m.ProjectID,
	)
	if err != nil {
		return mapWriteError(err, "failed to update project "+project.ProjectID)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("project not found")
	}
	return nil
}

func (r *PgxProjectRepository) SetProjectArchivedAt(ctx context.Context, projectID string, archivedAt *time.Time, userID string, now time.Time) error {
	ct, err := r.Pool.Exec(ctx, `
		UPDATE projects
		SET archived_at = $1, last_updated_at = $2, last_updated_by = $3
		WHERE project_id = $4;`,
		archivedAt, now, userID, projectID,
	)
	if err != nil {
		return mapWriteError(err, "failed to update archive state of project "+projectID)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("project not found")
	}
	return nil
}

func (r *PgxProjectRepository) UpsertProjectMembership(ctx context.Context, membership domain.ProjectMembership) error {
	return upsertProjectMembership(ctx, r.Pool, membership)
}

func (r *PgxProjectRepository) FindProjectMembership(ctx context.Context, userID, projectID string) (*domain.ProjectMembership, error) {
	memberships, err := r.getMemberships(ctx, `WHERE pm.user_id = $1 AND pm.project_id = $2`, userID, projectID)
	if err != nil {
		return nil, err
	}
	if len(memberships) == 0 {
		return nil, apperrors.NewNotFoundError("project membership not found")
	}
	return &memberships[0], nil
}

func (r *PgxProjectRepository) DeleteProjectMembership(ctx context.Context, userID, projectID string) error {
	ct, err := r.Pool.Exec(ctx, `DELETE FROM project_memberships WHERE user_id = $1 AND project_id = $2;`, userID, projectID)
	if err != nil {
		return mapWriteError(err, "failed to remove user "+userID+" from project "+projectID)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("project membership not found")
	}
	return nil
}

func (r *PgxProjectRepository) ListProjectMemberships(ctx context.Context, projectID string) ([]domain.ProjectMembership, error) {
	return r.getMemberships(ctx, `WHERE pm.project_id = $1 ORDER BY pm.joined_at, pm.user_id;`, projectID)
}

func (r *PgxProjectRepository) getMemberships(ctx context.Context, filterQuery string, args ...any) ([]domain.ProjectMembership, error) {
	rows, err := r.Pool.Query(ctx, projectMembershipSelectQuery+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query project memberships", err)
	}
	defer rows.Close()

	modelMemberships, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.ProjectMembership])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect project membership rows", err)
	}
	return mapping.ToDomainProjectMembershipSlice(modelMemberships), nil
}

// insertProject is shared with the board transaction, which creates a project together
// with its system groups.
func insertProject(ctx context.Context, db execer, project domain.Project) error {
	m := mapping.ToModelProject(project)
	_, err := db.Exec(ctx, `
		INSERT INTO projects (
			project_id, workspace_id, name, description, due_date, budget, archived_at,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);`,
		m.ProjectID, m.WorkspaceID, m.Name, m.Description, m.DueDate, m.Budget, m.ArchivedAt,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, "failed to save project "+project.ProjectID)
	}
	return nil
}

func upsertProjectMembership(ctx context.Context, db execer, membership domain.ProjectMembership) error {
	_, err := db.Exec(ctx, `
		INSERT INTO project_memberships (project_id, user_id, role, joined_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (project_id, user_id) DO UPDATE SET role = EXCLUDED.role;`,
		membership.ProjectID, membership.UserID, string(membership.Role), membership.JoinedAt,
	)
	if err != nil {
		return mapWriteError(err, "failed to add/update user "+membership.UserID+" in project "+membership.ProjectID)
	}
	return nil
}
