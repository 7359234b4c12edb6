package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/taskboard_app/internal/core/domain"
)

// ProjectReader defines read operations for project data
type ProjectReader interface {
	// FindProjectByID retrieves a project regardless of its archive state.
	FindProjectByID(ctx context.Context, projectID string) (*domain.Project, error)

	// ListProjects returns the projects matched by scope, ordered by name.
	ListProjects(ctx context.Context, scope domain.ProjectScope) ([]domain.Project, error)
}

// ProjectWriter defines write operations on an existing project row.
// Creation goes through BoardTx so the system groups are seeded atomically.
type ProjectWriter interface {
	// UpdateProject updates name, description, due date and budget.
	UpdateProject(ctx context.Context, project domain.Project) error

	// SetProjectArchivedAt persists the archive state of a project.
	SetProjectArchivedAt(ctx context.Context, projectID string, archivedAt *time.Time, userID string, now time.Time) error
}

// ProjectMembershipStore persists the (project, user) -> role rows.
type ProjectMembershipStore interface {
	// UpsertProjectMembership adds a user to a project team or changes their project role.
	UpsertProjectMembership(ctx context.Context, membership domain.ProjectMembership) error

	// FindProjectMembership returns apperrors.ErrNotFound when the user is not on the team.
	FindProjectMembership(ctx context.Context, userID, projectID string) (*domain.ProjectMembership, error)

	// DeleteProjectMembership removes the membership row.
	DeleteProjectMembership(ctx context.Context, userID, projectID string) error

	// ListProjectMemberships lists the project team.
	ListProjectMemberships(ctx context.Context, projectID string) ([]domain.ProjectMembership, error)
}

// ProjectRepositoryFacade combines all project-related repository interfaces
type ProjectRepositoryFacade interface {
	ProjectReader
	ProjectWriter
	ProjectMembershipStore
}
