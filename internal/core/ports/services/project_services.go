package services

import (
	"context"
	"time"

	"github.com/SscSPs/taskboard_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateProjectInput carries the fields of a new project.
type CreateProjectInput struct {
	Name        string
	Description string
	DueDate     *time.Time
	Budget      *decimal.Decimal
}

// UpdateProjectInput patches a project; nil fields are left unchanged.
type UpdateProjectInput struct {
	Name        *string
	Description *string
	DueDate     *time.Time
	ClearDue    bool
	Budget      *decimal.Decimal
}

// ProjectReaderSvc defines read operations for project data
type ProjectReaderSvc interface {
	// GetProject returns a project visible to the caller.
	GetProject(ctx context.Context, rc domain.RequestContext, projectID string) (*domain.Project, error)

	// ListProjects returns the projects of the workspace visible to the caller.
	ListProjects(ctx context.Context, rc domain.RequestContext) ([]domain.Project, error)

	// ListProjectMembers returns the project team.
	ListProjectMembers(ctx context.Context, rc domain.RequestContext, projectID string) ([]domain.ProjectMembership, error)
}

// ProjectWriterSvc defines write operations for project data
type ProjectWriterSvc interface {
	// CreateProject persists a project and its three system groups atomically.
	CreateProject(ctx context.Context, rc domain.RequestContext, in CreateProjectInput) (*domain.Project, []domain.TaskGroup, error)

	// UpdateProject patches a project. Admin only.
	UpdateProject(ctx context.Context, rc domain.RequestContext, projectID string, in UpdateProjectInput) (*domain.Project, error)

	// ArchiveProject soft-deletes a project. Admin only.
	ArchiveProject(ctx context.Context, rc domain.RequestContext, projectID string) error

	// RestoreProject reverses ArchiveProject. Admin only.
	RestoreProject(ctx context.Context, rc domain.RequestContext, projectID string) error
}

// ProjectMembershipSvc manages the project team.
type ProjectMembershipSvc interface {
	// AddProjectMember puts a workspace member on the project team. Admin only.
	AddProjectMember(ctx context.Context, rc domain.RequestContext, projectID, targetUserID string, role domain.Role) error

	// RemoveProjectMember takes a user off the project team. Admin only.
	RemoveProjectMember(ctx context.Context, rc domain.RequestContext, projectID, targetUserID string) error
}

// ProjectSvcFacade combines all project-related service interfaces
type ProjectSvcFacade interface {
	ProjectReaderSvc
	ProjectWriterSvc
	ProjectMembershipSvc
}
