package services

import (
	portsrepo "github.com/SscSPs/taskboard_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/taskboard_app/internal/core/ports/services"
	"github.com/SscSPs/taskboard_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, publisher portssvc.EventPublisher) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	opts := []ServiceOption{
		WithEventPublisher(publisher),
		WithWriteRetries(cfg.BoardWriteRetries),
	}
	filter := VisibilityFilter{HideTasksFromClients: cfg.HideTasksFromClients}

	container.Workspace = NewWorkspaceService(repos.WorkspaceRepo, opts...)

	// The resolver is shared by every project-scoped service
	container.Access = NewAccessService(repos.WorkspaceRepo, repos.ProjectRepo, repos.ProjectRepo, opts...)

	container.Project = NewProjectService(repos.ProjectRepo, repos.BoardRepo, container.Access, filter, opts...)
	container.TaskGroup = NewTaskGroupService(repos.BoardRepo, container.Access, filter, opts...)
	container.Task = NewTaskService(repos.BoardRepo, container.Access, filter, opts...)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.WorkspaceSvcFacade = (*workspaceService)(nil)
	_ portssvc.ProjectSvcFacade   = (*projectService)(nil)
	_ portssvc.TaskGroupSvc       = (*taskGroupService)(nil)
	_ portssvc.TaskSvc            = (*taskService)(nil)
)
