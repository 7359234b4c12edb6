package mapping

import (
	"github.com/SscSPs/taskboard_app/internal/core/domain"
	"github.com/SscSPs/taskboard_app/internal/models"
)

// ToModelWorkspace converts a domain Workspace to a model Workspace
func ToModelWorkspace(d domain.Workspace) models.Workspace {
	return models.Workspace{
		WorkspaceID: d.WorkspaceID,
		Name:        d.Name,
		Description: d.Description,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainWorkspace converts a model Workspace to a domain Workspace
func ToDomainWorkspace(m models.Workspace) domain.Workspace {
	return domain.Workspace{
		WorkspaceID: m.WorkspaceID,
		Name:        m.Name,
		Description: m.Description,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainWorkspaceSlice converts a slice of model Workspaces to a slice of domain Workspaces
func ToDomainWorkspaceSlice(ms []models.Workspace) []domain.Workspace {
	ds := make([]domain.Workspace, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainWorkspace(m)
	}
	return ds
}

func ToDomainWorkspaceMembership(m models.WorkspaceMembership) domain.WorkspaceMembership {
	return domain.WorkspaceMembership{
		WorkspaceID: m.WorkspaceID,
		UserID:      m.UserID,
		Role:        domain.Role(m.Role),
		JoinedAt:    m.JoinedAt,
	}
}

func ToDomainWorkspaceMembershipSlice(ms []models.WorkspaceMembership) []domain.WorkspaceMembership {
	ds := make([]domain.WorkspaceMembership, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainWorkspaceMembership(m)
	}
	return ds
}
