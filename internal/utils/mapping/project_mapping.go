package mapping

import (
	"github.com/SscSPs/taskboard_app/internal/core/domain"
	"github.com/SscSPs/taskboard_app/internal/models"
	"github.com/shopspring/decimal"
)

// ToModelProject converts a domain Project to a model Project
func ToModelProject(d domain.Project) models.Project {
	m := models.Project{
		ProjectID:   d.ProjectID,
		WorkspaceID: d.WorkspaceID,
		Name:        d.Name,
		Description: d.Description,
		DueDate:     d.DueDate,
		ArchivedAt:  d.State.ArchivedAt(),
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
	if d.Budget != nil {
		m.Budget = decimal.NewNullDecimal(*d.Budget)
	}
	return m
}

// ToDomainProject converts a model Project to a domain Project
func ToDomainProject(m models.Project) domain.Project {
	d := domain.Project{
		ProjectID:   m.ProjectID,
		WorkspaceID: m.WorkspaceID,
		Name:        m.Name,
		Description: m.Description,
		DueDate:     m.DueDate,
		State:       domain.ArchiveStateFrom(m.ArchivedAt),
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
	if m.Budget.Valid {
		budget := m.Budget.Decimal
		d.Budget = &budget
	}
	return d
}

// ToDomainProjectSlice converts a slice of model Projects to a slice of domain Projects
func ToDomainProjectSlice(ms []models.Project) []domain.Project {
	ds := make([]domain.Project, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainProject(m)
	}
	return ds
}

func ToDomainProjectMembership(m models.ProjectMembership) domain.ProjectMembership {
	return domain.ProjectMembership{
		ProjectID: m.ProjectID,
		UserID:    m.UserID,
		Role:      domain.Role(m.Role),
		JoinedAt:  m.JoinedAt,
	}
}

func ToDomainProjectMembershipSlice(ms []models.ProjectMembership) []domain.ProjectMembership {
	ds := make([]domain.ProjectMembership, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainProjectMembership(m)
	}
	return ds
}
