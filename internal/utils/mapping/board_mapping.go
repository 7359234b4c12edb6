package mapping

import (
	"github.com/SscSPs/taskboard_app/internal/core/domain"
	"github.com/SscSPs/taskboard_app/internal/models"
)

// ToModelTaskGroup converts a domain TaskGroup to a model TaskGroup
func ToModelTaskGroup(d domain.TaskGroup) models.TaskGroup {
	return models.TaskGroup{
		GroupID:     d.GroupID,
		ProjectID:   d.ProjectID,
		Name:        d.Name,
		GroupType:   string(d.Type),
		Position:    d.Position,
		ArchivedAt:  d.State.ArchivedAt(),
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTaskGroup converts a model TaskGroup to a domain TaskGroup
func ToDomainTaskGroup(m models.TaskGroup) domain.TaskGroup {
	return domain.TaskGroup{
		GroupID:     m.GroupID,
		ProjectID:   m.ProjectID,
		Name:        m.Name,
		Type:        domain.GroupType(m.GroupType),
		Position:    m.Position,
		State:       domain.ArchiveStateFrom(m.ArchivedAt),
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

func ToDomainTaskGroupSlice(ms []models.TaskGroup) []domain.TaskGroup {
	ds := make([]domain.TaskGroup, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTaskGroup(m)
	}
	return ds
}

// ToModelTask converts a domain Task to a model Task
func ToModelTask(d domain.Task) models.Task {
	return models.Task{
		TaskID:             d.TaskID,
		ProjectID:          d.ProjectID,
		GroupID:            d.GroupID,
		Name:               d.Name,
		Description:        d.Description,
		AssignedToUserID:   d.AssignedToUserID,
		CreatedByUserID:    d.CreatedByUserID,
		OrderColumn:        d.OrderColumn,
		CompletedAt:        d.CompletedAt,
		CompletionOverride: d.CompletionOverride,
		HiddenFromClients:  d.HiddenFromClients,
		Priority:           string(d.Priority),
		DueOn:              d.DueOn,
		ArchivedAt:         d.State.ArchivedAt(),
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTask converts a model Task to a domain Task
func ToDomainTask(m models.Task) domain.Task {
	return domain.Task{
		TaskID:             m.TaskID,
		ProjectID:          m.ProjectID,
		GroupID:            m.GroupID,
		Name:               m.Name,
		Description:        m.Description,
		AssignedToUserID:   m.AssignedToUserID,
		CreatedByUserID:    m.CreatedByUserID,
		OrderColumn:        m.OrderColumn,
		CompletedAt:        m.CompletedAt,
		CompletionOverride: m.CompletionOverride,
		HiddenFromClients:  m.HiddenFromClients,
		Priority:           domain.TaskPriority(m.Priority),
		DueOn:              m.DueOn,
		State:              domain.ArchiveStateFrom(m.ArchivedAt),
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}
}

func ToDomainTaskSlice(ms []models.Task) []domain.Task {
	ds := make([]domain.Task, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTask(m)
	}
	return ds
}
